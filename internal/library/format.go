package library

import (
	"fmt"
	"math"
	"strings"
)

// FormatEquation renders one output's coefficients against the term names,
// skipping entries with magnitude at or below tol:
//
//	dx0 = 1.0000*x0 - 0.1000*x2
//
// Coefficient and name counts must match; an all-zero row renders as
// "lhs = 0".
func FormatEquation(lhs string, names []string, coeffs []float64, tol float64) string {
	var b strings.Builder
	b.WriteString(lhs)
	b.WriteString(" = ")
	wrote := false
	for i, c := range coeffs {
		if math.Abs(c) <= tol {
			continue
		}
		name := ""
		if i < len(names) {
			name = names[i]
		}
		writeTerm(&b, c, name, wrote)
		wrote = true
	}
	if !wrote {
		b.WriteString("0")
	}
	return b.String()
}

func writeTerm(b *strings.Builder, c float64, name string, follows bool) {
	mag := math.Abs(c)
	switch {
	case follows && c < 0:
		b.WriteString(" - ")
	case follows:
		b.WriteString(" + ")
	case c < 0:
		b.WriteString("-")
	}
	if name == "" || name == "1" {
		fmt.Fprintf(b, "%.4f", mag)
		return
	}
	fmt.Fprintf(b, "%.4f*%s", mag, name)
}

// FormatImplicit renders a null-space relationship as an equation set to
// zero, e.g. "1.0000*z + 1.0000*z*x1 - 1.0000*x0 - 3.0000*x2 = 0".
func FormatImplicit(names []string, coeffs []float64, tol float64) string {
	var b strings.Builder
	wrote := false
	for i, c := range coeffs {
		if math.Abs(c) <= tol {
			continue
		}
		name := ""
		if i < len(names) {
			name = names[i]
		}
		writeTerm(&b, c, name, wrote)
		wrote = true
	}
	if !wrote {
		b.WriteString("0")
	}
	b.WriteString(" = 0")
	return b.String()
}
