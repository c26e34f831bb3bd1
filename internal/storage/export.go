package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

type ExportData struct {
	ID           string             `json:"id"`
	System       string             `json:"system"`
	Optimizer    string             `json:"optimizer"`
	Threshold    float64            `json:"threshold"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Iterations   int                `json:"iterations"`
	Converged    bool               `json:"converged"`
	Equations    []string           `json:"equations,omitempty"`
	Terms        []string           `json:"terms"`
	Channels     []string           `json:"channels"`
	Coefficients [][]float64        `json:"coefficients"`
	Metrics      map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as a single self-describing JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, terms []string, xi mat.Matrix) error {
	rows, cols := xi.Dims()
	if len(terms) != rows {
		return fmt.Errorf("%w: %d labels, %d rows", ErrTermCount, len(terms), rows)
	}

	data := ExportData{
		ID:           meta.ID,
		System:       meta.System,
		Optimizer:    meta.Optimizer,
		Threshold:    meta.Threshold,
		Dt:           meta.Dt,
		Duration:     meta.Duration,
		Iterations:   meta.Iterations,
		Converged:    meta.Converged,
		Equations:    meta.Equations,
		Terms:        terms,
		Channels:     make([]string, cols),
		Coefficients: make([][]float64, rows),
		Metrics:      meta.Metrics,
	}

	for j := 0; j < cols; j++ {
		data.Channels[j] = fmt.Sprintf("dx%d", j)
	}
	for i := 0; i < rows; i++ {
		data.Coefficients[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			data.Coefficients[i][j] = xi.At(i, j)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
