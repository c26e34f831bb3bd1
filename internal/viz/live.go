package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sparsedyn/internal/dynamo"
	"github.com/san-kum/sparsedyn/internal/library"
	"github.com/san-kum/sparsedyn/internal/quality"
	"github.com/san-kum/sparsedyn/internal/sparse"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
	renderTol       = 1e-10
)

type TickMsg time.Time

type styleSet struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	active lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

func newStyles(t Theme) styleSet {
	return styleSet{
		canvas:  lipgloss.NewStyle().Padding(1, 2),
		stats:   lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(52),
		header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:   lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(2),
		success: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		failure: lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}

// Model drives one sparse fit interactively, advancing the optimizer a
// single step per tick so convergence is watchable. The left pane shows a
// phase portrait of the training trajectory, the right pane the fit state
// and the equations as they form.
type Model struct {
	system string
	opt    sparse.Optimizer
	theta  mat.Matrix
	y      mat.Matrix
	names  []string
	traj   *dynamo.Trajectory

	xi        *mat.Dense
	iter      int
	running   bool
	converged bool
	err       error

	residuals []float64
	canvas    *Canvas
	pairs     [][2]int
	pair      int
	styles    styleSet
	showHelp  bool
}

// NewModel seeds the optimizer on theta and y and prepares the view. An
// initialization failure is kept on the model and shown instead of fit
// progress.
func NewModel(system string, traj *dynamo.Trajectory, names []string, theta, y mat.Matrix, opt sparse.Optimizer) Model {
	m := Model{
		system:    system,
		opt:       opt,
		theta:     theta,
		y:         y,
		names:     names,
		traj:      traj,
		xi:        &mat.Dense{},
		running:   true,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		pairs:     axisPairs(traj),
		styles:    newStyles(CurrentTheme),
		residuals: make([]float64, 0, historyCapacity),
	}
	m.err = opt.Init(theta, y, m.xi)
	if m.err == nil {
		m.recordResidual()
	}
	return m
}

// axisPairs lists the channel pairs the phase portrait can cycle through.
// One-dimensional systems plot the single channel against time.
func axisPairs(traj *dynamo.Trajectory) [][2]int {
	d := 0
	if traj != nil {
		d = traj.Dim()
	}
	if d < 2 {
		return [][2]int{{0, 0}}
	}
	var pairs [][2]int
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/20, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the fit.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "up", "k":
			m.opt.SetThreshold(m.opt.Threshold() * 1.05)
		case "down", "j":
			m.opt.SetThreshold(m.opt.Threshold() * 0.95)
		case "tab":
			m.pair = (m.pair + 1) % len(m.pairs)
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
			m.styles = newStyles(CurrentTheme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.converged && m.err == nil {
			m.step()
		}
		return m, tea.Tick(time.Second/20, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances the optimizer one iteration.
func (m *Model) step() {
	if err := m.opt.Step(m.xi); err != nil {
		m.err = err
		return
	}
	m.iter++
	m.converged = m.opt.Converged()
	m.recordResidual()
}

func (m *Model) recordResidual() {
	m.residuals = append(m.residuals, quality.Residual(m.theta, m.xi, m.y))
	if len(m.residuals) > historyCapacity {
		m.residuals = m.residuals[1:]
	}
}

// reset discards the coefficients and reseeds the optimizer, picking up any
// threshold changes made since the fit began.
func (m *Model) reset() {
	m.xi = &mat.Dense{}
	m.iter = 0
	m.converged = false
	m.residuals = m.residuals[:0]
	m.err = m.opt.Init(m.theta, m.y, m.xi)
	if m.err == nil {
		m.recordResidual()
	}
}

// draw renders the phase portrait for the selected axis pair.
func (m *Model) draw() {
	m.canvas.Clear()
	if m.traj == nil || m.traj.Len() < 2 {
		return
	}
	ax, ay := m.pairs[m.pair][0], m.pairs[m.pair][1]
	n := m.traj.Len()
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		if ax == ay {
			xs[i] = m.traj.Times[i]
		} else {
			xs[i] = m.traj.States[i][ax]
		}
		ys[i] = m.traj.States[i][ay]
	}
	minX, spanX := rangeOf(xs)
	minY, spanY := rangeOf(ys)
	cw, ch := canvasWidth*2, canvasHeight*4
	prevX, prevY := 0, 0
	for i := 0; i < n; i++ {
		px := int((xs[i] - minX) / spanX * float64(cw-1))
		py := ch - 1 - int((ys[i]-minY)/spanY*float64(ch-1))
		if i == 0 {
			m.canvas.Set(px, py)
		} else {
			m.canvas.DrawLine(prevX, prevY, px, py)
		}
		prevX, prevY = px, py
	}
}

func rangeOf(vs []float64) (min, span float64) {
	min, max := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span = max - min
	if span == 0 {
		span = 1
	}
	return min, span
}

func (m *Model) axisLabel() string {
	ax, ay := m.pairs[m.pair][0], m.pairs[m.pair][1]
	if ax == ay {
		return fmt.Sprintf("x%d over time", ay)
	}
	return fmt.Sprintf("x%d vs x%d", ax, ay)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.system)+" / "+strings.ToUpper(m.opt.Name())) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(m.styles.failure.Render("ERROR") + "\n" + m.err.Error() + "\n\n")
	case m.converged:
		s.WriteString(m.styles.success.Render(fmt.Sprintf("CONVERGED (%d steps)", m.iter)) + "\n\n")
	case !m.running:
		s.WriteString(m.styles.warning.Render("PAUSED") + "\n\n")
	default:
		s.WriteString("RUNNING\n\n")
	}

	if len(m.residuals) > 1 {
		chart := asciigraph.Plot(m.residuals, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Residual"))
		s.WriteString(m.styles.graph.Render(chart) + "\n\n")
	}

	s.WriteString(m.styles.label.Render("Iteration") + m.styles.value.Render(fmt.Sprintf("%d", m.iter)) + "\n")
	if len(m.residuals) > 0 {
		s.WriteString(m.styles.label.Render("Residual") + m.styles.value.Render(fmt.Sprintf("%.6g", m.residuals[len(m.residuals)-1])) + "\n")
	}
	s.WriteString(m.styles.label.Render("Threshold") + m.styles.active.Render(fmt.Sprintf("%.4g", m.opt.Threshold())) + "\n")
	if m.err == nil {
		s.WriteString(m.styles.label.Render("Terms") + m.styles.value.Render(fmt.Sprintf("%d", quality.NonZeros(m.xi))) + "\n")
		s.WriteString(m.styles.label.Render("Sparsity") + m.styles.value.Render(fmt.Sprintf("%.1f%%", 100*quality.Sparsity(m.xi))) + "\n")
	}
	s.WriteString(m.styles.label.Render("View") + m.styles.value.Render(m.axisLabel()) + "\n")

	if m.err == nil && len(m.names) > 0 {
		s.WriteString("\nEQUATIONS\n")
		_, channels := m.xi.Dims()
		for j := 0; j < channels; j++ {
			lhs := fmt.Sprintf("dx%d/dt", j)
			s.WriteString("  " + library.FormatEquation(lhs, m.names, mat.Col(nil, j, m.xi), renderTol) + "\n")
		}
	}

	s.WriteString(m.styles.help.Render("\n─────────────────────\nSP:Pause R:Restart Q:Quit\n↑↓:Threshold Tab:Axes\nT:Theme ?:Help"))
	statsView := m.styles.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume fitting     ║
║  R        - Restart the fit          ║
║  Up/K     - Raise threshold (+5%)    ║
║  Down/J   - Lower threshold (-5%)    ║
║  Tab      - Cycle phase axes         ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
