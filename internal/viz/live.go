package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/metrics"
	"github.com/san-kum/heliosim/internal/physics"
)

const (
	laneWidth       = 24
	laneHeight      = 10
	historyCapacity = 300
	trailCapacity   = 400
	frameInterval   = time.Second / 30
	// floor for the log-scaled error chart
	errorFloor = 1e-16
)

var chartColors = []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Yellow, asciigraph.Green}

type TickMsg time.Time

// lane is one scheme advancing its own copy of the state.
type lane struct {
	scheme integrators.Scheme
	integ  dynamo.Integrator
	state  dynamo.State
	drift  *metrics.EnergyDrift
	trail  [][2]float64
	errors []float64 // log10 relative energy error
	failed error
}

// LiveModel steps every scheme from the same initial state and shows the
// orbits next to a shared energy error chart.
type LiveModel struct {
	consts       physics.Constants
	kepler       *physics.Kepler
	x0           dynamo.State
	lanes        []*lane
	t            float64
	steps        int
	stepsPerTick int
	running      bool
}

func NewLiveModel(c physics.Constants, x0 dynamo.State, stepsPerTick int) (LiveModel, error) {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	m := LiveModel{
		consts:       c,
		kepler:       physics.NewKepler(c),
		x0:           x0,
		stepsPerTick: stepsPerTick,
		running:      true,
	}
	for _, s := range integrators.Schemes() {
		integ, err := integrators.New(s)
		if err != nil {
			return LiveModel{}, err
		}
		drift, err := metrics.NewEnergyDrift(m.kepler, x0)
		if err != nil {
			return LiveModel{}, err
		}
		m.lanes = append(m.lanes, &lane{scheme: s, integ: integ, state: x0, drift: drift})
	}
	m.reset()
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, 256)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		}
	case TickMsg:
		if m.running {
			for range m.stepsPerTick {
				m.advance()
			}
		}
		return m, tick()
	}
	return m, nil
}

// advance takes one step in every lane that has not failed. The energy
// error is recorded for the state before the step.
func (m *LiveModel) advance() {
	for _, l := range m.lanes {
		if l.failed != nil {
			continue
		}
		if m.record(l); l.failed != nil {
			continue
		}
		next, err := l.integ.Step(m.kepler, m.t, l.state, m.consts.H)
		if err != nil {
			l.failed = err
			continue
		}
		l.state = next
	}
	m.t += m.consts.H
	m.steps++
}

func (m *LiveModel) record(l *lane) {
	rel, err := l.drift.RelativeError(l.state)
	if err != nil {
		l.failed = err
		return
	}
	l.drift.Observe(m.t, l.state)
	l.errors = appendBounded(l.errors, math.Log10(rel+errorFloor), historyCapacity)

	x, y := m.consts.Cartesian(l.state)
	l.trail = appendBounded(l.trail, [2]float64{x, y}, trailCapacity)
}

func appendBounded[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[len(s)-capacity:]
	}
	return s
}

func (m *LiveModel) reset() {
	m.t = 0
	m.steps = 0
	for _, l := range m.lanes {
		l.state = m.x0
		l.failed = nil
		l.trail = l.trail[:0]
		l.errors = l.errors[:0]
		l.drift.Reset()
	}
}

func (m LiveModel) View() string {
	// apoapsis is within a few percent of the periapsis for near-circular
	// orbits; leave room for the explicit Euler spiral
	vp := Square(m.consts.RadiusAU(1) * 1.6)

	panels := make([]string, 0, len(m.lanes))
	for _, l := range m.lanes {
		c := NewCanvas(laneWidth, laneHeight)
		c.Point(vp, 0, 0)
		c.Path(vp, l.trail)

		var b strings.Builder
		b.WriteString(SchemeStyle(l.scheme).Render(l.scheme.Label()) + "\n")
		b.WriteString(c.String())
		if l.failed != nil {
			b.WriteString(ErrorText.Render("stopped"))
		} else {
			b.WriteString(Label.Render("max dE ") + Value.Render(fmt.Sprintf("%.2e", l.drift.Value())))
		}
		panels = append(panels, Panel.Render(b.String()))
	}

	var s strings.Builder
	s.WriteString(Title.Render("HELIOSIM LIVE") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s  day %.1f  step %d  x%d\n\n",
		status, m.consts.UnitsToDays(m.t), m.steps, m.stepsPerTick))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...) + "\n")

	if series := m.series(); series != nil {
		chart := asciigraph.PlotMany(series,
			asciigraph.Height(8),
			asciigraph.Width(3*laneWidth),
			asciigraph.SeriesColors(chartColors[:len(series)]...),
			asciigraph.Caption("log10 relative energy error"))
		s.WriteString(chart + "\n")
	}
	s.WriteString(Subtle.Render("SP:Pause  R:Reset  +/-:Speed  Q:Quit"))
	return s.String()
}

// series returns the error histories with at least two points, or nil.
func (m LiveModel) series() [][]float64 {
	var out [][]float64
	for _, l := range m.lanes {
		if len(l.errors) < 2 {
			return nil
		}
		out = append(out, l.errors)
	}
	return out
}

// Run starts the interactive viewer on the terminal.
func Run(m LiveModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
