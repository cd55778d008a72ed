package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heliosim/internal/integrators"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	ErrorText = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	headerCell = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			PaddingRight(2)

	bodyCell = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingRight(2)
)

var schemeColors = map[integrators.Scheme]lipgloss.Color{
	integrators.SchemeExplicitEuler:     lipgloss.Color("203"),
	integrators.SchemeSemiImplicitEuler: lipgloss.Color("221"),
	integrators.SchemeRK4:               lipgloss.Color("49"),
}

// SchemeStyle colors output belonging to one scheme.
func SchemeStyle(s integrators.Scheme) lipgloss.Style {
	c, ok := schemeColors[s]
	if !ok {
		c = lipgloss.Color("252")
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// Table renders rows under headers with left-aligned, padded columns.
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	line := func(style lipgloss.Style, cells []string) {
		out := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			out[i] = style.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString(strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, out...), " "))
		b.WriteByte('\n')
	}
	line(headerCell, headers)
	for _, row := range rows {
		line(bodyCell, row)
	}
	return b.String()
}

// Sparkline renders values as one row of block characters, resampled to
// width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	n := min(width, len(values))
	out := make([]rune, n)
	for i := range out {
		v := values[i*len(values)/n]
		idx := int((v - lo) / rng * float64(len(chars)-1))
		out[i] = chars[min(max(idx, 0), len(chars)-1)]
	}
	return string(out)
}
