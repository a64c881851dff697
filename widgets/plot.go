package widgets

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"go-midimon/theme"
)

// Sparkline renders the newest width values (0-1) using bars, lowest bar
// first. Missing history is left blank.
func Sparkline(values []float64, width int, bars []rune) string {
	if width <= 0 || len(bars) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	out := make([]rune, 0, width)
	for i := len(values); i < width; i++ {
		out = append(out, ' ')
	}
	top := len(bars) - 1
	for _, v := range values {
		v = math.Max(0, math.Min(1, v))
		out = append(out, bars[int(math.Round(v*float64(top)))])
	}
	return string(out)
}

// RenderPlot renders one titled plot line in the color of its slot
func RenderPlot(th *theme.Theme, slot int, title string, values []float64, width int) string {
	titleStyle := lipgloss.NewStyle().Foreground(th.PlotColor(slot)).Width(14)
	barStyle := lipgloss.NewStyle().Foreground(th.PlotColor(slot))
	valueStyle := lipgloss.NewStyle().Foreground(th.Muted())

	last := "    -"
	if len(values) > 0 {
		last = fmt.Sprintf("%4.0f%%", values[len(values)-1]*100)
	}

	return titleStyle.Render(title) + barStyle.Render(Sparkline(values, width, th.Symbols.Bars)) + " " + valueStyle.Render(last)
}
