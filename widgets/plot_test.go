package widgets

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go-midimon/theme"
)

var bars = []rune{' ', '1', '2', '3', '4'}

func TestSparkline(t *testing.T) {
	tests := []struct {
		values []float64
		width  int
		want   string
	}{
		{[]float64{0, 0.5, 1}, 3, " 24"},
		{[]float64{1}, 4, "   4"},
		{[]float64{0.25, 0.5, 0.75, 1}, 2, "34"},
		{[]float64{-1, 2}, 2, " 4"},
		{nil, 0, ""},
	}
	for _, tt := range tests {
		if got := Sparkline(tt.values, tt.width, bars); got != tt.want {
			t.Errorf("Sparkline(%v, %d) = %q, want %q", tt.values, tt.width, got, tt.want)
		}
	}
}

func TestRenderPlot(t *testing.T) {
	th := theme.New(theme.DefaultPalette())
	out := RenderPlot(th, 0, "CC1 ch1", []float64{0, 1}, 10)
	if !strings.Contains(out, "CC1 ch1") || !strings.Contains(out, "100%") {
		t.Errorf("RenderPlot = %q", out)
	}
	if utf8.RuneCountInString(Sparkline([]float64{0, 1}, 10, th.Symbols.Bars)) != 10 {
		t.Error("sparkline not padded to width")
	}
}
