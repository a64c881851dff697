package monitor

import (
	"testing"

	"go-midimon/config"
	"go-midimon/midi"
)

func TestPlotObserve(t *testing.T) {
	tests := []struct {
		src  config.PlotConfig
		msg  midi.Message
		ok   bool
		want float64
	}{
		{config.PlotConfig{Kind: config.PlotPitchBend, Channel: 0}, midi.NewMessage(0xE0, 0, 0), true, 0},
		{config.PlotConfig{Kind: config.PlotPitchBend, Channel: 0}, midi.NewMessage(0xE0, 0x7F, 0x7F), true, 1},
		{config.PlotConfig{Kind: config.PlotPitchBend, Channel: 1}, midi.NewMessage(0xE0, 0, 0), false, 0},
		{config.PlotConfig{Kind: config.PlotControl, Channel: 0, Controller: 7}, midi.NewMessage(0xB0, 7, 0), true, 0},
		{config.PlotConfig{Kind: config.PlotControl, Channel: 0, Controller: 7}, midi.NewMessage(0xB0, 8, 0), false, 0},
		{config.PlotConfig{Kind: config.PlotPressure, Channel: 5}, midi.NewMessage(0xD5, 127), true, 1},
		{config.PlotConfig{Kind: config.PlotPressure, Channel: 0}, midi.NewMessage(0xF8), false, 0},
	}
	for i, tt := range tests {
		p := NewPlot(tt.src)
		if got := p.Observe(tt.msg); got != tt.ok {
			t.Errorf("%d: Observe = %v, want %v", i, got, tt.ok)
			continue
		}
		v, ok := p.Last()
		if ok != tt.ok {
			t.Errorf("%d: Last ok = %v", i, ok)
		}
		if ok && v != tt.want {
			t.Errorf("%d: Last = %v, want %v", i, v, tt.want)
		}
	}
}

func TestPlotTitle(t *testing.T) {
	if got := NewPlot(config.PlotConfig{Kind: config.PlotControl, Channel: 0, Controller: 74}).Title; got != "CC74 ch1" {
		t.Errorf("title = %q", got)
	}
	if got := NewPlot(config.PlotConfig{Kind: config.PlotPitchBend, Channel: 2}).Title; got != "Bend ch3" {
		t.Errorf("title = %q", got)
	}
}

func TestPlotCapacity(t *testing.T) {
	p := NewPlot(config.PlotConfig{Kind: config.PlotPressure})
	for i := 0; i < PlotCapacity+10; i++ {
		p.Observe(midi.NewMessage(0xD0, uint8(i%128)))
	}
	if got := len(p.Values()); got != PlotCapacity {
		t.Errorf("kept %d values, want %d", got, PlotCapacity)
	}
}
