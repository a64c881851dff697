package monitor

import (
	"fmt"

	"go-midimon/config"
	"go-midimon/midi"
)

// PlotCapacity is how many samples each plot keeps
const PlotCapacity = 512

// Plot follows one continuous controller value over time. Values are
// normalized to 0-1.
type Plot struct {
	Title  string
	source config.PlotConfig
	values *ring[float64]
}

// NewPlot creates an empty plot for the given source
func NewPlot(src config.PlotConfig) *Plot {
	return &Plot{
		Title:  plotTitle(src),
		source: src,
		values: newRing[float64](PlotCapacity),
	}
}

func plotTitle(src config.PlotConfig) string {
	switch src.Kind {
	case config.PlotControl:
		return fmt.Sprintf("CC%d ch%d", src.Controller, src.Channel+1)
	case config.PlotPitchBend:
		return fmt.Sprintf("Bend ch%d", src.Channel+1)
	case config.PlotPressure:
		return fmt.Sprintf("Pressure ch%d", src.Channel+1)
	}
	return string(src.Kind)
}

// Observe appends a sample if msg carries this plot's value, and reports
// whether it did
func (p *Plot) Observe(msg midi.Message) bool {
	if !msg.Type.IsChannel() || int(msg.Channel) != p.source.Channel {
		return false
	}
	switch {
	case p.source.Kind == config.PlotControl && msg.Type == midi.ControlChange:
		if int(msg.Data1) != p.source.Controller {
			return false
		}
		p.values.push(float64(msg.Data2) / 127)
	case p.source.Kind == config.PlotPitchBend && msg.Type == midi.PitchBend:
		p.values.push((float64(msg.PitchBend()) + 8192) / 16383)
	case p.source.Kind == config.PlotPressure && msg.Type == midi.ChannelPressure:
		p.values.push(float64(msg.Data1) / 127)
	default:
		return false
	}
	return true
}

// Values returns the samples oldest first
func (p *Plot) Values() []float64 {
	return p.values.items()
}

// Last returns the newest sample, if any
func (p *Plot) Last() (float64, bool) {
	return p.values.last()
}

func (p *Plot) clear() {
	p.values.clear()
}
