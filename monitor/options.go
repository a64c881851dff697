package monitor

import (
	"go-midimon/config"
	"go-midimon/midi"
)

// InputOptions maps the config onto per-port decode options. With no
// inputs configured every port is opened; otherwise only auto-connect
// inputs whose name matches a port are.
func InputOptions(cfg *config.Config) midi.OptionsFunc {
	return func(portName string) (midi.InputOptions, bool) {
		opts := midi.InputOptions{
			CaptureSysEx: cfg.SysEx.Capture,
			SysExLimit:   cfg.SysEx.Limit,
		}
		if len(cfg.Inputs) == 0 {
			return opts, true
		}
		for _, in := range cfg.AutoConnectInputs() {
			if !midi.MatchPort(portName, []string{in.PortName}) {
				continue
			}
			for _, ch := range in.Channels {
				opts.Channels = append(opts.Channels, uint8(ch))
			}
			return opts, true
		}
		return opts, false
	}
}
