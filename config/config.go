package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PlotKind identifies which value a plot follows
type PlotKind string

const (
	PlotControl   PlotKind = "cc"
	PlotPitchBend PlotKind = "pitchbend"
	PlotPressure  PlotKind = "pressure"
)

// MaxPlots is how many plots the monitor can show at once
const MaxPlots = 8

// InputConfig defines a saved input port configuration
type InputConfig struct {
	PortName    string `json:"portName"`
	AutoConnect bool   `json:"autoConnect"`
	Channels    []int  `json:"channels,omitempty"` // 0-15, empty = all
}

// ThruConfig names the output port that echoes decoded messages
type ThruConfig struct {
	PortName string `json:"portName,omitempty"`
}

// SysExConfig controls SysEx payload capture
type SysExConfig struct {
	Capture bool `json:"capture"`
	Limit   int  `json:"limit,omitempty"`
}

// PlotConfig defines one plotted value
type PlotConfig struct {
	Kind       PlotKind `json:"kind"`
	Channel    int      `json:"channel"`
	Controller int      `json:"controller,omitempty"` // for cc plots
}

// UIConfig stores UI preferences
type UIConfig struct {
	LowestNote  int    `json:"lowestNote,omitempty"`
	HighestNote int    `json:"highestNote,omitempty"`
	LogLines    int    `json:"logLines,omitempty"`
	Palette     string `json:"palette,omitempty"` // GPL file
	HideClock   bool   `json:"hideClock,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Inputs []InputConfig `json:"inputs,omitempty"`
	Thru   ThruConfig    `json:"thru,omitempty"`
	SysEx  SysExConfig   `json:"sysex"`
	Plots  []PlotConfig  `json:"plots,omitempty"`
	UI     UIConfig      `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SysEx: SysExConfig{
			Capture: true,
			Limit:   256,
		},
		Plots: []PlotConfig{
			{Kind: PlotPitchBend, Channel: 0},
			{Kind: PlotControl, Channel: 0, Controller: 1},
		},
		UI: UIConfig{
			LowestNote:  36,
			HighestNote: 96,
			LogLines:    12,
			HideClock:   true,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-midimon"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, or returns defaults if it does not
// exist. Fields missing from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	for _, in := range c.Inputs {
		for _, ch := range in.Channels {
			if ch < 0 || ch > 15 {
				return fmt.Errorf("input %q: channel %d out of range 0-15", in.PortName, ch)
			}
		}
	}
	if len(c.Plots) > MaxPlots {
		return fmt.Errorf("%d plots configured, at most %d supported", len(c.Plots), MaxPlots)
	}
	for i, p := range c.Plots {
		switch p.Kind {
		case PlotControl, PlotPitchBend, PlotPressure:
		default:
			return fmt.Errorf("plot %d: unknown kind %q", i, p.Kind)
		}
		if p.Channel < 0 || p.Channel > 15 {
			return fmt.Errorf("plot %d: channel %d out of range 0-15", i, p.Channel)
		}
		if p.Controller < 0 || p.Controller > 127 {
			return fmt.Errorf("plot %d: controller %d out of range 0-127", i, p.Controller)
		}
	}
	if c.SysEx.Limit < 0 {
		return fmt.Errorf("sysex limit %d is negative", c.SysEx.Limit)
	}
	lo, hi := c.UI.LowestNote, c.UI.HighestNote
	if lo < 0 || hi > 127 || lo > hi {
		return fmt.Errorf("key range %d-%d invalid", lo, hi)
	}
	return nil
}

// FindInput finds an input config by port name
func (c *Config) FindInput(portName string) *InputConfig {
	for i := range c.Inputs {
		if c.Inputs[i].PortName == portName {
			return &c.Inputs[i]
		}
	}
	return nil
}

// AddInput adds or updates an input config
func (c *Config) AddInput(in InputConfig) {
	for i := range c.Inputs {
		if c.Inputs[i].PortName == in.PortName {
			c.Inputs[i] = in
			return
		}
	}
	c.Inputs = append(c.Inputs, in)
}

// AutoConnectInputs returns inputs with autoConnect enabled
func (c *Config) AutoConnectInputs() []InputConfig {
	var result []InputConfig
	for _, in := range c.Inputs {
		if in.AutoConnect {
			result = append(result, in)
		}
	}
	return result
}
