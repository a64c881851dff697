package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-midimon/config"
	"go-midimon/debug"
	"go-midimon/midi"
	"go-midimon/monitor"
	"go-midimon/theme"
	"go-midimon/tui"
)

func main() {
	verbose := flag.Bool("debug", false, "write ~/.config/go-midimon/debug.log")
	flag.Parse()

	if *verbose {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		defer debug.Disable()
	}

	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defer gomidi.CloseDriver()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	palette, err := theme.LoadOrDefault(cfg.UI.Palette)
	if err != nil {
		return err
	}
	th := theme.New(palette)

	mon := monitor.New(cfg)

	// Optional MIDI thru
	if cfg.Thru.PortName != "" {
		outPort, err := gomidi.FindOutPort(cfg.Thru.PortName)
		if err != nil {
			return fmt.Errorf("thru port %q: %w", cfg.Thru.PortName, err)
		}
		out, err := midi.NewOutput(outPort.String(), outPort)
		if err != nil {
			return err
		}
		defer out.Close()
		mon.SetThru(out)
	}

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(monitor.InputOptions(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	attach := func(src midi.Source) {
		go mon.Attach(ctx, src)
	}

	m := tui.NewModel(mon, deviceMgr, th, cfg, attach)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
