package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-midimon/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DeviceEvent is emitted when inputs connect/disconnect
type DeviceEvent struct {
	Type   DeviceEventType
	Source Source
	ID     string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

func (t DeviceEventType) String() string {
	if t == DeviceConnected {
		return "connected"
	}
	return "disconnected"
}

// OptionsFunc picks the decode options for a newly seen port, or reports
// false to leave the port alone
type OptionsFunc func(portName string) (InputOptions, bool)

// DeviceManager handles hot-plug detection of MIDI inputs. Each port that
// (re)appears gets a fresh Input and therefore a fresh parser.
type DeviceManager struct {
	sources  map[string]Source
	mu       sync.RWMutex
	events   chan DeviceEvent
	pollRate time.Duration
	options  OptionsFunc

	listPorts func() []drivers.In
	open      func(id string, in drivers.In, opts InputOptions) (Source, error)
}

// NewDeviceManager creates a device manager that opens every port
// options accepts
func NewDeviceManager(options OptionsFunc) *DeviceManager {
	if options == nil {
		options = func(string) (InputOptions, bool) { return InputOptions{}, true }
	}
	return &DeviceManager{
		sources:  make(map[string]Source),
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
		options:  options,
		listPorts: func() []drivers.In {
			return gomidi.GetInPorts()
		},
		open: func(id string, in drivers.In, opts InputOptions) (Source, error) {
			return NewInput(id, in, opts)
		},
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Sources returns a snapshot of connected inputs
func (dm *DeviceManager) Sources() map[string]Source {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	copy := make(map[string]Source, len(dm.sources))
	for k, v := range dm.sources {
		copy[k] = v
	}
	return copy
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

func (dm *DeviceManager) scan(ctx context.Context) {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- dm.listPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		debug.Log("devices", "port scan timed out")
		return
	case <-ctx.Done():
		return
	}

	seenIDs := make(map[string]bool)

	for _, inPort := range inPorts {
		id := inPort.String()
		opts, ok := dm.options(id)
		if !ok {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.sources[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		src, err := dm.open(id, inPort, opts)
		if err != nil {
			debug.Log("devices", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.sources[id] = src
		dm.mu.Unlock()

		dm.emit(ctx, DeviceEvent{Type: DeviceConnected, Source: src, ID: id})
	}

	// Check for disconnects
	dm.mu.Lock()
	var gone []string
	for id, src := range dm.sources {
		if !seenIDs[id] {
			src.Close()
			delete(dm.sources, id)
			gone = append(gone, id)
		}
	}
	dm.mu.Unlock()

	for _, id := range gone {
		dm.emit(ctx, DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
}

func (dm *DeviceManager) emit(ctx context.Context, ev DeviceEvent) {
	debug.Log("devices", "%s %s", ev.ID, ev.Type)
	select {
	case dm.events <- ev:
	case <-ctx.Done():
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, s := range dm.sources {
		s.Close()
	}
	dm.sources = make(map[string]Source)
}

// MatchPort reports whether a port name matches any of the given
// patterns, ignoring case. An empty pattern list matches every port.
func MatchPort(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, p := range patterns {
		if p != "" && strings.Contains(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
