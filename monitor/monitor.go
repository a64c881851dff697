package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-midimon/config"
	"go-midimon/debug"
	"go-midimon/midi"
)

// AllChannels selects every channel in Notes and Focus
const AllChannels = -1

// LogLine is one entry of the message log
type LogLine struct {
	Time    time.Time
	Source  string
	Message midi.Message
	Running bool
}

func (l LogLine) String() string {
	marker := " "
	if l.Running {
		marker = "r" // decoded through running status
	}
	return fmt.Sprintf("%s %s %-14s %s", l.Time.Format("15:04:05.000"), marker, l.Source, l.Message)
}

// SysExLine is one entry of the SysEx log
type SysExLine struct {
	Time   time.Time
	Source string
	Text   string
}

// Monitor collects decoded MIDI traffic for display: held notes, value
// plots, a message log and a SysEx log
type Monitor struct {
	mu sync.Mutex

	notes   [16][128]bool
	plots   []*Plot
	log     *ring[LogLine]
	sysex   *ring[SysExLine]
	counts  map[midi.Type]uint64
	focus   int
	skipRT  bool // hide timing clock and active sensing from the log
	thru    midi.Sender
	thruErr error

	now func() time.Time

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// New creates a monitor configured from cfg
func New(cfg *config.Config) *Monitor {
	lines := cfg.UI.LogLines
	if lines <= 0 {
		lines = 12
	}
	m := &Monitor{
		log:        newRing[LogLine](lines),
		sysex:      newRing[SysExLine](lines),
		counts:     make(map[midi.Type]uint64),
		focus:      AllChannels,
		skipRT:     cfg.UI.HideClock,
		now:        time.Now,
		UpdateChan: make(chan struct{}, 1),
	}
	for i, p := range cfg.Plots {
		if i >= config.MaxPlots {
			break
		}
		m.plots = append(m.plots, NewPlot(p))
	}
	return m
}

// SetThru sets where every decoded message is echoed to (nil disables)
func (m *Monitor) SetThru(s midi.Sender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thru = s
}

// Attach consumes src until its channels close or ctx is done (blocking -
// run in goroutine)
func (m *Monitor) Attach(ctx context.Context, src midi.Source) {
	events := src.Events()
	sysex := src.SysEx()
	for events != nil || sysex != nil {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			m.HandleEvent(ev)
		case ev, ok := <-sysex:
			if !ok {
				sysex = nil
				continue
			}
			m.HandleSysEx(ev)
		}
	}
	debug.Log("monitor", "source %s detached", src.ID())
}

// HandleEvent applies one decoded message
func (m *Monitor) HandleEvent(ev midi.Event) {
	m.mu.Lock()
	msg := ev.Message
	m.counts[msg.Type]++

	switch msg.Type {
	case midi.NoteOn:
		m.notes[msg.Channel&0x0F][msg.Data1&0x7F] = msg.Data2 > 0
	case midi.NoteOff:
		m.notes[msg.Channel&0x0F][msg.Data1&0x7F] = false
	case midi.ControlChange:
		// all sound off / all notes off
		if msg.Data1 == 120 || msg.Data1 == 123 {
			m.notes[msg.Channel&0x0F] = [128]bool{}
		}
	case midi.SystemReset:
		m.notes = [16][128]bool{}
	}

	for _, p := range m.plots {
		p.Observe(msg)
	}

	if !(m.skipRT && (msg.Type == midi.TimingClock || msg.Type == midi.ActiveSensing)) {
		m.log.push(LogLine{Time: m.now(), Source: ev.Source, Message: msg, Running: ev.Running})
	}

	thru := m.thru
	m.mu.Unlock()

	if thru != nil {
		if err := thru.Send(msg); err != nil {
			m.mu.Lock()
			m.thruErr = err
			m.mu.Unlock()
			debug.LogEvery(50, "thru", "%v", err)
		}
	}

	if msg.Type == midi.TimingClock || msg.Type == midi.ActiveSensing {
		debug.LogEvery(96, "monitor", "%s from %s", msg.Type, ev.Source)
	}
	m.notifyUpdate()
}

// HandleSysEx records a captured SysEx payload
func (m *Monitor) HandleSysEx(ev midi.SysExEvent) {
	m.mu.Lock()
	m.sysex.push(SysExLine{Time: m.now(), Source: ev.Source, Text: ev.String()})
	m.mu.Unlock()

	debug.Log("sysex", "%s: %s", ev.Source, ev)
	m.notifyUpdate()
}

// DisconnectSource releases the notes held by a source that went away
func (m *Monitor) DisconnectSource(id string) {
	m.mu.Lock()
	m.notes = [16][128]bool{}
	m.mu.Unlock()
	debug.Log("monitor", "%s disconnected, notes released", id)
	m.notifyUpdate()
}

// Clear empties logs, plots, counters and held notes
func (m *Monitor) Clear() {
	m.mu.Lock()
	m.notes = [16][128]bool{}
	for _, p := range m.plots {
		p.clear()
	}
	m.log.clear()
	m.sysex.clear()
	m.counts = make(map[midi.Type]uint64)
	m.thruErr = nil
	m.mu.Unlock()
	m.notifyUpdate()
}

// SetFocus restricts the key view to one channel (0-15) or AllChannels
func (m *Monitor) SetFocus(channel int) {
	if channel < AllChannels || channel > 15 {
		return
	}
	m.mu.Lock()
	m.focus = channel
	m.mu.Unlock()
	m.notifyUpdate()
}

// Focus returns the focused channel or AllChannels
func (m *Monitor) Focus() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focus
}

// Notes returns which notes are held on a channel, or on any channel for
// AllChannels
func (m *Monitor) Notes(channel int) [128]bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if channel >= 0 && channel < 16 {
		return m.notes[channel]
	}
	var merged [128]bool
	for ch := range m.notes {
		for n, on := range m.notes[ch] {
			merged[n] = merged[n] || on
		}
	}
	return merged
}

// PlotView is a snapshot of one plot
type PlotView struct {
	Title  string
	Values []float64
}

// Plots returns a snapshot of every plot
func (m *Monitor) Plots() []PlotView {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PlotView, len(m.plots))
	for i, p := range m.plots {
		out[i] = PlotView{Title: p.Title, Values: p.Values()}
	}
	return out
}

// Log returns the message log, oldest first
func (m *Monitor) Log() []LogLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.items()
}

// SysExLog returns the SysEx log, oldest first
func (m *Monitor) SysExLog() []SysExLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sysex.items()
}

// Count returns how many messages of type t were seen
func (m *Monitor) Count(t midi.Type) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[t]
}

// Total returns how many messages were seen
func (m *Monitor) Total() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n uint64
	for _, c := range m.counts {
		n += c
	}
	return n
}

// ThruError returns the last error from the thru port, if any
func (m *Monitor) ThruError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.thruErr
}

// notifyUpdate notifies the TUI without blocking
func (m *Monitor) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
