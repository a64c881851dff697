package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-midimon/config"
	"go-midimon/midi"
)

func newTestMonitor() *Monitor {
	cfg := config.DefaultConfig()
	cfg.UI.LogLines = 4
	m := New(cfg)
	m.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return m
}

func event(status uint8, data ...uint8) midi.Event {
	return midi.Event{Message: midi.NewMessage(status, data...), Source: "test"}
}

func TestMonitorNotes(t *testing.T) {
	m := newTestMonitor()

	m.HandleEvent(event(0x90, 60, 100))
	m.HandleEvent(event(0x91, 64, 100))
	if !m.Notes(0)[60] || m.Notes(0)[64] {
		t.Error("channel 0 notes wrong")
	}
	all := m.Notes(AllChannels)
	if !all[60] || !all[64] {
		t.Error("merged notes wrong")
	}

	m.HandleEvent(event(0x90, 60, 0)) // note on with velocity 0 releases
	if m.Notes(0)[60] {
		t.Error("velocity 0 note on did not release")
	}

	m.HandleEvent(event(0x81, 64, 0))
	if m.Notes(1)[64] {
		t.Error("note off did not release")
	}
}

func TestMonitorAllNotesOff(t *testing.T) {
	m := newTestMonitor()
	m.HandleEvent(event(0x92, 60, 100))
	m.HandleEvent(event(0x93, 61, 100))

	m.HandleEvent(event(0xB2, 123, 0))
	if m.Notes(2)[60] {
		t.Error("CC 123 did not clear channel 2")
	}
	if !m.Notes(3)[61] {
		t.Error("CC 123 on channel 2 cleared channel 3")
	}

	m.HandleEvent(event(0xFF))
	if m.Notes(3)[61] {
		t.Error("system reset did not clear notes")
	}
}

func TestMonitorPlots(t *testing.T) {
	m := newTestMonitor() // default plots: bend ch0, CC1 ch0

	m.HandleEvent(event(0xE0, 0x00, 0x40))
	m.HandleEvent(event(0xB0, 1, 127))
	m.HandleEvent(event(0xB0, 2, 127)) // other controller
	m.HandleEvent(event(0xB1, 1, 127)) // other channel

	plots := m.Plots()
	if len(plots) != 2 {
		t.Fatalf("got %d plots", len(plots))
	}
	if len(plots[0].Values) != 1 || plots[0].Values[0] < 0.49 || plots[0].Values[0] > 0.51 {
		t.Errorf("bend plot = %v, want one centered sample", plots[0].Values)
	}
	if len(plots[1].Values) != 1 || plots[1].Values[0] != 1 {
		t.Errorf("cc plot = %v, want [1]", plots[1].Values)
	}
}

func TestMonitorLog(t *testing.T) {
	m := newTestMonitor()

	m.HandleEvent(event(0xF8)) // hidden by default
	for i := 0; i < 6; i++ {
		m.HandleEvent(midi.Event{Message: midi.NewMessage(0xC0, uint8(i)), Source: "test", Running: i > 0})
	}

	log := m.Log()
	if len(log) != 4 {
		t.Fatalf("log has %d lines, want 4", len(log))
	}
	if log[0].Message.Data1 != 2 || log[3].Message.Data1 != 5 {
		t.Errorf("log kept %v..%v, want 2..5", log[0].Message, log[3].Message)
	}
	if !strings.Contains(log[3].String(), " r ") {
		t.Errorf("running status marker missing: %q", log[3].String())
	}
	if got := m.Count(midi.TimingClock); got != 1 {
		t.Errorf("clock count = %d, want 1", got)
	}
	if got := m.Total(); got != 7 {
		t.Errorf("total = %d, want 7", got)
	}
}

func TestMonitorSysExLog(t *testing.T) {
	m := newTestMonitor()
	m.HandleSysEx(midi.SysExEvent{Payload: []byte{0x7E, 0x01}, Source: "test"})

	log := m.SysExLog()
	if len(log) != 1 || log[0].Text != "F0 7E 01 F7" {
		t.Errorf("sysex log = %+v", log)
	}
}

func TestMonitorClear(t *testing.T) {
	m := newTestMonitor()
	m.HandleEvent(event(0x90, 60, 100))
	m.HandleEvent(event(0xE0, 0, 0))
	m.HandleSysEx(midi.SysExEvent{Payload: []byte{1}})

	m.Clear()
	if m.Notes(AllChannels)[60] || len(m.Log()) != 0 || len(m.SysExLog()) != 0 || m.Total() != 0 {
		t.Error("Clear left state behind")
	}
	for _, p := range m.Plots() {
		if len(p.Values) != 0 {
			t.Errorf("plot %s not cleared", p.Title)
		}
	}
}

func TestMonitorFocus(t *testing.T) {
	m := newTestMonitor()
	if m.Focus() != AllChannels {
		t.Fatalf("initial focus = %d", m.Focus())
	}
	m.SetFocus(3)
	if m.Focus() != 3 {
		t.Errorf("focus = %d, want 3", m.Focus())
	}
	m.SetFocus(16)
	if m.Focus() != 3 {
		t.Errorf("out of range focus accepted: %d", m.Focus())
	}
}

type recordingSender struct {
	sent []midi.Message
	err  error
}

func (s *recordingSender) Send(msg midi.Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func TestMonitorThru(t *testing.T) {
	m := newTestMonitor()
	s := &recordingSender{}
	m.SetThru(s)

	m.HandleEvent(event(0x90, 60, 100))
	m.HandleEvent(event(0xF8))
	if len(s.sent) != 2 || s.sent[0].Type != midi.NoteOn {
		t.Errorf("thru sent %+v", s.sent)
	}

	s.err = errors.New("port gone")
	m.HandleEvent(event(0xF8))
	if m.ThruError() == nil {
		t.Error("thru error not recorded")
	}
}

type chanSource struct {
	events chan midi.Event
	sysex  chan midi.SysExEvent
}

func (s *chanSource) ID() string                    { return "chan" }
func (s *chanSource) Events() <-chan midi.Event     { return s.events }
func (s *chanSource) SysEx() <-chan midi.SysExEvent { return s.sysex }
func (s *chanSource) Close() error {
	close(s.events)
	close(s.sysex)
	return nil
}

func TestMonitorAttach(t *testing.T) {
	m := newTestMonitor()
	src := &chanSource{events: make(chan midi.Event, 4), sysex: make(chan midi.SysExEvent, 4)}

	src.events <- event(0x90, 60, 100)
	src.sysex <- midi.SysExEvent{Payload: []byte{1}}
	src.Close()

	done := make(chan struct{})
	go func() {
		m.Attach(context.Background(), src)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Attach did not return after the source closed")
	}
	if !m.Notes(0)[60] || len(m.SysExLog()) != 1 {
		t.Error("attached source events not applied")
	}
}

func TestMonitorNotifiesUpdate(t *testing.T) {
	m := newTestMonitor()
	m.HandleEvent(event(0xFA))
	m.HandleEvent(event(0xFC)) // second notification coalesces

	select {
	case <-m.UpdateChan:
	default:
		t.Fatal("no update notification")
	}
	select {
	case <-m.UpdateChan:
		t.Error("notifications not coalesced")
	default:
	}
}
