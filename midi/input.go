package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go-midimon/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// InputOptions tunes how an Input decodes its port
type InputOptions struct {
	Channels     []uint8 // channel filter, empty passes all
	CaptureSysEx bool
	SysExLimit   int
	Buffer       int // event channel size
}

// Input decodes the raw byte stream of one MIDI input port
type Input struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	mu       sync.Mutex // serializes parser access from the driver callback
	parser   Parser
	channels [16]bool
	filtered bool
	lastTS   int32

	eventChan chan Event
	sysexChan chan SysExEvent
	dropped   atomic.Uint64
	closed    atomic.Bool
}

// NewInput opens inPort and starts decoding it
func NewInput(id string, inPort drivers.In, opts InputOptions) (*Input, error) {
	in := newInput(id, opts)
	in.inPort = inPort

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			in.Write(msg.Bytes(), timestampms)
		},
			gomidi.UseSysEx(),
			gomidi.UseActiveSense(),
			gomidi.UseTimeCode(),
			gomidi.HandleError(func(err error) {
				debug.Log("input", "%s: %v", id, err)
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w", id, err)
		}
		in.stopFunc = stop
	}

	debug.Log("input", "opened %s", id)
	return in, nil
}

func newInput(id string, opts InputOptions) *Input {
	size := opts.Buffer
	if size <= 0 {
		size = 256
	}
	in := &Input{
		id:        id,
		eventChan: make(chan Event, size),
		sysexChan: make(chan SysExEvent, 16),
	}
	for _, ch := range opts.Channels {
		if ch < 16 {
			in.channels[ch] = true
			in.filtered = true
		}
	}
	if opts.CaptureSysEx {
		in.parser.CaptureSysEx(opts.SysExLimit, in.publishSysEx)
	}
	return in
}

// Write feeds raw bytes from the port through the parser. Bytes are
// processed in order; concurrent writers are serialized.
func (in *Input) Write(raw []byte, timestampms int32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed.Load() {
		return
	}

	in.lastTS = timestampms
	for _, b := range raw {
		in.parser.Process(b, in.publish)
	}
}

// Reset drops any partially received message, e.g. after a port glitch
func (in *Input) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.closed.Load() {
		in.parser.Reset()
	}
}

func (in *Input) publish(msg Message, running bool) {
	if in.filtered && msg.Type.IsChannel() && !in.channels[msg.Channel&0x0F] {
		return
	}
	select {
	case in.eventChan <- Event{Message: msg, Running: running, Source: in.id, Timestamp: in.lastTS}:
	default:
		n := in.dropped.Add(1)
		debug.LogEvery(100, "input", "%s: event buffer full, dropped=%d", in.id, n)
	}
}

func (in *Input) publishSysEx(payload []byte, aborted, truncated bool) {
	// payload aliases the parser's capture buffer
	ev := SysExEvent{
		Payload:   append([]byte(nil), payload...),
		Aborted:   aborted,
		Truncated: truncated,
		Source:    in.id,
		Timestamp: in.lastTS,
	}
	select {
	case in.sysexChan <- ev:
	default:
		in.dropped.Add(1)
	}
}

func (in *Input) ID() string {
	return in.id
}

func (in *Input) Events() <-chan Event {
	return in.eventChan
}

func (in *Input) SysEx() <-chan SysExEvent {
	return in.sysexChan
}

// Dropped returns how many events were discarded because the consumer
// was too slow
func (in *Input) Dropped() uint64 {
	return in.dropped.Load()
}

func (in *Input) Close() error {
	if in.closed.Swap(true) {
		return nil
	}
	if in.stopFunc != nil {
		in.stopFunc()
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	close(in.eventChan)
	close(in.sysexChan)
	debug.Log("input", "closed %s", in.id)
	return nil
}
