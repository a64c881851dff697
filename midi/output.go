package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go-midimon/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Output sends decoded messages to a MIDI output port, e.g. as MIDI thru
type Output struct {
	id      string
	outPort drivers.Out
	send    func(msg gomidi.Message) error

	mu   sync.Mutex
	sent atomic.Uint64
}

// NewOutput opens outPort for sending
func NewOutput(id string, outPort drivers.Out) (*Output, error) {
	if outPort == nil {
		return nil, fmt.Errorf("open output %s: no port", id)
	}
	send, err := gomidi.SendTo(outPort)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", id, err)
	}
	return &Output{id: id, outPort: outPort, send: send}, nil
}

func (o *Output) ID() string {
	return o.id
}

// Send writes msg to the port. Invalid messages are refused.
func (o *Output) Send(msg Message) error {
	if !msg.Valid() {
		return fmt.Errorf("send %s: invalid message %v", o.id, msg)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.send(msg.Gomidi()); err != nil {
		return fmt.Errorf("send %s: %w", o.id, err)
	}
	n := o.sent.Add(1)
	debug.LogEvery(500, "output", "%s: sent=%d", o.id, n)
	return nil
}

// SendSysEx writes a complete SysEx bracket with the given payload
func (o *Output) SendSysEx(payload []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.send(gomidi.SysEx(payload)); err != nil {
		return fmt.Errorf("send sysex %s: %w", o.id, err)
	}
	return nil
}

// Sent returns the number of messages written
func (o *Output) Sent() uint64 {
	return o.sent.Load()
}

func (o *Output) Close() error {
	if o.outPort != nil && o.outPort.IsOpen() {
		return o.outPort.Close()
	}
	return nil
}
