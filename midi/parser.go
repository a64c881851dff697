package midi

// MessageFunc receives each complete message decoded by a Parser. running
// is true when the message reused a previous status byte.
type MessageFunc func(msg Message, running bool)

// State is the coarse state of a Parser.
type State int

const (
	StateEmpty        State = iota // no pending status
	StateAwaitingData              // status seen, data bytes outstanding
	StateRunning                   // last message complete, status kept for running status
	StateInSysEx
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAwaitingData:
		return "awaiting-data"
	case StateRunning:
		return "running"
	case StateInSysEx:
		return "in-sysex"
	}
	return "unknown"
}

// Parser decodes a MIDI byte stream one byte at a time, with running
// status, transparent real-time messages and SysEx brackets. The zero
// value is ready to use. A Parser must not be used from more than one
// goroutine at a time.
type Parser struct {
	status   uint8
	expected int
	offset   int
	data     [2]uint8
	running  bool

	sysex *sysexCapture
}

// Reset abandons any partial message or open SysEx bracket.
func (p *Parser) Reset() {
	if p.status == SysExBeginByte {
		p.sysex.close(true)
	}
	p.status = StatusInvalid
	p.expected = 0
	p.offset = 0
	p.running = false
}

// State reports whether the parser is idle, waiting for data bytes, or
// inside a SysEx bracket.
func (p *Parser) State() State {
	switch {
	case p.status == StatusInvalid:
		return StateEmpty
	case p.status == SysExBeginByte:
		return StateInSysEx
	case p.expected > 0:
		return StateAwaitingData
	}
	return StateRunning
}

// Feed runs every byte of b through Process.
func (p *Parser) Feed(b []byte, fn MessageFunc) {
	for _, c := range b {
		p.Process(c, fn)
	}
}

// Process consumes the next byte of the stream and calls fn at most once
// if it completes a message. Malformed input is dropped silently.
func (p *Parser) Process(b uint8, fn MessageFunc) {
	if IsStatus(b) {
		if IsRealtime(b) {
			fn(NewMessage(b), false)
			return
		}

		// any status byte ends an open SysEx
		if p.status == SysExBeginByte {
			p.sysex.close(b != SysExEndByte)
			p.status = StatusInvalid
		}
		p.running = false

		if b == SysExEndByte {
			p.status = StatusInvalid
			p.offset = 0
			p.expected = 0
		} else {
			p.status = b
			p.expected = DataSize(StatusType(b))
			p.offset = 0
			if b == SysExBeginByte {
				p.sysex.open()
				return
			}
		}
	} else {
		switch {
		case p.status == StatusInvalid:
			return
		case p.expected > 0:
			if p.offset < len(p.data) {
				p.data[p.offset] = b
				p.offset++
				p.expected--
			}
		case p.status == SysExBeginByte:
			p.sysex.write(b)
			return
		case IsChannelStatus(p.status):
			p.data[0] = b
			p.offset = 1
			p.expected = DataSize(StatusType(p.status)) - 1
			p.running = true
		default:
			return
		}
	}

	if p.status != StatusInvalid && p.expected == 0 {
		fn(NewMessage(p.status, p.data[0], p.data[1]), p.running)
	}
}
