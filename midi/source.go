package midi

// Source is the interface for anything that produces decoded MIDI events
type Source interface {
	ID() string

	// Decoded messages, in arrival order
	Events() <-chan Event
	// Captured SysEx payloads (never delivered if capture is off)
	SysEx() <-chan SysExEvent

	// Lifecycle
	Close() error
}

// Sender is the interface for anything that accepts decoded messages
type Sender interface {
	Send(msg Message) error
}
