package midi

// Event is a decoded message as delivered by a Source
type Event struct {
	Message   Message
	Running   bool   // decoded through running status
	Source    string // ID of the source that produced it
	Timestamp int32  // driver timestamp in ms, passed through as-is
}

// SysExEvent is a captured SysEx payload from a Source
type SysExEvent struct {
	Payload   []byte
	Aborted   bool
	Truncated bool
	Source    string
	Timestamp int32
}

// String renders the payload the way the SysEx log shows it
func (e SysExEvent) String() string {
	return FormatSysEx(e.Payload, e.Aborted, e.Truncated)
}
