package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Sentinel byte values
const (
	SysExBeginByte uint8 = 0xF0
	SysExEndByte   uint8 = 0xF7
	SysExAbort     uint8 = 0xFF // may be taken as an abort indicator; never a SysEx payload byte

	ChannelInvalid uint8 = 0x10 // first channel past 0-15
	DataInvalid    uint8 = 0x80 // absent data byte
	StatusInvalid  uint8 = 0x00
)

// Type identifies the kind of a MIDI message. For channel messages it is
// the status byte with the channel nibble cleared, for system messages it
// is the status byte itself.
type Type uint8

const (
	Invalid Type = 0

	// Channel messages
	NoteOff         Type = 0x80
	NoteOn          Type = 0x90
	PolyPressure    Type = 0xA0
	ControlChange   Type = 0xB0
	ProgramChange   Type = 0xC0
	ChannelPressure Type = 0xD0
	PitchBend       Type = 0xE0

	// System common
	TimingCode   Type = 0xF1
	SongPosition Type = 0xF2
	SongSelect   Type = 0xF3
	UndefinedF4  Type = 0xF4
	UndefinedF5  Type = 0xF5
	TuneRequest  Type = 0xF6

	// System real-time
	TimingClock   Type = 0xF8
	UndefinedF9   Type = 0xF9
	Start         Type = 0xFA
	Continue      Type = 0xFB
	Stop          Type = 0xFC
	UndefinedFD   Type = 0xFD
	ActiveSensing Type = 0xFE
	SystemReset   Type = 0xFF

	// System exclusive brackets
	SysExBegin Type = Type(SysExBeginByte)
	SysExEnd   Type = Type(SysExEndByte)
)

var typeNames = map[Type]string{
	Invalid:         "Invalid",
	NoteOff:         "NoteOff",
	NoteOn:          "NoteOn",
	PolyPressure:    "PolyPressure",
	ControlChange:   "ControlChange",
	ProgramChange:   "ProgramChange",
	ChannelPressure: "ChannelPressure",
	PitchBend:       "PitchBend",
	TimingCode:      "TimingCode",
	SongPosition:    "SongPosition",
	SongSelect:      "SongSelect",
	UndefinedF4:     "UndefinedF4",
	UndefinedF5:     "UndefinedF5",
	TuneRequest:     "TuneRequest",
	TimingClock:     "TimingClock",
	UndefinedF9:     "UndefinedF9",
	Start:           "Start",
	Continue:        "Continue",
	Stop:            "Stop",
	UndefinedFD:     "UndefinedFD",
	ActiveSensing:   "ActiveSensing",
	SystemReset:     "SystemReset",
	SysExBegin:      "SysExBegin",
	SysExEnd:        "SysExEnd",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(0x%02X)", uint8(t))
}

// IsChannel reports whether t is a channel message type.
func (t Type) IsChannel() bool {
	return uint8(t)&0x70 != 0x70
}

// IsStatus reports whether b is a status byte.
func IsStatus(b uint8) bool {
	return b>>7 != 0
}

// IsChannelStatus reports whether status identifies a channel message
// rather than a system message.
func IsChannelStatus(status uint8) bool {
	return status&0x70 != 0x70
}

// IsRealtime reports whether status is a system real-time status.
func IsRealtime(status uint8) bool {
	return status >= 0xF8
}

// StatusChannel returns the channel nibble of a channel status byte.
func StatusChannel(status uint8) uint8 {
	return status & 0x0F
}

// StatusType returns the message type of a status byte, or Invalid for a
// data byte.
func StatusType(status uint8) Type {
	if !IsStatus(status) {
		return Invalid
	}
	if IsChannelStatus(status) {
		return Type(status & 0xF0)
	}
	return Type(status)
}

// StatusOf builds a status byte. The channel is only applied to channel
// message types.
func StatusOf(t Type, channel uint8) uint8 {
	if t.IsChannel() {
		return uint8(t) | channel
	}
	return uint8(t)
}

// DataSize returns the number of data bytes following a status of type t.
func DataSize(t Type) int {
	switch t {
	case NoteOff, NoteOn, PolyPressure, ControlChange, PitchBend, SongPosition:
		return 2
	case ProgramChange, ChannelPressure, TimingCode, SongSelect:
		return 1
	default:
		return 0
	}
}

// DecodePitchBend combines two 7-bit data bytes into a value in
// [-8192, 8191].
func DecodePitchBend(data1, data2 uint8) int16 {
	return int16(uint16(data2)<<7|uint16(data1)) - 8192
}

// EncodePitchBend splits a bend value into its two data bytes, clamping
// to [-8192, 8191].
func EncodePitchBend(value int) (data1, data2 uint8) {
	if value < -8192 {
		value = -8192
	}
	if value > 8191 {
		value = 8191
	}
	raw := uint16(value + 8192)
	return uint8(raw & 0x7F), uint8(raw >> 7)
}

// Message is a decoded non-SysEx MIDI message of one to three bytes.
// Unused data fields hold DataInvalid and Channel holds ChannelInvalid
// for system messages.
type Message struct {
	Type    Type
	Channel uint8
	Data1   uint8
	Data2   uint8
}

// NewMessage decodes a message from a status byte and up to two data
// bytes. Data slots beyond DataSize of the type are set to DataInvalid.
func NewMessage(status uint8, data ...uint8) Message {
	msg := Message{
		Type:    StatusType(status),
		Channel: ChannelInvalid,
		Data1:   DataInvalid,
		Data2:   DataInvalid,
	}
	if msg.Type != Invalid && msg.Type.IsChannel() {
		msg.Channel = StatusChannel(status)
	}
	n := DataSize(msg.Type)
	if n > 0 && len(data) > 0 {
		msg.Data1 = data[0]
	}
	if n > 1 && len(data) > 1 {
		msg.Data2 = data[1]
	}
	return msg
}

// Status returns the status byte of the message.
func (m Message) Status() uint8 {
	ch := m.Channel
	if ch >= ChannelInvalid {
		ch = 0
	}
	return StatusOf(m.Type, ch)
}

// Bytes returns the wire encoding of the message: the status byte
// followed by its populated data bytes.
func (m Message) Bytes() []byte {
	b := []byte{m.Status()}
	switch DataSize(m.Type) {
	case 2:
		b = append(b, m.Data1, m.Data2)
	case 1:
		b = append(b, m.Data1)
	}
	return b
}

// Gomidi converts the message for sending through a gomidi port.
func (m Message) Gomidi() gomidi.Message {
	return gomidi.Message(m.Bytes())
}

// PitchBend returns the bend value of a PitchBend message, or 0 for any
// other type.
func (m Message) PitchBend() int16 {
	if m.Type != PitchBend {
		return 0
	}
	return DecodePitchBend(m.Data1, m.Data2)
}

// Valid reports whether the message has a real type and the number of
// populated data fields its type requires.
func (m Message) Valid() bool {
	if m.Type == Invalid || m.Type == SysExBegin || m.Type == SysExEnd {
		return false
	}
	if m.Type.IsChannel() && m.Channel >= ChannelInvalid {
		return false
	}
	populated := 0
	if m.Data1 < DataInvalid {
		populated++
	}
	if m.Data2 < DataInvalid {
		populated++
	}
	return populated == DataSize(m.Type)
}

func (m Message) String() string {
	switch {
	case m.Type == PitchBend:
		return fmt.Sprintf("%s ch=%d value=%d", m.Type, m.Channel, m.PitchBend())
	case m.Type.IsChannel():
		switch DataSize(m.Type) {
		case 2:
			return fmt.Sprintf("%s ch=%d %d %d", m.Type, m.Channel, m.Data1, m.Data2)
		case 1:
			return fmt.Sprintf("%s ch=%d %d", m.Type, m.Channel, m.Data1)
		}
		return fmt.Sprintf("%s ch=%d", m.Type, m.Channel)
	case m.Type == SongPosition:
		return fmt.Sprintf("%s %d", m.Type, uint16(m.Data2)<<7|uint16(m.Data1))
	case DataSize(m.Type) == 1:
		return fmt.Sprintf("%s %d", m.Type, m.Data1)
	}
	return m.Type.String()
}

// ParseType looks up a message type by name, case-sensitive, as printed
// by Type.String.
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name && t != Invalid {
			return t, true
		}
	}
	return Invalid, false
}
