package midi

import (
	"fmt"
	"strings"
)

// DefaultSysExLimit is the capture size used when none is configured.
const DefaultSysExLimit = 256

// SysExFunc receives the payload of a SysEx bracket once it closes. The
// payload excludes the F0/F7 markers and is only valid for the duration
// of the call. aborted is true when the bracket was ended by a status
// byte other than F7 or by Reset. truncated is true when the payload was
// longer than the capture limit.
type SysExFunc func(payload []byte, aborted, truncated bool)

// sysexCapture holds a fixed buffer, allocated once, for SysEx payload
// bytes. All methods are safe on a nil receiver.
type sysexCapture struct {
	buf      []byte
	n        int
	overflow int
	active   bool
	fn       SysExFunc
}

// CaptureSysEx makes the parser report SysEx payloads to fn, keeping at
// most limit bytes per bracket. A nil fn disables capture. Payload bytes
// never reach the MessageFunc passed to Process.
func (p *Parser) CaptureSysEx(limit int, fn SysExFunc) {
	if fn == nil {
		p.sysex = nil
		return
	}
	if limit <= 0 {
		limit = DefaultSysExLimit
	}
	p.sysex = &sysexCapture{buf: make([]byte, limit), fn: fn}
}

func (c *sysexCapture) open() {
	if c == nil {
		return
	}
	c.n = 0
	c.overflow = 0
	c.active = true
}

func (c *sysexCapture) write(b uint8) {
	if c == nil || !c.active {
		return
	}
	if c.n < len(c.buf) {
		c.buf[c.n] = b
		c.n++
		return
	}
	c.overflow++
}

func (c *sysexCapture) close(aborted bool) {
	if c == nil || !c.active {
		return
	}
	c.active = false
	c.fn(c.buf[:c.n], aborted, c.overflow > 0)
}

// FormatSysEx renders a payload as a hex log line with its markers.
func FormatSysEx(payload []byte, aborted, truncated bool) string {
	var sb strings.Builder
	sb.WriteString("F0")
	for _, b := range payload {
		fmt.Fprintf(&sb, " %02X", b)
	}
	if truncated {
		sb.WriteString(" ...")
	}
	if aborted {
		sb.WriteString(" (aborted)")
	} else {
		sb.WriteString(" F7")
	}
	return sb.String()
}
