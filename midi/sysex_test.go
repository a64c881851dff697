package midi

import (
	"bytes"
	"testing"
)

type capture struct {
	payload   []byte
	aborted   bool
	truncated bool
}

func newCapturing(limit int) (*Parser, *[]capture) {
	var got []capture
	p := &Parser{}
	p.CaptureSysEx(limit, func(payload []byte, aborted, truncated bool) {
		got = append(got, capture{append([]byte(nil), payload...), aborted, truncated})
	})
	return p, &got
}

func TestCaptureSysEx(t *testing.T) {
	p, got := newCapturing(16)
	msgs := collect(p, 0xF0, 0x7E, 0x00, 0x06, 0x01, 0xF7)

	if len(msgs) != 0 {
		t.Errorf("sysex reached the message callback: %+v", msgs)
	}
	if len(*got) != 1 {
		t.Fatalf("got %d captures, want 1", len(*got))
	}
	c := (*got)[0]
	if !bytes.Equal(c.payload, []byte{0x7E, 0x00, 0x06, 0x01}) {
		t.Errorf("payload = % X", c.payload)
	}
	if c.aborted || c.truncated {
		t.Errorf("aborted=%v truncated=%v, want both false", c.aborted, c.truncated)
	}
}

func TestCaptureSysExAborted(t *testing.T) {
	p, got := newCapturing(16)
	msgs := collect(p, 0xF0, 0x01, 0x02, 0x90, 0x40, 0x7F)

	if len(msgs) != 1 || msgs[0].msg.Type != NoteOn {
		t.Errorf("messages = %+v, want one NoteOn", msgs)
	}
	if len(*got) != 1 || !(*got)[0].aborted {
		t.Fatalf("captures = %+v, want one aborted", *got)
	}
	if !bytes.Equal((*got)[0].payload, []byte{0x01, 0x02}) {
		t.Errorf("payload = % X", (*got)[0].payload)
	}
}

func TestCaptureSysExRealtimeInside(t *testing.T) {
	p, got := newCapturing(16)
	msgs := collect(p, 0xF0, 0x01, 0xF8, 0xFF, 0x02, 0xF7)

	if len(msgs) != 2 || msgs[0].msg.Type != TimingClock || msgs[1].msg.Type != SystemReset {
		t.Errorf("messages = %+v", msgs)
	}
	if len(*got) != 1 || (*got)[0].aborted {
		t.Fatalf("captures = %+v, want one complete", *got)
	}
	if !bytes.Equal((*got)[0].payload, []byte{0x01, 0x02}) {
		t.Errorf("payload = % X", (*got)[0].payload)
	}
}

func TestCaptureSysExTruncated(t *testing.T) {
	p, got := newCapturing(3)
	collect(p, 0xF0, 1, 2, 3, 4, 5, 0xF7)

	if len(*got) != 1 {
		t.Fatalf("got %d captures", len(*got))
	}
	c := (*got)[0]
	if !c.truncated || !bytes.Equal(c.payload, []byte{1, 2, 3}) {
		t.Errorf("capture = %+v", c)
	}

	// the next bracket starts clean
	collect(p, 0xF0, 9, 0xF7)
	if c := (*got)[1]; c.truncated || !bytes.Equal(c.payload, []byte{9}) {
		t.Errorf("second capture = %+v", c)
	}
}

func TestCaptureSysExReset(t *testing.T) {
	p, got := newCapturing(8)
	collect(p, 0xF0, 1)
	p.Reset()

	if len(*got) != 1 || !(*got)[0].aborted {
		t.Fatalf("captures = %+v, want one aborted", *got)
	}
	p.Reset()
	if len(*got) != 1 {
		t.Errorf("second reset reported again: %+v", *got)
	}
}

func TestCaptureSysExStrayEnd(t *testing.T) {
	p, got := newCapturing(8)
	collect(p, 0xF7, 0x01, 0xF7)
	if len(*got) != 0 {
		t.Errorf("captures = %+v, want none", *got)
	}
}

func TestCaptureSysExDisable(t *testing.T) {
	p, got := newCapturing(8)
	p.CaptureSysEx(0, nil)
	collect(p, 0xF0, 1, 0xF7)
	if len(*got) != 0 {
		t.Errorf("captures = %+v after disabling", *got)
	}
}

func TestFormatSysEx(t *testing.T) {
	tests := []struct {
		payload            []byte
		aborted, truncated bool
		want               string
	}{
		{[]byte{0x7E, 0x7F}, false, false, "F0 7E 7F F7"},
		{[]byte{0x01}, true, false, "F0 01 (aborted)"},
		{[]byte{0x01}, false, true, "F0 01 ... F7"},
		{nil, false, false, "F0 F7"},
	}
	for _, tt := range tests {
		if got := FormatSysEx(tt.payload, tt.aborted, tt.truncated); got != tt.want {
			t.Errorf("FormatSysEx = %q, want %q", got, tt.want)
		}
	}
}
