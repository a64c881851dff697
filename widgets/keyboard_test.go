package widgets

import (
	"reflect"
	"strings"
	"testing"

	"go-midimon/theme"
)

func TestNoteName(t *testing.T) {
	tests := map[int]string{0: "C-1", 60: "C4", 61: "C#4", 69: "A4", 127: "G9"}
	for note, want := range tests {
		if got := NoteName(note); got != want {
			t.Errorf("NoteName(%d) = %q, want %q", note, got, want)
		}
	}
}

func TestIsBlackKey(t *testing.T) {
	var black []int
	for n := 60; n < 72; n++ {
		if IsBlackKey(n) {
			black = append(black, n)
		}
	}
	if want := []int{61, 63, 66, 68, 70}; !reflect.DeepEqual(black, want) {
		t.Errorf("black keys = %v, want %v", black, want)
	}
}

func TestKeyLabels(t *testing.T) {
	got := keyLabels(58, 73)
	// C4 sits two cells in, C5 fourteen
	if want := "  C4          C5"; got != want {
		t.Errorf("keyLabels = %q, want %q", got, want)
	}
	if keyLabels(10, 5) != "" {
		t.Error("empty range should have no labels")
	}
}

func TestHeldNames(t *testing.T) {
	var held [128]bool
	held[60], held[64], held[100] = true, true, true
	if got := HeldNames(held, 48, 96); !reflect.DeepEqual(got, []string{"C4", "E4"}) {
		t.Errorf("HeldNames = %v", got)
	}
}

func TestRenderKeyboard(t *testing.T) {
	th := theme.New(theme.DefaultPalette())
	var held [128]bool
	held[62] = true

	out := RenderKeyboard(th, held, 60, 71)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], "C4") {
		t.Errorf("label line %q lacks C4", lines[1])
	}
	if strings.Count(lines[0], string(th.Symbols.BlackKey)) != 5 {
		t.Errorf("key line %q should show 5 black keys", lines[0])
	}
}

func TestRenderKeyLine(t *testing.T) {
	got := RenderKeyLine([]KeyBinding{{Key: "q", Desc: "quit"}, {Key: "c", Desc: "clear"}})
	if got != "q:quit  c:clear" {
		t.Errorf("RenderKeyLine = %q", got)
	}
}

func TestRenderKeyHelp(t *testing.T) {
	got := RenderKeyHelp([]KeySection{{Title: "View", Keys: []KeyBinding{{Key: "s", Desc: "sysex"}}}})
	if !strings.HasPrefix(got, "View\n  s ") || !strings.HasSuffix(got, "sysex") {
		t.Errorf("RenderKeyHelp = %q", got)
	}
}
