package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-midimon/theme"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// IsBlackKey reports whether a MIDI note falls on a black key
func IsBlackKey(note int) bool {
	switch note % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// NoteName returns the note name with octave, middle C (60) being C4
func NoteName(note int) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], note/12-1)
}

// clampRange keeps lo-hi inside 0-127
func clampRange(lo, hi int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > 127 {
		hi = 127
	}
	return lo, hi
}

// RenderKeyboard renders notes lo-hi as a one-line keyboard, one cell per
// semitone, with held notes highlighted and the C of each octave labeled
// underneath
func RenderKeyboard(th *theme.Theme, held [128]bool, lo, hi int) string {
	lo, hi = clampRange(lo, hi)

	whiteStyle := lipgloss.NewStyle().Foreground(th.FG())
	blackStyle := lipgloss.NewStyle().Foreground(th.Muted())
	heldStyle := lipgloss.NewStyle().Foreground(th.Active())
	labelStyle := lipgloss.NewStyle().Foreground(th.Muted())

	var keys strings.Builder
	for n := lo; n <= hi; n++ {
		switch {
		case held[n]:
			keys.WriteString(heldStyle.Render(string(th.Symbols.HeldKey)))
		case IsBlackKey(n):
			keys.WriteString(blackStyle.Render(string(th.Symbols.BlackKey)))
		default:
			keys.WriteString(whiteStyle.Render(string(th.Symbols.WhiteKey)))
		}
	}

	return keys.String() + "\n" + labelStyle.Render(keyLabels(lo, hi))
}

// keyLabels places the name of each C under its key
func keyLabels(lo, hi int) string {
	if hi < lo {
		return ""
	}
	line := []rune(strings.Repeat(" ", hi-lo+1))
	for n := lo; n <= hi; n++ {
		if n%12 != 0 {
			continue
		}
		for i, r := range NoteName(n) {
			if pos := n - lo + i; pos < len(line) {
				line[pos] = r
			}
		}
	}
	return strings.TrimRight(string(line), " ")
}

// HeldNames lists the held notes in lo-hi by name
func HeldNames(held [128]bool, lo, hi int) []string {
	lo, hi = clampRange(lo, hi)
	var names []string
	for n := lo; n <= hi; n++ {
		if held[n] {
			names = append(names, NoteName(n))
		}
	}
	return names
}
