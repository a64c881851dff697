package midi

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseHex reads bytes written as hex, e.g. "90 40 7F", "0x90,0x40" or
// "90407f". Separators are spaces, commas and colons.
func ParseHex(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == ':' || r == '\t' || r == '\n' || r == '\r'
	})
	var out []byte
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		if len(f)%2 == 1 {
			f = "0" + f
		}
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("parse hex %q: %w", f, err)
		}
		out = append(out, b...)
	}
	return out, nil
}
