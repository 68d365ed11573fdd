package investor

import (
	"fmt"
	"strings"
)

// Symbol identifies a tradable instrument, e.g. "AAPL".
//
// Symbols are not checked against any exchange: any non-empty upper case
// alphanumeric string is accepted. Dots and dashes are allowed for share
// classes ("BRK.B").
type Symbol string

// ParseSymbol upper-cases s and validates it.
func ParseSymbol(s string) (Symbol, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("empty symbol")
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
		default:
			return "", fmt.Errorf("invalid symbol %q: unexpected character %q", s, r)
		}
	}
	return Symbol(s), nil
}

func (s Symbol) String() string { return string(s) }
