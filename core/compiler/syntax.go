package compiler

import "fmt"

// Syntax holds the structural characters the scanner recognizes.
type Syntax struct {
	Marker    rune // Introduces an invocation: $name
	Separator rune // Splits fields: [a;b]
	Open      rune // Opens a field list
	Close     rune // Closes a field list
	Escape    rune // Makes the next character literal
}

// DefaultSyntax is $name[field;field] with backslash escapes.
var DefaultSyntax = Syntax{
	Marker:    '$',
	Separator: ';',
	Open:      '[',
	Close:     ']',
	Escape:    '\\',
}

func (s Syntax) isMarker(ch rune) bool    { return ch == s.Marker }
func (s Syntax) isSeparator(ch rune) bool { return ch == s.Separator }
func (s Syntax) isOpen(ch rune) bool      { return ch == s.Open }
func (s Syntax) isClose(ch rune) bool     { return ch == s.Close }
func (s Syntax) isEscape(ch rune) bool    { return ch == s.Escape }

// validate rejects zero or repeated structural characters; the scanner
// classifies each character into exactly one role.
func (s Syntax) validate() error {
	roles := []struct {
		name string
		ch   rune
	}{
		{"marker", s.Marker},
		{"separator", s.Separator},
		{"open bracket", s.Open},
		{"close bracket", s.Close},
		{"escape", s.Escape},
	}
	seen := make(map[rune]string, len(roles))
	for _, r := range roles {
		if r.ch == 0 {
			return fmt.Errorf("invalid syntax: %s character is unset", r.name)
		}
		if other, dup := seen[r.ch]; dup {
			return fmt.Errorf("invalid syntax: %q used as both %s and %s", r.ch, other, r.name)
		}
		seen[r.ch] = r.name
	}
	return nil
}
