// Package lint reports markers that the compiler would copy through as
// plain text because no registered name follows them.
package lint

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opal-lang/fncompile/core/compiler"
	"github.com/opal-lang/fncompile/core/registry"
)

// maxSuggestions caps the names offered per diagnostic.
const maxSuggestions = 3

// Diagnostic is a marker followed by a word that is not a registered name.
type Diagnostic struct {
	Offset      int      `json:"offset" yaml:"offset"` // Byte offset of the marker
	Line        int      `json:"line" yaml:"line"`
	Column      int      `json:"column" yaml:"column"`
	Word        string   `json:"word" yaml:"word"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

func (d Diagnostic) String() string {
	msg := fmt.Sprintf("%d:%d: marker before unknown function %q", d.Line, d.Column, d.Word)
	switch len(d.Suggestions) {
	case 0:
		return msg
	case 1:
		return fmt.Sprintf("%s (did you mean %q?)", msg, d.Suggestions[0])
	default:
		quoted := make([]string, len(d.Suggestions))
		for i, s := range d.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("%s (did you mean one of %s?)", msg, strings.Join(quoted, ", "))
	}
}

// Option configures a check.
type Option func(*checker)

// WithSyntax checks against a non-default syntax.
func WithSyntax(s compiler.Syntax) Option {
	return func(c *checker) {
		c.syntax = s
	}
}

type checker struct {
	syntax compiler.Syntax
	names  []string
}

// Check scans source the way the compiler does and returns a diagnostic for
// every unescaped marker followed by a word that no registered name prefixes.
// Markers followed by anything other than a word are ignored.
func Check(source string, reg *registry.Registry, opts ...Option) []Diagnostic {
	c := &checker{syntax: compiler.DefaultSyntax, names: reg.NameList()}
	for _, opt := range opts {
		opt(c)
	}

	var diags []Diagnostic
	for i := 0; i < len(source); {
		ch, width := utf8.DecodeRuneInString(source[i:])
		switch {
		case ch == c.syntax.Escape:
			i += width
			if i < len(source) {
				_, next := utf8.DecodeRuneInString(source[i:])
				i += next
			}

		case ch == c.syntax.Marker:
			rest := source[i+width:]
			if c.known(rest) {
				i += width
				continue
			}
			word := leadingWord(rest)
			if word != "" {
				line, column := compiler.LineColumn(source, i)
				diags = append(diags, Diagnostic{
					Offset:      i,
					Line:        line,
					Column:      column,
					Word:        word,
					Suggestions: c.suggest(word),
				})
			}
			i += width + len(word)

		default:
			i += width
		}
	}
	return diags
}

func (c *checker) known(rest string) bool {
	for _, name := range c.names {
		if strings.HasPrefix(rest, name) {
			return true
		}
	}
	return false
}

// suggest ranks registered names close to word, closest first.
func (c *checker) suggest(word string) []string {
	ranks := fuzzy.RankFindFold(word, c.names)
	for _, name := range c.names {
		// Also catch words with extra characters, e.g. "bolld"
		if fuzzy.MatchFold(name, word) && !slices.ContainsFunc(ranks, func(r fuzzy.Rank) bool { return r.Target == name }) {
			ranks = append(ranks, fuzzy.Rank{
				Source:   name,
				Target:   name,
				Distance: fuzzy.LevenshteinDistance(word, name),
			})
		}
	}
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return a.Distance - b.Distance
	})

	var out []string
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

func leadingWord(s string) string {
	end := 0
	for end < len(s) {
		ch, width := utf8.DecodeRuneInString(s[end:])
		if ch != '_' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			break
		}
		end += width
	}
	return s[:end]
}
