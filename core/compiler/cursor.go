package compiler

import (
	"unicode/utf8"

	"github.com/opal-lang/fncompile/core/invariant"
)

// cursor walks a source one character at a time.
//
// pos is the byte offset of the current character; once the input is
// consumed pos equals len(src) and exhausted reports true. Invalid UTF-8
// bytes are treated as one-byte characters and copied through untouched.
type cursor struct {
	src   string
	pos   int
	ch    rune
	width int
}

func newCursor(src string) *cursor {
	c := &cursor{src: src}
	c.load()
	return c
}

// load decodes the character at pos.
func (c *cursor) load() {
	if c.pos >= len(c.src) {
		c.ch, c.width = 0, 0
		return
	}
	c.ch, c.width = utf8.DecodeRuneInString(c.src[c.pos:])
}

// current returns the character under the cursor.
func (c *cursor) current() rune {
	return c.ch
}

// raw returns the bytes of the current character.
func (c *cursor) raw() string {
	return c.src[c.pos : c.pos+c.width]
}

// advance moves to the next character. It reports false once the cursor
// has moved past the last character.
func (c *cursor) advance() bool {
	invariant.Precondition(!c.exhausted(), "advance past end of input at %d", c.pos)
	prev := c.pos
	c.pos += c.width
	c.load()
	invariant.Invariant(c.pos > prev, "cursor must advance")
	return !c.exhausted()
}

// peekNext returns the character after the current one without moving.
func (c *cursor) peekNext() (rune, bool) {
	next := c.pos + c.width
	if c.exhausted() || next >= len(c.src) {
		return 0, false
	}
	ch, _ := utf8.DecodeRuneInString(c.src[next:])
	return ch, true
}

// atEnd reports whether the cursor sits on the last character.
func (c *cursor) atEnd() bool {
	return !c.exhausted() && c.pos+c.width == len(c.src)
}

// exhausted reports whether every character has been consumed.
func (c *cursor) exhausted() bool {
	return c.pos >= len(c.src)
}

// seek jumps forward to byte offset pos, which must start a character.
func (c *cursor) seek(pos int) {
	invariant.InRange(pos, c.pos, len(c.src), "seek position")
	c.pos = pos
	c.load()
}
