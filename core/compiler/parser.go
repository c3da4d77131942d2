package compiler

import (
	"log/slog"
	"strings"
)

// parser performs one pass over a source, resolving invocations as the
// occurrence queue confirms them. The cursor is threaded through every call
// explicitly; each recursion level builds its own field text and hands the
// finished invocation back to its caller, which splices in the identifier.
type parser struct {
	src    string
	syntax Syntax
	queue  *occurrenceQueue
	ids    *idAllocator
	logger *slog.Logger
	events *[]DebugEvent // nil when debug tracing is off
}

// run scans the whole source and returns the rewritten text with the
// top-level invocations.
func (p *parser) run() (string, []ResolvedInvocation, error) {
	c := newCursor(p.src)

	var out strings.Builder
	out.Grow(len(p.src))
	var forest []ResolvedInvocation
	escaped := false

	for !c.exhausted() {
		ch := c.current()
		switch {
		case escaped:
			out.WriteString(c.raw())
			escaped = false
			c.advance()

		case p.syntax.isEscape(ch):
			if c.atEnd() {
				p.trace("dangling_escape", c.pos, string(ch))
			}
			escaped = true
			c.advance()

		case p.syntax.isMarker(ch):
			inv, ok, err := p.tryInvocation(c)
			if err != nil {
				return "", nil, err
			}
			if !ok {
				out.WriteString(c.raw())
				c.advance()
				continue
			}
			forest = append(forest, inv)
			out.WriteString(inv.ID)

		default:
			out.WriteString(c.raw())
			c.advance()
		}
	}

	return out.String(), forest, nil
}

// tryInvocation resolves an invocation at the marker under the cursor.
// It reports false, leaving the cursor on the marker, when no registered
// name begins right after it.
func (p *parser) tryInvocation(c *cursor) (ResolvedInvocation, bool, error) {
	if _, ok := c.peekNext(); !ok {
		p.trace("literal_marker", c.pos, "end of input")
		return ResolvedInvocation{}, false, nil
	}

	start := c.pos
	occ, ok := p.queue.TryConsumeAt(c.pos + c.width)
	if !ok {
		p.trace("literal_marker", c.pos, "")
		return ResolvedInvocation{}, false, nil
	}

	inv, err := p.resolve(c, occ, start)
	if err != nil {
		return ResolvedInvocation{}, false, err
	}
	return inv, true, nil
}

// resolve builds one invocation whose marker sits at start and whose name
// is occ. On return the cursor is past the name and any bracket list.
func (p *parser) resolve(c *cursor, occ Occurrence, start int) (ResolvedInvocation, error) {
	d := occ.Descriptor
	inv := ResolvedInvocation{
		Name:  d.Name,
		ID:    p.ids.allocate(),
		Start: start,
	}
	p.trace("resolve", start, d.Name)

	c.seek(occ.End())

	switch {
	case d.AcceptsBrackets() && !c.exhausted() && p.syntax.isOpen(c.current()):
		p.trace("open_fields", c.pos, d.Name)
		c.advance()
		if err := p.parseFields(c, &inv); err != nil {
			return ResolvedInvocation{}, err
		}
	case d.MustHaveBrackets():
		return ResolvedInvocation{}, newError(ErrorBracketsRequired, d.Name, start, p.src)
	}

	inv.End = c.pos
	p.logger.Debug("resolved invocation",
		"name", inv.Name,
		"id", inv.ID,
		"offset", inv.Start,
		"fields", len(inv.Fields),
		"overloads", len(inv.Overloads))
	return inv, nil
}

// parseFields reads a field list up to and including its close bracket.
// The cursor starts on the first character after the open bracket.
func (p *parser) parseFields(c *cursor, inv *ResolvedInvocation) error {
	var field strings.Builder
	escaped := false

	for !c.exhausted() {
		ch := c.current()
		switch {
		case escaped:
			field.WriteString(c.raw())
			escaped = false
			c.advance()

		case p.syntax.isEscape(ch):
			escaped = true
			c.advance()

		case p.syntax.isClose(ch):
			inv.Fields = append(inv.Fields, field.String())
			inv.Inside = strings.Join(inv.Fields, string(p.syntax.Separator))
			p.trace("close_fields", c.pos, inv.Name)
			c.advance()
			return nil

		case p.syntax.isSeparator(ch):
			inv.Fields = append(inv.Fields, field.String())
			field.Reset()
			c.advance()

		case p.syntax.isMarker(ch):
			nested, ok, err := p.tryInvocation(c)
			if err != nil {
				return nestedIn(err, inv.Name)
			}
			if !ok {
				field.WriteString(c.raw())
				c.advance()
				continue
			}
			inv.Overloads = append(inv.Overloads, nested)
			field.WriteString(nested.ID)

		default:
			field.WriteString(c.raw())
			c.advance()
		}
	}

	return newError(ErrorUnterminatedBracketList, inv.Name, inv.Start, p.src)
}

func (p *parser) trace(event string, offset int, context string) {
	if p.events == nil {
		return
	}
	*p.events = append(*p.events, DebugEvent{Event: event, Offset: offset, Context: context})
}
