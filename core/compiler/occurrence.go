package compiler

import (
	"regexp"
	"strings"

	"github.com/opal-lang/fncompile/core/registry"
)

// Occurrence is a literal appearance of a registered name in the source,
// whether or not a marker precedes it.
type Occurrence struct {
	Descriptor registry.Descriptor
	Position   int // Byte offset of the first character of the name
	Size       int // Byte length of the name
}

// Name returns the matched name.
func (o Occurrence) Name() string {
	return o.Descriptor.Name
}

// End returns the byte offset just past the name.
func (o Occurrence) End() int {
	return o.Position + o.Size
}

// namePattern builds one alternation over every registered name, each quoted
// as a literal in its own capture group. Go's regexp picks the leftmost-first
// alternative, so at a shared position the earlier (longer) name wins; the
// group that participated gives the registry index.
func namePattern(reg *registry.Registry) *regexp.Regexp {
	if reg.Len() == 0 {
		return nil
	}
	alternatives := make([]string, reg.Len())
	for i := range alternatives {
		alternatives[i] = "(" + regexp.QuoteMeta(reg.At(i).Name) + ")"
	}
	return regexp.MustCompile(strings.Join(alternatives, "|"))
}

// matchOccurrences finds every occurrence of a registered name in src,
// in ascending position order.
//
// A match whose bytes differ from the name is skipped: regexp treats an
// invalid UTF-8 byte as U+FFFD, so a name containing U+FFFD can match bytes
// that are not that name.
func matchOccurrences(reg *registry.Registry, src string) []Occurrence {
	re := namePattern(reg)
	if re == nil {
		return nil
	}

	matches := re.FindAllStringSubmatchIndex(src, -1)
	occurrences := make([]Occurrence, 0, len(matches))
	for _, m := range matches {
		d, ok := matchedDescriptor(reg, m)
		if !ok || src[m[0]:m[1]] != d.Name {
			continue
		}
		occurrences = append(occurrences, Occurrence{
			Descriptor: d,
			Position:   m[0],
			Size:       m[1] - m[0],
		})
	}
	return occurrences
}

// matchedDescriptor returns the descriptor whose group participated in m.
func matchedDescriptor(reg *registry.Registry, m []int) (registry.Descriptor, bool) {
	for i := 0; i < reg.Len(); i++ {
		if m[2+2*i] >= 0 {
			return reg.At(i), true
		}
	}
	return registry.Descriptor{}, false
}

// occurrenceQueue hands out precomputed occurrences in source order as the
// scanner confirms them.
type occurrenceQueue struct {
	items []Occurrence
	head  int
}

func newOccurrenceQueue(items []Occurrence) *occurrenceQueue {
	return &occurrenceQueue{items: items}
}

// Len returns the number of occurrences not yet consumed or dropped.
func (q *occurrenceQueue) Len() int {
	return len(q.items) - q.head
}

// TryConsumeAt pops the head occurrence if its name starts exactly at pos.
//
// Occurrences starting before pos were scanned past as ordinary text (no
// marker, an escaped marker, or text inside another name) and are dropped
// first. An occurrence starting after pos stays queued.
func (q *occurrenceQueue) TryConsumeAt(pos int) (Occurrence, bool) {
	for q.head < len(q.items) && q.items[q.head].Position < pos {
		q.head++
	}
	if q.head == len(q.items) || q.items[q.head].Position != pos {
		return Occurrence{}, false
	}
	occ := q.items[q.head]
	q.head++
	return occ, true
}
