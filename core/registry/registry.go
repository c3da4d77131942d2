// Package registry holds the invocation descriptors a compiler recognizes.
//
// A Registry is an ordered, immutable list of descriptors. Its order matters:
// names are matched by a leftmost-first alternation, so when two names share a
// prefix the longer one must come first or it would be shadowed. New enforces
// that names appear in non-increasing length order; SortByLength produces such
// an order for hosts that do not maintain it themselves.
package registry

import (
	"unicode/utf8"
)

// Descriptor describes one registered invocation name.
type Descriptor struct {
	// Name is the keyword that follows the marker character.
	Name string `json:"name" yaml:"name" cbor:"name"`

	// BracketsRequired marks the name as taking a bracketed argument list.
	BracketsRequired bool `json:"bracketsRequired" yaml:"bracketsRequired" cbor:"bracketsRequired"`

	// BracketsOptional allows the argument list to be omitted.
	BracketsOptional bool `json:"bracketsOptional" yaml:"bracketsOptional" cbor:"bracketsOptional"`
}

// Bare returns the descriptor a bare name expands to: brackets taken but optional.
func Bare(name string) Descriptor {
	return Descriptor{Name: name, BracketsRequired: true, BracketsOptional: true}
}

// AcceptsBrackets reports whether a bracket list following the name is parsed.
func (d Descriptor) AcceptsBrackets() bool {
	return d.BracketsRequired || d.BracketsOptional
}

// MustHaveBrackets reports whether a missing bracket list is an error.
func (d Descriptor) MustHaveBrackets() bool {
	return d.BracketsRequired && !d.BracketsOptional
}

// Registry is a validated, ordered list of descriptors.
type Registry struct {
	descriptors []Descriptor
	byName      map[string]int
}

// New validates descriptors and returns a registry over a copy of them.
// Entries with an empty name, or entries out of non-increasing length order,
// fail with an *Error matching ErrInvalid.
func New(descriptors ...Descriptor) (*Registry, error) {
	for i, d := range descriptors {
		if d.Name == "" {
			return nil, &Error{Index: i, Reason: ReasonUnnamed}
		}
		if !utf8.ValidString(d.Name) {
			return nil, &Error{Index: i, Name: d.Name, Reason: ReasonInvalidUTF8}
		}
	}
	if err := Validate(descriptors); err != nil {
		return nil, err
	}

	r := &Registry{
		descriptors: make([]Descriptor, len(descriptors)),
		byName:      make(map[string]int, len(descriptors)),
	}
	copy(r.descriptors, descriptors)
	for i, d := range r.descriptors {
		// First entry wins for duplicated names
		if _, exists := r.byName[d.Name]; !exists {
			r.byName[d.Name] = i
		}
	}
	return r, nil
}

// Names creates a registry of bare names.
func Names(names ...string) (*Registry, error) {
	descriptors := make([]Descriptor, len(names))
	for i, name := range names {
		descriptors[i] = Bare(name)
	}
	return New(descriptors...)
}

// Validate checks the longest-first ordering: no entry may be longer than
// the one before it. Lengths are counted in characters.
func Validate(descriptors []Descriptor) error {
	prev := -1
	for i, d := range descriptors {
		n := utf8.RuneCountInString(d.Name)
		if prev >= 0 && n > prev {
			return &Error{
				Index:  i,
				Name:   d.Name,
				Reason: ReasonUnsorted,
			}
		}
		prev = n
	}
	return nil
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// At returns the i-th descriptor in registry order.
func (r *Registry) At(i int) Descriptor {
	return r.descriptors[i]
}

// Descriptors returns a copy of the descriptors in registry order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Lookup finds the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[i], true
}

// NameList returns the registered names in registry order.
func (r *Registry) NameList() []string {
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}
