package registry

import (
	"cmp"
	"slices"
	"unicode/utf8"
)

// SortByLength returns a copy of descriptors ordered longest name first.
// Names of equal length keep their relative order.
func SortByLength(descriptors []Descriptor) []Descriptor {
	out := slices.Clone(descriptors)
	slices.SortStableFunc(out, func(a, b Descriptor) int {
		return cmp.Compare(utf8.RuneCountInString(b.Name), utf8.RuneCountInString(a.Name))
	})
	return out
}
