package registry

import (
	"errors"
	"fmt"
)

// ErrInvalid is matched by every registry construction failure.
var ErrInvalid = errors.New("registry invalid")

// Reasons carried by Error.
const (
	ReasonUnnamed     = "no function name was given"
	ReasonUnsorted    = "function array is not sorted"
	ReasonInvalidUTF8 = "function name is not valid UTF-8"
)

// Error reports why a registry entry was rejected.
type Error struct {
	Index  int    // Position of the offending entry
	Name   string // Entry name, empty when the entry has none
	Reason string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: entry %d: %s", ErrInvalid, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: entry %d (%q): %s", ErrInvalid, e.Index, e.Name, e.Reason)
}

// Is makes errors.Is(err, ErrInvalid) succeed.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}
