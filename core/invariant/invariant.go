// Package invariant asserts internal contracts of the compiler core.
//
// The scanner, the occurrence queue and the identifier allocator call these
// helpers on state that only a bug can corrupt. Malformed sources and
// registries are ordinary errors and never reach this package.
//
// A failed check panics with a *Violation.
package invariant

import (
	"fmt"
	"runtime"
)

// Kind names the contract a Violation broke.
type Kind string

const (
	KindPrecondition  Kind = "PRECONDITION"
	KindPostcondition Kind = "POSTCONDITION"
	KindInvariant     Kind = "INVARIANT"
)

// Violation is the panic value of a failed check.
type Violation struct {
	Kind    Kind
	Message string
	File    string // Call site of the failed check
	Line    int
}

func (v *Violation) Error() string {
	if v.File == "" {
		return fmt.Sprintf("%s VIOLATION: %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("%s VIOLATION: %s\n  at %s:%d", v.Kind, v.Message, v.File, v.Line)
}

// Precondition checks what a function expects of its caller, e.g. a seek
// target inside the input.
func Precondition(ok bool, format string, args ...any) {
	if !ok {
		raise(KindPrecondition, format, args...)
	}
}

// Postcondition checks what a function promises on return.
func Postcondition(ok bool, format string, args ...any) {
	if !ok {
		raise(KindPostcondition, format, args...)
	}
}

// Invariant checks state that must hold mid-function, such as cursor progress.
func Invariant(ok bool, format string, args ...any) {
	if !ok {
		raise(KindInvariant, format, args...)
	}
}

// InRange is a Precondition that lo <= value <= hi.
func InRange(value, lo, hi int, name string) {
	if value < lo || value > hi {
		raise(KindPrecondition, "%s must be in range [%d, %d], got %d", name, lo, hi, value)
	}
}

func raise(kind Kind, format string, args ...any) {
	v := &Violation{Kind: kind, Message: fmt.Sprintf(format, args...)}
	// 0 is raise, 1 the exported check, 2 its caller
	if _, file, line, ok := runtime.Caller(2); ok {
		v.File, v.Line = file, line
	}
	panic(v)
}
