package compiler

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/opal-lang/fncompile/core/registry"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrRegistryInvalid is returned when the registry is unordered or has an unnamed entry.
	ErrRegistryInvalid = registry.ErrInvalid

	// ErrUnterminatedBracketList is returned when a field list never closes.
	ErrUnterminatedBracketList = errors.New("unterminated bracket list")

	// ErrBracketsRequired is returned when a name that must take brackets has none.
	ErrBracketsRequired = errors.New("brackets required")

	// ErrNestedResolutionFailed is matched, alongside the root cause, when
	// the failing invocation sits inside another invocation's fields.
	ErrNestedResolutionFailed = errors.New("nested resolution failed")

	// ErrAlreadyCompiled is returned by a second Compile call on one Compiler.
	ErrAlreadyCompiled = errors.New("compiler already used")
)

// ErrorKind classifies compile failures.
type ErrorKind int

const (
	ErrorUnterminatedBracketList ErrorKind = iota
	ErrorBracketsRequired
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorUnterminatedBracketList:
		return "unterminated bracket list"
	case ErrorBracketsRequired:
		return "brackets required"
	default:
		return "error"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrorUnterminatedBracketList:
		return ErrUnterminatedBracketList
	case ErrorBracketsRequired:
		return ErrBracketsRequired
	default:
		return nil
	}
}

// Error is a compile failure with the offending invocation and its location.
type Error struct {
	Kind      ErrorKind
	Name      string   // Invocation that failed
	Offset    int      // Byte offset of its marker
	Line      int      // 1-based
	Column    int      // 1-based, in characters
	Enclosing []string // Names of enclosing invocations, outermost first
	Input     string
}

// Error formats the failure with a snippet pointing at the marker.
func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Kind.String())
	msg.WriteString(": ")
	switch e.Kind {
	case ErrorUnterminatedBracketList:
		fmt.Fprintf(&msg, "function %s has no closure bracket", e.Name)
	case ErrorBracketsRequired:
		fmt.Fprintf(&msg, "function %s requires brackets", e.Name)
	default:
		msg.WriteString(e.Name)
	}
	if len(e.Enclosing) > 0 {
		fmt.Fprintf(&msg, " (inside %s)", strings.Join(e.Enclosing, " > "))
	}
	if snippet := e.snippet(); snippet != "" {
		msg.WriteString("\n")
		msg.WriteString(snippet)
	}
	return msg.String()
}

// Is matches the sentinel for Kind, and ErrNestedResolutionFailed when the
// failure happened inside another invocation.
func (e *Error) Is(target error) bool {
	if target == ErrNestedResolutionFailed {
		return len(e.Enclosing) > 0
	}
	return target == e.Kind.sentinel()
}

// Nested reports whether the failure happened inside another invocation.
func (e *Error) Nested() bool {
	return len(e.Enclosing) > 0
}

func (e *Error) snippet() string {
	if e.Input == "" || e.Line == 0 {
		return ""
	}
	lines := strings.Split(e.Input, "\n")
	if e.Line > len(lines) {
		return ""
	}
	lineContent := lines[e.Line-1]

	var snippet strings.Builder
	fmt.Fprintf(&snippet, "  --> %d:%d\n", e.Line, e.Column)
	snippet.WriteString("   |\n")
	fmt.Fprintf(&snippet, "%2d | %s\n", e.Line, lineContent)
	snippet.WriteString("   | ")
	if e.Column > 0 {
		snippet.WriteString(strings.Repeat(" ", e.Column-1) + "^")
	}
	return snippet.String()
}

// newError builds an Error for the invocation whose marker sits at offset.
func newError(kind ErrorKind, name string, offset int, input string) *Error {
	line, column := LineColumn(input, offset)
	return &Error{
		Kind:   kind,
		Name:   name,
		Offset: offset,
		Line:   line,
		Column: column,
		Input:  input,
	}
}

// nestedIn records that err surfaced while parsing the fields of name.
func nestedIn(err error, name string) error {
	var compileErr *Error
	if errors.As(err, &compileErr) {
		compileErr.Enclosing = append([]string{name}, compileErr.Enclosing...)
	}
	return err
}

// LineColumn converts a byte offset in input to a 1-based line and rune column.
func LineColumn(input string, offset int) (int, int) {
	if offset > len(input) {
		offset = len(input)
	}
	before := input[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[lineStart:]) + 1
}
