package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opal-lang/fncompile/core/compiler"
	"github.com/opal-lang/fncompile/core/registry"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var compileErr *compiler.Error
	var registryErr *registry.Error
	var cliErr *CLIError
	switch {
	case errors.As(err, &compileErr):
		formatCompileError(w, compileErr, useColor)
	case errors.As(err, &registryErr):
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
		if registryErr.Reason == registry.ReasonUnsorted {
			_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor),
				"list longer names first, or pass --sort")
		}
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

func formatCompileError(w io.Writer, err *compiler.Error, useColor bool) {
	// err.Error() already carries the source snippet
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())

	var hint string
	switch err.Kind {
	case compiler.ErrorUnterminatedBracketList:
		hint = fmt.Sprintf("close the field list of %s, or escape a literal bracket with a backslash", err.Name)
	case compiler.ErrorBracketsRequired:
		hint = fmt.Sprintf("%s takes a field list, e.g. $%s[...]", err.Name, err.Name)
	}
	if hint != "" && err.Nested() {
		hint += fmt.Sprintf("; the outer %s is left unresolved", err.Enclosing[0])
	}
	if hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), hint)
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
