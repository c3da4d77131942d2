package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/fncompile/core/compiler"
	"github.com/opal-lang/fncompile/core/registry"
)

func TestFormatCompileError(t *testing.T) {
	reg, err := registry.New(registry.Bare("italic"), registry.Descriptor{Name: "bold", BracketsRequired: true})
	require.NoError(t, err)

	tests := []struct {
		name     string
		source   string
		wantAt   string
		wantHint string
	}{
		{"unterminated", "$italic[x", "--> 1:1", "Hint: close the field list of italic"},
		{"brackets required", "$bold", "--> 1:1", "Hint: bold takes a field list, e.g. $bold[...]"},
		{"nested", "$italic[$bold]", "--> 1:9", "e.g. $bold[...]; the outer italic is left unresolved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.Compile(tt.source, reg)
			require.Error(t, err)

			var buf bytes.Buffer
			FormatError(&buf, fmt.Errorf("page.txt: %w", err), false)
			assert.Contains(t, buf.String(), "Error: ")
			assert.Contains(t, buf.String(), tt.wantAt)
			assert.Contains(t, buf.String(), tt.wantHint)
		})
	}
}

func TestFormatRegistryError(t *testing.T) {
	_, err := registry.Names("ab", "abc")
	require.Error(t, err)

	var buf bytes.Buffer
	FormatError(&buf, err, false)
	assert.Contains(t, buf.String(), registry.ReasonUnsorted)
	assert.Contains(t, buf.String(), "Hint: list longer names first, or pass --sort")
}

func TestFormatCLIErrorAndColor(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, &CLIError{Message: "no registry given", Hint: "pass --registry"}, true)
	assert.Equal(t, ColorRed+"Error: "+ColorReset+"no registry given\n"+ColorYellow+"Hint: "+ColorReset+"pass --registry\n", buf.String())

	buf.Reset()
	FormatError(&buf, errors.New("plain"), false)
	assert.Equal(t, "Error: plain\n", buf.String())

	buf.Reset()
	FormatError(&buf, nil, false)
	assert.Empty(t, buf.String())
}

func TestFormatTopLevelErrorHasNoOuterHint(t *testing.T) {
	reg, err := registry.New(registry.Descriptor{Name: "bold", BracketsRequired: true})
	require.NoError(t, err)
	_, err = compiler.Compile("$bold", reg)
	require.Error(t, err)

	var buf bytes.Buffer
	FormatError(&buf, err, false)
	assert.NotContains(t, buf.String(), "outer")
}

// fakeTerminal makes every writer look like a terminal for the test.
func fakeTerminal(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	orig := isTerminal
	isTerminal = func(io.Writer) bool { return true }
	t.Cleanup(func() { isTerminal = orig })
}

func TestShouldUseColor(t *testing.T) {
	assert.False(t, ShouldUseColor(true, &bytes.Buffer{}))
	assert.False(t, ShouldUseColor(false, &bytes.Buffer{}))

	fakeTerminal(t)
	assert.True(t, ShouldUseColor(false, &bytes.Buffer{}))
	assert.False(t, ShouldUseColor(true, &bytes.Buffer{}))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColor(false, &bytes.Buffer{}))
}

func TestExecuteHonorsNoColor(t *testing.T) {
	fakeTerminal(t)

	run := func(args ...string) (int, string) {
		cmd := NewRootCommand()
		var stderr bytes.Buffer
		cmd.SetIn(strings.NewReader("$bold"))
		cmd.SetOut(io.Discard)
		cmd.SetErr(&stderr)
		cmd.SetArgs(args)
		return Execute(context.Background(), cmd), stderr.String()
	}

	code, stderr := run("compile")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, ColorRed+"Error: "+ColorReset+"no registry given")

	code, stderr = run("compile", "--no-color")
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: no registry given\nHint: pass a registry file with --registry\n", stderr)

	code, stderr = run("compile", "-r", defaultRegistry(t), "-o", "text")
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
}
