// Package compiler rewrites $name[field;field] invocations into opaque
// identifiers and returns the tree of resolved invocations.
//
// A Compiler is built from a registry and a source. Construction validates
// the registry and precomputes every textual occurrence of a registered
// name; Compile then scans the source once, confirming occurrences that
// directly follow a marker, parsing their bracketed fields (recursively for
// nested invocations) and replacing each invocation's full text with its
// identifier.
//
//	reg, _ := registry.Names("italic", "bold")
//	c, _ := compiler.New("$bold[$italic[hi]]", reg)
//	out, _ := c.Compile()
//	// out.Text == "SYSTEM_FUNCTION(0)"
//	// out.Invocations[0].Fields == []string{"SYSTEM_FUNCTION(1)"}
//
// A Compiler is single-use and not safe for concurrent use. Independent
// compilers share nothing mutable and may run in parallel, including over
// the same Registry.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opal-lang/fncompile/core/invariant"
	"github.com/opal-lang/fncompile/core/registry"
)

// Compiler compiles one source against one registry.
type Compiler struct {
	registry    *registry.Registry
	source      string
	text        string
	occurrences []Occurrence
	ids         *idAllocator
	cfg         config

	used   bool
	forest []ResolvedInvocation
	events []DebugEvent
}

// New validates the configuration and precomputes the occurrences of every
// registered name in source.
func New(source string, reg *registry.Registry, opts ...Option) (*Compiler, error) {
	invariant.Precondition(reg != nil, "registry must not be nil")

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.syntax.validate(); err != nil {
		return nil, err
	}
	if cfg.idStem == "" {
		return nil, errors.New("identifier stem must not be empty")
	}

	c := &Compiler{
		registry:    reg,
		source:      source,
		text:        source,
		occurrences: matchOccurrences(reg, source),
		ids:         newIDAllocator(cfg.idStem, source, cfg.syntax.Escape),
		cfg:         cfg,
	}

	cfg.logger.Debug("compiler constructed",
		"functions", reg.Len(),
		"occurrences", len(c.occurrences),
		"source_bytes", len(source),
		"id_stem", c.ids.Stem())
	return c, nil
}

// NewFromDescriptors builds the registry from descriptors, failing with
// ErrRegistryInvalid when they are unnamed or not sorted longest first.
func NewFromDescriptors(source string, descriptors []registry.Descriptor, opts ...Option) (*Compiler, error) {
	reg, err := registry.New(descriptors...)
	if err != nil {
		return nil, err
	}
	return New(source, reg, opts...)
}

// Compile is a shorthand for New followed by Compiler.Compile.
func Compile(source string, reg *registry.Registry, opts ...Option) (*CompiledOutput, error) {
	c, err := New(source, reg, opts...)
	if err != nil {
		return nil, err
	}
	return c.Compile()
}

// Compile performs the single parse. On success the compiler's text becomes
// the rewritten source. Any failure aborts the whole compile and leaves the
// text unchanged. A second call returns ErrAlreadyCompiled.
func (c *Compiler) Compile() (*CompiledOutput, error) {
	if c.used {
		return nil, ErrAlreadyCompiled
	}
	c.used = true

	if !c.hasMarkedOccurrence() {
		c.cfg.logger.Debug("no marked occurrences, source returned as is",
			"occurrences", len(c.occurrences))
		return &CompiledOutput{Text: c.source}, nil
	}

	p := &parser{
		src:    c.source,
		syntax: c.cfg.syntax,
		queue:  newOccurrenceQueue(c.occurrences),
		ids:    c.ids,
		logger: c.cfg.logger,
	}
	if c.cfg.debug {
		p.events = &c.events
	}

	text, forest, err := p.run()
	if err != nil {
		c.cfg.logger.Debug("compile failed", "error", err)
		return nil, fmt.Errorf("compile: %w", err)
	}

	c.text = text
	c.forest = forest
	out := &CompiledOutput{Text: text, Invocations: forest}
	c.cfg.logger.Debug("compile finished",
		"invocations", out.Count(),
		"top_level", len(forest))
	return out, nil
}

// hasMarkedOccurrence reports whether any occurrence directly follows a
// marker character, escaped or not. Without one the source has no
// invocations and is returned verbatim, escapes included.
func (c *Compiler) hasMarkedOccurrence() bool {
	marker := string(c.cfg.syntax.Marker)
	for _, o := range c.occurrences {
		if strings.HasSuffix(c.source[:o.Position], marker) {
			return true
		}
	}
	return false
}

// Text returns the source before Compile and the rewritten source after a
// successful Compile.
func (c *Compiler) Text() string {
	return c.text
}

// Forest returns the top-level invocations of the last successful Compile.
func (c *Compiler) Forest() []ResolvedInvocation {
	return c.forest
}

// Occurrences returns every occurrence found at construction, in source order.
func (c *Compiler) Occurrences() []Occurrence {
	out := make([]Occurrence, len(c.occurrences))
	copy(out, c.occurrences)
	return out
}

// IDStem returns the identifier stem in use, salted if the source
// contained the configured one.
func (c *Compiler) IDStem() string {
	return c.ids.Stem()
}

// DebugEvents returns the events recorded with WithDebugEvents.
func (c *Compiler) DebugEvents() []DebugEvent {
	return c.events
}
