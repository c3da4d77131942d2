// Package registryfile loads function registries from JSON, YAML and HCL files.
//
// JSON and YAML files hold either a list of entries or an object with a
// "functions" list. An entry is a bare name or an object:
//
//	functions:
//	  - italic
//	  - name: bold
//	    brackets: true
//	    optional: false
//
// HCL files declare one block per function, in registry order:
//
//	function "italic" {}
//	function "bold" {
//	  brackets = true
//	  optional = false
//	}
//
// Shape errors and ordering errors both match registry.ErrInvalid.
package registryfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/opal-lang/fncompile/core/registry"
)

// Format identifies a registry file syntax.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatHCL
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatHCL:
		return "hcl"
	default:
		return "unknown"
	}
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return 0, fmt.Errorf("unsupported registry file extension %q (want .json, .yaml, .yml or .hcl)", filepath.Ext(path))
	}
}

// Option configures loading.
type Option func(*options)

type options struct {
	sort bool
}

// WithSort orders entries longest name first before validation.
func WithSort() Option {
	return func(o *options) {
		o.sort = true
	}
}

// Load reads and decodes the registry file at path.
func Load(path string, opts ...Option) (*registry.Registry, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading registry file: %w", err)
	}
	return Parse(data, format, path, opts...)
}

// Parse decodes registry data in the given format. name labels errors.
func Parse(data []byte, format Format, name string, opts ...Option) (*registry.Registry, error) {
	descriptors, err := Descriptors(data, format, name)
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.sort {
		descriptors = registry.SortByLength(descriptors)
	}

	reg, err := registry.New(descriptors...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return reg, nil
}

// Descriptors decodes registry data without validating its order.
func Descriptors(data []byte, format Format, name string) ([]registry.Descriptor, error) {
	switch format {
	case FormatHCL:
		return decodeHCL(data, name)
	case FormatJSON, FormatYAML:
		doc, err := decodeDocument(data, format)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s registry %s: %w", format, name, err)
		}
		entries, err := entriesOf(doc, name)
		if err != nil {
			return nil, err
		}
		descriptors, err := registry.DecodeEntries(entries)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return descriptors, nil
	default:
		return nil, fmt.Errorf("unsupported registry format %d", format)
	}
}

// decodeDocument parses JSON or YAML into plain JSON values.
func decodeDocument(data []byte, format Format) (any, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		// Round-trip through JSON so the schema sees JSON types only
		normalized, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		data = normalized
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// entriesOf checks doc against the registry schema and returns its entries.
func entriesOf(doc any, name string) ([]any, error) {
	schema, err := shapeValidator()
	if err != nil {
		return nil, fmt.Errorf("registry schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w: malformed registry: %v", name, registry.ErrInvalid, err)
	}

	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		entries, _ := v["functions"].([]any)
		return entries, nil
	default:
		return nil, fmt.Errorf("%s: %w: malformed registry", name, registry.ErrInvalid)
	}
}

// hclRegistryFile is the top-level structure of an HCL registry file.
type hclRegistryFile struct {
	Functions []*hclFunction `hcl:"function,block"`
}

type hclFunction struct {
	Name     string `hcl:"name,label"`
	Brackets *bool  `hcl:"brackets,optional"`
	Optional *bool  `hcl:"optional,optional"`
}

func decodeHCL(data []byte, name string) ([]registry.Descriptor, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL registry %s: %w", name, diags)
	}

	var parsed hclRegistryFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL registry %s: %w", name, diags)
	}

	descriptors := make([]registry.Descriptor, 0, len(parsed.Functions))
	for i, fn := range parsed.Functions {
		if fn.Name == "" {
			return nil, fmt.Errorf("%s: %w", name, &registry.Error{Index: i, Reason: registry.ReasonUnnamed})
		}
		d := registry.Bare(fn.Name)
		if fn.Brackets != nil {
			d.BracketsRequired = *fn.Brackets
		}
		if fn.Optional != nil {
			d.BracketsOptional = *fn.Optional
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}
