package registryfile

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/opal-lang/fncompile/core/registry"
)

// fileEntry is the structured form of an entry. Flags at their default are
// omitted; an entry with both defaults is written as a bare name instead.
type fileEntry struct {
	Name     string `json:"name" yaml:"name"`
	Brackets *bool  `json:"brackets,omitempty" yaml:"brackets,omitempty"`
	Optional *bool  `json:"optional,omitempty" yaml:"optional,omitempty"`
}

type fileDocument struct {
	Functions []any `json:"functions" yaml:"functions"`
}

// Write encodes descriptors as a registry file. The output parses back to
// the same descriptors in the same order.
func Write(w io.Writer, descriptors []registry.Descriptor, format Format) error {
	switch format {
	case FormatHCL:
		_, err := w.Write(encodeHCL(descriptors))
		return err

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document(descriptors))

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document(descriptors)); err != nil {
			return fmt.Errorf("YAML encoding failed: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("unsupported registry format %d", format)
	}
}

func document(descriptors []registry.Descriptor) fileDocument {
	doc := fileDocument{Functions: make([]any, len(descriptors))}
	for i, d := range descriptors {
		if d.BracketsRequired && d.BracketsOptional {
			doc.Functions[i] = d.Name
			continue
		}
		entry := fileEntry{Name: d.Name}
		if !d.BracketsRequired {
			entry.Brackets = &d.BracketsRequired
		}
		if !d.BracketsOptional {
			entry.Optional = &d.BracketsOptional
		}
		doc.Functions[i] = entry
	}
	return doc
}

func encodeHCL(descriptors []registry.Descriptor) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, d := range descriptors {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("function", []string{d.Name})
		if !d.BracketsRequired {
			block.Body().SetAttributeValue("brackets", cty.False)
		}
		if !d.BracketsOptional {
			block.Body().SetAttributeValue("optional", cty.False)
		}
	}
	return f.Bytes()
}
