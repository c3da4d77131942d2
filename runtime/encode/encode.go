// Package encode marshals compile results for hosts: JSON and YAML for
// people, canonical CBOR (optionally zstd-compressed) for programs.
package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/opal-lang/fncompile/core/compiler"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ParseFormat accepts json, yaml/yml and cbor, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want json, yaml or cbor)", s)
	}
}

// Binary reports whether the format is not meant for a terminal.
func (f Format) Binary() bool {
	return f == FormatCBOR
}

// Document is the serialized form of a compile result.
type Document struct {
	Code      string                    `json:"code" yaml:"code" cbor:"code"`
	Functions []compiler.InvocationView `json:"functions" yaml:"functions" cbor:"functions"`
}

// FromOutput builds the document for a successful compile.
func FromOutput(out *compiler.CompiledOutput) Document {
	return Document{
		Code:      out.Text,
		Functions: out.Views(),
	}
}

// Occurrence is the serialized form of a precomputed name occurrence.
type Occurrence struct {
	Name     string `json:"name" yaml:"name" cbor:"name"`
	Position int    `json:"position" yaml:"position" cbor:"position"`
	Size     int    `json:"size" yaml:"size" cbor:"size"`
}

// FromOccurrences converts occurrences in order.
func FromOccurrences(occurrences []compiler.Occurrence) []Occurrence {
	out := make([]Occurrence, len(occurrences))
	for i, o := range occurrences {
		out[i] = Occurrence{Name: o.Name(), Position: o.Position, Size: o.Size}
	}
	return out
}

// Option configures an encoding.
type Option func(*options)

type options struct {
	compress bool
}

// WithCompression wraps the encoded bytes in a zstd frame.
func WithCompression() Option {
	return func(o *options) {
		o.compress = true
	}
}

// Write encodes v to w in the given format.
func Write(w io.Writer, v any, format Format, opts ...Option) (err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.compress {
		zw, zerr := zstd.NewWriter(w)
		if zerr != nil {
			return fmt.Errorf("failed to create zstd writer: %w", zerr)
		}
		defer func() {
			if cerr := zw.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to finish zstd frame: %w", cerr)
			}
		}()
		w = zw
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("YAML encoding failed: %w", err)
		}
		return enc.Close()

	case FormatCBOR:
		data, err := MarshalCBOR(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// MarshalCBOR produces deterministic CBOR for v.
func MarshalCBOR(v any) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Decompress reads a zstd frame written with WithCompression.
func Decompress(r io.Reader) ([]byte, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
