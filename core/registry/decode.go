package registry

import "fmt"

// Keys accepted in structured entries. The short forms are what hosts
// historically sent; the long forms mirror the Descriptor field names.
var (
	requiredKeys = []string{"bracketsRequired", "brackets"}
	optionalKeys = []string{"bracketsOptional", "optional"}
)

// FromEntries decodes host-supplied registry entries.
//
// Each entry is either a bare string (brackets taken, optional) or a map with
// a "name" and optional boolean bracket flags, both defaulting to true. A
// Descriptor value is taken as is. Anything else is a malformed entry.
func FromEntries(entries []any) (*Registry, error) {
	descriptors, err := DecodeEntries(entries)
	if err != nil {
		return nil, err
	}
	return New(descriptors...)
}

// DecodeEntries converts host entries to descriptors without checking their
// order, so callers may sort them first.
func DecodeEntries(entries []any) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, len(entries))
	for i, entry := range entries {
		d, err := decodeEntry(i, entry)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

func decodeEntry(index int, entry any) (Descriptor, error) {
	switch v := entry.(type) {
	case string:
		return Bare(v), nil
	case Descriptor:
		return v, nil
	case map[string]any:
		return decodeMap(index, v)
	default:
		return Descriptor{}, &Error{
			Index:  index,
			Reason: fmt.Sprintf("unknown function received in array (%T)", entry),
		}
	}
}

func decodeMap(index int, m map[string]any) (Descriptor, error) {
	raw, ok := m["name"]
	if !ok || raw == nil {
		return Descriptor{}, &Error{Index: index, Reason: ReasonUnnamed}
	}
	name, ok := raw.(string)
	if !ok {
		return Descriptor{}, &Error{Index: index, Reason: fmt.Sprintf("name must be a string, got %T", raw)}
	}

	d := Bare(name)
	var err error
	if d.BracketsRequired, err = boolField(index, name, m, requiredKeys, true); err != nil {
		return Descriptor{}, err
	}
	if d.BracketsOptional, err = boolField(index, name, m, optionalKeys, true); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// boolField reads the first present key in keys, falling back to def.
func boolField(index int, name string, m map[string]any, keys []string, def bool) (bool, error) {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		b, ok := raw.(bool)
		if !ok {
			return false, &Error{
				Index:  index,
				Name:   name,
				Reason: fmt.Sprintf("%s must be a boolean, got %T", key, raw),
			}
		}
		return b, nil
	}
	return def, nil
}
