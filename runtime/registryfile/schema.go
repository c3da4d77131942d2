package registryfile

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// registrySchema describes JSON and YAML registry files: either a bare list
// of entries or an object with a "functions" list.
const registrySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "entry": {
      "oneOf": [
        {"type": "string", "minLength": 1},
        {
          "type": "object",
          "required": ["name"],
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "brackets": {"type": "boolean"},
            "optional": {"type": "boolean"},
            "bracketsRequired": {"type": "boolean"},
            "bracketsOptional": {"type": "boolean"}
          },
          "additionalProperties": false
        }
      ]
    },
    "entries": {"type": "array", "items": {"$ref": "#/$defs/entry"}}
  },
  "oneOf": [
    {"$ref": "#/$defs/entries"},
    {
      "type": "object",
      "required": ["functions"],
      "properties": {"functions": {"$ref": "#/$defs/entries"}},
      "additionalProperties": false
    }
  ]
}`

const schemaURL = "schema://registry.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// shapeValidator returns the compiled registry schema.
func shapeValidator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(registrySchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
