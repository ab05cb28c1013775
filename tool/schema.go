package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	validate "github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateSchema compiles a tool's declared JSON-schema parameters and
// validates a candidate arguments document against it, surfacing any
// schema or validation failure as a single error the caller can attach
// to a ToolDefinition registration step.
func ValidateSchema(schema []byte, document []byte) error {
	compiler := validate.NewCompiler()
	if err := compiler.AddResource("tool-parameters.json", bytes.NewReader(schema)); err != nil {
		return fmt.Errorf("tool: invalid parameters schema: %w", err)
	}
	compiled, err := compiler.Compile("tool-parameters.json")
	if err != nil {
		return fmt.Errorf("tool: compiling parameters schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(document, &v); err != nil {
		return fmt.Errorf("tool: decoding arguments: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("tool: arguments do not satisfy schema: %w", err)
	}
	return nil
}

// SchemaFor reflects a Go struct type into a JSON-schema document
// suitable for a ToolDefinition's Parameters, so Go-native tool
// argument structs never need to hand-write their schema.
func SchemaFor[T any]() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(new(T))
	return json.Marshal(schema)
}
