package completion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DecodeStructured validates resp's concatenated text against schema
// (compiled once per call; callers decoding many responses against the
// same schema should compile it themselves and reuse jsonschema.Schema)
// and unmarshals it into T. It is the extractor-style counterpart to
// Request.OutputSchema: a caller that set OutputSchema on the request
// uses this to get back a typed value instead of raw text.
func DecodeStructured[T any, R any](resp Response[R], schema json.RawMessage) (T, error) {
	var zero T
	text := resp.Text()
	if text == "" {
		return zero, ResponseError("structured output requested but response contained no text")
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return zero, JSONError(fmt.Errorf("decoding structured output: %w", err))
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return zero, fmt.Errorf("completion: invalid output_schema: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return zero, ResponseError(fmt.Sprintf("structured output failed schema validation: %s", err))
	}

	var out T
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return zero, JSONError(err)
	}
	return out, nil
}

func compileSchema(schema json.RawMessage) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	const resourceName = "output_schema.json"
	if err := compiler.AddResource(resourceName, schemaReader(schema)); err != nil {
		return nil, err
	}
	return compiler.Compile(resourceName)
}

func schemaReader(schema json.RawMessage) io.Reader {
	return bytes.NewReader(schema)
}
