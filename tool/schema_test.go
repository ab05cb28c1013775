package tool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type searchArgs struct {
	Query string `json:"query" jsonschema:"required"`
	Limit int    `json:"limit,omitempty"`
}

func TestSchemaFor_ProducesValidatingSchema(t *testing.T) {
	schema, err := SchemaFor[searchArgs]()
	require.NoError(t, err)
	require.NotEmpty(t, schema)

	require.NoError(t, ValidateSchema(schema, []byte(`{"query":"hello","limit":5}`)))
}

func TestValidateSchema_RejectsNonConformingDocument(t *testing.T) {
	schema, err := SchemaFor[searchArgs]()
	require.NoError(t, err)

	err = ValidateSchema(schema, []byte(`{"limit":"not-a-number"}`))
	require.Error(t, err)
}

func TestValidateSchema_RejectsMalformedSchema(t *testing.T) {
	err := ValidateSchema([]byte(`not json`), []byte(`{}`))
	require.Error(t, err)
}
