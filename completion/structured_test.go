package completion

import (
	"encoding/json"
	"testing"

	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
	"github.com/stretchr/testify/require"
)

type weatherReport struct {
	City string  `json:"city"`
	TempC float64 `json:"temp_c"`
}

func TestDecodeStructured_ValidPayload(t *testing.T) {
	resp := Response[string]{
		Choice: oneormany.New(message.AssistantText(`{"city":"nyc","temp_c":21.5}`)),
	}
	schema := json.RawMessage(`{
		"type": "object",
		"required": ["city", "temp_c"],
		"properties": {
			"city": {"type": "string"},
			"temp_c": {"type": "number"}
		}
	}`)

	out, err := DecodeStructured[weatherReport](resp, schema)
	require.NoError(t, err)
	require.Equal(t, "nyc", out.City)
	require.Equal(t, 21.5, out.TempC)
}

func TestDecodeStructured_SchemaViolation(t *testing.T) {
	resp := Response[string]{
		Choice: oneormany.New(message.AssistantText(`{"city":"nyc"}`)),
	}
	schema := json.RawMessage(`{
		"type": "object",
		"required": ["city", "temp_c"]
	}`)

	_, err := DecodeStructured[weatherReport](resp, schema)
	require.Error(t, err)
}

func TestDecodeStructured_NoText(t *testing.T) {
	resp := Response[string]{
		Choice: oneormany.New(message.AssistantToolCall(message.ToolCallBlock{ID: "x", Function: message.FunctionCall{Name: "f"}})),
	}
	_, err := DecodeStructured[weatherReport](resp, json.RawMessage(`{"type":"object"}`))
	require.Error(t, err)
}
