package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToolChoice_AutoRoundTrip(t *testing.T) {
	c := ToolChoiceAuto()
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var out ToolChoice
	require.NoError(t, json.Unmarshal(data, &out))
	require.True(t, out.IsAuto())
}

func TestToolChoice_SpecificRoundTrip(t *testing.T) {
	c := ToolChoiceSpecific("get_weather")
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var out ToolChoice
	require.NoError(t, json.Unmarshal(data, &out))
	name, ok := out.Specific()
	require.True(t, ok)
	require.Equal(t, "get_weather", name)
}

func TestToolChoice_NoneAndRequired(t *testing.T) {
	require.True(t, ToolChoiceNone().IsNone())
	require.True(t, ToolChoiceRequired().IsRequired())
}
