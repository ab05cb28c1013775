package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolver_EvaluateMatchesByName(t *testing.T) {
	rule, err := Compile(`name == "shell.exec"`)
	require.NoError(t, err)

	res := NewResolver()
	ok, err := res.Evaluate(rule, "shell.exec", nil)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = res.Evaluate(rule, "shell.read", nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolver_EvaluateMatchesByTag(t *testing.T) {
	rule, err := Compile(`tag_elevated == true`)
	require.NoError(t, err)

	res := NewResolver()
	ok, err := res.Evaluate(rule, "shell.exec", map[string]bool{"elevated": true})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = res.Evaluate(rule, "shell.read", map[string]bool{"elevated": false})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolver_IsAllowedDenyTakesPrecedence(t *testing.T) {
	allow, err := Compile(`true`)
	require.NoError(t, err)
	deny, err := Compile(`tag_elevated == true`)
	require.NoError(t, err)

	res := NewResolver()
	ok, err := res.IsAllowed(allow, deny, "shell.exec", map[string]bool{"elevated": true})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = res.IsAllowed(allow, deny, "shell.read", map[string]bool{"elevated": false})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestResolver_IsAllowedNilAllowDefaultsTrue(t *testing.T) {
	res := NewResolver()
	ok, err := res.IsAllowed(nil, nil, "anything", nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCompile_RejectsInvalidExpression(t *testing.T) {
	_, err := Compile(`name ==`)
	require.Error(t, err)
}

func TestResolver_EvaluateRejectsNonBooleanResult(t *testing.T) {
	rule, err := Compile(`1 + 1`)
	require.NoError(t, err)

	res := NewResolver()
	_, err = res.Evaluate(rule, "anything", nil)
	require.Error(t, err)
}
