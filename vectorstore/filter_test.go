package vectorstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter_MatchesEq(t *testing.T) {
	f := Eq[any]("status", "active")
	get := func(key string) (any, bool) {
		if key == "status" {
			return "active", true
		}
		return nil, false
	}
	require.True(t, f.Matches(get, filterLess, filterEqual))
}

func TestFilter_MatchesAndOr(t *testing.T) {
	f := Or(
		And(Eq[any]("status", "active"), Gt[any]("score", 5.0)),
		Eq[any]("tier", "gold"),
	)
	get := func(key string) (any, bool) {
		switch key {
		case "status":
			return "active", true
		case "score":
			return 10.0, true
		case "tier":
			return "silver", true
		}
		return nil, false
	}
	require.True(t, f.Matches(get, filterLess, filterEqual))
}

func TestFilter_MatchesMissingKeyIsFalse(t *testing.T) {
	f := Eq[any]("missing", "x")
	get := func(key string) (any, bool) { return nil, false }
	require.False(t, f.Matches(get, filterLess, filterEqual))
}

type recordingFilter struct {
	ops []string
}

func (r *recordingFilter) Eq(key string, value any) *recordingFilter {
	return &recordingFilter{ops: []string{"eq:" + key}}
}
func (r *recordingFilter) Gt(key string, value any) *recordingFilter {
	return &recordingFilter{ops: []string{"gt:" + key}}
}
func (r *recordingFilter) Lt(key string, value any) *recordingFilter {
	return &recordingFilter{ops: []string{"lt:" + key}}
}
func (r *recordingFilter) And(lhs, rhs *recordingFilter) *recordingFilter {
	merged := &recordingFilter{}
	merged.ops = append(merged.ops, lhs.ops...)
	merged.ops = append(merged.ops, rhs.ops...)
	merged.ops = append(merged.ops, "and")
	return merged
}
func (r *recordingFilter) Or(lhs, rhs *recordingFilter) *recordingFilter {
	merged := &recordingFilter{}
	merged.ops = append(merged.ops, lhs.ops...)
	merged.ops = append(merged.ops, rhs.ops...)
	merged.ops = append(merged.ops, "or")
	return merged
}

func TestFilter_InterpretIntoCustomDialect(t *testing.T) {
	f := And(Eq[any]("a", 1), Gt[any]("b", 2))
	result := Interpret[any, *recordingFilter](f, &recordingFilter{})
	require.Equal(t, []string{"eq:a", "gt:b", "and"}, result.ops)
}

func TestMatchesRawJSON_ReadsNestedPathAndCompares(t *testing.T) {
	doc := json.RawMessage(`{"status":"active","meta":{"score":9}}`)
	f := And(
		Eq[json.RawMessage]("status", json.RawMessage(`"active"`)),
		Gt[json.RawMessage]("meta.score", json.RawMessage(`5`)),
	)
	require.True(t, MatchesRawJSON(f, doc))
}

func TestMatchesRawJSON_MissingPathIsFalse(t *testing.T) {
	doc := json.RawMessage(`{"status":"active"}`)
	f := Eq[json.RawMessage]("tier", json.RawMessage(`"gold"`))
	require.False(t, MatchesRawJSON(f, doc))
}
