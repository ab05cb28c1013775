// Package vectorstore defines the VectorStoreIndex contract, the
// canonical Filter DSL every backend translates to its own dialect, and
// a reference in-memory implementation plus Redis- and SQLite-backed
// ones.
package vectorstore

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// SearchFilter is the tagless-final capability every backend implements
// for its own query dialect. The canonical Filter[V] tree also
// implements it (see Interpret), so any Filter[V] can be folded into any
// backend's dialect without the backend depending on Filter's shape.
type SearchFilter[V any, Self any] interface {
	Eq(key string, value V) Self
	Gt(key string, value V) Self
	Lt(key string, value V) Self
	And(lhs, rhs Self) Self
	Or(lhs, rhs Self) Self
}

// FilterError reports an operator a backend's dialect cannot express.
type FilterError struct {
	Backend string
	Op      string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("vectorstore: backend %q cannot express filter operator %q", e.Backend, e.Op)
}

// Filter is the canonical recursive filter tree: Eq/Gt/Lt leaves and
// And/Or branches, parameterised by a value type V (typically any for
// arbitrary JSON values). Exactly one of the leaf/branch fields is set
// per node.
type Filter[V any] struct {
	op    filterOp
	key   string
	value V
	lhs   *Filter[V]
	rhs   *Filter[V]
}

type filterOp int

const (
	opEq filterOp = iota
	opGt
	opLt
	opAnd
	opOr
)

func Eq[V any](key string, value V) Filter[V] { return Filter[V]{op: opEq, key: key, value: value} }
func Gt[V any](key string, value V) Filter[V] { return Filter[V]{op: opGt, key: key, value: value} }
func Lt[V any](key string, value V) Filter[V] { return Filter[V]{op: opLt, key: key, value: value} }

func And[V any](lhs, rhs Filter[V]) Filter[V] {
	return Filter[V]{op: opAnd, lhs: &lhs, rhs: &rhs}
}

func Or[V any](lhs, rhs Filter[V]) Filter[V] {
	return Filter[V]{op: opOr, lhs: &lhs, rhs: &rhs}
}

// Interpret folds this Filter tree into any backend dialect F that
// implements SearchFilter[V, F], via the interpreter f.
func Interpret[V any, F any](filter Filter[V], f SearchFilter[V, F]) F {
	switch filter.op {
	case opEq:
		return f.Eq(filter.key, filter.value)
	case opGt:
		return f.Gt(filter.key, filter.value)
	case opLt:
		return f.Lt(filter.key, filter.value)
	case opAnd:
		return f.And(Interpret(*filter.lhs, f), Interpret(*filter.rhs, f))
	case opOr:
		return f.Or(Interpret(*filter.lhs, f), Interpret(*filter.rhs, f))
	default:
		var zero F
		return zero
	}
}

// Matches evaluates the filter directly against a property map, used by
// the in-memory reference backend, which has no separate query dialect
// to translate into.
func (f Filter[V]) Matches(get func(key string) (V, bool), less func(a, b V) bool, equal func(a, b V) bool) bool {
	switch f.op {
	case opEq:
		v, ok := get(f.key)
		return ok && equal(v, f.value)
	case opGt:
		v, ok := get(f.key)
		return ok && less(f.value, v)
	case opLt:
		v, ok := get(f.key)
		return ok && less(v, f.value)
	case opAnd:
		return f.lhs.Matches(get, less, equal) && f.rhs.Matches(get, less, equal)
	case opOr:
		return f.lhs.Matches(get, less, equal) || f.rhs.Matches(get, less, equal)
	default:
		return false
	}
}

// EvaluateFilter matches a Filter[any]-typed filter (boxed as any, the
// shape every SearchRequest[any]-based backend carries) against a flat
// property map using JSON-comparison semantics for Eq and numeric/string
// ordering for Gt/Lt. Backends that evaluate filters directly against an
// in-process map (rather than translating into a remote query language)
// share this helper instead of reimplementing Filter.Matches's plumbing.
func EvaluateFilter(filter any, properties map[string]any) bool {
	f, ok := filter.(Filter[any])
	if !ok {
		return true
	}
	get := func(key string) (any, bool) {
		v, ok := properties[key]
		return v, ok
	}
	return f.Matches(get, filterLess, filterEqual)
}

func filterLess(a, b any) bool {
	af, aok := filterToFloat(a)
	bf, bok := filterToFloat(b)
	if aok && bok {
		return af < bf
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as < bs
	}
	return false
}

func filterEqual(a, b any) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}

// MatchesRawJSON evaluates filter against doc, a document stored as raw
// JSON rather than a decoded map[string]any — the shape a backend that
// persists properties as an opaque blob (rather than a typed column per
// key) hands back from storage. Each leaf's key is read as a gjson path
// (so "meta.source" reaches into nested objects without the backend
// having to decode the whole document first), and the leaf's value,
// itself raw JSON, is compared with gjson.Result equality/ordering
// rather than unmarshalling into Go values.
func MatchesRawJSON(filter Filter[json.RawMessage], doc json.RawMessage) bool {
	get := func(key string) (json.RawMessage, bool) {
		r := gjson.GetBytes(doc, key)
		if !r.Exists() {
			return nil, false
		}
		return json.RawMessage(r.Raw), true
	}
	less := func(a, b json.RawMessage) bool {
		ra, rb := gjson.ParseBytes(a), gjson.ParseBytes(b)
		if ra.Type == gjson.Number && rb.Type == gjson.Number {
			return ra.Num < rb.Num
		}
		return ra.Str < rb.Str
	}
	equal := func(a, b json.RawMessage) bool {
		return gjson.ParseBytes(a).Raw == gjson.ParseBytes(b).Raw
	}
	return filter.Matches(get, less, equal)
}

func filterToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
