// Package policy resolves per-tool allow/deny decisions from boolean
// expressions rather than static glob lists, so a hook or agent builder
// can express things like "elevated tools" or "require approval" as a
// single evaluable rule instead of enumerating tool names.
package policy

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"
)

// Resolver evaluates a compiled Rule against a tool name and its
// declared tags.
type Resolver struct{}

// NewResolver constructs a Resolver. It carries no state today but is a
// type (rather than free functions) so call sites can later grow
// resolver-scoped configuration without changing callers.
func NewResolver() *Resolver { return &Resolver{} }

// Rule is a compiled boolean expression over a tool's name and tags,
// e.g. `name == "shell.exec" || tag_elevated == true`.
type Rule struct {
	expression *govaluate.EvaluableExpression
	source     string
}

// Compile parses expr into a Rule. Available identifiers: `name`
// (string) and one `tag_<key>` boolean parameter per tag; map access
// such as `tags["key"]` is not supported by govaluate's grammar, so
// tags are flattened instead — see Evaluate.
func Compile(expr string) (*Rule, error) {
	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("policy: invalid expression %q: %w", expr, err)
	}
	return &Rule{expression: expression, source: expr}, nil
}

// String returns the rule's original expression text.
func (r *Rule) String() string { return r.source }

// Evaluate reports whether name (with the given tags) satisfies the
// rule. Each tag key k becomes a boolean parameter `tag_k` set to that
// tag's value.
func (res *Resolver) Evaluate(rule *Rule, name string, tags map[string]bool) (bool, error) {
	params := make(map[string]interface{}, len(tags)+1)
	params["name"] = name
	for k, v := range tags {
		params["tag_"+sanitizeIdentifier(k)] = v
	}

	result, err := rule.expression.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("policy: evaluating %q against %q: %w", rule.source, name, err)
	}
	ok, isBool := result.(bool)
	if !isBool {
		return false, fmt.Errorf("policy: expression %q did not evaluate to a boolean", rule.source)
	}
	return ok, nil
}

// IsAllowed applies an allow rule and a deny rule (either may be nil):
// a tool is permitted if allow is nil or matches, and deny is nil or
// does not match. Deny takes precedence over allow.
func (res *Resolver) IsAllowed(allow, deny *Rule, name string, tags map[string]bool) (bool, error) {
	if deny != nil {
		denied, err := res.Evaluate(deny, name, tags)
		if err != nil {
			return false, err
		}
		if denied {
			return false, nil
		}
	}
	if allow == nil {
		return true, nil
	}
	return res.Evaluate(allow, name, tags)
}

func sanitizeIdentifier(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
