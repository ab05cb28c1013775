package message

import "encoding/json"

// ToolDefinition is the provider-neutral description of a callable tool:
// a name, a human-readable description, and a JSON Schema describing its
// arguments. It is what gets attached to a completion request; the
// tool package builds these from a Tool implementation's schema.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolChoice controls whether and how a model is steered towards calling
// tools on a given turn. Exactly one of the predicates below is true.
type ToolChoice struct {
	ofAuto     bool
	ofNone     bool
	ofRequired bool
	ofSpecific *string
}

// ToolChoiceAuto lets the model decide whether to call a tool.
func ToolChoiceAuto() ToolChoice { return ToolChoice{ofAuto: true} }

// ToolChoiceNone forbids tool calls on this turn.
func ToolChoiceNone() ToolChoice { return ToolChoice{ofNone: true} }

// ToolChoiceRequired forces the model to call some tool.
func ToolChoiceRequired() ToolChoice { return ToolChoice{ofRequired: true} }

// ToolChoiceSpecific forces the model to call the named tool.
func ToolChoiceSpecific(name string) ToolChoice { return ToolChoice{ofSpecific: &name} }

func (c ToolChoice) IsAuto() bool     { return c.ofAuto }
func (c ToolChoice) IsNone() bool     { return c.ofNone }
func (c ToolChoice) IsRequired() bool { return c.ofRequired }

// Specific returns the forced tool name and whether that variant is active.
func (c ToolChoice) Specific() (string, bool) {
	if c.ofSpecific == nil {
		return "", false
	}
	return *c.ofSpecific, true
}

type toolChoiceWire struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

func (c ToolChoice) MarshalJSON() ([]byte, error) {
	switch {
	case c.ofNone:
		return json.Marshal(toolChoiceWire{Type: "none"})
	case c.ofRequired:
		return json.Marshal(toolChoiceWire{Type: "required"})
	case c.ofSpecific != nil:
		return json.Marshal(toolChoiceWire{Type: "tool", Name: *c.ofSpecific})
	default:
		return json.Marshal(toolChoiceWire{Type: "auto"})
	}
}

func (c *ToolChoice) UnmarshalJSON(data []byte) error {
	var wire toolChoiceWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case "none":
		*c = ToolChoiceNone()
	case "required":
		*c = ToolChoiceRequired()
	case "tool":
		*c = ToolChoiceSpecific(wire.Name)
	default:
		*c = ToolChoiceAuto()
	}
	return nil
}
