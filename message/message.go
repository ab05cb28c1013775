package message

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rigflow/core/oneormany"
)

// Role identifies which side of a conversation produced a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrEmptyMessage is returned by constructors given no content blocks.
var ErrEmptyMessage = errors.New("message: at least one content block is required")

// Message is the provider-neutral unit of conversation history: either a
// user turn (one or more UserContent blocks) or an assistant turn (one or
// more AssistantContent blocks). Exactly one of User/Assistant is set.
type Message struct {
	id          string
	ofUser      *oneormany.OneOrMany[UserContent]
	ofAssistant *oneormany.OneOrMany[AssistantContent]
}

// NewUserMessage builds a user turn from one or more content blocks.
func NewUserMessage(first UserContent, rest ...UserContent) Message {
	o := oneormany.New(first, rest...)
	return Message{id: uuid.NewString(), ofUser: &o}
}

// NewAssistantMessage builds an assistant turn from one or more content blocks.
func NewAssistantMessage(first AssistantContent, rest ...AssistantContent) Message {
	o := oneormany.New(first, rest...)
	return Message{id: uuid.NewString(), ofAssistant: &o}
}

// UserMessageFromSlice builds a user turn from a slice, failing if empty.
func UserMessageFromSlice(blocks []UserContent) (Message, error) {
	o, err := oneormany.FromSlice(blocks)
	if err != nil {
		return Message{}, ErrEmptyMessage
	}
	return Message{id: uuid.NewString(), ofUser: &o}, nil
}

// AssistantMessageFromSlice builds an assistant turn from a slice, failing if empty.
func AssistantMessageFromSlice(blocks []AssistantContent) (Message, error) {
	o, err := oneormany.FromSlice(blocks)
	if err != nil {
		return Message{}, ErrEmptyMessage
	}
	return Message{id: uuid.NewString(), ofAssistant: &o}, nil
}

// ID returns this message's identifier: a locally generated uuid unless
// WithID has overridden it with a provider-supplied one.
func (m Message) ID() string { return m.id }

// WithID returns a copy of m carrying id in place of its generated one.
// The prompt engine uses this to satisfy multi-turn identifier
// continuity: some providers key session state off the message id they
// returned, so the assistant history entry must echo it verbatim on
// later turns rather than keep the locally generated uuid.
func (m Message) WithID(id string) Message {
	m.id = id
	return m
}

// IsUser and IsAssistant report the active variant.
func (m Message) IsUser() bool      { return m.ofUser != nil }
func (m Message) IsAssistant() bool { return m.ofAssistant != nil }

// Role reports which side produced this message.
func (m Message) Role() Role {
	if m.ofUser != nil {
		return RoleUser
	}
	return RoleAssistant
}

// User returns the user content blocks and whether that variant is active.
func (m Message) User() (oneormany.OneOrMany[UserContent], bool) {
	if m.ofUser == nil {
		return oneormany.OneOrMany[UserContent]{}, false
	}
	return *m.ofUser, true
}

// Assistant returns the assistant content blocks and whether that variant is active.
func (m Message) Assistant() (oneormany.OneOrMany[AssistantContent], bool) {
	if m.ofAssistant == nil {
		return oneormany.OneOrMany[AssistantContent]{}, false
	}
	return *m.ofAssistant, true
}

// RagText returns the text most suitable for embedding/indexing this
// message: the concatenation of every text block, falling back to an
// empty string for pure tool-call/tool-result/media turns. This mirrors
// the original implementation's lossy-but-useful text projection used to
// feed a message into a vector store without requiring every block to be
// text.
func (m Message) RagText() string {
	var out string
	switch {
	case m.ofUser != nil:
		m.ofUser.ForEach(func(c UserContent) {
			if text, ok := c.Text(); ok {
				if out != "" {
					out += "\n"
				}
				out += text
			}
		})
	case m.ofAssistant != nil:
		m.ofAssistant.ForEach(func(c AssistantContent) {
			if text, ok := c.Text(); ok {
				if out != "" {
					out += "\n"
				}
				out += text
			}
		})
	}
	return out
}

// ToolCalls returns every tool call block carried by this message, in
// order. It is empty for user messages and for assistant messages with no
// tool calls.
func (m Message) ToolCalls() []ToolCallBlock {
	if m.ofAssistant == nil {
		return nil
	}
	var calls []ToolCallBlock
	m.ofAssistant.ForEach(func(c AssistantContent) {
		if tc, ok := c.ToolCall(); ok {
			calls = append(calls, tc)
		}
	})
	return calls
}

// MarshalJSON encodes a Message as {"role": ..., "content": [...]}.
func (m Message) MarshalJSON() ([]byte, error) {
	switch {
	case m.ofUser != nil:
		return json.Marshal(struct {
			ID      string        `json:"id,omitempty"`
			Role    Role          `json:"role"`
			Content []UserContent `json:"content"`
		}{ID: m.id, Role: RoleUser, Content: m.ofUser.Slice()})
	case m.ofAssistant != nil:
		return json.Marshal(struct {
			ID      string             `json:"id,omitempty"`
			Role    Role               `json:"role"`
			Content []AssistantContent `json:"content"`
		}{ID: m.id, Role: RoleAssistant, Content: m.ofAssistant.Slice()})
	default:
		return nil, fmt.Errorf("message: empty Message")
	}
}

// UnmarshalJSON decodes a role-discriminated Message.
func (m *Message) UnmarshalJSON(data []byte) error {
	var probe struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.Role {
	case RoleUser:
		var wire struct {
			ID      string        `json:"id"`
			Content []UserContent `json:"content"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return err
		}
		msg, err := UserMessageFromSlice(wire.Content)
		if err != nil {
			return err
		}
		if wire.ID != "" {
			msg = msg.WithID(wire.ID)
		}
		*m = msg
	case RoleAssistant:
		var wire struct {
			ID      string             `json:"id"`
			Content []AssistantContent `json:"content"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return err
		}
		msg, err := AssistantMessageFromSlice(wire.Content)
		if err != nil {
			return err
		}
		if wire.ID != "" {
			msg = msg.WithID(wire.ID)
		}
		*m = msg
	default:
		return fmt.Errorf("message: unknown role %q", probe.Role)
	}
	return nil
}
