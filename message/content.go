package message

import (
	"encoding/json"
	"fmt"

	"github.com/rigflow/core/oneormany"
)

// ImageDetail hints the level of detail a vision-capable model should apply.
type ImageDetail string

const (
	ImageDetailAuto ImageDetail = "auto"
	ImageDetailLow  ImageDetail = "low"
	ImageDetailHigh ImageDetail = "high"
)

// ImageContent is an inline or referenced image block.
type ImageContent struct {
	Data      SourceKind
	MediaType string
	Detail    ImageDetail
}

// AudioContent is an inline or referenced audio block.
type AudioContent struct {
	Data      SourceKind
	MediaType string
}

// DocumentContent is an inline or referenced document block (PDF, text, ...).
type DocumentContent struct {
	Data              SourceKind
	MediaType         string
	AdditionalParams  json.RawMessage
}

// ToolResultContent is the content carried inside a ToolResult: either
// plain text or a structured media block mirroring the image/audio/document
// forms available to user content.
type ToolResultContent struct {
	ofText     *string
	ofImage    *ImageContent
	ofAudio    *AudioContent
	ofDocument *DocumentContent
}

func ToolResultText(text string) ToolResultContent   { return ToolResultContent{ofText: &text} }
func ToolResultImage(img ImageContent) ToolResultContent {
	return ToolResultContent{ofImage: &img}
}
func ToolResultAudio(a AudioContent) ToolResultContent { return ToolResultContent{ofAudio: &a} }
func ToolResultDocument(d DocumentContent) ToolResultContent {
	return ToolResultContent{ofDocument: &d}
}

// Text returns the text payload, if this variant is active.
func (c ToolResultContent) Text() (string, bool) {
	if c.ofText == nil {
		return "", false
	}
	return *c.ofText, true
}

// Image, Audio, Document mirror Text for the media variants.
func (c ToolResultContent) Image() (ImageContent, bool) {
	if c.ofImage == nil {
		return ImageContent{}, false
	}
	return *c.ofImage, true
}
func (c ToolResultContent) Audio() (AudioContent, bool) {
	if c.ofAudio == nil {
		return AudioContent{}, false
	}
	return *c.ofAudio, true
}
func (c ToolResultContent) Document() (DocumentContent, bool) {
	if c.ofDocument == nil {
		return DocumentContent{}, false
	}
	return *c.ofDocument, true
}

// UserContent is one content block inside a user message.
type UserContent struct {
	ofText       *string
	ofToolResult *ToolResultBlock
	ofImage      *ImageContent
	ofAudio      *AudioContent
	ofDocument   *DocumentContent
}

// ToolResultBlock is the payload of a UserContent tool-result variant.
// CallID is the provider-native correlation id echoed from the earlier
// tool call, when the provider emits one; ID is the tool name or logical
// handle the call was issued against.
type ToolResultBlock struct {
	ID      string
	CallID  *string
	Content oneormany.OneOrMany[ToolResultContent]
}

func UserText(text string) UserContent { return UserContent{ofText: &text} }

func UserToolResult(block ToolResultBlock) UserContent {
	return UserContent{ofToolResult: &block}
}

func UserImage(img ImageContent) UserContent    { return UserContent{ofImage: &img} }
func UserAudio(a AudioContent) UserContent      { return UserContent{ofAudio: &a} }
func UserDocument(d DocumentContent) UserContent { return UserContent{ofDocument: &d} }

func (c UserContent) Text() (string, bool) {
	if c.ofText == nil {
		return "", false
	}
	return *c.ofText, true
}

func (c UserContent) ToolResult() (ToolResultBlock, bool) {
	if c.ofToolResult == nil {
		return ToolResultBlock{}, false
	}
	return *c.ofToolResult, true
}

func (c UserContent) Image() (ImageContent, bool) {
	if c.ofImage == nil {
		return ImageContent{}, false
	}
	return *c.ofImage, true
}

func (c UserContent) Audio() (AudioContent, bool) {
	if c.ofAudio == nil {
		return AudioContent{}, false
	}
	return *c.ofAudio, true
}

func (c UserContent) Document() (DocumentContent, bool) {
	if c.ofDocument == nil {
		return DocumentContent{}, false
	}
	return *c.ofDocument, true
}

// FunctionCall is the name/arguments pair inside an assistant tool call.
type FunctionCall struct {
	Name      string
	Arguments json.RawMessage
}

// ToolCallBlock is the payload of an AssistantContent tool-call variant.
// ID is a stable identifier chosen by the provider; CallID is a secondary
// identifier some providers emit (and require echoed) alongside it.
type ToolCallBlock struct {
	ID       string
	CallID   *string
	Function FunctionCall
}

// ReasoningBlock carries opaque provider chain-of-thought. Signature must
// never be synthesised by this core; it is copied verbatim from whatever
// the provider returned so it can be replayed in a later turn.
type ReasoningBlock struct {
	ID        *string
	Summary   []string
	Signature *string
}

// AssistantContent is one content block inside an assistant message.
type AssistantContent struct {
	ofText      *string
	ofReasoning *ReasoningBlock
	ofToolCall  *ToolCallBlock
}

func AssistantText(text string) AssistantContent { return AssistantContent{ofText: &text} }

func AssistantReasoning(r ReasoningBlock) AssistantContent {
	return AssistantContent{ofReasoning: &r}
}

func AssistantToolCall(tc ToolCallBlock) AssistantContent {
	return AssistantContent{ofToolCall: &tc}
}

func (c AssistantContent) Text() (string, bool) {
	if c.ofText == nil {
		return "", false
	}
	return *c.ofText, true
}

func (c AssistantContent) Reasoning() (ReasoningBlock, bool) {
	if c.ofReasoning == nil {
		return ReasoningBlock{}, false
	}
	return *c.ofReasoning, true
}

func (c AssistantContent) ToolCall() (ToolCallBlock, bool) {
	if c.ofToolCall == nil {
		return ToolCallBlock{}, false
	}
	return *c.ofToolCall, true
}

// IsToolCall reports whether this block carries a tool call, used by the
// prompt engine to partition a turn's content into text/reasoning vs. calls.
func (c AssistantContent) IsToolCall() bool { return c.ofToolCall != nil }

// --- JSON encodings -------------------------------------------------------

type toolResultContentWire struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	Image    *ImageContent    `json:"image,omitempty"`
	Audio    *AudioContent    `json:"audio,omitempty"`
	Document *DocumentContent `json:"document,omitempty"`
}

func (c ToolResultContent) MarshalJSON() ([]byte, error) {
	switch {
	case c.ofText != nil:
		return json.Marshal(toolResultContentWire{Type: "text", Text: *c.ofText})
	case c.ofImage != nil:
		return json.Marshal(toolResultContentWire{Type: "image", Image: c.ofImage})
	case c.ofAudio != nil:
		return json.Marshal(toolResultContentWire{Type: "audio", Audio: c.ofAudio})
	case c.ofDocument != nil:
		return json.Marshal(toolResultContentWire{Type: "document", Document: c.ofDocument})
	default:
		return nil, fmt.Errorf("message: empty ToolResultContent")
	}
}

func (c *ToolResultContent) UnmarshalJSON(data []byte) error {
	var wire toolResultContentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case "text":
		*c = ToolResultText(wire.Text)
	case "image":
		*c = ToolResultImage(*wire.Image)
	case "audio":
		*c = ToolResultAudio(*wire.Audio)
	case "document":
		*c = ToolResultDocument(*wire.Document)
	default:
		return fmt.Errorf("message: unknown tool result content type %q", wire.Type)
	}
	return nil
}

type userContentWire struct {
	Type       string            `json:"type"`
	Text       string            `json:"text,omitempty"`
	ToolResult *ToolResultBlock  `json:"tool_result,omitempty"`
	Image      *ImageContent     `json:"image,omitempty"`
	Audio      *AudioContent     `json:"audio,omitempty"`
	Document   *DocumentContent  `json:"document,omitempty"`
}

func (c UserContent) MarshalJSON() ([]byte, error) {
	switch {
	case c.ofText != nil:
		return json.Marshal(userContentWire{Type: "text", Text: *c.ofText})
	case c.ofToolResult != nil:
		return json.Marshal(userContentWire{Type: "tool_result", ToolResult: c.ofToolResult})
	case c.ofImage != nil:
		return json.Marshal(userContentWire{Type: "image", Image: c.ofImage})
	case c.ofAudio != nil:
		return json.Marshal(userContentWire{Type: "audio", Audio: c.ofAudio})
	case c.ofDocument != nil:
		return json.Marshal(userContentWire{Type: "document", Document: c.ofDocument})
	default:
		return nil, fmt.Errorf("message: empty UserContent")
	}
}

func (c *UserContent) UnmarshalJSON(data []byte) error {
	var wire userContentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case "text":
		*c = UserText(wire.Text)
	case "tool_result":
		*c = UserToolResult(*wire.ToolResult)
	case "image":
		*c = UserImage(*wire.Image)
	case "audio":
		*c = UserAudio(*wire.Audio)
	case "document":
		*c = UserDocument(*wire.Document)
	default:
		return fmt.Errorf("message: unknown user content type %q", wire.Type)
	}
	return nil
}

type assistantContentWire struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Reasoning *ReasoningBlock `json:"reasoning,omitempty"`
	ToolCall  *ToolCallBlock  `json:"tool_call,omitempty"`
}

func (c AssistantContent) MarshalJSON() ([]byte, error) {
	switch {
	case c.ofText != nil:
		return json.Marshal(assistantContentWire{Type: "text", Text: *c.ofText})
	case c.ofReasoning != nil:
		return json.Marshal(assistantContentWire{Type: "reasoning", Reasoning: c.ofReasoning})
	case c.ofToolCall != nil:
		return json.Marshal(assistantContentWire{Type: "tool_call", ToolCall: c.ofToolCall})
	default:
		return nil, fmt.Errorf("message: empty AssistantContent")
	}
}

func (c *AssistantContent) UnmarshalJSON(data []byte) error {
	var wire assistantContentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case "text":
		*c = AssistantText(wire.Text)
	case "reasoning":
		*c = AssistantReasoning(*wire.Reasoning)
	case "tool_call":
		*c = AssistantToolCall(*wire.ToolCall)
	default:
		return fmt.Errorf("message: unknown assistant content type %q", wire.Type)
	}
	return nil
}
