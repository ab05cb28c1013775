package message

import "encoding/json"

// Document is a piece of system-visible context injected into a
// completion request (static documents on an Agent, or dynamic documents
// retrieved from a vector index). Placement within the wire request is
// adapter-defined, but the engine always preserves submission order.
type Document struct {
	Data             SourceKind      `json:"data"`
	MediaType        string          `json:"media_type,omitempty"`
	AdditionalParams json.RawMessage `json:"additional_params,omitempty"`
}
