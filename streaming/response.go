package streaming

import "github.com/rigflow/core/message"

// Response is the event-stream analogue of completion.Response[R]: a
// channel of RawStreamingChoice values terminated by exactly one
// FinalResponse, unless the stream is aborted by an error or
// cancellation (in which case an error arrives on Errs and no
// FinalResponse arrives).
type Response[S any] struct {
	Choices <-chan RawStreamingChoice
	Final   <-chan FinalResponse[S]
	Errs    <-chan error
}

// FinalResponse is the end-of-stream sentinel carrying aggregate usage
// and the provider's raw final payload.
type FinalResponse[S any] struct {
	Usage       message.Usage
	RawResponse S

	// MessageID is the provider-supplied message identifier, when the
	// provider returns one. The prompt engine stamps it onto the
	// assembled assistant message for multi-turn identifier continuity,
	// mirroring completion.Response's MessageID.
	MessageID *string
}
