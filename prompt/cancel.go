package prompt

// CancelSignal is a cooperative cancellation flag checked at the top of
// every Engine iteration and before each tool dispatch, distinct from
// ctx.Done() so a caller can distinguish "the run was cancelled" from
// "the underlying transport timed out" per spec.md §7's requirement
// that Cancelled be distinguishable from TransportError.
type CancelSignal struct {
	ch chan struct{}
}

// NewCancelSignal constructs an unfired signal.
func NewCancelSignal() *CancelSignal {
	return &CancelSignal{ch: make(chan struct{})}
}

// Cancel fires the signal. Safe to call more than once.
func (c *CancelSignal) Cancel() {
	select {
	case <-c.ch:
	default:
		close(c.ch)
	}
}

// Signalled reports whether Cancel has been called.
func (c *CancelSignal) Signalled() bool {
	if c == nil {
		return false
	}
	select {
	case <-c.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel that closes when Cancel is called, for
// select-based waits. Returns nil if c is nil, which is never ready.
func (c *CancelSignal) Done() <-chan struct{} {
	if c == nil {
		return nil
	}
	return c.ch
}
