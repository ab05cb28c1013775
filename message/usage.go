package message

// Usage reports token accounting for a single completion call. Fields are
// additive across a multi-turn agent run via Add.
type Usage struct {
	InputTokens         int64
	OutputTokens         int64
	CachedInputTokens    int64
	ReasoningOutputTokens int64
}

// TotalTokens is the sum of input and output tokens billed for this call.
func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

// Add returns the element-wise sum of u and other, used by the prompt
// engine to accumulate usage across every turn of a multi-step run.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:           u.InputTokens + other.InputTokens,
		OutputTokens:          u.OutputTokens + other.OutputTokens,
		CachedInputTokens:     u.CachedInputTokens + other.CachedInputTokens,
		ReasoningOutputTokens: u.ReasoningOutputTokens + other.ReasoningOutputTokens,
	}
}
