// Package prompt implements the multi-turn prompt engine: the state
// machine that drives an Agent through repeated completion/tool-dispatch
// rounds until a turn produces no further tool calls or the run is
// aborted by cancellation, a missing tool, or exceeding max depth.
package prompt

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/rigflow/core/agent"
	"github.com/rigflow/core/completion"
	"github.com/rigflow/core/message"
	"github.com/rigflow/core/oneormany"
	"github.com/rigflow/core/tool"
)

// MaxConcurrentToolCalls bounds how many tool calls within a single turn
// execute concurrently, the errgroup equivalent of the teacher's
// executor semaphore.
const MaxConcurrentToolCalls = 5

// Engine runs prompt loops for a fixed provider response type R. It is
// safe for concurrent use by multiple Run calls.
type Engine[R any] struct {
	metrics *Metrics
	tracer  trace.Tracer
}

// NewEngine constructs an Engine. metrics may be nil to disable
// instrumentation.
func NewEngine[R any](metrics *Metrics) *Engine[R] {
	return &Engine[R]{
		metrics: metrics,
		tracer:  otel.Tracer("github.com/rigflow/core/prompt"),
	}
}

// Result is Run's successful outcome: the final assistant text and the
// full working history accumulated across every turn of the run.
type Result struct {
	Text        string
	ChatHistory oneormany.OneOrMany[message.Message]
	Usage       message.Usage
}

// Run drives agent through repeated completion/tool-dispatch rounds,
// starting from chatHistoryIn plus initialPrompt, until a turn produces
// no tool calls, the run is cancelled, a tool call names a tool absent
// from agent.Tools, or depth exceeds maxDepth. hook may be nil, in which
// case every hook point defaults to its no-op behaviour.
func (e *Engine[R]) Run(
	ctx context.Context,
	ag agent.Agent[R],
	initialPrompt message.Message,
	chatHistoryIn []message.Message,
	maxDepth int,
	hook Hook,
	cancel *CancelSignal,
) (Result, error) {
	if hook == nil {
		hook = NoopHook{}
	}

	ctx, span := e.tracer.Start(ctx, "prompt.Run")
	defer span.End()

	seed := make([]message.Message, 0, len(chatHistoryIn)+1)
	seed = append(seed, chatHistoryIn...)
	seed = append(seed, initialPrompt)
	h, err := oneormany.FromSlice(seed)
	if err != nil {
		// seed always contains initialPrompt; unreachable.
		return Result{}, err
	}
	lastPrompt := initialPrompt
	var usage message.Usage

	for depth := 0; ; depth++ {
		if cancel.Signalled() {
			span.SetStatus(codes.Error, ErrCancelled.Error())
			return Result{ChatHistory: h, Usage: usage}, ErrCancelled
		}
		if depth > maxDepth {
			maxDepthErr := &MaxDepthError{MaxDepth: maxDepth, ChatHistory: h, Prompt: lastPrompt}
			if e.metrics != nil {
				e.metrics.MaxDepthExceeded.Inc()
			}
			span.RecordError(maxDepthErr)
			return Result{ChatHistory: h, Usage: usage}, maxDepthErr
		}
		if e.metrics != nil {
			e.metrics.IterationCounter.Inc()
		}
		span.SetAttributes(attribute.Int("prompt.depth", depth))

		req, err := e.buildRequest(ctx, &ag, h, lastPrompt)
		if err != nil {
			return Result{ChatHistory: h, Usage: usage}, err
		}

		req, err = hook.OnCompletionCall(ctx, req)
		if err != nil {
			return Result{ChatHistory: h, Usage: usage}, err
		}

		resp, err := e.complete(ctx, ag.Model, req)
		if err != nil {
			span.RecordError(err)
			return Result{ChatHistory: h, Usage: usage}, err
		}
		usage = usage.Add(resp.Usage)

		assistantMsg := resp.AssistantMessage()
		h = h.Push(assistantMsg)

		text := resp.Text()
		if err := hook.OnCompletionResponse(ctx, text); err != nil {
			return Result{ChatHistory: h, Usage: usage}, err
		}

		toolCalls := resp.ToolCalls()
		if len(toolCalls) == 0 {
			return Result{Text: text, ChatHistory: h, Usage: usage}, nil
		}

		userMsgs, err := e.dispatchToolCalls(ctx, &ag, toolCalls, hook, cancel)
		if err != nil {
			span.RecordError(err)
			return Result{ChatHistory: h, Usage: usage}, err
		}
		for _, um := range userMsgs {
			h = h.Push(um)
			lastPrompt = um
		}
	}
}

// buildRequest assembles a completion.Request from the agent's static
// state plus its dynamic context/tools sources, resolved against
// lastPrompt's rag text (or, when lastPrompt has none, as for a pure
// tool-result turn, the nearest preceding message in h that has some),
// per the request-construction step of the prompt-engine loop.
func (e *Engine[R]) buildRequest(ctx context.Context, ag *agent.Agent[R], h oneormany.OneOrMany[message.Message], lastPrompt message.Message) (completion.Request, error) {
	ragText := lastPrompt.RagText()
	if ragText == "" {
		msgs := h.Slice()
		for i := len(msgs) - 1; i >= 0 && ragText == ""; i-- {
			ragText = msgs[i].RagText()
		}
	}

	docs := append([]message.Document{}, ag.Documents...)
	dynDocs, err := ag.ResolveContext(ctx, ragText)
	if err != nil {
		return completion.Request{}, err
	}
	docs = append(docs, dynDocs...)

	tools := append([]message.ToolDefinition{}, ag.StaticTools...)
	dynTools, err := ag.ResolveTools(ctx, ragText)
	if err != nil {
		return completion.Request{}, err
	}
	tools = append(tools, dynTools...)

	builder := completion.NewRequestBuilder(h).
		Preamble(ag.Preamble).
		Documents(docs).
		Tools(tools)

	if ag.Temperature != nil {
		builder = builder.Temperature(*ag.Temperature)
	}
	if ag.MaxTokens != nil {
		builder = builder.MaxTokens(*ag.MaxTokens)
	}
	if len(ag.AdditionalParams) > 0 {
		builder = builder.AdditionalParams(ag.AdditionalParams)
	}

	return builder.Build()
}

// complete wraps a single model dispatch in its own span.
func (e *Engine[R]) complete(ctx context.Context, model completion.Model[R], req completion.Request) (completion.Response[R], error) {
	ctx, span := e.tracer.Start(ctx, "prompt.completion")
	defer span.End()

	resp, err := model.Completion(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

// toolDispatch tracks one tool call's journey through a turn: the
// hook's verdict, and either its synthesised or executed result.
type toolDispatch struct {
	call    message.ToolCallBlock
	pending bool
	result  string
	missing bool
}

// dispatchToolCalls runs the hook/dispatch/hook sequence for one turn's
// tool calls. Hook invocations and the decision pass happen in provider
// order; tool calls with a Continue decision then execute concurrently
// (bounded by MaxConcurrentToolCalls, the errgroup equivalent of the
// teacher's executor semaphore) before results are folded back into
// user messages in the original order.
func (e *Engine[R]) dispatchToolCalls(ctx context.Context, ag *agent.Agent[R], calls []message.ToolCallBlock, hook Hook, cancel *CancelSignal) ([]message.Message, error) {
	plan := make([]toolDispatch, len(calls))

	for i, call := range calls {
		plan[i] = toolDispatch{call: call}

		if cancel.Signalled() {
			return nil, ErrCancelled
		}

		decision, err := hook.OnToolCall(ctx, call.Function.Name, call.CallID, string(call.Function.Arguments), cancel)
		if err != nil {
			return nil, err
		}
		if decision.abort {
			return nil, ErrCancelled
		}
		if decision.skip {
			plan[i].result = decision.reason
			continue
		}
		plan[i].pending = true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentToolCalls)
	for i := range plan {
		if !plan[i].pending {
			continue
		}
		i := i
		g.Go(func() error {
			e.executeTool(gctx, ag, &plan[i])
			return nil
		})
	}
	_ = g.Wait() // executeTool never returns an error; outcomes live in plan.

	for _, d := range plan {
		if d.missing {
			return nil, &ToolMissingError{Name: d.call.Function.Name}
		}
	}

	msgs := make([]message.Message, 0, len(plan))
	for _, d := range plan {
		argsJSON := string(d.call.Function.Arguments)
		if err := hook.OnToolResult(ctx, d.call.Function.Name, d.call.CallID, argsJSON, d.result, cancel); err != nil {
			return nil, err
		}
		block := message.ToolResultBlock{
			ID:      d.call.ID,
			CallID:  d.call.CallID,
			Content: oneormany.New(message.ToolResultText(d.result)),
		}
		msgs = append(msgs, message.NewUserMessage(message.UserToolResult(block)))
	}
	return msgs, nil
}

// executeTool dispatches one tool call and records its outcome in d.
// A missing-tool error marks d.missing so the caller can fail the whole
// run once every dispatch has settled; any other tool error becomes
// tool-result text, never fatal, per the prompt engine's error
// semantics for tool execution.
func (e *Engine[R]) executeTool(ctx context.Context, ag *agent.Agent[R], d *toolDispatch) {
	name := d.call.Function.Name
	argsJSON := string(d.call.Function.Arguments)

	start := time.Now()
	out, err := ag.Tools.Call(ctx, name, argsJSON)
	duration := time.Since(start)

	var toolErr *tool.Error
	switch {
	case err != nil && errors.As(err, &toolErr) && toolErr.Kind == tool.KindNotFound:
		d.missing = true
	case err != nil:
		d.result = err.Error()
	default:
		d.result = out
	}

	if e.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		e.metrics.ToolCallCounter.WithLabelValues(name, status).Inc()
		e.metrics.ToolCallDuration.WithLabelValues(name).Observe(duration.Seconds())
	}
}
