package prompt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments a running Engine, narrowed from the teacher's
// much larger application-wide Metrics struct to the iteration/tool
// counters this core package itself produces.
type Metrics struct {
	// IterationCounter counts prompt-engine loop iterations.
	IterationCounter prometheus.Counter

	// ToolCallCounter counts tool dispatches by name and outcome.
	// Labels: tool_name, status (success|error). Calls a hook skips are
	// not dispatched and are not counted.
	ToolCallCounter *prometheus.CounterVec

	// ToolCallDuration measures tool execution latency in seconds.
	// Labels: tool_name.
	ToolCallDuration *prometheus.HistogramVec

	// MaxDepthExceeded counts runs that aborted with MaxDepthError.
	MaxDepthExceeded prometheus.Counter
}

// NewMetrics registers this package's collectors against reg. Pass
// prometheus.NewRegistry() in tests to avoid polluting the default
// registry; pass prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IterationCounter: factory.NewCounter(prometheus.CounterOpts{
			Name: "prompt_engine_iterations_total",
			Help: "Total prompt-engine loop iterations across all runs.",
		}),
		ToolCallCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prompt_engine_tool_calls_total",
			Help: "Total tool dispatches, by tool name and outcome.",
		}, []string{"tool_name", "status"}),
		ToolCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prompt_engine_tool_call_duration_seconds",
			Help:    "Tool call execution latency in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"tool_name"}),
		MaxDepthExceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "prompt_engine_max_depth_exceeded_total",
			Help: "Total runs that aborted with MaxDepthError.",
		}),
	}
}
