package observe

import (
	"context"
	"time"
)

// ExecuteFunc is the signature for dispatched call execution that
// Middleware wraps.
type ExecuteFunc func(ctx context.Context, meta CallMeta, params map[string]any) (any, error)

// Middleware wraps call execution with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ExecuteFunc.
//   - Errors: errors from the wrapped function are recorded and propagated
//     unchanged.
//   - Ownership: params and results pass through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Metrics exposes the middleware's metrics recorder so the dispatcher can
// count cache hits and overflow spills inline.
func (m *Middleware) Metrics() Metrics { return m.metrics }

// Logger exposes the middleware's logger.
func (m *Middleware) Logger() Logger { return m.logger }

// Wrap wraps an ExecuteFunc with one span, one metric set, and one log
// line per call.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, meta CallMeta, params map[string]any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, err := fn(ctx, meta, params)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordCall(ctx, meta, duration, err)

		callLogger := m.logger.WithCall(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			callLogger.Error(ctx, "api call failed", fields...)
		} else {
			callLogger.Info(ctx, "api call completed", fields...)
		}

		return result, err
	}
}
