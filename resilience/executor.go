package resilience

import "context"

// Executor composes the guards an upstream call passes through.
type Executor struct {
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
	retry       *Retry
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) { e.rateLimiter = rl }
}

// WithBulkhead adds concurrency bounding to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// Execute runs the operation through the configured guards.
//
// Order: rate limiter, then bulkhead, then retry innermost, so each retry
// attempt re-enters neither the limiter nor the bulkhead slot it already
// holds.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op
	if e.retry != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}
	if e.bulkhead != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}
	if e.rateLimiter != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}
	return run(ctx)
}
