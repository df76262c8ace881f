package dispatch

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/merakiops/cache"
	"github.com/jonwraymond/merakiops/classify"
	"github.com/jonwraymond/merakiops/observe"
	"github.com/jonwraymond/merakiops/overflow"
	"github.com/jonwraymond/merakiops/params"
	"github.com/jonwraymond/merakiops/resilience"
)

// FromCacheKey is the transient marker added to dict-shaped results served
// from cache. It is applied to a shallow copy on return and never stored.
const FromCacheKey = "fromCache"

// Config configures a Dispatcher.
type Config struct {
	// ReadOnly rejects write-classified operations before any network
	// effect.
	ReadOnly bool

	// DefaultOrgID is injected for operations that declare an
	// organizationId parameter the caller omitted.
	DefaultOrgID string

	// MaxPageSize clamps pagination parameter values. Non-positive
	// selects the overflow store's page-size default.
	MaxPageSize int

	// MaxConcurrent bounds in-flight upstream calls. Non-positive
	// selects the bulkhead default.
	MaxConcurrent int
}

// Result is the outcome of one dispatched call.
type Result struct {
	// Data is the call result, possibly an *overflow.Preview when the
	// full result spilled to disk.
	Data any

	// Kind is the operation classification.
	Kind classify.Kind

	// FromCache reports that Data was served without an upstream call.
	FromCache bool

	// PaginationLimited reports that a pagination parameter was clamped,
	// with PaginationNote carrying the disclosure message.
	PaginationLimited bool
	PaginationNote    string
}

// Dispatcher composes classification, normalization, caching, upstream
// invocation, and overflow handling into one call path.
//
// Contract:
//   - Concurrency: safe for concurrent Call; identical in-flight reads are
//     coalesced into a single upstream request.
//   - Context: Call honors cancellation up to the upstream invocation.
//   - Errors: failures surface as the typed errors in this package, never
//     as partial effects.
type Dispatcher struct {
	collab   Collaborator
	cache    cache.Cache
	store    *overflow.Store
	norm     params.Normalizer
	readOnly bool

	bulkhead *resilience.Bulkhead
	group    singleflight.Group

	tracer  observe.Tracer
	metrics observe.Metrics
	logger  observe.Logger
	mw      *observe.Middleware
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(l observe.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithTracer sets the call tracer.
func WithTracer(t observe.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = t }
}

// New creates a Dispatcher over the given collaborator, cache, and
// overflow store. Telemetry defaults to no-op implementations.
func New(collab Collaborator, c cache.Cache, store *overflow.Store, cfg Config, opts ...Option) *Dispatcher {
	maxPage := cfg.MaxPageSize
	if maxPage <= 0 {
		maxPage = overflow.DefaultMaxPageSize
	}

	d := &Dispatcher{
		collab:   collab,
		cache:    c,
		store:    store,
		readOnly: cfg.ReadOnly,
		norm: params.Normalizer{
			DefaultOrgID: cfg.DefaultOrgID,
			MaxPageSize:  maxPage,
		},
		// Excess calls queue for a worker slot rather than failing; the
		// caller's context bounds the wait.
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: cfg.MaxConcurrent,
			MaxWait:       resilience.WaitForever,
		}),
		tracer:  observe.NewNoopTracer(),
		metrics: observe.NoopMetrics{},
		logger:  observe.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.mw = observe.NewMiddleware(d.tracer, d.metrics, d.logger)
	return d
}

// Cache exposes the dispatcher's cache for stats and administrative
// clearing.
func (d *Dispatcher) Cache() cache.Cache { return d.cache }

// Store exposes the overflow store for paginated retrieval and sweeps.
func (d *Dispatcher) Store() *overflow.Store { return d.store }

// ReadOnly reports whether the read-only policy is active.
func (d *Dispatcher) ReadOnly() bool { return d.readOnly }

// Sections lists the collaborator's section names.
func (d *Dispatcher) Sections() []string { return d.collab.Sections() }

// Call dispatches one operation.
func (d *Dispatcher) Call(ctx context.Context, section, method string, p map[string]any) (*Result, error) {
	op, ok := d.collab.Resolve(section, method)
	if !ok {
		return nil, &NotFoundError{Section: section, Method: method, Sections: d.collab.Sections()}
	}

	kind := classify.Classify(method)
	if kind == classify.KindWrite && d.readOnly {
		return nil, &PolicyDeniedError{Section: section, Method: method}
	}

	if p == nil {
		p = make(map[string]any)
	}
	d.norm.FillContext(op, p)
	clamp := d.norm.ClampPagination(p)

	meta := observe.CallMeta{Section: section, Method: method, Kind: kind.String()}
	logger := d.logger.WithCall(meta)

	var key string
	cacheable := kind == classify.KindRead
	if cacheable {
		k, err := cache.Key(section, method, p)
		if err != nil {
			logger.Warn(ctx, "cache key unavailable", observe.Field{Key: "error", Value: err.Error()})
			cacheable = false
		} else {
			key = k
			if v, hit := d.cache.Get(key); hit {
				d.metrics.RecordCacheHit(ctx, section)
				logger.Debug(ctx, "cache hit")
				return &Result{
					Data:              markFromCache(v),
					Kind:              kind,
					FromCache:         true,
					PaginationLimited: clamp.Limited,
					PaginationNote:    clamp.Message,
				}, nil
			}
			d.metrics.RecordCacheMiss(ctx, section)
		}
	}

	data, err := d.invoke(ctx, meta, op, p, key, cacheable)
	if err != nil {
		return nil, err
	}

	if kind == classify.KindWrite {
		dropped := d.cache.Invalidate(section + "::")
		if dropped > 0 {
			logger.Debug(ctx, "cache invalidated", observe.Field{Key: "entries", Value: dropped})
		}
	}

	result := &Result{
		Data:              data,
		Kind:              kind,
		PaginationLimited: clamp.Limited,
		PaginationNote:    clamp.Message,
	}

	if encoded, encErr := json.Marshal(data); encErr == nil && d.store.Oversized(encoded) {
		preview, saveErr := d.store.Save(section, method, p, data)
		if saveErr != nil {
			// Spill failure degrades to returning the full result inline.
			logger.Warn(ctx, "overflow spill failed", observe.Field{Key: "error", Value: saveErr.Error()})
		} else {
			d.metrics.RecordOverflow(ctx, meta)
			result.Data = preview
			if cacheable {
				d.cache.Set(key, preview)
			}
			return result, nil
		}
	}

	if cacheable {
		d.cache.Set(key, data)
	}
	return result, nil
}

// invoke executes the upstream call, coalescing identical concurrent reads
// behind one request.
func (d *Dispatcher) invoke(ctx context.Context, meta observe.CallMeta, op Operation, p map[string]any, key string, cacheable bool) (any, error) {
	if cacheable && key != "" {
		v, err, _ := d.group.Do(key, func() (any, error) {
			return d.invokeOnce(ctx, meta, op, p)
		})
		return v, err
	}
	return d.invokeOnce(ctx, meta, op, p)
}

// invokeOnce runs the upstream call inside the bulkhead, with the
// telemetry middleware supplying the span, metrics, and log line.
func (d *Dispatcher) invokeOnce(ctx context.Context, meta observe.CallMeta, op Operation, p map[string]any) (any, error) {
	return d.mw.Wrap(func(ctx context.Context, _ observe.CallMeta, p map[string]any) (any, error) {
		var data any
		err := d.bulkhead.Execute(ctx, func(ctx context.Context) error {
			var callErr error
			data, callErr = op.Invoke(ctx, p)
			return callErr
		})
		if err != nil {
			return nil, err
		}
		return data, nil
	})(ctx, meta, p)
}

// markFromCache adds the transient cache marker to dict-shaped values on a
// shallow copy, leaving the stored entry untouched.
func markFromCache(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out[FromCacheKey] = true
	return out
}
