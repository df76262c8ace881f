package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records pipeline metrics: dispatched calls, cache behavior, and
// overflow spills.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records a dispatched call with duration and error status.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordCacheHit records a read served from cache without an
	// upstream call.
	RecordCacheHit(ctx context.Context, section string)

	// RecordCacheMiss records a read that had to go upstream.
	RecordCacheMiss(ctx context.Context, section string)

	// RecordOverflow records a result spilled to the overflow store.
	RecordOverflow(ctx context.Context, meta CallMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	durationHist  metric.Float64Histogram
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	overflowCount metric.Int64Counter
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"api.call.total",
		metric.WithDescription("Total number of dispatched API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"api.call.errors",
		metric.WithDescription("Total number of failed API calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"api.call.duration_ms",
		metric.WithDescription("API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"cache.hits",
		metric.WithDescription("Read calls served from cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"cache.misses",
		metric.WithDescription("Read calls that went upstream"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	overflowCount, err := meter.Int64Counter(
		"overflow.spills",
		metric.WithDescription("Results persisted to the overflow store"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:    totalCount,
		errorCount:    errorCount,
		durationHist:  durationHist,
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
		overflowCount: overflowCount,
	}, nil
}

func callAttrs(meta CallMeta) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		attribute.String("api.section", meta.Section),
		attribute.String("api.method", meta.Method),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("api.kind", meta.Kind))
	}
	return metric.WithAttributes(attrs...)
}

func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := callAttrs(meta)
	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordCacheHit(ctx context.Context, section string) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("api.section", section)))
}

func (m *metricsImpl) RecordCacheMiss(ctx context.Context, section string) {
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("api.section", section)))
}

func (m *metricsImpl) RecordOverflow(ctx context.Context, meta CallMeta) {
	m.overflowCount.Add(ctx, 1, callAttrs(meta))
}

// NoopMetrics is a Metrics implementation that records nothing.
type NoopMetrics struct{}

func (NoopMetrics) RecordCall(context.Context, CallMeta, time.Duration, error) {}
func (NoopMetrics) RecordCacheHit(context.Context, string)                     {}
func (NoopMetrics) RecordCacheMiss(context.Context, string)                    {}
func (NoopMetrics) RecordOverflow(context.Context, CallMeta)                   {}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = NoopMetrics{}
)
