package observe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingMetrics captures calls for assertions.
type recordingMetrics struct {
	mu        sync.Mutex
	calls     []CallMeta
	errCount  int
	hits      []string
	misses    []string
	overflows []CallMeta
}

func (r *recordingMetrics) RecordCall(_ context.Context, meta CallMeta, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, meta)
	if err != nil {
		r.errCount++
	}
}

func (r *recordingMetrics) RecordCacheHit(_ context.Context, section string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, section)
}

func (r *recordingMetrics) RecordCacheMiss(_ context.Context, section string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses = append(r.misses, section)
}

func (r *recordingMetrics) RecordOverflow(_ context.Context, meta CallMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overflows = append(r.overflows, meta)
}

func TestMiddleware_WrapSuccess(t *testing.T) {
	metrics := &recordingMetrics{}
	var buf bytes.Buffer
	mw := NewMiddleware(NewNoopTracer(), metrics, NewLoggerWithWriter("info", &buf))

	meta := CallMeta{Section: "organizations", Method: "getOrganizations", Kind: "read"}
	fn := mw.Wrap(func(ctx context.Context, m CallMeta, params map[string]any) (any, error) {
		return []any{"org-1"}, nil
	})

	result, err := fn(context.Background(), meta, nil)
	if err != nil {
		t.Fatalf("wrapped fn returned error: %v", err)
	}
	list, ok := result.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("result = %v, want single-element list", result)
	}

	if len(metrics.calls) != 1 {
		t.Fatalf("recorded %d calls, want 1", len(metrics.calls))
	}
	if metrics.calls[0] != meta {
		t.Errorf("recorded meta = %+v, want %+v", metrics.calls[0], meta)
	}
	if metrics.errCount != 0 {
		t.Errorf("errCount = %d, want 0", metrics.errCount)
	}
	if !strings.Contains(buf.String(), "api call completed") {
		t.Errorf("log output missing completion line: %s", buf.String())
	}
}

func TestMiddleware_WrapError(t *testing.T) {
	metrics := &recordingMetrics{}
	var buf bytes.Buffer
	mw := NewMiddleware(NewNoopTracer(), metrics, NewLoggerWithWriter("info", &buf))

	wantErr := errors.New("upstream unavailable")
	fn := mw.Wrap(func(ctx context.Context, m CallMeta, params map[string]any) (any, error) {
		return nil, wantErr
	})

	_, err := fn(context.Background(), CallMeta{Section: "devices", Method: "rebootDevice", Kind: "write"}, nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if metrics.errCount != 1 {
		t.Errorf("errCount = %d, want 1", metrics.errCount)
	}
	if !strings.Contains(buf.String(), "api call failed") {
		t.Errorf("log output missing failure line: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "upstream unavailable") {
		t.Errorf("log output missing error detail: %s", buf.String())
	}
}

func TestMiddleware_PassesParamsThrough(t *testing.T) {
	mw := NewMiddleware(NewNoopTracer(), NoopMetrics{}, NewNoopLogger())

	var got map[string]any
	fn := mw.Wrap(func(ctx context.Context, m CallMeta, params map[string]any) (any, error) {
		got = params
		return nil, nil
	})

	params := map[string]any{"organizationId": "123", "perPage": 50}
	if _, err := fn(context.Background(), CallMeta{Section: "networks", Method: "getOrganizationNetworks"}, params); err != nil {
		t.Fatalf("wrapped fn returned error: %v", err)
	}
	if len(got) != 2 || got["organizationId"] != "123" {
		t.Errorf("params not passed through: %v", got)
	}
}

func TestMiddleware_ConcurrentCalls(t *testing.T) {
	metrics := &recordingMetrics{}
	mw := NewMiddleware(NewNoopTracer(), metrics, NewNoopLogger())

	fn := mw.Wrap(func(ctx context.Context, m CallMeta, params map[string]any) (any, error) {
		return nil, nil
	})

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = fn(context.Background(), CallMeta{Section: "wireless", Method: "getNetworkWirelessSsids"}, nil)
		}()
	}
	wg.Wait()

	if len(metrics.calls) != n {
		t.Errorf("recorded %d calls, want %d", len(metrics.calls), n)
	}
}

func TestMiddlewareFromObserver(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "merakiops"})
	if err != nil {
		t.Fatalf("NewObserver() = %v", err)
	}
	defer obs.Shutdown(context.Background())

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() = %v", err)
	}
	if mw.Metrics() == nil {
		t.Error("Metrics() returned nil")
	}
	if mw.Logger() == nil {
		t.Error("Logger() returned nil")
	}
}
