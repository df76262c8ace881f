package health

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jonwraymond/merakiops/cache"
	"github.com/jonwraymond/merakiops/overflow"
)

// CacheChecker reports the responsiveness and size of the result cache.
type CacheChecker struct {
	cache cache.Cache
}

// NewCacheChecker creates a checker over the shared cache.
func NewCacheChecker(c cache.Cache) *CacheChecker {
	return &CacheChecker{cache: c}
}

func (c *CacheChecker) Name() string { return "cache" }

func (c *CacheChecker) Check(_ context.Context) Result {
	stats := c.cache.Stats()
	details := map[string]any{
		"items":   stats.ItemCount,
		"enabled": stats.Enabled,
		"ttl_s":   stats.TTLSeconds,
	}
	if !stats.Enabled {
		return Degraded("cache disabled, every read goes upstream").WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d cached entries", stats.ItemCount)).WithDetails(details)
}

// OverflowChecker verifies the overflow root is present and writable.
type OverflowChecker struct {
	store *overflow.Store
}

// NewOverflowChecker creates a checker over the overflow store.
func NewOverflowChecker(s *overflow.Store) *OverflowChecker {
	return &OverflowChecker{store: s}
}

func (c *OverflowChecker) Name() string { return "overflow" }

func (c *OverflowChecker) Check(_ context.Context) Result {
	if !c.store.Enabled() {
		return Degraded("overflow disabled, oversized results return inline")
	}

	root := c.store.Root()
	probe := filepath.Join(root, ".health-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return Unhealthy("overflow root not writable", err).WithDetails(map[string]any{"root": root})
	}
	os.Remove(probe)

	entries, err := os.ReadDir(root)
	if err != nil {
		return Unhealthy("overflow root not readable", err).WithDetails(map[string]any{"root": root})
	}
	records := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			records++
		}
	}
	return Healthy(fmt.Sprintf("%d overflow records", records)).WithDetails(map[string]any{
		"root":    root,
		"records": records,
	})
}

// UpstreamChecker verifies the dashboard API endpoint is reachable. It
// issues an unauthenticated request and treats any HTTP response as
// reachability; the check never spends real API budget.
type UpstreamChecker struct {
	baseURL string
	client  *http.Client
}

// NewUpstreamChecker creates a checker against the API base URL.
func NewUpstreamChecker(baseURL string, client *http.Client) *UpstreamChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &UpstreamChecker{baseURL: baseURL, client: client}
}

func (c *UpstreamChecker) Name() string { return "upstream" }

func (c *UpstreamChecker) Check(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return Unhealthy("bad upstream URL", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Unhealthy("upstream unreachable", err).WithDetails(map[string]any{"url": c.baseURL})
	}
	resp.Body.Close()
	return Healthy("upstream reachable").WithDetails(map[string]any{
		"url":    c.baseURL,
		"status": resp.StatusCode,
	})
}

var (
	_ Checker = (*CacheChecker)(nil)
	_ Checker = (*OverflowChecker)(nil)
	_ Checker = (*UpstreamChecker)(nil)
)
