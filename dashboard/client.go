package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonwraymond/merakiops/classify"
	"github.com/jonwraymond/merakiops/dispatch"
	"github.com/jonwraymond/merakiops/observe"
	"github.com/jonwraymond/merakiops/resilience"
)

// DefaultBaseURL is the public dashboard API endpoint.
const DefaultBaseURL = "https://api.meraki.com/api/v1"

const defaultUserAgent = "merakiops/1.0"

// Config configures a Client.
type Config struct {
	// APIKey authenticates every request. Required.
	APIKey string

	// BaseURL overrides the API endpoint, mainly for tests and regional
	// shards. Default: DefaultBaseURL.
	BaseURL string

	// Timeout bounds a single HTTP request. Default: 30s.
	Timeout time.Duration

	// MaxRetries is the attempt count for transient upstream failures.
	// Non-positive selects the retry default of three attempts.
	MaxRetries int

	// RequestsPerSecond is the client-side rate budget. The limiter
	// waits rather than fails when the budget is exhausted.
	// Non-positive selects the limiter default.
	RequestsPerSecond float64
}

// Client is an HTTP client for the dashboard API, resolving calls against
// the curated registry.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: remote rejections surface as *dispatch.UpstreamError, bad
//   parameters as *dispatch.InvalidParametersError.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	userAgent string
	http      *http.Client
	exec      *resilience.Executor
	logger    observe.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithClientLogger sets the structured logger.
func WithClientLogger(l observe.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a dashboard API client.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:   u,
		apiKey:    cfg.APIKey,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: timeout},
		logger:    observe.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.exec = resilience.NewExecutor(
		resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        cfg.RequestsPerSecond,
			WaitOnLimit: true,
		})),
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			RetryIf:     isTransient,
		})),
	)
	return c, nil
}

// isTransient marks rate-limit and server-side statuses as retryable.
func isTransient(err error) bool {
	var ue *dispatch.UpstreamError
	if errors.As(err, &ue) {
		return ue.Status == http.StatusTooManyRequests || ue.Status >= 500
	}
	return false
}

// Resolve looks up an operation in the registry.
func (c *Client) Resolve(section, method string) (dispatch.Operation, bool) {
	for _, spec := range registry[section] {
		if spec.Name == method {
			return &boundOp{client: c, section: section, spec: spec}, true
		}
	}
	return nil, false
}

// Sections lists the exposed dashboard sections.
func (c *Client) Sections() []string {
	out := make([]string, len(SectionNames))
	copy(out, SectionNames)
	return out
}

// Operations lists the operations of a section for discovery tooling.
func (c *Client) Operations(section string) []dispatch.OperationInfo {
	specs := registry[section]
	out := make([]dispatch.OperationInfo, 0, len(specs))
	for _, spec := range specs {
		out = append(out, specToInfo(section, spec))
	}
	return out
}

// Describe returns the full description of one operation.
func (c *Client) Describe(section, method string) (*dispatch.OperationInfo, bool) {
	for _, spec := range registry[section] {
		if spec.Name == method {
			info := specToInfo(section, spec)
			return &info, true
		}
	}
	return nil, false
}

func kindOf(name string) string { return classify.Classify(name).String() }

func specToInfo(section string, spec OpSpec) dispatch.OperationInfo {
	info := dispatch.OperationInfo{
		Section:     section,
		Name:        spec.Name,
		Description: spec.Description,
		Kind:        kindOf(spec.Name),
	}
	for _, p := range spec.Params {
		info.Parameters = append(info.Parameters, dispatch.ParameterInfo{
			Name:     p.Name,
			Type:     string(p.In),
			Required: p.Required,
		})
	}
	return info
}

var (
	_ dispatch.Collaborator = (*Client)(nil)
	_ dispatch.Describer    = (*Client)(nil)
)

// boundOp is one registry operation bound to a client.
type boundOp struct {
	client  *Client
	section string
	spec    OpSpec
}

func (o *boundOp) Name() string { return o.spec.Name }

func (o *boundOp) HasParameter(name string) bool { return o.spec.HasParameter(name) }

func (o *boundOp) Invoke(ctx context.Context, params map[string]any) (any, error) {
	req, err := o.buildRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var result any
	err = o.client.exec.Execute(ctx, func(ctx context.Context) error {
		attempt := req.Clone(ctx)
		if req.GetBody != nil {
			// Each retry needs a fresh body reader.
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return fmt.Errorf("dashboard: reset request body: %w", bodyErr)
			}
			attempt.Body = body
		}
		var attemptErr error
		result, attemptErr = o.do(attempt)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// buildRequest expands the path template and routes remaining parameters
// to the query string or the JSON body depending on the HTTP method.
func (o *boundOp) buildRequest(ctx context.Context, params map[string]any) (*http.Request, error) {
	path := o.spec.Path
	consumed := make(map[string]bool)
	for _, pn := range pathParams(o.spec.Path) {
		v, ok := params[pn]
		if !ok {
			return nil, &dispatch.InvalidParametersError{
				Section: o.section,
				Method:  o.spec.Name,
				Reason:  fmt.Sprintf("missing required parameter %q", pn),
			}
		}
		path = strings.ReplaceAll(path, "{"+pn+"}", url.PathEscape(fmt.Sprint(v)))
		consumed[pn] = true
	}

	u := *o.client.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path

	var bodyReader io.Reader
	switch o.spec.HTTPMethod {
	case http.MethodGet, http.MethodDelete:
		q := u.Query()
		for k, v := range params {
			if consumed[k] {
				continue
			}
			switch vv := v.(type) {
			case []any:
				for _, item := range vv {
					q.Add(k+"[]", fmt.Sprint(item))
				}
			default:
				q.Set(k, fmt.Sprint(v))
			}
		}
		u.RawQuery = q.Encode()
	default:
		payload := make(map[string]any)
		for k, v := range params {
			if !consumed[k] {
				payload[k] = v
			}
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &dispatch.InvalidParametersError{
				Section: o.section,
				Method:  o.spec.Name,
				Reason:  fmt.Sprintf("parameters are not JSON-encodable: %v", err),
			}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, o.spec.HTTPMethod, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("dashboard: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.client.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", o.client.userAgent)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// apiError is the dashboard's error body shape.
type apiError struct {
	Errors []string `json:"errors"`
}

func (o *boundOp) do(req *http.Request) (any, error) {
	resp, err := o.client.http.Do(req)
	if err != nil {
		return nil, &dispatch.UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, &dispatch.UpstreamError{Message: err.Error(), Status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamMessage(raw, resp.StatusCode)
		if resp.StatusCode == http.StatusBadRequest {
			return nil, &dispatch.InvalidParametersError{
				Section: o.section,
				Method:  o.spec.Name,
				Reason:  msg,
			}
		}
		return nil, &dispatch.UpstreamError{Message: msg, Status: resp.StatusCode}
	}

	if len(bytes.TrimSpace(raw)) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &dispatch.UpstreamError{
			Message: fmt.Sprintf("undecodable response body: %v", err),
			Status:  resp.StatusCode,
		}
	}
	return result, nil
}

func upstreamMessage(raw []byte, status int) string {
	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil && len(ae.Errors) > 0 {
		return strings.Join(ae.Errors, "; ")
	}
	return http.StatusText(status)
}
