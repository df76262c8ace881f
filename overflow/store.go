package overflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonwraymond/merakiops/cache"
)

// Default configuration values.
const (
	// DefaultThresholdTokens is the estimated token count above which a
	// result is spilled to disk.
	DefaultThresholdTokens = 5000

	// DefaultTokenDivisor approximates tokens as encoded bytes divided
	// by this constant.
	DefaultTokenDivisor = 4

	// DefaultMaxPageSize caps the limit accepted by Retrieve.
	DefaultMaxPageSize = 100

	// PreviewItems is how many leading elements a truncated preview of a
	// list-shaped result carries.
	PreviewItems = 3

	// secondLevelPreviewBytes bounds the string preview returned when a
	// non-list record is itself still oversized at retrieval time.
	secondLevelPreviewBytes = 500
)

// Config configures a Store.
type Config struct {
	// Enabled toggles the overflow feature. When false, Save is a no-op
	// and results of any size are returned verbatim by dispatch.
	Enabled bool

	// Root is the directory overflow records are written under.
	Root string

	// ThresholdTokens is the spill threshold. Non-positive selects
	// DefaultThresholdTokens.
	ThresholdTokens int

	// TokenDivisor is the bytes-per-token estimate. Non-positive selects
	// DefaultTokenDivisor.
	TokenDivisor int

	// MaxPageSize caps Retrieve's limit. Non-positive selects
	// DefaultMaxPageSize.
	MaxPageSize int
}

// Record is the on-disk overflow file format. Stable: external JSON tooling
// inspects these files directly.
type Record struct {
	CachedAt   string         `json:"cached_at"`
	Section    string         `json:"section"`
	Method     string         `json:"method"`
	Parameters map[string]any `json:"parameters"`
	Data       any            `json:"data"`
}

// Preview is the bounded substitute returned in place of an oversized
// result.
type Preview struct {
	Truncated  bool     `json:"truncated"`
	Reason     string   `json:"reason"`
	FullRecord string   `json:"full_record_path"`
	TotalItems int      `json:"total_items"`
	Preview    any      `json:"preview"`
	Hints      []string `json:"hints"`
}

// Store persists oversized results and serves paginated slices of them.
//
// Contract:
// - Concurrency: safe for concurrent use; files are write-once, so only
//   creation needs to be atomic.
// - Errors: handles resolving outside Root fail with ErrInvalidHandle
//   before any filesystem read.
type Store struct {
	enabled     bool
	root        string
	threshold   int
	divisor     int
	maxPageSize int
	now         func() time.Time
}

// NewStore creates a Store rooted at cfg.Root, creating the directory if
// needed. The root is resolved to an absolute path once, up front, so
// later handle checks compare against a canonical base.
func NewStore(cfg Config) (*Store, error) {
	s := &Store{
		enabled:     cfg.Enabled,
		threshold:   cfg.ThresholdTokens,
		divisor:     cfg.TokenDivisor,
		maxPageSize: cfg.MaxPageSize,
		now:         time.Now,
	}
	if s.threshold <= 0 {
		s.threshold = DefaultThresholdTokens
	}
	if s.divisor <= 0 {
		s.divisor = DefaultTokenDivisor
	}
	if s.maxPageSize <= 0 {
		s.maxPageSize = DefaultMaxPageSize
	}

	if !cfg.Enabled {
		return s, nil
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("overflow: resolve root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("overflow: create root: %w", err)
	}
	s.root = root
	return s, nil
}

// Enabled reports whether the overflow feature is active.
func (s *Store) Enabled() bool { return s.enabled }

// Root returns the canonical overflow root directory. Empty when disabled.
func (s *Store) Root() string { return s.root }

// EstimateTokens returns the token-count proxy for an encoded result.
func (s *Store) EstimateTokens(encoded []byte) int {
	return len(encoded) / s.divisor
}

// Oversized reports whether an encoded result exceeds the threshold.
// Always false when the store is disabled.
func (s *Store) Oversized(encoded []byte) bool {
	if !s.enabled {
		return false
	}
	return s.EstimateTokens(encoded) > s.threshold
}

// Save persists the full result and returns the truncated preview to hand
// back in its place. The file name is deterministic from the call identity
// plus a timestamp, keeping records collision-free and greppable.
func (s *Store) Save(section, method string, parameters map[string]any, data any) (*Preview, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}

	rec := Record{
		CachedAt:   s.now().UTC().Format(time.RFC3339),
		Section:    section,
		Method:     method,
		Parameters: parameters,
		Data:       data,
	}
	encoded, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("overflow: encode record: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s_%d.json", section, method, cache.ShortHash(parameters), s.now().Unix())
	path := filepath.Join(s.root, name)
	if err := writeFileAtomic(s.root, path, encoded); err != nil {
		return nil, fmt.Errorf("overflow: write record: %w", err)
	}

	return s.buildPreview(path, data), nil
}

func (s *Store) buildPreview(path string, data any) *Preview {
	p := &Preview{
		Truncated:  true,
		Reason:     fmt.Sprintf("result exceeds %d estimated tokens", s.threshold),
		FullRecord: path,
		TotalItems: 1,
		Preview:    data,
		Hints: []string{
			fmt.Sprintf("use the get_cached_data tool with filepath=%q and an offset to page through the full result", path),
			fmt.Sprintf("inspect the raw record with standard JSON tools, e.g. jq '.data | length' %q", path),
		},
	}
	if list, ok := data.([]any); ok {
		p.TotalItems = len(list)
		if len(list) > PreviewItems {
			p.Preview = list[:PreviewItems]
		}
	}
	return p
}

// writeFileAtomic writes data to path via a temp file in the same
// directory, so a concurrent reader never observes a partial record.
func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
