package overflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Page is a bounded slice of a list-shaped overflow record.
type Page struct {
	TotalItems    int   `json:"total_items"`
	Offset        int   `json:"offset"`
	Limit         int   `json:"limit"`
	ReturnedItems int   `json:"returned_items"`
	HasMore       bool  `json:"has_more"`
	NextOffset    *int  `json:"next_offset,omitempty"`
	Data          []any `json:"data"`
}

// Oversize is the second-level warning returned when a non-list record is
// itself still over the threshold. Non-list data is not paginable, so the
// caller gets a string-truncated glimpse instead.
type Oversize struct {
	Truncated bool   `json:"truncated"`
	Reason    string `json:"reason"`
	Preview   string `json:"preview"`
}

// Retrieve loads the record at handle and returns a bounded view of its
// data: a Page for list-shaped records, the data verbatim for small
// non-list records, or an Oversize warning for large non-list records.
//
// The handle is canonicalized and rejected with ErrInvalidHandle before
// any filesystem access if it does not lie strictly inside the root.
// Negative offsets read from 0; limits are clamped to the configured max.
func (s *Store) Retrieve(handle string, offset, limit int) (any, error) {
	path, err := s.resolveHandle(handle)
	if err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoadFailure, handle)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoadFailure, handle)
	}

	list, ok := rec.Data.([]any)
	if !ok {
		return s.nonListView(rec.Data)
	}

	total := len(list)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := &Page{
		TotalItems:    total,
		Offset:        offset,
		Limit:         limit,
		ReturnedItems: end - offset,
		HasMore:       end < total,
		Data:          list[offset:end],
	}
	if page.HasMore {
		next := end
		page.NextOffset = &next
	}
	return page, nil
}

func (s *Store) nonListView(data any) (any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: record data not encodable", ErrLoadFailure)
	}
	if !s.Oversized(encoded) {
		return data, nil
	}

	preview := string(encoded)
	if len(preview) > secondLevelPreviewBytes {
		// Back up to a rune boundary so the cut never splits a
		// multibyte sequence.
		cut := secondLevelPreviewBytes
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut] + "..."
	}
	return &Oversize{
		Truncated: true,
		Reason:    "record data is not list-shaped and still exceeds the size threshold; pagination is unavailable",
		Preview:   preview,
	}, nil
}

// resolveHandle canonicalizes a handle and verifies it lies strictly
// inside the overflow root. This is the path-traversal defense and runs
// before any filesystem read.
func (s *Store) resolveHandle(handle string) (string, error) {
	if !s.enabled || s.root == "" {
		return "", ErrDisabled
	}
	if strings.TrimSpace(handle) == "" {
		return "", ErrInvalidHandle
	}

	path := handle
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidHandle
	}
	abs = filepath.Clean(abs)
	if !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", ErrInvalidHandle
	}
	return abs, nil
}
