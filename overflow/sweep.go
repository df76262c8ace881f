package overflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultSweepAge is the retention threshold used when none is configured.
const DefaultSweepAge = 24 * time.Hour

// SweepEntry describes one record considered by a sweep.
type SweepEntry struct {
	File     string  `json:"file"`
	AgeHours float64 `json:"age_hours"`
}

// SweepResult summarizes one retention sweep.
type SweepResult struct {
	DeletedCount int          `json:"deleted_count"`
	KeptCount    int          `json:"kept_count"`
	Deleted      []SweepEntry `json:"deleted"`
	Kept         []SweepEntry `json:"kept"`
}

// Sweep deletes every overflow record whose file age, by modification
// time, exceeds maxAge. Idempotent, and safe to run concurrently with
// Retrieve: a retrieval racing a delete reports a load failure.
//
// Files that vanish mid-sweep are skipped; they were deleted by someone
// else, which is the outcome a sweep wanted anyway.
func (s *Store) Sweep(maxAge time.Duration) (*SweepResult, error) {
	if !s.enabled || s.root == "" {
		return nil, ErrDisabled
	}
	if maxAge <= 0 {
		maxAge = DefaultSweepAge
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("overflow: list records: %w", err)
	}

	now := s.now()
	res := &SweepResult{
		Deleted: []SweepEntry{},
		Kept:    []SweepEntry{},
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		age := now.Sub(info.ModTime())
		se := SweepEntry{File: e.Name(), AgeHours: age.Hours()}
		if age > maxAge {
			if err := os.Remove(filepath.Join(s.root, e.Name())); err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, fmt.Errorf("overflow: delete %s: %w", e.Name(), err)
			}
			res.Deleted = append(res.Deleted, se)
		} else {
			res.Kept = append(res.Kept, se)
		}
	}
	res.DeletedCount = len(res.Deleted)
	res.KeptCount = len(res.Kept)
	return res, nil
}
