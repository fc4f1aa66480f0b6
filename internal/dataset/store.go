// Package dataset holds the loaded, read-only snapshot of all input
// tables and the query functions the dashboard runs against it.
package dataset

import (
	"sync"
	"time"

	"portfolio-stress-lab/internal/domain"
)

// Snapshot is the complete, immutable result of one refresh cycle. All
// fields are read-only after construction; queries never mutate it.
type Snapshot struct {
	Stress       []domain.StressRecord
	Correlations map[string]*domain.CorrelationSeries // keyed by workbook label (e.g. "EGQ")
	Exposures    []domain.ExposureRecord

	// UnresolvedSheets lists stress sheet names that matched no
	// registered scenario token during this refresh.
	UnresolvedSheets []string

	// Fingerprints of the input files this snapshot was parsed from,
	// keyed by path. Used to decide whether a refresh is needed.
	Fingerprints map[string]string

	LoadedAt time.Time
}

// Store holds the current snapshot behind a swap lock: the refresh loop
// replaces it whole, request handlers read it. No per-record locking is
// needed because snapshots are immutable.
type Store struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new snapshot.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// Current returns the active snapshot, or nil before the first refresh.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
