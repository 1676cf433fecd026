package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/toxiscan/pkg/toxiscan/internalerr"
	"github.com/cognicore/toxiscan/pkg/toxiscan/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun implements store.Store.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun implements store.Store.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// RecentRuns implements store.Store.
func (s *Store) RecentRuns(ctx context.Context, source string, limit int) ([]store.Run, error) {
	runs := s.bySource(source)
	// newest first
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// WordTrend implements store.Store.
func (s *Store) WordTrend(ctx context.Context, source, word string) ([]store.TrendPoint, error) {
	runs := s.bySource(source)
	out := make([]store.TrendPoint, 0, len(runs))
	for _, r := range runs {
		out = append(out, store.TrendPoint{RunID: r.ID, AnalyzedAt: r.AnalyzedAt, Count: r.Count(word)})
	}
	return out, nil
}

// bySource returns the runs for source oldest first. Empty source matches all.
func (s *Store) bySource(source string) []store.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Run
	for _, r := range s.runs {
		if source == "" || r.Source == source {
			out = append(out, copyRun(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AnalyzedAt.Equal(out[j].AnalyzedAt) {
			return out[i].AnalyzedAt.Before(out[j].AnalyzedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copyRun(r store.Run) store.Run {
	r.Words = append([]store.WordCount(nil), r.Words...)
	return r
}
