// Package store keeps an in-process history of analysis runs so repeated
// scans of the same source can be compared.
package store

import (
	"context"
	"time"

	"github.com/cognicore/toxiscan/pkg/toxiscan/lexicon"
	"github.com/cognicore/toxiscan/pkg/toxiscan/toxicity"
)

// Store persists analysis runs.
type Store interface {
	Close() error

	// SaveRun inserts a run, replacing any earlier run with the same ID.
	SaveRun(ctx context.Context, r Run) error
	// GetRun returns internalerr.ErrNotFound when id is unknown.
	GetRun(ctx context.Context, id string) (Run, error)
	// RecentRuns returns up to limit runs, newest first. limit <= 0 means all.
	RecentRuns(ctx context.Context, source string, limit int) ([]Run, error)
	// WordTrend returns how often word was found in each run of source,
	// oldest first. Runs where it was absent are reported with count 0.
	WordTrend(ctx context.Context, source, word string) ([]TrendPoint, error)
}

// Run is one stored analysis.
type Run struct {
	ID                string                       `json:"id"`
	Source            string                       `json:"source"`
	AnalyzedAt        time.Time                    `json:"analyzed_at"`
	FilteredCount     int                          `json:"filtered_count"`
	TotalOccurrences  int                          `json:"total_occurrences"`
	BigramHits        int                          `json:"bigram_hits"`
	TrigramHits       int                          `json:"trigram_hits"`
	Density           float64                      `json:"density"`
	SeverityHistogram [lexicon.MaxSeverity + 1]int `json:"severity_histogram"`
	Words             []WordCount                  `json:"words,omitempty"`
}

// WordCount is one toxic word found in a run.
type WordCount struct {
	Word     string `json:"word"`
	Severity int    `json:"severity"`
	Count    int    `json:"count"`
}

// TrendPoint is a word's count in one run.
type TrendPoint struct {
	RunID      string    `json:"run_id"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Count      int       `json:"count"`
}

// FromSnapshot converts an analysis result into a storable run.
func FromSnapshot(source string, snap toxicity.Snapshot, at time.Time) Run {
	r := Run{
		ID:                snap.RunID,
		Source:            source,
		AnalyzedAt:        at.UTC(),
		FilteredCount:     snap.FilteredCount,
		TotalOccurrences:  snap.TotalOccurrences,
		BigramHits:        snap.BigramHits,
		TrigramHits:       snap.TrigramHits,
		Density:           snap.Density,
		SeverityHistogram: snap.SeverityHistogram,
	}
	for _, w := range snap.Words {
		r.Words = append(r.Words, WordCount{Word: w.Word, Severity: w.Severity, Count: w.Frequency})
	}
	return r
}

// Count returns how often word was found in the run.
func (r Run) Count(word string) int {
	for _, w := range r.Words {
		if w.Word == word {
			return w.Count
		}
	}
	return 0
}
