package store

import (
	"testing"
	"time"

	"github.com/cognicore/toxiscan/pkg/toxiscan/toxicity"
)

func TestFromSnapshot(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	snap := toxicity.Snapshot{
		RunID:            "01HZX",
		TotalOccurrences: 3,
		FilteredCount:    10,
		BigramHits:       1,
		Density:          30,
		Words: []toxicity.WordHit{
			{Word: "idiot", Severity: 4, Frequency: 2},
			{Word: "dumb", Severity: 2, Frequency: 1},
		},
	}
	snap.SeverityHistogram[4] = 2
	snap.SeverityHistogram[2] = 1

	r := FromSnapshot("post.txt", snap, at)
	if r.ID != "01HZX" || r.Source != "post.txt" {
		t.Errorf("identity = %q/%q", r.ID, r.Source)
	}
	if r.AnalyzedAt.Location() != time.UTC || !r.AnalyzedAt.Equal(at) {
		t.Errorf("AnalyzedAt = %v, want %v in UTC", r.AnalyzedAt, at)
	}
	if r.SeverityHistogram[4] != 2 || r.BigramHits != 1 || r.Density != 30 {
		t.Errorf("counters not copied: %+v", r)
	}
	if r.Count("idiot") != 2 || r.Count("dumb") != 1 || r.Count("moron") != 0 {
		t.Errorf("Count mismatch: %+v", r.Words)
	}
}
