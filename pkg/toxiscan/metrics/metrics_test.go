package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSort(t *testing.T) {
	r := New()
	r.ObserveSort("quick", 10, 7, 2.5)
	r.ObserveSort("quick", 5, 3, 1.0)

	if got := testutil.ToFloat64(r.SortComparisons.WithLabelValues("quick")); got != 15 {
		t.Errorf("comparisons = %v, want 15", got)
	}
	if got := testutil.ToFloat64(r.SortMoves.WithLabelValues("quick")); got != 10 {
		t.Errorf("moves = %v, want 10", got)
	}
	if got := testutil.CollectAndCount(r.SortDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestObserveAnalysis(t *testing.T) {
	r := New()
	r.ObserveAnalysis(3, 30, 1, 0)
	r.ObserveAnalysis(2, 20, 1, 2)

	if got := testutil.ToFloat64(r.AnalysisRuns); got != 2 {
		t.Errorf("runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.ToxicOccurrences); got != 2 {
		t.Errorf("occurrences = %v, want 2 (last run)", got)
	}
	if got := testutil.ToFloat64(r.ToxicDensity); got != 20 {
		t.Errorf("density = %v, want 20", got)
	}
	if got := testutil.ToFloat64(r.PhraseHits.WithLabelValues("2")); got != 2 {
		t.Errorf("bigram hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.PhraseHits.WithLabelValues("3")); got != 2 {
		t.Errorf("trigram hits = %v, want 2", got)
	}
}

func TestLexiconSizeAndTruncations(t *testing.T) {
	r := New()
	r.SetLexiconSize(12, 4)
	r.Truncated("pairs")
	r.Truncated("pairs")

	if got := testutil.ToFloat64(r.LexiconEntries.WithLabelValues("phrase")); got != 4 {
		t.Errorf("phrase entries = %v, want 4", got)
	}
	if got := testutil.ToFloat64(r.Truncations.WithLabelValues("pairs")); got != 2 {
		t.Errorf("truncations = %v, want 2", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveSort("bubble", 1, 1, 1)
	r.ObserveAnalysis(1, 1, 1, 1)
	r.SetLexiconSize(1, 1)
	r.Truncated("tokens")
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("nil recorder WriteTextfile = %v", err)
	}
	if r.Registry() != nil {
		t.Error("nil recorder should have no registry")
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveAnalysis(1, 50, 0, 0)

	path := filepath.Join(t.TempDir(), "toxiscan.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "toxiscan_toxic_density_percent 50") {
		t.Errorf("textfile missing density:\n%s", data)
	}
}
