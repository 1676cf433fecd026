// Package metrics defines the Prometheus collectors for analysis and sort runs
// and writes them out in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds all Prometheus collectors for one engine.
// A nil *Recorder accepts every call and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	SortComparisons  *prometheus.CounterVec
	SortMoves        *prometheus.CounterVec
	SortDuration     *prometheus.HistogramVec
	AnalysisRuns     prometheus.Counter
	ToxicOccurrences prometheus.Gauge
	ToxicDensity     prometheus.Gauge
	PhraseHits       *prometheus.CounterVec
	LexiconEntries   *prometheus.GaugeVec
	Truncations      *prometheus.CounterVec
}

// New creates a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		SortComparisons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toxiscan_sort_comparisons_total",
				Help: "Comparator calls made by sort runs, by algorithm.",
			},
			[]string{"algorithm"},
		),
		SortMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toxiscan_sort_moves_total",
				Help: "Element moves made by sort runs, by algorithm.",
			},
			[]string{"algorithm"},
		),
		SortDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toxiscan_sort_duration_seconds",
				Help:    "Wall time of one sort run in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"algorithm"},
		),
		AnalysisRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "toxiscan_analysis_runs_total",
				Help: "Toxicity analysis runs.",
			},
		),
		ToxicOccurrences: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "toxiscan_toxic_occurrences",
				Help: "Toxic word occurrences found by the last analysis run.",
			},
		),
		ToxicDensity: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "toxiscan_toxic_density_percent",
				Help: "Toxic occurrences per hundred filtered words in the last analysis run.",
			},
		),
		PhraseHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toxiscan_phrase_hits_total",
				Help: "Phrase matches by n-gram length (2 or 3).",
			},
			[]string{"ngram"},
		),
		LexiconEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "toxiscan_lexicon_entries",
				Help: "Entries in the toxic dictionary by kind (word, phrase).",
			},
			[]string{"kind"},
		),
		Truncations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toxiscan_truncations_total",
				Help: "Inputs cut at a capacity limit, by stage.",
			},
			[]string{"stage"},
		),
	}

	r.registry.MustRegister(
		r.SortComparisons,
		r.SortMoves,
		r.SortDuration,
		r.AnalysisRuns,
		r.ToxicOccurrences,
		r.ToxicDensity,
		r.PhraseHits,
		r.LexiconEntries,
		r.Truncations,
	)
	return r
}

// Registry exposes the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveSort records one sort run.
func (r *Recorder) ObserveSort(algorithm string, comparisons, moves int64, elapsedMs float64) {
	if r == nil {
		return
	}
	r.SortComparisons.WithLabelValues(algorithm).Add(float64(comparisons))
	r.SortMoves.WithLabelValues(algorithm).Add(float64(moves))
	r.SortDuration.WithLabelValues(algorithm).Observe(elapsedMs / 1000)
}

// ObserveAnalysis records one analysis run.
func (r *Recorder) ObserveAnalysis(occurrences int, density float64, bigrams, trigrams int) {
	if r == nil {
		return
	}
	r.AnalysisRuns.Inc()
	r.ToxicOccurrences.Set(float64(occurrences))
	r.ToxicDensity.Set(density)
	r.PhraseHits.WithLabelValues("2").Add(float64(bigrams))
	r.PhraseHits.WithLabelValues("3").Add(float64(trigrams))
}

// SetLexiconSize records the dictionary size.
func (r *Recorder) SetLexiconSize(words, phrases int) {
	if r == nil {
		return
	}
	r.LexiconEntries.WithLabelValues("word").Set(float64(words))
	r.LexiconEntries.WithLabelValues("phrase").Set(float64(phrases))
}

// Truncated counts one capacity cut at stage ("tokens", "filtered", "pairs").
func (r *Recorder) Truncated(stage string) {
	if r == nil {
		return
	}
	r.Truncations.WithLabelValues(stage).Inc()
}

// WriteTextfile writes every collector to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
