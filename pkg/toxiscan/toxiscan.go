package toxiscan

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cognicore/toxiscan/pkg/toxiscan/config"
	"github.com/cognicore/toxiscan/pkg/toxiscan/freq"
	"github.com/cognicore/toxiscan/pkg/toxiscan/ingest"
	"github.com/cognicore/toxiscan/pkg/toxiscan/internalerr"
	"github.com/cognicore/toxiscan/pkg/toxiscan/lexicon"
	"github.com/cognicore/toxiscan/pkg/toxiscan/logger"
	"github.com/cognicore/toxiscan/pkg/toxiscan/metrics"
	"github.com/cognicore/toxiscan/pkg/toxiscan/store"
	"github.com/cognicore/toxiscan/pkg/toxiscan/toxicity"
)

// Engine is the main analysis facade.
//
// It owns one captured document at a time together with the lexicon,
// the normalization pipeline and the matcher. All of them carry mutable
// state (frequencies, filtered stream), so every method takes the engine lock.
type Engine struct {
	mu sync.Mutex

	lex       *lexicon.Store
	tokenizer *ingest.Tokenizer
	pipeline  *ingest.Pipeline
	matcher   *toxicity.Matcher
	metrics   *metrics.Recorder
	history   store.Store

	wordSource string
	forceNorm  bool
	maxPairs   int

	doc *document
}

// document is the captured original stream and its current normalization.
type document struct {
	capture ingest.Capture
	result  ingest.Result
}

// Options configures an Engine. Nil components are replaced by empty ones.
type Options struct {
	Lexicon   *lexicon.Store
	Tokenizer *ingest.Tokenizer
	Pipeline  *ingest.Pipeline
	Metrics   *metrics.Recorder
	History   store.Store // optional; every Analyze run is saved here

	WordSource         string // config.SourceFiltered (default) or config.SourceOriginal
	ForceNormalization bool
	MaxPairs           int
}

// New creates an engine with the given dependencies.
func New(opts Options) *Engine {
	if opts.Lexicon == nil {
		opts.Lexicon = lexicon.New()
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = ingest.NewTokenizer()
	}
	if opts.Pipeline == nil {
		opts.Pipeline = ingest.NewPipeline(nil, nil, ingest.Options{})
	}
	if opts.WordSource == "" {
		opts.WordSource = config.SourceFiltered
	}
	if opts.MaxPairs <= 0 {
		opts.MaxPairs = freq.DefaultMaxPairs
	}

	e := &Engine{
		lex:        opts.Lexicon,
		tokenizer:  opts.Tokenizer,
		pipeline:   opts.Pipeline,
		matcher:    toxicity.NewMatcher(opts.Lexicon),
		metrics:    opts.Metrics,
		history:    opts.History,
		wordSource: opts.WordSource,
		forceNorm:  opts.ForceNormalization,
		maxPairs:   opts.MaxPairs,
	}
	e.recordLexiconSize()
	return e
}

// FromConfig builds an engine from loaded components and their config.
func FromConfig(cfg *config.Config, comp *config.Components, rec *metrics.Recorder) *Engine {
	return New(Options{
		Lexicon:            comp.Lexicon,
		Tokenizer:          comp.Tokenizer,
		Pipeline:           comp.Pipeline,
		Metrics:            rec,
		WordSource:         cfg.Analysis.WordSource,
		ForceNormalization: cfg.Analysis.ForceNormalization,
		MaxPairs:           cfg.Sorting.MaxPairs,
	})
}

// TokenSource supplies the raw tokens of one document.
type TokenSource interface {
	Name() string
	Original() ([]string, error)
}

// TextProvider is implemented by sources that can hand over their full text.
// The engine then tokenizes the text itself and counts sentences.
type TextProvider interface {
	Text() (string, error)
}

// LoadReport describes a freshly loaded document.
type LoadReport struct {
	Name               string `json:"name"`
	OriginalTokens     int    `json:"original_tokens"`
	FilteredTokens     int    `json:"filtered_tokens"`
	StopwordsRemoved   int    `json:"stopwords_removed"`
	VariantsNormalised int    `json:"variants_normalised"`
	Truncated          bool   `json:"truncated"`
}

// Load captures the original stream of src once and normalizes it.
// Later passes never go back to src.
func (e *Engine) Load(ctx context.Context, src TokenSource) (LoadReport, error) {
	if err := ctx.Err(); err != nil {
		return LoadReport{}, err
	}

	// Read the source outside the lock; tokenize under it.
	if tp, ok := src.(TextProvider); ok {
		text, err := tp.Text()
		if err != nil {
			return LoadReport{}, fmt.Errorf("load %s: %w", src.Name(), err)
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.install(e.tokenizer.Capture(src.Name(), text))
	}

	raw, err := src.Original()
	if err != nil {
		return LoadReport{}, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.install(e.tokenizer.CaptureTokens(src.Name(), raw))
}

// LoadText captures a document from raw text.
func (e *Engine) LoadText(name, text string) (LoadReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.install(e.tokenizer.Capture(name, text))
}

func (e *Engine) install(capture ingest.Capture) (LoadReport, error) {
	if err := capture.Validate(); err != nil {
		return LoadReport{}, fmt.Errorf("load %q: %v: %w", capture.Name, err, internalerr.ErrInvalidInput)
	}

	doc := &document{capture: capture, result: e.pipeline.Process(capture.Original)}
	e.doc = doc

	if capture.Truncated {
		e.metrics.Truncated("tokens")
	}
	if doc.result.Truncated {
		e.metrics.Truncated("filtered")
	}

	report := doc.report()
	logger.WithComponent("engine").Info("document loaded",
		"name", report.Name,
		"original", report.OriginalTokens,
		"filtered", report.FilteredTokens,
		"stopwords_removed", report.StopwordsRemoved,
		"truncated", report.Truncated)
	return report, nil
}

// Document describes the current document as last normalized. Unlike the
// report returned by Load, it reflects later SetVariantExpansion calls and
// the expansion Analyze may force.
func (e *Engine) Document() (LoadReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return LoadReport{}, internalerr.ErrNoDocument
	}
	return e.doc.report(), nil
}

func (d *document) report() LoadReport {
	return LoadReport{
		Name:               d.capture.Name,
		OriginalTokens:     len(d.capture.Original),
		FilteredTokens:     len(d.result.Filtered),
		StopwordsRemoved:   d.result.StopwordsRemoved,
		VariantsNormalised: d.result.VariantsNormalised,
		Truncated:          d.capture.Truncated || d.result.Truncated,
	}
}

// Totals summarises one normalization of the current document.
type Totals struct {
	FilteredTokens     int `json:"filtered_tokens"`
	UniqueWords        int `json:"unique_words"`
	StopwordsRemoved   int `json:"stopwords_removed"`
	VariantsNormalised int `json:"variants_normalised"`
}

// Change compares the document before and after a normalization switch.
type Change struct {
	Enabled bool   `json:"enabled"`
	Before  Totals `json:"before"`
	After   Totals `json:"after"`
}

// SetVariantExpansion switches variant expansion and re-runs normalization
// from the captured original stream. Without a document the switch is still
// stored and ErrNoDocument is returned.
func (e *Engine) SetVariantExpansion(on bool) (Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		e.pipeline.SetVariantExpansion(on)
		return Change{Enabled: on}, internalerr.ErrNoDocument
	}

	change := Change{Enabled: on, Before: totals(e.doc.result)}
	e.pipeline.SetVariantExpansion(on)
	e.reprocess()
	change.After = totals(e.doc.result)
	return change, nil
}

func (e *Engine) reprocess() {
	e.doc.result = e.pipeline.Process(e.doc.capture.Original)
	logger.WithComponent("engine").Debug("document renormalized",
		"name", e.doc.capture.Name,
		"expand_variants", e.pipeline.VariantExpansion(),
		"filtered", len(e.doc.result.Filtered))
}

func totals(r ingest.Result) Totals {
	return Totals{
		FilteredTokens:     len(r.Filtered),
		UniqueWords:        len(freq.BuildPairs(r.Filtered, 0).Pairs),
		StopwordsRemoved:   r.StopwordsRemoved,
		VariantsNormalised: r.VariantsNormalised,
	}
}

// Analyze runs the toxicity matcher over the current document.
// With ForceNormalization set, variant expansion is switched on first.
func (e *Engine) Analyze() (toxicity.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return toxicity.Snapshot{}, internalerr.ErrNoDocument
	}
	if e.forceNorm && !e.pipeline.VariantExpansion() {
		logger.WithComponent("engine").Info("enabling variant expansion before analysis")
		e.pipeline.SetVariantExpansion(true)
		e.reprocess()
	}

	snap := e.matcher.Analyze(e.words(e.wordSource), e.doc.capture.Original)
	e.metrics.ObserveAnalysis(snap.TotalOccurrences, snap.Density, snap.BigramHits, snap.TrigramHits)
	logger.WithComponent("engine").Info("analysis complete",
		"run_id", snap.RunID,
		"occurrences", snap.TotalOccurrences,
		"density", snap.Density,
		"bigrams", snap.BigramHits,
		"trigrams", snap.TrigramHits)

	if e.history != nil {
		run := store.FromSnapshot(e.doc.capture.Name, snap, time.Now())
		if err := e.history.SaveRun(context.Background(), run); err != nil {
			logger.WithComponent("engine").Warn("run not recorded", "run_id", snap.RunID, "error", err)
		}
	}
	return snap, nil
}

// TextStats describes the filtered stream of the current document.
func (e *Engine) TextStats() (ingest.TextStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return ingest.TextStats{}, internalerr.ErrNoDocument
	}
	return ingest.ComputeStats(e.doc.result.Filtered, e.doc.capture.Sentences), nil
}

// Filtered returns a copy of the current filtered stream.
func (e *Engine) Filtered() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil, internalerr.ErrNoDocument
	}
	return slices.Clone(e.doc.result.Filtered), nil
}

// Original returns a copy of the captured original stream.
func (e *Engine) Original() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil, internalerr.ErrNoDocument
	}
	return slices.Clone(e.doc.capture.Original), nil
}

// Lexicon returns the toxic dictionary. Callers must not use it while
// other goroutines call the engine.
func (e *Engine) Lexicon() *lexicon.Store {
	return e.lex
}

// Pipeline returns the normalization pipeline, under the same rule as Lexicon.
func (e *Engine) Pipeline() *ingest.Pipeline {
	return e.pipeline
}

// words picks the token list a pass runs on. Unknown sources mean filtered.
func (e *Engine) words(source string) []string {
	if source == config.SourceOriginal {
		return e.doc.capture.Original
	}
	return e.doc.result.Filtered
}

func (e *Engine) recordLexiconSize() {
	st := e.lex.Stats()
	e.metrics.SetLexiconSize(st.Words, st.Phrases)
}
