package toxiscan

import (
	"github.com/cognicore/toxiscan/pkg/toxiscan/config"
	"github.com/cognicore/toxiscan/pkg/toxiscan/freq"
	"github.com/cognicore/toxiscan/pkg/toxiscan/internalerr"
	"github.com/cognicore/toxiscan/pkg/toxiscan/sorter"
)

// Ranking is a sorted frequency table.
type Ranking struct {
	Source     string        `json:"source"`
	Config     sorter.Config `json:"config"`
	Pairs      []freq.Pair   `json:"pairs"`       // first topN entries
	TotalPairs int           `json:"total_pairs"` // distinct words ranked
	Truncated  bool          `json:"truncated"`   // distinct words beyond MaxPairs were dropped
	Stats      sorter.Stats  `json:"stats"`
}

// Rank counts the words of source ("filtered" or "original"), sorts them
// with cfg and keeps the first topN (all when topN <= 0).
func (e *Engine) Rank(source string, cfg sorter.Config, topN int) (Ranking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return Ranking{}, internalerr.ErrNoDocument
	}
	return e.rank(source, cfg, topN, nil), nil
}

// RankToxic ranks only the toxic words of the configured word source.
// They are always ordered by frequency; cfg supplies the algorithm and
// tiebreak, and its key is ignored.
func (e *Engine) RankToxic(cfg sorter.Config, topN int) (Ranking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return Ranking{}, internalerr.ErrNoDocument
	}
	cfg.Key = sorter.FreqDesc
	return e.rank(e.wordSource, cfg, topN, func(p freq.Pair) bool {
		return e.lex.IsToxicWord(p.Word)
	}), nil
}

func (e *Engine) rank(source string, cfg sorter.Config, topN int, keep func(freq.Pair) bool) Ranking {
	res := e.pairs(source)
	pairs := res.Pairs
	if keep != nil {
		pairs = freq.Filter(pairs, keep)
	}

	sorted, stats := sorter.Run(pairs, cfg)
	e.metrics.ObserveSort(cfg.Algorithm.String(), stats.Comparisons, stats.Moves, stats.ElapsedMs)

	return Ranking{
		Source:     sourceName(source),
		Config:     cfg,
		Pairs:      sorter.TopN(sorted, topN),
		TotalPairs: len(sorted),
		Truncated:  res.Truncated,
		Stats:      stats,
	}
}

// CompareAlgorithms runs bubble, quick and merge sort over the same table.
func (e *Engine) CompareAlgorithms(source string, key sorter.Key, tiebreak bool, topN int) (sorter.Comparison, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return sorter.Comparison{}, internalerr.ErrNoDocument
	}
	res := sorter.CompareAll(e.pairs(source).Pairs, key, tiebreak, topN)
	for _, run := range res.Runs {
		e.metrics.ObserveSort(run.Algorithm.String(), run.Stats.Comparisons, run.Stats.Moves, run.Stats.ElapsedMs)
	}
	return res, nil
}

// Summary splits the words of source into toxic and non-toxic totals.
func (e *Engine) Summary(source string) (freq.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return freq.Summary{}, internalerr.ErrNoDocument
	}
	return freq.Summarize(e.pairs(source).Pairs, e.lex.IsToxicWord), nil
}

func (e *Engine) pairs(source string) freq.Result {
	res := freq.BuildPairs(e.words(source), e.maxPairs)
	if res.Truncated {
		e.metrics.Truncated("pairs")
	}
	return res
}

func sourceName(source string) string {
	if source == config.SourceOriginal {
		return source
	}
	return config.SourceFiltered
}
