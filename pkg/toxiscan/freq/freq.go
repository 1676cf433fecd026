// Package freq aggregates a token stream into (word, count) pairs.
package freq

// DefaultMaxPairs caps the number of distinct words aggregated per run.
const DefaultMaxPairs = 6000

// Pair is one distinct word and its occurrence count.
type Pair struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Result holds the aggregated pairs in first-occurrence order.
type Result struct {
	Pairs     []Pair
	Truncated bool // a new word arrived after the cap; the scan stopped there
}

// BuildPairs counts tokens in first-occurrence order.
// Once max distinct words are held, the first unseen word ends the scan,
// so later occurrences of known words are not counted either.
func BuildPairs(tokens []string, max int) Result {
	if max <= 0 {
		max = DefaultMaxPairs
	}

	index := make(map[string]int, min(len(tokens), max))
	pairs := make([]Pair, 0, min(len(tokens), max))
	for _, tok := range tokens {
		if i, ok := index[tok]; ok {
			pairs[i].Count++
			continue
		}
		if len(pairs) >= max {
			return Result{Pairs: pairs, Truncated: true}
		}
		index[tok] = len(pairs)
		pairs = append(pairs, Pair{Word: tok, Count: 1})
	}
	return Result{Pairs: pairs}
}

// Filter returns the pairs keep accepts, in their original order.
func Filter(pairs []Pair, keep func(Pair) bool) []Pair {
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Summary splits token and type counts by toxicity.
type Summary struct {
	ToxicTokens    int     `json:"toxic_tokens"`
	NonToxicTokens int     `json:"non_toxic_tokens"`
	ToxicTypes     int     `json:"toxic_types"`
	NonToxicTypes  int     `json:"non_toxic_types"`
	ToxicRatio     float64 `json:"toxic_ratio"` // toxic tokens / all tokens * 100
}

// Summarize classifies every pair with isToxic.
func Summarize(pairs []Pair, isToxic func(string) bool) Summary {
	var s Summary
	for _, p := range pairs {
		if isToxic(p.Word) {
			s.ToxicTokens += p.Count
			s.ToxicTypes++
		} else {
			s.NonToxicTokens += p.Count
			s.NonToxicTypes++
		}
	}
	if total := s.ToxicTokens + s.NonToxicTokens; total > 0 {
		s.ToxicRatio = float64(s.ToxicTokens) / float64(total) * 100
	}
	return s
}
