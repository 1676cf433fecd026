package toxicity

import "github.com/cognicore/toxiscan/pkg/toxiscan/lexicon"

// Snapshot is the complete result of one analysis run.
// It is rebuilt from scratch on every run.
type Snapshot struct {
	RunID             string                       `json:"run_id"`
	TotalOccurrences  int                          `json:"total_occurrences"`
	SeverityHistogram [lexicon.MaxSeverity + 1]int `json:"severity_histogram"` // index = severity, 0 unused
	BigramHits        int                          `json:"bigram_hits"`
	TrigramHits       int                          `json:"trigram_hits"`
	FilteredCount     int                          `json:"filtered_count"`
	Density           float64                      `json:"density"`
	Words             []WordHit                    `json:"words"`
	Phrases           []PhraseHit                  `json:"phrases"`
}

// WordHit is a toxic word found in the run.
type WordHit struct {
	Word      string `json:"word"`
	Severity  int    `json:"severity"`
	Frequency int    `json:"frequency"`
}

// PhraseHit is a toxic phrase found in the run and its breakdown.
type PhraseHit struct {
	Phrase          string   `json:"phrase"`
	Severity        int      `json:"severity"`
	Frequency       int      `json:"frequency"`
	NGramLen        int      `json:"ngram_len"`
	ToxicWords      []string `json:"toxic_words"`
	MaxWordSeverity int      `json:"max_word_severity"`
	Kind            string   `json:"kind"`
}

// Toxic reports whether any word or phrase was found.
func (s Snapshot) Toxic() bool {
	return s.TotalOccurrences > 0 || s.BigramHits > 0 || s.TrigramHits > 0
}

// SeverityShare returns the percentage of word occurrences at level.
func (s Snapshot) SeverityShare(level int) float64 {
	if level < lexicon.MinSeverity || level > lexicon.MaxSeverity || s.TotalOccurrences == 0 {
		return 0
	}
	return float64(s.SeverityHistogram[level]) / float64(s.TotalOccurrences) * 100
}

// PhraseHits is the number of bigram and trigram matches together.
func (s Snapshot) PhraseHits() int {
	return s.BigramHits + s.TrigramHits
}
