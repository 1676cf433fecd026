// Package toxicity scores token streams against the toxic lexicon.
package toxicity

import (
	"crypto/rand"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/toxiscan/pkg/toxiscan/lexicon"
)

// Matcher runs analysis passes against a lexicon.
// It records frequencies on the lexicon itself, so a Matcher shares the
// lexicon's single-writer rule.
type Matcher struct {
	lex     *lexicon.Store
	entropy *ulid.MonotonicEntropy
}

// NewMatcher creates a matcher reading lex.
func NewMatcher(lex *lexicon.Store) *Matcher {
	return &Matcher{
		lex:     lex,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Analyze scores one document.
//
// Word hits come from filtered, phrase hits from original: phrase boundaries
// need the stopwords the filter removed. Phrase hits are reported on their own
// and never added to TotalOccurrences. Every run starts from zeroed counters.
func (m *Matcher) Analyze(filtered, original []string) Snapshot {
	m.lex.ResetCounters()

	snap := Snapshot{
		RunID:         ulid.MustNew(ulid.Now(), m.entropy).String(),
		FilteredCount: len(filtered),
	}

	for _, tok := range filtered {
		severity, ok := m.lex.RecordWord(tok)
		if !ok {
			continue
		}
		snap.TotalOccurrences++
		if severity >= lexicon.MinSeverity && severity <= lexicon.MaxSeverity {
			snap.SeverityHistogram[severity]++
		}
	}

	for i := range original {
		if i+1 < len(original) {
			if m.lex.RecordPhrase(original[i]+" "+original[i+1], 2) {
				snap.BigramHits++
			}
		}
		if i+2 < len(original) {
			if m.lex.RecordPhrase(strings.Join(original[i:i+3], " "), 3) {
				snap.TrigramHits++
			}
		}
	}

	snap.Density = Density(snap.TotalOccurrences, len(filtered))
	snap.Words = m.detectedWords()
	snap.Phrases = m.detectedPhrases()
	return snap
}

// Density is occurrences per hundred words, 0 for an empty stream.
func Density(occurrences, words int) float64 {
	if words == 0 {
		return 0
	}
	return float64(occurrences) / float64(words) * 100
}

// detectedWords lists words hit in the last run, most frequent first.
// Ties keep dictionary (alphabetical) order.
func (m *Matcher) detectedWords() []WordHit {
	var hits []WordHit
	for _, w := range m.lex.Words() {
		if w.Frequency > 0 {
			hits = append(hits, WordHit{Word: w.Text, Severity: w.Severity, Frequency: w.Frequency})
		}
	}
	slices.SortStableFunc(hits, func(a, b WordHit) int {
		return b.Frequency - a.Frequency
	})
	return hits
}

// detectedPhrases lists phrases hit in the last run, in dictionary order,
// with the toxic words they contain.
func (m *Matcher) detectedPhrases() []PhraseHit {
	var hits []PhraseHit
	for _, p := range m.lex.Phrases() {
		if p.Frequency == 0 {
			continue
		}
		toxic, maxSeverity := m.lex.ToxicConstituents(p.Text)
		hits = append(hits, PhraseHit{
			Phrase:          p.Text,
			Severity:        p.Severity,
			Frequency:       p.Frequency,
			NGramLen:        p.NGramLen,
			ToxicWords:      toxic,
			MaxWordSeverity: maxSeverity,
			Kind:            lexicon.ClassifyPhrase(len(toxic)).String(),
		})
	}
	return hits
}
