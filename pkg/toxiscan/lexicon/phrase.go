package lexicon

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/toxiscan/pkg/toxiscan/internalerr"
)

// PhraseKind classifies a phrase by how many of its words are toxic on their own.
type PhraseKind int

const (
	// PhraseContext has no toxic words; the combination itself is toxic.
	PhraseContext PhraseKind = iota + 1
	// PhraseSingleToxic has exactly one toxic word and is never stored:
	// that word alone already carries the detection.
	PhraseSingleToxic
	// PhraseMultiToxic has two or more toxic words and takes their max severity.
	PhraseMultiToxic
)

func (k PhraseKind) String() string {
	switch k {
	case PhraseContext:
		return "context"
	case PhraseSingleToxic:
		return "single-toxic"
	case PhraseMultiToxic:
		return "multi-toxic"
	default:
		return "unknown"
	}
}

// ClassifyPhrase maps a toxic-constituent count to its kind.
func ClassifyPhrase(toxicWords int) PhraseKind {
	switch {
	case toxicWords == 0:
		return PhraseContext
	case toxicWords == 1:
		return PhraseSingleToxic
	default:
		return PhraseMultiToxic
	}
}

// PhraseOutcome describes what InsertPhrase decided.
type PhraseOutcome struct {
	Text       string
	Kind       PhraseKind
	Stored     bool
	Severity   int
	NGramLen   int
	ToxicWords []string
}

// InsertPhrase adds a phrase built from words.
//
// The severity argument is only used for context phrases (no toxic words).
// A phrase with exactly one toxic word is not stored and the outcome says so;
// a phrase with two or more takes the highest severity of its toxic words.
func (s *Store) InsertPhrase(words []string, severity int) (PhraseOutcome, error) {
	parts := strings.Fields(strings.ToLower(strings.Join(words, " ")))
	if len(parts) < 2 {
		return PhraseOutcome{}, fmt.Errorf("insert phrase %q: need at least two words: %w",
			strings.Join(words, " "), internalerr.ErrInvalidInput)
	}
	text := strings.Join(parts, " ")
	if s.indexPhrase(text) >= 0 {
		return PhraseOutcome{}, fmt.Errorf("insert phrase %q: %w", text, internalerr.ErrDuplicate)
	}

	toxic, maxSeverity := s.ToxicConstituents(text)
	out := PhraseOutcome{
		Text:       text,
		Kind:       ClassifyPhrase(len(toxic)),
		NGramLen:   NGramLen(len(parts)),
		ToxicWords: toxic,
	}

	switch out.Kind {
	case PhraseContext:
		out.Severity = ClampSeverity(severity)
	case PhraseSingleToxic:
		out.Severity = maxSeverity
		return out, nil
	case PhraseMultiToxic:
		out.Severity = maxSeverity
		if out.Severity < MinSeverity {
			out.Severity = DefaultSeverity
		}
	}

	if len(s.phrases) >= s.limits.MaxPhrases {
		return out, fmt.Errorf("insert phrase %q: %w", text, internalerr.ErrCapacityExceeded)
	}
	s.phrases = append(s.phrases, Phrase{
		Text:     text,
		Severity: out.Severity,
		NGramLen: out.NGramLen,
	})
	out.Stored = true
	return out, nil
}

// PromoteWords marks phrase constituents as toxic words before the phrase
// itself is inserted. Words already in the dictionary are left alone.
// It returns the words actually added, alphabetically.
func (s *Store) PromoteWords(words map[string]int) ([]string, error) {
	keys := make([]string, 0, len(words))
	for w := range words {
		keys = append(keys, w)
	}
	sort.Strings(keys)

	var added []string
	for _, w := range keys {
		err := s.InsertWord(w, words[w])
		switch {
		case err == nil:
			added = append(added, normalizeText(w))
		case errors.Is(err, internalerr.ErrDuplicate):
			continue
		default:
			return added, err
		}
	}
	return added, nil
}
