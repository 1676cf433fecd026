package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/cognicore/toxiscan/pkg/toxiscan/internalerr"
	"github.com/cognicore/toxiscan/pkg/toxiscan/logger"
)

// Severity bounds for dictionary entries.
const (
	MinSeverity     = 1
	MaxSeverity     = 5
	DefaultSeverity = 3
)

// MaxWordLen is the longest word (in bytes) the tokenizer can ever produce,
// so longer dictionary words could never match.
const MaxWordLen = 49

// Default table capacities.
const (
	DefaultMaxWords   = 1000
	DefaultMaxPhrases = 500
)

// Store holds the toxic dictionary:
// - Words: single tokens, kept in ascending alphabetical order
// - Phrases: space-joined token sequences, kept in insertion order
//
// Design principles:
// - Case-insensitive: every entry is stored lowercased and trimmed
// - Unique: no two words (or two phrases) share the same text
// - Counted: each entry carries a runtime frequency reset before every analysis
//
// A Store is not safe for concurrent use; callers serialise access.
type Store struct {
	words    []Word
	phrases  []Phrase
	limits   Limits
	degraded bool
	path     string
}

// Word is a single toxic token.
type Word struct {
	Text      string
	Severity  int // 1-5
	Frequency int // occurrences in the last analysis run
}

// Phrase is a toxic 2- or 3-token sequence.
type Phrase struct {
	Text      string
	Severity  int
	Frequency int
	NGramLen  int // 2 = bigram, 3 = trigram, 0 = never matched
}

// Matchable reports whether the n-gram scanner can ever hit this phrase.
func (p Phrase) Matchable() bool {
	return p.NGramLen == 2 || p.NGramLen == 3
}

// Limits caps the number of entries per table.
type Limits struct {
	MaxWords   int
	MaxPhrases int
}

// DefaultLimits returns the stock table capacities.
func DefaultLimits() Limits {
	return Limits{MaxWords: DefaultMaxWords, MaxPhrases: DefaultMaxPhrases}
}

// LoadStats summarises a dictionary load.
type LoadStats struct {
	Words      int
	Phrases    int
	Skipped    int  // lines without a usable text/severity field
	Duplicates int  // repeated entries ignored
	Defaulted  int  // severities replaced by DefaultSeverity
	Truncated  bool // entries dropped because a table was full
	Missing    bool // file could not be opened
}

// EntryKind tells which table an entry lives in.
type EntryKind int

const (
	KindWord EntryKind = iota + 1
	KindPhrase
)

func (k EntryKind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindPhrase:
		return "phrase"
	default:
		return "unknown"
	}
}

// New creates an empty store. Zero or negative limits fall back to defaults.
func New(limits ...Limits) *Store {
	l := DefaultLimits()
	if len(limits) > 0 {
		if limits[0].MaxWords > 0 {
			l.MaxWords = limits[0].MaxWords
		}
		if limits[0].MaxPhrases > 0 {
			l.MaxPhrases = limits[0].MaxPhrases
		}
	}
	return &Store{limits: l}
}

// ClampSeverity maps anything outside 1-5 to DefaultSeverity.
func ClampSeverity(severity int) int {
	if severity < MinSeverity || severity > MaxSeverity {
		return DefaultSeverity
	}
	return severity
}

// NGramLen returns the scanner length for a phrase of n words:
// n itself for 2 and 3, otherwise 0.
func NGramLen(n int) int {
	if n == 2 || n == 3 {
		return n
	}
	return 0
}

// Load replaces the whole dictionary with the contents of path.
//
// Expected format, one entry per line:
//
//	# comment
//	idiot,3
//	shut up,2
//
// A missing or unreadable file leaves the store empty and marks it degraded;
// the caller may carry on with an empty lexicon.
func (s *Store) Load(path string) LoadStats {
	log := logger.WithComponent("lexicon")
	s.path = path

	f, err := os.Open(path)
	if err != nil {
		s.reset()
		s.degraded = true
		log.Warn("cannot open toxic dictionary, continuing with empty lexicon", "path", path, "error", err)
		return LoadStats{Missing: true}
	}
	defer f.Close()

	stats := s.Parse(f)
	log.Info("loaded toxic dictionary",
		"path", path,
		"words", stats.Words,
		"phrases", stats.Phrases,
		"skipped", stats.Skipped,
		"duplicates", stats.Duplicates)
	if stats.Truncated {
		log.Warn("toxic dictionary truncated at capacity",
			"max_words", s.limits.MaxWords,
			"max_phrases", s.limits.MaxPhrases)
	}
	return stats
}

// Parse replaces the dictionary with entries read from r.
func (s *Store) Parse(r io.Reader) LoadStats {
	s.reset()
	s.degraded = false

	var stats LoadStats
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text, sevField, ok := splitEntry(line)
		if !ok {
			stats.Skipped++
			continue
		}

		severity, ok := leadingInt(sevField)
		if !ok || severity != ClampSeverity(severity) {
			stats.Defaulted++
		}
		severity = ClampSeverity(severity)

		if strings.Contains(text, " ") {
			switch {
			case s.indexPhrase(text) >= 0:
				stats.Duplicates++
			case len(s.phrases) >= s.limits.MaxPhrases:
				stats.Truncated = true
			default:
				s.phrases = append(s.phrases, Phrase{
					Text:     text,
					Severity: severity,
					NGramLen: NGramLen(len(strings.Fields(text))),
				})
				stats.Phrases++
			}
			continue
		}

		switch {
		case len(text) > MaxWordLen:
			stats.Skipped++
		case s.indexWord(text) >= 0:
			stats.Duplicates++
		case len(s.words) >= s.limits.MaxWords:
			stats.Truncated = true
		default:
			s.insertSorted(Word{Text: text, Severity: severity})
			stats.Words++
		}
	}
	if err := scanner.Err(); err != nil {
		s.degraded = true
		logger.WithComponent("lexicon").Warn("toxic dictionary read stopped early", "error", err)
	}
	return stats
}

// splitEntry splits "text,severity[,...]" into its first two fields.
func splitEntry(line string) (text, severity string, ok bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return "", "", false
	}
	text = normalizeText(fields[0])
	severity = strings.TrimSpace(fields[1])
	if text == "" || severity == "" {
		return "", "", false
	}
	return text, severity, true
}

// leadingInt reads an optionally signed integer prefix ("5x" -> 5).
// ok is false when s does not start with a digit.
func leadingInt(s string) (n int, ok bool) {
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		ok = true
		if n < 1000 {
			n = n*10 + int(s[i]-'0')
		}
	}
	if neg {
		n = -n
	}
	return n, ok
}

// Save writes the dictionary to path in the load format.
func (s *Store) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save toxic dictionary: %w", err)
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("save toxic dictionary: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save toxic dictionary: %w", err)
	}
	s.path = path
	logger.WithComponent("lexicon").Info("saved toxic dictionary",
		"path", path, "words", len(s.words), "phrases", len(s.phrases))
	return nil
}

// WriteTo writes the header block, then words, then phrases.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString("# Toxic Words Dictionary\n")
	b.WriteString("# Format: word,severity\n")
	b.WriteString("# Severity: 1-5 (1=mild, 5=severe)\n\n")
	for _, word := range s.words {
		fmt.Fprintf(&b, "%s,%d\n", word.Text, word.Severity)
	}
	for _, p := range s.phrases {
		fmt.Fprintf(&b, "%s,%d\n", p.Text, p.Severity)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// InsertWord adds a single toxic word at its alphabetical position.
// Severity outside 1-5 becomes DefaultSeverity.
func (s *Store) InsertWord(word string, severity int) error {
	text := normalizeText(word)
	if text == "" || strings.Contains(text, " ") || len(text) > MaxWordLen {
		return fmt.Errorf("insert word %q: %w", word, internalerr.ErrInvalidInput)
	}
	if s.indexWord(text) >= 0 {
		return fmt.Errorf("insert word %q: %w", text, internalerr.ErrDuplicate)
	}
	if len(s.words) >= s.limits.MaxWords {
		return fmt.Errorf("insert word %q: %w", text, internalerr.ErrCapacityExceeded)
	}
	s.insertSorted(Word{Text: text, Severity: ClampSeverity(severity)})
	return nil
}

// Remove deletes the word or, failing that, the phrase matching text.
func (s *Store) Remove(text string) (EntryKind, error) {
	key := normalizeText(text)
	if i := s.indexWord(key); i >= 0 {
		s.words = slices.Delete(s.words, i, i+1)
		return KindWord, nil
	}
	if i := s.indexPhrase(key); i >= 0 {
		s.phrases = slices.Delete(s.phrases, i, i+1)
		return KindPhrase, nil
	}
	return 0, fmt.Errorf("remove %q: %w", key, internalerr.ErrNotFound)
}

// IsToxicWord reports whether word is a dictionary word.
func (s *Store) IsToxicWord(word string) bool {
	return s.indexWord(normalizeText(word)) >= 0
}

// SeverityOf returns the word's severity, or 0 when it is not toxic.
func (s *Store) SeverityOf(word string) int {
	if i := s.indexWord(normalizeText(word)); i >= 0 {
		return s.words[i].Severity
	}
	return 0
}

// ResetCounters zeroes every word and phrase frequency.
func (s *Store) ResetCounters() {
	for i := range s.words {
		s.words[i].Frequency = 0
	}
	for i := range s.phrases {
		s.phrases[i].Frequency = 0
	}
}

// RecordWord counts one occurrence of word and returns its severity.
// ok is false when the word is not in the dictionary.
func (s *Store) RecordWord(word string) (severity int, ok bool) {
	i := s.indexWord(normalizeText(word))
	if i < 0 {
		return 0, false
	}
	s.words[i].Frequency++
	return s.words[i].Severity, true
}

// RecordPhrase counts one occurrence of the first n-gram phrase equal to gram.
func (s *Store) RecordPhrase(gram string, n int) bool {
	for i := range s.phrases {
		if s.phrases[i].NGramLen != n {
			continue
		}
		if strings.EqualFold(gram, s.phrases[i].Text) {
			s.phrases[i].Frequency++
			return true
		}
	}
	return false
}

// ToxicConstituents lists the toxic words inside phrase, in phrase order,
// and the highest severity among them.
func (s *Store) ToxicConstituents(phrase string) ([]string, int) {
	var found []string
	maxSeverity := 0
	for _, w := range strings.Fields(phrase) {
		sev := s.SeverityOf(w)
		if sev == 0 {
			continue
		}
		found = append(found, strings.ToLower(w))
		if sev > maxSeverity {
			maxSeverity = sev
		}
	}
	return found, maxSeverity
}

// Words returns a copy of the word table.
func (s *Store) Words() []Word {
	return slices.Clone(s.words)
}

// Phrases returns a copy of the phrase table.
func (s *Store) Phrases() []Phrase {
	return slices.Clone(s.phrases)
}

// Len returns the total number of entries.
func (s *Store) Len() int {
	return len(s.words) + len(s.phrases)
}

// Degraded is true after a load that could not read its file.
func (s *Store) Degraded() bool {
	return s.degraded
}

// Path returns the file last loaded from or saved to.
func (s *Store) Path() string {
	return s.path
}

// Stats returns statistics about the dictionary contents.
func (s *Store) Stats() Stats {
	dead := 0
	for _, p := range s.phrases {
		if !p.Matchable() {
			dead++
		}
	}
	return Stats{
		Words:       len(s.words),
		Phrases:     len(s.phrases),
		DeadPhrases: dead,
	}
}

// Stats holds statistics about dictionary contents.
type Stats struct {
	Words       int // Number of single toxic words
	Phrases     int // Number of stored phrases
	DeadPhrases int // Phrases the n-gram scanner never matches (not 2 or 3 words)
}

func (s *Store) reset() {
	s.words = nil
	s.phrases = nil
}

func (s *Store) indexWord(text string) int {
	return slices.IndexFunc(s.words, func(w Word) bool {
		return strings.EqualFold(w.Text, text)
	})
}

func (s *Store) indexPhrase(text string) int {
	return slices.IndexFunc(s.phrases, func(p Phrase) bool {
		return strings.EqualFold(p.Text, text)
	})
}

// insertSorted places w before the first word that sorts after it.
func (s *Store) insertSorted(w Word) {
	pos := len(s.words)
	for i, existing := range s.words {
		if w.Text < strings.ToLower(existing.Text) {
			pos = i
			break
		}
	}
	s.words = slices.Insert(s.words, pos, w)
}

// normalizeText lowercases and collapses whitespace runs to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
