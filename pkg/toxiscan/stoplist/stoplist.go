package stoplist

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cognicore/toxiscan/pkg/toxiscan/logger"
)

// DefaultMaxStops caps the number of stopwords read from a file.
const DefaultMaxStops = 500

// Manager holds the stopword set used by the filtered token stream
type Manager struct {
	stops    map[string]struct{}
	max      int
	degraded bool
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		if s = normalize(s); s != "" {
			stops[s] = struct{}{}
		}
	}
	return &Manager{stops: stops, max: DefaultMaxStops}
}

// SetLimit changes how many stopwords LoadFile accepts.
func (m *Manager) SetLimit(max int) {
	if max > 0 {
		m.max = max
	}
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string) {
	if token = normalize(token); token != "" {
		m.stops[token] = struct{}{}
	}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, normalize(token))
}

// All returns all stopwords, sorted
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Len returns the number of stopwords
func (m *Manager) Len() int {
	return len(m.stops)
}

// Degraded is true after a stopword file could not be read
func (m *Manager) Degraded() bool {
	return m.degraded
}

// LoadFile adds stopwords from a file with one word per line.
// Blank lines and "#" comments are skipped. Reading stops once the
// manager holds its limit; the second return value reports that.
// A missing file marks the manager degraded and filters nothing extra.
func (m *Manager) LoadFile(path string) (int, bool) {
	log := logger.WithComponent("stoplist")
	f, err := os.Open(path)
	if err != nil {
		m.degraded = true
		log.Warn("cannot open stopword list, stopword filtering disabled", "path", path, "error", err)
		return 0, false
	}
	defer f.Close()

	loaded, truncated := m.Parse(f)
	log.Info("loaded stopwords", "path", path, "count", loaded)
	if truncated {
		log.Warn("stopword list truncated at capacity", "limit", m.max)
	}
	return loaded, truncated
}

// Parse adds stopwords read from r.
func (m *Manager) Parse(r io.Reader) (loaded int, truncated bool) {
	var terms []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		terms = append(terms, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		m.degraded = true
	}
	return m.AddTerms(terms)
}

// AddTerms adds terms up to the limit, skipping blanks, "#" comments and
// words already present.
func (m *Manager) AddTerms(terms []string) (loaded int, truncated bool) {
	for _, term := range terms {
		word := normalize(term)
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		if m.IsStop(word) {
			continue
		}
		if len(m.stops) >= m.max {
			return loaded, true
		}
		m.stops[word] = struct{}{}
		loaded++
	}
	return loaded, false
}

// MarkDegraded flags the set as running without its configured source.
func (m *Manager) MarkDegraded() {
	m.degraded = true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
