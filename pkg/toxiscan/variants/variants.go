package variants

import (
	"bufio"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/toxiscan/pkg/toxiscan/logger"
)

// DefaultMaxMappings caps the table size.
const DefaultMaxMappings = 300

// Table maps informal variants to their standard forms:
// - Abbreviations: "u" -> "you", "ur" -> "your"
// - Expansions: "lol" -> "laughing out loud" (multi-word standard forms)
// - Leet speak: "h8" -> "hate"
//
// Design principles:
// - Exact match: lookups compare whole lowercase tokens
// - First definition wins: later duplicates never override an earlier mapping
// - Loaded once: the table is filled at startup and only read afterwards
type Table struct {
	// variant -> standard
	// Example: "btw" -> "by the way"
	index map[string]string

	// insertion order, for stable listings
	order []string

	max       int
	degraded  bool
	truncated bool
}

// Mapping is one variant -> standard entry.
type Mapping struct {
	Variant  string `yaml:"variant"`
	Standard string `yaml:"standard"`
}

// CoreMappings are always registered ahead of any file.
var CoreMappings = []Mapping{
	{Variant: "u", Standard: "you"},
	{Variant: "ur", Standard: "your"},
	{Variant: "r", Standard: "are"},
	{Variant: "lol", Standard: "laughing out loud"},
	{Variant: "btw", Standard: "by the way"},
	{Variant: "omg", Standard: "oh my god"},
}

// LoadStats summarises a mapping file load.
type LoadStats struct {
	Loaded     int
	Skipped    int
	Duplicates int
	Truncated  bool
	Missing    bool
}

// NewTable creates an empty table holding at most max mappings
// (DefaultMaxMappings when max <= 0).
func NewTable(max int) *Table {
	if max <= 0 {
		max = DefaultMaxMappings
	}
	return &Table{
		index: make(map[string]string),
		max:   max,
	}
}

// WithCore creates a default-sized table preloaded with CoreMappings.
func WithCore() *Table {
	t := NewTable(DefaultMaxMappings)
	for _, m := range CoreMappings {
		t.Add(m.Variant, m.Standard)
	}
	return t
}

// Add registers a mapping. It reports false when the variant already exists,
// either side is empty, or the table is full.
func (t *Table) Add(variant, standard string) bool {
	variant = strings.ToLower(strings.TrimSpace(variant))
	standard = strings.Join(strings.Fields(strings.ToLower(standard)), " ")
	if variant == "" || standard == "" {
		return false
	}
	if _, exists := t.index[variant]; exists {
		return false
	}
	if len(t.order) >= t.max {
		t.truncated = true
		return false
	}
	t.index[variant] = standard
	t.order = append(t.order, variant)
	return true
}

// Lookup returns the standard form for token.
//
// Examples:
//   - Lookup("u") -> "you", true
//   - Lookup("lol") -> "laughing out loud", true
//   - Lookup("hello") -> "", false
func (t *Table) Lookup(token string) (string, bool) {
	standard, ok := t.index[token]
	return standard, ok
}

// LoadFile adds mappings from a "variant=standard" file.
//
// Expected format:
//
//	# comment
//	gr8 = great
//	idk=i don't know
//
// Lines without "=" are skipped. A missing file marks the table degraded and
// leaves existing mappings in place.
func (t *Table) LoadFile(path string) LoadStats {
	log := logger.WithComponent("variants")
	f, err := os.Open(path)
	if err != nil {
		t.degraded = true
		log.Warn("cannot open variant mappings, using core set only", "path", path, "error", err)
		return LoadStats{Missing: true}
	}
	defer f.Close()

	stats := t.Parse(f)
	log.Info("loaded variant mappings",
		"path", path,
		"loaded", stats.Loaded,
		"total", t.Len(),
		"limit", t.max)
	return stats
}

// Parse adds mappings read from r in the "variant=standard" format.
func (t *Table) Parse(r io.Reader) LoadStats {
	var stats LoadStats
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		variant, standard, ok := strings.Cut(line, "=")
		if !ok {
			stats.Skipped++
			continue
		}
		stats.add(t, variant, standard)
	}
	if err := scanner.Err(); err != nil {
		t.degraded = true
		logger.WithComponent("variants").Warn("variant mappings read stopped early", "error", err)
	}
	stats.Truncated = t.truncated
	return stats
}

// LoadYAML adds mappings from a YAML file.
//
// Expected format:
//
//	variants:
//	  - variant: gr8
//	    standard: great
//	  - variant: idk
//	    standard: i don't know
func (t *Table) LoadYAML(path string) (LoadStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		t.degraded = true
		logger.WithComponent("variants").Warn("cannot open variant mappings, using core set only", "path", path, "error", err)
		return LoadStats{Missing: true}, nil
	}

	var config struct {
		Variants []Mapping `yaml:"variants"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return LoadStats{}, err
	}

	var stats LoadStats
	for _, m := range config.Variants {
		stats.add(t, m.Variant, m.Standard)
	}
	stats.Truncated = t.truncated
	return stats, nil
}

func (s *LoadStats) add(t *Table, variant, standard string) {
	variant = strings.ToLower(strings.TrimSpace(variant))
	switch {
	case variant == "" || strings.TrimSpace(standard) == "":
		s.Skipped++
	case t.Has(variant):
		s.Duplicates++
	case t.Add(variant, standard):
		s.Loaded++
	}
}

// Has reports whether variant is mapped.
func (t *Table) Has(variant string) bool {
	_, ok := t.index[strings.ToLower(variant)]
	return ok
}

// Mappings returns all mappings in registration order.
func (t *Table) Mappings() []Mapping {
	out := make([]Mapping, 0, len(t.order))
	for _, v := range t.order {
		out = append(out, Mapping{Variant: v, Standard: t.index[v]})
	}
	return out
}

// Len returns the number of mappings.
func (t *Table) Len() int {
	return len(t.order)
}

// Degraded is true after a mapping file could not be read.
func (t *Table) Degraded() bool {
	return t.degraded
}

// Truncated is true once a mapping was dropped for lack of capacity.
func (t *Table) Truncated() bool {
	return t.truncated
}
