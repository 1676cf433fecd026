// Package sorter ranks frequency pairs with one of three interchangeable
// algorithms, counting comparisons, moves and elapsed time.
package sorter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cognicore/toxiscan/pkg/toxiscan/freq"
	"github.com/cognicore/toxiscan/pkg/toxiscan/internalerr"
)

// Key is the primary ordering.
type Key int

const (
	FreqDesc Key = iota // count descending
	Alpha               // word ascending
)

func (k Key) String() string {
	switch k {
	case FreqDesc:
		return "freq"
	case Alpha:
		return "alpha"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// MarshalText renders the key by name in reports.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText reads a key written by MarshalText.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey accepts "freq" or "alpha".
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "freq", "frequency", "freq_desc":
		return FreqDesc, nil
	case "alpha", "alphabetical":
		return Alpha, nil
	}
	return 0, fmt.Errorf("sort key %q: %w", s, internalerr.ErrInvalidInput)
}

// Algorithm selects the sort strategy.
type Algorithm int

const (
	Bubble Algorithm = iota
	Quick
	Merge
)

// Algorithms lists every strategy in comparison order.
var Algorithms = []Algorithm{Bubble, Quick, Merge}

func (a Algorithm) String() string {
	switch a {
	case Bubble:
		return "bubble"
	case Quick:
		return "quick"
	case Merge:
		return "merge"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// MarshalText renders the algorithm by name in reports.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText reads an algorithm written by MarshalText.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlgorithm accepts "bubble", "quick" or "merge".
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bubble":
		return Bubble, nil
	case "quick":
		return Quick, nil
	case "merge":
		return Merge, nil
	}
	return 0, fmt.Errorf("sort algorithm %q: %w", s, internalerr.ErrInvalidInput)
}

// Stats accumulates the cost of sort calls. Reset it before a measured run.
type Stats struct {
	Comparisons int64   `json:"comparisons"`
	Moves       int64   `json:"moves"`
	ElapsedMs   float64 `json:"elapsed_ms"`
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	*s = Stats{}
}

// Comparator orders pairs by a primary key with an optional secondary tiebreak:
// alphabetical for FreqDesc, count descending for Alpha.
type Comparator struct {
	Key               Key
	SecondaryTiebreak bool
}

// Compare returns <0 when a sorts before b, >0 when after, 0 when undecided.
func (c Comparator) Compare(a, b freq.Pair) int {
	if c.Key == Alpha {
		if r := strings.Compare(a.Word, b.Word); r != 0 || !c.SecondaryTiebreak {
			return r
		}
		return cmp.Compare(b.Count, a.Count)
	}

	if r := cmp.Compare(b.Count, a.Count); r != 0 || !c.SecondaryTiebreak {
		return r
	}
	return strings.Compare(a.Word, b.Word)
}

// Config selects key, tiebreak and algorithm for one sort.
type Config struct {
	Key               Key       `json:"key"`
	Algorithm         Algorithm `json:"algorithm"`
	SecondaryTiebreak bool      `json:"secondary_tiebreak"`
}

// Comparator returns the comparator described by the config.
func (c Config) Comparator() Comparator {
	return Comparator{Key: c.Key, SecondaryTiebreak: c.SecondaryTiebreak}
}

// counter wraps the comparator and the swap primitive so every strategy is
// measured the same way.
type counter struct {
	cmp   Comparator
	stats *Stats
}

func (c *counter) compare(a, b freq.Pair) int {
	c.stats.Comparisons++
	return c.cmp.Compare(a, b)
}

// swap exchanges two elements; one swap costs three moves.
func (c *counter) swap(p []freq.Pair, i, j int) {
	p[i], p[j] = p[j], p[i]
	c.stats.Moves += 3
}

func (c *counter) move() {
	c.stats.Moves++
}

type strategy func(p []freq.Pair, c *counter)

var strategies = map[Algorithm]strategy{
	Bubble: bubbleSort,
	Quick:  quickSort,
	Merge:  mergeSort,
}

// Sort orders pairs in place and adds its cost to stats (which may be nil).
// Slices of length 0 or 1 are left alone and cost nothing.
// Unknown algorithms fall back to quick sort.
func Sort(pairs []freq.Pair, cfg Config, stats *Stats) {
	if len(pairs) <= 1 {
		return
	}
	if stats == nil {
		stats = &Stats{}
	}

	run, ok := strategies[cfg.Algorithm]
	if !ok {
		run = quickSort
	}

	start := time.Now()
	run(pairs, &counter{cmp: cfg.Comparator(), stats: stats})
	stats.ElapsedMs += float64(time.Since(start).Nanoseconds()) / 1e6
}

// Run sorts a copy of pairs with fresh stats.
func Run(pairs []freq.Pair, cfg Config) ([]freq.Pair, Stats) {
	out := slices.Clone(pairs)
	var stats Stats
	Sort(out, cfg, &stats)
	return out, stats
}

// TopN returns the first n pairs, or all of them when n <= 0 or n exceeds the length.
func TopN(pairs []freq.Pair, n int) []freq.Pair {
	if n <= 0 || n >= len(pairs) {
		return pairs
	}
	return pairs[:n]
}
