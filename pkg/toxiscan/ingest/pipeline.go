package ingest

import (
	"strings"

	"github.com/cognicore/toxiscan/pkg/toxiscan/stoplist"
	"github.com/cognicore/toxiscan/pkg/toxiscan/variants"
)

// Pipeline turns the original token stream into the filtered stream:
// original → variant expansion (optional) → letter check → stopword removal
type Pipeline struct {
	stops       *stoplist.Manager
	variants    *variants.Table
	expand      bool
	maxFiltered int
}

// Options configures a Pipeline
type Options struct {
	ExpandVariants bool
	MaxFiltered    int // cap on the filtered stream, DefaultMaxTokens when <= 0
}

// Result is one normalization pass over an original stream
type Result struct {
	Filtered           []string
	StopwordsRemoved   int
	VariantsNormalised int
	Considered         int  // letter-bearing tokens offered to the stopword filter
	Truncated          bool // filtered stream hit its cap and the pass stopped
}

// NewPipeline creates a pipeline. Nil components behave as empty tables.
func NewPipeline(stops *stoplist.Manager, table *variants.Table, opts Options) *Pipeline {
	if stops == nil {
		stops = stoplist.NewManager(nil)
	}
	if table == nil {
		table = variants.NewTable(0)
	}
	if opts.MaxFiltered <= 0 {
		opts.MaxFiltered = DefaultMaxTokens
	}
	return &Pipeline{
		stops:       stops,
		variants:    table,
		expand:      opts.ExpandVariants,
		maxFiltered: opts.MaxFiltered,
	}
}

// SetVariantExpansion switches variant expansion on or off for later passes.
func (p *Pipeline) SetVariantExpansion(on bool) {
	p.expand = on
}

// VariantExpansion reports whether variant expansion is on.
func (p *Pipeline) VariantExpansion() bool {
	return p.expand
}

// Stoplist returns the stopword set in use.
func (p *Pipeline) Stoplist() *stoplist.Manager {
	return p.stops
}

// Variants returns the variant table in use.
func (p *Pipeline) Variants() *variants.Table {
	return p.variants
}

// Process runs one full pass over original. It never modifies original,
// so repeated calls with the same settings give identical results.
func (p *Pipeline) Process(original []string) Result {
	res := Result{Filtered: make([]string, 0, len(original))}

	for _, tok := range original {
		if tok == "" {
			continue
		}

		if p.expand {
			if standard, ok := p.variants.Lookup(tok); ok {
				res.VariantsNormalised++

				// Multi-word standard forms: each part goes through the
				// filter once and is not expanded again.
				if strings.Contains(standard, " ") {
					for _, part := range strings.Fields(standard) {
						if !HasAlphabetic(part) {
							continue
						}
						if !p.add(&res, part) {
							return res
						}
					}
					continue
				}
				tok = standard
			}
		}

		if !HasAlphabetic(tok) {
			continue
		}
		if !p.add(&res, tok) {
			return res
		}
	}
	return res
}

// add offers one token to the stopword filter. It returns false once the
// filtered stream is full.
func (p *Pipeline) add(res *Result, tok string) bool {
	if len(res.Filtered) >= p.maxFiltered {
		res.Truncated = true
		return false
	}
	res.Considered++
	if p.stops.IsStop(tok) {
		res.StopwordsRemoved++
		return true
	}
	res.Filtered = append(res.Filtered, tok)
	return true
}
