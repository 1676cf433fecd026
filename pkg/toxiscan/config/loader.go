package config

import (
	"path/filepath"
	"strings"

	"github.com/cognicore/toxiscan/pkg/toxiscan/ingest"
	"github.com/cognicore/toxiscan/pkg/toxiscan/lexicon"
	"github.com/cognicore/toxiscan/pkg/toxiscan/logger"
	"github.com/cognicore/toxiscan/pkg/toxiscan/stoplist"
	"github.com/cognicore/toxiscan/pkg/toxiscan/variants"
)

// Loader builds components from a Config.
// Missing resource files never fail the load: the component starts empty
// and reports Degraded.
type Loader struct {
	Config *Config
}

// Components holds everything the engine needs.
type Components struct {
	Lexicon   *lexicon.Store
	Variants  *variants.Table
	Stoplist  *stoplist.Manager
	Tokenizer *ingest.Tokenizer
	Pipeline  *ingest.Pipeline
}

// Degraded lists the components running without their resource file.
func (c *Components) Degraded() []string {
	var out []string
	if c.Lexicon.Degraded() {
		out = append(out, "lexicon")
	}
	if c.Variants.Degraded() {
		out = append(out, "variants")
	}
	if c.Stoplist.Degraded() {
		out = append(out, "stopwords")
	}
	return out
}

// Load reads every configured file and returns initialized components.
func (l *Loader) Load() (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	norm := cfg.Normalization
	log := logger.WithComponent("config")

	comp := &Components{}

	comp.Lexicon = lexicon.New(lexicon.Limits{
		MaxWords:   cfg.Lexicon.MaxWords,
		MaxPhrases: cfg.Lexicon.MaxPhrases,
	})
	if cfg.Lexicon.Path != "" {
		comp.Lexicon.Load(cfg.Lexicon.Path)
	}

	// Core mappings go in first so files cannot override them.
	comp.Variants = variants.NewTable(norm.MaxVariants)
	if norm.CoreVariants {
		for _, m := range variants.CoreMappings {
			comp.Variants.Add(m.Variant, m.Standard)
		}
	}
	if norm.VariantsPath != "" {
		if isYAML(norm.VariantsPath) {
			if _, err := comp.Variants.LoadYAML(norm.VariantsPath); err != nil {
				log.Warn("variant mappings not loaded", "path", norm.VariantsPath, "error", err)
			}
		} else {
			comp.Variants.LoadFile(norm.VariantsPath)
		}
	}

	comp.Stoplist = stoplist.NewManager(nil)
	comp.Stoplist.SetLimit(norm.MaxStopwords)
	if norm.StopwordsPath != "" {
		if isYAML(norm.StopwordsPath) {
			sl, err := LoadStoplist(norm.StopwordsPath)
			if err != nil {
				comp.Stoplist.MarkDegraded()
				log.Warn("stopwords not loaded, stopword filtering disabled", "path", norm.StopwordsPath, "error", err)
			} else if _, truncated := comp.Stoplist.AddTerms(sl.Terms); truncated {
				log.Warn("stopword list truncated at capacity", "limit", norm.MaxStopwords)
			}
		} else {
			comp.Stoplist.LoadFile(norm.StopwordsPath)
		}
	}

	comp.Tokenizer = ingest.NewTokenizer()
	comp.Tokenizer.SetFoldAccents(norm.FoldAccents)
	comp.Tokenizer.SetMaxTokens(norm.MaxTokens)

	comp.Pipeline = ingest.NewPipeline(comp.Stoplist, comp.Variants, ingest.Options{
		ExpandVariants: norm.ExpandVariants,
		MaxFiltered:    norm.MaxTokens,
	})

	if degraded := comp.Degraded(); len(degraded) > 0 {
		log.Warn("running in degraded mode", "components", degraded)
	}
	return comp, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
