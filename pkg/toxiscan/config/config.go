// Package config loads and validates toxiscan configuration from YAML files
// with environment-variable overrides, and turns it into ready components.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/toxiscan/pkg/toxiscan/internalerr"
	"github.com/cognicore/toxiscan/pkg/toxiscan/sorter"
)

// Word sources for the analysis and ranking passes.
const (
	SourceFiltered = "filtered"
	SourceOriginal = "original"
)

// Config is the top-level configuration.
type Config struct {
	Lexicon       LexiconConfig       `yaml:"lexicon"`
	Normalization NormalizationConfig `yaml:"normalization"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Sorting       SortingConfig       `yaml:"sorting"`
	Logging       LoggingConfig       `yaml:"logging"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

// LexiconConfig locates and sizes the toxic dictionary.
type LexiconConfig struct {
	Path       string `yaml:"path"`
	MaxWords   int    `yaml:"maxWords"`
	MaxPhrases int    `yaml:"maxPhrases"`
}

// NormalizationConfig controls tokenization, variant expansion and stopwords.
type NormalizationConfig struct {
	VariantsPath   string `yaml:"variantsPath"` // .yaml/.yml or variant=standard lines
	StopwordsPath  string `yaml:"stopwordsPath"`
	CoreVariants   bool   `yaml:"coreVariants"`
	ExpandVariants bool   `yaml:"expandVariants"`
	FoldAccents    bool   `yaml:"foldAccents"`
	MaxTokens      int    `yaml:"maxTokens"`
	MaxVariants    int    `yaml:"maxVariants"`
	MaxStopwords   int    `yaml:"maxStopwords"`
}

// AnalysisConfig controls the toxicity pass.
type AnalysisConfig struct {
	WordSource string `yaml:"wordSource"`
	// ForceNormalization turns variant expansion on before analysing,
	// so "u" and "you" count alike.
	ForceNormalization bool `yaml:"forceNormalization"`
}

// SortingConfig controls rankings.
type SortingConfig struct {
	Key               string `yaml:"key"`
	Algorithm         string `yaml:"algorithm"`
	TopN              int    `yaml:"topN"`
	SecondaryTiebreak bool   `yaml:"secondaryTiebreak"`
	MaxPairs          int    `yaml:"maxPairs"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus textfile export. Empty disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Lexicon: LexiconConfig{
			Path:       "toxicwords.txt",
			MaxWords:   1000,
			MaxPhrases: 500,
		},
		Normalization: NormalizationConfig{
			VariantsPath:  "variant_mappings.txt",
			StopwordsPath: "stopwords.txt",
			CoreVariants:  true,
			MaxTokens:     3000000,
			MaxVariants:   300,
			MaxStopwords:  500,
		},
		Analysis: AnalysisConfig{
			WordSource:         SourceFiltered,
			ForceNormalization: true,
		},
		Sorting: SortingConfig{
			Key:               "freq",
			Algorithm:         "bubble",
			TopN:              10,
			SecondaryTiebreak: true,
			MaxPairs:          6000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Lexicon.MaxWords <= 0 {
		problems = append(problems, "lexicon.maxWords must be positive")
	}
	if c.Lexicon.MaxPhrases <= 0 {
		problems = append(problems, "lexicon.maxPhrases must be positive")
	}
	if c.Normalization.MaxTokens <= 0 {
		problems = append(problems, "normalization.maxTokens must be positive")
	}
	if c.Normalization.MaxVariants <= 0 {
		problems = append(problems, "normalization.maxVariants must be positive")
	}
	if c.Normalization.MaxStopwords <= 0 {
		problems = append(problems, "normalization.maxStopwords must be positive")
	}
	if c.Analysis.WordSource != SourceFiltered && c.Analysis.WordSource != SourceOriginal {
		problems = append(problems, fmt.Sprintf("analysis.wordSource %q must be %q or %q",
			c.Analysis.WordSource, SourceFiltered, SourceOriginal))
	}
	if _, err := sorter.ParseKey(c.Sorting.Key); err != nil {
		problems = append(problems, fmt.Sprintf("sorting.key %q is not freq or alpha", c.Sorting.Key))
	}
	if _, err := sorter.ParseAlgorithm(c.Sorting.Algorithm); err != nil {
		problems = append(problems, fmt.Sprintf("sorting.algorithm %q is not bubble, quick or merge", c.Sorting.Algorithm))
	}
	if c.Sorting.TopN < 0 {
		problems = append(problems, "sorting.topN must not be negative")
	}
	if c.Sorting.MaxPairs <= 0 {
		problems = append(problems, "sorting.maxPairs must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SortConfig converts the sorting section. Call after Validate.
func (c *Config) SortConfig() sorter.Config {
	key, _ := sorter.ParseKey(c.Sorting.Key)
	alg, _ := sorter.ParseAlgorithm(c.Sorting.Algorithm)
	return sorter.Config{
		Key:               key,
		Algorithm:         alg,
		SecondaryTiebreak: c.Sorting.SecondaryTiebreak,
	}
}

// applyEnvOverrides reads TOXISCAN_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TOXISCAN_LEXICON_PATH"); v != "" {
		cfg.Lexicon.Path = v
	}
	if v := os.Getenv("TOXISCAN_VARIANTS_PATH"); v != "" {
		cfg.Normalization.VariantsPath = v
	}
	if v := os.Getenv("TOXISCAN_STOPWORDS_PATH"); v != "" {
		cfg.Normalization.StopwordsPath = v
	}
	if v := os.Getenv("TOXISCAN_EXPAND_VARIANTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Normalization.ExpandVariants = b
		}
	}
	if v := os.Getenv("TOXISCAN_FOLD_ACCENTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Normalization.FoldAccents = b
		}
	}
	if v := os.Getenv("TOXISCAN_WORD_SOURCE"); v != "" {
		cfg.Analysis.WordSource = v
	}
	if v := os.Getenv("TOXISCAN_SORT_KEY"); v != "" {
		cfg.Sorting.Key = v
	}
	if v := os.Getenv("TOXISCAN_SORT_ALGORITHM"); v != "" {
		cfg.Sorting.Algorithm = v
	}
	if v := os.Getenv("TOXISCAN_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sorting.TopN = n
		}
	}
	if v := os.Getenv("TOXISCAN_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TOXISCAN_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TOXISCAN_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}

// Stoplist is the YAML stopword list.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
