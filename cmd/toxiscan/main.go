package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cognicore/toxiscan/internal/source"
	"github.com/cognicore/toxiscan/pkg/toxiscan"
	"github.com/cognicore/toxiscan/pkg/toxiscan/config"
	"github.com/cognicore/toxiscan/pkg/toxiscan/freq"
	"github.com/cognicore/toxiscan/pkg/toxiscan/ingest"
	"github.com/cognicore/toxiscan/pkg/toxiscan/logger"
	"github.com/cognicore/toxiscan/pkg/toxiscan/metrics"
	"github.com/cognicore/toxiscan/pkg/toxiscan/sorter"
	"github.com/cognicore/toxiscan/pkg/toxiscan/toxicity"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	configPath   string
	input        string
	tokens       string
	lexicon      string
	variants     string
	stopwords    string
	normalize    bool
	forceNorm    bool
	source       string
	key          string
	alg          string
	top          int
	tiebreak     bool
	compare      bool
	add          string
	addPhrase    string
	promote      string
	severity     int
	remove       string
	save         string
	saveFiltered string
	metricsFile  string
	logLevel     string

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("toxiscan", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (optional)")
	fs.StringVar(&opts.input, "input", "", "Document to analyse (.txt, .html or .jsonl)")
	fs.StringVar(&opts.tokens, "tokens", "", "Saved word list to analyse instead of -input")
	fs.StringVar(&opts.lexicon, "lexicon", "", "Toxic dictionary file")
	fs.StringVar(&opts.variants, "variants", "", "Variant mapping file (variant=standard lines or YAML)")
	fs.StringVar(&opts.stopwords, "stopwords", "", "Stopword file (one per line or YAML terms)")
	fs.BoolVar(&opts.normalize, "normalize", false, "Expand informal variants before filtering")
	fs.BoolVar(&opts.forceNorm, "force-normalize", true, "Switch variant expansion on before analysing, whatever -normalize says")
	fs.StringVar(&opts.source, "source", "", "Word source for analysis and ranking: filtered or original")
	fs.StringVar(&opts.key, "key", "", "Sort key: freq or alpha")
	fs.StringVar(&opts.alg, "alg", "", "Sort algorithm: bubble, quick or merge")
	fs.IntVar(&opts.top, "top", 0, "Number of ranked words to report")
	fs.BoolVar(&opts.tiebreak, "tiebreak", true, "Break primary-key ties with the secondary key")
	fs.BoolVar(&opts.compare, "compare", false, "Run all three sort algorithms and compare them")
	fs.StringVar(&opts.add, "add", "", "Add a toxic word")
	fs.StringVar(&opts.addPhrase, "add-phrase", "", "Add a toxic phrase (space separated words)")
	fs.StringVar(&opts.promote, "promote", "", "Phrase words to mark toxic first, as word=severity,word=severity")
	fs.IntVar(&opts.severity, "severity", 3, "Severity (1-5) for -add and context phrases")
	fs.StringVar(&opts.remove, "remove", "", "Remove a toxic word or phrase")
	fs.StringVar(&opts.save, "save", "", "Where to save the dictionary after changes (default: the loaded file)")
	fs.StringVar(&opts.saveFiltered, "save-filtered", "", "Write the filtered word list to this file")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.input != "" && opts.tokens != "" {
		return nil, errors.New("use either -input or -tokens, not both")
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cfg *config.Config, opts *options) {
	if opts.set["lexicon"] {
		cfg.Lexicon.Path = opts.lexicon
	}
	if opts.set["variants"] {
		cfg.Normalization.VariantsPath = opts.variants
	}
	if opts.set["stopwords"] {
		cfg.Normalization.StopwordsPath = opts.stopwords
	}
	if opts.set["normalize"] {
		cfg.Normalization.ExpandVariants = opts.normalize
	}
	if opts.set["force-normalize"] {
		cfg.Analysis.ForceNormalization = opts.forceNorm
	}
	if opts.set["source"] {
		cfg.Analysis.WordSource = opts.source
	}
	if opts.set["key"] {
		cfg.Sorting.Key = opts.key
	}
	if opts.set["alg"] {
		cfg.Sorting.Algorithm = opts.alg
	}
	if opts.set["top"] {
		cfg.Sorting.TopN = opts.top
	}
	if opts.set["tiebreak"] {
		cfg.Sorting.SecondaryTiebreak = opts.tiebreak
	}
	if opts.set["metrics-file"] {
		cfg.Metrics.Textfile = opts.metricsFile
	}
	if opts.set["log-level"] {
		cfg.Logging.Level = opts.logLevel
	}
}

type report struct {
	Document     *toxiscan.LoadReport `json:"document,omitempty"`
	Degraded     []string             `json:"degraded,omitempty"`
	Dictionary   dictionaryReport     `json:"dictionary"`
	Analysis     *toxicity.Snapshot   `json:"analysis,omitempty"`
	TextStats    *ingest.TextStats    `json:"text_stats,omitempty"`
	Ranking      *toxiscan.Ranking    `json:"ranking,omitempty"`
	ToxicRanking *toxiscan.Ranking    `json:"toxic_ranking,omitempty"`
	Comparison   *sorter.Comparison   `json:"comparison,omitempty"`
	Summary      *freq.Summary        `json:"summary,omitempty"`
}

type dictionaryReport struct {
	Words       int      `json:"words"`
	Phrases     int      `json:"phrases"`
	DeadPhrases int      `json:"dead_phrases"`
	Changes     []string `json:"changes,omitempty"`
	SavedTo     string   `json:"saved_to,omitempty"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, stderr)

	comp, err := (&config.Loader{Config: cfg}).Load()
	if err != nil {
		return fmt.Errorf("load components: %w", err)
	}

	var rec *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		rec = metrics.New()
	}
	engine := toxiscan.FromConfig(cfg, comp, rec)

	rep := report{Degraded: comp.Degraded()}

	changes, err := editDictionary(engine, opts)
	if err != nil {
		return err
	}
	rep.Dictionary.Changes = changes
	if len(changes) > 0 || opts.save != "" {
		path := opts.save
		if path == "" {
			path = cfg.Lexicon.Path
		}
		if err := engine.SaveLexicon(path); err != nil {
			return err
		}
		rep.Dictionary.SavedTo = path
	}

	if opts.input != "" || opts.tokens != "" {
		if err := analyse(ctx, engine, cfg, opts, &rep); err != nil {
			return err
		}
	} else if len(changes) == 0 && opts.save == "" {
		return errors.New("nothing to do: pass -input, -tokens or a dictionary flag (-add, -add-phrase, -remove, -save)")
	}

	st := engine.Lexicon().Stats()
	rep.Dictionary.Words = st.Words
	rep.Dictionary.Phrases = st.Phrases
	rep.Dictionary.DeadPhrases = st.DeadPhrases

	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func analyse(ctx context.Context, engine *toxiscan.Engine, cfg *config.Config, opts *options, rep *report) error {
	var src toxiscan.TokenSource
	if opts.tokens != "" {
		src = source.TokenListFile{Path: opts.tokens}
	} else {
		src = source.Open(opts.input)
	}

	if _, err := engine.Load(ctx, src); err != nil {
		return err
	}

	snap, err := engine.Analyze()
	if err != nil {
		return err
	}
	rep.Analysis = &snap

	// Analyze may have re-normalized the document.
	doc, err := engine.Document()
	if err != nil {
		return err
	}
	rep.Document = &doc

	stats, err := engine.TextStats()
	if err != nil {
		return err
	}
	rep.TextStats = &stats

	sortCfg := cfg.SortConfig()
	ranking, err := engine.Rank(cfg.Analysis.WordSource, sortCfg, cfg.Sorting.TopN)
	if err != nil {
		return err
	}
	rep.Ranking = &ranking

	toxic, err := engine.RankToxic(sortCfg, cfg.Sorting.TopN)
	if err != nil {
		return err
	}
	rep.ToxicRanking = &toxic

	summary, err := engine.Summary(cfg.Analysis.WordSource)
	if err != nil {
		return err
	}
	rep.Summary = &summary

	if opts.compare {
		cmp, err := engine.CompareAlgorithms(cfg.Analysis.WordSource, sortCfg.Key, sortCfg.SecondaryTiebreak, cfg.Sorting.TopN)
		if err != nil {
			return err
		}
		rep.Comparison = &cmp
	}

	if opts.saveFiltered != "" {
		f, err := os.Create(opts.saveFiltered)
		if err != nil {
			return fmt.Errorf("save filtered words: %w", err)
		}
		if err := engine.WriteFiltered(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("save filtered words: %w", err)
		}
	}
	return nil
}

// editDictionary applies -remove, -add and -add-phrase in that order and
// describes what changed.
func editDictionary(engine *toxiscan.Engine, opts *options) ([]string, error) {
	var changes []string

	if opts.remove != "" {
		kind, err := engine.RemoveEntry(opts.remove)
		if err != nil {
			return nil, err
		}
		changes = append(changes, fmt.Sprintf("removed %s %q", kind, opts.remove))
	}

	if opts.add != "" {
		if err := engine.AddWord(opts.add, opts.severity); err != nil {
			return nil, err
		}
		changes = append(changes, fmt.Sprintf("added word %q", strings.ToLower(strings.TrimSpace(opts.add))))
	}

	if opts.addPhrase != "" {
		promote, err := parsePromote(opts.promote)
		if err != nil {
			return nil, err
		}
		out, err := engine.AddPhrase(strings.Fields(opts.addPhrase), opts.severity, promote)
		if err != nil {
			return nil, err
		}
		if out.Stored {
			changes = append(changes, fmt.Sprintf("added %s phrase %q severity %d", out.Kind, out.Text, out.Severity))
		} else {
			changes = append(changes, fmt.Sprintf("phrase %q not stored: %q already detects it", out.Text, out.ToxicWords[0]))
		}
	}
	return changes, nil
}

// parsePromote reads "word=severity,word=severity".
func parsePromote(s string) (map[string]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	out := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		word, sev, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("promote %q: want word=severity: %w", part, toxiscan.ErrInvalidInput)
		}
		n, err := strconv.Atoi(strings.TrimSpace(sev))
		if err != nil {
			return nil, fmt.Errorf("promote %q: %w", part, toxiscan.ErrInvalidInput)
		}
		out[strings.TrimSpace(word)] = n
	}
	return out, nil
}
