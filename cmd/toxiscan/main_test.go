package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cognicore/toxiscan/pkg/toxiscan"
	"github.com/cognicore/toxiscan/pkg/toxiscan/lexicon"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func fixture(t *testing.T, name string) string {
	return filepath.Join(repoRoot(t), "testdata", "toxiscan", name)
}

func runCLI(t *testing.T, args ...string) report {
	t.Helper()
	var stdout bytes.Buffer
	if err := run(context.Background(), args, &stdout, io.Discard); err != nil {
		t.Fatalf("run(%v): %v", args, err)
	}
	var rep report
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout.String())
	}
	return rep
}

func TestAnalyseComment(t *testing.T) {
	dir := t.TempDir()
	filteredPath := filepath.Join(dir, "filtered_words.txt")
	metricsPath := filepath.Join(dir, "toxiscan.prom")

	rep := runCLI(t,
		"-lexicon", fixture(t, "toxicwords.txt"),
		"-variants", fixture(t, "variant_mappings.txt"),
		"-stopwords", fixture(t, "stopwords.txt"),
		"-input", fixture(t, "comment.txt"),
		"-top", "3",
		"-compare",
		"-save-filtered", filteredPath,
		"-metrics-file", metricsPath,
	)

	if rep.Document == nil || rep.Document.OriginalTokens != 35 {
		t.Fatalf("Document = %+v, want 35 original tokens", rep.Document)
	}
	if rep.Document.FilteredTokens != 27 {
		t.Errorf("FilteredTokens = %d, want 27", rep.Document.FilteredTokens)
	}

	a := rep.Analysis
	if a == nil {
		t.Fatal("missing analysis")
	}
	if rep.Document.FilteredTokens != a.FilteredCount {
		t.Errorf("document filtered_tokens = %d, analysis filtered_count = %d",
			rep.Document.FilteredTokens, a.FilteredCount)
	}
	if a.TotalOccurrences != 8 {
		t.Errorf("TotalOccurrences = %d, want 8", a.TotalOccurrences)
	}
	if a.SeverityHistogram[4] != 4 || a.SeverityHistogram[3] != 2 || a.SeverityHistogram[2] != 2 {
		t.Errorf("SeverityHistogram = %v", a.SeverityHistogram)
	}
	if a.BigramHits != 1 || a.TrigramHits != 1 {
		t.Errorf("phrase hits = %d/%d, want 1/1", a.BigramHits, a.TrigramHits)
	}
	if math.Abs(a.Density-8.0/27*100) > 1e-9 {
		t.Errorf("Density = %v", a.Density)
	}

	if rep.Ranking == nil || len(rep.Ranking.Pairs) != 3 {
		t.Fatalf("Ranking = %+v, want 3 pairs", rep.Ranking)
	}
	if top := rep.Ranking.Pairs[0]; top.Word != "idiot" || top.Count != 3 {
		t.Errorf("top ranked = %+v, want idiot x3", top)
	}
	if rep.ToxicRanking == nil || rep.ToxicRanking.Pairs[1].Word != "dumb" {
		t.Errorf("ToxicRanking = %+v, want dumb second", rep.ToxicRanking)
	}
	if rep.Comparison == nil || !rep.Comparison.Agree {
		t.Errorf("Comparison = %+v, want agreement", rep.Comparison)
	}
	if rep.Summary == nil || rep.Summary.ToxicTokens != 8 {
		t.Errorf("Summary = %+v", rep.Summary)
	}

	saved, err := os.ReadFile(filteredPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(saved), "# SourceFile: comment.txt\n# TextNormalisation: enabled\nhonestly\n") {
		t.Errorf("filtered file starts with:\n%s", saved)
	}

	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(prom), "toxiscan_analysis_runs_total 1") {
		t.Errorf("metrics textfile missing analysis runs:\n%s", prom)
	}
}

func TestAnalyseWithoutForcedNormalization(t *testing.T) {
	rep := runCLI(t,
		"-lexicon", fixture(t, "toxicwords.txt"),
		"-variants", fixture(t, "variant_mappings.txt"),
		"-stopwords", fixture(t, "stopwords.txt"),
		"-input", fixture(t, "comment.txt"),
		"-force-normalize=false",
	)

	// "h8" stays unexpanded, so "hate" is never seen.
	if rep.Analysis.TotalOccurrences != 7 {
		t.Errorf("TotalOccurrences = %d, want 7", rep.Analysis.TotalOccurrences)
	}
	if rep.Document.FilteredTokens != 28 || rep.Analysis.FilteredCount != 28 {
		t.Errorf("filtered = %d/%d, want 28/28", rep.Document.FilteredTokens, rep.Analysis.FilteredCount)
	}
	if rep.Document.VariantsNormalised != 0 {
		t.Errorf("VariantsNormalised = %d, want 0", rep.Document.VariantsNormalised)
	}
}

func TestAnalyseHTML(t *testing.T) {
	rep := runCLI(t,
		"-lexicon", fixture(t, "toxicwords.txt"),
		"-stopwords", fixture(t, "stopwords.txt"),
		"-input", fixture(t, "comment.html"),
	)

	if rep.Analysis.TotalOccurrences != 1 {
		t.Errorf("TotalOccurrences = %d, want 1 (script text must be ignored)", rep.Analysis.TotalOccurrences)
	}
	if rep.Analysis.BigramHits != 1 {
		t.Errorf("BigramHits = %d, want 1", rep.Analysis.BigramHits)
	}
	if rep.TextStats == nil || rep.TextStats.Sentences != 2 {
		t.Errorf("TextStats = %+v, want 2 sentences", rep.TextStats)
	}
}

func TestDictionaryEdits(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "toxicwords.txt")
	data, err := os.ReadFile(fixture(t, "toxicwords.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dict, data, 0644); err != nil {
		t.Fatal(err)
	}

	rep := runCLI(t, "-lexicon", dict, "-add", "Jerk", "-severity", "2", "-remove", "trash")
	if len(rep.Dictionary.Changes) != 2 {
		t.Errorf("Changes = %v, want 2", rep.Dictionary.Changes)
	}
	if rep.Dictionary.SavedTo != dict {
		t.Errorf("SavedTo = %q, want %q", rep.Dictionary.SavedTo, dict)
	}

	rep = runCLI(t, "-lexicon", dict, "-add-phrase", "total jerk", "-promote", "total=5")
	if !strings.Contains(rep.Dictionary.Changes[0], "multi-toxic") {
		t.Errorf("Changes = %v, want a multi-toxic phrase", rep.Dictionary.Changes)
	}

	lex := lexicon.New()
	lex.Load(dict)
	if !lex.IsToxicWord("jerk") || lex.SeverityOf("jerk") != 2 {
		t.Error("jerk should be saved with severity 2")
	}
	if lex.IsToxicWord("trash") {
		t.Error("trash should be removed")
	}
	if lex.SeverityOf("total") != 5 {
		t.Error("total should be promoted with severity 5")
	}

	rep = runCLI(t, "-lexicon", dict, "-add-phrase", "you jerk")
	if !strings.Contains(rep.Dictionary.Changes[0], "not stored") {
		t.Errorf("Changes = %v, want phrase not stored", rep.Dictionary.Changes)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"nothing to do", []string{"-lexicon", "/nonexistent/dict.txt"}, nil},
		{"bad key", []string{"-key", "size", "-input", "x.txt"}, toxiscan.ErrInvalidConfig},
		{"both inputs", []string{"-input", "a.txt", "-tokens", "b.txt"}, nil},
		{"bad promote", []string{"-lexicon", "/nonexistent/dict.txt", "-add-phrase", "a b", "-promote", "a"}, toxiscan.ErrInvalidInput},
		{"missing input", []string{"-input", "/nonexistent/post.txt"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, io.Discard, io.Discard)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParsePromote(t *testing.T) {
	got, err := parsePromote("total=5, utter=4")
	if err != nil {
		t.Fatal(err)
	}
	if got["total"] != 5 || got["utter"] != 4 {
		t.Errorf("parsePromote = %v", got)
	}
	if got, _ := parsePromote(""); got != nil {
		t.Errorf("parsePromote(\"\") = %v, want nil", got)
	}
}
