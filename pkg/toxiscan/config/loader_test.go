package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderAllEmpty(t *testing.T) {
	cfg := Default()
	cfg.Lexicon.Path = ""
	cfg.Normalization.VariantsPath = ""
	cfg.Normalization.StopwordsPath = ""
	cfg.Normalization.CoreVariants = false

	comp, err := (&Loader{Config: cfg}).Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}

	if comp.Lexicon == nil || comp.Variants == nil || comp.Stoplist == nil {
		t.Fatal("components should be created empty")
	}
	if comp.Tokenizer == nil || comp.Pipeline == nil {
		t.Fatal("tokenizer and pipeline should be created")
	}
	if comp.Variants.Len() != 0 {
		t.Errorf("Variants.Len() = %d, want 0", comp.Variants.Len())
	}
	if len(comp.Degraded()) != 0 {
		t.Errorf("Degraded() = %v, want none", comp.Degraded())
	}
}

func TestLoaderMissingFilesDegrade(t *testing.T) {
	cfg := Default()
	cfg.Lexicon.Path = "/nonexistent/toxicwords.txt"
	cfg.Normalization.VariantsPath = "/nonexistent/variants.txt"
	cfg.Normalization.StopwordsPath = "/nonexistent/stopwords.yaml"

	comp, err := (&Loader{Config: cfg}).Load()
	if err != nil {
		t.Fatalf("missing resources must not fail the load: %v", err)
	}

	want := []string{"lexicon", "variants", "stopwords"}
	if got := comp.Degraded(); !reflect.DeepEqual(got, want) {
		t.Errorf("Degraded() = %v, want %v", got, want)
	}
	if comp.Lexicon.Len() != 0 {
		t.Errorf("lexicon should be empty, got %d entries", comp.Lexicon.Len())
	}
	if _, ok := comp.Variants.Lookup("u"); !ok {
		t.Error("core mappings should survive a missing variant file")
	}
}

func TestLoaderValidFiles(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Lexicon.Path = writeFile(t, dir, "toxic.txt", "idiot,4\nshut up,2\n")
	cfg.Normalization.VariantsPath = writeFile(t, dir, "variants.yaml", `variants:
  - variant: gr8
    standard: great
  - variant: u
    standard: ewe
`)
	cfg.Normalization.StopwordsPath = writeFile(t, dir, "stop.yaml", "terms:\n  - the\n  - a\n")
	cfg.Normalization.ExpandVariants = true

	comp, err := (&Loader{Config: cfg}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !comp.Lexicon.IsToxicWord("idiot") {
		t.Error("lexicon should contain idiot")
	}
	if std, _ := comp.Variants.Lookup("gr8"); std != "great" {
		t.Errorf("gr8 -> %q, want great", std)
	}
	if std, _ := comp.Variants.Lookup("u"); std != "you" {
		t.Errorf("u -> %q, core mapping must win", std)
	}
	if !comp.Stoplist.IsStop("the") {
		t.Error("stoplist should contain the")
	}
	if !comp.Pipeline.VariantExpansion() {
		t.Error("pipeline should expand variants")
	}
}

func TestLoaderPlainStopwordFile(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Lexicon.Path = ""
	cfg.Normalization.VariantsPath = writeFile(t, dir, "variant_mappings.txt", "idk=i don't know\n")
	cfg.Normalization.StopwordsPath = writeFile(t, dir, "stopwords.txt", "the\nis\n")

	comp, err := (&Loader{Config: cfg}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Stoplist.Len() != 2 {
		t.Errorf("Stoplist.Len() = %d, want 2", comp.Stoplist.Len())
	}
	if std, _ := comp.Variants.Lookup("idk"); std != "i don't know" {
		t.Errorf("idk -> %q", std)
	}
}

func TestLoaderInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Sorting.Key = "bogus"
	if _, err := (&Loader{Config: cfg}).Load(); err == nil {
		t.Error("expected validation error")
	}
}
