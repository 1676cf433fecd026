package ingest

import (
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "You are an Idiot!", []string{"you", "are", "an", "idiot"}},
		{"delimiters", "a,b;c:d(e)[f]{g}", []string{"a", "b", "c", "d", "e", "f", "g"}},
		{"hashtags and mentions", "#Angry @someone", []string{"angry", "someone"}},
		{"digits dropped", "2024 was 42 times better", []string{"was", "times", "better"}},
		{"mixed digits kept", "r2d2 rocks", []string{"r2d2", "rocks"}},
		{"apostrophe kept", "don't stop", []string{"don't", "stop"}},
		{"non ascii splits", "café noir", []string{"caf", "noir"}},
		{"empty", "", nil},
		{"only punctuation", "!!! ... ???", nil},
	}

	tok := NewTokenizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeFoldAccents(t *testing.T) {
	tok := NewTokenizer()
	tok.SetFoldAccents(true)

	got := tok.Tokenize("Café crème")
	want := []string{"cafe", "creme"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize with folding = %v, want %v", got, want)
	}
}

func TestTokenizeLongToken(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := NewTokenizer().Tokenize(long)
	if len(got) != 1 {
		t.Fatalf("expected 1 token, got %d", len(got))
	}
	if len(got[0]) != MaxTokenLen {
		t.Errorf("token length = %d, want %d", len(got[0]), MaxTokenLen)
	}
}

func TestTokenizeCap(t *testing.T) {
	tok := NewTokenizer()
	tok.SetMaxTokens(3)

	c := tok.Capture("doc", "one two three four five")
	if len(c.Original) != 3 {
		t.Errorf("len(Original) = %d, want 3", len(c.Original))
	}
	if !c.Truncated {
		t.Error("expected Truncated")
	}
}

func TestCleanToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello", "hello"},
		{"#Tag", "tag"},
		{"@User", "user"},
		{"##double", "#double"},
		{"123", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanToken(tt.in); got != tt.want {
			t.Errorf("CleanToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasAlphabetic(t *testing.T) {
	if !HasAlphabetic("a1") {
		t.Error("a1 has a letter")
	}
	if HasAlphabetic("1234'") {
		t.Error("1234' has no letter")
	}
}

func TestCaptureTokens(t *testing.T) {
	tok := NewTokenizer()
	c := tok.CaptureTokens("feed", []string{"Hello,World", "#News", "42"})

	want := []string{"hello", "world", "news"}
	if !reflect.DeepEqual(c.Original, want) {
		t.Errorf("Original = %v, want %v", c.Original, want)
	}
	if c.Sentences != 0 {
		t.Errorf("Sentences = %d, want 0 for token input", c.Sentences)
	}
}

func TestCaptureValidate(t *testing.T) {
	tok := NewTokenizer()

	good := tok.Capture("doc", "some text")
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	empty := tok.Capture("doc", "123 456")
	if err := empty.Validate(); err == nil {
		t.Error("expected error for capture without tokens")
	}

	unnamed := tok.Capture("  ", "text")
	if err := unnamed.Validate(); err == nil {
		t.Error("expected error for capture without name")
	}
}

func TestTokenizeFoldAccentsConcurrently(t *testing.T) {
	tok := NewTokenizer()
	tok.SetFoldAccents(true)
	want := []string{"cafe", "naive", "idiot"}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if got := tok.Tokenize("Café naïve idiot"); !reflect.DeepEqual(got, want) {
					t.Errorf("Tokenize = %v, want %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
