package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Delimiters separate tokens in raw text.
const Delimiters = " \t\r\n.,!?;:\"()[]{}@#<>/\\|*_~^`=+-&$%"

// MaxTokenLen is the longest token kept, in bytes. Longer tokens are cut.
const MaxTokenLen = 49

// DefaultMaxTokens caps the original token stream of one document.
const DefaultMaxTokens = 3000000

// Tokenizer splits raw text into the original token stream.
// It holds no per-call state and may be shared between goroutines.
type Tokenizer struct {
	foldAccents bool
	maxTokens   int
}

// NewTokenizer creates a tokenizer with accent folding off and the default token cap.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{maxTokens: DefaultMaxTokens}
}

// SetFoldAccents makes accented letters decay to their base letter
// ("café" -> "cafe") instead of splitting the word at the accent.
func (t *Tokenizer) SetFoldAccents(on bool) {
	t.foldAccents = on
}

// SetMaxTokens changes the per-document token cap. Values <= 0 are ignored.
func (t *Tokenizer) SetMaxTokens(max int) {
	if max > 0 {
		t.maxTokens = max
	}
}

// Tokenize splits text into cleaned tokens, dropping anything past the token cap.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens, _ := t.tokenize(text)
	return tokens
}

func (t *Tokenizer) tokenize(text string) ([]string, bool) {
	text = t.asciiFold(text)

	var tokens []string
	for _, field := range strings.FieldsFunc(text, isDelimiter) {
		tok := CleanToken(field)
		if tok == "" {
			continue
		}
		if len(tokens) >= t.maxTokens {
			return tokens, true
		}
		tokens = append(tokens, tok)
	}
	return tokens, false
}

// asciiFold turns every byte above 127 into a space, optionally after
// stripping combining accents.
func (t *Tokenizer) asciiFold(text string) string {
	if t.foldAccents {
		// transform.Chain keeps state between calls, so each call gets its own.
		stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(stripAccents, text); err == nil {
			text = folded
		}
	}
	b := []byte(text)
	for i, c := range b {
		if c > 127 {
			b[i] = ' '
		}
	}
	return string(b)
}

func isDelimiter(r rune) bool {
	return strings.ContainsRune(Delimiters, r)
}

// CleanToken strips one leading '#' or '@', lowercases, cuts the token to
// MaxTokenLen and returns "" when no letter is left.
func CleanToken(raw string) string {
	if strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "@") {
		raw = raw[1:]
	}
	tok := strings.ToLower(raw)
	if len(tok) > MaxTokenLen {
		tok = tok[:MaxTokenLen]
	}
	if !HasAlphabetic(tok) {
		return ""
	}
	return tok
}

// HasAlphabetic reports whether s contains at least one ASCII letter.
func HasAlphabetic(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
