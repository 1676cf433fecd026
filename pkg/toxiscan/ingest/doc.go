package ingest

import (
	"errors"
	"strings"
)

// Capture is the original token stream of one document, taken once.
// Every later normalization pass starts from Original, never from the source.
type Capture struct {
	Name      string
	Original  []string
	Sentences int  // 0 when the source supplied tokens without text
	Truncated bool // tokens past the cap were dropped
}

// Capture tokenizes text and counts its sentences.
func (t *Tokenizer) Capture(name, text string) Capture {
	tokens, truncated := t.tokenize(text)
	return Capture{
		Name:      name,
		Original:  tokens,
		Sentences: CountSentences(text),
		Truncated: truncated,
	}
}

// CaptureTokens cleans tokens handed over by a source that already split its text.
// Raw tokens containing delimiters are split further.
func (t *Tokenizer) CaptureTokens(name string, raw []string) Capture {
	tokens, truncated := t.tokenize(strings.Join(raw, " "))
	return Capture{
		Name:      name,
		Original:  tokens,
		Truncated: truncated,
	}
}

// Validate checks that the capture has something to analyse
func (c *Capture) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("capture name is required")
	}
	if len(c.Original) == 0 {
		return errors.New("capture has no tokens")
	}
	return nil
}
