package toxiscan

import (
	"fmt"
	"io"

	"github.com/cognicore/toxiscan/pkg/toxiscan/lexicon"
	"github.com/cognicore/toxiscan/pkg/toxiscan/logger"
)

// AddWord inserts a toxic word.
func (e *Engine) AddWord(word string, severity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.lex.InsertWord(word, severity); err != nil {
		return err
	}
	e.recordLexiconSize()
	logger.WithComponent("engine").Info("toxic word added", "word", word, "severity", lexicon.ClampSeverity(severity))
	return nil
}

// AddPhrase inserts a toxic phrase. promote lists phrase words to mark as
// toxic first, with their severities; it may be nil.
func (e *Engine) AddPhrase(words []string, severity int, promote map[string]int) (lexicon.PhraseOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(promote) > 0 {
		added, err := e.lex.PromoteWords(promote)
		if err != nil {
			// words promoted before the failure stay in the dictionary
			e.recordLexiconSize()
			return lexicon.PhraseOutcome{}, fmt.Errorf("promote phrase words: %w", err)
		}
		if len(added) > 0 {
			logger.WithComponent("engine").Info("phrase words marked toxic", "words", added)
		}
	}

	out, err := e.lex.InsertPhrase(words, severity)
	e.recordLexiconSize()
	if err != nil {
		return out, err
	}

	log := logger.WithComponent("engine")
	if out.Stored {
		log.Info("toxic phrase added", "phrase", out.Text, "kind", out.Kind.String(), "severity", out.Severity)
	} else {
		log.Info("phrase not stored, its single toxic word already detects it",
			"phrase", out.Text, "toxic_words", out.ToxicWords)
	}
	return out, nil
}

// RemoveEntry deletes a toxic word or, failing that, a phrase.
func (e *Engine) RemoveEntry(text string) (lexicon.EntryKind, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kind, err := e.lex.Remove(text)
	if err != nil {
		return 0, err
	}
	e.recordLexiconSize()
	logger.WithComponent("engine").Info("dictionary entry removed", "text", text, "kind", kind.String())
	return kind, nil
}

// SaveLexicon writes the dictionary to path.
func (e *Engine) SaveLexicon(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lex.Save(path)
}

// WriteFiltered writes the filtered stream one token per line, after a header
// naming the document and whether variants were expanded.
func (e *Engine) WriteFiltered(w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return ErrNoDocument
	}
	state := "disabled"
	if e.pipeline.VariantExpansion() {
		state = "enabled"
	}
	if _, err := fmt.Fprintf(w, "# SourceFile: %s\n# TextNormalisation: %s\n", e.doc.capture.Name, state); err != nil {
		return fmt.Errorf("write filtered words: %w", err)
	}
	for _, tok := range e.doc.result.Filtered {
		if _, err := fmt.Fprintln(w, tok); err != nil {
			return fmt.Errorf("write filtered words: %w", err)
		}
	}
	return nil
}
