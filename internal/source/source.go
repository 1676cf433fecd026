// Package source reads documents from disk for the analysis engine.
package source

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is a source that can hand over its full text.
type Document interface {
	Name() string
	Original() ([]string, error)
	Text() (string, error)
}

// Open picks a reader by file extension:
// .html/.htm → HTMLFile, .jsonl → JSONLFile, anything else → TextFile.
func Open(path string) Document {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return HTMLFile{Path: path}
	case ".jsonl":
		return JSONLFile{Path: path}
	default:
		return TextFile{Path: path}
	}
}

// TextFile is a plain text document.
type TextFile struct {
	Path string
}

func (f TextFile) Name() string { return filepath.Base(f.Path) }

// Text returns the file contents.
func (f TextFile) Text() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", f.Path, err)
	}
	return string(data), nil
}

// Original splits the text on whitespace; the engine cleans the pieces.
func (f TextFile) Original() ([]string, error) {
	text, err := f.Text()
	if err != nil {
		return nil, err
	}
	return strings.Fields(text), nil
}

// TokenListFile is a saved word list: one token per line, "#" lines skipped.
// It has no text, so sentence statistics stay empty.
type TokenListFile struct {
	Path string
}

func (f TokenListFile) Name() string { return filepath.Base(f.Path) }

// Original returns the listed tokens in file order.
func (f TokenListFile) Original() ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open token list %s: %w", f.Path, err)
	}
	defer file.Close()

	var tokens []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read token list %s: %w", f.Path, err)
	}
	return tokens, nil
}
