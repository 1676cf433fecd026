package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/toxiscan/pkg/toxiscan/logger"
)

// Item is one post or comment in a JSONL export.
type Item struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Title  string `json:"title"`
	Body   string `json:"text"`
}

// JSONLFile is a JSONL export of posts analysed as one document.
type JSONLFile struct {
	Path string
}

func (f JSONLFile) Name() string { return filepath.Base(f.Path) }

// LoadItems loads items from a JSONL file, skipping malformed lines.
func LoadItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			logger.WithComponent("source").Warn("skipping malformed JSON line",
				"path", path, "line", i+1, "error", err)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return items, nil
}

// Text joins every title and body, one item per paragraph. HTML markup in
// bodies is stripped.
func (f JSONLFile) Text() (string, error) {
	items, err := LoadItems(f.Path)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, it := range items {
		if it.Title != "" {
			b.WriteString(it.Title)
			b.WriteString(".\n")
		}
		if it.Body != "" {
			b.WriteString(StripHTML(it.Body))
			b.WriteString("\n\n")
		}
	}
	return b.String(), nil
}

// Original splits the joined text on whitespace.
func (f JSONLFile) Original() ([]string, error) {
	text, err := f.Text()
	if err != nil {
		return nil, err
	}
	return strings.Fields(text), nil
}
