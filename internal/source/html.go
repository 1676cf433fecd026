package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// HTMLFile is an HTML document; only visible text is analysed.
type HTMLFile struct {
	Path string
}

func (f HTMLFile) Name() string { return filepath.Base(f.Path) }

// Text returns the visible text of the page.
func (f HTMLFile) Text() (string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("open html %s: %w", f.Path, err)
	}
	defer file.Close()

	doc, err := html.Parse(file)
	if err != nil {
		return "", fmt.Errorf("parse html %s: %w", f.Path, err)
	}
	return extractText(doc), nil
}

// Original splits the visible text on whitespace.
func (f HTMLFile) Original() ([]string, error) {
	text, err := f.Text()
	if err != nil {
		return nil, err
	}
	return strings.Fields(text), nil
}

// StripHTML returns the visible text of an HTML fragment, or s itself when
// it cannot be parsed.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	return extractText(doc)
}

// extractText joins text nodes, skipping script and style contents.
// Block elements end with a newline so sentences do not run together.
func extractText(root *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteByte('\n')
		}
	}
	walk(root)
	return strings.TrimSpace(buf.String())
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "section", "article":
		return true
	}
	return false
}
