package source

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenByExtension(t *testing.T) {
	tests := []struct {
		path string
		want Document
	}{
		{"a.html", HTMLFile{Path: "a.html"}},
		{"a.HTM", HTMLFile{Path: "a.HTM"}},
		{"a.jsonl", JSONLFile{Path: "a.jsonl"}},
		{"a.txt", TextFile{Path: "a.txt"}},
		{"README", TextFile{Path: "README"}},
	}
	for _, tt := range tests {
		if got := Open(tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Open(%q) = %#v, want %#v", tt.path, got, tt.want)
		}
	}
}

func TestTextFile(t *testing.T) {
	path := writeFile(t, "post.txt", "You are  an idiot.\nReally!")
	f := TextFile{Path: path}

	if f.Name() != "post.txt" {
		t.Errorf("Name() = %q", f.Name())
	}
	tokens, err := f.Original()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"You", "are", "an", "idiot.", "Really!"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Original() = %v, want %v", tokens, want)
	}
}

func TestTextFileMissing(t *testing.T) {
	if _, err := (TextFile{Path: "/nonexistent/file.txt"}).Text(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTokenListFile(t *testing.T) {
	path := writeFile(t, "filtered_words.txt", "# SourceFile: post.txt\n# TextNormalisation: enabled\nquick\n\nfox\n")
	tokens, err := TokenListFile{Path: path}.Original()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"quick", "fox"}; !reflect.DeepEqual(tokens, want) {
		t.Errorf("Original() = %v, want %v", tokens, want)
	}
}

func TestHTMLFile(t *testing.T) {
	page := `<html><head><title>Ignored</title><style>p{}</style></head>
<body><p>Hello <b>world</b></p><script>var x = "hidden";</script><div>Second block</div></body></html>`
	path := writeFile(t, "page.html", page)

	text, err := HTMLFile{Path: path}.Text()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(text, "hidden") || strings.Contains(text, "Ignored") {
		t.Errorf("script or head text leaked: %q", text)
	}
	if !strings.Contains(text, "Hello world") || !strings.Contains(text, "Second block") {
		t.Errorf("visible text missing: %q", text)
	}
}

func TestStripHTML(t *testing.T) {
	if got := StripHTML("<i>so</i> <b>rude</b>"); got != "so rude" {
		t.Errorf("StripHTML = %q, want %q", got, "so rude")
	}
}

func TestJSONLFile(t *testing.T) {
	content := `{"id":"1","title":"Hot take","text":"you <b>idiot</b>"}
not json
{"id":"2","text":"calm reply"}
`
	path := writeFile(t, "posts.jsonl", content)

	items, err := LoadItems(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2 (malformed line skipped)", len(items))
	}

	tokens, err := JSONLFile{Path: path}.Original()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Hot", "take.", "you", "idiot", "calm", "reply"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Original() = %v, want %v", tokens, want)
	}
}

func TestJSONLFileEmpty(t *testing.T) {
	path := writeFile(t, "empty.jsonl", "\n\n")
	if _, err := LoadItems(path); err == nil {
		t.Error("expected error for file without items")
	}
}
