package markdown

import (
	"strings"
	"testing"
)

func TestFrontmatterDecoded(t *testing.T) {
	src := "---\ntitle: My Notes\ntags:\n  - go\n  - tui\ncustom: 42\n---\n# Body\n"
	doc := Parse(src)

	// Typed fields
	if doc.Meta.Title != "My Notes" {
		t.Errorf("title = %q", doc.Meta.Title)
	}
	if len(doc.Meta.Tags) != 2 || doc.Meta.Tags[0] != "go" {
		t.Errorf("tags = %v", doc.Meta.Tags)
	}

	// Raw map keeps unknown keys
	if _, ok := doc.Meta.Raw["custom"]; !ok {
		t.Error("raw map missing custom key")
	}

	// Frontmatter is stripped from the body
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Blocks))
	}
	if _, ok := doc.Blocks[0].(Heading); !ok {
		t.Errorf("body block = %T, want Heading", doc.Blocks[0])
	}
}

func TestFrontmatterAbsent(t *testing.T) {
	doc := Parse("# Just a doc\n")
	if doc.Meta.Title != "" || doc.Meta.Raw != nil {
		t.Errorf("meta = %+v, want empty", doc.Meta)
	}
}

func TestFrontmatterUnclosed(t *testing.T) {
	// Without a closing delimiter the opener is ordinary content.
	doc := Parse("---\ntitle: stray\n")
	if doc.Meta.Title != "" {
		t.Errorf("title = %q, want empty", doc.Meta.Title)
	}
	if len(doc.Blocks) == 0 {
		t.Fatal("body lost")
	}
	if _, ok := doc.Blocks[0].(ThematicBreak); !ok {
		t.Errorf("block = %T, want ThematicBreak", doc.Blocks[0])
	}
}

func TestFrontmatterInvalidYAML(t *testing.T) {
	src := "---\n: not yaml : [\n---\nbody text\n"
	doc := Parse(src)
	if len(doc.Notes) == 0 {
		t.Error("expected an informational note")
	}
	// The whole input is kept as content.
	var text strings.Builder
	for _, b := range doc.Blocks {
		if p, ok := b.(Paragraph); ok {
			text.WriteString(PlainText(p.Spans))
		}
	}
	if !strings.Contains(text.String(), "body text") {
		t.Errorf("body lost: %q", text.String())
	}
}

func TestFrontmatterEmpty(t *testing.T) {
	doc := Parse("---\n---\nbody\n")
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Blocks))
	}
	if got := PlainText(doc.Blocks[0].(Paragraph).Spans); got != "body" {
		t.Errorf("body = %q", got)
	}
}

func TestDocumentTitle(t *testing.T) {
	doc := Parse("---\ntitle: From Meta\n---\n# From Heading\n")
	if got := doc.Title(); got != "From Meta" {
		t.Errorf("title = %q, want frontmatter title", got)
	}

	doc = Parse("# From Heading\n\ntext\n")
	if got := doc.Title(); got != "From Heading" {
		t.Errorf("title = %q, want first heading", got)
	}

	doc = Parse("plain text only\n")
	if got := doc.Title(); got != "" {
		t.Errorf("title = %q, want empty", got)
	}
}
