package markdown

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta is the decoded YAML frontmatter of a document. Raw holds every key
// for callers that want fields beyond the typed ones.
type Meta struct {
	Title string         `yaml:"title"`
	Tags  []string       `yaml:"tags"`
	Raw   map[string]any `yaml:"-"`
}

// splitFrontmatter separates a leading YAML block between "---" delimiter
// lines from the document body. Missing frontmatter returns the input
// unchanged; invalid YAML degrades to body text plus an informational note.
func splitFrontmatter(raw string) (Meta, string, string) {
	var meta Meta
	norm := strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.HasPrefix(norm, "---\n") {
		return meta, raw, ""
	}
	rest := norm[len("---\n"):]

	var block, body string
	switch {
	case strings.HasPrefix(rest, "---\n"):
		return meta, rest[len("---\n"):], ""
	case rest == "---":
		return meta, "", ""
	default:
		i := strings.Index(rest, "\n---\n")
		if i >= 0 {
			block = rest[:i]
			body = rest[i+len("\n---\n"):]
		} else if strings.HasSuffix(rest, "\n---") {
			block = rest[:len(rest)-len("\n---")]
		} else {
			// Never closed: not frontmatter at all.
			return meta, raw, ""
		}
	}

	var rawMap map[string]any
	if err := yaml.Unmarshal([]byte(block), &rawMap); err != nil {
		return Meta{}, raw, "frontmatter is not valid YAML, kept as content"
	}
	note := ""
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		// Type mismatches on the known fields; keep what decoded.
		note = "frontmatter has unexpected field types"
	}
	meta.Raw = rawMap
	return meta, body, note
}

// Title returns the document's display title: the frontmatter title when
// present, otherwise the text of the first level-1 heading.
func (d *Document) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	for _, b := range d.Blocks {
		if h, ok := b.(Heading); ok && h.Level == 1 {
			return PlainText(h.Spans)
		}
	}
	return ""
}
