// Package markdown parses Markdown text into a structured document tree.
//
// The parser is total: any text input produces a usable Document. Malformed
// constructs degrade to their most literal interpretation instead of failing,
// and anything unusual is recorded as an informational note on the Document.
package markdown

import "strings"

// Document is an ordered sequence of blocks plus the frontmatter metadata
// that preceded them. A Document is immutable once parsed; reloading a file
// produces a fresh one.
type Document struct {
	Blocks []Block
	Meta   Meta
	Notes  []string
}

// Block is one structural unit of a document: a heading, paragraph, list,
// code block, table, block quote, thematic break, or raw HTML.
type Block interface {
	isBlock()
}

// Heading is an ATX heading, level 1 through 6.
type Heading struct {
	Level int
	Spans []Span
}

// Paragraph is a run of inline text.
type Paragraph struct {
	Spans []Span
}

// List is an ordered or unordered list. Each item is a sequence of blocks,
// so items can hold paragraphs, nested lists, code, or quotes. Loose is set
// when the source separated items with blank lines.
type List struct {
	Ordered bool
	Start   int
	Loose   bool
	Items   [][]Block
}

// CodeBlock is a fenced code block. Lines are verbatim source lines with no
// inline parsing applied.
type CodeBlock struct {
	Lang  string
	Lines []string
}

// Alignment is a table column alignment taken from the separator row.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Cell is one table cell's inline content.
type Cell []Span

// Table is a pipe table: a header row, per-column alignment, and body rows.
// Every row is normalized to the header's column count.
type Table struct {
	Header []Cell
	Align  []Alignment
	Rows   [][]Cell
}

// BlockQuote holds the blocks of a quoted region.
type BlockQuote struct {
	Blocks []Block
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// HTMLBlock carries raw HTML (or any construct the parser does not model)
// through as literal text.
type HTMLBlock struct {
	Text string
}

func (Heading) isBlock()       {}
func (Paragraph) isBlock()     {}
func (List) isBlock()          {}
func (CodeBlock) isBlock()     {}
func (Table) isBlock()         {}
func (BlockQuote) isBlock()    {}
func (ThematicBreak) isBlock() {}
func (HTMLBlock) isBlock()     {}

// Span is one inline fragment: plain text, emphasis, strong, code, a link,
// or an image.
type Span interface {
	isSpan()
}

// Text is a run of plain characters.
type Text struct {
	Text string
}

// Emphasis wraps spans rendered in italics.
type Emphasis struct {
	Spans []Span
}

// Strong wraps spans rendered in bold.
type Strong struct {
	Spans []Span
}

// Code is an inline code span. Its content is literal and never reparsed.
type Code struct {
	Text string
}

// Link is a hyperlink with styled display text and a verbatim target.
type Link struct {
	Spans  []Span
	Target string
}

// Image is an image reference. Viewers render it as a link-like placeholder
// built from the alt text; the target is never fetched.
type Image struct {
	Alt    string
	Target string
}

func (Text) isSpan()     {}
func (Emphasis) isSpan() {}
func (Strong) isSpan()   {}
func (Code) isSpan()     {}
func (Link) isSpan()     {}
func (Image) isSpan()    {}

// PlainText flattens spans to their unstyled text content.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s := s.(type) {
		case Text:
			b.WriteString(s.Text)
		case Emphasis:
			b.WriteString(PlainText(s.Spans))
		case Strong:
			b.WriteString(PlainText(s.Spans))
		case Code:
			b.WriteString(s.Text)
		case Link:
			b.WriteString(PlainText(s.Spans))
		case Image:
			b.WriteString(s.Alt)
		}
	}
	return b.String()
}

// AnchorKey normalizes heading text for anchor matching: lowercased with
// whitespace runs collapsed to single spaces.
func AnchorKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TargetKind classifies where a link target points.
type TargetKind int

const (
	// TargetAnchor is an in-document heading reference.
	TargetAnchor TargetKind = iota
	// TargetFile is a local file path.
	TargetFile
	// TargetExternal is a URL the viewer does not navigate to.
	TargetExternal
)

// ClassifyTarget decides whether a link target is an in-document anchor, a
// local file path, or an external URL. A target with no scheme, no path
// separator, and no file extension is a bare heading reference.
func ClassifyTarget(target string) TargetKind {
	if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
		return TargetExternal
	}
	if strings.HasPrefix(target, "#") {
		return TargetAnchor
	}
	if !strings.ContainsAny(target, "/.") {
		return TargetAnchor
	}
	return TargetFile
}

// SplitTarget separates a file target into its path and optional in-file
// anchor fragment. "notes/a.md#setup" yields ("notes/a.md", "setup").
func SplitTarget(target string) (path, fragment string) {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}
