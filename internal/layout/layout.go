// Package layout turns a parsed document into styled terminal lines.
//
// Layout is deterministic for a given document and width: it word-wraps
// inline content, indents nested lists and quotes, fits tables, and
// records link anchors as column ranges so the viewer can select and
// follow links on screen.
package layout

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gerunddev/markwalk/internal/apperr"
	"github.com/gerunddev/markwalk/internal/markdown"
)

// StyleKind names the visual role of a fragment.
type StyleKind uint8

const (
	KindText StyleKind = iota
	KindHeading
	KindCode
	KindCodeBlock
	KindLink
	KindImage
	KindQuote
	KindRule
	KindListMarker
	KindTableHeader
	KindTableBorder
)

// Style describes how a fragment should be painted. Level is only
// meaningful for headings.
type Style struct {
	Kind   StyleKind
	Level  int
	Bold   bool
	Italic bool
}

// Fragment is a run of text sharing one style within a line.
type Fragment struct {
	Text  string
	Style Style
}

// Anchor maps a column range of a line to a link target. End is
// exclusive. Anchors within a line never overlap.
type Anchor struct {
	Start  int
	End    int
	Target string
}

// Line is one terminal row of laid-out content. AnchorID is set on the
// first line of a heading and holds its normalized jump key. Truncated
// marks verbatim lines whose full text exceeds the viewport width.
type Line struct {
	Fragments []Fragment
	Anchors   []Anchor
	AnchorID  string
	Truncated bool
}

// Text returns the plain text of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, f := range l.Fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

// Width returns the display width of the line in columns.
func (l Line) Width() int {
	return runewidth.StringWidth(l.Text())
}

// AnchorRef locates one anchor within a laid-out document.
type AnchorRef struct {
	Line   int
	Anchor Anchor
}

// CollectAnchors lists every anchor in line order.
func CollectAnchors(lines []Line) []AnchorRef {
	var out []AnchorRef
	for i, ln := range lines {
		for _, a := range ln.Anchors {
			out = append(out, AnchorRef{Line: i, Anchor: a})
		}
	}
	return out
}

// FindAnchor resolves a heading reference to a line index. The reference
// may carry a leading # and is matched case-insensitively with collapsed
// whitespace; a dashed slug ("#my-heading") falls back to matching with
// dashes read as spaces.
func FindAnchor(lines []Line, anchor string) (int, bool) {
	key := markdown.AnchorKey(strings.TrimPrefix(anchor, "#"))
	if key == "" {
		return 0, false
	}
	for i, ln := range lines {
		if ln.AnchorID == key {
			return i, true
		}
	}
	alt := markdown.AnchorKey(strings.ReplaceAll(key, "-", " "))
	if alt == key {
		return 0, false
	}
	for i, ln := range lines {
		if ln.AnchorID == alt {
			return i, true
		}
	}
	return 0, false
}

// Layout renders doc against the given viewport width. It returns
// apperr.ErrInvalidViewport when width is not positive and otherwise
// always produces at least one line.
func Layout(doc *markdown.Document, width int) ([]Line, error) {
	if width <= 0 {
		return nil, apperr.ErrInvalidViewport
	}
	e := &emitter{width: width}
	for i, b := range doc.Blocks {
		if i > 0 {
			e.push(Line{})
		}
		e.block(b, prefix{})
	}
	if len(e.lines) == 0 {
		e.lines = append(e.lines, Line{})
	}
	return e.lines, nil
}

// prefix carries the fragments that open each emitted line: list markers
// and quote gutters. first applies to the next line only, rest to every
// line after it. Both always have the same display width.
type prefix struct {
	first []Fragment
	rest  []Fragment
}

func (p prefix) width() int {
	w := 0
	for _, f := range p.rest {
		w += runewidth.StringWidth(f.Text)
	}
	return w
}

// gutter appends a fragment to every line of the prefix.
func (p prefix) gutter(f Fragment) prefix {
	return prefix{first: appendFrag(p.first, f), rest: appendFrag(p.rest, f)}
}

// marker appends a fragment to the first line and matching padding to
// the rest, producing hanging indentation.
func (p prefix) marker(f Fragment) prefix {
	pad := Fragment{Text: strings.Repeat(" ", runewidth.StringWidth(f.Text))}
	return prefix{first: appendFrag(p.first, f), rest: appendFrag(p.rest, pad)}
}

// consumed returns the prefix after its first line has been emitted.
func (p prefix) consumed() prefix {
	return prefix{first: p.rest, rest: p.rest}
}

func appendFrag(fs []Fragment, f Fragment) []Fragment {
	out := make([]Fragment, 0, len(fs)+1)
	out = append(out, fs...)
	return append(out, f)
}

type emitter struct {
	width int
	lines []Line
}

// push appends a line, trimming trailing spaces. Verbatim code lines go
// through pushRaw instead so their content stays untouched.
func (e *emitter) push(ln Line) {
	for n := len(ln.Fragments); n > 0; n = len(ln.Fragments) {
		t := strings.TrimRight(ln.Fragments[n-1].Text, " ")
		if t != "" {
			ln.Fragments[n-1].Text = t
			break
		}
		ln.Fragments = ln.Fragments[:n-1]
	}
	e.lines = append(e.lines, ln)
}

func (e *emitter) pushRaw(ln Line) {
	e.lines = append(e.lines, ln)
}

// blank emits a separator line carrying only the surrounding gutters.
func (e *emitter) blank(pfx prefix) {
	e.push(Line{Fragments: append([]Fragment{}, pfx.rest...)})
}

func (e *emitter) block(b markdown.Block, pfx prefix) {
	switch b := b.(type) {
	case markdown.Heading:
		e.heading(b, pfx)
	case markdown.Paragraph:
		e.flow(flattenSpans(b.Spans, Style{}, ""), pfx, "")
	case markdown.List:
		e.list(b, pfx)
	case markdown.CodeBlock:
		e.code(b, pfx)
	case markdown.Table:
		e.table(b, pfx)
	case markdown.BlockQuote:
		e.quote(b, pfx)
	case markdown.ThematicBreak:
		e.rule(pfx)
	case markdown.HTMLBlock:
		e.html(b, pfx)
	}
}

// flow wraps inline pieces into lines under the current prefix. The
// first emitted line gets anchorID when the block is a heading.
func (e *emitter) flow(pieces []piece, pfx prefix, anchorID string) {
	rows := wrapPieces(pieces, e.width-pfx.width())
	lead := pfx.first
	for i, row := range rows {
		frags := append([]Fragment{}, lead...)
		frags = append(frags, mergeFragments(row)...)
		ln := Line{Fragments: frags, Anchors: lineAnchors(pfx.width(), row)}
		if i == 0 {
			ln.AnchorID = anchorID
		}
		e.push(ln)
		lead = pfx.rest
	}
}

func (e *emitter) heading(h markdown.Heading, pfx prefix) {
	st := Style{Kind: KindHeading, Level: h.Level}
	id := markdown.AnchorKey(markdown.PlainText(h.Spans))
	e.flow(flattenSpans(h.Spans, st, ""), pfx, id)
}

func (e *emitter) list(l markdown.List, pfx prefix) {
	n := l.Start
	for i, item := range l.Items {
		if i > 0 {
			if l.Loose {
				e.blank(pfx)
			}
			pfx = pfx.consumed()
		}
		marker := "• "
		if l.Ordered {
			marker = strconv.Itoa(n) + ". "
			n++
		}
		ipfx := pfx.marker(Fragment{Text: marker, Style: Style{Kind: KindListMarker}})
		for j, b := range item {
			if j > 0 {
				if l.Loose {
					e.blank(ipfx)
				}
				ipfx = ipfx.consumed()
			}
			e.block(b, ipfx)
		}
	}
}

func (e *emitter) quote(q markdown.BlockQuote, pfx prefix) {
	qp := pfx.gutter(Fragment{Text: "│ ", Style: Style{Kind: KindQuote}})
	for i, b := range q.Blocks {
		if i > 0 {
			e.blank(qp)
			qp = qp.consumed()
		}
		e.block(b, qp)
	}
}

// code emits each source line verbatim. Lines wider than the viewport
// are flagged truncated rather than reflowed; the painter clips them and
// the full text stays available for horizontal scrolling.
func (e *emitter) code(c markdown.CodeBlock, pfx prefix) {
	avail := e.width - pfx.width()
	st := Style{Kind: KindCodeBlock}
	lead := pfx.first
	for _, src := range c.Lines {
		frags := append([]Fragment{}, lead...)
		if src != "" {
			frags = append(frags, Fragment{Text: src, Style: st})
		}
		e.pushRaw(Line{Fragments: frags, Truncated: runewidth.StringWidth(src) > avail})
		lead = pfx.rest
	}
}

func (e *emitter) rule(pfx prefix) {
	w := e.width - pfx.width()
	if w < 1 {
		w = 1
	}
	frags := append([]Fragment{}, pfx.first...)
	frags = append(frags, Fragment{Text: strings.Repeat("─", w), Style: Style{Kind: KindRule}})
	e.push(Line{Fragments: frags})
}

// html passes raw lines through as literal wrapped text with no inline
// interpretation.
func (e *emitter) html(b markdown.HTMLBlock, pfx prefix) {
	for i, src := range strings.Split(b.Text, "\n") {
		if i > 0 {
			pfx = pfx.consumed()
		}
		e.flow([]piece{{text: src, style: Style{}}}, pfx, "")
	}
}
