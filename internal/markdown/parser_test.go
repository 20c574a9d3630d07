package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseHeadings(t *testing.T) {
	doc := Parse("# One\n## Two\n###### Six\n")
	want := []Block{
		Heading{Level: 1, Spans: []Span{Text{Text: "One"}}},
		Heading{Level: 2, Spans: []Span{Text{Text: "Two"}}},
		Heading{Level: 6, Spans: []Span{Text{Text: "Six"}}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Errorf("blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParseHeadingEdgeCases(t *testing.T) {
	// Seven hashes is a paragraph, as is a hash glued to text.
	doc := Parse("####### nope\n\n#nospace\n")
	for i, b := range doc.Blocks {
		if _, ok := b.(Paragraph); !ok {
			t.Errorf("block %d = %T, want Paragraph", i, b)
		}
	}

	// Closing sequences are decoration; a hash glued to text is content.
	doc = Parse("## title ##\n")
	h := doc.Blocks[0].(Heading)
	if got := PlainText(h.Spans); got != "title" {
		t.Errorf("heading text = %q, want %q", got, "title")
	}
	doc = Parse("# C#\n")
	h = doc.Blocks[0].(Heading)
	if got := PlainText(h.Spans); got != "C#" {
		t.Errorf("heading text = %q, want %q", got, "C#")
	}
}

func TestParseHeadingAndLinkParagraph(t *testing.T) {
	doc := Parse("# Title\n\nSee [link](other.md).\n")
	want := []Block{
		Heading{Level: 1, Spans: []Span{Text{Text: "Title"}}},
		Paragraph{Spans: []Span{
			Text{Text: "See "},
			Link{Spans: []Span{Text{Text: "link"}}, Target: "other.md"},
			Text{Text: "."},
		}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Errorf("blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParseParagraphJoining(t *testing.T) {
	doc := Parse("first line\nsecond line\n\nnext para\n")
	if len(doc.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(doc.Blocks))
	}
	p := doc.Blocks[0].(Paragraph)
	if got := PlainText(p.Spans); got != "first line second line" {
		t.Errorf("paragraph = %q", got)
	}
}

func TestParseCodeFence(t *testing.T) {
	doc := Parse("```go\nfunc main() {}\n\t// tab kept\n```\n")
	cb, ok := doc.Blocks[0].(CodeBlock)
	if !ok {
		t.Fatalf("block = %T, want CodeBlock", doc.Blocks[0])
	}
	if cb.Lang != "go" {
		t.Errorf("lang = %q, want go", cb.Lang)
	}
	if len(cb.Lines) != 2 || cb.Lines[0] != "func main() {}" {
		t.Errorf("lines = %q", cb.Lines)
	}
	if len(doc.Notes) != 0 {
		t.Errorf("unexpected notes: %v", doc.Notes)
	}
}

func TestParseCodeFenceUnclosed(t *testing.T) {
	doc := Parse("```\nno closing fence\n")
	cb := doc.Blocks[0].(CodeBlock)
	if len(cb.Lines) != 1 || cb.Lines[0] != "no closing fence" {
		t.Errorf("lines = %q", cb.Lines)
	}
	if len(doc.Notes) == 0 {
		t.Error("expected a parse note for the unclosed fence")
	}
}

func TestParseCodeFenceVerbatim(t *testing.T) {
	// Markdown markers inside a fence stay literal text.
	doc := Parse("```\n# not a heading\n- not a list\n```\n")
	cb := doc.Blocks[0].(CodeBlock)
	if len(cb.Lines) != 2 {
		t.Fatalf("lines = %q", cb.Lines)
	}
	if cb.Lines[0] != "# not a heading" {
		t.Errorf("line 0 = %q", cb.Lines[0])
	}
}

func TestParseTildeFence(t *testing.T) {
	doc := Parse("~~~\ncode with ``` inside\n~~~\n")
	cb := doc.Blocks[0].(CodeBlock)
	if len(cb.Lines) != 1 || cb.Lines[0] != "code with ``` inside" {
		t.Errorf("lines = %q", cb.Lines)
	}
}

func TestParseBlockQuote(t *testing.T) {
	doc := Parse("> outer\n>\n> > inner\n")
	bq, ok := doc.Blocks[0].(BlockQuote)
	if !ok {
		t.Fatalf("block = %T, want BlockQuote", doc.Blocks[0])
	}
	if len(bq.Blocks) != 2 {
		t.Fatalf("quote has %d blocks, want 2", len(bq.Blocks))
	}
	if _, ok := bq.Blocks[1].(BlockQuote); !ok {
		t.Errorf("nested block = %T, want BlockQuote", bq.Blocks[1])
	}
}

func TestParseQuoteWithList(t *testing.T) {
	doc := Parse("> - a\n> - b\n")
	bq := doc.Blocks[0].(BlockQuote)
	lst, ok := bq.Blocks[0].(List)
	if !ok {
		t.Fatalf("inner block = %T, want List", bq.Blocks[0])
	}
	if len(lst.Items) != 2 {
		t.Errorf("items = %d, want 2", len(lst.Items))
	}
}

func TestParseUnorderedList(t *testing.T) {
	doc := Parse("- a\n- b\n- c\n")
	lst := doc.Blocks[0].(List)
	if lst.Ordered || lst.Loose {
		t.Errorf("ordered=%v loose=%v, want tight unordered", lst.Ordered, lst.Loose)
	}
	if len(lst.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(lst.Items))
	}
	p := lst.Items[1][0].(Paragraph)
	if got := PlainText(p.Spans); got != "b" {
		t.Errorf("item 1 = %q", got)
	}
}

func TestParseOrderedListStart(t *testing.T) {
	doc := Parse("3. three\n4. four\n")
	lst := doc.Blocks[0].(List)
	if !lst.Ordered || lst.Start != 3 {
		t.Errorf("ordered=%v start=%d, want ordered start 3", lst.Ordered, lst.Start)
	}
}

func TestParseNestedList(t *testing.T) {
	doc := Parse("- top\n  - inner one\n  - inner two\n- next\n")
	lst := doc.Blocks[0].(List)
	if len(lst.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(lst.Items))
	}
	first := lst.Items[0]
	if len(first) != 2 {
		t.Fatalf("first item has %d blocks, want paragraph + list", len(first))
	}
	inner, ok := first[1].(List)
	if !ok {
		t.Fatalf("second block = %T, want List", first[1])
	}
	if len(inner.Items) != 2 {
		t.Errorf("inner items = %d, want 2", len(inner.Items))
	}
}

func TestParseLooseList(t *testing.T) {
	doc := Parse("- a\n\n- b\n")
	lst := doc.Blocks[0].(List)
	if !lst.Loose {
		t.Error("blank line between items should mark the list loose")
	}
	if len(lst.Items) != 2 {
		t.Errorf("items = %d, want 2", len(lst.Items))
	}
}

func TestParseListItemWithParagraphs(t *testing.T) {
	doc := Parse("- first\n\n  second\n")
	lst := doc.Blocks[0].(List)
	if len(lst.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(lst.Items))
	}
	if len(lst.Items[0]) != 2 {
		t.Errorf("item blocks = %d, want 2 paragraphs", len(lst.Items[0]))
	}
}

func TestParseMixedMarkersSplitLists(t *testing.T) {
	doc := Parse("- bullet\n1. number\n")
	if len(doc.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2 lists", len(doc.Blocks))
	}
	if lst := doc.Blocks[0].(List); lst.Ordered {
		t.Error("first list should be unordered")
	}
	if lst := doc.Blocks[1].(List); !lst.Ordered {
		t.Error("second list should be ordered")
	}
}

func TestParseThematicBreak(t *testing.T) {
	for _, src := range []string{"---\n", "***\n", "___\n", "- - -\n", "  ----\n"} {
		doc := Parse(src)
		if len(doc.Blocks) != 1 {
			t.Errorf("%q: blocks = %d, want 1", src, len(doc.Blocks))
			continue
		}
		if _, ok := doc.Blocks[0].(ThematicBreak); !ok {
			t.Errorf("%q parsed as %T, want ThematicBreak", src, doc.Blocks[0])
		}
	}
	// Two dashes are not a break.
	doc := Parse("--\n")
	if _, ok := doc.Blocks[0].(ThematicBreak); ok {
		t.Error("-- should not be a thematic break")
	}
}

func TestParseTable(t *testing.T) {
	doc := Parse("| Name | Qty |\n| :--- | ---: |\n| apples | 3 |\n| pears | 12 |\n")
	tbl, ok := doc.Blocks[0].(Table)
	if !ok {
		t.Fatalf("block = %T, want Table", doc.Blocks[0])
	}
	if len(tbl.Header) != 2 || len(tbl.Rows) != 2 {
		t.Fatalf("header=%d rows=%d", len(tbl.Header), len(tbl.Rows))
	}
	if tbl.Align[0] != AlignLeft || tbl.Align[1] != AlignRight {
		t.Errorf("align = %v", tbl.Align)
	}
	if got := PlainText(tbl.Rows[1][0]); got != "pears" {
		t.Errorf("cell = %q", got)
	}
}

func TestParseTableRaggedRows(t *testing.T) {
	doc := Parse("| a | b |\n| --- | --- |\n| only |\n| x | y | extra |\n")
	tbl := doc.Blocks[0].(Table)
	for i, row := range tbl.Rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d cells, want 2", i, len(row))
		}
	}
}

func TestParseTableEscapedPipe(t *testing.T) {
	doc := Parse("| a\\|b | c |\n| --- | --- |\n")
	tbl := doc.Blocks[0].(Table)
	if got := PlainText(tbl.Header[0]); got != "a|b" {
		t.Errorf("header cell = %q, want a|b", got)
	}
}

func TestParsePipeWithoutSeparatorIsParagraph(t *testing.T) {
	doc := Parse("a | b\nplain text\n")
	if _, ok := doc.Blocks[0].(Paragraph); !ok {
		t.Errorf("block = %T, want Paragraph", doc.Blocks[0])
	}
}

func TestParseHTMLBlock(t *testing.T) {
	doc := Parse("<div class=\"x\">\nraw content\n</div>\n\nafter\n")
	hb, ok := doc.Blocks[0].(HTMLBlock)
	if !ok {
		t.Fatalf("block = %T, want HTMLBlock", doc.Blocks[0])
	}
	if !strings.Contains(hb.Text, "raw content") {
		t.Errorf("text = %q", hb.Text)
	}
	if len(doc.Blocks) != 2 {
		t.Errorf("blocks = %d, want html + paragraph", len(doc.Blocks))
	}
}

func TestParseEmptyInput(t *testing.T) {
	doc := Parse("")
	if len(doc.Blocks) != 0 {
		t.Errorf("blocks = %d, want 0", len(doc.Blocks))
	}
	doc = Parse("\n\n\n")
	if len(doc.Blocks) != 0 {
		t.Errorf("blank input: blocks = %d, want 0", len(doc.Blocks))
	}
}

func TestParseCRLFInput(t *testing.T) {
	doc := Parse("# Title\r\n\r\ntext\r\n")
	if len(doc.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(doc.Blocks))
	}
	if _, ok := doc.Blocks[0].(Heading); !ok {
		t.Errorf("block = %T, want Heading", doc.Blocks[0])
	}
}

func TestParseNeverPanics(t *testing.T) {
	// Degenerate inputs must still produce a document.
	inputs := []string{
		"[", "![", "**", "```", ">", "- ", "|", "| --- |",
		"# ", "1. ", "* _ ` [ ] ( )", strings.Repeat("#", 100),
		"---\ntitle: broken", "\x00\x01\x02",
	}
	for _, in := range inputs {
		if doc := Parse(in); doc == nil {
			t.Errorf("Parse(%q) returned nil", in)
		}
	}
}
