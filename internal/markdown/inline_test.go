package markdown

import (
	"reflect"
	"testing"
)

func spansOf(t *testing.T, src string) []Span {
	t.Helper()
	doc := Parse(src + "\n")
	if len(doc.Blocks) != 1 {
		t.Fatalf("%q: got %d blocks, want 1", src, len(doc.Blocks))
	}
	p, ok := doc.Blocks[0].(Paragraph)
	if !ok {
		t.Fatalf("%q: block = %T, want Paragraph", src, doc.Blocks[0])
	}
	return p.Spans
}

func TestInlineCodeSpan(t *testing.T) {
	spans := spansOf(t, "run `go build` now")
	want := []Span{
		Text{Text: "run "},
		Code{Text: "go build"},
		Text{Text: " now"},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %#v", spans)
	}
}

func TestInlineCodeBeatsStrong(t *testing.T) {
	// Markers inside a code span stay literal.
	spans := spansOf(t, "`**not bold**`")
	want := []Span{Code{Text: "**not bold**"}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %#v", spans)
	}
}

func TestInlineDoubleBacktick(t *testing.T) {
	spans := spansOf(t, "``has ` inside``")
	want := []Span{Code{Text: "has ` inside"}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %#v", spans)
	}
}

func TestInlineStrongAndEmphasis(t *testing.T) {
	spans := spansOf(t, "**bold** and *ital* and __also__ and _this_")
	want := []Span{
		Strong{Spans: []Span{Text{Text: "bold"}}},
		Text{Text: " and "},
		Emphasis{Spans: []Span{Text{Text: "ital"}}},
		Text{Text: " and "},
		Strong{Spans: []Span{Text{Text: "also"}}},
		Text{Text: " and "},
		Emphasis{Spans: []Span{Text{Text: "this"}}},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %#v", spans)
	}
}

func TestInlineNestedEmphasis(t *testing.T) {
	spans := spansOf(t, "**a *b* c**")
	want := []Span{
		Strong{Spans: []Span{
			Text{Text: "a "},
			Emphasis{Spans: []Span{Text{Text: "b"}}},
			Text{Text: " c"},
		}},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %#v", spans)
	}
}

func TestInlineUnmatchedMarkersAreLiteral(t *testing.T) {
	cases := []string{"*loose", "a ** b", "`unclosed", "[no target]", "![no target]"}
	for _, src := range cases {
		spans := spansOf(t, src)
		if got := PlainText(spans); got != src {
			t.Errorf("%q: plain = %q, want the input unchanged", src, got)
		}
		for _, s := range spans {
			if _, ok := s.(Text); !ok {
				t.Errorf("%q: span %T should be Text", src, s)
			}
		}
	}
}

func TestInlineEscapes(t *testing.T) {
	spans := spansOf(t, `\*not em\* and \[not link\]`)
	want := []Span{Text{Text: "*not em* and [not link]"}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %#v", spans)
	}
}

func TestInlineIntrawordUnderscore(t *testing.T) {
	spans := spansOf(t, "snake_case_name stays")
	if len(spans) != 1 {
		t.Fatalf("spans = %#v, want single text span", spans)
	}
	if got := PlainText(spans); got != "snake_case_name stays" {
		t.Errorf("plain = %q", got)
	}
}

func TestInlineLink(t *testing.T) {
	spans := spansOf(t, "go [home](index.md) now")
	want := []Span{
		Text{Text: "go "},
		Link{Spans: []Span{Text{Text: "home"}}, Target: "index.md"},
		Text{Text: " now"},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %#v", spans)
	}
}

func TestInlineLinkStyledDisplay(t *testing.T) {
	spans := spansOf(t, "[**bold** link](a.md)")
	lnk := spans[0].(Link)
	if lnk.Target != "a.md" {
		t.Errorf("target = %q", lnk.Target)
	}
	if _, ok := lnk.Spans[0].(Strong); !ok {
		t.Errorf("display span = %T, want Strong", lnk.Spans[0])
	}
}

func TestInlineLinkTitleDropped(t *testing.T) {
	spans := spansOf(t, `[x](doc.md "a title")`)
	lnk := spans[0].(Link)
	if lnk.Target != "doc.md" {
		t.Errorf("target = %q, want doc.md", lnk.Target)
	}
}

func TestInlineLinkAngleTarget(t *testing.T) {
	spans := spansOf(t, "[x](<my doc.md>)")
	lnk := spans[0].(Link)
	if lnk.Target != "my doc.md" {
		t.Errorf("target = %q, want %q", lnk.Target, "my doc.md")
	}
}

func TestInlineImage(t *testing.T) {
	spans := spansOf(t, "![diagram](fig.png)")
	img, ok := spans[0].(Image)
	if !ok {
		t.Fatalf("span = %T, want Image", spans[0])
	}
	if img.Alt != "diagram" || img.Target != "fig.png" {
		t.Errorf("image = %+v", img)
	}
}

func TestInlineAutolink(t *testing.T) {
	spans := spansOf(t, "see <https://example.com> ok")
	lnk, ok := spans[1].(Link)
	if !ok {
		t.Fatalf("span = %T, want Link", spans[1])
	}
	if lnk.Target != "https://example.com" {
		t.Errorf("target = %q", lnk.Target)
	}
	// Non-URL angle text stays literal.
	spans = spansOf(t, "a < b and <tag>")
	if got := PlainText(spans); got != "a < b and <tag>" {
		t.Errorf("plain = %q", got)
	}
}

func TestClassifyTarget(t *testing.T) {
	cases := []struct {
		target string
		want   TargetKind
	}{
		{"https://example.com", TargetExternal},
		{"mailto:a@b.c", TargetExternal},
		{"#setup", TargetAnchor},
		{"Some Heading", TargetAnchor},
		{"other.md", TargetFile},
		{"notes/deep.md", TargetFile},
		{"../up.md", TargetFile},
		{"image.png", TargetFile},
	}
	for _, c := range cases {
		if got := ClassifyTarget(c.target); got != c.want {
			t.Errorf("ClassifyTarget(%q) = %v, want %v", c.target, got, c.want)
		}
	}
}

func TestSplitTarget(t *testing.T) {
	path, frag := SplitTarget("notes/a.md#setup")
	if path != "notes/a.md" || frag != "setup" {
		t.Errorf("got %q %q", path, frag)
	}
	path, frag = SplitTarget("plain.md")
	if path != "plain.md" || frag != "" {
		t.Errorf("got %q %q", path, frag)
	}
}

func TestAnchorKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Getting  Started", "getting started"},
		{"  USAGE\tnotes ", "usage notes"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := AnchorKey(c.in); got != c.want {
			t.Errorf("AnchorKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
