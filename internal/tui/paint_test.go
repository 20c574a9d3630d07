package tui

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"

	"github.com/gerunddev/markwalk/internal/layout"
	"github.com/gerunddev/markwalk/internal/markdown"
	"github.com/gerunddev/markwalk/internal/search"
	"github.com/gerunddev/markwalk/styles"
)

func render(t *testing.T, src string, width int) []layout.Line {
	t.Helper()
	lines, err := layout.Layout(markdown.Parse(src), width)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	return lines
}

// Styles emit no escape sequences without a terminal, so painted output
// compares as plain text.
func TestPaintMatchesLineText(t *testing.T) {
	lines := render(t, "# Title\n\nbody text\n", 40)
	rows := strings.Split(Paint(lines, 40), "\n")
	if len(rows) != len(lines) {
		t.Fatalf("rows = %d, want %d", len(rows), len(lines))
	}
	for i, ln := range lines {
		if rows[i] != ln.Text() {
			t.Errorf("row %d = %q, want %q", i, rows[i], ln.Text())
		}
	}
}

func TestPaintClipsTruncatedCode(t *testing.T) {
	src := "```\n" + strings.Repeat("x", 50) + "\n```\n"
	lines := render(t, src, 20)

	var code layout.Line
	found := false
	for _, ln := range lines {
		if ln.Truncated {
			code = ln
			found = true
			break
		}
	}
	if !found {
		t.Fatal("no truncated line produced")
	}
	if w := code.Width(); w != 50 {
		t.Fatalf("stored width = %d, want the full 50", w)
	}

	var b strings.Builder
	paintLine(&b, code, nil, 20)
	if got, want := b.String(), strings.Repeat("x", 19)+"…"; got != want {
		t.Errorf("painted = %q, want %q", got, want)
	}
}

func TestPaintClipsWideRunes(t *testing.T) {
	src := "```\n" + strings.Repeat("語", 30) + "\n```\n"
	lines := render(t, src, 20)

	var code layout.Line
	for _, ln := range lines {
		if ln.Truncated {
			code = ln
			break
		}
	}
	var b strings.Builder
	paintLine(&b, code, nil, 20)
	// Nine double-width runes fit in the 19-column budget.
	if got, want := b.String(), strings.Repeat("語", 9)+"…"; got != want {
		t.Errorf("painted = %q, want %q", got, want)
	}
}

func TestPaintOverlayKeepsText(t *testing.T) {
	lines := render(t, "alpha beta gamma\n", 40)
	ovs := map[int][]overlay{
		0: {{start: 6, end: 10, style: styles.SearchMatchStyle}},
	}
	if got, want := paintLines(lines, ovs, 40), Paint(lines, 40); got != want {
		t.Errorf("overlay changed the text: %q != %q", got, want)
	}
}

func TestOverlayAt(t *testing.T) {
	ovs := []overlay{{start: 2, end: 5}, {start: 8, end: 9}}
	tests := []struct{ col, want int }{
		{0, -1}, {2, 0}, {4, 0}, {5, -1}, {8, 1}, {9, -1},
	}
	for _, tt := range tests {
		if got := overlayAt(ovs, tt.col); got != tt.want {
			t.Errorf("overlayAt(%d) = %d, want %d", tt.col, got, tt.want)
		}
	}
}

func TestPaintedRowsFitWidth(t *testing.T) {
	src := "# Wide 語彙 heading that wraps\n\n" +
		"A paragraph long enough to wrap across several rows at a " +
		"narrow width, with [a link](other.md) inside it.\n\n" +
		"> quoted text that also wraps around the margin\n\n" +
		"- first item with enough words to wrap\n" +
		"- second\n\n" +
		"```\n" + strings.Repeat("y", 60) + "\n```\n\n" +
		"| Name | Value |\n|---|---|\n| alpha | one |\n"
	const width = 24
	lines := render(t, src, width)

	ovs := map[int][]overlay{}
	for _, match := range search.Find(lines, "wrap") {
		ovs[match.Line] = append(ovs[match.Line], overlay{start: match.Start, end: match.End, style: styles.SearchMatchStyle})
	}
	for row, painted := range strings.Split(paintLines(lines, ovs, width), "\n") {
		if w := ansi.PrintableRuneWidth(painted); w > width {
			t.Errorf("row %d width = %d, exceeds %d: %q", row, w, width, painted)
		}
	}
}
