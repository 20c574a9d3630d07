package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/markwalk/internal/markdown"
)

// renderDiff formats a want/got mismatch as a unified diff so a failing
// layout change is readable at a glance.
func renderDiff(want, got string) string {
	edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
	return fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
}

func TestLayoutWholeDocument(t *testing.T) {
	src := `# Markwalk

Plain text that stays on one line.

## Features

- fast startup
- styled output

> quoted words

| Key | Value |
| --- | ----- |
| a   | 1     |

---

Done.
`
	want := []string{
		"Markwalk",
		"",
		"Plain text that stays on one line.",
		"",
		"Features",
		"",
		"• fast startup",
		"• styled output",
		"",
		"│ quoted words",
		"",
		"Key │ Value",
		"────┼──────",
		"a   │ 1",
		"",
		strings.Repeat("─", 40),
		"",
		"Done.",
	}

	lines, err := Layout(markdown.Parse(src), 40)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	var b strings.Builder
	for i, ln := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(ln.Text())
	}
	if got, wantText := b.String(), strings.Join(want, "\n"); got != wantText {
		t.Errorf("rendered document differs:\n%s", renderDiff(wantText, got))
	}
}
