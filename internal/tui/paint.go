package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gerunddev/markwalk/internal/layout"
	"github.com/gerunddev/markwalk/styles"
)

// overlay repaints a column range of one line, replacing the markdown
// styling with a highlight. Overlays on a line never overlap.
type overlay struct {
	start int
	end   int
	style lipgloss.Style
}

// cell is a single terminal cell of a line before styling.
type cell struct {
	r     rune
	col   int
	width int
	style layout.Style
}

// Paint renders laid-out lines as styled terminal text, one row per
// line.
func Paint(lines []layout.Line, width int) string {
	return paintLines(lines, nil, width)
}

func paintLines(lines []layout.Line, ovs map[int][]overlay, limit int) string {
	var b strings.Builder
	for i, ln := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		paintLine(&b, ln, ovs[i], limit)
	}
	return b.String()
}

// paintLine writes one styled row. Lines flagged as truncated keep
// their full text in the fragments; they are clipped here with a dim
// ellipsis marking the cut.
func paintLine(b *strings.Builder, ln layout.Line, ovs []overlay, limit int) {
	cells := lineCells(ln)
	if ln.Truncated {
		budget := limit - 1
		if budget < 0 {
			budget = 0
		}
		n := 0
		for n < len(cells) && cells[n].col+cells[n].width <= budget {
			n++
		}
		cells = cells[:n]
	}
	for i := 0; i < len(cells); {
		ov := overlayAt(ovs, cells[i].col)
		j := i + 1
		for j < len(cells) && cells[j].style == cells[i].style && overlayAt(ovs, cells[j].col) == ov {
			j++
		}
		var run strings.Builder
		for _, c := range cells[i:j] {
			run.WriteRune(c.r)
		}
		if ov >= 0 {
			b.WriteString(ovs[ov].style.Render(run.String()))
		} else {
			b.WriteString(styles.For(cells[i].style).Render(run.String()))
		}
		i = j
	}
	if ln.Truncated {
		b.WriteString(styles.DimStyle.Render("…"))
	}
}

func lineCells(ln layout.Line) []cell {
	var out []cell
	col := 0
	for _, f := range ln.Fragments {
		for _, r := range f.Text {
			w := runewidth.RuneWidth(r)
			out = append(out, cell{r: r, col: col, width: w, style: f.Style})
			col += w
		}
	}
	return out
}

// overlayAt returns the index of the overlay covering the column, or -1.
func overlayAt(ovs []overlay, col int) int {
	for i, ov := range ovs {
		if col >= ov.start && col < ov.end {
			return i
		}
	}
	return -1
}

// repaint pushes the current lines through the painter into the
// viewport.
func (m *viewerModel) repaint() {
	m.vp.SetContent(paintLines(m.lines, m.overlays(), m.laidWidth))
}

// overlays assembles the highlight ranges for the active mode.
func (m *viewerModel) overlays() map[int][]overlay {
	switch m.mode {
	case modeLinkSelect:
		if m.selected >= len(m.anchors) {
			return nil
		}
		ref := m.anchors[m.selected]
		return map[int][]overlay{
			ref.Line: {{start: ref.Anchor.Start, end: ref.Anchor.End, style: styles.SelectedLinkStyle}},
		}
	case modeSearchResults:
		ovs := make(map[int][]overlay, len(m.matches))
		for i, match := range m.matches {
			st := styles.SearchMatchStyle
			if i == m.current {
				st = styles.ActiveMatchStyle
			}
			ovs[match.Line] = append(ovs[match.Line], overlay{start: match.Start, end: match.End, style: st})
		}
		return ovs
	}
	return nil
}
