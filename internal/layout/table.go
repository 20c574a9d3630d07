package layout

import (
	"strings"

	"github.com/gerunddev/markwalk/internal/markdown"
)

// table lays out a pipe table: columns sized to their widest cell, then
// shrunk widest-first until the row fits the viewport. Cells that lose
// the fit are cut with an ellipsis. A table that cannot fit even at
// minimum column widths is emitted anyway with its lines flagged
// truncated.
func (e *emitter) table(t markdown.Table, pfx prefix) {
	cols := len(t.Header)
	if cols == 0 {
		return
	}
	widths := make([]int, cols)
	measure := func(cells []markdown.Cell) {
		for i, c := range cells {
			if i >= cols {
				break
			}
			if w := piecesWidth(flattenSpans(c, Style{}, "")); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}
	for i := range widths {
		if widths[i] < 1 {
			widths[i] = 1
		}
	}

	avail := e.width - pfx.width()
	fitColumns(widths, avail)
	over := tableWidth(widths) > avail

	e.tableRow(t.Header, t.Align, widths, Style{Kind: KindTableHeader}, pfx, over)
	cpfx := pfx.consumed()
	e.tableSep(widths, cpfx, over)
	for _, row := range t.Rows {
		e.tableRow(row, t.Align, widths, Style{}, cpfx, over)
	}
}

func tableWidth(widths []int) int {
	total := 3 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	return total
}

// fitColumns narrows the widest column (leftmost on ties) one column at
// a time until the table fits avail or every column is at minimum width.
func fitColumns(widths []int, avail int) {
	for tableWidth(widths) > avail {
		wi := 0
		for i, w := range widths {
			if w > widths[wi] {
				wi = i
			}
		}
		if widths[wi] <= 1 {
			return
		}
		widths[wi]--
	}
}

func (e *emitter) tableRow(cells []markdown.Cell, align []markdown.Alignment, widths []int, base Style, pfx prefix, over bool) {
	row := prefixPieces(pfx.first)
	for i, w := range widths {
		if i > 0 {
			row = append(row, piece{text: " │ ", style: Style{Kind: KindTableBorder}})
		}
		var cell markdown.Cell
		if i < len(cells) {
			cell = cells[i]
		}
		a := markdown.AlignDefault
		if i < len(align) {
			a = align[i]
		}
		row = append(row, fitCell(flattenSpans(cell, base, ""), w, a, base)...)
	}
	e.push(Line{Fragments: mergeFragments(row), Anchors: lineAnchors(0, row), Truncated: over})
}

func (e *emitter) tableSep(widths []int, pfx prefix, over bool) {
	var b strings.Builder
	for i, w := range widths {
		if i > 0 {
			b.WriteString("─┼─")
		}
		b.WriteString(strings.Repeat("─", w))
	}
	row := append(prefixPieces(pfx.first), piece{text: b.String(), style: Style{Kind: KindTableBorder}})
	e.push(Line{Fragments: mergeFragments(row), Truncated: over})
}

// fitCell pads or cuts cell content to exactly w columns, honoring the
// column alignment.
func fitCell(pieces []piece, w int, align markdown.Alignment, base Style) []piece {
	cw := piecesWidth(pieces)
	if cw > w {
		if w <= 1 {
			pieces = []piece{{text: "…", style: base}}
		} else {
			head, _ := chop(pieces, w-1)
			pieces = append(head, piece{text: "…", style: base})
		}
		cw = piecesWidth(pieces)
	}
	pad := w - cw
	if pad <= 0 {
		return pieces
	}
	switch align {
	case markdown.AlignRight:
		return append([]piece{{text: strings.Repeat(" ", pad), style: base}}, pieces...)
	case markdown.AlignCenter:
		left := pad / 2
		out := make([]piece, 0, len(pieces)+2)
		if left > 0 {
			out = append(out, piece{text: strings.Repeat(" ", left), style: base})
		}
		out = append(out, pieces...)
		return append(out, piece{text: strings.Repeat(" ", pad-left), style: base})
	default:
		return append(pieces, piece{text: strings.Repeat(" ", pad), style: base})
	}
}

func prefixPieces(fs []Fragment) []piece {
	out := make([]piece, 0, len(fs))
	for _, f := range fs {
		out = append(out, piece{text: f.Text, style: f.Style})
	}
	return out
}
