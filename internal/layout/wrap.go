package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/gerunddev/markwalk/internal/markdown"
)

// piece is a styled run of text before line assembly. Pieces that came
// from a link keep the link target so anchors survive wrapping.
type piece struct {
	text   string
	style  Style
	target string
}

func piecesWidth(pieces []piece) int {
	w := 0
	for _, p := range pieces {
		w += runewidth.StringWidth(p.text)
	}
	return w
}

// flattenSpans walks an inline span tree into a flat piece sequence,
// combining the base style with emphasis and link context on the way down.
func flattenSpans(spans []markdown.Span, base Style, target string) []piece {
	var out []piece
	for _, s := range spans {
		switch s := s.(type) {
		case markdown.Text:
			if s.Text != "" {
				out = append(out, piece{text: s.Text, style: base, target: target})
			}
		case markdown.Emphasis:
			st := base
			st.Italic = true
			out = append(out, flattenSpans(s.Spans, st, target)...)
		case markdown.Strong:
			st := base
			st.Bold = true
			out = append(out, flattenSpans(s.Spans, st, target)...)
		case markdown.Code:
			st := base
			st.Kind = KindCode
			if s.Text != "" {
				out = append(out, piece{text: s.Text, style: st, target: target})
			}
		case markdown.Link:
			st := base
			st.Kind = KindLink
			out = append(out, flattenSpans(s.Spans, st, s.Target)...)
		case markdown.Image:
			st := base
			st.Kind = KindImage
			alt := s.Alt
			if alt == "" {
				alt = s.Target
			}
			if alt != "" {
				out = append(out, piece{text: alt, style: st, target: s.Target})
			}
		}
	}
	return out
}

// token is a maximal run of spaces or non-spaces. A word that crosses
// piece boundaries ("link" followed by ".") stays one token so the wrap
// never splits it.
type token struct {
	pieces []piece
	width  int
	space  bool
}

func tokenize(pieces []piece) []token {
	var toks []token
	add := func(p piece, space bool) {
		if p.text == "" {
			return
		}
		w := runewidth.StringWidth(p.text)
		if n := len(toks); n > 0 && toks[n-1].space == space {
			toks[n-1].pieces = append(toks[n-1].pieces, p)
			toks[n-1].width += w
			return
		}
		toks = append(toks, token{pieces: []piece{p}, width: w, space: space})
	}
	for _, p := range pieces {
		start := 0
		inSpace := false
		for i, r := range p.text {
			sp := r == ' ' || r == '\t'
			if i == 0 {
				inSpace = sp
				continue
			}
			if sp != inSpace {
				add(piece{text: p.text[start:i], style: p.style, target: p.target}, inSpace)
				start = i
				inSpace = sp
			}
		}
		if start < len(p.text) {
			add(piece{text: p.text[start:], style: p.style, target: p.target}, inSpace)
		}
	}
	return toks
}

// wrapPieces greedily fills lines up to avail columns, breaking at word
// boundaries. Spaces at a break point are dropped; a word wider than the
// whole line is hard-broken as a last resort. Always returns at least one
// line so empty blocks still occupy a row.
func wrapPieces(pieces []piece, avail int) [][]piece {
	if avail < 1 {
		avail = 1
	}
	var lines [][]piece
	var cur, gap []piece
	curW, gapW := 0, 0
	flush := func() {
		lines = append(lines, cur)
		cur, gap = nil, nil
		curW, gapW = 0, 0
	}
	for _, t := range tokenize(pieces) {
		if t.space {
			if curW == 0 {
				continue
			}
			gap = append(gap, t.pieces...)
			gapW += t.width
			continue
		}
		if curW > 0 && curW+gapW+t.width > avail {
			flush()
		}
		if t.width > avail {
			rest := t.pieces
			w := t.width
			for w > avail {
				head, tail := chop(rest, avail)
				lines = append(lines, head)
				rest = tail
				w = piecesWidth(tail)
			}
			cur, curW = rest, w
			continue
		}
		if curW > 0 {
			cur = append(cur, gap...)
			curW += gapW
		}
		gap, gapW = nil, 0
		cur = append(cur, t.pieces...)
		curW += t.width
	}
	if curW > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// chop splits pieces at the last rune boundary that fits within limit
// columns. The head always receives at least one rune so callers make
// progress even when limit is smaller than the first rune.
func chop(pieces []piece, limit int) (head, tail []piece) {
	w := 0
	for i, p := range pieces {
		split := -1
		for j, r := range p.text {
			rw := runewidth.RuneWidth(r)
			if w+rw > limit && w > 0 {
				split = j
				break
			}
			w += rw
		}
		if split < 0 {
			head = append(head, p)
			continue
		}
		if split > 0 {
			head = append(head, piece{text: p.text[:split], style: p.style, target: p.target})
		}
		tail = append(tail, piece{text: p.text[split:], style: p.style, target: p.target})
		tail = append(tail, pieces[i+1:]...)
		return head, tail
	}
	return head, nil
}

// mergeFragments collapses adjacent pieces with identical styles into
// single fragments. Targets are dropped here; anchors carry them.
func mergeFragments(row []piece) []Fragment {
	var out []Fragment
	for _, p := range row {
		if p.text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == p.style {
			out[n-1].Text += p.text
			continue
		}
		out = append(out, Fragment{Text: p.text, Style: p.style})
	}
	return out
}

// lineAnchors derives link anchors for one assembled line. Contiguous
// pieces sharing a target merge into a single anchor, so a link whose
// display text contains spaces still maps to one column range.
func lineAnchors(offset int, row []piece) []Anchor {
	var out []Anchor
	col := offset
	for _, p := range row {
		w := runewidth.StringWidth(p.text)
		if w == 0 {
			continue
		}
		if p.target != "" {
			if n := len(out); n > 0 && out[n-1].Target == p.target && out[n-1].End == col {
				out[n-1].End = col + w
			} else {
				out = append(out, Anchor{Start: col, End: col + w, Target: p.target})
			}
		}
		col += w
	}
	return out
}
