package markdown

import (
	"strconv"
	"strings"
)

// Format renders a Document back to canonical Markdown: ATX headings, "-"
// bullets, backtick fences, "> " quotes, aligned pipe tables. Formatting
// then reparsing yields the same block and span structure, though not
// necessarily the same bytes as the original source.
func Format(doc *Document) string {
	lines := formatBlocks(doc.Blocks, true)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// formatBlocks renders a block sequence to lines. When spaced, every pair
// of blocks gets a blank line between them; otherwise blanks appear only
// where reparsing would merge neighbors (tight list items stay tight).
func formatBlocks(blocks []Block, spaced bool) []string {
	var lines []string
	for i, blk := range blocks {
		if i > 0 && (spaced || needsBlank(blocks[i-1], blk)) {
			lines = append(lines, "")
		}
		lines = append(lines, formatBlock(blk)...)
	}
	return lines
}

func needsBlank(prev, cur Block) bool {
	if _, ok := prev.(HTMLBlock); ok {
		return true
	}
	_, p := prev.(Paragraph)
	_, c := cur.(Paragraph)
	return p && c
}

func formatBlock(b Block) []string {
	switch b := b.(type) {
	case Heading:
		text := formatSpans(b.Spans, false)
		if strings.HasSuffix(text, "#") {
			// A bare trailing hash would be trimmed as a closing sequence.
			text = text[:len(text)-1] + "\\#"
		}
		return []string{strings.Repeat("#", b.Level) + " " + text}
	case Paragraph:
		return []string{paragraphGuard(formatSpans(b.Spans, false))}
	case CodeBlock:
		fence := codeFence(b.Lines)
		open := fence + b.Lang
		out := append([]string{open}, b.Lines...)
		return append(out, fence)
	case BlockQuote:
		inner := formatBlocks(b.Blocks, true)
		out := make([]string, len(inner))
		for i, ln := range inner {
			if ln == "" {
				out[i] = ">"
			} else {
				out[i] = "> " + ln
			}
		}
		return out
	case ThematicBreak:
		return []string{"---"}
	case HTMLBlock:
		return strings.Split(b.Text, "\n")
	case List:
		return formatList(b)
	case Table:
		return formatTable(b)
	}
	return nil
}

func formatList(l List) []string {
	var out []string
	num := l.Start
	for idx, item := range l.Items {
		if idx > 0 && l.Loose {
			out = append(out, "")
		}
		marker := "- "
		if l.Ordered {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		indent := strings.Repeat(" ", len(marker))
		inner := formatBlocks(item, l.Loose)
		if len(inner) == 0 {
			out = append(out, marker)
			continue
		}
		for i, ln := range inner {
			switch {
			case i == 0:
				out = append(out, marker+ln)
			case ln == "":
				out = append(out, "")
			default:
				out = append(out, indent+ln)
			}
		}
	}
	return out
}

func formatTable(t Table) []string {
	ncol := len(t.Header)
	render := func(row []Cell) []string {
		out := make([]string, ncol)
		for i := range out {
			if i < len(row) {
				out[i] = formatSpans(row[i], true)
			}
		}
		return out
	}
	header := render(t.Header)

	widths := make([]int, ncol)
	for i, h := range header {
		widths[i] = len(h)
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	body := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		body[r] = render(row)
		for i, c := range body[r] {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString("|")
		for i, c := range cells {
			b.WriteString(" ")
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", widths[i]-len(c)))
			b.WriteString(" |")
		}
		return b.String()
	}

	sep := make([]string, ncol)
	for i := 0; i < ncol; i++ {
		dashes := widths[i]
		a := AlignDefault
		if i < len(t.Align) {
			a = t.Align[i]
		}
		switch a {
		case AlignCenter:
			sep[i] = ":" + strings.Repeat("-", dashes-2) + ":"
		case AlignRight:
			sep[i] = strings.Repeat("-", dashes-1) + ":"
		case AlignLeft:
			sep[i] = ":" + strings.Repeat("-", dashes-1)
		default:
			sep[i] = strings.Repeat("-", dashes)
		}
	}

	out := []string{line(header), line(sep)}
	for _, row := range body {
		out = append(out, line(row))
	}
	return out
}

func formatSpans(spans []Span, inTable bool) string {
	var b strings.Builder
	for i, s := range spans {
		piece := renderSpan(s, inTable)
		// "hey!" before a link would reparse as an image marker.
		if t, ok := s.(Text); ok && strings.HasSuffix(t.Text, "!") && i+1 < len(spans) {
			if _, isLink := spans[i+1].(Link); isLink {
				piece = piece[:len(piece)-1] + "\\!"
			}
		}
		b.WriteString(piece)
	}
	return b.String()
}

func renderSpan(s Span, inTable bool) string {
	switch s := s.(type) {
	case Text:
		return escapeText(s.Text, inTable)
	case Emphasis:
		return "*" + formatSpans(s.Spans, inTable) + "*"
	case Strong:
		return "**" + formatSpans(s.Spans, inTable) + "**"
	case Code:
		ticks := strings.Repeat("`", maxBacktickRun(s.Text)+1)
		return ticks + s.Text + ticks
	case Link:
		return "[" + formatSpans(s.Spans, inTable) + "](" + s.Target + ")"
	case Image:
		return "![" + escapeText(s.Alt, inTable) + "](" + s.Target + ")"
	}
	return ""
}

// escapeText backslash-escapes the characters the inline scanner treats as
// markers, so literal text survives a reparse.
func escapeText(s string, inTable bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '`', '*', '_', '[', ']':
			b.WriteByte('\\')
		case '|':
			if inTable {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// paragraphGuard escapes a leading character that would reclassify the
// paragraph as another block on reparse.
func paragraphGuard(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '#', '>':
		return "\\" + line
	case '-', '+':
		if len(line) == 1 || line[1] == ' ' || thematicBreakLine(line) {
			return "\\" + line
		}
	case '~':
		if strings.HasPrefix(line, "~~~") {
			return "\\" + line
		}
	}
	if thematicBreakLine(line) {
		return "\\" + line
	}
	// Ordered-list lookalikes: escape the dot in "12. x".
	d := 0
	for d < len(line) && line[d] >= '0' && line[d] <= '9' {
		d++
	}
	if d > 0 && d < len(line) && (line[d] == '.' || line[d] == ')') &&
		d+1 < len(line) && line[d+1] == ' ' {
		return line[:d] + "\\" + line[d:]
	}
	return line
}

// codeFence picks a backtick fence longer than any run inside the content.
func codeFence(lines []string) string {
	n := 3
	for _, ln := range lines {
		run := 0
		for i := 0; i < len(ln); i++ {
			if ln[i] == '`' {
				run++
				if run >= n {
					n = run + 1
				}
			} else {
				run = 0
			}
		}
	}
	return strings.Repeat("`", n)
}

func maxBacktickRun(s string) int {
	best, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == '`' {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}
