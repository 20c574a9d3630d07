package markdown

import (
	"strconv"
	"strings"
)

// Parse converts raw Markdown text into a Document. It never fails: any
// input yields a Document, with unusual constructs degraded to literal text
// and recorded in Document.Notes.
func Parse(raw string) *Document {
	doc := &Document{}
	meta, body, note := splitFrontmatter(raw)
	doc.Meta = meta
	if note != "" {
		doc.Notes = append(doc.Notes, note)
	}
	p := &parser{}
	doc.Blocks = p.parse(splitLines(body))
	doc.Notes = append(doc.Notes, p.notes...)
	return doc
}

type parser struct {
	notes []string
}

func (p *parser) note(s string) {
	p.notes = append(p.notes, s)
}

// parse runs the block scan over a slice of lines. Nested block content
// (quote interiors, list items) is de-prefixed and fed back through parse,
// so nesting is handled by plain recursion.
func (p *parser) parse(lines []string) []Block {
	var blocks []Block
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		text := strings.Join(para, " ")
		blocks = append(blocks, Paragraph{Spans: parseInline(text)})
		para = nil
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			flush()
			i++
			continue
		}
		if level, text, ok := headingLine(line); ok {
			flush()
			blocks = append(blocks, Heading{Level: level, Spans: parseInline(text)})
			i++
			continue
		}
		// Break before list so "- - -" is a rule, not a bullet.
		if thematicBreakLine(line) {
			flush()
			blocks = append(blocks, ThematicBreak{})
			i++
			continue
		}
		if _, _, _, ok := fenceLine(line); ok {
			flush()
			cb, next := p.code(lines, i)
			blocks = append(blocks, cb)
			i = next
			continue
		}
		if quoteLine(line) {
			flush()
			bq, next := p.quote(lines, i)
			blocks = append(blocks, bq)
			i = next
			continue
		}
		if _, ok := listMarkerAt(line); ok {
			flush()
			lst, next := p.list(lines, i)
			blocks = append(blocks, lst)
			i = next
			continue
		}
		if tableStart(lines, i) {
			flush()
			tbl, next := p.table(lines, i)
			blocks = append(blocks, tbl)
			i = next
			continue
		}
		if htmlStart(line) {
			flush()
			html, next := htmlRun(lines, i)
			blocks = append(blocks, html)
			i = next
			continue
		}
		para = append(para, strings.TrimSpace(line))
		i++
	}
	flush()
	return blocks
}

// code consumes a fenced block starting at i. The content runs verbatim to
// the matching closing fence, or to end of input when the fence is never
// closed.
func (p *parser) code(lines []string, i int) (CodeBlock, int) {
	ch, n, info, _ := fenceLine(lines[i])
	cb := CodeBlock{}
	if fields := strings.Fields(info); len(fields) > 0 {
		cb.Lang = fields[0]
	}
	i++
	for i < len(lines) {
		if c, cn, rest, ok := fenceLine(lines[i]); ok && c == ch && cn >= n && rest == "" {
			return cb, i + 1
		}
		cb.Lines = append(cb.Lines, lines[i])
		i++
	}
	p.note("code fence not closed before end of input")
	return cb, i
}

// quote consumes the contiguous run of ">"-prefixed lines starting at i and
// re-scans the de-prefixed content.
func (p *parser) quote(lines []string, i int) (BlockQuote, int) {
	var inner []string
	for i < len(lines) && quoteLine(lines[i]) {
		inner = append(inner, stripQuote(lines[i]))
		i++
	}
	return BlockQuote{Blocks: p.parse(inner)}, i
}

// list consumes a run of list items sharing the first marker's indent and
// orderedness. Item content is de-indented to the marker's content column
// and re-scanned, so items nest arbitrarily.
func (p *parser) list(lines []string, i int) (List, int) {
	first, _ := listMarkerAt(lines[i])
	lst := List{Ordered: first.ordered, Start: 1}
	if first.ordered {
		lst.Start = first.num
	}
	contentCol := first.indent + first.width

	var item []string
	pendingBlank := false
	flush := func() {
		if item != nil {
			lst.Items = append(lst.Items, p.parse(item))
			item = nil
		}
	}

	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			pendingBlank = true
			i++
			continue
		}
		if m, ok := listMarkerAt(line); ok && m.indent == first.indent {
			if m.ordered != first.ordered {
				break
			}
			flush()
			if pendingBlank {
				lst.Loose = true
				pendingBlank = false
			}
			item = []string{m.content}
			contentCol = m.indent + m.width
			i++
			continue
		}
		ind := indentWidth(line)
		if ind >= contentCol {
			if pendingBlank {
				item = append(item, "")
				lst.Loose = true
				pendingBlank = false
			}
			item = append(item, dedent(line, contentCol))
			i++
			continue
		}
		if ind > first.indent && !pendingBlank {
			// Under-indented continuation of the current item.
			item = append(item, dedent(line, ind))
			i++
			continue
		}
		break
	}
	flush()
	return lst, i
}

// table consumes a pipe table: header, separator, then body rows until a
// line without a pipe. Ragged rows are normalized to the header width.
func (p *parser) table(lines []string, i int) (Table, int) {
	header := splitRow(lines[i])
	align, _ := tableSeparator(lines[i+1])
	t := Table{Align: align}
	for _, c := range header {
		t.Header = append(t.Header, Cell(parseInline(strings.TrimSpace(c))))
	}
	i += 2
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" && strings.Contains(lines[i], "|") {
		cells := splitRow(lines[i])
		row := make([]Cell, len(t.Header))
		for j := range row {
			if j < len(cells) {
				row[j] = Cell(parseInline(strings.TrimSpace(cells[j])))
			}
		}
		t.Rows = append(t.Rows, row)
		i++
	}
	return t, i
}

func htmlRun(lines []string, i int) (HTMLBlock, int) {
	var raw []string
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		raw = append(raw, lines[i])
		i++
	}
	return HTMLBlock{Text: strings.Join(raw, "\n")}, i
}

// Line classifiers.

func headingLine(line string) (level int, text string, ok bool) {
	if indentWidth(line) > 3 {
		return 0, "", false
	}
	t := strings.TrimLeft(line, " ")
	n := runLen(t, '#')
	if n < 1 || n > 6 {
		return 0, "", false
	}
	rest := t[n:]
	if rest != "" && rest[0] != ' ' {
		return 0, "", false
	}
	rest = strings.TrimSpace(rest)
	// A trailing closing sequence ("## title ##") is decoration, but a
	// bare "#" glued to text ("# C#") is content.
	trimmed := strings.TrimRight(rest, "#")
	if trimmed != rest && (trimmed == "" || strings.HasSuffix(trimmed, " ")) {
		rest = strings.TrimRight(trimmed, " ")
	}
	return n, rest, true
}

func thematicBreakLine(line string) bool {
	if indentWidth(line) > 3 {
		return false
	}
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	ch := t[0]
	if ch != '-' && ch != '*' && ch != '_' {
		return false
	}
	n := 0
	for j := 0; j < len(t); j++ {
		switch t[j] {
		case ch:
			n++
		case ' ':
		default:
			return false
		}
	}
	return n >= 3
}

func fenceLine(line string) (ch byte, n int, info string, ok bool) {
	if indentWidth(line) > 3 {
		return 0, 0, "", false
	}
	t := strings.TrimLeft(line, " ")
	if t == "" || (t[0] != '`' && t[0] != '~') {
		return 0, 0, "", false
	}
	c := t[0]
	run := runLen(t, c)
	if run < 3 {
		return 0, 0, "", false
	}
	rest := strings.TrimSpace(t[run:])
	if c == '`' && strings.Contains(rest, "`") {
		return 0, 0, "", false
	}
	return c, run, rest, true
}

func quoteLine(line string) bool {
	if indentWidth(line) > 3 {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(line, " "), ">")
}

func stripQuote(line string) string {
	t := strings.TrimLeft(line, " ")
	t = t[1:]
	if strings.HasPrefix(t, " ") {
		t = t[1:]
	}
	return t
}

type listMarker struct {
	ordered bool
	num     int
	indent  int
	width   int // marker width in columns, including the trailing space
	content string
}

func listMarkerAt(line string) (listMarker, bool) {
	ind := indentWidth(line)
	t := line[ind:]
	if t == "" {
		return listMarker{}, false
	}
	if t[0] == '-' || t[0] == '*' || t[0] == '+' {
		if len(t) < 2 || t[1] != ' ' {
			return listMarker{}, false
		}
		return listMarker{indent: ind, width: 2, content: t[2:]}, true
	}
	j := 0
	for j < len(t) && j < 9 && t[j] >= '0' && t[j] <= '9' {
		j++
	}
	if j == 0 || j >= len(t) || (t[j] != '.' && t[j] != ')') {
		return listMarker{}, false
	}
	if j+1 >= len(t) || t[j+1] != ' ' {
		return listMarker{}, false
	}
	num, _ := strconv.Atoi(t[:j])
	return listMarker{ordered: true, num: num, indent: ind, width: j + 2, content: t[j+2:]}, true
}

func tableStart(lines []string, i int) bool {
	if !strings.Contains(lines[i], "|") {
		return false
	}
	if i+1 >= len(lines) {
		return false
	}
	align, ok := tableSeparator(lines[i+1])
	if !ok {
		return false
	}
	return len(splitRow(lines[i])) == len(align)
}

func tableSeparator(line string) ([]Alignment, bool) {
	if !strings.Contains(line, "|") && !strings.Contains(line, "-") {
		return nil, false
	}
	cells := splitRow(line)
	var align []Alignment
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, false
		}
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		dashes := strings.Trim(c, ":")
		if dashes == "" || strings.Count(dashes, "-") != len(dashes) {
			return nil, false
		}
		switch {
		case left && right:
			align = append(align, AlignCenter)
		case right:
			align = append(align, AlignRight)
		case left:
			align = append(align, AlignLeft)
		default:
			align = append(align, AlignDefault)
		}
	}
	return align, true
}

// splitRow splits a table line on unescaped pipes, dropping one optional
// leading and trailing pipe.
func splitRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	if strings.HasSuffix(s, "|") && !strings.HasSuffix(s, "\\|") {
		s = s[:len(s)-1]
	}
	var cells []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == '|' {
			b.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(c)
	}
	cells = append(cells, b.String())
	return cells
}

func htmlStart(line string) bool {
	if indentWidth(line) > 3 {
		return false
	}
	t := strings.TrimLeft(line, " ")
	if len(t) < 2 || t[0] != '<' {
		return false
	}
	c := t[1]
	return c == '!' || c == '/' || c == '?' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Low-level helpers.

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = expandLeadingTabs(ln)
	}
	return lines
}

// expandLeadingTabs rewrites leading whitespace with tab stops of four so
// indent arithmetic works in columns.
func expandLeadingTabs(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	lead := s[:i]
	if !strings.Contains(lead, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for j := 0; j < len(lead); j++ {
		if lead[j] == '\t' {
			n := 4 - col%4
			b.WriteString(strings.Repeat(" ", n))
			col += n
		} else {
			b.WriteByte(' ')
			col++
		}
	}
	return b.String() + s[i:]
}

func indentWidth(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func dedent(line string, n int) string {
	i := 0
	for i < len(line) && i < n && line[i] == ' ' {
		i++
	}
	return line[i:]
}

func runLen(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}
