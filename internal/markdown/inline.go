package markdown

import "strings"

// parseInline tokenizes block text into spans. Priority at each position:
// backslash escapes, code spans, strong, emphasis, links and images,
// autolinks, then plain text. Unmatched markers degrade to literal text.
func parseInline(text string) []Span {
	s := &inlineScanner{src: text}
	s.run()
	return s.spans
}

type inlineScanner struct {
	src   string
	pos   int
	spans []Span
	text  strings.Builder
}

func (s *inlineScanner) run() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\' && s.pos+1 < len(s.src) && isPunct(s.src[s.pos+1]):
			s.text.WriteByte(s.src[s.pos+1])
			s.pos += 2
		case c == '`':
			s.codeSpan()
		case c == '*' || c == '_':
			s.emphasis(c)
		case c == '[':
			s.link()
		case c == '!' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '[':
			s.image()
		case c == '<':
			s.autolink()
		default:
			s.text.WriteByte(c)
			s.pos++
		}
	}
	s.flush()
}

func (s *inlineScanner) flush() {
	if s.text.Len() > 0 {
		s.spans = append(s.spans, Text{Text: s.text.String()})
		s.text.Reset()
	}
}

// codeSpan consumes a backtick code span. The closing run must have the
// same length as the opening run; without one the backticks are literal.
func (s *inlineScanner) codeSpan() {
	n := runLen(s.src[s.pos:], '`')
	end := s.skipCodeSpan(s.pos)
	if end == s.pos+n {
		s.text.WriteString(s.src[s.pos:end])
		s.pos = end
		return
	}
	s.flush()
	s.spans = append(s.spans, Code{Text: s.src[s.pos+n : end-n]})
	s.pos = end
}

// skipCodeSpan returns the index just past the code span opening at i, or
// just past the opening run when it is never closed.
func (s *inlineScanner) skipCodeSpan(i int) int {
	n := runLen(s.src[i:], '`')
	j := i + n
	for j < len(s.src) {
		if s.src[j] == '`' {
			m := runLen(s.src[j:], '`')
			if m == n {
				return j + m
			}
			j += m
			continue
		}
		j++
	}
	return i + n
}

func (s *inlineScanner) emphasis(mark byte) {
	double := s.pos+1 < len(s.src) && s.src[s.pos+1] == mark
	// Underscores only open at word boundaries, so snake_case stays text.
	boundary := mark == '_'
	if !boundary || s.boundaryBefore() {
		if double {
			delim := string([]byte{mark, mark})
			if inner, end, ok := s.findClosing(s.pos+2, delim, boundary); ok {
				s.flush()
				s.spans = append(s.spans, Strong{Spans: parseInline(inner)})
				s.pos = end
				return
			}
		} else {
			if inner, end, ok := s.findClosing(s.pos+1, string(mark), boundary); ok {
				s.flush()
				s.spans = append(s.spans, Emphasis{Spans: parseInline(inner)})
				s.pos = end
				return
			}
		}
	}
	s.text.WriteByte(mark)
	s.pos++
}

// findClosing searches for the closing delimiter run starting at from,
// skipping escapes and code spans. Runs of a different length than the
// delimiter are skipped whole so a single mark never closes inside a
// double run.
func (s *inlineScanner) findClosing(from int, delim string, boundary bool) (string, int, bool) {
	if from >= len(s.src) || s.src[from] == ' ' {
		return "", 0, false
	}
	i := from
	for i < len(s.src) {
		c := s.src[i]
		if c == '\\' && i+1 < len(s.src) {
			i += 2
			continue
		}
		if c == '`' {
			i = s.skipCodeSpan(i)
			continue
		}
		if c == delim[0] {
			run := runLen(s.src[i:], c)
			if run == len(delim) && i > from && s.src[i-1] != ' ' {
				after := i + run
				if !boundary || after >= len(s.src) || isWordBoundary(s.src[after]) {
					return s.src[from:i], after, true
				}
			}
			i += run
			continue
		}
		i++
	}
	return "", 0, false
}

func (s *inlineScanner) link() {
	display, target, end, ok := s.parseLinkAt(s.pos)
	if !ok {
		s.text.WriteByte('[')
		s.pos++
		return
	}
	s.flush()
	s.spans = append(s.spans, Link{Spans: parseInline(display), Target: target})
	s.pos = end
}

func (s *inlineScanner) image() {
	display, target, end, ok := s.parseLinkAt(s.pos + 1)
	if !ok {
		s.text.WriteByte('!')
		s.pos++
		return
	}
	s.flush()
	s.spans = append(s.spans, Image{Alt: display, Target: target})
	s.pos = end
}

// parseLinkAt parses "[display](target)" with open at the bracket. Display
// brackets balance, parens in the target balance, and code spans inside the
// display are skipped. Returns the raw display text, the cleaned target,
// and the index just past the closing paren.
func (s *inlineScanner) parseLinkAt(open int) (string, string, int, bool) {
	depth := 0
	i := open
	closeBracket := -1
	for i < len(s.src) {
		c := s.src[i]
		if c == '\\' && i+1 < len(s.src) {
			i += 2
			continue
		}
		if c == '`' {
			i = s.skipCodeSpan(i)
			continue
		}
		if c == '[' {
			depth++
		} else if c == ']' {
			depth--
			if depth == 0 {
				closeBracket = i
				break
			}
		}
		i++
	}
	if closeBracket < 0 || closeBracket+1 >= len(s.src) || s.src[closeBracket+1] != '(' {
		return "", "", 0, false
	}
	pdepth := 0
	j := closeBracket + 1
	closeParen := -1
	for j < len(s.src) {
		c := s.src[j]
		if c == '\\' && j+1 < len(s.src) {
			j += 2
			continue
		}
		if c == '(' {
			pdepth++
		} else if c == ')' {
			pdepth--
			if pdepth == 0 {
				closeParen = j
				break
			}
		}
		j++
	}
	if closeParen < 0 {
		return "", "", 0, false
	}
	display := s.src[open+1 : closeBracket]
	target := linkTarget(s.src[closeBracket+2 : closeParen])
	return display, target, closeParen + 1, true
}

// linkTarget strips angle brackets and a trailing title from a raw link
// destination, keeping the target itself verbatim.
func linkTarget(raw string) string {
	t := strings.TrimSpace(raw)
	if strings.HasPrefix(t, "<") {
		if i := strings.IndexByte(t, '>'); i >= 0 {
			return t[1:i]
		}
		t = t[1:]
	}
	if i := strings.IndexAny(t, " \t"); i >= 0 {
		t = t[:i]
	}
	return t
}

func (s *inlineScanner) autolink() {
	end := strings.IndexByte(s.src[s.pos:], '>')
	if end < 0 {
		s.text.WriteByte('<')
		s.pos++
		return
	}
	inner := s.src[s.pos+1 : s.pos+end]
	urlish := strings.Contains(inner, "://") || strings.HasPrefix(inner, "mailto:")
	if !urlish || strings.ContainsAny(inner, " <") {
		s.text.WriteByte('<')
		s.pos++
		return
	}
	s.flush()
	s.spans = append(s.spans, Link{Spans: []Span{Text{Text: inner}}, Target: inner})
	s.pos += end + 1
}

func (s *inlineScanner) boundaryBefore() bool {
	if s.pos == 0 {
		return true
	}
	c := s.src[s.pos-1]
	return c == ' ' || isPunct(c)
}

func isWordBoundary(c byte) bool {
	return c == ' ' || isPunct(c)
}

func isPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}
