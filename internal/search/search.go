// Package search scans laid-out lines for query matches.
package search

import (
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/gerunddev/markwalk/internal/layout"
)

// Match locates one hit as a line index plus the display column range of
// the matched text. End is exclusive.
type Match struct {
	Line  int
	Start int
	End   int
}

// Find returns every match for query across lines in (line, column)
// order. Matching is case-insensitive per rune; overlapping hits are not
// reported twice, scanning resumes after each match. An empty query
// yields no matches.
func Find(lines []layout.Line, query string) []Match {
	q := foldRunes(query)
	if len(q) == 0 {
		return nil
	}
	var out []Match
	for i, ln := range lines {
		text := ln.Text()
		if text == "" {
			continue
		}
		runes := []rune(text)
		folded := make([]rune, len(runes))
		for j, r := range runes {
			folded[j] = unicode.ToLower(r)
		}
		// cols[j] is the display column where rune j starts.
		cols := make([]int, len(runes)+1)
		for j, r := range runes {
			cols[j+1] = cols[j] + runewidth.RuneWidth(r)
		}
		for j := 0; j+len(q) <= len(folded); {
			if !matchAt(folded, j, q) {
				j++
				continue
			}
			out = append(out, Match{Line: i, Start: cols[j], End: cols[j+len(q)]})
			j += len(q)
		}
	}
	return out
}

// First returns the index of the first match at or after the given line,
// wrapping to the first match overall when none follows. The match list
// must be non-empty.
func First(matches []Match, line int) int {
	for i, m := range matches {
		if m.Line >= line {
			return i
		}
	}
	return 0
}

func foldRunes(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func matchAt(text []rune, at int, q []rune) bool {
	for i, r := range q {
		if text[at+i] != r {
			return false
		}
	}
	return true
}
