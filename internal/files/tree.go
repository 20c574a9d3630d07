package files

import "github.com/sahilm/fuzzy"

// Tree is the navigable listing shown in file-select mode, with an
// incremental fuzzy filter over entry paths.
type Tree struct {
	entries []Entry
	visible []int
	query   string
}

// NewTree builds a tree over entries, initially unfiltered.
func NewTree(entries []Entry) *Tree {
	t := &Tree{entries: entries}
	t.SetFilter("")
	return t
}

// SetFilter narrows the visible entries to fuzzy matches for q, best
// matches first. An empty q restores the full listing.
func (t *Tree) SetFilter(q string) {
	t.query = q
	if q == "" {
		t.visible = make([]int, len(t.entries))
		for i := range t.entries {
			t.visible[i] = i
		}
		return
	}
	targets := make([]string, len(t.entries))
	for i, e := range t.entries {
		targets[i] = e.Path
	}
	matches := fuzzy.Find(q, targets)
	t.visible = make([]int, len(matches))
	for i, m := range matches {
		t.visible[i] = m.Index
	}
}

// Filter returns the active filter text.
func (t *Tree) Filter() string { return t.query }

// Len returns the number of visible entries.
func (t *Tree) Len() int { return len(t.visible) }

// At returns the visible entry at position i.
func (t *Tree) At(i int) Entry { return t.entries[t.visible[i]] }

// Index returns the visible position of the entry with the given path,
// or -1 when it is filtered out.
func (t *Tree) Index(path string) int {
	for i, idx := range t.visible {
		if t.entries[idx].Path == path {
			return i
		}
	}
	return -1
}
