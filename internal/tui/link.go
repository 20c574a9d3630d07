package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/gerunddev/markwalk/internal/apperr"
	"github.com/gerunddev/markwalk/internal/markdown"
)

// followTarget resolves a link target against the document it appears
// in. It returns the root-relative path of the file to open (empty for
// an anchor within the same document) and the fragment to jump to.
// External URLs and non-markdown files yield an error instead of a
// destination.
func followTarget(from, target string) (rel, frag string, err error) {
	switch markdown.ClassifyTarget(target) {
	case markdown.TargetExternal:
		return "", "", fmt.Errorf("%s: %w", target, apperr.ErrExternalLink)
	case markdown.TargetAnchor:
		return "", strings.TrimPrefix(target, "#"), nil
	}
	p, frag := markdown.SplitTarget(target)
	if !strings.EqualFold(path.Ext(p), ".md") {
		return "", "", fmt.Errorf("%s: %w", p, apperr.ErrNotMarkdown)
	}
	return path.Clean(path.Join(path.Dir(from), p)), frag, nil
}
