// Package apperr defines the sentinel errors shared across markwalk.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a file or directory does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidViewport is returned when layout is requested at a
	// non-positive width.
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrExternalLink is returned when a link targets a URL outside the
	// local filesystem.
	ErrExternalLink = errors.New("external link")
	// ErrNotMarkdown is returned when a link targets a local file that is
	// not a Markdown document.
	ErrNotMarkdown = errors.New("not a markdown file")
)
