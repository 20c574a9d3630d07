// Package files supplies document access for the viewer: reading
// markdown files, listing them beneath a root, and watching the active
// file for changes.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gerunddev/markwalk/internal/apperr"
	"github.com/gerunddev/markwalk/internal/markdown"
)

// Entry is one markdown file in the listing. Path is relative to the
// provider root and slash-separated.
type Entry struct {
	Path  string
	Name  string
	Title string
}

// Provider supplies raw file contents and the markdown listing the
// viewer navigates.
type Provider interface {
	// Read returns the contents of the file at path, which may be
	// absolute or relative to the root. A missing file is reported as
	// apperr.ErrNotFound.
	Read(path string) (string, error)
	// List returns every markdown file under the root in path order.
	List() ([]Entry, error)
	// Root returns the absolute root directory.
	Root() string
}

// OS is the filesystem-backed Provider.
type OS struct {
	root      string
	gitignore bool
}

// NewOS returns a Provider rooted at dir. When gitignore is set, List
// honors .gitignore files using simple patterns without negation.
func NewOS(dir string, gitignore bool) (*OS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, apperr.ErrNotFound)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", dir)
	}
	return &OS{root: abs, gitignore: gitignore}, nil
}

func (p *OS) Root() string { return p.root }

func (p *OS) Read(name string) (string, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(p.root, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", name, apperr.ErrNotFound)
		}
		return "", err
	}
	return string(data), nil
}

func (p *OS) List() ([]Entry, error) {
	var entries []Entry
	var ignores []ignoreFile
	err := filepath.WalkDir(p.root, func(fp string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if fp == p.root {
			if p.gitignore {
				ignores = loadIgnore(ignores, fp, "")
			}
			return nil
		}
		name := d.Name()
		rel, relErr := filepath.Rel(p.root, fp)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || ignored(ignores, rel, true) {
				return filepath.SkipDir
			}
			if p.gitignore {
				ignores = loadIgnore(ignores, fp, rel)
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}
		if ignored(ignores, rel, false) {
			return nil
		}
		entries = append(entries, Entry{Path: rel, Name: name, Title: readTitle(fp)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// readTitle extracts a display title from frontmatter or the first
// heading. Only the head of the file is parsed.
func readTitle(fp string) string {
	data, err := os.ReadFile(fp)
	if err != nil {
		return ""
	}
	const head = 4096
	if len(data) > head {
		data = data[:head]
	}
	return markdown.Parse(string(data)).Title()
}

// ignoreFile holds the patterns of one .gitignore, scoped to the
// directory it was found in (base is "" for the root).
type ignoreFile struct {
	base     string
	patterns []string
}

func loadIgnore(ignores []ignoreFile, dir, base string) []ignoreFile {
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return ignores
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return ignores
	}
	return append(ignores, ignoreFile{base: base, patterns: patterns})
}

// ignored reports whether rel matches any pattern in scope. rel is
// slash-separated and relative to the walk root.
func ignored(ignores []ignoreFile, rel string, isDir bool) bool {
	for _, ig := range ignores {
		sub := rel
		if ig.base != "" {
			if !strings.HasPrefix(rel, ig.base+"/") {
				continue
			}
			sub = strings.TrimPrefix(rel, ig.base+"/")
		}
		for _, pat := range ig.patterns {
			if matchPattern(pat, sub, isDir) {
				return true
			}
		}
	}
	return false
}

func matchPattern(pat, sub string, isDir bool) bool {
	dirOnly := strings.HasSuffix(pat, "/")
	pat = strings.TrimSuffix(pat, "/")
	if pat == "" {
		return false
	}
	if dirOnly && !isDir {
		return false
	}
	target := sub
	if strings.Contains(pat, "/") {
		pat = strings.TrimPrefix(pat, "/")
	} else {
		target = path.Base(sub)
	}
	ok, _ := path.Match(pat, target)
	return ok
}
