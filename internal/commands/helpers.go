package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gerunddev/markwalk/internal/apperr"
)

// resolveTarget maps a command line path onto a provider root and a
// start file within it. An empty argument means the current directory
// with no start file, so the viewer opens on the file tree.
func resolveTarget(arg string) (dir, rel string, err error) {
	if arg == "" {
		dir, err = os.Getwd()
		return dir, "", err
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("%s: %w", arg, apperr.ErrNotFound)
		}
		return "", "", err
	}
	if info.IsDir() {
		return abs, "", nil
	}
	if !strings.EqualFold(filepath.Ext(abs), ".md") {
		return "", "", fmt.Errorf("%s: %w", arg, apperr.ErrNotMarkdown)
	}
	return filepath.Dir(abs), filepath.Base(abs), nil
}
