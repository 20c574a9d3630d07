package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gerunddev/markwalk/internal/config"
	"github.com/gerunddev/markwalk/internal/layout"
	"github.com/gerunddev/markwalk/internal/markdown"
	"github.com/gerunddev/markwalk/internal/tui"
	"github.com/gerunddev/markwalk/styles"
)

// Render prints a styled document to stdout without the interactive
// viewer
func Render(args []string) {
	errorStyle := styles.ErrorStyle
	dimStyle := styles.DimStyle

	target := ""
	width := 0
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--width":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --width requires a value")
				os.Exit(1)
			}
			w, err := strconv.Atoi(args[i+1])
			if err != nil || w < 1 {
				fmt.Fprintf(os.Stderr, "Error: invalid width %q\n", args[i+1])
				os.Exit(1)
			}
			width = w
			i++
		default:
			if target != "" {
				fmt.Fprintf(os.Stderr, "Error: unexpected argument %q\n", arg)
				os.Exit(1)
			}
			target = arg
		}
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "Error: render requires a markdown file")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("✗ Error loading config: " + err.Error()))
		os.Exit(1)
	}
	if width == 0 {
		width = cfg.MaxWidth
	}
	if width == 0 {
		width = 80
	}

	dir, rel, err := resolveTarget(target)
	if err != nil {
		fmt.Println(errorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
	if rel == "" {
		fmt.Fprintln(os.Stderr, "Error: render requires a file, not a directory")
		os.Exit(1)
	}

	src, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		fmt.Println(errorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}

	doc := markdown.Parse(string(src))
	lines, err := layout.Layout(doc, width)
	if err != nil {
		fmt.Println(errorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(tui.Paint(lines, width))
	for _, note := range doc.Notes {
		fmt.Fprintln(os.Stderr, dimStyle.Render("note: "+note))
	}
}
