package commands

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/markwalk/internal/config"
	"github.com/gerunddev/markwalk/internal/files"
	"github.com/gerunddev/markwalk/internal/logger"
	"github.com/gerunddev/markwalk/internal/tui"
	"github.com/gerunddev/markwalk/styles"
)

// View opens the interactive viewer on a file or directory
func View(args []string) {
	errorStyle := styles.ErrorStyle

	// Parse the optional path argument and flags
	target := ""
	width := -1
	noWatch := false
	noGitignore := false
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--width":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --width requires a value")
				os.Exit(1)
			}
			w, err := strconv.Atoi(args[i+1])
			if err != nil || w < 0 {
				fmt.Fprintf(os.Stderr, "Error: invalid width %q\n", args[i+1])
				os.Exit(1)
			}
			width = w
			i++
		case "--no-watch":
			noWatch = true
		case "--no-gitignore":
			noGitignore = true
		default:
			if target != "" {
				fmt.Fprintf(os.Stderr, "Error: unexpected argument %q\n", arg)
				os.Exit(1)
			}
			target = arg
		}
	}

	// Load configuration; flags win over the config file
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("✗ Error loading config: " + err.Error()))
		os.Exit(1)
	}
	if width >= 0 {
		cfg.MaxWidth = width
	}
	if noWatch {
		cfg.Watch = false
	}
	if noGitignore {
		cfg.Gitignore = false
	}

	dir, startPath, err := resolveTarget(target)
	if err != nil {
		fmt.Println(errorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}

	provider, err := files.NewOS(dir, cfg.Gitignore)
	if err != nil {
		fmt.Println(errorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}

	// Log to the configured file; the terminal belongs to the TUI
	var log *logger.Logger
	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile)
		if err == nil {
			defer cleanup()
			log = l
		} else {
			log = logger.Discard()
		}
	} else {
		log = logger.Discard()
	}
	log.ConfigLoaded(cfg.MaxWidth, cfg.Gitignore, cfg.Watch)

	var watcher *files.Watcher
	if cfg.Watch {
		w, err := files.NewWatcher()
		if err != nil {
			log.WatchError(err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	m := tui.InitViewerModel(provider, watcher, log, startPath, cfg.MaxWidth)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println(errorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}
}
