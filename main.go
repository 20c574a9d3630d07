package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/markwalk/internal/commands"
	"github.com/gerunddev/markwalk/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		commands.View(nil)
		return
	}

	command := os.Args[1]

	switch command {
	case "view":
		commands.View(os.Args[2:])
	case "render", "cat":
		commands.Render(os.Args[2:])
	case "init":
		commands.Init()
	case "version", "-v", "--version":
		fmt.Printf("markwalk v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		commands.View(os.Args[1:])
	}
}

func printUsage() {
	usage := fmt.Sprintf(`markwalk - Markdown viewer for the terminal

Usage:
  markwalk [path] [options]
  markwalk <command> [options]

Commands:
  view        Open a file or directory in the viewer (default)
  render      Print a rendered document to stdout
  init        Write the default config file
  version     Show version information
  help        Show this help message

Options:
  --width <n>      Cap the rendered content width at n columns
  --no-watch       Disable live reload on file changes
  --no-gitignore   List files that .gitignore would hide

Keys:
  j/k or arrows  scroll      d/u  half page   g/G  top/bottom
  tab            links       /    search      t    file tree
  b              back        r    reload      q    quit

Examples:
  markwalk README.md
  markwalk docs/
  markwalk render README.md --width 100
  markwalk init

Configuration:
  Config file: %s

For more information, visit: https://github.com/gerunddev/markwalk
`, config.ConfigPath())
	fmt.Print(usage)
}
