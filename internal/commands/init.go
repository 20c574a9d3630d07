package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/markwalk/internal/config"
	"github.com/gerunddev/markwalk/styles"
)

// Init writes the default config file so it can be edited by hand
func Init() {
	successStyle := styles.SuccessStyle
	errorStyle := styles.ErrorStyle
	dimStyle := styles.DimStyle

	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Println(dimStyle.Render("Config file already exists: " + path))
		return
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(); err != nil {
		fmt.Println(errorStyle.Render("✗ Failed to write config: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("✓ Config file created: " + path))
	fmt.Println(dimStyle.Render("  Edit it to set max_width, log_file, watch and gitignore"))
}
