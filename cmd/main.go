// Package main implements a desktop utility that converts Qt Designer .ui files
// into Python modules with an external generator, using the Fyne framework.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Akaiko1/ui2py/internal/config"
	"github.com/Akaiko1/ui2py/internal/logging"
	"github.com/Akaiko1/ui2py/internal/ui"
)

func main() {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}

	activity := logging.New(logging.DefaultDirectory)
	defer activity.Close()

	cfg := config.Load(filepath.Join(root, config.FileName), activity)
	activity.Info(fmt.Sprintf("Starting %s (generator=%s, logs=%s)", cfg.WindowTitle, cfg.Generator, activity.Directory()))

	app := ui.NewApp(cfg, activity, root)
	activity.Debug("Window created, starting UI")

	app.Run()
	activity.Info("Window closed")
}
