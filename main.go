// Package main provides the entry point for the Zone Editor application.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"zone-editor/internal/app"
	"zone-editor/internal/config"
	"zone-editor/internal/logging"
	"zone-editor/internal/version"
	"zone-editor/ui/mainwindow"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.zone-editor"

func main() {
	configPath := flag.String("config", defaultConfigPath(), "Path to the TOML config file")
	framePath := flag.String("frame", "", "Reference frame to open (image or video)")
	zonesPath := flag.String("zones", "", "Zones JSON file to open")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("zone-editor"))
		return
	}

	cfg, cfgErr := config.Load(*configPath)
	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := logging.New(os.Stderr, level, cfg.Log.Format)
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("config problems, using defaults where needed", "path", *configPath, "error", cfgErr)
	}
	logger.Info("starting", "version", version.Version, "config", *configPath)

	session, err := app.NewSession(cfg, logger)
	if err != nil {
		logger.Error("failed to create session", "error", err)
		os.Exit(1)
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.ZoneEditorTheme{})

	win := mainwindow.New(fyneApp, session)
	win.Resize(defaultWindowSize())

	if *framePath != "" {
		win.LoadFrame(*framePath)
	} else {
		win.RestoreLastFrame()
	}
	if *zonesPath != "" {
		if err := session.LoadZones(*zonesPath); err != nil {
			logger.Error("failed to load zones", "path", *zonesPath, "error", err)
		}
	}

	watcher := setupConfigReload(*configPath, session, logger)
	if watcher != nil {
		defer watcher.Stop()
	}

	win.ShowAndRun()
}

// setupConfigReload re-applies the config file whenever it changes on disk.
func setupConfigReload(path string, session *app.Session, logger *slog.Logger) *app.ConfigWatcher {
	watcher, err := app.NewConfigWatcher(path, 200*time.Millisecond, logger)
	if err != nil {
		logger.Warn("config hot reload disabled", "error", err)
		return nil
	}
	watcher.OnReload(func(cfg *config.Config, err error) {
		if err != nil {
			return
		}
		if err := session.ApplyConfig(cfg); err != nil {
			logger.Warn("failed to apply reloaded config", "error", err)
		}
	})
	watcher.Start()
	logger.Info("watching config", "path", watcher.Path())
	return watcher
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "zone-editor", "config.toml")
}

func defaultWindowSize() fyne.Size {
	return fyne.NewSize(1280, 800)
}
