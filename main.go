// gigachat-tui - A terminal client for the GigaChat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkiselev/gigachat-tui/internal/config"
	"github.com/dkiselev/gigachat-tui/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference so exchange goroutines can push messages into
// the Bubble Tea loop.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

// sendToProgram delivers a message into the running program, if any.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	defaultLog := ""
	if dir, err := config.Dir(); err == nil {
		defaultLog = filepath.Join(dir, "gigachat.log")
	}
	logger, closeLog, err := logging.Setup(cfg.Logging.Level, cfg.Logging.File, defaultLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info("starting gigachat-tui", "version", Version, "server", cfg.Server.BaseURL)

	app := newApp(cfg, logger)

	// Hot-reload the config file; only display settings take effect on a
	// running session.
	if path, err := config.Path(); err == nil {
		if w, err := config.Watch(path, logger, func(c *config.Config) {
			sendToProgram(configReloadedMsg{cfg: c})
		}); err == nil {
			defer w.Close()
		} else {
			logger.Warn("config watcher unavailable", "error", err)
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running gigachat-tui: %v\n", err)
		os.Exit(1)
	}
}
