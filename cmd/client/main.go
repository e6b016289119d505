package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/memorylane/memorylane/internal/buildinfo"
	"github.com/memorylane/memorylane/internal/client/api"
	"github.com/memorylane/memorylane/internal/client/config"
	"github.com/memorylane/memorylane/internal/client/session"
	"github.com/memorylane/memorylane/internal/client/tui"
	"github.com/memorylane/memorylane/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "memorylane needs an interactive terminal")
		os.Exit(1)
	}

	cfg := config.LoadConfig()

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer logFile.Close()
	logger := logging.NewFileLogger(logFile, cfg.Debug)

	store := session.NewStore(cfg.SessionFile)
	store.Load()
	if store.TokenExpired(time.Now()) {
		if err := store.Clear(); err != nil {
			logger.Warn(context.Background(), "clear stale session", "error", err)
		}
	}

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, store, logger)

	app := tui.NewApp(cfg, client, store, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// The HTTP wrapper detects expiry on any request; the program gets the
	// forced-redirect message from outside the event loop.
	client.OnSessionExpired(func() {
		p.Send(tui.SessionExpiredMsg{})
	})

	if _, err := p.Run(); err != nil {
		logger.Error(context.Background(), "tui exited", "error", err)
		log.Fatalf("%v", err)
	}
}
