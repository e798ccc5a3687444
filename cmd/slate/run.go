package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/slate-tui/slate/internal/adapter"
	"github.com/slate-tui/slate/internal/canvas"
	"github.com/slate-tui/slate/internal/store"
	datasync "github.com/slate-tui/slate/internal/sync"
	"github.com/slate-tui/slate/internal/tui"
)

func runApp() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting slate", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
		// Reload so env overrides still apply on top of the saved file.
		cfg, err = adapter.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	client := canvas.NewClient(cfg.Canvas.URL, cfg.Canvas.Token, logger)

	cache, err := store.Open(adapter.GetCachePath(), cfg.Canvas.URL, cfg.Canvas.Token)
	if err != nil {
		logger.Warn("cache unavailable, running without persistence", "error", err)
		cache, _ = store.Open("", cfg.Canvas.URL, cfg.Canvas.Token)
	}
	defer cache.Close()

	orch := datasync.New(client, cache, logger)

	cached, _ := cache.Load()

	model := tui.NewModel(client, orch, logger, cached)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the Canvas URL and API token on first run and
// saves them to the config file. The token is read with echo off.
func runSetupFlow(cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Slate!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var canvasURL string
	for {
		fmt.Print("Enter your Canvas URL (e.g., https://school.instructure.com): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		canvasURL = strings.TrimSpace(input)
		if canvasURL != "" {
			break
		}
		fmt.Println("Canvas URL cannot be empty. Please try again.")
	}

	fmt.Print("Enter your API token (Account > Settings > New Access Token): ")
	tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return fmt.Errorf("API token cannot be empty")
	}

	cfg.Canvas.URL = canvasURL
	cfg.Canvas.Token = token

	path, err := adapter.SaveConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Configuration saved to %s\n", path)
	fmt.Println()
	return nil
}

func generateConfig() (string, error) {
	return adapter.GenerateDefaultConfig()
}
