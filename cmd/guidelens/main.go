// cmd/guidelens/main.go
//
// This is the entry point for the guidelens CLI.
// When you run `guidelens` from any directory, this is what executes.
//
// Flow:
// 1. Initialize the .guidelens folder in the working directory
// 2. Apply any command-line overrides to the project config
// 3. Launch the TUI

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/guidelens/internal/config"
	"github.com/yourusername/guidelens/internal/tui"
)

func main() {
	serverURL := flag.String("server", "", "document store base URL (persists to .guidelens/config.yaml)")
	reviewer := flag.String("reviewer", "", "reviewer email attached to your edits (persists to config)")
	flag.Parse()

	// The current working directory is the "project" we're reviewing in.
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	// Make sure .guidelens/ exists with its config, logs and reports.
	if err := config.InitGuidelensDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .guidelens directory: %v\n", err)
		os.Exit(1)
	}

	if err := applyOverrides(cwd, *serverURL, *reviewer); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating config: %v\n", err)
		os.Exit(1)
	}

	// Create and run the TUI
	// tea.NewProgram creates a new bubbletea application
	// tui.NewApp returns our main application model
	app, err := tui.NewApp(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	// Run blocks until the user quits
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// applyOverrides persists any flag-provided settings before the TUI
// reads the config.
func applyOverrides(projectDir, serverURL, reviewer string) error {
	if serverURL == "" && reviewer == "" {
		return nil
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return err
	}
	if serverURL != "" {
		if err := cfg.SetServerURL(serverURL); err != nil {
			return err
		}
	}
	if reviewer != "" {
		if err := cfg.SetReviewerEmail(reviewer); err != nil {
			return err
		}
	}
	return nil
}
