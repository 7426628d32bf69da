package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/braynkanth/assistant-tui/config"
	"github.com/braynkanth/assistant-tui/notify"
	"github.com/braynkanth/assistant-tui/session"
	"github.com/braynkanth/assistant-tui/tui"
)

const settingsPath = "assistant.json"

var freshToken string

func main() {
	rootCmd := &cobra.Command{
		Use:   "assistant-tui",
		Short: "Terminal dashboard for the AI email-triage assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	rootCmd.Flags().StringVar(&freshToken, "token", "", "Bearer token from the login redirect; persisted for future runs")

	rootCmd.AddCommand(loginCmd(), logoutCmd(), syncCommand(), resetEmailsCmd(), versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI() error {
	cfgManager, err := config.NewManager(settingsPath)
	if err != nil {
		return fmt.Errorf("initialize settings: %w", err)
	}
	cfg := cfgManager.Get()

	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0660)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Println("Application starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutdown signal received, cancelling context...")
		cancel()
	}()

	store := session.NewStore(cfg.TokenPath)
	sched := notify.NewScheduler(cfg.PollInterval())
	defer sched.Stop()

	model := tui.NewModel(ctx, cfgManager, store, sched, freshToken)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}

	log.Println("TUI application stopped. Exiting.")
	return nil
}
