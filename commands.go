package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/braynkanth/assistant-tui/api"
	"github.com/braynkanth/assistant-tui/config"
	"github.com/braynkanth/assistant-tui/session"
)

var version = "dev"

// headlessSetup loads settings and restores the session for the
// non-TUI subcommands.
func headlessSetup(ctx context.Context) (config.Config, *session.Store, *session.Session, error) {
	cfgManager, err := config.NewManager(settingsPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("initialize settings: %w", err)
	}
	cfg := cfgManager.Get()
	store := session.NewStore(cfg.TokenPath)
	sess := session.Restore(ctx, store, "", func(token string) session.Identity {
		return api.New(cfg.APIBaseURL, token)
	})
	return cfg, store, sess, nil
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and store the bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgManager, err := config.NewManager(settingsPath)
			if err != nil {
				return fmt.Errorf("initialize settings: %w", err)
			}
			cfg := cfgManager.Get()
			store := session.NewStore(cfg.TokenPath)

			anon := api.New(cfg.APIBaseURL, "")
			fmt.Printf("Go to the following link in your browser, finish the "+
				"login, then paste the token from the redirect URL:\n%v\n", anon.LoginURL())
			fmt.Print("Token: ")

			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read token: %w", err)
			}
			token := strings.TrimSpace(line)
			if token == "" {
				return fmt.Errorf("no token supplied")
			}

			user, err := api.New(cfg.APIBaseURL, token).Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("token rejected: %w", err)
			}
			if err := store.Save(token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Printf("Logged in as %s <%s>.\n", user.Name, user.Email)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgManager, err := config.NewManager(settingsPath)
			if err != nil {
				return fmt.Errorf("initialize settings: %w", err)
			}
			store := session.NewStore(cfgManager.Get().TokenPath)
			store.Clear()
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Ask the backend to pull and analyze new mail",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, sess, err := headlessSetup(cmd.Context())
			if err != nil {
				return err
			}
			if !sess.Authenticated() {
				return fmt.Errorf("not logged in; run `assistant-tui login` first")
			}
			res, err := api.New(cfg.APIBaseURL, sess.Token).Sync(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			if res.Count > 0 {
				fmt.Printf("%d new emails analyzed.\n", res.Count)
			} else {
				fmt.Println("No new emails found.")
			}
			return nil
		},
	}
}

func resetEmailsCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset-emails",
		Short: "Wipe the analyzed email store on the backend (destructive)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, sess, err := headlessSetup(cmd.Context())
			if err != nil {
				return err
			}
			if !sess.Authenticated() {
				return fmt.Errorf("not logged in; run `assistant-tui login` first")
			}

			if !yes {
				fmt.Print("This deletes every analyzed email on the backend. Type 'yes' to continue: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read confirmation: %w", err)
				}
				if strings.TrimSpace(line) != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := api.New(cfg.APIBaseURL, sess.Token).ResetEmails(cmd.Context()); err != nil {
				return fmt.Errorf("reset emails: %w", err)
			}
			fmt.Println("Email store reset.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("assistant-tui", version)
		},
	}
}
