package cmd

import (
	"fmt"
	"os"

	"github.com/filevault/backend/cli/internal/api"
	"github.com/filevault/backend/cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagJSON      bool
	flagServerURL string

	cfg       *config.Config
	apiClient *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "filevault",
	Short: "FileVault CLI: manage your files from the terminal",
	Long: `FileVault CLI lets you upload, download, organise and manage files
on your FileVault server without leaving the terminal.

Get started:
  filevault register          Create an account
  filevault login             Authenticate with email and password
  filevault ls                List your root folder
  filevault upload file.pdf   Upload a file`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			cfg.ServerURL = flagServerURL
		}
		apiClient = api.NewClient(cfg.ServerURL, cfg.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config, $"+config.EnvServerURL+" or "+config.DefaultURL+")")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func requireAuth() error {
	if cfg == nil || !cfg.HasToken() {
		return fmt.Errorf("not authenticated: run \"filevault login\" first")
	}
	return nil
}
