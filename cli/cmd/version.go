package cmd

import (
	"fmt"

	"github.com/filevault/backend/cli/internal/output"
	"github.com/spf13/cobra"
)

// Version is the CLI version, injected at build time:
//
//	go build -ldflags "-X github.com/filevault/backend/cli/cmd.Version=1.2.3" ./cmd/filevault
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version and server reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		healthErr := apiClient.Health()

		if flagJSON {
			out := struct {
				CLIVersion  string `json:"cliVersion"`
				Server      string `json:"server"`
				Healthy     bool   `json:"healthy"`
				ServerError string `json:"serverError,omitempty"`
			}{CLIVersion: Version, Server: cfg.ServerURL, Healthy: healthErr == nil}
			if healthErr != nil {
				out.ServerError = healthErr.Error()
			}
			output.JSON(out)
			return nil
		}

		fmt.Printf("CLI version:  %s\n", Version)
		if healthErr != nil {
			fmt.Printf("Server:       %s (unreachable: %v)\n", cfg.ServerURL, healthErr)
			return nil
		}
		fmt.Printf("Server:       %s (ok)\n", cfg.ServerURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
