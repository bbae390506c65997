package cmd

import (
	"fmt"

	"github.com/filevault/backend/cli/internal/api"
	"github.com/spf13/cobra"
)

var flagName string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Example: `  filevault register --name "Ada Lovelace" --email ada@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.NewClient(cfg.ServerURL, "")

		name, email := flagName, flagEmail
		var err error
		if name == "" {
			if name, err = prompt("Name: "); err != nil {
				return err
			}
		}
		if email == "" {
			if email, err = prompt("Email: "); err != nil {
				return err
			}
		}

		inUse, err := client.EmailInUse(email)
		if err != nil {
			return fmt.Errorf("checking email: %w", err)
		}
		if inUse {
			return fmt.Errorf("email %s is already registered: use \"filevault login\"", email)
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		resp, err := client.Register(name, email, password)
		if err != nil {
			return fmt.Errorf("registering: %w", err)
		}
		return saveSession(resp.AccessToken, resp.User)
	},
}

func init() {
	registerCmd.Flags().StringVar(&flagName, "name", "", "Display name (prompted when omitted)")
	registerCmd.Flags().StringVar(&flagEmail, "email", "", "Account email (prompted when omitted)")
	rootCmd.AddCommand(registerCmd)
}
