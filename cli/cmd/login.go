package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/filevault/backend/cli/internal/api"
	"github.com/filevault/backend/cli/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagToken string
	flagEmail string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with your FileVault server",
	Long: `Authenticate with email and password, or store an existing access token.

Password:
  filevault login --email you@example.com
  Prompts for the password without echoing it.

Access token:
  filevault login --token eyJhbGciOi...`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&flagToken, "token", "", "Access token for direct authentication")
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Account email (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if flagToken != "" {
		return loginWithToken(flagToken)
	}

	email := flagEmail
	if email == "" {
		var err error
		if email, err = prompt("Email: "); err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := api.NewClient(cfg.ServerURL, "").Login(email, password)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return fmt.Errorf("login failed: %s", apiErr.Message)
		}
		return fmt.Errorf("logging in: %w", err)
	}
	return saveSession(resp.AccessToken, resp.User)
}

func loginWithToken(token string) error {
	user, err := api.NewClient(cfg.ServerURL, token).Me()
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return fmt.Errorf("invalid token: server returned 401")
		}
		return fmt.Errorf("validating token: %w", err)
	}
	return saveSession(token, *user)
}

func saveSession(token string, user api.User) error {
	cfg.Token = token
	cfg.Email = user.Email
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal and falls back
// to a plain line read for piped input.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Print(label)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}
