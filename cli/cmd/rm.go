package cmd

import (
	"fmt"
	"strings"

	"github.com/filevault/backend/cli/internal/pathutil"
	"github.com/spf13/cobra"
)

var flagForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a file or folder",
	Long: `Delete a file or folder from the server.

  filevault rm /Documents/old-report.pdf
  filevault rm /Temp --force                    Skip confirmation

Warning: deleting a folder removes every subfolder and file inside it. This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		entry, err := pathutil.Resolve(apiClient, args[0])
		if err != nil {
			return err
		}
		if entry.IsRoot() {
			return fmt.Errorf("cannot delete the root")
		}

		if !flagForce {
			kind := "file"
			if entry.IsFolder {
				kind = "folder (and all contents)"
			}
			answer, err := prompt(fmt.Sprintf("Delete %s %q? This cannot be undone. [y/N] ", kind, entry.Name))
			if err != nil {
				return err
			}
			if answer = strings.ToLower(answer); answer != "y" && answer != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if entry.IsFolder {
			err = apiClient.DeleteFolder(entry.ID)
		} else {
			err = apiClient.DeleteFile(entry.ID)
		}
		if err != nil {
			return fmt.Errorf("deleting: %w", err)
		}

		fmt.Printf("Deleted: %s\n", entry.Name)
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(rmCmd)
}
