package cmd

import (
	"fmt"

	"github.com/filevault/backend/cli/internal/output"
	"github.com/filevault/backend/cli/internal/pathutil"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Show details for a file or folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		entry, err := pathutil.Resolve(apiClient, args[0])
		if err != nil {
			return err
		}
		if entry.IsRoot() {
			return fmt.Errorf("cannot get info for the root")
		}

		if entry.IsFolder {
			folder, err := apiClient.Folder(entry.ID)
			if err != nil {
				return fmt.Errorf("fetching folder: %w", err)
			}
			if flagJSON {
				output.JSON(folder)
				return nil
			}
			output.FolderDetail(*folder)
			return nil
		}

		file, err := apiClient.File(entry.ID)
		if err != nil {
			return fmt.Errorf("fetching file: %w", err)
		}
		if flagJSON {
			output.JSON(file)
			return nil
		}
		output.FileDetail(*file)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
