package cmd

import (
	"fmt"

	"github.com/filevault/backend/cli/internal/api"
	"github.com/filevault/backend/cli/internal/output"
	"github.com/filevault/backend/cli/internal/pathutil"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List folders and files",
	Long: `List the root or the contents of a folder.

  filevault ls                       List root
  filevault ls /Documents            List by path
  filevault ls 550e8400-...          List by folder ID`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		folderID, err := pathutil.ResolveFolder(apiClient, target)
		if err != nil {
			return err
		}

		var (
			folders []api.Folder
			files   []api.File
		)
		if folderID == "" {
			if folders, err = apiClient.RootFolders(); err != nil {
				return fmt.Errorf("listing folders: %w", err)
			}
			if files, err = apiClient.RootFiles(); err != nil {
				return fmt.Errorf("listing files: %w", err)
			}
		} else {
			folder, err := apiClient.Folder(folderID)
			if err != nil {
				return fmt.Errorf("fetching folder: %w", err)
			}
			folders, files = folder.Children, folder.Files
		}

		if flagJSON {
			output.JSON(map[string]any{"folders": folders, "files": files})
			return nil
		}
		output.Listing(folders, files)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
