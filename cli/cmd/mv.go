package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/filevault/backend/cli/internal/output"
	"github.com/filevault/backend/cli/internal/pathutil"
	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv <source> <destination>",
	Short: "Move or rename a file or folder",
	Long: `Move a file or folder into another folder, or rename it.

  filevault mv /Documents/report.pdf /Archive          Move into an existing folder
  filevault mv /Documents/report.pdf /                 Move to the root
  filevault mv /Documents/old.pdf new-name.pdf         Rename in place
  filevault mv /Documents/old.pdf /Archive/new.pdf     Move and rename`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		src, err := pathutil.Resolve(apiClient, args[0])
		if err != nil {
			return fmt.Errorf("resolving source: %w", err)
		}
		if src.IsRoot() {
			return fmt.Errorf("cannot move the root")
		}

		dest := args[1]
		patch := map[string]interface{}{}
		if destID, err := pathutil.ResolveFolder(apiClient, dest); err == nil {
			setParent(patch, src.IsFolder, destID)
		} else if !strings.Contains(strings.TrimRight(dest, "/"), "/") {
			patch["name"] = dest
		} else {
			dir, name := path.Split(strings.TrimRight(dest, "/"))
			dirID, err := pathutil.ResolveFolder(apiClient, dir)
			if err != nil {
				return fmt.Errorf("resolving destination: %w", err)
			}
			setParent(patch, src.IsFolder, dirID)
			patch["name"] = name
		}

		if src.IsFolder {
			folder, err := apiClient.UpdateFolder(src.ID, patch)
			if err != nil {
				return fmt.Errorf("updating folder: %w", err)
			}
			if flagJSON {
				output.JSON(folder)
				return nil
			}
			fmt.Printf("Updated folder: %s\n", folder.Name)
			return nil
		}

		file, err := apiClient.UpdateFile(src.ID, patch)
		if err != nil {
			return fmt.Errorf("updating file: %w", err)
		}
		if flagJSON {
			output.JSON(file)
			return nil
		}
		fmt.Printf("Updated file: %s\n", file.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
}

// setParent writes the placement field for a folder or file patch. A nil
// value moves the item to the root.
func setParent(patch map[string]interface{}, isFolder bool, id string) {
	key := "folderId"
	if isFolder {
		key = "parentId"
	}
	if id == "" {
		patch[key] = nil
		return
	}
	patch[key] = id
}
