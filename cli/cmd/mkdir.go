package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/filevault/backend/cli/internal/output"
	"github.com/filevault/backend/cli/internal/pathutil"
	"github.com/spf13/cobra"
)

var flagParents bool

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name> [parent-path]",
	Short: "Create a folder",
	Long: `Create a folder on the server.

  filevault mkdir "My Documents"                  Create in root
  filevault mkdir Reports /Documents              Create inside a folder
  filevault mkdir /Documents/Reports              Same, with the parent in the name
  filevault mkdir -p /Archive/2024/Q1             Create missing parents too
  filevault mkdir Reports --parent <uuid>         Create inside a folder by ID`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		name := strings.TrimRight(args[0], "/")
		parentPath := flagParent
		if parentPath == "" && len(args) > 1 {
			parentPath = args[1]
		}
		if parentPath == "" && strings.Contains(name, "/") {
			parentPath, name = path.Split(name)
		}

		var (
			parentID string
			err      error
		)
		if flagParents {
			parentID, err = ensureFolderPath(parentPath)
		} else {
			parentID, err = pathutil.ResolveFolder(apiClient, parentPath)
		}
		if err != nil {
			return fmt.Errorf("resolving parent: %w", err)
		}

		folder, err := apiClient.CreateFolder(name, parentID)
		if err != nil {
			return fmt.Errorf("creating folder: %w", err)
		}

		if flagJSON {
			output.JSON(folder)
			return nil
		}
		fmt.Printf("Created folder: %s (id: %s)\n", folder.Name, folder.ID)
		return nil
	},
}

func init() {
	mkdirCmd.Flags().StringVar(&flagParent, "parent", "", "Parent folder path or ID")
	mkdirCmd.Flags().BoolVarP(&flagParents, "parents", "p", false, "Create missing parent folders")
	rootCmd.AddCommand(mkdirCmd)
}

// ensureFolderPath walks p from the root, creating each missing segment, and
// returns the id of the last folder.
func ensureFolderPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "", nil
	}

	currentID := ""
	for _, segment := range strings.Split(strings.Trim(p, "/"), "/") {
		if segment == "" {
			continue
		}
		children, err := listChildFolders(currentID)
		if err != nil {
			return "", err
		}
		found := ""
		for _, c := range children {
			if strings.EqualFold(c.Name, segment) {
				found = c.ID
				break
			}
		}
		if found == "" {
			created, err := apiClient.CreateFolder(segment, currentID)
			if err != nil {
				return "", fmt.Errorf("creating %s: %w", segment, err)
			}
			found = created.ID
		}
		currentID = found
	}
	return currentID, nil
}
