package cmd

import (
	"fmt"

	"github.com/filevault/backend/cli/internal/output"
	"github.com/filevault/backend/cli/internal/pathutil"
	"github.com/spf13/cobra"
)

var cpCmd = &cobra.Command{
	Use:   "cp <file> <folder>",
	Short: "Copy a file into a folder",
	Long: `Copy a file's content into a folder. The copy keeps the original name.

  filevault cp /Documents/report.pdf /Archive
  filevault cp /Documents/report.pdf /             Copy to the root`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		src, err := pathutil.Resolve(apiClient, args[0])
		if err != nil {
			return fmt.Errorf("resolving source: %w", err)
		}
		if src.IsRoot() || src.IsFolder {
			return fmt.Errorf("only files can be copied")
		}
		destID, err := pathutil.ResolveFolder(apiClient, args[1])
		if err != nil {
			return fmt.Errorf("resolving destination: %w", err)
		}

		file, err := apiClient.CopyFile(src.ID, destID)
		if err != nil {
			return fmt.Errorf("copying: %w", err)
		}
		if flagJSON {
			output.JSON(file)
			return nil
		}
		fmt.Printf("Copied %s (id: %s)\n", file.Name, file.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
