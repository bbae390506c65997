package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/filevault/backend/cli/internal/api"
	"github.com/filevault/backend/cli/internal/pathutil"
	"github.com/spf13/cobra"
)

var (
	flagOutput string
	flagStream bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <remote-path> [local-dir]",
	Short: "Download a file or folder",
	Long: `Download a file or folder from FileVault to your local machine.

  filevault download /Documents/report.pdf          Download to current directory
  filevault download /Documents/report.pdf ./out    Download to a specific directory
  filevault download /Projects                      Download a folder recursively
  filevault download <uuid>                         Download by file ID
  filevault download report.pdf --stream            Stream through the server instead of a presigned URL`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (single files only)")
	downloadCmd.Flags().BoolVar(&flagStream, "stream", false, "Stream the content through the API server")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	entry, err := pathutil.Resolve(apiClient, args[0])
	if err != nil {
		return err
	}
	if entry.IsRoot() {
		return fmt.Errorf("cannot download root: specify a file or folder path")
	}

	destDir := "."
	if len(args) > 1 {
		destDir = args[1]
	}

	if entry.IsFolder {
		return downloadFolder(entry.ID, destDir)
	}
	dest := filepath.Join(destDir, entry.Name)
	if flagOutput != "" {
		dest = flagOutput
	}
	return downloadFile(api.File{ID: entry.ID, Name: entry.Name}, dest)
}

func downloadFile(f api.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	if flagStream {
		if err := apiClient.Download("/files/"+f.ID+"/download", dest); err != nil {
			return fmt.Errorf("downloading: %w", err)
		}
	} else {
		url, err := apiClient.DownloadURL(f.ID)
		if err != nil {
			return fmt.Errorf("getting download URL: %w", err)
		}
		if err := apiClient.DownloadToFile(url, dest); err != nil {
			return fmt.Errorf("downloading: %w", err)
		}
	}

	fmt.Printf("Downloaded %s -> %s\n", f.Name, dest)
	return nil
}

func downloadFolder(folderID, destDir string) error {
	folder, err := apiClient.Folder(folderID)
	if err != nil {
		return fmt.Errorf("fetching folder: %w", err)
	}

	localDir := filepath.Join(destDir, folder.Name)
	if err := os.MkdirAll(localDir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	fmt.Printf("Created directory: %s\n", localDir)

	for _, f := range folder.Files {
		if err := downloadFile(f, filepath.Join(localDir, f.Name)); err != nil {
			fmt.Fprintf(os.Stderr, "  Failed: %s: %v\n", f.Name, err)
		}
	}
	for _, child := range folder.Children {
		if err := downloadFolder(child.ID, localDir); err != nil {
			fmt.Fprintf(os.Stderr, "  Failed: %s: %v\n", child.Name, err)
		}
	}
	return nil
}
