package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/filevault/backend/cli/internal/output"
	"github.com/filevault/backend/cli/internal/pathutil"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flagParent  string
	flagWorkers int
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path> [remote-folder]",
	Short: "Upload a file or directory",
	Long: `Upload a local file or directory to FileVault.

  filevault upload report.pdf                     Upload to root
  filevault upload report.pdf /Documents          Upload to a folder
  filevault upload ./project/ /Documents          Upload a directory recursively
  filevault upload report.pdf --parent <uuid>     Upload to a folder by ID`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&flagParent, "parent", "", "Destination folder path or ID (alternative to positional arg)")
	uploadCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 4, "Number of concurrent upload workers (for directories)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	localPath := args[0]
	target := flagParent
	if target == "" && len(args) > 1 {
		target = args[1]
	}
	folderID, err := pathutil.ResolveFolder(apiClient, target)
	if err != nil {
		return fmt.Errorf("resolving remote folder: %w", err)
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}
	if info.IsDir() {
		return uploadDirectory(localPath, folderID)
	}

	file, err := apiClient.UploadFile(localPath, folderID)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", filepath.Base(localPath), err)
	}
	if flagJSON {
		output.JSON(file)
		return nil
	}
	fmt.Printf("Uploaded %s (%s)\n", file.Name, output.FormatSize(file.Size))
	return nil
}

type uploadJob struct {
	localPath string
	folderID  string
}

// uploadDirectory mirrors dirPath under folderID. Folders are created
// depth-first before any file is sent; files then go through a bounded pool.
func uploadDirectory(dirPath, folderID string) error {
	dirName := filepath.Base(filepath.Clean(dirPath))
	top, err := apiClient.CreateFolder(dirName, folderID)
	if err != nil {
		return fmt.Errorf("creating remote folder %s: %w", dirName, err)
	}
	fmt.Printf("Created folder: %s\n", dirName)

	var jobs []uploadJob
	if err := walkTree(dirPath, top.ID, &jobs); err != nil {
		return fmt.Errorf("walking directory: %w", err)
	}

	var uploaded, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(max(flagWorkers, 1))
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			file, err := apiClient.UploadFile(job.localPath, job.folderID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  Failed: %s: %v\n", filepath.Base(job.localPath), err)
				failed.Add(1)
				return nil
			}
			fmt.Printf("  Uploaded: %s (%s)\n", file.Name, output.FormatSize(file.Size))
			uploaded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Printf("\nDone: %d uploaded, %d failed\n", uploaded.Load(), failed.Load())
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d file(s) failed to upload", n)
	}
	return nil
}

// walkTree creates a remote folder for every local subdirectory and collects
// the files to upload.
func walkTree(localDir, remoteFolderID string, jobs *[]uploadJob) error {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		localPath := filepath.Join(localDir, entry.Name())
		if !entry.IsDir() {
			*jobs = append(*jobs, uploadJob{localPath: localPath, folderID: remoteFolderID})
			continue
		}

		child, err := apiClient.CreateFolder(entry.Name(), remoteFolderID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  Failed to create folder: %s: %v\n", entry.Name(), err)
			continue
		}
		fmt.Printf("  Created folder: %s\n", entry.Name())
		if err := walkTree(localPath, child.ID, jobs); err != nil {
			return err
		}
	}
	return nil
}
