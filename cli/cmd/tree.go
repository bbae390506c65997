package cmd

import "github.com/filevault/backend/cli/internal/api"

// listChildFolders returns the direct subfolders of parentID, or the root
// folders when parentID is empty.
func listChildFolders(parentID string) ([]api.Folder, error) {
	if parentID == "" {
		return apiClient.RootFolders()
	}
	folder, err := apiClient.Folder(parentID)
	if err != nil {
		return nil, err
	}
	return folder.Children, nil
}
