package pathutil

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/filevault/backend/cli/internal/api"
)

// Entry is a resolved remote path. The zero Entry is the root.
type Entry struct {
	ID       string
	Name     string
	IsFolder bool
}

// IsRoot reports whether the entry is the root of the tree.
func (e Entry) IsRoot() bool {
	return e.ID == ""
}

// ResolveFolder converts a human-readable folder path (e.g. "/Documents/Reports") to the
// folder's UUID by walking the folder tree from the root. An empty or "/" path means root
// and yields "". A valid UUID is returned as-is.
func ResolveFolder(client *api.Client, p string) (string, error) {
	p = strings.TrimSpace(p)
	if isRootPath(p) {
		return "", nil
	}
	if isUUID(p) {
		return p, nil
	}

	currentID := ""
	for _, segment := range splitPath(p) {
		children, err := childFolders(client, currentID)
		if err != nil {
			return "", fmt.Errorf("listing %q: %w", segment, err)
		}

		next, ok := matchFolder(children, segment)
		if !ok {
			if currentID == "" {
				return "", fmt.Errorf("folder not found in root: %s", segment)
			}
			return "", fmt.Errorf("folder not found: %s", segment)
		}
		currentID = next.ID
	}
	return currentID, nil
}

// Resolve converts a path to a file or folder. Folders win when a folder and a
// file share a name. A UUID is looked up as a folder first, then as a file.
func Resolve(client *api.Client, p string) (Entry, error) {
	p = strings.TrimSpace(p)
	if isRootPath(p) {
		return Entry{}, nil
	}
	if isUUID(p) {
		return resolveID(client, p)
	}

	dir, base := path.Split("/" + strings.Trim(p, "/"))
	parentID, err := ResolveFolder(client, dir)
	if err != nil {
		return Entry{}, err
	}

	folders, err := childFolders(client, parentID)
	if err != nil {
		return Entry{}, fmt.Errorf("listing %q: %w", dir, err)
	}
	if folder, ok := matchFolder(folders, base); ok {
		return Entry{ID: folder.ID, Name: folder.Name, IsFolder: true}, nil
	}

	files, err := childFiles(client, parentID)
	if err != nil {
		return Entry{}, fmt.Errorf("listing %q: %w", dir, err)
	}
	for _, f := range files {
		if strings.EqualFold(f.Name, base) {
			return Entry{ID: f.ID, Name: f.Name}, nil
		}
	}
	return Entry{}, fmt.Errorf("not found: %s", p)
}

func resolveID(client *api.Client, id string) (Entry, error) {
	folder, err := client.Folder(id)
	if err == nil {
		return Entry{ID: folder.ID, Name: folder.Name, IsFolder: true}, nil
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		return Entry{}, err
	}

	file, err := client.File(id)
	if err != nil {
		return Entry{}, err
	}
	return Entry{ID: file.ID, Name: file.Name}, nil
}

func childFolders(client *api.Client, parentID string) ([]api.Folder, error) {
	if parentID == "" {
		return client.RootFolders()
	}
	folder, err := client.Folder(parentID)
	if err != nil {
		return nil, err
	}
	return folder.Children, nil
}

func childFiles(client *api.Client, folderID string) ([]api.File, error) {
	if folderID == "" {
		return client.RootFiles()
	}
	return client.FolderFiles(folderID)
}

func matchFolder(folders []api.Folder, name string) (api.Folder, bool) {
	for _, f := range folders {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return api.Folder{}, false
}

func isRootPath(p string) bool {
	return p == "" || p == "/" || p == "."
}

func splitPath(p string) []string {
	var parts []string
	for _, segment := range strings.Split(strings.Trim(p, "/"), "/") {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return parts
}

func isUUID(s string) bool {
	// 36 chars, with hyphens at positions 8, 13, 18, 23.
	if len(s) != 36 {
		return false
	}
	for i, c := range s {
		if i == 8 || i == 13 || i == 18 || i == 23 {
			if c != '-' {
				return false
			}
		} else {
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
				return false
			}
		}
	}
	return true
}
