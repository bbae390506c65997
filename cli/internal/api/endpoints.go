package api

import (
	"fmt"
	"net/url"
)

func unwrap[T any](resp *Response[T], err error) (T, error) {
	if err != nil {
		return resp.Data, err
	}
	if !resp.Success {
		return resp.Data, fmt.Errorf("api error: %s", resp.Error)
	}
	return resp.Data, nil
}

func (c *Client) Login(email, password string) (*LoginResponse, error) {
	var resp Response[LoginResponse]
	data, err := unwrap(&resp, c.Post("/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Register(name, email, password string) (*RegisterResponse, error) {
	var resp Response[RegisterResponse]
	data, err := unwrap(&resp, c.Post("/user/create", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Me() (*User, error) {
	var resp Response[User]
	data, err := unwrap(&resp, c.Get("/auth/me", nil, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) EmailInUse(email string) (bool, error) {
	var resp Response[struct {
		InUse bool `json:"inUse"`
	}]
	data, err := unwrap(&resp, c.Get("/user/check-email", url.Values{"email": {email}}, &resp))
	return data.InUse, err
}

// RootFolders lists the top-level folders.
func (c *Client) RootFolders() ([]Folder, error) {
	var resp Response[[]Folder]
	return unwrap(&resp, c.Get("/folder/root", nil, &resp))
}

// Folder returns the folder with its direct children and files.
func (c *Client) Folder(id string) (*Folder, error) {
	var resp Response[Folder]
	data, err := unwrap(&resp, c.Get("/folder/"+id, nil, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateFolder creates name under parentID; an empty parentID means the root.
func (c *Client) CreateFolder(name, parentID string) (*Folder, error) {
	body := map[string]interface{}{"name": name}
	if parentID != "" {
		body["parentId"] = parentID
	}
	var resp Response[Folder]
	data, err := unwrap(&resp, c.Post("/folder/create", body, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// UpdateFolder sends a partial update. A "parentId" of nil moves the folder to the root.
func (c *Client) UpdateFolder(id string, patch map[string]interface{}) (*Folder, error) {
	var resp Response[Folder]
	data, err := unwrap(&resp, c.Put("/folder/"+id, patch, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) DeleteFolder(id string) error {
	var resp Response[MessageResponse]
	_, err := unwrap(&resp, c.Delete("/folder/"+id, &resp))
	return err
}

// RootFiles lists files that are not in any folder.
func (c *Client) RootFiles() ([]File, error) {
	var resp Response[[]File]
	return unwrap(&resp, c.Get("/files/root", nil, &resp))
}

func (c *Client) FolderFiles(folderID string) ([]File, error) {
	var resp Response[[]File]
	return unwrap(&resp, c.Get("/files/folder/"+folderID, nil, &resp))
}

func (c *Client) File(id string) (*File, error) {
	var resp Response[File]
	data, err := unwrap(&resp, c.Get("/files/"+id, nil, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// UploadFile uploads a local file into folderID; an empty folderID means the root.
func (c *Client) UploadFile(localPath, folderID string) (*File, error) {
	extra := map[string]string{}
	if folderID != "" {
		extra["folderId"] = folderID
	}
	var resp Response[File]
	data, err := unwrap(&resp, c.Upload("/files/upload", "file", localPath, extra, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) UpdateFile(id string, patch map[string]interface{}) (*File, error) {
	var resp Response[File]
	data, err := unwrap(&resp, c.Put("/files/"+id, patch, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// MoveFile moves the file into folderID; an empty folderID means the root.
func (c *Client) MoveFile(id, folderID string) (*File, error) {
	body := map[string]interface{}{"folderId": nil}
	if folderID != "" {
		body["folderId"] = folderID
	}
	var resp Response[MoveResponse]
	data, err := unwrap(&resp, c.Put("/files/"+id+"/move", body, &resp))
	if err != nil {
		return nil, err
	}
	return &data.File, nil
}

// CopyFile duplicates the file into folderID; an empty folderID means the root.
func (c *Client) CopyFile(id, folderID string) (*File, error) {
	body := map[string]interface{}{"folderId": nil}
	if folderID != "" {
		body["folderId"] = folderID
	}
	var resp Response[File]
	data, err := unwrap(&resp, c.Post("/files/"+id+"/copy", body, &resp))
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) DeleteFile(id string) error {
	var resp Response[MessageResponse]
	_, err := unwrap(&resp, c.Delete("/files/"+id, &resp))
	return err
}

func (c *Client) DownloadURL(id string) (string, error) {
	var resp Response[DownloadURLResponse]
	data, err := unwrap(&resp, c.Get("/files/"+id+"/download-url", nil, &resp))
	return data.URL, err
}

// Health reports whether the server answers its liveness probe.
func (c *Client) Health() error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.Get("/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("server status %q", out.Status)
	}
	return nil
}
