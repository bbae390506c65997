package api

import "time"

// File mirrors the backend File model fields relevant to the CLI.
type File struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	OriginalName string         `json:"originalName"`
	Description  *string        `json:"description,omitempty"`
	MimeType     string         `json:"mimeType"`
	Size         int64          `json:"size"`
	StorageKey   string         `json:"storageKey,omitempty"`
	Extension    *string        `json:"extension,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	UserID       string         `json:"userId"`
	FolderID     *string        `json:"folderId,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Folder mirrors the backend Folder model. Children and Files are only
// populated by GET /folder/:id and the listing endpoints.
type Folder struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	UserID      string    `json:"userId"`
	ParentID    *string   `json:"parentId,omitempty"`
	Children    []Folder  `json:"children,omitempty"`
	Files       []File    `json:"files,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// User mirrors the backend User model.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// RegisterResponse is returned by POST /user/create.
type RegisterResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// DownloadURLResponse is returned by GET /files/:id/download-url.
type DownloadURLResponse struct {
	URL string `json:"downloadUrl"`
}

// MoveResponse is returned by PUT /files/:id/move.
type MoveResponse struct {
	Message string `json:"message"`
	File    File   `json:"file"`
}

// MessageResponse is returned by the delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
