package models

import "github.com/google/uuid"

type File struct {
	BaseModel
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	OriginalName string         `json:"originalName" gorm:"type:varchar(255);not null"`
	Description  *string        `json:"description,omitempty" gorm:"type:text"`
	MimeType     string         `json:"mimeType" gorm:"type:varchar(255);not null"`
	Size         int64          `json:"size" gorm:"not null;default:0"`
	StorageURL   string         `json:"storageUrl" gorm:"type:text;not null"`
	StorageKey   string         `json:"storageKey" gorm:"type:varchar(1024);uniqueIndex;not null"`
	Extension    *string        `json:"extension" gorm:"type:varchar(64)"`
	Metadata     map[string]any `json:"metadata,omitempty" gorm:"serializer:json;type:text"`
	UserID       uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	FolderID     *uuid.UUID     `json:"folderId" gorm:"type:uuid;index"`

	Folder *Folder `json:"folder,omitempty" gorm:"foreignKey:FolderID"`
}
