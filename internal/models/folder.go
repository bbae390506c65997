package models

import "github.com/google/uuid"

// Folder is a node in a user's folder tree. A nil ParentID places it at the root.
type Folder struct {
	BaseModel
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	Color       *string    `json:"color,omitempty" gorm:"type:varchar(32)"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	ParentID    *uuid.UUID `json:"parentId" gorm:"type:uuid;index"`

	Children []Folder `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Files    []File   `json:"files,omitempty" gorm:"foreignKey:FolderID"`
}
