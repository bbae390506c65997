package services

import (
	"context"

	"github.com/filevault/backend/internal/models"
	"github.com/filevault/backend/pkg/utils"
	"github.com/google/uuid"
)

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type FolderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Folder, error)
	FindByIDWithContents(ctx context.Context, id uuid.UUID) (*models.Folder, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Folder, error)
	FindRootByUser(ctx context.Context, userID uuid.UUID) ([]models.Folder, error)
	Create(ctx context.Context, folder *models.Folder) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Folder, error)
	DeleteSubtree(ctx context.Context, id uuid.UUID) ([]string, error)
}

type FileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	FindByStorageKey(ctx context.Context, key string) (*models.File, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.File, error)
	FindRootByUser(ctx context.Context, userID uuid.UUID) ([]models.File, error)
	FindByFolder(ctx context.Context, folderID uuid.UUID) ([]models.File, error)
	Create(ctx context.Context, file *models.File) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TokenManager interface {
	Generate(user *models.User) (string, error)
	Validate(token string) (*utils.Claims, error)
}
