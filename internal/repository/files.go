package repository

import (
	"context"

	"github.com/filevault/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (r *FileRepository) FindByStorageKey(ctx context.Context, key string) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).First(&file, "storage_key = ?", key).Error; err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (r *FileRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&files).Error
	return files, translate(err)
}

func (r *FileRepository) FindRootByUser(ctx context.Context, userID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND folder_id IS NULL", userID).
		Order("created_at ASC").
		Find(&files).Error
	return files, translate(err)
}

func (r *FileRepository) FindByFolder(ctx context.Context, folderID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Preload("Folder").
		Where("folder_id = ?", folderID).
		Order("created_at ASC").
		Find(&files).Error
	return files, translate(err)
}

func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	return translate(r.db.WithContext(ctx).Create(file).Error)
}

func (r *FileRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.File, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.File{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.File{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
