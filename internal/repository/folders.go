package repository

import (
	"context"
	"fmt"

	"github.com/filevault/backend/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type FolderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) withContents(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

func (r *FolderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.WithContext(ctx).First(&folder, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &folder, nil
}

// FindByIDWithContents loads the folder with its direct child folders and files.
func (r *FolderRepository) FindByIDWithContents(ctx context.Context, id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	if err := r.withContents(ctx).First(&folder, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &folder, nil
}

func (r *FolderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	err := r.withContents(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&folders).Error
	return folders, translate(err)
}

func (r *FolderRepository) FindRootByUser(ctx context.Context, userID uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	err := r.withContents(ctx).
		Where("user_id = ? AND parent_id IS NULL", userID).
		Order("created_at ASC").
		Find(&folders).Error
	return folders, translate(err)
}

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return translate(r.db.WithContext(ctx).Create(folder).Error)
}

// Update applies column updates and returns the reloaded folder.
func (r *FolderRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Folder, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Folder{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// DeleteSubtree removes the folder, every descendant folder and every file
// placed in any of them in one transaction. It returns the storage keys of
// the deleted files.
func (r *FolderRepository) DeleteSubtree(ctx context.Context, rootID uuid.UUID) ([]string, error) {
	var keys []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		levels := [][]uuid.UUID{{rootID}}
		seen := map[uuid.UUID]struct{}{rootID: {}}

		for frontier := levels[0]; len(frontier) > 0; {
			var children []uuid.UUID
			if err := tx.Model(&models.Folder{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return fmt.Errorf("collect subfolders: %w", err)
			}

			next := lo.Filter(children, func(id uuid.UUID, _ int) bool {
				_, dup := seen[id]
				seen[id] = struct{}{}
				return !dup
			})
			if len(next) == 0 {
				break
			}
			levels = append(levels, next)
			frontier = next
		}

		all := lo.Flatten(levels)

		if err := tx.Model(&models.File{}).Where("folder_id IN ?", all).Pluck("storage_key", &keys).Error; err != nil {
			return fmt.Errorf("collect file keys: %w", err)
		}
		if err := tx.Where("folder_id IN ?", all).Delete(&models.File{}).Error; err != nil {
			return fmt.Errorf("delete files: %w", err)
		}

		for i := len(levels) - 1; i >= 0; i-- {
			if err := tx.Where("id IN ?", levels[i]).Delete(&models.Folder{}).Error; err != nil {
				return fmt.Errorf("delete folders at depth %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	return keys, nil
}
