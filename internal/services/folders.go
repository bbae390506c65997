package services

import (
	"context"
	"errors"
	"strings"

	"github.com/filevault/backend/internal/metrics"
	"github.com/filevault/backend/internal/models"
	"github.com/filevault/backend/internal/repository"
	"github.com/filevault/backend/internal/storage"
	"github.com/filevault/backend/pkg/logger"
	"github.com/google/uuid"
)

// maxFolderDepth bounds the ancestor walk. A longer chain means corrupted data.
const maxFolderDepth = 256

type CreateFolderInput struct {
	Name        string
	Description *string
	Color       *string
	ParentID    *uuid.UUID
}

// FolderPatch lists the fields to change. DetachParent moves the folder to
// the root and is ignored when ParentID is set.
type FolderPatch struct {
	Name         *string
	Description  *string
	Color        *string
	ParentID     *uuid.UUID
	DetachParent bool
}

type FolderService struct {
	folders FolderStore
	storage storage.ObjectStore
	metrics *metrics.Metrics
}

func NewFolderService(folders FolderStore, store storage.ObjectStore, m *metrics.Metrics) *FolderService {
	return &FolderService{folders: folders, storage: store, metrics: m}
}

func (s *FolderService) Create(ctx context.Context, ownerID uuid.UUID, in CreateFolderInput) (*models.Folder, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("name is required")
	}

	if in.ParentID != nil {
		if _, err := s.ownedParent(ctx, ownerID, *in.ParentID); err != nil {
			return nil, err
		}
	}

	folder := &models.Folder{
		Name:        name,
		Description: in.Description,
		Color:       in.Color,
		UserID:      ownerID,
		ParentID:    in.ParentID,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		s.metrics.Observe("folder_create", metrics.ResultFailure)
		return nil, internalError("failed creating folder", err)
	}

	s.metrics.Observe("folder_create", metrics.ResultSuccess)
	logger.InfoWithUser(ownerID.String(), "folder_created", map[string]interface{}{
		"folder_id": folder.ID.String(),
		"parent_id": in.ParentID,
	})
	return folder, nil
}

func (s *FolderService) Update(ctx context.Context, ownerID, folderID uuid.UUID, patch FolderPatch) (*models.Folder, error) {
	folder, err := s.ownedFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}

	switch {
	case patch.ParentID != nil:
		if *patch.ParentID == folderID {
			return nil, validationError("folder cannot be its own parent")
		}
		parent, err := s.ownedParent(ctx, ownerID, *patch.ParentID)
		if err != nil {
			return nil, err
		}
		if err := s.checkAncestry(ctx, folderID, parent); err != nil {
			return nil, err
		}
		updates["parent_id"] = parent.ID
	case patch.DetachParent:
		updates["parent_id"] = nil
	}

	if len(updates) == 0 {
		return folder, nil
	}

	updated, err := s.folders.Update(ctx, folderID, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("folder not found")
		}
		return nil, internalError("failed updating folder", err)
	}

	logger.InfoWithUser(ownerID.String(), "folder_updated", map[string]interface{}{
		"folder_id": folderID.String(),
		"fields":    len(updates),
	})
	return updated, nil
}

// checkAncestry walks up from parent and fails if folderID is among its
// ancestors.
func (s *FolderService) checkAncestry(ctx context.Context, folderID uuid.UUID, parent *models.Folder) error {
	visited := map[uuid.UUID]struct{}{parent.ID: {}}
	current := parent.ParentID

	for hops := 1; current != nil; hops++ {
		if *current == folderID {
			return validationError("cannot create circular reference")
		}
		if hops >= maxFolderDepth {
			return s.corrupted(folderID, "depth_exceeded")
		}
		if _, seen := visited[*current]; seen {
			return s.corrupted(folderID, "loop_detected")
		}
		visited[*current] = struct{}{}

		ancestor, err := s.folders.FindByID(ctx, *current)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return internalError("failed validating folder hierarchy", err)
		}
		current = ancestor.ParentID
	}
	return nil
}

func (s *FolderService) corrupted(folderID uuid.UUID, reason string) error {
	logger.Error("folder_hierarchy_corrupted", ErrHierarchyCorrupted, map[string]interface{}{
		"folder_id": folderID.String(),
		"reason":    reason,
	})
	return internalError("failed validating folder hierarchy", ErrHierarchyCorrupted)
}

// Delete removes the folder with every descendant folder and file. Backing
// objects are removed after the records are gone; failures there are logged.
func (s *FolderService) Delete(ctx context.Context, ownerID, folderID uuid.UUID) error {
	if _, err := s.ownedFolder(ctx, ownerID, folderID); err != nil {
		return err
	}

	keys, err := s.folders.DeleteSubtree(ctx, folderID)
	if err != nil {
		s.metrics.Observe("folder_delete", metrics.ResultFailure)
		return internalError("failed deleting folder", err)
	}
	s.metrics.Observe("folder_delete", metrics.ResultSuccess)

	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.metrics.Observe("storage_delete", metrics.ResultFailure)
			logger.ErrorWithUser(ownerID.String(), "storage_delete_failed", err, map[string]interface{}{
				"folder_id":   folderID.String(),
				"storage_key": key,
			})
			continue
		}
		s.metrics.Observe("storage_delete", metrics.ResultSuccess)
	}

	logger.InfoWithUser(ownerID.String(), "folder_deleted", map[string]interface{}{
		"folder_id":     folderID.String(),
		"files_removed": len(keys),
	})
	return nil
}

func (s *FolderService) FindByID(ctx context.Context, ownerID, folderID uuid.UUID) (*models.Folder, error) {
	folder, err := s.folders.FindByIDWithContents(ctx, folderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("folder not found")
		}
		return nil, internalError("failed loading folder", err)
	}
	if folder.UserID != ownerID {
		return nil, forbiddenError("folder does not belong to user")
	}
	return folder, nil
}

func (s *FolderService) FindAll(ctx context.Context, ownerID uuid.UUID) ([]models.Folder, error) {
	folders, err := s.folders.FindByUser(ctx, ownerID)
	if err != nil {
		return nil, internalError("failed listing folders", err)
	}
	return folders, nil
}

func (s *FolderService) FindRoot(ctx context.Context, ownerID uuid.UUID) ([]models.Folder, error) {
	folders, err := s.folders.FindRootByUser(ctx, ownerID)
	if err != nil {
		return nil, internalError("failed listing folders", err)
	}
	return folders, nil
}

func (s *FolderService) ownedFolder(ctx context.Context, ownerID, folderID uuid.UUID) (*models.Folder, error) {
	folder, err := s.folders.FindByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("folder not found")
		}
		return nil, internalError("failed loading folder", err)
	}
	if folder.UserID != ownerID {
		logger.WarnWithUser(ownerID.String(), "permission_denied", map[string]interface{}{
			"target_id":   folderID.String(),
			"target_type": "folder",
		})
		return nil, forbiddenError("folder does not belong to user")
	}
	return folder, nil
}

func (s *FolderService) ownedParent(ctx context.Context, ownerID, parentID uuid.UUID) (*models.Folder, error) {
	parent, err := s.folders.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("parent folder not found")
		}
		return nil, internalError("failed loading parent folder", err)
	}
	if parent.UserID != ownerID {
		return nil, forbiddenError("parent folder does not belong to user")
	}
	return parent, nil
}
