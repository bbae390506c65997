package services

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/filevault/backend/internal/metrics"
	"github.com/filevault/backend/internal/models"
	"github.com/filevault/backend/internal/repository"
	"github.com/filevault/backend/internal/storage"
	"github.com/filevault/backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	defaultDownloadTTL = time.Hour
	defaultContentType = "application/octet-stream"
	rootFolderTag      = "root"
)

type UploadInput struct {
	OriginalName string
	MimeType     string
	Size         int64
	Body         io.Reader
	FolderID     *uuid.UUID
	Description  *string
}

type PrepareUploadInput struct {
	OriginalName string
	MimeType     string
	FolderID     *uuid.UUID
}

// UploadTicket is a presigned PUT target for a client-side upload.
type UploadTicket struct {
	UploadURL  string `json:"uploadUrl"`
	StorageKey string `json:"storageKey"`
	ExpiresIn  int    `json:"expiresIn"`
}

type RegisterFileInput struct {
	StorageKey  string
	Name        *string
	Description *string
	FolderID    *uuid.UUID
	Metadata    map[string]any
}

// FilePatch lists the fields to change. DetachFolder moves the file to the
// root and is ignored when FolderID is set.
type FilePatch struct {
	Name         *string
	Description  *string
	FolderID     *uuid.UUID
	DetachFolder bool
}

type FileService struct {
	files       FileStore
	folders     FolderStore
	storage     storage.ObjectStore
	metrics     *metrics.Metrics
	downloadTTL time.Duration
}

func NewFileService(files FileStore, folders FolderStore, store storage.ObjectStore, m *metrics.Metrics, downloadTTL time.Duration) *FileService {
	if downloadTTL <= 0 {
		downloadTTL = defaultDownloadTTL
	}
	return &FileService{
		files:       files,
		folders:     folders,
		storage:     store,
		metrics:     m,
		downloadTTL: downloadTTL,
	}
}

// ValidatePlacement checks that folderID, when given, names a folder of the owner.
func (s *FileService) ValidatePlacement(ctx context.Context, ownerID uuid.UUID, folderID *uuid.UUID) error {
	if folderID == nil {
		return nil
	}

	folder, err := s.folders.FindByID(ctx, *folderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return validationError("folder not found")
		}
		return internalError("failed validating folder", err)
	}
	if folder.UserID != ownerID {
		logger.WarnWithUser(ownerID.String(), "permission_denied", map[string]interface{}{
			"target_id":   folderID.String(),
			"target_type": "folder",
			"action":      "file_placement",
		})
		return forbiddenError("folder does not belong to user")
	}
	return nil
}

func (s *FileService) Upload(ctx context.Context, ownerID uuid.UUID, in UploadInput) (*models.File, error) {
	name := strings.TrimSpace(in.OriginalName)
	if name == "" {
		return nil, validationError("file name is required")
	}
	if err := s.ValidatePlacement(ctx, ownerID, in.FolderID); err != nil {
		return nil, err
	}

	contentType := in.MimeType
	if contentType == "" {
		contentType = defaultContentType
	}

	key := storage.DeriveKey(name, ownerID.String(), folderString(in.FolderID))
	url, err := s.storage.Put(ctx, key, in.Body, in.Size, contentType, map[string]string{
		"originalName": name,
		"userId":       ownerID.String(),
		"folderId":     folderTag(in.FolderID),
	})
	if err != nil {
		s.metrics.Observe("upload", metrics.ResultFailure)
		return nil, internalError("failed uploading file", err)
	}

	file := &models.File{
		Name:         name,
		OriginalName: name,
		Description:  nonEmpty(in.Description),
		MimeType:     contentType,
		Size:         in.Size,
		StorageURL:   url,
		StorageKey:   key,
		Extension:    extensionOf(name),
		UserID:       ownerID,
		FolderID:     in.FolderID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		s.metrics.Observe("upload", metrics.ResultFailure)
		s.discardObject(ctx, ownerID, key)
		return nil, internalError("failed creating file record", err)
	}

	s.metrics.Observe("upload", metrics.ResultSuccess)
	logger.InfoWithUser(ownerID.String(), "file_uploaded", map[string]interface{}{
		"file_id":     file.ID.String(),
		"file_size":   file.Size,
		"mime_type":   contentType,
		"storage_key": key,
		"folder_id":   in.FolderID,
	})
	return file, nil
}

// PrepareUpload returns a presigned PUT URL for a client-side upload. The
// object becomes a file once Register is called with the returned key.
func (s *FileService) PrepareUpload(ctx context.Context, ownerID uuid.UUID, in PrepareUploadInput) (*UploadTicket, error) {
	name := strings.TrimSpace(in.OriginalName)
	if name == "" {
		return nil, validationError("file name is required")
	}
	if err := s.ValidatePlacement(ctx, ownerID, in.FolderID); err != nil {
		return nil, err
	}

	key := storage.DeriveKey(name, ownerID.String(), folderString(in.FolderID))
	url, err := s.storage.PresignPut(ctx, key, in.MimeType, s.downloadTTL)
	if err != nil {
		return nil, internalError("failed generating upload url", err)
	}

	return &UploadTicket{
		UploadURL:  url,
		StorageKey: key,
		ExpiresIn:  int(s.downloadTTL.Seconds()),
	}, nil
}

// Register creates the record for an object uploaded through PrepareUpload.
func (s *FileService) Register(ctx context.Context, ownerID uuid.UUID, in RegisterFileInput) (*models.File, error) {
	key := strings.TrimSpace(in.StorageKey)
	if key == "" {
		return nil, validationError("storageKey is required")
	}
	if !storage.OwnedBy(key, ownerID.String()) {
		return nil, forbiddenError("storage key does not belong to user")
	}
	if err := s.ValidatePlacement(ctx, ownerID, in.FolderID); err != nil {
		return nil, err
	}

	if _, err := s.files.FindByStorageKey(ctx, key); err == nil {
		return nil, validationError("file already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError("failed checking storage key", err)
	}

	info, err := s.storage.Head(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, validationError("uploaded object not found")
		}
		return nil, internalError("failed inspecting uploaded object", err)
	}

	name := path.Base(key)
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		name = strings.TrimSpace(*in.Name)
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	file := &models.File{
		Name:         name,
		OriginalName: name,
		Description:  nonEmpty(in.Description),
		MimeType:     contentType,
		Size:         info.Size,
		StorageURL:   s.storage.URL(key),
		StorageKey:   key,
		Extension:    extensionOf(name),
		Metadata:     in.Metadata,
		UserID:       ownerID,
		FolderID:     in.FolderID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validationError("file already registered")
		}
		return nil, internalError("failed creating file record", err)
	}

	s.metrics.Observe("register", metrics.ResultSuccess)
	logger.InfoWithUser(ownerID.String(), "file_registered", map[string]interface{}{
		"file_id":     file.ID.String(),
		"storage_key": key,
		"file_size":   file.Size,
	})
	return file, nil
}

// Copy duplicates the file's content and record into folderID (nil for root).
func (s *FileService) Copy(ctx context.Context, ownerID, fileID uuid.UUID, folderID *uuid.UUID) (*models.File, error) {
	source, err := s.ownedFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.ValidatePlacement(ctx, ownerID, folderID); err != nil {
		return nil, err
	}

	key := storage.DeriveKey(source.OriginalName, ownerID.String(), folderString(folderID))
	url, err := s.storage.Copy(ctx, source.StorageKey, key)
	if err != nil {
		s.metrics.Observe("copy", metrics.ResultFailure)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, notFoundError("file content not found")
		}
		return nil, internalError("failed copying file", err)
	}

	file := &models.File{
		Name:         source.Name,
		OriginalName: source.OriginalName,
		Description:  source.Description,
		MimeType:     source.MimeType,
		Size:         source.Size,
		StorageURL:   url,
		StorageKey:   key,
		Extension:    source.Extension,
		Metadata:     source.Metadata,
		UserID:       ownerID,
		FolderID:     folderID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		s.metrics.Observe("copy", metrics.ResultFailure)
		s.discardObject(ctx, ownerID, key)
		return nil, internalError("failed creating file record", err)
	}

	s.metrics.Observe("copy", metrics.ResultSuccess)
	logger.InfoWithUser(ownerID.String(), "file_copied", map[string]interface{}{
		"source_id": source.ID.String(),
		"file_id":   file.ID.String(),
		"folder_id": folderID,
	})
	return file, nil
}

func (s *FileService) FindAll(ctx context.Context, ownerID uuid.UUID) ([]models.File, error) {
	files, err := s.files.FindByUser(ctx, ownerID)
	if err != nil {
		return nil, internalError("failed listing files", err)
	}
	return files, nil
}

func (s *FileService) FindRoot(ctx context.Context, ownerID uuid.UUID) ([]models.File, error) {
	files, err := s.files.FindRootByUser(ctx, ownerID)
	if err != nil {
		return nil, internalError("failed listing files", err)
	}
	return files, nil
}

func (s *FileService) FindByFolder(ctx context.Context, ownerID, folderID uuid.UUID) ([]models.File, error) {
	folder, err := s.folders.FindByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("folder not found")
		}
		return nil, internalError("failed loading folder", err)
	}
	if folder.UserID != ownerID {
		return nil, forbiddenError("folder does not belong to user")
	}

	files, err := s.files.FindByFolder(ctx, folderID)
	if err != nil {
		return nil, internalError("failed listing files", err)
	}
	return files, nil
}

func (s *FileService) FindByID(ctx context.Context, ownerID, fileID uuid.UUID) (*models.File, error) {
	return s.ownedFile(ctx, ownerID, fileID)
}

func (s *FileService) Update(ctx context.Context, ownerID, fileID uuid.UUID, patch FilePatch) (*models.File, error) {
	file, err := s.ownedFile(ctx, ownerID, fileID)
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

	switch {
	case patch.FolderID != nil:
		if err := s.ValidatePlacement(ctx, ownerID, patch.FolderID); err != nil {
			return nil, err
		}
		updates["folder_id"] = *patch.FolderID
	case patch.DetachFolder:
		updates["folder_id"] = nil
	}

	if len(updates) == 0 {
		return file, nil
	}
	return s.apply(ctx, ownerID, fileID, updates, "file_updated")
}

// MoveToFolder changes only the file's folder. A nil folderID moves it to the root.
func (s *FileService) MoveToFolder(ctx context.Context, ownerID, fileID uuid.UUID, folderID *uuid.UUID) (*models.File, error) {
	if _, err := s.ownedFile(ctx, ownerID, fileID); err != nil {
		return nil, err
	}
	if err := s.ValidatePlacement(ctx, ownerID, folderID); err != nil {
		return nil, err
	}

	var target interface{}
	if folderID != nil {
		target = *folderID
	}
	return s.apply(ctx, ownerID, fileID, map[string]interface{}{"folder_id": target}, "file_moved")
}

// Delete removes the file record. The backing object is deleted first on a
// best-effort basis: a storage failure is logged and the record still goes.
func (s *FileService) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	file, err := s.ownedFile(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, file.StorageKey); err != nil {
		s.metrics.Observe("storage_delete", metrics.ResultFailure)
		logger.ErrorWithUser(ownerID.String(), "storage_delete_failed", err, map[string]interface{}{
			"file_id":     file.ID.String(),
			"storage_key": file.StorageKey,
		})
	} else {
		s.metrics.Observe("storage_delete", metrics.ResultSuccess)
	}

	if err := s.files.Delete(ctx, file.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("file not found")
		}
		return internalError("failed deleting file", err)
	}

	logger.InfoWithUser(ownerID.String(), "file_deleted", map[string]interface{}{
		"file_id": file.ID.String(),
	})
	return nil
}

func (s *FileService) DownloadURL(ctx context.Context, ownerID, fileID uuid.UUID) (string, error) {
	file, err := s.ownedFile(ctx, ownerID, fileID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.PresignGet(ctx, file.StorageKey, s.downloadTTL)
	if err != nil {
		return "", internalError("failed generating download url", err)
	}
	return url, nil
}

// Open streams the file's content. The caller closes the reader.
func (s *FileService) Open(ctx context.Context, ownerID, fileID uuid.UUID) (io.ReadCloser, *models.File, error) {
	file, err := s.ownedFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}

	body, _, err := s.storage.Get(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, notFoundError("file content not found")
		}
		return nil, nil, internalError("failed reading file", err)
	}
	return body, file, nil
}

func (s *FileService) apply(ctx context.Context, ownerID, fileID uuid.UUID, updates map[string]interface{}, action string) (*models.File, error) {
	updated, err := s.files.Update(ctx, fileID, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("file not found")
		}
		return nil, internalError("failed updating file", err)
	}

	logger.InfoWithUser(ownerID.String(), action, map[string]interface{}{
		"file_id":   fileID.String(),
		"folder_id": updated.FolderID,
	})
	return updated, nil
}

func (s *FileService) ownedFile(ctx context.Context, ownerID, fileID uuid.UUID) (*models.File, error) {
	file, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("file not found")
		}
		return nil, internalError("failed loading file", err)
	}
	if file.UserID != ownerID {
		logger.WarnWithUser(ownerID.String(), "permission_denied", map[string]interface{}{
			"target_id":   fileID.String(),
			"target_type": "file",
		})
		return nil, forbiddenError("file does not belong to user")
	}
	return file, nil
}

func (s *FileService) discardObject(ctx context.Context, ownerID uuid.UUID, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.ErrorWithUser(ownerID.String(), "storage_cleanup_failed", err, map[string]interface{}{
			"storage_key": key,
		})
	}
}

func folderString(folderID *uuid.UUID) string {
	if folderID == nil {
		return ""
	}
	return folderID.String()
}

func folderTag(folderID *uuid.UUID) string {
	if folderID == nil {
		return rootFolderTag
	}
	return folderID.String()
}

// extensionOf returns nil for names without a dot.
func extensionOf(name string) *string {
	_, ext := storage.SplitExtension(name)
	if ext == "" {
		return nil
	}
	return &ext
}

func nonEmpty(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
