package handlers

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/filevault/backend/internal/middleware"
	"github.com/filevault/backend/internal/services"
	"github.com/filevault/backend/pkg/logger"
	"github.com/filevault/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FilesHandler struct {
	Files *services.FileService
}

func NewFilesHandler(files *services.FileService) *FilesHandler {
	return &FilesHandler{Files: files}
}

type uploadURLRequest struct {
	FileName string     `json:"fileName" validate:"required,max=255"`
	MimeType string     `json:"mimeType"`
	FolderID optionalID `json:"folderId"`
}

type registerFileRequest struct {
	StorageKey  string         `json:"storageKey" validate:"required"`
	Name        *string        `json:"name" validate:"omitempty,max=255"`
	Description *string        `json:"description" validate:"omitempty,max=1000"`
	FolderID    optionalID     `json:"folderId"`
	Metadata    map[string]any `json:"metadata"`
}

type updateFileRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	FolderID    optionalID `json:"folderId"`
}

type moveFileRequest struct {
	FolderID optionalID `json:"folderId"`
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}

	folderID, err := parseFolderParam(formOrQuery(c, "folderId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	filename := filepath.Base(strings.TrimSpace(fileHeader.Filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return utils.Error(c, fiber.StatusBadRequest, "invalid filename")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed opening uploaded file")
	}
	defer stream.Close()

	var description *string
	if value := formOrQuery(c, "description"); value != "" {
		description = &value
	}

	file, err := h.Files.Upload(c.UserContext(), currentUser.ID, services.UploadInput{
		OriginalName: filename,
		MimeType:     contentType,
		Size:         fileHeader.Size,
		Body:         stream,
		FolderID:     folderID,
		Description:  description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, file)
}

func (h *FilesHandler) UploadURL(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req uploadURLRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateRequest(req); msg != "" {
		return utils.Error(c, fiber.StatusBadRequest, msg)
	}
	folderID, _, err := req.FolderID.resolve("folderId")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	ticket, err := h.Files.PrepareUpload(c.UserContext(), currentUser.ID, services.PrepareUploadInput{
		OriginalName: req.FileName,
		MimeType:     req.MimeType,
		FolderID:     folderID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, ticket)
}

func (h *FilesHandler) Register(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req registerFileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateRequest(req); msg != "" {
		return utils.Error(c, fiber.StatusBadRequest, msg)
	}
	folderID, _, err := req.FolderID.resolve("folderId")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.Files.Register(c.UserContext(), currentUser.ID, services.RegisterFileInput{
		StorageKey:  req.StorageKey,
		Name:        req.Name,
		Description: req.Description,
		FolderID:    folderID,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, file)
}

func (h *FilesHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	files, err := h.Files.FindAll(c.UserContext(), currentUser.ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, files)
}

func (h *FilesHandler) ListRoot(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	files, err := h.Files.FindRoot(c.UserContext(), currentUser.ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, files)
}

func (h *FilesHandler) ListByFolder(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("folderId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	files, err := h.Files.FindByFolder(c.UserContext(), currentUser.ID, folderID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, files)
}

func (h *FilesHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, err := h.Files.FindByID(c.UserContext(), currentUser.ID, fileID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, file)
}

func (h *FilesHandler) DownloadURL(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	url, err := h.Files.DownloadURL(c.UserContext(), currentUser.ID, fileID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"downloadUrl": url})
}

// Download streams the content through the API for clients that cannot reach
// the object store directly.
func (h *FilesHandler) Download(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	body, file, err := h.Files.Open(c.UserContext(), currentUser.ID, fileID)
	if err != nil {
		return respondError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_downloaded", map[string]interface{}{
		"file_id":    file.ID.String(),
		"file_size":  file.Size,
		"request_id": getRequestID(c),
	})

	c.Set(fiber.HeaderContentType, file.MimeType)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	return c.SendStream(body, int(file.Size))
}

func (h *FilesHandler) Copy(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	var req moveFileRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	folderID, _, err := req.FolderID.resolve("folderId")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.Files.Copy(c.UserContext(), currentUser.ID, fileID, folderID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, file)
}

func (h *FilesHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	var req updateFileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateRequest(req); msg != "" {
		return utils.Error(c, fiber.StatusBadRequest, msg)
	}
	folderID, toRoot, err := req.FolderID.resolve("folderId")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.Files.Update(c.UserContext(), currentUser.ID, fileID, services.FilePatch{
		Name:         req.Name,
		Description:  req.Description,
		FolderID:     folderID,
		DetachFolder: toRoot,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, file)
}

// Move takes {"folderId": id}; null, "" or an absent field move to the root.
func (h *FilesHandler) Move(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	var req moveFileRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	folderID, _, err := req.FolderID.resolve("folderId")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.Files.MoveToFolder(c.UserContext(), currentUser.ID, fileID, folderID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "File moved successfully",
		"file":    file,
	})
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	if err := h.Files.Delete(c.UserContext(), currentUser.ID, fileID); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "File deleted successfully"})
}

func formOrQuery(c *fiber.Ctx, key string) string {
	if value := strings.TrimSpace(c.FormValue(key)); value != "" {
		return value
	}
	return strings.TrimSpace(c.Query(key))
}
