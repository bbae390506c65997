package handlers

import (
	"github.com/filevault/backend/internal/middleware"
	"github.com/filevault/backend/internal/services"
	"github.com/filevault/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FoldersHandler struct {
	Folders *services.FolderService
}

func NewFoldersHandler(folders *services.FolderService) *FoldersHandler {
	return &FoldersHandler{Folders: folders}
}

type createFolderRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Color       *string    `json:"color" validate:"omitempty,hexcolor"`
	ParentID    optionalID `json:"parentId"`
}

type updateFolderRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Color       *string    `json:"color" validate:"omitempty,hexcolor"`
	ParentID    optionalID `json:"parentId"`
}

func (h *FoldersHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateRequest(req); msg != "" {
		return utils.Error(c, fiber.StatusBadRequest, msg)
	}
	parentID, _, err := req.ParentID.resolve("parentId")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	folder, err := h.Folders.Create(c.UserContext(), currentUser.ID, services.CreateFolderInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		ParentID:    parentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusCreated, folder)
}

func (h *FoldersHandler) All(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folders, err := h.Folders.FindAll(c.UserContext(), currentUser.ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, folders)
}

func (h *FoldersHandler) Root(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folders, err := h.Folders.FindRoot(c.UserContext(), currentUser.ID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, folders)
}

func (h *FoldersHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	folder, err := h.Folders.FindByID(c.UserContext(), currentUser.ID, folderID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, folder)
}

func (h *FoldersHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	var req updateFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateRequest(req); msg != "" {
		return utils.Error(c, fiber.StatusBadRequest, msg)
	}
	parentID, toRoot, err := req.ParentID.resolve("parentId")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	folder, err := h.Folders.Update(c.UserContext(), currentUser.ID, folderID, services.FolderPatch{
		Name:         req.Name,
		Description:  req.Description,
		Color:        req.Color,
		ParentID:     parentID,
		DetachParent: toRoot,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, folder)
}

func (h *FoldersHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	if err := h.Folders.Delete(c.UserContext(), currentUser.ID, folderID); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Folder deleted successfully"})
}
