package handlers

import (
	"github.com/filevault/backend/internal/middleware"
	"github.com/filevault/backend/internal/services"
	"github.com/filevault/backend/pkg/logger"
	"github.com/filevault/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateRequest(req); msg != "" {
		return utils.Error(c, fiber.StatusBadRequest, msg)
	}

	token, user, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	logger.Info("user_login", map[string]interface{}{
		"user_id":    user.ID.String(),
		"ip":         c.IP(),
		"request_id": getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"accessToken": token,
		"user":        user,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return utils.Success(c, fiber.StatusOK, currentUser)
}
