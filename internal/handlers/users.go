package handlers

import (
	"github.com/filevault/backend/internal/services"
	"github.com/filevault/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type UsersHandler struct {
	Users *services.UserService
}

func NewUsersHandler(users *services.UserService) *UsersHandler {
	return &UsersHandler{Users: users}
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateRequest(req); msg != "" {
		return utils.Error(c, fiber.StatusBadRequest, msg)
	}

	user, token, err := h.Users.Register(c.UserContext(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"user":        user,
		"accessToken": token,
	})
}

func (h *UsersHandler) CheckEmail(c *fiber.Ctx) error {
	inUse, err := h.Users.EmailInUse(c.UserContext(), c.Query("email"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"inUse": inUse})
}
