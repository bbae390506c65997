package services

import (
	"context"
	"errors"
	"strings"

	"github.com/filevault/backend/internal/metrics"
	"github.com/filevault/backend/internal/models"
	"github.com/filevault/backend/internal/repository"
	"github.com/filevault/backend/pkg/logger"
	"github.com/filevault/backend/pkg/utils"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UserService struct {
	users   UserStore
	tokens  TokenManager
	metrics *metrics.Metrics
}

func NewUserService(users UserStore, tokens TokenManager, m *metrics.Metrics) *UserService {
	return &UserService{users: users, tokens: tokens, metrics: m}
}

// Register creates the account and returns it with a fresh access token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return nil, "", validationError("name is required")
	}
	if email == "" {
		return nil, "", validationError("email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", validationError("password must be at least 6 characters")
	}

	inUse, err := s.emailInUse(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if inUse {
		return nil, "", validationError("email already in use")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", internalError("failed hashing password", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		s.metrics.Observe("register", metrics.ResultFailure)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", validationError("email already in use")
		}
		return nil, "", internalError("failed creating user", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", internalError("failed generating token", err)
	}

	s.metrics.Observe("register", metrics.ResultSuccess)
	logger.InfoWithUser(user.ID.String(), "user_registered", map[string]interface{}{
		"email": user.Email,
	})
	return user, token, nil
}

func (s *UserService) EmailInUse(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, validationError("email parameter is required")
	}
	return s.emailInUse(ctx, email)
}

func (s *UserService) emailInUse(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, internalError("failed checking email", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
