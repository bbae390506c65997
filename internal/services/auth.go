package services

import (
	"context"
	"errors"

	"github.com/filevault/backend/internal/metrics"
	"github.com/filevault/backend/internal/models"
	"github.com/filevault/backend/internal/repository"
	"github.com/filevault/backend/pkg/logger"
	"github.com/filevault/backend/pkg/utils"
)

type AuthService struct {
	users   UserStore
	tokens  TokenManager
	metrics *metrics.Metrics
}

func NewAuthService(users UserStore, tokens TokenManager, m *metrics.Metrics) *AuthService {
	return &AuthService{users: users, tokens: tokens, metrics: m}
}

// Login verifies the credentials and issues a token carrying {sub, email}.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.Observe("login", metrics.ResultFailure)
			logger.Warn("login_failed", map[string]interface{}{"reason": "unknown_email"})
			return "", nil, unauthorizedError("invalid credentials")
		}
		return "", nil, internalError("failed loading user", err)
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		s.metrics.Observe("login", metrics.ResultFailure)
		logger.WarnWithUser(user.ID.String(), "login_failed", map[string]interface{}{"reason": "bad_password"})
		return "", nil, unauthorizedError("invalid credentials")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, internalError("failed generating token", err)
	}

	s.metrics.Observe("login", metrics.ResultSuccess)
	logger.InfoWithUser(user.ID.String(), "login_success", nil)
	return token, user, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Message: "invalid or expired token", Err: err}
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, unauthorizedError("invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorizedError("user not found")
		}
		return nil, internalError("failed loading user", err)
	}
	return user, nil
}
