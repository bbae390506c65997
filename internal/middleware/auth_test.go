package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filevault/backend/internal/models"
	"github.com/filevault/backend/internal/services"
	"github.com/filevault/backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubAuthenticator struct {
	user   *models.User
	tokens map[string]error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if err, ok := s.tokens[token]; ok {
		return nil, err
	}
	return s.user, nil
}

func newStubAuthenticator() *stubAuthenticator {
	user := &models.User{Name: "Test User", Email: "stub@test.com"}
	user.ID = uuid.New()
	return &stubAuthenticator{
		user: user,
		tokens: map[string]error{
			"expired": &services.Error{Kind: services.KindUnauthorized, Message: "invalid or expired token"},
			"orphan":  &services.Error{Kind: services.KindUnauthorized, Message: "user not found"},
			"broken":  errors.New("database unavailable"),
		},
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed decoding body: %v body=%q", err, string(raw))
	}
	return body
}

func TestRequireAuth(t *testing.T) {
	logger.Init()
	stub := newStubAuthenticator()
	auth := NewAuthMiddleware(stub)

	app := fiber.New()
	app.Get("/protected", auth.RequireAuth, func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.JSON(fiber.Map{
			"email":  user.Email,
			"userID": logger.GetUserIDFromContext(c),
		})
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", fiber.StatusUnauthorized, "missing authorization header"},
		{"no bearer prefix", "Token abc", fiber.StatusUnauthorized, "invalid authorization format"},
		{"empty bearer", "Bearer   ", fiber.StatusUnauthorized, "invalid authorization format"},
		{"invalid token", "Bearer expired", fiber.StatusUnauthorized, "invalid or expired token"},
		{"deleted user", "Bearer orphan", fiber.StatusUnauthorized, "user not found"},
		{"backend failure", "Bearer broken", fiber.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			body := decodeBody(t, resp)
			if body["success"] != false || body["error"] != tt.message {
				t.Fatalf("unexpected body: %#v", body)
			}
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody(t, resp)
		if body["email"] != stub.user.Email {
			t.Fatalf("unexpected user: %#v", body)
		}
		if body["userID"] != stub.user.ID.String() {
			t.Fatalf("expected userID local %s, got %#v", stub.user.ID, body["userID"])
		}
	})
}

func TestGetCurrentUserWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if GetCurrentUser(c) != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		c.Locals(currentUserKey, "not-a-user")
		if GetCurrentUser(c) != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(CORS("http://localhost:3000"))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}
