package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestLogin(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := createTestUser(t, env, "login@test.com")

	t.Run("valid credentials", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/auth/login", map[string]any{
			"email":    "Login@Test.com",
			"password": "password123",
		}, nil)
		assertStatus(t, resp, fiber.StatusOK)

		data := dataMap(t, decodeJSONMap(t, resp))
		token, _ := data["accessToken"].(string)
		if token == "" {
			t.Fatalf("expected access token, got %+v", data)
		}

		meResp := performRequest(t, env.app, http.MethodGet, "/auth/me", nil, authHeaders(token))
		assertStatus(t, meResp, fiber.StatusOK)
		me := dataMap(t, decodeJSONMap(t, meResp))
		if me["id"] != user.ID.String() {
			t.Fatalf("expected user %s, got %+v", user.ID, me)
		}
		if _, leaked := me["passwordHash"]; leaked {
			t.Fatalf("password hash must not be serialized: %+v", me)
		}
	})

	tests := []struct {
		name    string
		payload map[string]any
		status  int
		message string
	}{
		{"wrong password", map[string]any{"email": "login@test.com", "password": "nope"}, fiber.StatusUnauthorized, "invalid credentials"},
		{"unknown email", map[string]any{"email": "ghost@test.com", "password": "password123"}, fiber.StatusUnauthorized, "invalid credentials"},
		{"malformed email", map[string]any{"email": "not-an-email", "password": "password123"}, fiber.StatusBadRequest, "email must be a valid email address"},
		{"missing password", map[string]any{"email": "login@test.com"}, fiber.StatusBadRequest, "password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performJSONRequest(t, env.app, http.MethodPost, "/auth/login", tt.payload, nil)
			assertStatus(t, resp, tt.status)
			assertEnvelopeError(t, decodeJSONMap(t, resp), tt.message)
		})
	}

	t.Run("unparseable body", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPost, "/auth/login", strings.NewReader("{"), map[string]string{
			"Content-Type": "application/json",
		})
		assertStatus(t, resp, fiber.StatusBadRequest)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "invalid request body")
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/auth/me", "/folder/all", "/folder/root", "/files", "/files/root"} {
		resp := performRequest(t, env.app, http.MethodGet, path, nil, nil)
		assertStatus(t, resp, fiber.StatusUnauthorized)
		assertEnvelopeError(t, decodeJSONMap(t, resp), "missing authorization header")
	}

	resp := performRequest(t, env.app, http.MethodGet, "/folder/all", nil, authHeaders("garbage"))
	assertStatus(t, resp, fiber.StatusUnauthorized)
	assertEnvelopeError(t, decodeJSONMap(t, resp), "invalid or expired token")
}

func TestCreateUser(t *testing.T) {
	env := setupTestEnv(t)

	resp := performJSONRequest(t, env.app, http.MethodPost, "/user/create", map[string]any{
		"name":     "New User",
		"email":    "new@test.com",
		"password": "secret1",
	}, nil)
	assertStatus(t, resp, fiber.StatusCreated)

	data := dataMap(t, decodeJSONMap(t, resp))
	token, _ := data["accessToken"].(string)
	if token == "" {
		t.Fatalf("expected access token, got %+v", data)
	}
	user, _ := data["user"].(map[string]any)
	if user["email"] != "new@test.com" {
		t.Fatalf("unexpected user payload: %+v", data)
	}

	meResp := performRequest(t, env.app, http.MethodGet, "/auth/me", nil, authHeaders(token))
	assertStatus(t, meResp, fiber.StatusOK)

	tests := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{"duplicate email", map[string]any{"name": "Dup", "email": "NEW@test.com", "password": "secret1"}, "email already in use"},
		{"short password", map[string]any{"name": "Short", "email": "short@test.com", "password": "123"}, "password must be at least 6 characters"},
		{"missing name", map[string]any{"email": "noname@test.com", "password": "secret1"}, "name is required"},
		{"invalid email", map[string]any{"name": "Bad", "email": "bad", "password": "secret1"}, "email must be a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performJSONRequest(t, env.app, http.MethodPost, "/user/create", tt.payload, nil)
			assertStatus(t, resp, fiber.StatusBadRequest)
			assertEnvelopeError(t, decodeJSONMap(t, resp), tt.message)
		})
	}
}

func TestCheckEmail(t *testing.T) {
	env := setupTestEnv(t)
	createTestUser(t, env, "taken@test.com")

	resp := performRequest(t, env.app, http.MethodGet, "/user/check-email?email=taken@test.com", nil, nil)
	assertStatus(t, resp, fiber.StatusOK)
	if inUse, _ := dataMap(t, decodeJSONMap(t, resp))["inUse"].(bool); !inUse {
		t.Fatal("expected taken email to be in use")
	}

	resp = performRequest(t, env.app, http.MethodGet, "/user/check-email?email=free@test.com", nil, nil)
	assertStatus(t, resp, fiber.StatusOK)
	if inUse, _ := dataMap(t, decodeJSONMap(t, resp))["inUse"].(bool); inUse {
		t.Fatal("expected free email to be available")
	}

	resp = performRequest(t, env.app, http.MethodGet, "/user/check-email", nil, nil)
	assertStatus(t, resp, fiber.StatusBadRequest)
	assertEnvelopeError(t, decodeJSONMap(t, resp), "email parameter is required")
}
