package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestResponseEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/created", func(c *fiber.Ctx) error {
		return Success(c, fiber.StatusCreated, fiber.Map{"id": "123"})
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return Error(c, fiber.StatusNotFound, "folder not found")
	})

	cases := []struct {
		path    string
		status  int
		success bool
		check   func(t *testing.T, body map[string]any)
	}{
		{
			path:    "/created",
			status:  fiber.StatusCreated,
			success: true,
			check: func(t *testing.T, body map[string]any) {
				data, ok := body["data"].(map[string]any)
				if !ok || data["id"] != "123" {
					t.Fatalf("expected data.id=123, got %v", body["data"])
				}
				if _, present := body["error"]; present {
					t.Fatalf("did not expect error field on success")
				}
			},
		},
		{
			path:    "/missing",
			status:  fiber.StatusNotFound,
			success: false,
			check: func(t *testing.T, body map[string]any) {
				if body["error"] != "folder not found" {
					t.Fatalf("expected error message, got %v", body["error"])
				}
				if _, present := body["data"]; present {
					t.Fatalf("did not expect data field on error")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
			if err != nil {
				t.Fatalf("request to %s failed: %v", tc.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.StatusCode)
			}

			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("failed decoding response body: %v", err)
			}
			if success, _ := body["success"].(bool); success != tc.success {
				t.Fatalf("expected success=%v, got %v", tc.success, body["success"])
			}
			tc.check(t, body)
		})
	}
}
