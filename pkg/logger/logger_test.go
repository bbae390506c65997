package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func captureLogger(t *testing.T, level string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	l, err := New(&buf, level, EncodingJSON)
	if err != nil {
		t.Fatalf("failed creating logger: %v", err)
	}

	previous := globalLogger
	Use(l)
	t.Cleanup(func() { globalLogger = previous })

	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed decoding log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	if _, err := New(io.Discard, "loud", EncodingJSON); err == nil {
		t.Fatalf("expected error for invalid level")
	}
	if _, err := New(io.Discard, "info", "xml"); err == nil {
		t.Fatalf("expected error for invalid encoding")
	}
}

func TestLogEntries(t *testing.T) {
	buf := captureLogger(t, "info")

	InfoWithUser("user-1", "folder_created", map[string]interface{}{"folder_id": "f-1"})
	Error("storage_delete_failed", errors.New("boom"), nil)
	Debug("suppressed", nil)

	entries := decodeLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %s", len(entries), buf.String())
	}

	first := entries[0]
	if first["action"] != "folder_created" {
		t.Fatalf("expected action folder_created, got %v", first["action"])
	}
	if first["user_id"] != "user-1" {
		t.Fatalf("expected user_id user-1, got %v", first["user_id"])
	}
	details, _ := first["details"].(map[string]any)
	if details["folder_id"] != "f-1" {
		t.Fatalf("expected folder_id detail, got %v", first["details"])
	}

	second := entries[1]
	if second["level"] != "error" || second["error"] != "boom" {
		t.Fatalf("unexpected error entry: %v", second)
	}
}

func TestNoopWithoutLogger(t *testing.T) {
	previous := globalLogger
	globalLogger = nil
	t.Cleanup(func() { globalLogger = previous })

	Info("ignored", nil)
	Warn("ignored", nil)
	Error("ignored", errors.New("x"), nil)
}

func TestGetRequestBodySummary(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestBodySummary(c))
	})

	cases := []struct {
		name     string
		body     string
		contains string
	}{
		{name: "empty", body: "", contains: "empty"},
		{name: "redacts password", body: `{"email":"a@b.c","password":"secret1"}`, contains: `"password":"[REDACTED]"`},
		{name: "binary", body: "not-json", contains: "binary (8 bytes)"},
		{name: "large", body: strings.Repeat("x", 2048), contains: "large (2048 bytes)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			raw, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(raw), tc.contains) {
				t.Fatalf("expected summary to contain %q, got %q", tc.contains, string(raw))
			}
		})
	}
}
