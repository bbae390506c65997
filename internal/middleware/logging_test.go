package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filevault/backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	var metric dto.Metric
	if err := vec.WithLabelValues(labels...).Write(&metric); err != nil {
		t.Fatalf("failed reading counter: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(Metrics(m))
	app.Get("/files/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, path := range []string{"/files/a", "/files/b", "/missing"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
	}

	if got := counterValue(t, m.Requests, "GET", "/files/:id", "200"); got != 2 {
		t.Fatalf("expected 2 requests for route template, got %v", got)
	}
	if got := counterValue(t, m.Requests, "GET", "unmatched", "404"); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
}

func TestLoggersPassThrough(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Use(SecurityLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/denied", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusForbidden) })

	tests := map[string]int{
		"/ok":      fiber.StatusOK,
		"/denied":  fiber.StatusForbidden,
		"/missing": fiber.StatusNotFound,
	}
	for path, status := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("request to %s failed: %v", path, err)
		}
		if resp.StatusCode != status {
			t.Fatalf("%s: expected %d, got %d", path, status, resp.StatusCode)
		}
		resp.Body.Close()
	}
}
