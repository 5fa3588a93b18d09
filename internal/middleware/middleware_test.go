package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pos-backend/internal/middleware"
	"pos-backend/pkg/config"
	"pos-backend/pkg/logger"
	"pos-backend/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestRequestIDMiddleware_HonorsInboundID(t *testing.T) {
	e := echo.New()
	e.Use(middleware.RequestIDMiddleware)

	var seenID string
	var fromEcho, fromCtx *zap.Logger
	e.GET("/ping", func(c echo.Context) error {
		seenID, _ = c.Get("request_id").(string)
		fromEcho = logger.FromEcho(c)
		fromCtx = logger.FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "upstream-7f3a")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if seenID != "upstream-7f3a" {
		t.Errorf("request_id = %q, inbound header must be kept", seenID)
	}
	if rec.Header().Get(echo.HeaderXRequestID) != "upstream-7f3a" {
		t.Errorf("response header = %q, want the inbound ID echoed", rec.Header().Get(echo.HeaderXRequestID))
	}
	if fromEcho == nil || fromCtx != fromEcho {
		t.Error("request context must carry the same request-scoped logger as the echo context")
	}
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	e := echo.New()
	e.Use(middleware.RequestIDMiddleware)
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := rec.Header().Get(echo.HeaderXRequestID)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated request ID %q is not a UUID: %v", id, err)
	}
}

func TestMetricsMiddleware_CountsByRoute(t *testing.T) {
	prometheus.InitMetrics(&config.Config{
		Metrics: config.MetricsConfig{Prefix: "middleware_test"},
	})

	e := echo.New()
	e.Use(middleware.MetricsMiddleware)
	e.GET("/widgets/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets/42", nil))
	}

	counter := prometheus.HttpRequestsTotal.WithLabelValues("GET", "/widgets/:id", "200")
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Errorf("requests counted = %v, want 2", got)
	}
}
