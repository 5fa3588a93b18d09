package middleware

import (
	"strconv"
	"time"

	"pos-backend/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records a counter and duration histogram per request,
// labelled by method, route pattern and status. The scrape endpoint itself is
// not measured.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Path() == "/metrics" {
			return next(c)
		}

		start := time.Now()
		err := next(c)
		duration := time.Since(start).Seconds()

		method := c.Request().Method
		path := c.Path()
		status := strconv.Itoa(c.Response().Status)

		prometheus.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
		prometheus.HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)

		return err
	}
}
