package handler

import (
	"net/http"

	"pos-backend/internal/ledger"
	"pos-backend/pkg/database"
	"pos-backend/pkg/logger"
	"pos-backend/prometheus"

	"github.com/labstack/echo/v4"
)

// GetLowStockItems handles listing stock-tracked products at or below their
// alert threshold. Read-only; the dashboard polls it on an interval.
func GetLowStockItems(c echo.Context) error {
	log := logger.FromEcho(c)

	items, err := ledger.LowStockItems(c.Request().Context(), database.GetDB())
	if err != nil {
		return respondLedgerError(c, log, "get_low_stock_items", err)
	}

	// Refresh the gauge alongside the poll.
	counts := map[string]float64{
		ledger.SeverityOut:      0,
		ledger.SeverityCritical: 0,
		ledger.SeverityLow:      0,
	}
	for _, item := range items {
		counts[item.Severity]++
	}
	for severity, count := range counts {
		prometheus.UpdateLowStockGauge(severity, count)
	}

	return c.JSON(http.StatusOK, items)
}
