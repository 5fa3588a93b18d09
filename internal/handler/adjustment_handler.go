package handler

import (
	"net/http"
	"strconv"
	"time"

	"pos-backend/internal/ledger"
	"pos-backend/internal/model"
	"pos-backend/pkg/database"
	"pos-backend/pkg/logger"
	"pos-backend/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdjustmentItemRequest is one line of a stock adjustment request
type AdjustmentItemRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Mode      string `json:"mode" validate:"required,oneof=set add remove"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// AdjustmentRequest defines the structure for stock adjustment requests
type AdjustmentRequest struct {
	Date   *time.Time              `json:"date"`
	Reason string                  `json:"reason"`
	Notes  string                  `json:"notes"`
	Items  []AdjustmentItemRequest `json:"items"`
}

// ApplyAdjustment handles applying a manual stock correction
func ApplyAdjustment(c echo.Context) error {
	log := logger.FromEcho(c)

	var req AdjustmentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Adjustment validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	input := &ledger.NewAdjustment{
		Reason: req.Reason,
		Notes:  req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, ledger.NewAdjustmentItem{
			ProductID: item.ProductID,
			Mode:      model.AdjustmentMode(item.Mode),
			Quantity:  item.Quantity,
			Note:      item.Note,
		})
	}

	defer prometheus.TrackDBOperation("apply_adjustment")(time.Now())
	adjustment, err := ledger.ApplyAdjustment(c.Request().Context(), database.GetDB(), input)
	if err != nil {
		prometheus.RecordAdjustmentOperation("apply", "rejected")
		return respondLedgerError(c, log, "apply_adjustment", err)
	}

	prometheus.RecordAdjustmentOperation("apply", "ok")
	log.Info("Stock adjustment applied",
		zap.Uint("adjustment_id", adjustment.ID),
		zap.Int("items", len(adjustment.Items)),
		zap.String("reason", adjustment.Reason))
	return c.JSON(http.StatusCreated, adjustment)
}

// ListAdjustments handles listing recent stock adjustments
func ListAdjustments(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit parameter"})
		}
		limit = parsed
	}

	adjustments, err := ledger.ListAdjustments(c.Request().Context(), database.GetDB(), limit)
	if err != nil {
		return respondLedgerError(c, log, "list_adjustments", err)
	}

	return c.JSON(http.StatusOK, adjustments)
}

// GetAdjustment handles retrieving a single stock adjustment with its items
func GetAdjustment(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid adjustment ID"})
	}

	adjustment, err := ledger.GetAdjustment(c.Request().Context(), database.GetDB(), uint(id))
	if err != nil {
		return respondLedgerError(c, log, "get_adjustment", err)
	}

	return c.JSON(http.StatusOK, adjustment)
}
