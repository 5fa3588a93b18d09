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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentRequest defines the structure for payment recording requests
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" validate:"required,oneof=cash card mobile bank other"`
	Note   string          `json:"note"`
}

// AddPayment handles recording a payment against a sale
func AddPayment(c echo.Context) error {
	log := logger.FromEcho(c)
	saleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid sale ID"})
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Payment validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	defer prometheus.TrackDBOperation("add_payment")(time.Now())
	summary, err := ledger.AddPayment(c.Request().Context(), database.GetDB(), &ledger.NewPayment{
		SaleID: uint(saleID),
		Amount: req.Amount,
		Method: model.PaymentMethod(req.Method),
		Note:   req.Note,
	})
	if err != nil {
		prometheus.RecordPaymentOperation("add", "rejected")
		return respondLedgerError(c, log, "add_payment", err)
	}

	prometheus.RecordPaymentOperation("add", "ok")
	log.Info("Payment recorded",
		zap.Uint64("sale_id", saleID),
		zap.String("amount", req.Amount.String()),
		zap.String("method", req.Method),
		zap.Bool("paid", summary.Paid))
	return c.JSON(http.StatusCreated, summary)
}

// GetPaymentSummary handles retrieving the computed balance of a sale
func GetPaymentSummary(c echo.Context) error {
	log := logger.FromEcho(c)
	saleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid sale ID"})
	}

	summary, err := ledger.PaymentSummaryOf(c.Request().Context(), database.GetDB(), uint(saleID))
	if err != nil {
		return respondLedgerError(c, log, "get_payment_summary", err)
	}

	return c.JSON(http.StatusOK, summary)
}
