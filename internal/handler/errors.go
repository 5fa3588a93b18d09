package handler

import (
	"errors"
	"net/http"

	"pos-backend/internal/ledger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusFor maps a ledger error kind to an HTTP status.
func statusFor(err error) int {
	var (
		productNotFound    *ledger.ProductNotFoundError
		customerNotFound   *ledger.CustomerNotFoundError
		saleNotFound       *ledger.SaleNotFoundError
		saleItemNotFound   *ledger.SaleItemNotFoundError
		returnNotFound     *ledger.ReturnNotFoundError
		adjustmentNotFound *ledger.AdjustmentNotFoundError
		invalidQuantity    *ledger.InvalidQuantityError
		invalidUnitPrice   *ledger.InvalidUnitPriceError
		insufficientStock  *ledger.InsufficientStockError
		negativeStock      *ledger.NegativeStockError
		overPayment        *ledger.OverPaymentError
		overReturn         *ledger.OverReturnError
		hasDependents      *ledger.SaleHasDependentsError
	)

	switch {
	case errors.Is(err, ledger.ErrEmptyOrder),
		errors.Is(err, ledger.ErrEmptyReturn),
		errors.Is(err, ledger.ErrEmptyAdjustment),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrInvalidPaymentMethod),
		errors.Is(err, ledger.ErrInvalidAdjustmentMode),
		errors.As(err, &invalidQuantity),
		errors.As(err, &invalidUnitPrice):
		return http.StatusBadRequest
	case errors.As(err, &productNotFound),
		errors.As(err, &customerNotFound),
		errors.As(err, &saleNotFound),
		errors.As(err, &saleItemNotFound),
		errors.As(err, &returnNotFound),
		errors.As(err, &adjustmentNotFound):
		return http.StatusNotFound
	case errors.As(err, &insufficientStock),
		errors.As(err, &negativeStock),
		errors.As(err, &overPayment),
		errors.As(err, &overReturn),
		errors.As(err, &hasDependents):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondLedgerError logs a failed ledger call and writes the mapped response.
// Storage-level failures are not leaked to the client.
func respondLedgerError(c echo.Context, log *zap.Logger, operation string, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Operation failed", zap.String("operation", operation), zap.Error(err))
		return c.JSON(status, echo.Map{"error": "storage error"})
	}

	log.Warn("Operation rejected", zap.String("operation", operation), zap.Error(err))
	return c.JSON(status, echo.Map{"error": err.Error()})
}
