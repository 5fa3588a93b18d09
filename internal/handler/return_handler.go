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

// ReturnItemRequest is one line of a return creation request
type ReturnItemRequest struct {
	SaleItemID uint   `json:"sale_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required"`
	Note       string `json:"note"`
}

// ReturnRequest defines the structure for return creation requests
type ReturnRequest struct {
	SaleID       uint                `json:"sale_id" validate:"required"`
	Items        []ReturnItemRequest `json:"items"`
	RefundMethod string              `json:"refund_method" validate:"omitempty,oneof=cash card mobile bank other"`
	RefundAmount *decimal.Decimal    `json:"refund_amount"`
	Reason       string              `json:"reason"`
	RestoreStock bool                `json:"restore_stock"`
}

// GetReturnableItems handles listing what can still be returned from a sale
func GetReturnableItems(c echo.Context) error {
	log := logger.FromEcho(c)
	saleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid sale ID"})
	}

	items, err := ledger.ReturnableItems(c.Request().Context(), database.GetDB(), uint(saleID))
	if err != nil {
		return respondLedgerError(c, log, "get_returnable_items", err)
	}

	return c.JSON(http.StatusOK, items)
}

// CreateReturn handles creating a return against a sale, optionally restoring stock
func CreateReturn(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ReturnRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Return validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	input := &ledger.NewReturn{
		SaleID:       req.SaleID,
		RefundMethod: model.PaymentMethod(req.RefundMethod),
		RefundAmount: req.RefundAmount,
		Reason:       req.Reason,
		RestoreStock: req.RestoreStock,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, ledger.NewReturnItem{
			SaleItemID: item.SaleItemID,
			Quantity:   item.Quantity,
			Note:       item.Note,
		})
	}

	defer prometheus.TrackDBOperation("create_return")(time.Now())
	ret, err := ledger.CreateReturn(c.Request().Context(), database.GetDB(), input)
	if err != nil {
		prometheus.RecordReturnOperation("create", "rejected")
		return respondLedgerError(c, log, "create_return", err)
	}

	prometheus.RecordReturnOperation("create", "ok")
	log.Info("Return created",
		zap.Uint("return_id", ret.ID),
		zap.Uint("sale_id", ret.SaleID),
		zap.String("refund_amount", ret.RefundAmount.String()),
		zap.Bool("stock_restored", ret.StockRestored))
	return c.JSON(http.StatusCreated, ret)
}

// ListReturns handles listing recent returns
func ListReturns(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit parameter"})
		}
		limit = parsed
	}

	returns, err := ledger.ListReturns(c.Request().Context(), database.GetDB(), limit)
	if err != nil {
		return respondLedgerError(c, log, "list_returns", err)
	}

	return c.JSON(http.StatusOK, returns)
}

// GetReturn handles retrieving a single return with its items
func GetReturn(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid return ID"})
	}

	ret, err := ledger.GetReturn(c.Request().Context(), database.GetDB(), uint(id))
	if err != nil {
		return respondLedgerError(c, log, "get_return", err)
	}

	return c.JSON(http.StatusOK, ret)
}
