package handler

import (
	"net/http"
	"strconv"
	"time"

	"pos-backend/internal/ledger"
	"pos-backend/pkg/database"
	"pos-backend/pkg/logger"
	"pos-backend/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleItemRequest is one line of a sale creation request
type SaleItemRequest struct {
	ProductID *uint           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleRequest defines the structure for sale creation requests
type SaleRequest struct {
	CustomerID *uint             `json:"customer_id"`
	Items      []SaleItemRequest `json:"items"`
}

// CreateSale handles creating a sale with stock validation and decrement
func CreateSale(c echo.Context) error {
	log := logger.FromEcho(c)

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	input := &ledger.NewSale{CustomerID: req.CustomerID}
	for _, item := range req.Items {
		input.Items = append(input.Items, ledger.NewSaleItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	defer prometheus.TrackDBOperation("create_sale")(time.Now())
	sale, err := ledger.CreateSale(c.Request().Context(), database.GetDB(), input)
	if err != nil {
		prometheus.RecordSaleOperation("create", "rejected")
		return respondLedgerError(c, log, "create_sale", err)
	}

	prometheus.RecordSaleOperation("create", "ok")
	log.Info("Sale created",
		zap.Uint("sale_id", sale.ID),
		zap.Int("items", len(sale.Items)),
		zap.String("total_amount", sale.TotalAmount.String()))
	return c.JSON(http.StatusCreated, sale)
}

// GetSale handles retrieving a single sale with its items
func GetSale(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid sale ID"})
	}

	sale, err := ledger.GetSale(c.Request().Context(), database.GetDB(), uint(id))
	if err != nil {
		return respondLedgerError(c, log, "get_sale", err)
	}

	return c.JSON(http.StatusOK, sale)
}

// ListSales handles listing sales with optional filters
func ListSales(c echo.Context) error {
	log := logger.FromEcho(c)

	var filter ledger.SaleFilter
	if v := c.QueryParam("customer_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid customer_id parameter"})
		}
		customerID := uint(id)
		filter.CustomerID = &customerID
	}
	if v := c.QueryParam("paid"); v != "" {
		paid, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid paid parameter"})
		}
		filter.Paid = &paid
	}
	if v := c.QueryParam("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid from parameter"})
		}
		filter.From = &from
	}
	if v := c.QueryParam("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid to parameter"})
		}
		filter.To = &to
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit parameter"})
		}
		filter.Limit = limit
	}

	sales, err := ledger.ListSales(c.Request().Context(), database.GetDB(), filter)
	if err != nil {
		return respondLedgerError(c, log, "list_sales", err)
	}

	return c.JSON(http.StatusOK, sales)
}

// DeleteSale handles deleting a sale. Deletion is an administrative
// correction: stock is never restored, and a sale with payments or returns is
// only removed when ?cascade=true is passed explicitly.
func DeleteSale(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid sale ID"})
	}

	cascade := false
	if v := c.QueryParam("cascade"); v != "" {
		cascade, err = strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid cascade parameter"})
		}
	}

	defer prometheus.TrackDBOperation("delete_sale")(time.Now())
	if err := ledger.DeleteSale(c.Request().Context(), database.GetDB(), uint(id), cascade); err != nil {
		prometheus.RecordSaleOperation("delete", "rejected")
		return respondLedgerError(c, log, "delete_sale", err)
	}

	prometheus.RecordSaleOperation("delete", "ok")
	log.Info("Sale deleted", zap.Uint64("sale_id", id), zap.Bool("cascade", cascade))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Sale deleted successfully",
	})
}
