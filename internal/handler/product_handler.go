package handler

import (
	"net/http"
	"strconv"

	"pos-backend/internal/ledger"
	"pos-backend/internal/model"
	"pos-backend/pkg/database"
	"pos-backend/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name          string           `json:"name" validate:"required"`
	Category      string           `json:"category"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	SKU           string           `json:"sku"`
	StockTracked  bool             `json:"stock_tracked"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	LowStockLimit int              `json:"low_stock_limit" validate:"gte=0"`
	IsActive      bool             `json:"is_active"`
}

// ListProducts handles retrieving all products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	db := database.GetDB()
	var products []model.Product

	// Handle query parameters for filtering
	query := db

	// Filter by active status if specified
	isActive := c.QueryParam("is_active")
	if isActive != "" {
		active, err := strconv.ParseBool(isActive)
		if err == nil {
			query = query.Where("is_active = ?", active)
		} else {
			log.Warn("Invalid is_active parameter", zap.String("value", isActive), zap.Error(err))
		}
	}

	// Filter by category if specified
	category := c.QueryParam("category")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	// Execute the query
	result := query.Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	return c.JSON(http.StatusOK, product)
}

// GetProductStock handles retrieving the current stock quantity of a product
func GetProductStock(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product ID"})
	}

	quantity, err := ledger.StockOf(c.Request().Context(), database.GetDB(), uint(id))
	if err != nil {
		return respondLedgerError(c, log, "get_stock", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product_id":     uint(id),
		"stock_quantity": quantity,
	})
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Product validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.UnitPrice.IsNegative() {
		log.Warn("Negative unit price rejected", zap.String("name", req.Name))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Unit price must not be negative",
		})
	}

	// Create the product
	product := model.Product{
		Name:          req.Name,
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		UnitCost:      req.UnitCost,
		SKU:           req.SKU,
		StockTracked:  req.StockTracked,
		StockQuantity: req.StockQuantity,
		LowStockLimit: req.LowStockLimit,
		IsActive:      req.IsActive,
	}

	result := database.GetDB().Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create product",
		})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Bool("stock_tracked", product.StockTracked))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product. Historical sale and
// return lines keep their own snapshots, so edits here never rewrite history.
func UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Product validation failed", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.UnitPrice.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Unit price must not be negative",
		})
	}

	// Find existing product
	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	// Update fields
	product.Name = req.Name
	product.Category = req.Category
	product.UnitPrice = req.UnitPrice
	product.UnitCost = req.UnitCost
	product.SKU = req.SKU
	product.StockTracked = req.StockTracked
	product.StockQuantity = req.StockQuantity
	product.LowStockLimit = req.LowStockLimit
	product.IsActive = req.IsActive

	result = database.GetDB().Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update product",
		})
	}

	log.Info("Product updated",
		zap.String("product_id", id),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete product",
		})
	}

	if result.RowsAffected == 0 {
		log.Warn("Product not found for deletion", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	log.Info("Product deleted", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}
