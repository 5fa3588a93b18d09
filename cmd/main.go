package main

import (
	"net/http"

	"pos-backend/internal/handler"
	mid "pos-backend/internal/middleware"
	"pos-backend/pkg/config"
	"pos-backend/pkg/database"
	"pos-backend/pkg/logger"
	"pos-backend/prometheus"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// requestValidator wires go-playground/validator into echo's c.Validate.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting pos-backend", appConfig.LogConfig()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established", zap.String("db_path", appConfig.DB.Path))

	// Initialize Echo instance
	e := echo.New()
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Routes
	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Catalog management
	productAPI := e.Group("/api/products")
	productAPI.GET("", handler.ListProducts)
	productAPI.GET("/:id", handler.GetProduct)
	productAPI.GET("/:id/stock", handler.GetProductStock)
	productAPI.POST("", handler.CreateProduct)
	productAPI.PUT("/:id", handler.UpdateProduct)
	productAPI.DELETE("/:id", handler.DeleteProduct)

	// Sales and payments
	saleAPI := e.Group("/api/sales")
	saleAPI.GET("", handler.ListSales)
	saleAPI.GET("/:id", handler.GetSale)
	saleAPI.POST("", handler.CreateSale)
	saleAPI.DELETE("/:id", handler.DeleteSale)
	saleAPI.GET("/:id/payments", handler.GetPaymentSummary)
	saleAPI.POST("/:id/payments", handler.AddPayment)
	saleAPI.GET("/:id/returnable", handler.GetReturnableItems)

	// Returns
	returnAPI := e.Group("/api/returns")
	returnAPI.GET("", handler.ListReturns)
	returnAPI.GET("/:id", handler.GetReturn)
	returnAPI.POST("", handler.CreateReturn)

	// Stock adjustments
	adjustmentAPI := e.Group("/api/stock-adjustments")
	adjustmentAPI.GET("", handler.ListAdjustments)
	adjustmentAPI.GET("/:id", handler.GetAdjustment)
	adjustmentAPI.POST("", handler.ApplyAdjustment)

	// Inventory monitoring
	e.GET("/api/inventory/low-stock", handler.GetLowStockItems)

	// Customers
	customerAPI := e.Group("/api/customers")
	customerAPI.GET("", handler.ListCustomers)
	customerAPI.GET("/:id", handler.GetCustomer)
	customerAPI.POST("", handler.CreateCustomer)
	customerAPI.PUT("/:id", handler.UpdateCustomer)
	customerAPI.DELETE("/:id", handler.DeleteCustomer)

	// Expenses
	expenseAPI := e.Group("/api/expenses")
	expenseAPI.GET("", handler.ListExpenses)
	expenseAPI.POST("", handler.CreateExpense)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
