package prometheus

import (
	"time"

	"pos-backend/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Sale metrics
	SaleOperationsCounter prometheus.CounterVec

	// Payment metrics
	PaymentOperationsCounter prometheus.CounterVec

	// Return metrics
	ReturnOperationsCounter prometheus.CounterVec

	// Stock adjustment metrics
	AdjustmentOperationsCounter prometheus.CounterVec

	// Inventory metrics
	LowStockProductsGauge prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Sale metrics
	SaleOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sale_operations_total",
			Help: "Total number of sale operations",
		},
		[]string{"operation", "result"},
	)

	// Payment metrics
	PaymentOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_payment_operations_total",
			Help: "Total number of payment operations",
		},
		[]string{"operation", "result"},
	)

	// Return metrics
	ReturnOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_return_operations_total",
			Help: "Total number of return operations",
		},
		[]string{"operation", "result"},
	)

	// Stock adjustment metrics
	AdjustmentOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_adjustment_operations_total",
			Help: "Total number of stock adjustment operations",
		},
		[]string{"operation", "result"},
	)

	// Low stock metrics
	LowStockProductsGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_low_stock_products",
			Help: "Number of stock-tracked products at or below their alert threshold",
		},
		[]string{"severity"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordSaleOperation increments the counter for sale operations
func RecordSaleOperation(operation string, result string) {
	SaleOperationsCounter.WithLabelValues(operation, result).Inc()
}

// RecordPaymentOperation increments the counter for payment operations
func RecordPaymentOperation(operation string, result string) {
	PaymentOperationsCounter.WithLabelValues(operation, result).Inc()
}

// RecordReturnOperation increments the counter for return operations
func RecordReturnOperation(operation string, result string) {
	ReturnOperationsCounter.WithLabelValues(operation, result).Inc()
}

// RecordAdjustmentOperation increments the counter for stock adjustment operations
func RecordAdjustmentOperation(operation string, result string) {
	AdjustmentOperationsCounter.WithLabelValues(operation, result).Inc()
}

// UpdateLowStockGauge sets the low stock gauge for a severity tier
func UpdateLowStockGauge(severity string, count float64) {
	LowStockProductsGauge.WithLabelValues(severity).Set(count)
}
