package ledger

import (
	"context"
	"fmt"

	"pos-backend/internal/model"

	"gorm.io/gorm"
)

// Severity tiers for low-stock reporting.
const (
	SeverityOut      = "OUT"
	SeverityCritical = "CRITICAL"
	SeverityLow      = "LOW"
)

// LowStockItem is one stock-tracked product at or below its alert threshold.
type LowStockItem struct {
	ProductID     uint   `json:"product_id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	LowStockLimit int    `json:"low_stock_limit"`
	Severity      string `json:"severity"`
}

// severityFor classifies a quantity against the configured limit.
func severityFor(quantity, limit int) string {
	switch {
	case quantity == 0:
		return SeverityOut
	case 2*quantity <= limit:
		return SeverityCritical
	default:
		return SeverityLow
	}
}

// LowStockItems lists stock-tracked products at or below their low-stock
// limit, worst first. Pure read, safe to poll.
func LowStockItems(ctx context.Context, db *gorm.DB) ([]LowStockItem, error) {
	var products []model.Product
	err := db.WithContext(ctx).
		Where("stock_tracked = ? AND stock_quantity <= low_stock_limit", true).
		Order("stock_quantity ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}

	items := make([]LowStockItem, 0, len(products))
	for _, product := range products {
		items = append(items, LowStockItem{
			ProductID:     product.ID,
			Name:          product.Name,
			StockQuantity: product.StockQuantity,
			LowStockLimit: product.LowStockLimit,
			Severity:      severityFor(product.StockQuantity, product.LowStockLimit),
		})
	}
	return items, nil
}
