package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents the product/service master data. A stock-tracked product
// carries a live quantity; a service item ignores the stock fields entirely.
type Product struct {
	ID            uint             `json:"id" gorm:"primarykey"`
	Name          string           `json:"name" gorm:"type:varchar(255);not null"`
	Category      string           `json:"category" gorm:"type:varchar(100);index"`
	UnitPrice     decimal.Decimal  `json:"unit_price" gorm:"type:decimal(20,4);not null"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty" gorm:"type:decimal(20,4)"`
	SKU           string           `json:"sku" gorm:"type:varchar(100);index"`
	StockTracked  bool             `json:"stock_tracked" gorm:"default:false"`
	StockQuantity int              `json:"stock_quantity" gorm:"default:0"`
	LowStockLimit int              `json:"low_stock_limit" gorm:"default:0"`
	IsActive      bool             `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `json:"deleted_at,omitempty" gorm:"index"`
}
