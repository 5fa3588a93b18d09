package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Return reverses some quantity of a previously completed sale. It is an
// append-only audit record, never edited after creation. StockRestored records
// whether the return put quantities back on the shelf.
type Return struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	SaleID        uint            `json:"sale_id" gorm:"index;not null"`
	RefundMethod  PaymentMethod   `json:"refund_method" gorm:"type:varchar(20)"`
	RefundAmount  decimal.Decimal `json:"refund_amount" gorm:"type:decimal(20,4);not null"`
	Reason        string          `json:"reason" gorm:"type:text"`
	StockRestored bool            `json:"stock_restored" gorm:"default:false"`
	Items         []ReturnItem    `json:"items" gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReturnItem is one returned line, referencing the original sale item with its
// own frozen name/price snapshot.
type ReturnItem struct {
	ID         uint            `json:"id" gorm:"primarykey"`
	ReturnID   uint            `json:"return_id" gorm:"index;not null"`
	SaleItemID uint            `json:"sale_item_id" gorm:"index;not null"`
	ProductID  *uint           `json:"product_id,omitempty"`
	Name       string          `json:"name" gorm:"type:varchar(255);not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,4);not null"`
	LineTotal  decimal.Decimal `json:"line_total" gorm:"type:decimal(20,4);not null"`
	Note       string          `json:"note" gorm:"type:text"`
	CreatedAt  time.Time       `json:"created_at"`
}
