package model

import (
	"time"
)

// AdjustmentMode is how a stock adjustment item changes the quantity.
type AdjustmentMode string

const (
	AdjustmentModeSet    AdjustmentMode = "set"
	AdjustmentModeAdd    AdjustmentMode = "add"
	AdjustmentModeRemove AdjustmentMode = "remove"
)

// Valid reports whether the mode is one of the enumerated values.
func (m AdjustmentMode) Valid() bool {
	switch m {
	case AdjustmentModeSet, AdjustmentModeAdd, AdjustmentModeRemove:
		return true
	}
	return false
}

// StockAdjustment is a manual, audited correction to product quantities outside
// the sale/return flow. Created atomically with all its items, immutable after.
type StockAdjustment struct {
	ID             uint                  `json:"id" gorm:"primarykey"`
	AdjustmentDate time.Time             `json:"adjustment_date" gorm:"not null"`
	Reason         string                `json:"reason" gorm:"type:varchar(255)"`
	Notes          string                `json:"notes" gorm:"type:text"`
	Items          []StockAdjustmentItem `json:"items" gorm:"foreignKey:StockAdjustmentID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time             `json:"created_at"`
}

// StockAdjustmentItem captures one product correction with the stock level
// before and after, so the adjustment doubles as the audit trail.
type StockAdjustmentItem struct {
	ID                uint           `json:"id" gorm:"primarykey"`
	StockAdjustmentID uint           `json:"stock_adjustment_id" gorm:"index;not null"`
	ProductID         uint           `json:"product_id" gorm:"index;not null"`
	Name              string         `json:"name" gorm:"type:varchar(255);not null"`
	Mode              AdjustmentMode `json:"mode" gorm:"type:varchar(10);not null"`
	Quantity          int            `json:"quantity" gorm:"not null"`
	PreviousStock     int            `json:"previous_stock" gorm:"not null"`
	QuantityChange    int            `json:"quantity_change" gorm:"not null"`
	NewStock          int            `json:"new_stock" gorm:"not null"`
	Note              string         `json:"note" gorm:"type:text"`
	CreatedAt         time.Time      `json:"created_at"`
}
