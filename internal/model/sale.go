package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the transaction header. TotalAmount is fixed at creation time; returns
// never rewrite it, they create their own records.
type Sale struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	CustomerID  *uint           `json:"customer_id,omitempty" gorm:"index"`
	Customer    *Customer       `json:"customer,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,4);not null"`
	Paid        bool            `json:"paid" gorm:"default:false"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	Items       []SaleItem      `json:"items" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SaleItem is one line of a sale. Name and UnitPrice are frozen snapshots so
// later product edits or deletions never alter historical records.
type SaleItem struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	SaleID    uint            `json:"sale_id" gorm:"index;not null"`
	ProductID *uint           `json:"product_id,omitempty" gorm:"index"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,4);not null"`
	LineTotal decimal.Decimal `json:"line_total" gorm:"type:decimal(20,4);not null"`
	CreatedAt time.Time       `json:"created_at"`
}
