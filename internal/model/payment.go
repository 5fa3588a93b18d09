package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how a payment or refund was made.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodMobile PaymentMethod = "mobile"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodOther  PaymentMethod = "other"
)

// Valid reports whether the method is one of the enumerated values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodBank, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is a single forward payment against a sale. Immutable once recorded;
// corrections are made with new payments.
type Payment struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	SaleID    uint            `json:"sale_id" gorm:"index;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"`
	Method    PaymentMethod   `json:"method" gorm:"type:varchar(20);not null"`
	Note      string          `json:"note" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`
}
