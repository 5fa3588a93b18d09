package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a shift-accounting entry with no bearing on stock or sale totals.
type Expense struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	ExpenseDate time.Time       `json:"expense_date" gorm:"not null"`
	Category    string          `json:"category" gorm:"type:varchar(100);index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"`
	Note        string          `json:"note" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
}
