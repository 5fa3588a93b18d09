package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Malformed-input sentinels.
var (
	ErrEmptyOrder            = errors.New("sale must contain at least one item")
	ErrEmptyReturn           = errors.New("return must contain at least one item")
	ErrEmptyAdjustment       = errors.New("stock adjustment must contain at least one item")
	ErrNonPositiveAmount     = errors.New("payment amount must be greater than zero")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrInvalidAdjustmentMode = errors.New("invalid stock adjustment mode")
)

// ProductNotFoundError reports an unknown product id.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// CustomerNotFoundError reports an unknown customer id.
type CustomerNotFoundError struct {
	CustomerID uint
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %d not found", e.CustomerID)
}

// SaleNotFoundError reports an unknown sale id.
type SaleNotFoundError struct {
	SaleID uint
}

func (e *SaleNotFoundError) Error() string {
	return fmt.Sprintf("sale %d not found", e.SaleID)
}

// SaleItemNotFoundError reports a line item id that does not belong to the sale.
type SaleItemNotFoundError struct {
	SaleID     uint
	SaleItemID uint
}

func (e *SaleItemNotFoundError) Error() string {
	return fmt.Sprintf("sale item %d not found on sale %d", e.SaleItemID, e.SaleID)
}

// ReturnNotFoundError reports an unknown return id.
type ReturnNotFoundError struct {
	ReturnID uint
}

func (e *ReturnNotFoundError) Error() string {
	return fmt.Sprintf("return %d not found", e.ReturnID)
}

// AdjustmentNotFoundError reports an unknown stock adjustment id.
type AdjustmentNotFoundError struct {
	AdjustmentID uint
}

func (e *AdjustmentNotFoundError) Error() string {
	return fmt.Sprintf("stock adjustment %d not found", e.AdjustmentID)
}

// InvalidQuantityError reports a line quantity outside the allowed range.
type InvalidQuantityError struct {
	Name     string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for %q", e.Quantity, e.Name)
}

// InvalidUnitPriceError reports a negative unit price on a line item.
type InvalidUnitPriceError struct {
	Name      string
	UnitPrice decimal.Decimal
}

func (e *InvalidUnitPriceError) Error() string {
	return fmt.Sprintf("invalid unit price %s for %q", e.UnitPrice, e.Name)
}

// InsufficientStockError reports a decrement that would drive stock negative.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// NegativeStockError reports an adjustment that would leave stock below zero.
type NegativeStockError struct {
	ProductID uint
	Resulting int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("adjustment would leave product %d with negative stock (%d)",
		e.ProductID, e.Resulting)
}

// OverPaymentError reports a payment that would push the paid sum past the sale total.
type OverPaymentError struct {
	SaleID      uint
	Amount      decimal.Decimal
	AmountPaid  decimal.Decimal
	TotalAmount decimal.Decimal
}

func (e *OverPaymentError) Error() string {
	return fmt.Sprintf("payment of %s would exceed sale %d total %s (already paid %s)",
		e.Amount, e.SaleID, e.TotalAmount, e.AmountPaid)
}

// OverReturnError reports a return quantity above what is still returnable.
type OverReturnError struct {
	SaleItemID uint
	Requested  int
	Remaining  int
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("cannot return %d of sale item %d: only %d remaining",
		e.Requested, e.SaleItemID, e.Remaining)
}

// SaleHasDependentsError blocks deleting a sale that has payments or returns.
type SaleHasDependentsError struct {
	SaleID   uint
	Payments int64
	Returns  int64
}

func (e *SaleHasDependentsError) Error() string {
	return fmt.Sprintf("sale %d has %d payment(s) and %d return(s)",
		e.SaleID, e.Payments, e.Returns)
}
