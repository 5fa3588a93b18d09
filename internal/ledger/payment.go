package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewPayment is the input for AddPayment.
type NewPayment struct {
	SaleID uint
	Amount decimal.Decimal
	Method model.PaymentMethod
	Note   string
}

// PaymentSummary is the computed balance of a sale. It is never stored.
type PaymentSummary struct {
	SaleID      uint            `json:"sale_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	BalanceDue  decimal.Decimal `json:"balance_due"`
	Paid        bool            `json:"paid"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	Payments    []model.Payment `json:"payments"`
}

// paymentsOf loads the recorded payments for a sale, oldest first.
func paymentsOf(tx *gorm.DB, saleID uint) ([]model.Payment, error) {
	var payments []model.Payment
	if err := tx.Where("sale_id = ?", saleID).Order("created_at, id").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments for sale %d: %w", saleID, err)
	}
	return payments, nil
}

// sumPayments adds the amounts in Go. The decimal columns carry numeric
// affinity on sqlite, so a SQL SUM() would run through float arithmetic and
// drift; the over-payment comparison has to be exact.
func sumPayments(payments []model.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.Amount)
	}
	return total
}

// AddPayment records a payment against a sale. The running sum of payments can
// never exceed the sale total; the sale is stamped paid_at exactly once, on
// the transition to fully paid.
func AddPayment(ctx context.Context, db *gorm.DB, input *NewPayment) (*PaymentSummary, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if !input.Method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	var summary *PaymentSummary
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.First(&sale, input.SaleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &SaleNotFoundError{SaleID: input.SaleID}
			}
			return fmt.Errorf("fetch sale %d: %w", input.SaleID, err)
		}

		payments, err := paymentsOf(tx, sale.ID)
		if err != nil {
			return err
		}
		alreadyPaid := sumPayments(payments)
		if input.Amount.Add(alreadyPaid).GreaterThan(sale.TotalAmount) {
			return &OverPaymentError{
				SaleID:      sale.ID,
				Amount:      input.Amount,
				AmountPaid:  alreadyPaid,
				TotalAmount: sale.TotalAmount,
			}
		}

		payment := model.Payment{
			SaleID: sale.ID,
			Amount: input.Amount,
			Method: input.Method,
			Note:   input.Note,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		payments = append(payments, payment)

		amountPaid := alreadyPaid.Add(input.Amount)
		balanceDue := sale.TotalAmount.Sub(amountPaid)
		if !sale.Paid && !balanceDue.IsPositive() {
			now := time.Now()
			if err := tx.Model(&sale).Updates(map[string]interface{}{
				"paid":    true,
				"paid_at": now,
			}).Error; err != nil {
				return fmt.Errorf("mark sale %d paid: %w", sale.ID, err)
			}
			sale.Paid = true
			sale.PaidAt = &now
		}

		summary = &PaymentSummary{
			SaleID:      sale.ID,
			TotalAmount: sale.TotalAmount,
			AmountPaid:  amountPaid,
			BalanceDue:  balanceDue,
			Paid:        sale.Paid,
			PaidAt:      sale.PaidAt,
			Payments:    payments,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// PaymentSummaryOf computes the balance of a sale without side effects.
func PaymentSummaryOf(ctx context.Context, db *gorm.DB, saleID uint) (*PaymentSummary, error) {
	var sale model.Sale
	if err := db.WithContext(ctx).First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &SaleNotFoundError{SaleID: saleID}
		}
		return nil, fmt.Errorf("fetch sale %d: %w", saleID, err)
	}

	payments, err := paymentsOf(db.WithContext(ctx), saleID)
	if err != nil {
		return nil, err
	}
	amountPaid := sumPayments(payments)

	return &PaymentSummary{
		SaleID:      sale.ID,
		TotalAmount: sale.TotalAmount,
		AmountPaid:  amountPaid,
		BalanceDue:  sale.TotalAmount.Sub(amountPaid),
		Paid:        sale.Paid,
		PaidAt:      sale.PaidAt,
		Payments:    payments,
	}, nil
}
