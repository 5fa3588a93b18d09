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

// NewSaleItem is one requested line of a new sale. Name and UnitPrice are what
// the sale records; when ProductID is set and Name is empty, the product's
// current name is snapshotted.
type NewSaleItem struct {
	ProductID *uint
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// NewSale is the input for CreateSale. A nil CustomerID means a walk-in sale.
type NewSale struct {
	CustomerID *uint
	Items      []NewSaleItem
}

// SaleFilter narrows ListSales.
type SaleFilter struct {
	CustomerID *uint
	Paid       *bool
	From       *time.Time
	To         *time.Time
	Limit      int
}

// CreateSale validates the order, decrements stock for every stock-tracked
// line through the catalog choke point, and persists the sale with its items.
// All-or-nothing: a failure on any line leaves no decrement applied.
func CreateSale(ctx context.Context, db *gorm.DB, input *NewSale) (*model.Sale, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{Name: item.Name, Quantity: item.Quantity}
		}
		if item.UnitPrice.IsNegative() {
			return nil, &InvalidUnitPriceError{Name: item.Name, UnitPrice: item.UnitPrice}
		}
	}

	var sale *model.Sale
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.CustomerID != nil {
			var customer model.Customer
			if err := tx.First(&customer, *input.CustomerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &CustomerNotFoundError{CustomerID: *input.CustomerID}
				}
				return fmt.Errorf("fetch customer %d: %w", *input.CustomerID, err)
			}
		}

		total := decimal.Zero
		items := make([]model.SaleItem, 0, len(input.Items))
		for _, item := range input.Items {
			name := item.Name
			if item.ProductID != nil {
				product, err := reserveAndDecrement(tx, *item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if name == "" {
					name = product.Name
				}
			}

			lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, model.SaleItem{
				ProductID: item.ProductID,
				Name:      name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				LineTotal: lineTotal,
			})
		}

		sale = &model.Sale{
			CustomerID:  input.CustomerID,
			TotalAmount: total,
			Paid:        false,
			Items:       items,
		}
		// A zero-total sale has nothing owed, and payments must be positive,
		// so it can only be settled here.
		if total.IsZero() {
			now := time.Now()
			sale.Paid = true
			sale.PaidAt = &now
		}
		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetSale returns a sale with its line items.
func GetSale(ctx context.Context, db *gorm.DB, saleID uint) (*model.Sale, error) {
	var sale model.Sale
	err := db.WithContext(ctx).Preload("Items").Preload("Customer").First(&sale, saleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &SaleNotFoundError{SaleID: saleID}
		}
		return nil, fmt.Errorf("fetch sale %d: %w", saleID, err)
	}
	return &sale, nil
}

// ListSales returns sales matching the filter, newest first.
func ListSales(ctx context.Context, db *gorm.DB, filter SaleFilter) ([]model.Sale, error) {
	query := db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Paid != nil {
		query = query.Where("paid = ?", *filter.Paid)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var sales []model.Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// DeleteSale removes a sale and its items. A sale with payments or returns is
// only deleted when cascade is set, in which case those records go with it.
// Stock is never restored by deletion; that is what returns are for.
func DeleteSale(ctx context.Context, db *gorm.DB, saleID uint, cascade bool) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.First(&sale, saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &SaleNotFoundError{SaleID: saleID}
			}
			return fmt.Errorf("fetch sale %d: %w", saleID, err)
		}

		var paymentCount, returnCount int64
		if err := tx.Model(&model.Payment{}).Where("sale_id = ?", saleID).Count(&paymentCount).Error; err != nil {
			return fmt.Errorf("count payments for sale %d: %w", saleID, err)
		}
		if err := tx.Model(&model.Return{}).Where("sale_id = ?", saleID).Count(&returnCount).Error; err != nil {
			return fmt.Errorf("count returns for sale %d: %w", saleID, err)
		}
		if paymentCount > 0 || returnCount > 0 {
			if !cascade {
				return &SaleHasDependentsError{SaleID: saleID, Payments: paymentCount, Returns: returnCount}
			}

			if err := tx.Where("sale_id = ?", saleID).Delete(&model.Payment{}).Error; err != nil {
				return fmt.Errorf("delete payments for sale %d: %w", saleID, err)
			}
			var returnIDs []uint
			if err := tx.Model(&model.Return{}).Where("sale_id = ?", saleID).Pluck("id", &returnIDs).Error; err != nil {
				return fmt.Errorf("list returns for sale %d: %w", saleID, err)
			}
			if len(returnIDs) > 0 {
				if err := tx.Where("return_id IN ?", returnIDs).Delete(&model.ReturnItem{}).Error; err != nil {
					return fmt.Errorf("delete return items for sale %d: %w", saleID, err)
				}
				if err := tx.Where("id IN ?", returnIDs).Delete(&model.Return{}).Error; err != nil {
					return fmt.Errorf("delete returns for sale %d: %w", saleID, err)
				}
			}
		}

		if err := tx.Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error; err != nil {
			return fmt.Errorf("delete items for sale %d: %w", saleID, err)
		}
		if err := tx.Delete(&model.Sale{}, saleID).Error; err != nil {
			return fmt.Errorf("delete sale %d: %w", saleID, err)
		}
		return nil
	})
}
