package ledger

import (
	"context"
	"errors"
	"fmt"

	"pos-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReturnableItem describes how much of an original sale line can still be
// returned.
type ReturnableItem struct {
	SaleItemID   uint            `json:"sale_item_id"`
	ProductID    *uint           `json:"product_id,omitempty"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SoldQty      int             `json:"sold_qty"`
	ReturnedQty  int             `json:"returned_qty"`
	RemainingQty int             `json:"remaining_qty"`
}

// NewReturnItem is one requested return line.
type NewReturnItem struct {
	SaleItemID uint
	Quantity   int
	Note       string
}

// NewReturn is the input for CreateReturn. A nil RefundAmount means the refund
// is computed from the returned quantities at the original unit prices.
type NewReturn struct {
	SaleID       uint
	Items        []NewReturnItem
	RefundMethod model.PaymentMethod
	RefundAmount *decimal.Decimal
	Reason       string
	RestoreStock bool
}

// returnedQuantities sums previously returned quantities per sale item.
func returnedQuantities(tx *gorm.DB, saleItemIDs []uint) (map[uint]int, error) {
	returned := make(map[uint]int, len(saleItemIDs))
	if len(saleItemIDs) == 0 {
		return returned, nil
	}

	var rows []struct {
		SaleItemID uint `gorm:"column:sale_item_id"`
		Quantity   int  `gorm:"column:quantity"`
	}
	err := tx.Model(&model.ReturnItem{}).
		Select("sale_item_id, COALESCE(SUM(quantity), 0) AS quantity").
		Where("sale_item_id IN ?", saleItemIDs).
		Group("sale_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum returned quantities: %w", err)
	}
	for _, row := range rows {
		returned[row.SaleItemID] = row.Quantity
	}
	return returned, nil
}

func returnableForSale(tx *gorm.DB, saleID uint) ([]ReturnableItem, error) {
	var sale model.Sale
	if err := tx.Preload("Items").First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &SaleNotFoundError{SaleID: saleID}
		}
		return nil, fmt.Errorf("fetch sale %d: %w", saleID, err)
	}

	itemIDs := make([]uint, 0, len(sale.Items))
	for _, item := range sale.Items {
		itemIDs = append(itemIDs, item.ID)
	}
	returned, err := returnedQuantities(tx, itemIDs)
	if err != nil {
		return nil, err
	}

	returnable := make([]ReturnableItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		returnable = append(returnable, ReturnableItem{
			SaleItemID:   item.ID,
			ProductID:    item.ProductID,
			Name:         item.Name,
			UnitPrice:    item.UnitPrice,
			SoldQty:      item.Quantity,
			ReturnedQty:  returned[item.ID],
			RemainingQty: item.Quantity - returned[item.ID],
		})
	}
	return returnable, nil
}

// ReturnableItems lists, per original line item of a sale, the quantity sold,
// already returned and still returnable.
func ReturnableItems(ctx context.Context, db *gorm.DB, saleID uint) ([]ReturnableItem, error) {
	return returnableForSale(db.WithContext(ctx), saleID)
}

// CreateReturn validates the requested quantities against what is still
// returnable, optionally restores stock, and persists the return with its
// items in one transaction. All-or-nothing: any line failing validation leaves
// no stock restored and no record created.
func CreateReturn(ctx context.Context, db *gorm.DB, input *NewReturn) (*model.Return, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyReturn
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{
				Name:     fmt.Sprintf("sale item %d", item.SaleItemID),
				Quantity: item.Quantity,
			}
		}
	}
	if input.RefundMethod != "" && !input.RefundMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	var ret *model.Return
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		returnable, err := returnableForSale(tx, input.SaleID)
		if err != nil {
			return err
		}
		remaining := make(map[uint]*ReturnableItem, len(returnable))
		for i := range returnable {
			remaining[returnable[i].SaleItemID] = &returnable[i]
		}

		refund := decimal.Zero
		items := make([]model.ReturnItem, 0, len(input.Items))
		for _, item := range input.Items {
			line, ok := remaining[item.SaleItemID]
			if !ok {
				return &SaleItemNotFoundError{SaleID: input.SaleID, SaleItemID: item.SaleItemID}
			}
			if item.Quantity > line.RemainingQty {
				return &OverReturnError{
					SaleItemID: item.SaleItemID,
					Requested:  item.Quantity,
					Remaining:  line.RemainingQty,
				}
			}
			// Decrement so duplicate lines for the same sale item in one
			// request cannot jointly exceed the remaining quantity.
			line.RemainingQty -= item.Quantity

			lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			refund = refund.Add(lineTotal)
			items = append(items, model.ReturnItem{
				SaleItemID: item.SaleItemID,
				ProductID:  line.ProductID,
				Name:       line.Name,
				Quantity:   item.Quantity,
				UnitPrice:  line.UnitPrice,
				LineTotal:  lineTotal,
				Note:       item.Note,
			})
		}

		if input.RefundAmount != nil {
			refund = *input.RefundAmount
		}

		if input.RestoreStock {
			for _, item := range items {
				if item.ProductID == nil {
					continue
				}
				if err := restock(tx, *item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		ret = &model.Return{
			SaleID:        input.SaleID,
			RefundMethod:  input.RefundMethod,
			RefundAmount:  refund,
			Reason:        input.Reason,
			StockRestored: input.RestoreStock,
			Items:         items,
		}
		if err := tx.Create(ret).Error; err != nil {
			return fmt.Errorf("create return: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// ListReturns returns the most recent returns with their items.
func ListReturns(ctx context.Context, db *gorm.DB, limit int) ([]model.Return, error) {
	if limit <= 0 {
		limit = 50
	}
	var returns []model.Return
	err := db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Limit(limit).Find(&returns).Error
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return returns, nil
}

// GetReturn returns a single return with its items.
func GetReturn(ctx context.Context, db *gorm.DB, returnID uint) (*model.Return, error) {
	var ret model.Return
	err := db.WithContext(ctx).Preload("Items").First(&ret, returnID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReturnNotFoundError{ReturnID: returnID}
		}
		return nil, fmt.Errorf("fetch return %d: %w", returnID, err)
	}
	return &ret, nil
}
