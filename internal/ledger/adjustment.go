package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-backend/internal/model"

	"gorm.io/gorm"
)

// NewAdjustmentItem is one requested stock correction.
type NewAdjustmentItem struct {
	ProductID uint
	Mode      model.AdjustmentMode
	Quantity  int
	Note      string
}

// NewAdjustment is the input for ApplyAdjustment.
type NewAdjustment struct {
	Date   time.Time
	Reason string
	Notes  string
	Items  []NewAdjustmentItem
}

// ApplyAdjustment validates every item's resulting stock before committing any
// write, then applies all corrections and persists one immutable audit record
// with per-item previous/new stock. All-or-nothing across the item list.
func ApplyAdjustment(ctx context.Context, db *gorm.DB, input *NewAdjustment) (*model.StockAdjustment, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyAdjustment
	}
	for _, item := range input.Items {
		if !item.Mode.Valid() {
			return nil, ErrInvalidAdjustmentMode
		}
		// set accepts an explicit zero; add/remove need a positive quantity.
		if item.Mode == model.AdjustmentModeSet && item.Quantity < 0 {
			return nil, &NegativeStockError{ProductID: item.ProductID, Resulting: item.Quantity}
		}
		if item.Mode != model.AdjustmentModeSet && item.Quantity <= 0 {
			return nil, &InvalidQuantityError{
				Name:     fmt.Sprintf("product %d", item.ProductID),
				Quantity: item.Quantity,
			}
		}
	}

	var adjustment *model.StockAdjustment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Validate every item against a staged stock level first, so repeated
		// corrections of the same product within one call chain correctly.
		staged := make(map[uint]int, len(input.Items))
		names := make(map[uint]string, len(input.Items))
		records := make([]model.StockAdjustmentItem, 0, len(input.Items))
		for _, item := range input.Items {
			current, ok := staged[item.ProductID]
			if !ok {
				var product model.Product
				if err := tx.First(&product, item.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &ProductNotFoundError{ProductID: item.ProductID}
					}
					return fmt.Errorf("fetch product %d: %w", item.ProductID, err)
				}
				current = product.StockQuantity
				names[item.ProductID] = product.Name
			}

			var newStock int
			switch item.Mode {
			case model.AdjustmentModeSet:
				newStock = item.Quantity
			case model.AdjustmentModeAdd:
				newStock = current + item.Quantity
			case model.AdjustmentModeRemove:
				newStock = current - item.Quantity
			}
			if newStock < 0 {
				return &NegativeStockError{ProductID: item.ProductID, Resulting: newStock}
			}
			staged[item.ProductID] = newStock

			records = append(records, model.StockAdjustmentItem{
				ProductID:      item.ProductID,
				Name:           names[item.ProductID],
				Mode:           item.Mode,
				Quantity:       item.Quantity,
				PreviousStock:  current,
				QuantityChange: newStock - current,
				NewStock:       newStock,
				Note:           item.Note,
			})
		}

		for productID, newStock := range staged {
			if err := setStock(tx, productID, newStock); err != nil {
				return err
			}
		}

		date := input.Date
		if date.IsZero() {
			date = time.Now()
		}
		adjustment = &model.StockAdjustment{
			AdjustmentDate: date,
			Reason:         input.Reason,
			Notes:          input.Notes,
			Items:          records,
		}
		if err := tx.Create(adjustment).Error; err != nil {
			return fmt.Errorf("create stock adjustment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

// ListAdjustments returns the most recent stock adjustments with their items.
func ListAdjustments(ctx context.Context, db *gorm.DB, limit int) ([]model.StockAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	var adjustments []model.StockAdjustment
	err := db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Limit(limit).Find(&adjustments).Error
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	return adjustments, nil
}

// GetAdjustment returns a single stock adjustment with its items.
func GetAdjustment(ctx context.Context, db *gorm.DB, adjustmentID uint) (*model.StockAdjustment, error) {
	var adjustment model.StockAdjustment
	err := db.WithContext(ctx).Preload("Items").First(&adjustment, adjustmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AdjustmentNotFoundError{AdjustmentID: adjustmentID}
		}
		return nil, fmt.Errorf("fetch stock adjustment %d: %w", adjustmentID, err)
	}
	return &adjustment, nil
}
