// Package ledger is the transactional core: sale creation, payments, returns
// and stock adjustments, all running against a single serialized store. Every
// stock-decreasing path funnels through reserveAndDecrement so there is exactly
// one validation point for the stock >= 0 invariant.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"pos-backend/internal/model"

	"gorm.io/gorm"
)

// StockOf returns the current quantity for a product.
func StockOf(ctx context.Context, db *gorm.DB, productID uint) (int, error) {
	var product model.Product
	if err := db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &ProductNotFoundError{ProductID: productID}
		}
		return 0, fmt.Errorf("fetch product %d: %w", productID, err)
	}
	return product.StockQuantity, nil
}

// reserveAndDecrement validates and applies a stock decrement for one product.
// Must run inside the caller's transaction. For products that are not
// stock-tracked it is a no-op success. The returned product carries the state
// before the decrement, for name/price snapshots.
func reserveAndDecrement(tx *gorm.DB, productID uint, quantity int) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{ProductID: productID}
		}
		return nil, fmt.Errorf("fetch product %d: %w", productID, err)
	}

	if !product.StockTracked {
		return &product, nil
	}

	if quantity > product.StockQuantity {
		return nil, &InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: product.StockQuantity,
		}
	}

	newQuantity := product.StockQuantity - quantity
	if err := tx.Model(&model.Product{}).Where("id = ?", productID).
		Update("stock_quantity", newQuantity).Error; err != nil {
		return nil, fmt.Errorf("decrement stock for product %d: %w", productID, err)
	}
	return &product, nil
}

// restock adds quantity back to a stock-tracked product. No-op for non-tracked
// products. Must run inside the caller's transaction.
func restock(tx *gorm.DB, productID uint, quantity int) error {
	var product model.Product
	if err := tx.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProductNotFoundError{ProductID: productID}
		}
		return fmt.Errorf("fetch product %d: %w", productID, err)
	}

	if !product.StockTracked {
		return nil
	}

	if err := tx.Model(&model.Product{}).Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error; err != nil {
		return fmt.Errorf("restock product %d: %w", productID, err)
	}
	return nil
}

// setStock writes an absolute quantity. Used only by the stock adjustment
// engine. Must run inside the caller's transaction.
func setStock(tx *gorm.DB, productID uint, quantity int) error {
	if quantity < 0 {
		return &NegativeStockError{ProductID: productID, Resulting: quantity}
	}

	result := tx.Model(&model.Product{}).Where("id = ?", productID).
		Update("stock_quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("set stock for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &ProductNotFoundError{ProductID: productID}
	}
	return nil
}
