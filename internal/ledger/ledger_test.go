package ledger_test

import (
	"testing"

	"pos-backend/internal/model"
	"pos-backend/pkg/database"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory store, pinned to a single connection so
// the memory database survives across queries.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, tracked bool, stock, limit int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Category:      "test",
		UnitPrice:     dec(t, price),
		StockTracked:  tracked,
		StockQuantity: stock,
		LowStockLimit: limit,
		IsActive:      true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product %q: %v", name, err)
	}
	return product
}

func mustStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product model.Product
	if err := db.First(&product, productID).Error; err != nil {
		t.Fatalf("fetch product %d: %v", productID, err)
	}
	return product.StockQuantity
}
