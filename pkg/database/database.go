package database

import (
	"fmt"
	"log"

	"pos-backend/internal/model"
	"pos-backend/pkg/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB initializes the database connection with configuration and runs migrations
func InitDB(appConfig *config.Config) error {
	var err error

	// Open connection
	db, err = gorm.Open(sqlite.Open(appConfig.DB.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(appConfig.DB.LogLevel),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return err
	}

	// Get generic database object SQL
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get database object: %v", err)
		return err
	}

	// SQLite allows a single writer; one connection keeps every transaction
	// serialized instead of surfacing SQLITE_BUSY to callers.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(appConfig.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(appConfig.DB.ConnMaxLifetime)

	// Run migrations
	if err := Migrate(db); err != nil {
		return err
	}

	return nil
}

// Migrate runs schema migrations for all entities
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Customer{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Payment{},
		&model.Return{},
		&model.ReturnItem{},
		&model.StockAdjustment{},
		&model.StockAdjustmentItem{},
		&model.Expense{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
