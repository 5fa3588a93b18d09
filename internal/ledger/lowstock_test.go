package ledger_test

import (
	"context"
	"testing"

	"pos-backend/internal/ledger"
)

func TestLowStockItems_SeverityTiers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	out := seedProduct(t, db, "Out", "1.00", true, 0, 5)
	critical := seedProduct(t, db, "Critical", "1.00", true, 2, 5)
	low := seedProduct(t, db, "Low", "1.00", true, 4, 5)
	seedProduct(t, db, "Healthy", "1.00", true, 9, 5)
	seedProduct(t, db, "Service", "1.00", false, 0, 5)

	items, err := ledger.LowStockItems(ctx, db)
	if err != nil {
		t.Fatalf("LowStockItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3 (healthy and non-tracked excluded)", len(items))
	}

	severities := make(map[uint]string, len(items))
	for _, item := range items {
		severities[item.ProductID] = item.Severity
	}
	if severities[out.ID] != ledger.SeverityOut {
		t.Errorf("zero stock severity = %q, want OUT", severities[out.ID])
	}
	if severities[critical.ID] != ledger.SeverityCritical {
		t.Errorf("stock 2 of limit 5 severity = %q, want CRITICAL", severities[critical.ID])
	}
	if severities[low.ID] != ledger.SeverityLow {
		t.Errorf("stock 4 of limit 5 severity = %q, want LOW", severities[low.ID])
	}

	// Worst first.
	if items[0].ProductID != out.ID {
		t.Errorf("first item = product %d, want the out-of-stock one", items[0].ProductID)
	}
}

func TestStockOf(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Widget", "1.00", true, 6, 2)

	quantity, err := ledger.StockOf(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("StockOf: %v", err)
	}
	if quantity != 6 {
		t.Errorf("stock = %d, want 6", quantity)
	}

	if _, err := ledger.StockOf(ctx, db, 9999); err == nil {
		t.Error("unknown product must fail")
	}
}
