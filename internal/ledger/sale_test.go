package ledger_test

import (
	"context"
	"errors"
	"testing"

	"pos-backend/internal/ledger"
	"pos-backend/internal/model"
)

func TestCreateSale_TotalsAndSnapshots(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	burger := seedProduct(t, db, "Burger", "4.50", true, 10, 3)

	sale, err := ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{
			{ProductID: &burger.ID, Quantity: 2, UnitPrice: dec(t, "4.50")},
			{Name: "Delivery fee", Quantity: 1, UnitPrice: dec(t, "1.25")},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if !sale.TotalAmount.Equal(dec(t, "10.25")) {
		t.Errorf("total = %s, want 10.25", sale.TotalAmount)
	}
	if sale.Paid {
		t.Error("new sale must not be marked paid")
	}
	if len(sale.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(sale.Items))
	}
	if sale.Items[0].Name != "Burger" {
		t.Errorf("item name = %q, want product name snapshot", sale.Items[0].Name)
	}
	if !sale.Items[0].LineTotal.Equal(dec(t, "9.00")) {
		t.Errorf("line total = %s, want 9.00", sale.Items[0].LineTotal)
	}
	if got := mustStock(t, db, burger.ID); got != 8 {
		t.Errorf("stock = %d, want 8", got)
	}

	// A later product edit must not affect the stored sale.
	if err := db.Model(&model.Product{}).Where("id = ?", burger.ID).
		Update("name", "Cheeseburger").Error; err != nil {
		t.Fatalf("rename product: %v", err)
	}
	stored, err := ledger.GetSale(ctx, db, sale.ID)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	if stored.Items[0].Name != "Burger" {
		t.Errorf("stored item name = %q, snapshot must be frozen", stored.Items[0].Name)
	}
	if !stored.TotalAmount.Equal(dec(t, "10.25")) {
		t.Errorf("stored total = %s, must never change after creation", stored.TotalAmount)
	}
}

func TestCreateSale_NonTrackedProductIgnoresStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	service := seedProduct(t, db, "Haircut", "15.00", false, 0, 0)

	_, err := ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{
			{ProductID: &service.ID, Quantity: 3, UnitPrice: dec(t, "15.00")},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if got := mustStock(t, db, service.ID); got != 0 {
		t.Errorf("stock = %d, non-tracked product must be untouched", got)
	}
}

func TestCreateSale_InsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	coffee := seedProduct(t, db, "Coffee", "2.00", true, 5, 2)
	cake := seedProduct(t, db, "Cake", "3.00", true, 1, 1)

	_, err := ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{
			{ProductID: &coffee.ID, Quantity: 2, UnitPrice: dec(t, "2.00")},
			{ProductID: &cake.ID, Quantity: 3, UnitPrice: dec(t, "3.00")},
		},
	})

	var insufficientErr *ledger.InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if insufficientErr.ProductID != cake.ID {
		t.Errorf("failing product = %d, want %d", insufficientErr.ProductID, cake.ID)
	}

	// The decrement already applied for coffee must be rolled back.
	if got := mustStock(t, db, coffee.ID); got != 5 {
		t.Errorf("coffee stock = %d, want 5 (no partial decrement)", got)
	}
	if got := mustStock(t, db, cake.ID); got != 1 {
		t.Errorf("cake stock = %d, want 1", got)
	}

	var saleCount int64
	db.Model(&model.Sale{}).Count(&saleCount)
	if saleCount != 0 {
		t.Errorf("sale count = %d, rejected sale must not be persisted", saleCount)
	}
}

func TestCreateSale_InputValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := ledger.CreateSale(ctx, db, &ledger.NewSale{}); !errors.Is(err, ledger.ErrEmptyOrder) {
		t.Errorf("empty order err = %v, want ErrEmptyOrder", err)
	}

	_, err := ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{{Name: "Thing", Quantity: 0, UnitPrice: dec(t, "1.00")}},
	})
	var quantityErr *ledger.InvalidQuantityError
	if !errors.As(err, &quantityErr) {
		t.Errorf("zero quantity err = %v, want InvalidQuantityError", err)
	}

	_, err = ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{{Name: "Thing", Quantity: 1, UnitPrice: dec(t, "-1.00")}},
	})
	var priceErr *ledger.InvalidUnitPriceError
	if !errors.As(err, &priceErr) {
		t.Errorf("negative price err = %v, want InvalidUnitPriceError", err)
	}

	missing := uint(9999)
	_, err = ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{{ProductID: &missing, Quantity: 1, UnitPrice: dec(t, "1.00")}},
	})
	var notFoundErr *ledger.ProductNotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("unknown product err = %v, want ProductNotFoundError", err)
	}

	unknownCustomer := uint(4242)
	_, err = ledger.CreateSale(ctx, db, &ledger.NewSale{
		CustomerID: &unknownCustomer,
		Items:      []ledger.NewSaleItem{{Name: "Thing", Quantity: 1, UnitPrice: dec(t, "1.00")}},
	})
	var customerErr *ledger.CustomerNotFoundError
	if !errors.As(err, &customerErr) {
		t.Errorf("unknown customer err = %v, want CustomerNotFoundError", err)
	}
}

func TestCreateSale_ScenarioStockAndLowStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Widget", "1.00", true, 10, 5)

	if _, err := ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{{ProductID: &product.ID, Quantity: 3, UnitPrice: dec(t, "1.00")}},
	}); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if got := mustStock(t, db, product.ID); got != 7 {
		t.Fatalf("stock = %d, want 7", got)
	}

	items, err := ledger.LowStockItems(ctx, db)
	if err != nil {
		t.Fatalf("LowStockItems: %v", err)
	}
	for _, item := range items {
		if item.ProductID == product.ID {
			t.Errorf("product at stock 7 with limit 5 must not be listed as low")
		}
	}

	// Selling more than remains must fail and leave stock untouched.
	_, err = ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{{ProductID: &product.ID, Quantity: 10, UnitPrice: dec(t, "1.00")}},
	})
	var insufficientErr *ledger.InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if got := mustStock(t, db, product.ID); got != 7 {
		t.Errorf("stock = %d, want 7 (unchanged after rejection)", got)
	}
}

func TestCreateSale_ZeroTotalSettledAtCreation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	sale, err := ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{{Name: "Sample giveaway", Quantity: 1, UnitPrice: dec(t, "0")}},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if !sale.Paid || sale.PaidAt == nil {
		t.Error("zero-total sale must be settled at creation")
	}

	summary, err := ledger.PaymentSummaryOf(ctx, db, sale.ID)
	if err != nil {
		t.Fatalf("PaymentSummaryOf: %v", err)
	}
	if !summary.Paid || !summary.BalanceDue.IsZero() {
		t.Errorf("summary = paid %v due %s, want settled with zero balance", summary.Paid, summary.BalanceDue)
	}

	// Any positive payment against it is an overpayment.
	_, err = ledger.AddPayment(ctx, db, &ledger.NewPayment{
		SaleID: sale.ID, Amount: dec(t, "1.00"), Method: model.PaymentMethodCash,
	})
	var overErr *ledger.OverPaymentError
	if !errors.As(err, &overErr) {
		t.Errorf("err = %v, want OverPaymentError", err)
	}
}

func TestDeleteSale_DependentsAndCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Widget", "10.00", true, 10, 2)
	sale, err := ledger.CreateSale(ctx, db, &ledger.NewSale{
		Items: []ledger.NewSaleItem{{ProductID: &product.ID, Quantity: 2, UnitPrice: dec(t, "10.00")}},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if _, err := ledger.AddPayment(ctx, db, &ledger.NewPayment{
		SaleID: sale.ID, Amount: dec(t, "5.00"), Method: model.PaymentMethodCash,
	}); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}

	err = ledger.DeleteSale(ctx, db, sale.ID, false)
	var dependentsErr *ledger.SaleHasDependentsError
	if !errors.As(err, &dependentsErr) {
		t.Fatalf("err = %v, want SaleHasDependentsError", err)
	}
	if dependentsErr.Payments != 1 {
		t.Errorf("payments = %d, want 1", dependentsErr.Payments)
	}

	if err := ledger.DeleteSale(ctx, db, sale.ID, true); err != nil {
		t.Fatalf("DeleteSale cascade: %v", err)
	}
	if _, err := ledger.GetSale(ctx, db, sale.ID); err == nil {
		t.Error("sale must be gone after cascade delete")
	}
	var paymentCount int64
	db.Model(&model.Payment{}).Where("sale_id = ?", sale.ID).Count(&paymentCount)
	if paymentCount != 0 {
		t.Errorf("payment count = %d, want 0 after cascade", paymentCount)
	}

	// Deletion is an administrative correction: stock stays decremented.
	if got := mustStock(t, db, product.ID); got != 8 {
		t.Errorf("stock = %d, want 8 (deletion never restores stock)", got)
	}
}

func TestListSales_Filters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	customer := &model.Customer{Name: "Alex"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	for i := 0; i < 3; i++ {
		input := &ledger.NewSale{
			Items: []ledger.NewSaleItem{{Name: "Line", Quantity: 1, UnitPrice: dec(t, "2.00")}},
		}
		if i == 0 {
			input.CustomerID = &customer.ID
		}
		if _, err := ledger.CreateSale(ctx, db, input); err != nil {
			t.Fatalf("CreateSale #%d: %v", i, err)
		}
	}

	byCustomer, err := ledger.ListSales(ctx, db, ledger.SaleFilter{CustomerID: &customer.ID})
	if err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if len(byCustomer) != 1 {
		t.Errorf("customer sales = %d, want 1", len(byCustomer))
	}

	limited, err := ledger.ListSales(ctx, db, ledger.SaleFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListSales limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited sales = %d, want 2", len(limited))
	}
}
