package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"pos-backend/internal/handler"
	"pos-backend/pkg/config"
	"pos-backend/pkg/database"
	"pos-backend/prometheus"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var setupOnce sync.Once

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// newTestServer wires the real handlers over an in-memory store. Metrics and
// the database are process-wide, so they are initialized once.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	setupOnce.Do(func() {
		t.Setenv("DB_PATH", ":memory:")
		appConfig, err := config.Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		prometheus.InitMetrics(appConfig)
		if err := database.InitDB(appConfig); err != nil {
			t.Fatalf("init database: %v", err)
		}
	})

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	e.POST("/api/products", handler.CreateProduct)
	e.GET("/api/products/:id/stock", handler.GetProductStock)
	e.POST("/api/sales", handler.CreateSale)
	e.GET("/api/sales/:id", handler.GetSale)
	e.POST("/api/sales/:id/payments", handler.AddPayment)
	e.GET("/api/sales/:id/payments", handler.GetPaymentSummary)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSaleEndpoints_StatusMapping(t *testing.T) {
	e := newTestServer(t)

	// Seed a stock-tracked product through the API.
	rec := doJSON(e, http.MethodPost, "/api/products",
		`{"name":"Widget","unit_price":10,"stock_tracked":true,"stock_quantity":5,"low_stock_limit":2,"is_active":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product status = %d, body %s", rec.Code, rec.Body.String())
	}
	var product struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}

	// Empty order is malformed input.
	rec = doJSON(e, http.MethodPost, "/api/sales", `{"items":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty order status = %d, want 400", rec.Code)
	}

	// A valid sale decrements stock.
	rec = doJSON(e, http.MethodPost, "/api/sales",
		fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"unit_price":10}]}`, product.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sale status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sale struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sale); err != nil {
		t.Fatalf("decode sale: %v", err)
	}

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/products/%d/stock", product.ID), "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"stock_quantity":3`) {
		t.Errorf("stock after sale = %s, want quantity 3", rec.Body.String())
	}

	// Oversell is a conflict and leaves stock untouched.
	rec = doJSON(e, http.MethodPost, "/api/sales",
		fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":99,"unit_price":10}]}`, product.ID))
	if rec.Code != http.StatusConflict {
		t.Errorf("oversell status = %d, want 409", rec.Code)
	}
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/products/%d/stock", product.ID), "")
	if !strings.Contains(rec.Body.String(), `"stock_quantity":3`) {
		t.Errorf("stock after oversell = %s, want quantity 3", rec.Body.String())
	}

	// Unknown sale is 404.
	rec = doJSON(e, http.MethodGet, "/api/sales/99999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown sale status = %d, want 404", rec.Code)
	}

	// Payments: partial, then overpayment conflict.
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/sales/%d/payments", sale.ID),
		`{"amount":15,"method":"cash"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("payment status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/sales/%d/payments", sale.ID),
		`{"amount":50,"method":"card"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("overpayment status = %d, want 409", rec.Code)
	}
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/sales/%d/payments", sale.ID),
		`{"amount":5,"method":"cheque"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad method status = %d, want 400", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/sales/%d/payments", sale.ID), "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"balance_due":"5"`) {
		t.Errorf("summary = %s, want balance_due 5", rec.Body.String())
	}
}
