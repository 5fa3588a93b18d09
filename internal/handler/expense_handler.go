package handler

import (
	"net/http"
	"time"

	"pos-backend/internal/model"
	"pos-backend/pkg/database"
	"pos-backend/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpenseRequest defines the structure for expense creation requests
type ExpenseRequest struct {
	ExpenseDate *time.Time      `json:"expense_date"`
	Category    string          `json:"category" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note"`
}

// CreateExpense handles recording a shift-accounting expense
func CreateExpense(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Expense validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if !req.Amount.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Amount must be greater than zero",
		})
	}

	expenseDate := time.Now()
	if req.ExpenseDate != nil {
		expenseDate = *req.ExpenseDate
	}
	expense := model.Expense{
		ExpenseDate: expenseDate,
		Category:    req.Category,
		Amount:      req.Amount,
		Note:        req.Note,
	}
	if err := database.GetDB().Create(&expense).Error; err != nil {
		log.Error("Failed to create expense", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create expense",
		})
	}

	log.Info("Expense recorded",
		zap.Uint("expense_id", expense.ID),
		zap.String("category", expense.Category),
		zap.String("amount", expense.Amount.String()))
	return c.JSON(http.StatusCreated, expense)
}

// ListExpenses handles listing expenses with optional category filtering
func ListExpenses(c echo.Context) error {
	log := logger.FromEcho(c)

	query := database.GetDB()
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var expenses []model.Expense
	if err := query.Order("expense_date DESC").Find(&expenses).Error; err != nil {
		log.Error("Failed to list expenses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve expenses",
		})
	}

	return c.JSON(http.StatusOK, expenses)
}
