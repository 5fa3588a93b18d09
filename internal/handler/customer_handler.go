package handler

import (
	"net/http"

	"pos-backend/internal/model"
	"pos-backend/pkg/database"
	"pos-backend/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CustomerRequest defines the structure for customer creation/update requests
type CustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
	Notes string `json:"notes"`
}

// ListCustomers handles retrieving all customers
func ListCustomers(c echo.Context) error {
	log := logger.FromEcho(c)

	var customers []model.Customer
	query := database.GetDB()
	if name := c.QueryParam("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	if err := query.Order("name").Find(&customers).Error; err != nil {
		log.Error("Failed to list customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve customers",
		})
	}

	return c.JSON(http.StatusOK, customers)
}

// GetCustomer handles retrieving a single customer by ID
func GetCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var customer model.Customer
	if err := database.GetDB().First(&customer, id).Error; err != nil {
		log.Warn("Customer not found", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Customer not found",
		})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles creating a new customer
func CreateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Customer validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	customer := model.Customer{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	}
	if err := database.GetDB().Create(&customer).Error; err != nil {
		log.Error("Failed to create customer", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create customer",
		})
	}

	log.Info("Customer created", zap.Uint("customer_id", customer.ID), zap.String("name", customer.Name))
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles updating an existing customer
func UpdateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Customer validation failed", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	var customer model.Customer
	if err := database.GetDB().First(&customer, id).Error; err != nil {
		log.Warn("Customer not found for update", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Customer not found",
		})
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Notes = req.Notes

	if err := database.GetDB().Save(&customer).Error; err != nil {
		log.Error("Failed to update customer", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update customer",
		})
	}

	log.Info("Customer updated", zap.String("customer_id", id), zap.String("name", customer.Name))
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles deleting a customer (soft delete). Historical sales
// keep their customer reference.
func DeleteCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Customer{}, id)
	if result.Error != nil {
		log.Error("Failed to delete customer", zap.String("customer_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete customer",
		})
	}
	if result.RowsAffected == 0 {
		log.Warn("Customer not found for deletion", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Customer not found",
		})
	}

	log.Info("Customer deleted", zap.String("customer_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Customer deleted successfully",
	})
}
