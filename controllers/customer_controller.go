package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laptoppos/database"
)

// CustomerController handles customer CRUD.
type CustomerController struct {
	Store *database.Store
}

// CreateCustomerRequest contains the data for a new customer
type CreateCustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	PreferredBrands string `json:"preferred_brands"`
	Notes           string `json:"notes"`
}

// GetCustomers returns all customers
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Store.GetCustomers())
}

// GetCustomerByID returns one customer
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := cc.Store.GetCustomer(id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCustomer adds a new customer; duplicate emails are rejected
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	customer, err := cc.Store.AddCustomer(actorFrom(c), database.Customer{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		PreferredBrands: req.PreferredBrands,
		Notes:           req.Notes,
	})
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer applies a partial update
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var update database.CustomerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	customer, err := cc.Store.UpdateCustomer(actorFrom(c), id, update)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer with no sales or installments
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := cc.Store.DeleteCustomer(actorFrom(c), id); err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
