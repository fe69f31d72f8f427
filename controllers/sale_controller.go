package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laptoppos/database"
)

// SaleController handles checkout, cancellation and installment plans.
type SaleController struct {
	Store *database.Store
}

// CreateSaleRequest contains the checkout data
type CreateSaleRequest struct {
	LaptopID      uint    `json:"laptop_id" binding:"required"`
	CustomerID    uint    `json:"customer_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required"`
	UnitPrice     float64 `json:"unit_price"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=cash card installment bank_transfer"`
	Months        int     `json:"months"`
}

// GetSales returns all sales
func (sc *SaleController) GetSales(c *gin.Context) {
	c.JSON(http.StatusOK, sc.Store.GetSales())
}

// GetSaleByID returns one sale
func (sc *SaleController) GetSaleByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, err := sc.Store.GetSale(id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// CreateSale records a sale and, for installment payment, its plan. Stock
// is decremented in the same unit; insufficient stock is a 409.
func (sc *SaleController) CreateSale(c *gin.Context) {
	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	result, err := sc.Store.CreateSale(actorFrom(c), database.SaleInput{
		LaptopID:      req.LaptopID,
		CustomerID:    req.CustomerID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		PaymentMethod: req.PaymentMethod,
		Months:        req.Months,
	})
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CancelSale flips a sale to cancelled and restores its stock
func (sc *SaleController) CancelSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, err := sc.Store.CancelSale(actorFrom(c), id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// GetInstallments returns all installment plans
func (sc *SaleController) GetInstallments(c *gin.Context) {
	c.JSON(http.StatusOK, sc.Store.GetInstallments())
}

// GetDueInstallments returns active plans due now or earlier
func (sc *SaleController) GetDueInstallments(c *gin.Context) {
	c.JSON(http.StatusOK, sc.Store.DueInstallments(time.Now()))
}

// RecordInstallmentPayment marks one monthly payment received
func (sc *SaleController) RecordInstallmentPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	installment, err := sc.Store.RecordInstallmentPayment(actorFrom(c), id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, installment)
}
