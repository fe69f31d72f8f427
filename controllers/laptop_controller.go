package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laptoppos/database"
)

// LaptopController handles inventory CRUD.
type LaptopController struct {
	Store *database.Store
}

// CreateLaptopRequest contains the data for a new inventory record
type CreateLaptopRequest struct {
	Brand             string  `json:"brand" binding:"required"`
	Model             string  `json:"model" binding:"required"`
	Processor         string  `json:"processor"`
	RAM               string  `json:"ram"`
	Storage           string  `json:"storage"`
	GraphicsCard      string  `json:"graphics_card"`
	ScreenSize        string  `json:"screen_size"`
	Price             float64 `json:"price" binding:"required"`
	Cost              float64 `json:"cost"`
	Quantity          int     `json:"quantity"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Category          string  `json:"category"`
	Supplier          string  `json:"supplier"`
	WarrantyMonths    int     `json:"warranty_months"`
	SerialNumber      string  `json:"serial_number"`
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// GetLaptops returns the full inventory
func (l *LaptopController) GetLaptops(c *gin.Context) {
	c.JSON(http.StatusOK, l.Store.GetLaptops())
}

// GetLaptopByID returns one inventory record
func (l *LaptopController) GetLaptopByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	laptop, err := l.Store.GetLaptop(id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, laptop)
}

// CreateLaptop adds a new inventory record
func (l *LaptopController) CreateLaptop(c *gin.Context) {
	var req CreateLaptopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	laptop, err := l.Store.AddLaptop(actorFrom(c), database.Laptop{
		Brand:             req.Brand,
		Model:             req.Model,
		Processor:         req.Processor,
		RAM:               req.RAM,
		Storage:           req.Storage,
		GraphicsCard:      req.GraphicsCard,
		ScreenSize:        req.ScreenSize,
		Price:             req.Price,
		Cost:              req.Cost,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		Category:          req.Category,
		Supplier:          req.Supplier,
		WarrantyMonths:    req.WarrantyMonths,
		SerialNumber:      req.SerialNumber,
	})
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, laptop)
}

// UpdateLaptop applies a partial update to an inventory record
func (l *LaptopController) UpdateLaptop(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var update database.LaptopUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	laptop, err := l.Store.UpdateLaptop(actorFrom(c), id, update)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, laptop)
}

// DeleteLaptop removes an unreferenced inventory record
func (l *LaptopController) DeleteLaptop(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := l.Store.DeleteLaptop(actorFrom(c), id); err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Laptop deleted"})
}
