package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laptoppos/database"
)

// RepairController handles the repair job lifecycle.
type RepairController struct {
	Store *database.Store
}

// CreateRepairRequest contains the data for a new repair job
type CreateRepairRequest struct {
	LaptopBrand  string  `json:"laptop_brand" binding:"required"`
	LaptopModel  string  `json:"laptop_model"`
	CustomerID   uint    `json:"customer_id"`
	SerialNumber string  `json:"serial_number"`
	Issue        string  `json:"issue" binding:"required"`
	Cost         float64 `json:"cost"`
}

// GetRepairs returns all repair jobs
func (rc *RepairController) GetRepairs(c *gin.Context) {
	c.JSON(http.StatusOK, rc.Store.GetRepairs())
}

// GetRepairByID returns one repair job
func (rc *RepairController) GetRepairByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	repair, err := rc.Store.GetRepair(id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

// CreateRepair opens a new repair job
func (rc *RepairController) CreateRepair(c *gin.Context) {
	var req CreateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	repair, err := rc.Store.AddRepair(actorFrom(c), database.Repair{
		LaptopBrand:  req.LaptopBrand,
		LaptopModel:  req.LaptopModel,
		CustomerID:   req.CustomerID,
		SerialNumber: req.SerialNumber,
		Issue:        req.Issue,
		Cost:         req.Cost,
	})
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, repair)
}

// UpdateRepair applies a partial update (status, issue, cost)
func (rc *RepairController) UpdateRepair(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var update database.RepairUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	repair, err := rc.Store.UpdateRepair(actorFrom(c), id, update)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, repair)
}
