package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laptoppos/database"
	"laptoppos/reports"
)

// ReportController serves the derived aggregation views. All of them are
// recomputed from a fresh snapshot on every request.
type ReportController struct {
	Store *database.Store
}

// GetCustomerInsights returns tiers, totals and preferred brands
func (rc *ReportController) GetCustomerInsights(c *gin.Context) {
	snap := rc.Store.Snapshot()
	c.JSON(http.StatusOK, reports.CustomerInsights(snap.Customers, snap.Sales, snap.Laptops, time.Now()))
}

// GetSaleProfits returns profit per sale
func (rc *ReportController) GetSaleProfits(c *gin.Context) {
	snap := rc.Store.Snapshot()
	c.JSON(http.StatusOK, reports.SaleProfits(snap.Sales, snap.Laptops))
}

// GetStockAlerts returns laptops at or below their low-stock threshold
func (rc *ReportController) GetStockAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, reports.StockAlerts(rc.Store.GetLaptops()))
}

// GetSummary returns the dashboard totals
func (rc *ReportController) GetSummary(c *gin.Context) {
	snap := rc.Store.Snapshot()
	c.JSON(http.StatusOK, reports.BuildSummary(snap.Customers, snap.Sales, snap.Laptops, time.Now()))
}

// ExportWorkbook streams the inventory/sales/customers XLSX
func (rc *ReportController) ExportWorkbook(c *gin.Context) {
	snap := rc.Store.Snapshot()
	data, err := reports.ExportWorkbook(snap, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}
	filename := fmt.Sprintf("laptoppos-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
