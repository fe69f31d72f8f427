package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"

	"laptoppos/config"
	"laptoppos/database"
)

// PaymentController creates payment orders for installment collection
// through Razorpay. With no gateway credentials configured it reports a
// dev-mode order instead of failing, mirroring the email fallback.
type PaymentController struct {
	Store *database.Store
}

// PaymentVerificationRequest contains the gateway callback data
type PaymentVerificationRequest struct {
	PaymentID     string `json:"payment_id" binding:"required"`
	OrderID       string `json:"order_id" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
	InstallmentID uint   `json:"installment_id" binding:"required"`
}

// CollectInstallment creates a gateway order for the next monthly amount
func (p *PaymentController) CollectInstallment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	installment, err := p.Store.GetInstallment(id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	if installment.Status != database.InstallmentActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Installment plan is not active"})
		return
	}

	if config.AppConfig.RazorpayKey == "" {
		c.JSON(http.StatusOK, gin.H{
			"dev_mode":       true,
			"message":        "Payment gateway not configured; collect manually",
			"installment_id": installment.ID,
			"amount":         installment.MonthlyAmount,
		})
		return
	}

	client := razorpay.NewClient(config.AppConfig.RazorpayKey, config.AppConfig.RazorpaySecret)

	// Razorpay amounts are in the smallest currency unit.
	amount := int64(installment.MonthlyAmount * 100)
	data := map[string]interface{}{
		"amount":   amount,
		"currency": "INR",
		"receipt":  fmt.Sprintf("inst-%d-m%d", installment.ID, installment.PaidMonths+1),
		"notes": map[string]interface{}{
			"installment_id": installment.ID,
			"sale_id":        installment.SaleID,
		},
	}
	order, err := client.Order.Create(data, nil)
	if err != nil {
		log.Printf("Razorpay order creation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":       order["id"],
		"amount":         amount,
		"currency":       "INR",
		"installment_id": installment.ID,
		"key":            config.AppConfig.RazorpayKey,
	})
}

// VerifyPayment checks the gateway signature and records the monthly
// payment on success
func (p *PaymentController) VerifyPayment(c *gin.Context) {
	var req PaymentVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	payload := req.OrderID + "|" + req.PaymentID
	mac := hmac.New(sha256.New, []byte(config.AppConfig.RazorpaySecret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment signature"})
		return
	}

	installment, err := p.Store.RecordInstallmentPayment(actorFrom(c), req.InstallmentID)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Payment recorded",
		"installment": installment,
	})
}
