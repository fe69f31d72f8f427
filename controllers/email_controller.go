package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"laptoppos/utils"
)

// EmailController exposes the outgoing-mail endpoint.
type EmailController struct{}

// SendEmailRequest contains an outgoing message
type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	HTML    string `json:"html" binding:"required"`
}

// Send delivers an email, or logs it when no SMTP relay is configured
func (e *EmailController) Send(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	result, err := utils.SendMail(req.To, req.Subject, req.HTML)
	if err != nil {
		log.Printf("Email send failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Email delivery failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"delivered": result.Delivered,
		"message":   result.Message,
	})
}
