package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laptoppos/auth"
	"laptoppos/config"
	"laptoppos/database"
	"laptoppos/middleware"
	"laptoppos/utils"
)

// AuthController handles login, session refresh and registration.
type AuthController struct {
	Store *database.Store
}

// LoginRequest contains the credentials for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest contains the data for a signup request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginResponse is the structure returned after login
type LoginResponse struct {
	Token  string        `json:"token"`
	User   database.User `json:"user"`
	Expiry int64         `json:"expiry"`
}

// Login authenticates a user and returns a session token
func (a *AuthController) Login(c *gin.Context) {
	var loginRequest LoginRequest
	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	user, err := a.Store.FindUserByUsername(loginRequest.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
		return
	}
	if !utils.CheckPasswordHash(loginRequest.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	issuedAt := time.Now()
	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), issuedAt)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	user.PasswordHash = ""
	c.JSON(http.StatusOK, LoginResponse{
		Token:  token,
		User:   *user,
		Expiry: issuedAt.Add(config.GetSessionTTL()).Unix(),
	})
}

// RefreshToken re-stamps a still-valid session, extending it without
// re-authentication. An expired session cannot be refreshed.
func (a *AuthController) RefreshToken(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issuedAt := time.Now()
	token, err := utils.GenerateJWT(session.UserID, session.Username, string(session.Role), issuedAt)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"expiry": issuedAt.Add(config.GetSessionTTL()).Unix(),
	})
}

// SessionStatus reports the session's remaining lifetime and whether the
// near-expiry warning should show. The UI polls this every minute.
func (a *AuthController) SessionStatus(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"state":             session.State(now).String(),
		"remaining_seconds": int(session.Remaining(now).Seconds()),
		"warning":           session.NearExpiry(now),
		"permissions":       permissionsFor(session.Role),
	})
}

// Register files a signup request and emails a confirmation link
func (a *AuthController) Register(c *gin.Context) {
	var registerRequest RegisterRequest
	if err := c.ShouldBindJSON(&registerRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	passwordHash, err := utils.HashPassword(registerRequest.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing registration"})
		return
	}

	request, err := a.Store.Register(database.RegistrationInput{
		Username:     registerRequest.Username,
		Email:        registerRequest.Email,
		PasswordHash: passwordHash,
		TokenTTL:     config.GetRegistrationTTL(),
	})
	if err != nil {
		handleStoreError(c, err)
		return
	}

	subject, html := utils.ConfirmationEmailBody(request.Username, request.Token)
	mail, err := utils.SendMail(request.Email, subject, html)
	if err != nil {
		// The request is already filed; report the email failure only.
		log.Printf("Failed to send confirmation email: %v", err)
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Registration received, but the confirmation email could not be sent.",
			"request_id": request.ID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Registration received. Check your email for the confirmation link.",
		"request_id": request.ID,
		"delivered":  mail.Delivered,
	})
}

// ConfirmEmail consumes a confirmation token from the emailed link
func (a *AuthController) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing confirmation token."})
		return
	}
	ok, message := a.Store.ConfirmRegistrationEmail(token)
	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": ok, "message": message})
}

// ChangePasswordRequest carries a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword lets an authenticated user rotate their own password
func (a *AuthController) ChangePassword(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	user, err := a.Store.GetUser(session.UserID)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing password change"})
		return
	}
	if err := a.Store.ChangePassword(actorFrom(c), newHash); err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// permissionsFor is exposed for the session status payload.
func permissionsFor(role auth.Role) []auth.Permission {
	return auth.Permissions(role)
}
