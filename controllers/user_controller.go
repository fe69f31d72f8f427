package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laptoppos/auth"
	"laptoppos/database"
	"laptoppos/utils"
)

// UserController handles account administration, registration approval
// and the audit trail. Admin only.
type UserController struct {
	Store *database.Store
}

// CreateUserRequest contains the data for a new account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=worker manager admin"`
}

// sanitizeUser strips the credential hash before a user record leaves the
// API. The hash stays in snapshots and backups, never in responses.
func sanitizeUser(u database.User) database.User {
	u.PasswordHash = ""
	return u
}

// GetUsers returns all accounts
func (uc *UserController) GetUsers(c *gin.Context) {
	users := uc.Store.GetUsers()
	for i := range users {
		users[i] = sanitizeUser(users[i])
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByID returns one account
func (uc *UserController) GetUserByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := uc.Store.GetUser(id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitizeUser(*user))
}

// CreateUser adds a new account
func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing request"})
		return
	}

	user, err := uc.Store.CreateUser(actorFrom(c), database.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         auth.Role(req.Role),
		IsActive:     true,
	})
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sanitizeUser(*user))
}

// UpdateUser applies a partial update (email, role, active flag)
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var update database.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	user, err := uc.Store.UpdateUser(actorFrom(c), id, update)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitizeUser(*user))
}

// GetRegistrationRequests lists signup requests for review
func (uc *UserController) GetRegistrationRequests(c *gin.Context) {
	requests := uc.Store.GetRegistrationRequests()
	for i := range requests {
		requests[i].PasswordHash = ""
	}
	c.JSON(http.StatusOK, requests)
}

// ApproveRegistration promotes a pending request to an account
func (uc *UserController) ApproveRegistration(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := uc.Store.ApproveRegistration(actorFrom(c), id)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitizeUser(*user))
}

// RejectRegistration marks a pending request rejected
func (uc *UserController) RejectRegistration(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := uc.Store.RejectRegistration(actorFrom(c), id); err != nil {
		handleStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration rejected"})
}

// GetAuditLogs returns the append-only audit trail
func (uc *UserController) GetAuditLogs(c *gin.Context) {
	c.JSON(http.StatusOK, uc.Store.GetAuditLogs())
}
