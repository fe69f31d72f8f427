package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"laptoppos/database"
	"laptoppos/middleware"
)

// actorFrom builds the store actor for the authenticated caller. Mutating
// store operations re-check this actor's permissions at the store boundary.
func actorFrom(c *gin.Context) database.Actor {
	session := middleware.SessionFrom(c)
	if session == nil {
		return database.Actor{}
	}
	return database.Actor{
		UserID:   session.UserID,
		Username: session.Username,
		Role:     session.Role,
	}
}

// handleStoreError translates the store error taxonomy to HTTP statuses.
func handleStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrReferenced):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	default:
		log.Printf("Store error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
