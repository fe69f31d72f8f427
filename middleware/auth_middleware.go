package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"laptoppos/auth"
	"laptoppos/utils"
)

// AuthMiddleware validates the session token and stores the session on the
// context. Any failure (missing header, bad token, expired or corrupt
// session) denies access; nothing is ever treated as authenticated by
// default.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		session := utils.SessionFromClaims(claims)
		if session.State(time.Now()) != auth.StateAuthenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			c.Abort()
			return
		}

		c.Set("session", session)
		c.Set("userID", session.UserID)
		c.Set("username", session.Username)
		c.Set("role", string(session.Role))

		c.Next()
	}
}

// SessionFrom returns the session installed by AuthMiddleware.
func SessionFrom(c *gin.Context) *auth.Session {
	if v, exists := c.Get("session"); exists {
		if s, ok := v.(*auth.Session); ok {
			return s
		}
	}
	return nil
}

// RequireRole admits only sessions whose role ranks at or above the
// minimum in the worker < manager < admin ordering.
func RequireRole(minimum auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}
		if !auth.HasPermission(session.Role, minimum) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission admits only sessions whose role's permission set
// contains the key. The store re-checks the same permission at its own
// boundary; this middleware just fails fast.
func RequirePermission(perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}
		if !auth.CanAccess(session.Role, perm) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminAuthMiddleware() gin.HandlerFunc {
	return RequireRole(auth.RoleAdmin)
}

func ManagerAuthMiddleware() gin.HandlerFunc {
	return RequireRole(auth.RoleManager)
}
