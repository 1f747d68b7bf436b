package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/koyo-works/crm-backend/internal/db/models"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID int64
	Role   string
	City   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Middleware validates the Authorization header and attaches the caller's
// principal to the request context.
func Middleware(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := manager.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(principalKey, Principal{UserID: userID, Role: claims.Role, City: claims.City})
		c.Set("user_id", userID)

		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. It must run after
// Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the authenticated caller for the request.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}
