package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quick-cart-101/AuthService/internal/utils"
)

const (
	AuthUserKey  = "authUser"
	AuthRolesKey = "authRoles"
	AuthTokenKey = "authToken"
)

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := parts[1]
		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Set user information in context; the raw token is kept for
		// handlers that operate on the session it names (logout).
		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRolesKey, claims.Scope)
		c.Set(AuthTokenKey, tokenString)

		c.Next()
	}
}
