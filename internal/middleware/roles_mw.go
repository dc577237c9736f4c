package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quick-cart-101/AuthService/internal/model"
)

// RoleMiddleware creates a middleware that lets the request through only when
// the authenticated user carries one of the allowed roles. It must run after
// JWTAuthMiddleware.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesVal, exists := c.Get(AuthRolesKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Roles not found in token, ensure JWT middleware runs first"})
			return
		}

		userRoles, ok := rolesVal.([]string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid role scope in token"})
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			for _, userRole := range userRoles {
				if userRole == allowedRole {
					isAllowed = true
					break
				}
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}
