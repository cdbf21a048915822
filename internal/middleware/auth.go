package middleware

import (
	"net/http"
	"strings"

	"clinic-scheduling-server/internal/apperrors"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
	Role   models.Role
}

// HasRole reports whether the caller's role is one of roles.
func (p Principal) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func abortWith(c *gin.Context, err *apperrors.Error) {
	status := http.StatusUnauthorized
	if err.Kind == apperrors.KindForbidden {
		status = http.StatusForbidden
	}
	utils.Error(c, status, err.Message)
	c.Abort()
}

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperrors.ErrMissingToken)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWith(c, apperrors.ErrMissingToken)
			return
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(principalKey, Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Profile,
		})

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortWith(c, apperrors.ErrMissingToken)
			return
		}

		if !principal.HasRole(allowedRoles...) {
			abortWith(c, apperrors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the caller set by AuthMiddleware.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}
