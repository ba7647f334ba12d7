package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Bossppp/cozy-hotel-bookings/models"
	"github.com/Bossppp/cozy-hotel-bookings/services"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

const userContextKey = "currentUser"

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth resolves the bearer token to a user and stores it on the
// context. Missing, unknown and expired tokens all answer 401.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "not authorized to access this route")
			c.Abort()
			return
		}

		user, err := auth.UserForToken(c.Request.Context(), token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "not authorized to access this route")
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			utils.JSONError(c, http.StatusForbidden, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
