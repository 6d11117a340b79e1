package middleware

import (
	"net/http"
	"strings"

	"github.com/MosinFAM/connecthub/internal/auth"
	"github.com/MosinFAM/connecthub/internal/models"
	"github.com/MosinFAM/connecthub/internal/storage"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth aborts with 401 unless a valid Bearer token maps to an existing user.
func RequireAuth(store storage.Storage, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		userID, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		user, err := store.GetUserByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present and stays silent otherwise.
func OptionalAuth(store storage.Storage, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if userID, err := auth.ParseToken(secret, tokenString); err == nil {
				if user, err := store.GetUserByID(userID); err == nil {
					c.Set(userKey, user)
				}
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by the middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
