package auth

import (
	"context"
	"net/http"
	"strings"

	"listing-market/internal/logger"
	"listing-market/internal/models"

	"github.com/gin-gonic/gin"
)

// Identity is the profile the identity provider supplies per request
type Identity struct {
	ExternalID string
	Email      string
	Name       *string
}

// UserSyncer finds or creates the local account for an identity
type UserSyncer interface {
	SyncIdentity(ctx context.Context, identity Identity) (*models.User, error)
}

// Middleware validates the bearer token and syncs the local user record
func Middleware(users UserSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		user, err := users.SyncIdentity(c.Request.Context(), Identity{
			ExternalID: claims.Subject,
			Email:      claims.Email,
			Name:       claims.Name,
		})
		if err != nil {
			logger.Log.WithError(err).Error("Failed to sync user from identity provider")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve user",
			})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("external_id", user.ExternalID)

		c.Next()
	}
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}
