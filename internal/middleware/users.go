package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"inventory/internal/logger"
	"inventory/internal/models"
)

// UserTracker records that an authenticated user is active.
type UserTracker interface {
	Touch(ctx context.Context, username string, role models.Role) (*models.User, error)
}

// TrackUsers keeps the users table current for every authenticated request.
// It must run after AuthMiddleware. Failures are logged and never block the
// request.
func TrackUsers(users UserTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("username")
		if username != "" {
			role, _ := c.Get("role")
			r, _ := role.(models.Role)
			if _, err := users.Touch(c.Request.Context(), username, r); err != nil {
				logger.Get().Warnw("failed to record user activity", "username", username, "error", err)
			}
		}
		c.Next()
	}
}
