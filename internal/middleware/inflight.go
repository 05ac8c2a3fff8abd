package middleware

import (
	"errors"
	"net/http"
	"time"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/cache"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Subject picks what a request is keyed on, e.g. the user or the email in the body.
type Subject func(c *gin.Context) string

func BySubmittedEmail(c *gin.Context) string { return peekEmail(c) }

func ByUser(c *gin.Context) string { return UserID(c) }

// SingleFlight lets one request per action and subject through at a time.
// A second request while the first is running gets 409.
func SingleFlight(locker cache.Locker, action string, subject Subject, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := subject(c)
		if key == "" {
			c.Next()
			return
		}

		release, err := locker.TryAcquire(c.Request.Context(), cache.LockKey(action, key), ttl)
		if errors.Is(err, apperr.ErrInFlight) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": apperr.ErrInFlight.Error()})
			return
		}
		if err != nil {
			logger.Error("❌ in-flight guard unavailable", zap.String("action", action), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Service temporarily unavailable"})
			return
		}
		defer release()

		c.Next()
	}
}
