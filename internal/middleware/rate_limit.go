package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jaggery_back_end/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

func NewLoginLimiter(rdb *redis.Client) *cache.AttemptLimiter {
	return cache.NewAttemptLimiter(rdb, "login", LoginMaxAttempts, LoginCooldown)
}

func NewRegisterLimiter(rdb *redis.Client) *cache.AttemptLimiter {
	return cache.NewAttemptLimiter(rdb, "register", RegisterMaxAttempts, RegisterCooldown)
}

// peekEmail reads the email field of a JSON body and puts the body back for the handler.
func peekEmail(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var input struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &input) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(input.Email))
}

func tooManyRequests(c *gin.Context, ttl time.Duration) {
	minutes := int(ttl.Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"message":     fmt.Sprintf("Too many attempts. Try again in %d minutes", minutes),
		"retry_after": int(ttl.Seconds()),
	})
}

// LoginRateLimit counts failed logins per email. A successful login clears the count.
// With a nil limiter every request passes.
func LoginRateLimit(limiter *cache.AttemptLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		email := peekEmail(c)
		if email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if ttl, blocked, err := limiter.Blocked(ctx, email); err != nil {
			logger.Warn("⚠️ login limiter unavailable", zap.Error(err))
		} else if blocked {
			tooManyRequests(c, ttl)
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			remaining, err := limiter.Hit(ctx, email)
			if err != nil {
				logger.Warn("⚠️ login limiter unavailable", zap.Error(err))
				return
			}
			if remaining == 0 {
				logger.Warn("🔒 login cooldown started", zap.String("email", email))
			}
		case http.StatusOK:
			if err := limiter.Reset(ctx, email); err != nil {
				logger.Warn("⚠️ login limiter unavailable", zap.Error(err))
			}
		}
	}
}

// RegisterRateLimit counts successful signups per client IP.
func RegisterRateLimit(limiter *cache.AttemptLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		ctx := c.Request.Context()

		if ttl, blocked, err := limiter.Blocked(ctx, ip); err != nil {
			logger.Warn("⚠️ register limiter unavailable", zap.Error(err))
		} else if blocked {
			tooManyRequests(c, ttl)
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			if _, err := limiter.Hit(ctx, ip); err != nil {
				logger.Warn("⚠️ register limiter unavailable", zap.Error(err))
			}
		}
	}
}
