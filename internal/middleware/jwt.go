package middleware

import (
	"net/http"
	"strings"

	"jaggery_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// AuthRequired rejects requests without a valid bearer token and puts the
// token's user_id and email in the gin context.
func AuthRequired(issuer *utils.TokenIssuer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			logger.Debug("❌ rejected token", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func UserID(c *gin.Context) string { return c.GetString(UserIDKey) }

func Email(c *gin.Context) string { return c.GetString(EmailKey) }
