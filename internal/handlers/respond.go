package handlers

import (
	"net/http"

	"jaggery_back_end/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError writes err as {"message": ...} with the status from apperr.Status.
// Server errors are logged and their details are kept from the client.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logger.Error("❌ request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"message": apperr.Message(err)})
}

// BindJSON decodes the body into dst and answers 400 if it is not valid JSON.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return false
	}
	return true
}
