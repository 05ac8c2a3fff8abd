package user

import (
	"net/http"

	"jaggery_back_end/internal/auth"
	"jaggery_back_end/internal/handlers"
	"jaggery_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ChangePassword(svc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in auth.ChangePasswordInput
		if !handlers.BindJSON(c, &in) {
			return
		}
		if err := svc.ChangePassword(c.Request.Context(), middleware.UserID(c), in); err != nil {
			handlers.RespondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}
