package user

import (
	"net/http"

	"jaggery_back_end/internal/auth"
	"jaggery_back_end/internal/handlers"
	"jaggery_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Signup(svc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in auth.SignupInput
		if !handlers.BindJSON(c, &in) {
			return
		}
		u, err := svc.Signup(c.Request.Context(), in)
		if err != nil {
			handlers.RespondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"user":    u.Summary(),
		})
	}
}

func Login(svc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in auth.LoginInput
		if !handlers.BindJSON(c, &in) {
			return
		}
		token, u, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			handlers.RespondError(c, logger, err)
			return
		}
		logger.Info("🔓 login", zap.String("user_id", u.ID.String()))
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u.Summary()})
	}
}

func GetProfile(svc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Profile(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			handlers.RespondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func UpdateProfile(svc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in auth.ProfileUpdate
		if !handlers.BindJSON(c, &in) {
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), in)
		if err != nil {
			handlers.RespondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
