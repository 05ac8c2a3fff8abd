package handlers

import (
	"net/http"
	"strconv"

	"jaggery_back_end/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ListProducts(c *catalog.Catalog) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.List())
	}
}

func GetProduct(c *catalog.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := strconv.Atoi(ctx.Param("id"))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
			return
		}
		p, err := c.Lookup(id)
		if err != nil {
			RespondError(ctx, logger, err)
			return
		}
		ctx.JSON(http.StatusOK, p)
	}
}
