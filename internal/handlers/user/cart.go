package user

import (
	"net/http"
	"strconv"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/cart"
	"jaggery_back_end/internal/catalog"
	"jaggery_back_end/internal/handlers"
	"jaggery_back_end/internal/middleware"
	"jaggery_back_end/internal/models"
	"jaggery_back_end/internal/pricing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartHandlers serves /api/cart for the authenticated user.
type CartHandlers struct {
	Store   *cart.Store
	Catalog *catalog.Catalog
	Policy  pricing.Policy
	Logger  *zap.Logger
}

type cartResponse struct {
	Items  []models.CartItem `json:"items"`
	Count  int               `json:"count"`
	Totals pricing.Totals    `json:"totals"`
}

func (h *CartHandlers) response(items []models.CartItem) cartResponse {
	if items == nil {
		items = []models.CartItem{}
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return cartResponse{
		Items:  items,
		Count:  count,
		Totals: pricing.Calculate(items, h.Policy, pricing.Options{Delivery: models.DeliveryStandard}),
	}
}

func (h *CartHandlers) reply(c *gin.Context, items []models.CartItem, err error) {
	if err != nil {
		handlers.RespondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, h.response(items))
}

func (h *CartHandlers) itemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		handlers.RespondError(c, h.Logger, apperr.Validation("id", "Invalid item id"))
		return 0, false
	}
	return id, true
}

func (h *CartHandlers) Get(c *gin.Context) {
	items, err := h.Store.Items(c.Request.Context(), middleware.UserID(c))
	h.reply(c, items, err)
}

func (h *CartHandlers) Add(c *gin.Context) {
	var in struct {
		ProductID int `json:"productId"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	if in.ProductID < 1 {
		handlers.RespondError(c, h.Logger, apperr.Validation("productId", "Product is required"))
		return
	}
	product, err := h.Catalog.Lookup(in.ProductID)
	if err != nil {
		handlers.RespondError(c, h.Logger, err)
		return
	}
	items, err := h.Store.Add(c.Request.Context(), middleware.UserID(c), product)
	if err == nil {
		h.Logger.Debug("🛒 item added", zap.String("user_id", middleware.UserID(c)), zap.Int("product_id", product.ID))
	}
	h.reply(c, items, err)
}

func (h *CartHandlers) UpdateQuantity(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	var in struct {
		Quantity *int `json:"quantity"`
	}
	if !handlers.BindJSON(c, &in) {
		return
	}
	if in.Quantity == nil {
		handlers.RespondError(c, h.Logger, apperr.Validation("quantity", "Quantity is required"))
		return
	}
	items, err := h.Store.UpdateQuantity(c.Request.Context(), middleware.UserID(c), id, *in.Quantity)
	h.reply(c, items, err)
}

func (h *CartHandlers) Remove(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	items, err := h.Store.Remove(c.Request.Context(), middleware.UserID(c), id)
	h.reply(c, items, err)
}

func (h *CartHandlers) Clear(c *gin.Context) {
	if err := h.Store.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
		handlers.RespondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, h.response(nil))
}
