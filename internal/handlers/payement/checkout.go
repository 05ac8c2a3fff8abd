package pa

import (
	"net/http"

	"jaggery_back_end/internal/checkout"
	"jaggery_back_end/internal/handlers"
	"jaggery_back_end/internal/middleware"
	"jaggery_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandlers serves the checkout wizard for the authenticated user.
type CheckoutHandlers struct {
	Service *checkout.Service
	Logger  *zap.Logger
}

func (h *CheckoutHandlers) reply(c *gin.Context, v checkout.View, err error) {
	if err != nil {
		handlers.RespondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *CheckoutHandlers) State(c *gin.Context) {
	v, err := h.Service.State(c.Request.Context(), middleware.UserID(c))
	h.reply(c, v, err)
}

func (h *CheckoutHandlers) SaveShipping(c *gin.Context) {
	var in models.ShippingInfo
	if !handlers.BindJSON(c, &in) {
		return
	}
	v, err := h.Service.SaveShipping(c.Request.Context(), middleware.UserID(c), in)
	h.reply(c, v, err)
}

func (h *CheckoutHandlers) SavePayment(c *gin.Context) {
	var in checkout.PaymentSelection
	if !handlers.BindJSON(c, &in) {
		return
	}
	v, err := h.Service.SavePayment(c.Request.Context(), middleware.UserID(c), in)
	h.reply(c, v, err)
}

func (h *CheckoutHandlers) Next(c *gin.Context) {
	v, err := h.Service.Next(c.Request.Context(), middleware.UserID(c))
	h.reply(c, v, err)
}

func (h *CheckoutHandlers) Prev(c *gin.Context) {
	v, err := h.Service.Prev(c.Request.Context(), middleware.UserID(c))
	h.reply(c, v, err)
}

func (h *CheckoutHandlers) PlaceOrder(c *gin.Context) {
	order, conf, err := h.Service.PlaceOrder(c.Request.Context(), middleware.UserID(c), middleware.Email(c))
	if err != nil {
		handlers.RespondError(c, h.Logger, err)
		return
	}
	if !conf.Settled() {
		c.JSON(http.StatusAccepted, gin.H{
			"message":      "Payment requires confirmation",
			"order":        order,
			"confirmation": conf,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Order placed successfully",
		"order":        order,
		"confirmation": conf,
	})
}

func (h *CheckoutHandlers) UPIQR(c *gin.Context) {
	png, err := h.Service.UPIQR(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handlers.RespondError(c, h.Logger, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
