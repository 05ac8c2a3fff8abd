package pa

import (
	"net/http"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/handlers"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ShippingOptions quotes delivery for ?subtotal=. A missing subtotal quotes an empty cart.
func (h *CheckoutHandlers) ShippingOptions(c *gin.Context) {
	subtotal := decimal.Zero
	if raw := c.Query("subtotal"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			handlers.RespondError(c, h.Logger, apperr.Validation("subtotal", "Invalid subtotal"))
			return
		}
		subtotal = d
	}
	c.JSON(http.StatusOK, h.Service.Quote(subtotal))
}
