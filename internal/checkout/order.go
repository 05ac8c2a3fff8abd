package checkout

import (
	"context"
	"net/http"
	"time"

	"jaggery_back_end/internal/models"
	"jaggery_back_end/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID        uuid.UUID            `json:"id"`
	UserID    string               `json:"userId"`
	Email     string               `json:"email"`
	Items     []models.CartItem    `json:"items"`
	Totals    pricing.Totals       `json:"totals"`
	Shipping  models.ShippingInfo  `json:"shipping"`
	Method    PaymentMethod        `json:"paymentMethod"`
	Delivery  models.DeliverySpeed `json:"delivery"`
	CreatedAt time.Time            `json:"createdAt"`
}

const (
	StatusPaid       = "paid"
	StatusPendingCOD = "pending_cod"
	StatusPending    = "requires_action"
)

type Confirmation struct {
	OrderID   uuid.UUID       `json:"orderId"`
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"paymentMethod"`
	// ClientSecret is set when the client still has to confirm the payment (Stripe).
	ClientSecret string    `json:"clientSecret,omitempty"`
	ConfirmedAt  time.Time `json:"confirmedAt"`
}

// Settled reports whether the order is final. A requires_action result still
// waits on the client to confirm the payment.
func (c Confirmation) Settled() bool { return c.Status != StatusPending }

// PaymentGateway confirms payment for an order.
type PaymentGateway interface {
	SubmitPayment(ctx context.Context, order Order) (Confirmation, error)
}

const (
	PaymentCodeTimeout  = "timeout"
	PaymentCodeDeclined = "declined"
	PaymentCodeGateway  = "gateway_error"
)

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "payment failed"
}

func (e *PaymentError) Unwrap() error { return e.Err }

func (e *PaymentError) StatusCode() int { return http.StatusPaymentRequired }
