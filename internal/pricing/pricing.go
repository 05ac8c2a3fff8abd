package pricing

import (
	"fmt"

	"jaggery_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// Options carries the per-order choices a policy may price on.
type Options struct {
	Delivery models.DeliverySpeed
}

// Policy decides shipping and tax for a subtotal.
type Policy interface {
	Name() string
	Shipping(subtotal decimal.Decimal, opts Options) decimal.Decimal
	Tax(subtotal decimal.Decimal) decimal.Decimal
	Quote(subtotal decimal.Decimal) models.ShippingQuote
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Policy   string          `json:"policy"`
}

func Subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Calculate prices items under p. An empty cart is priced like any other: subtotal 0 plus the policy fees.
func Calculate(items []models.CartItem, p Policy, opts Options) Totals {
	subtotal := Subtotal(items)
	shipping := p.Shipping(subtotal, opts)
	tax := p.Tax(subtotal)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
		Policy:   p.Name(),
	}
}

const (
	PolicyThreshold     = "threshold"
	PolicyDeliverySpeed = "delivery_speed"
)

// FromName returns the policy configured under name.
func FromName(name string) (Policy, error) {
	switch name {
	case "", PolicyThreshold:
		return DefaultThreshold(), nil
	case PolicyDeliverySpeed:
		return DefaultDeliverySpeed(), nil
	default:
		return nil, fmt.Errorf("unknown pricing policy %q", name)
	}
}
