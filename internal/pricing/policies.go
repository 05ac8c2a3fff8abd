package pricing

import (
	"jaggery_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// ThresholdPolicy ships free when the subtotal is strictly above FreeAbove, Flat otherwise. No tax.
type ThresholdPolicy struct {
	FreeAbove decimal.Decimal
	Flat      decimal.Decimal
}

func DefaultThreshold() ThresholdPolicy {
	return ThresholdPolicy{
		FreeAbove: decimal.NewFromInt(500),
		Flat:      decimal.NewFromInt(50),
	}
}

func (ThresholdPolicy) Name() string { return PolicyThreshold }

func (p ThresholdPolicy) Shipping(subtotal decimal.Decimal, _ Options) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeAbove) {
		return decimal.Zero
	}
	return p.Flat
}

func (ThresholdPolicy) Tax(decimal.Decimal) decimal.Decimal { return decimal.Zero }

func (p ThresholdPolicy) Quote(subtotal decimal.Decimal) models.ShippingQuote {
	fee := p.Shipping(subtotal, Options{})
	option := models.ShippingOption{
		ID:            models.DeliveryStandard,
		Name:          "Standard Delivery",
		Description:   "Delivered in 5-7 business days",
		Price:         fee,
		EstimatedDays: 7,
	}
	if fee.IsZero() {
		option.Name = "Free Standard Delivery"
	}
	return models.ShippingQuote{
		Options:       []models.ShippingOption{option},
		Policy:        p.Name(),
		FreeThreshold: p.FreeAbove,
		CartTotal:     subtotal,
		IsFree:        fee.IsZero(),
	}
}

// DeliverySpeedPolicy charges by delivery speed and adds TaxRate on the subtotal.
type DeliverySpeedPolicy struct {
	Standard decimal.Decimal
	Express  decimal.Decimal
	TaxRate  decimal.Decimal
}

func DefaultDeliverySpeed() DeliverySpeedPolicy {
	return DeliverySpeedPolicy{
		Standard: decimal.NewFromInt(49),
		Express:  decimal.NewFromInt(99),
		TaxRate:  decimal.NewFromFloat(0.05),
	}
}

func (DeliverySpeedPolicy) Name() string { return PolicyDeliverySpeed }

func (p DeliverySpeedPolicy) Shipping(_ decimal.Decimal, opts Options) decimal.Decimal {
	if opts.Delivery == models.DeliveryExpress {
		return p.Express
	}
	return p.Standard
}

func (p DeliverySpeedPolicy) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate).Round(2)
}

func (p DeliverySpeedPolicy) Quote(subtotal decimal.Decimal) models.ShippingQuote {
	return models.ShippingQuote{
		Options: []models.ShippingOption{
			{
				ID:            models.DeliveryStandard,
				Name:          "Standard Delivery",
				Description:   "Delivered in 5-7 business days",
				Price:         p.Standard,
				EstimatedDays: 7,
			},
			{
				ID:            models.DeliveryExpress,
				Name:          "Express Delivery",
				Description:   "Delivered in 1-2 business days",
				Price:         p.Express,
				EstimatedDays: 2,
			},
		},
		Policy:    p.Name(),
		CartTotal: subtotal,
	}
}
