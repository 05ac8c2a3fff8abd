package pricing

import (
	"testing"

	"jaggery_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id int, price string, qty int) models.CartItem {
	return models.CartItem{ID: id, Title: "Jaggery", Price: decimal.RequireFromString(price), Quantity: qty}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestThresholdPolicy(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.CartItem
		subtotal string
		shipping string
		total    string
	}{
		{"empty cart", nil, "0", "50", "50"},
		{"below threshold", []models.CartItem{item(1, "120", 2)}, "240", "50", "290"},
		{"exactly at threshold pays shipping", []models.CartItem{item(1, "250", 2)}, "500", "50", "550"},
		{"just above threshold", []models.CartItem{item(1, "500.01", 1)}, "500.01", "0", "500.01"},
		{"repeat add of same product", []models.CartItem{item(1, "300", 2)}, "600", "0", "600"},
		{"several lines", []models.CartItem{item(1, "99.50", 3), item(2, "180", 1)}, "478.5", "50", "528.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := Calculate(tt.items, DefaultThreshold(), Options{})
			assertDecimal(t, tt.subtotal, totals.Subtotal)
			assertDecimal(t, tt.shipping, totals.Shipping)
			assertDecimal(t, "0", totals.Tax)
			assertDecimal(t, tt.total, totals.Total)
			assert.Equal(t, PolicyThreshold, totals.Policy)
		})
	}
}

func TestSubtotalIgnoresOrder(t *testing.T) {
	a := []models.CartItem{item(1, "120", 2), item(2, "75.25", 1), item(3, "310", 4)}
	b := []models.CartItem{a[2], a[0], a[1]}
	assert.True(t, Subtotal(a).Equal(Subtotal(b)))
}

func TestDeliverySpeedPolicy(t *testing.T) {
	items := []models.CartItem{item(1, "1000", 1)}

	standard := Calculate(items, DefaultDeliverySpeed(), Options{Delivery: models.DeliveryStandard})
	assertDecimal(t, "49", standard.Shipping)
	assertDecimal(t, "50", standard.Tax)
	assertDecimal(t, "1099", standard.Total)

	express := Calculate(items, DefaultDeliverySpeed(), Options{Delivery: models.DeliveryExpress})
	assertDecimal(t, "99", express.Shipping)
	assertDecimal(t, "1149", express.Total)

	t.Run("tax rounds to paise", func(t *testing.T) {
		totals := Calculate([]models.CartItem{item(1, "33.33", 1)}, DefaultDeliverySpeed(), Options{})
		assertDecimal(t, "1.67", totals.Tax)
	})
}

func TestQuote(t *testing.T) {
	free := DefaultThreshold().Quote(decimal.NewFromInt(501))
	assert.True(t, free.IsFree)
	require.Len(t, free.Options, 1)
	assertDecimal(t, "0", free.Options[0].Price)
	assertDecimal(t, "500", free.FreeThreshold)

	paid := DefaultThreshold().Quote(decimal.NewFromInt(500))
	assert.False(t, paid.IsFree)
	assertDecimal(t, "50", paid.Options[0].Price)

	speed := DefaultDeliverySpeed().Quote(decimal.NewFromInt(100))
	require.Len(t, speed.Options, 2)
	assert.Equal(t, models.DeliveryExpress, speed.Options[1].ID)
}

func TestFromName(t *testing.T) {
	p, err := FromName("")
	require.NoError(t, err)
	assert.Equal(t, PolicyThreshold, p.Name())

	p, err = FromName(PolicyDeliverySpeed)
	require.NoError(t, err)
	assert.Equal(t, PolicyDeliverySpeed, p.Name())

	_, err = FromName("free")
	assert.Error(t, err)
}
