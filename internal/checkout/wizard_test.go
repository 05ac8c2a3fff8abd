package checkout

import (
	"encoding/json"
	"testing"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeShipping() models.ShippingInfo {
	return models.ShippingInfo{
		FirstName: "Meera",
		LastName:  "Kulkarni",
		Email:     "meera@example.in",
		Phone:     "9876543210",
		Address:   "12 MG Road",
		City:      "Pune",
		State:     "Maharashtra",
		Pincode:   "411001",
	}
}

func validCard() *CardDetails {
	return &CardDetails{Number: "4242 4242 4242 4242", Expiry: "12/29", CVV: "123", Name: "Meera Kulkarni"}
}

// wizardAt walks a fresh wizard forward to step with valid data.
func wizardAt(t *testing.T, step Step) *Wizard {
	t.Helper()
	w := NewWizard()
	w.SetShipping(completeShipping())
	require.NoError(t, w.SetPayment(PaymentSelection{Method: MethodUPI}))
	for w.Step < step {
		require.NoError(t, w.Next(1))
	}
	return w
}

func TestNewWizardDefaults(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StepCart, w.Step)
	assert.Equal(t, "India", w.Shipping.Country)
	assert.Equal(t, MethodCard, w.Payment.Method)
	assert.Equal(t, models.DeliveryStandard, w.Payment.Delivery)
}

func TestPrevAtCartIsNoop(t *testing.T) {
	w := NewWizard()
	w.Prev()
	assert.Equal(t, StepCart, w.Step)
}

func TestNextAtReviewIsNoop(t *testing.T) {
	w := wizardAt(t, StepReview)
	require.NoError(t, w.Next(1))
	assert.Equal(t, StepReview, w.Step)
}

func TestNextThenPrevRoundTrips(t *testing.T) {
	for _, step := range []Step{StepCart, StepShipping, StepPayment} {
		t.Run(step.String(), func(t *testing.T) {
			w := wizardAt(t, step)
			require.NoError(t, w.Next(1))
			assert.Equal(t, step+1, w.Step)
			w.Prev()
			assert.Equal(t, step, w.Step)
		})
	}
}

func TestNextGates(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		w := NewWizard()
		err := w.Next(0)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "cart", ve.Field)
		assert.Equal(t, StepCart, w.Step)
	})

	t.Run("missing shipping fields", func(t *testing.T) {
		cases := map[string]func(*models.ShippingInfo){
			"firstName": func(s *models.ShippingInfo) { s.FirstName = "" },
			"lastName":  func(s *models.ShippingInfo) { s.LastName = "  " },
			"phone":     func(s *models.ShippingInfo) { s.Phone = "" },
			"address":   func(s *models.ShippingInfo) { s.Address = "" },
			"city":      func(s *models.ShippingInfo) { s.City = "" },
			"state":     func(s *models.ShippingInfo) { s.State = "" },
			"pincode":   func(s *models.ShippingInfo) { s.Pincode = "" },
			"email":     func(s *models.ShippingInfo) { s.Email = "not-an-email" },
		}
		for field, mutate := range cases {
			t.Run(field, func(t *testing.T) {
				w := wizardAt(t, StepShipping)
				info := completeShipping()
				mutate(&info)
				w.SetShipping(info)

				err := w.Next(1)
				var ve *apperr.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, field, ve.Field)
				assert.Equal(t, StepShipping, w.Step)
			})
		}
	})

	t.Run("first missing field wins", func(t *testing.T) {
		w := wizardAt(t, StepShipping)
		w.SetShipping(models.ShippingInfo{})
		err := w.Next(1)
		assert.Equal(t, "First name is required", apperr.Message(err))
	})

	t.Run("card without details", func(t *testing.T) {
		w := wizardAt(t, StepPayment)
		w.Payment = PaymentState{Method: MethodCard, Delivery: models.DeliveryStandard}
		err := w.Next(1)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "card", ve.Field)
		assert.Equal(t, StepPayment, w.Step)
	})

	t.Run("prev is never gated", func(t *testing.T) {
		w := wizardAt(t, StepPayment)
		w.SetShipping(models.ShippingInfo{})
		w.Prev()
		assert.Equal(t, StepShipping, w.Step)
	})
}

func TestSetShippingDefaultsCountry(t *testing.T) {
	w := NewWizard()
	info := completeShipping()
	info.City = "  Pune "
	w.SetShipping(info)
	assert.Equal(t, "India", w.Shipping.Country)
	assert.Equal(t, "Pune", w.Shipping.City)

	info.Country = "Nepal"
	w.SetShipping(info)
	assert.Equal(t, "Nepal", w.Shipping.Country)
}

func TestSetPaymentKeepsOnlyCardSummary(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.SetPayment(PaymentSelection{Method: MethodCard, Delivery: models.DeliveryExpress, Card: validCard()}))

	require.NotNil(t, w.Payment.Card)
	assert.Equal(t, "4242", w.Payment.Card.Last4)
	assert.Equal(t, models.DeliveryExpress, w.Payment.Delivery)

	raw, err := json.Marshal(w)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "4242424242424242")
	assert.NotContains(t, string(raw), `"cvv"`)
}

func TestSetPaymentRejectsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		sel   PaymentSelection
		field string
	}{
		{"unknown method", PaymentSelection{Method: "bitcoin"}, "method"},
		{"unknown delivery", PaymentSelection{Method: MethodUPI, Delivery: "drone"}, "delivery"},
		{"card missing", PaymentSelection{Method: MethodCard}, "card"},
		{"short number", PaymentSelection{Method: MethodCard, Card: &CardDetails{Number: "4242", Expiry: "12/29", CVV: "123", Name: "M"}}, "cardNumber"},
		{"letters in number", PaymentSelection{Method: MethodCard, Card: &CardDetails{Number: "4242abcd42424242", Expiry: "12/29", CVV: "123", Name: "M"}}, "cardNumber"},
		{"bad expiry", PaymentSelection{Method: MethodCard, Card: &CardDetails{Number: "4242424242424242", Expiry: "13/29", CVV: "123", Name: "M"}}, "expiry"},
		{"bad cvv", PaymentSelection{Method: MethodCard, Card: &CardDetails{Number: "4242424242424242", Expiry: "12/29", CVV: "12", Name: "M"}}, "cvv"},
		{"no name", PaymentSelection{Method: MethodCard, Card: &CardDetails{Number: "4242424242424242", Expiry: "12/29", CVV: "1234", Name: " "}}, "name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWizard()
			before := w.Payment
			err := w.SetPayment(tc.sel)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, before, w.Payment)
		})
	}
}

func TestEveryMethodAccepted(t *testing.T) {
	for _, m := range []PaymentMethod{MethodUPI, MethodNetbanking, MethodCOD} {
		w := wizardAt(t, StepPayment)
		require.NoError(t, w.SetPayment(PaymentSelection{Method: m}))
		require.NoError(t, w.Next(1))
		assert.Equal(t, StepReview, w.Step)
	}
}

func TestStepJSON(t *testing.T) {
	raw, err := json.Marshal(StepPayment)
	require.NoError(t, err)
	assert.Equal(t, `"payment"`, string(raw))

	var s Step
	require.NoError(t, json.Unmarshal([]byte(`"review"`), &s))
	assert.Equal(t, StepReview, s)
	assert.Error(t, json.Unmarshal([]byte(`"confirmation"`), &s))

	assert.Equal(t, []string{"cart", "shipping", "payment", "review"}, Steps())
}

func TestReset(t *testing.T) {
	w := wizardAt(t, StepReview)
	w.Reset()
	assert.Equal(t, NewWizard(), w)
}
