package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// SimulatedGateway confirms every payment after Delay, unless ctx ends first.
type SimulatedGateway struct {
	Delay time.Duration
	now   func() time.Time
}

func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay, now: time.Now}
}

func (g *SimulatedGateway) SubmitPayment(ctx context.Context, order Order) (Confirmation, error) {
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Confirmation{}, timeoutError(ctx.Err())
	case <-timer.C:
	}

	return Confirmation{
		OrderID:     order.ID,
		Reference:   "sim_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Status:      StatusPaid,
		Amount:      order.Totals.Total,
		Method:      order.Method,
		ConfirmedAt: g.now().UTC(),
	}, nil
}

func timeoutError(err error) *PaymentError {
	return &PaymentError{Code: PaymentCodeTimeout, Message: "Payment timed out, please try again", Err: err}
}

// StripeGateway creates a PaymentIntent in INR. The client confirms it with the returned secret.
type StripeGateway struct {
	create func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	now    func() time.Time
}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{create: paymentintent.New, now: time.Now}
}

func (g *StripeGateway) SubmitPayment(ctx context.Context, order Order) (Confirmation, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.Totals.Total.Shift(2).Round(0).IntPart()),
		Currency: stripe.String("inr"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_id": order.ID.String(),
			"user_id":  order.UserID,
			"email":    order.Email,
		},
	}

	type result struct {
		intent *stripe.PaymentIntent
		err    error
	}
	done := make(chan result, 1)
	go func() {
		intent, err := g.create(params)
		done <- result{intent, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return Confirmation{}, timeoutError(ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		var serr *stripe.Error
		if errors.As(res.err, &serr) && serr.Type == stripe.ErrorTypeCard {
			return Confirmation{}, &PaymentError{Code: PaymentCodeDeclined, Message: "Card was declined", Err: res.err}
		}
		return Confirmation{}, &PaymentError{Code: PaymentCodeGateway, Message: "Payment could not be processed", Err: res.err}
	}

	status := StatusPending
	if res.intent.Status == stripe.PaymentIntentStatusSucceeded {
		status = StatusPaid
	}
	return Confirmation{
		OrderID:      order.ID,
		Reference:    res.intent.ID,
		Status:       status,
		Amount:       order.Totals.Total,
		Method:       order.Method,
		ClientSecret: res.intent.ClientSecret,
		ConfirmedAt:  g.now().UTC(),
	}, nil
}

// CODGateway accepts cash-on-delivery orders without contacting anyone.
type CODGateway struct {
	now func() time.Time
}

func (g CODGateway) SubmitPayment(_ context.Context, order Order) (Confirmation, error) {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	return Confirmation{
		OrderID:     order.ID,
		Reference:   "cod_" + order.ID.String(),
		Status:      StatusPendingCOD,
		Amount:      order.Totals.Total,
		Method:      MethodCOD,
		ConfirmedAt: now().UTC(),
	}, nil
}

// Router sends cod orders to CODGateway and everything else to Online.
type Router struct {
	Online PaymentGateway
	COD    PaymentGateway
}

func (r Router) SubmitPayment(ctx context.Context, order Order) (Confirmation, error) {
	if order.Method == MethodCOD {
		cod := r.COD
		if cod == nil {
			cod = CODGateway{}
		}
		return cod.SubmitPayment(ctx, order)
	}
	return r.Online.SubmitPayment(ctx, order)
}
