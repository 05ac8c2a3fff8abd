package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/cache"
	"jaggery_back_end/internal/cart"
	"jaggery_back_end/internal/events"
	"jaggery_back_end/internal/models"
	"jaggery_back_end/internal/pricing"
	"jaggery_back_end/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const placeOrderAction = "place-order"

// Mailer sends the order confirmation e-mail.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order utils.OrderEmail) error
}

type Deps struct {
	Sessions SessionStore
	Carts    *cart.Store
	Policy   pricing.Policy
	Gateway  PaymentGateway
	Locker   cache.Locker
	Mailer   Mailer
	Events   events.Publisher
	Logger   *zap.Logger
}

type Settings struct {
	PaymentTimeout time.Duration
	LockTTL        time.Duration
	NotifyTimeout  time.Duration
	UPIPayeeVPA    string
	UPIPayeeName   string
}

type Service struct {
	sessions SessionStore
	carts    *cart.Store
	policy   pricing.Policy
	gateway  PaymentGateway
	locker   cache.Locker
	mailer   Mailer
	events   events.Publisher
	logger   *zap.Logger
	settings Settings
	now      func() time.Time
}

func NewService(d Deps, s Settings) *Service {
	if s.PaymentTimeout <= 0 {
		s.PaymentTimeout = 10 * time.Second
	}
	if s.LockTTL <= 0 {
		s.LockTTL = s.PaymentTimeout + 5*time.Second
	}
	if s.NotifyTimeout <= 0 {
		s.NotifyTimeout = 5 * time.Second
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Locker == nil {
		d.Locker = cache.NewLocalLocker()
	}
	return &Service{
		sessions: d.Sessions,
		carts:    d.Carts,
		policy:   d.Policy,
		gateway:  d.Gateway,
		locker:   d.Locker,
		mailer:   d.Mailer,
		events:   d.Events,
		logger:   d.Logger,
		settings: s,
		now:      time.Now,
	}
}

// View is the wizard as the storefront renders it.
type View struct {
	Step     Step                `json:"step"`
	Steps    []string            `json:"steps"`
	Shipping models.ShippingInfo `json:"shipping"`
	Payment  PaymentState        `json:"payment"`
	Items    []models.CartItem   `json:"items"`
	Totals   pricing.Totals      `json:"totals"`
}

func (s *Service) view(w *Wizard, items []models.CartItem) View {
	if items == nil {
		items = []models.CartItem{}
	}
	return View{
		Step:     w.Step,
		Steps:    Steps(),
		Shipping: w.Shipping,
		Payment:  w.Payment,
		Items:    items,
		Totals:   pricing.Calculate(items, s.policy, pricing.Options{Delivery: w.Payment.Delivery}),
	}
}

func (s *Service) load(ctx context.Context, userID string) (*Wizard, []models.CartItem, error) {
	w, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load checkout: %w", err)
	}
	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return w, items, nil
}

// update loads the wizard, applies fn and saves the result unless fn fails.
func (s *Service) update(ctx context.Context, userID string, fn func(*Wizard, []models.CartItem) error) (View, error) {
	w, items, err := s.load(ctx, userID)
	if err != nil {
		return View{}, err
	}
	if err := fn(w, items); err != nil {
		return View{}, err
	}
	if err := s.sessions.Save(ctx, userID, w); err != nil {
		return View{}, fmt.Errorf("save checkout: %w", err)
	}
	return s.view(w, items), nil
}

func (s *Service) State(ctx context.Context, userID string) (View, error) {
	w, items, err := s.load(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return s.view(w, items), nil
}

func (s *Service) SaveShipping(ctx context.Context, userID string, info models.ShippingInfo) (View, error) {
	return s.update(ctx, userID, func(w *Wizard, _ []models.CartItem) error {
		w.SetShipping(info)
		return nil
	})
}

func (s *Service) SavePayment(ctx context.Context, userID string, sel PaymentSelection) (View, error) {
	return s.update(ctx, userID, func(w *Wizard, _ []models.CartItem) error {
		return w.SetPayment(sel)
	})
}

func (s *Service) Next(ctx context.Context, userID string) (View, error) {
	return s.update(ctx, userID, func(w *Wizard, items []models.CartItem) error {
		return w.Next(len(items))
	})
}

func (s *Service) Prev(ctx context.Context, userID string) (View, error) {
	return s.update(ctx, userID, func(w *Wizard, _ []models.CartItem) error {
		w.Prev()
		return nil
	})
}

// Quote lists the delivery options for a cart subtotal under the active policy.
func (s *Service) Quote(subtotal decimal.Decimal) models.ShippingQuote {
	return s.policy.Quote(subtotal)
}

// UPIQR renders a payment QR for the user's current cart total.
func (s *Service) UPIQR(ctx context.Context, userID string) ([]byte, error) {
	w, items, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w.Payment.Method != MethodUPI {
		return nil, apperr.Validation("method", "UPI is not the selected payment method")
	}
	if len(items) == 0 {
		return nil, apperr.Validation("cart", "Your cart is empty")
	}
	totals := pricing.Calculate(items, s.policy, pricing.Options{Delivery: w.Payment.Delivery})
	ref := "JAG" + strings.ToUpper(strings.ReplaceAll(userID, "-", ""))
	if len(ref) > 20 {
		ref = ref[:20]
	}
	return utils.GenerateUPIQR(s.settings.UPIPayeeVPA, s.settings.UPIPayeeName, ref, totals.Total)
}

// PlaceOrder submits payment for the reviewed cart. Only one call per user runs at a time;
// a concurrent call fails with apperr.ErrInFlight. Once the payment is settled the cart is
// cleared and the wizard starts over. An unsettled confirmation leaves both untouched and
// sends no notifications.
func (s *Service) PlaceOrder(ctx context.Context, userID, email string) (Order, Confirmation, error) {
	release, err := s.locker.TryAcquire(ctx, cache.LockKey(placeOrderAction, userID), s.settings.LockTTL)
	if err != nil {
		return Order{}, Confirmation{}, err
	}
	defer release()

	w, items, err := s.load(ctx, userID)
	if err != nil {
		return Order{}, Confirmation{}, err
	}
	if len(items) == 0 {
		return Order{}, Confirmation{}, apperr.Validation("cart", "Your cart is empty")
	}
	if w.Step != StepReview {
		return Order{}, Confirmation{}, apperr.Validation("step", "Complete the checkout steps before placing the order")
	}
	if err := ValidateShipping(w.Shipping); err != nil {
		return Order{}, Confirmation{}, err
	}
	if err := w.Payment.ready(); err != nil {
		return Order{}, Confirmation{}, err
	}

	order := Order{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     email,
		Items:     items,
		Totals:    pricing.Calculate(items, s.policy, pricing.Options{Delivery: w.Payment.Delivery}),
		Shipping:  w.Shipping,
		Method:    w.Payment.Method,
		Delivery:  w.Payment.Delivery,
		CreatedAt: s.now().UTC(),
	}

	payCtx, cancel := context.WithTimeout(ctx, s.settings.PaymentTimeout)
	conf, err := s.gateway.SubmitPayment(payCtx, order)
	cancel()
	if err != nil {
		var pe *PaymentError
		if !errors.As(err, &pe) {
			err = &PaymentError{Code: PaymentCodeGateway, Message: "Payment could not be processed", Err: err}
		}
		s.logger.Warn("💳 payment failed",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", userID),
			zap.Error(err))
		return Order{}, Confirmation{}, err
	}

	if !conf.Settled() {
		// Nothing is charged yet: keep the cart and the review step so the client
		// can confirm with the returned secret and retry.
		s.logger.Info("⏳ payment awaiting confirmation",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", userID),
			zap.String("reference", conf.Reference))
		return order, conf, nil
	}

	s.logger.Info("✅ order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID),
		zap.String("method", string(order.Method)),
		zap.String("total", order.Totals.Total.StringFixed(2)))

	// The payment went through; the rest must not be undone by the client going away.
	after := context.WithoutCancel(ctx)
	if err := s.carts.Clear(after, userID); err != nil {
		s.logger.Error("❌ clearing cart after order", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.sessions.Delete(after, userID); err != nil {
		s.logger.Error("❌ resetting checkout after order", zap.String("user_id", userID), zap.Error(err))
	}
	s.notify(after, order, conf)

	return order, conf, nil
}

// OrderPlaced is the payload of the order.placed event.
type OrderPlaced struct {
	Order        Order        `json:"order"`
	Confirmation Confirmation `json:"confirmation"`
}

// notify sends the confirmation e-mail and the order event concurrently. Failures are logged only.
func (s *Service) notify(ctx context.Context, order Order, conf Confirmation) {
	ctx, cancel := context.WithTimeout(ctx, s.settings.NotifyTimeout)
	defer cancel()

	var g errgroup.Group
	if s.mailer != nil {
		g.Go(func() error {
			if err := s.mailer.SendOrderConfirmation(ctx, orderEmail(order)); err != nil {
				s.logger.Warn("⚠️ order confirmation e-mail failed", zap.String("order_id", order.ID.String()), zap.Error(err))
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		err := s.events.Publish(ctx, order.ID.String(), events.EventOrderPlaced, OrderPlaced{Order: order, Confirmation: conf})
		if err != nil {
			s.logger.Warn("⚠️ order event failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		}
		return err
	})
	_ = g.Wait()
}

func orderEmail(o Order) utils.OrderEmail {
	to := o.Shipping.Email
	if to == "" {
		to = o.Email
	}
	return utils.OrderEmail{
		To:            to,
		CustomerName:  strings.TrimSpace(o.Shipping.FirstName + " " + o.Shipping.LastName),
		OrderID:       o.ID.String(),
		Items:         o.Items,
		Subtotal:      o.Totals.Subtotal,
		Shipping:      o.Totals.Shipping,
		Tax:           o.Totals.Tax,
		Total:         o.Totals.Total,
		PaymentMethod: string(o.Method),
		Address:       o.Shipping,
	}
}
