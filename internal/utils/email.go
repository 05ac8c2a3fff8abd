package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"jaggery_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// OrderEmail is everything the confirmation template shows.
type OrderEmail struct {
	To            string
	CustomerName  string
	OrderID       string
	Items         []models.CartItem
	Subtotal      decimal.Decimal
	Shipping      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Address       models.ShippingInfo
}

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	settings SMTPSettings
	logger   *zap.Logger
}

func NewMailer(settings SMTPSettings, logger *zap.Logger) *Mailer {
	return &Mailer{settings: settings, logger: logger}
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, order OrderEmail) error {
	body, err := RenderOrderConfirmation(order)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.settings.From); err != nil {
		return err
	}
	if err := msg.To(order.To); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("✅ Order confirmed - %s", order.OrderID))
	msg.SetBodyString(mail.TypeTextHTML, body)

	client, err := mail.NewClient(m.settings.Host,
		mail.WithPort(m.settings.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.settings.Username),
		mail.WithPassword(m.settings.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	m.logger.Info("📤 sending order confirmation", zap.String("order_id", order.OrderID))
	return client.DialAndSendWithContext(ctx, msg)
}

var orderConfirmationTmpl = template.Must(template.New("order-confirmation").Funcs(template.FuncMap{
	"inr": func(d decimal.Decimal) string { return "₹" + d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Order confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #fdf8f0; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #7a4a12;">Thank you for your order</h2>
		<p>Hi {{.CustomerName}},</p>
		<p>Your order <strong>{{.OrderID}}</strong> has been placed ({{.PaymentMethod}}).</p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f5ead8;">
					<th style="padding: 8px; text-align: left;">Product</th>
					<th style="padding: 8px; text-align: left;">Qty</th>
					<th style="padding: 8px; text-align: left;">Price</th>
					<th style="padding: 8px; text-align: left;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Items}}
				<tr>
					<td style="padding: 8px;">{{.Title}}</td>
					<td style="padding: 8px;">{{.Quantity}}</td>
					<td style="padding: 8px;">{{inr .Price}}</td>
					<td style="padding: 8px;">{{inr .LineTotal}}</td>
				</tr>
			{{- end}}
			</tbody>
		</table>
		<p>Subtotal: {{inr .Subtotal}}<br>Shipping: {{inr .Shipping}}{{if .Tax.IsPositive}}<br>Tax: {{inr .Tax}}{{end}}</p>
		<p style="font-weight: bold;">Total: {{inr .Total}}</p>
		<p>Shipping to {{.Address.Address}}, {{.Address.City}}, {{.Address.State}} {{.Address.Pincode}}, {{.Address.Country}}</p>
		<p style="margin-top: 30px; color: #555;">The Jaggery team</p>
	</div>
</body>
</html>`))

func RenderOrderConfirmation(order OrderEmail) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("render order confirmation: %w", err)
	}
	return buf.String(), nil
}
