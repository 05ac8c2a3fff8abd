package utils

import (
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// UPIIntent builds a upi://pay link that any UPI app can scan.
func UPIIntent(payeeVPA, payeeName, ref string, amount decimal.Decimal) string {
	q := url.Values{}
	q.Set("pa", payeeVPA)
	q.Set("pn", payeeName)
	q.Set("tr", ref)
	q.Set("am", amount.StringFixed(2))
	q.Set("cu", "INR")
	return "upi://pay?" + q.Encode()
}

// GenerateUPIQR returns a PNG of the UPI intent.
func GenerateUPIQR(payeeVPA, payeeName, ref string, amount decimal.Decimal) ([]byte, error) {
	return qrcode.Encode(UPIIntent(payeeVPA, payeeName, ref, amount), qrcode.Medium, 256)
}
