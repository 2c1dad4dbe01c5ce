package order

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentCard           PaymentMethod = "card"
)

// paymentMethods lists every recognized method and whether it can be selected.
var paymentMethods = map[PaymentMethod]bool{
	PaymentCashOnDelivery: true,
	PaymentCard:           false,
}

// ParsePaymentMethod accepts only methods that are currently enabled.
// A recognized but disabled method yields ErrUnsupportedPaymentMethod.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	if m == "" {
		return "", newValidationError("paymentMethod", "")
	}
	enabled, known := paymentMethods[m]
	if !known {
		return "", newValidationError("paymentMethod", fmt.Sprintf("%q is not recognized", raw))
	}
	if !enabled {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPaymentMethod, m)
	}
	return m, nil
}
