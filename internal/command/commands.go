package command

import (
	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CartLine is a product reference as submitted by the storefront.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order Commands

// Checkout places an order for a cart whose items already carry their
// catalog name, price and image.
type Checkout struct {
	Items         []order.OrderItem  `json:"items"`
	DeliveryInfo  order.DeliveryInfo `json:"delivery_info"`
	PaymentMethod string             `json:"payment_method"`
	// ShownTotal is the total the customer confirmed, if the client sent one.
	ShownTotal *decimal.Decimal `json:"total_amount,omitempty"`
}

type AdvanceStatus struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
