package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// orderFlow encodes the one-way progression. Cancellation is allowed
// from any state before shipment.
var orderFlow = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderFlow[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an owner-initiated cancellation is still
// possible.
func (s OrderStatus) Cancellable() bool {
	return s.CanTransition(OrderCancelled)
}

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentDebitCard      PaymentMethod = "debit_card"
	PaymentPaypal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentPaypal, PaymentCashOnDelivery:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type OrderItem struct {
	GadgetID int64   `json:"gadgetId"`
	Name     string  `json:"name,omitempty"` // joined from gadgets
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

type Order struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"userId"`
	OrderNumber     string        `json:"orderNumber"`
	Items           []OrderItem   `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	Tax             float64       `json:"tax"`
	Shipping        float64       `json:"shipping"`
	Total           float64       `json:"total"`
	Status          OrderStatus   `json:"status"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	ShippingAddress Address       `json:"shippingAddress"`
	BillingAddress  *Address      `json:"billingAddress,omitempty"`
	TrackingNumber  *string       `json:"trackingNumber,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	CreatedAt       *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time    `json:"updatedAt,omitempty"`
}

// NewOrderNumber builds a unique EVG-prefixed order number from the
// timestamp tail and a uuid fragment.
func NewOrderNumber() string {
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "EVG-" + ts + frag
}
