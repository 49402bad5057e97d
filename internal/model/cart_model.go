package model

import "time"

const (
	CartItemMinQty = 1
	CartItemMaxQty = 10
)

// CartItem stores the gadget price at add time; subtotal and cart total
// are recomputed server-side whenever items change.
type CartItem struct {
	GadgetID int64   `json:"gadgetId"`
	Name     string  `json:"name,omitempty"` // joined from gadgets
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

type Cart struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// CartTotal sums price*quantity over the items.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
