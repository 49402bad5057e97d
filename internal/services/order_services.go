package services

import (
	"context"
	"math"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
	"github.com/siddik-official/evolution-gadget/internal/repository"
)

// Order pricing constants. Totals are always recomputed here from the
// cart lines; nothing about money is trusted from the request body.
const (
	TaxRate           = 0.08
	ShippingFlat      = 10.0
	FreeShippingAbove = 500.0
)

type OrderService struct {
	Orders *repository.OrderRepository
	Carts  *repository.CartRepository
}

func NewOrderService(orders *repository.OrderRepository, carts *repository.CartRepository) *OrderService {
	return &OrderService{Orders: orders, Carts: carts}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PlaceRequest is what the client controls about an order: how to pay
// and where to ship.
type PlaceRequest struct {
	PaymentMethod   model.PaymentMethod
	ShippingAddress model.Address
	BillingAddress  *model.Address
	Notes           *string
}

func validateAddress(field string, a model.Address) []apperr.FieldError {
	var details []apperr.FieldError
	if a.Street == "" || a.City == "" || a.State == "" || a.Country == "" || a.ZipCode == "" {
		details = append(details, apperr.FieldError{Field: field, Message: "all address fields are required"})
	}
	return details
}

// Place builds an order from the user's cart. Line subtotals, subtotal,
// tax, shipping and total are computed here; stock is decremented
// atomically by the repository, and the cart is cleared on success.
func (s *OrderService) Place(ctx context.Context, userID int64, req PlaceRequest) (*model.Order, error) {
	if !req.PaymentMethod.Valid() {
		return nil, apperr.Validation("Invalid payment method",
			apperr.FieldError{Field: "paymentMethod", Message: "unknown payment method"})
	}
	if details := validateAddress("shippingAddress", req.ShippingAddress); len(details) > 0 {
		return nil, apperr.Validation("Validation Error", details...)
	}
	if req.BillingAddress != nil {
		if details := validateAddress("billingAddress", *req.BillingAddress); len(details) > 0 {
			return nil, apperr.Validation("Validation Error", details...)
		}
	}

	cart, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.BadRequest("EMPTY_CART", "Cannot place an order with an empty cart")
	}

	items := make([]model.OrderItem, 0, len(cart.Items))
	var subtotal float64
	for _, ci := range cart.Items {
		line := model.OrderItem{
			GadgetID: ci.GadgetID,
			Quantity: ci.Quantity,
			Price:    ci.Price,
			Subtotal: round2(ci.Price * float64(ci.Quantity)),
		}
		subtotal += line.Subtotal
		items = append(items, line)
	}
	subtotal = round2(subtotal)

	tax := round2(subtotal * TaxRate)
	shipping := ShippingFlat
	if subtotal >= FreeShippingAbove {
		shipping = 0
	}

	order := &model.Order{
		UserID:          userID,
		OrderNumber:     model.NewOrderNumber(),
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shipping,
		Total:           round2(subtotal + tax + shipping),
		Status:          model.OrderPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentPending,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
	}
	return s.Orders.Create(ctx, order, cart.ID)
}

// Get returns one order; customers only see their own.
func (s *OrderService) Get(ctx context.Context, orderID, requesterID int64, isAdmin bool) (*model.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != requesterID {
		return nil, apperr.Forbidden("RESOURCE_OWNERSHIP_REQUIRED", "Access denied. You can only access your own resources.")
	}
	return o, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID int64, p query.Pagination) ([]model.Order, int64, error) {
	return s.Orders.ListByUser(ctx, userID, p)
}

// ListAll is the admin listing with an optional status filter.
func (s *OrderService) ListAll(ctx context.Context, statusRaw string, p query.Pagination) ([]model.Order, int64, error) {
	var status *model.OrderStatus
	if statusRaw != "" {
		st := model.OrderStatus(statusRaw)
		if !st.Valid() {
			return nil, 0, apperr.BadRequest("INVALID_STATUS", "Unknown order status")
		}
		status = &st
	}
	return s.Orders.ListAll(ctx, status, p)
}

// Cancel is owner-initiated (admin may also cancel); shipped and
// terminal orders refuse.
func (s *OrderService) Cancel(ctx context.Context, orderID, requesterID int64, isAdmin bool) (*model.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != requesterID {
		return nil, apperr.Forbidden("RESOURCE_OWNERSHIP_REQUIRED", "Access denied. You can only access your own resources.")
	}
	return s.Orders.Cancel(ctx, orderID)
}

// UpdateStatus advances the fulfilment state. Admin path; the
// repository enforces the one-way transition map under a row lock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, statusRaw string, tracking *string) (*model.Order, error) {
	next := model.OrderStatus(statusRaw)
	if !next.Valid() {
		return nil, apperr.Validation("Invalid status",
			apperr.FieldError{Field: "status", Message: "unknown order status"})
	}
	return s.Orders.UpdateStatus(ctx, orderID, next, tracking)
}
