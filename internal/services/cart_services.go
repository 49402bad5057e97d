package services

import (
	"context"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/repository"
)

type CartService struct {
	Carts   *repository.CartRepository
	Gadgets *repository.GadgetRepository
}

func NewCartService(carts *repository.CartRepository, gadgets *repository.GadgetRepository) *CartService {
	return &CartService{Carts: carts, Gadgets: gadgets}
}

func (s *CartService) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	return s.Carts.Get(ctx, userID)
}

// AddItem puts a gadget into the user's cart at its current price. The
// price is captured server-side; clients never supply it.
func (s *CartService) AddItem(ctx context.Context, userID, gadgetID int64, quantity int) (*model.Cart, error) {
	if quantity < model.CartItemMinQty || quantity > model.CartItemMaxQty {
		return nil, apperr.Validation("Quantity must be between 1 and 10",
			apperr.FieldError{Field: "quantity", Message: "must be between 1 and 10"})
	}

	g, err := s.Gadgets.GetByID(ctx, gadgetID)
	if err != nil {
		return nil, err
	}
	if !g.IsActive {
		return nil, apperr.NotFound("GADGET_UNAVAILABLE", "Gadget is not available")
	}

	// the stock check covers what the cart will hold after the upsert,
	// not just the increment
	cart, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if g.Stock < cumulativeQuantity(cart.Items, gadgetID, quantity) {
		return nil, apperr.BadRequest("INSUFFICIENT_STOCK", "Not enough stock available")
	}

	cartID, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.UpsertItem(ctx, cartID, gadgetID, quantity, g.Price); err != nil {
		return nil, err
	}
	return s.Carts.Get(ctx, userID)
}

// cumulativeQuantity is the quantity a cart line would reach after
// adding to any existing line for the same gadget.
func cumulativeQuantity(items []model.CartItem, gadgetID int64, add int) int {
	for _, it := range items {
		if it.GadgetID == gadgetID {
			return it.Quantity + add
		}
	}
	return add
}

// UpdateItem sets an exact quantity; zero or less removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID, gadgetID int64, quantity int) (*model.Cart, error) {
	cartID, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		if err := s.Carts.RemoveItem(ctx, cartID, gadgetID); err != nil {
			return nil, err
		}
		return s.Carts.Get(ctx, userID)
	}
	if quantity > model.CartItemMaxQty {
		return nil, apperr.Validation("Quantity must be between 1 and 10",
			apperr.FieldError{Field: "quantity", Message: "must be between 1 and 10"})
	}
	if err := s.Carts.SetItemQuantity(ctx, cartID, gadgetID, quantity); err != nil {
		return nil, err
	}
	return s.Carts.Get(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, gadgetID int64) (*model.Cart, error) {
	cartID, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.RemoveItem(ctx, cartID, gadgetID); err != nil {
		return nil, err
	}
	return s.Carts.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	cartID, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(ctx, cartID)
}
