package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
)

type CartRepository struct {
	DB *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

// GetOrCreate returns the user's cart id, creating the single allowed
// cart on first use.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID int64) (int64, error) {
	var id int64
	q := `INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id`
	if err := r.DB.QueryRow(ctx, q, userID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Get loads the cart with its items joined against the catalog.
func (r *CartRepository) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	cart := &model.Cart{UserID: userID, Items: []model.CartItem{}}
	q := `SELECT id, total_amount, updated_at FROM carts WHERE user_id = $1`
	err := r.DB.QueryRow(ctx, q, userID).Scan(&cart.ID, &cart.TotalAmount, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return cart, nil // empty cart, not yet persisted
	}
	if err != nil {
		return nil, err
	}

	itemsQ := `SELECT ci.gadget_id, g.name, COALESCE(g.images[1], ''), ci.quantity, ci.price
		FROM cart_items ci JOIN gadgets g ON g.id = ci.gadget_id
		WHERE ci.cart_id = $1 ORDER BY ci.id`
	rows, err := r.DB.Query(ctx, itemsQ, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.GadgetID, &it.Name, &it.Image, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		it.Subtotal = it.Price * float64(it.Quantity)
		cart.Items = append(cart.Items, it)
	}
	return cart, rows.Err()
}

// UpsertItem adds a gadget to the cart or increments its quantity,
// capturing the price at add time, then recomputes the total. The 1-10
// quantity bound is enforced by the check constraint.
func (r *CartRepository) UpsertItem(ctx context.Context, cartID, gadgetID int64, quantity int, price float64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := `INSERT INTO cart_items (cart_id, gadget_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, gadget_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, price = EXCLUDED.price`
	if _, err := tx.Exec(ctx, q, cartID, gadgetID, quantity, price); err != nil {
		return quantityErr(err)
	}
	if err := recomputeCartTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SetItemQuantity replaces an item's quantity and recomputes the total.
func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID, gadgetID int64, quantity int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := `UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND gadget_id = $2`
	tag, err := tx.Exec(ctx, q, cartID, gadgetID, quantity)
	if err != nil {
		return quantityErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("CART_ITEM_NOT_FOUND", "Item not in cart")
	}
	if err := recomputeCartTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// RemoveItem deletes one line and recomputes the total.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, gadgetID int64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND gadget_id = $2`, cartID, gadgetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("CART_ITEM_NOT_FOUND", "Item not in cart")
	}
	if err := recomputeCartTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Clear empties the cart.
func (r *CartRepository) Clear(ctx context.Context, cartID int64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if err := recomputeCartTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// recomputeCartTotal rewrites the derived total from the line items; it
// is never trusted from client input.
func recomputeCartTotal(ctx context.Context, tx pgx.Tx, cartID int64) error {
	q := `UPDATE carts SET
			total_amount = COALESCE((SELECT SUM(price * quantity) FROM cart_items WHERE cart_id = $1), 0),
			updated_at = now()
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, cartID)
	return err
}

// quantityErr maps the check-constraint violation on cart_items to the
// validation taxonomy.
func quantityErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		return apperr.Validation("Quantity must be between 1 and 10 per item")
	}
	return err
}
