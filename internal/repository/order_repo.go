package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, user_id, order_number, subtotal, tax, shipping, total,
	status, payment_method, payment_status,
	ship_street, ship_city, ship_state, ship_country, ship_zip,
	bill_street, bill_city, bill_state, bill_country, bill_zip,
	tracking_number, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var bs, bc, bst, bco, bz *string
	if err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Subtotal, &o.Tax, &o.Shipping, &o.Total,
		&o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.Country, &o.ShippingAddress.ZipCode,
		&bs, &bc, &bst, &bco, &bz,
		&o.TrackingNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if bs != nil {
		o.BillingAddress = &model.Address{Street: *bs, City: *bc, State: *bst, Country: *bco, ZipCode: *bz}
	}
	return &o, nil
}

// Create places an order atomically: each line decrements stock with a
// conditional update (no decrement below zero under concurrency), the
// order and its items are inserted, and the originating cart is cleared.
// Any failure rolls the whole placement back.
func (r *OrderRepository) Create(ctx context.Context, o *model.Order, cartID int64) (*model.Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, it := range o.Items {
		tag, err := tx.Exec(ctx,
			`UPDATE gadgets SET stock = stock - $1, updated_at = now()
			 WHERE id = $2 AND is_active = TRUE AND stock >= $1`,
			it.Quantity, it.GadgetID)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, apperr.BadRequest("INSUFFICIENT_STOCK",
				fmt.Sprintf("Not enough stock for gadget %d", it.GadgetID))
		}
	}

	insertQ := `INSERT INTO orders
			(user_id, order_number, subtotal, tax, shipping, total, status, payment_method, payment_status,
			 ship_street, ship_city, ship_state, ship_country, ship_zip,
			 bill_street, bill_city, bill_state, bill_country, bill_zip, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at`
	var bs, bc, bst, bco, bz *string
	if o.BillingAddress != nil {
		a := o.BillingAddress
		bs, bc, bst, bco, bz = &a.Street, &a.City, &a.State, &a.Country, &a.ZipCode
	}
	err = tx.QueryRow(ctx, insertQ,
		o.UserID, o.OrderNumber, o.Subtotal, o.Tax, o.Shipping, o.Total,
		o.Status, o.PaymentMethod, o.PaymentStatus,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.Country, o.ShippingAddress.ZipCode,
		bs, bc, bst, bco, bz, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for i := range o.Items {
		it := &o.Items[i]
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, gadget_id, quantity, price, subtotal) VALUES ($1, $2, $3, $4, $5)`,
			o.ID, it.GadgetID, it.Quantity, it.Price, it.Subtotal)
		if err != nil {
			return nil, err
		}
	}

	if cartID != 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return nil, err
		}
		if err := recomputeCartTotal(ctx, tx, cartID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID loads one order with its line items.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.DB.QueryRow(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "ORDER_NOT_FOUND", "Order not found")
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, o *model.Order) error {
	q := `SELECT oi.gadget_id, g.name, oi.quantity, oi.price, oi.subtotal
		FROM order_items oi JOIN gadgets g ON g.id = oi.gadget_id
		WHERE oi.order_id = $1 ORDER BY oi.id`
	rows, err := r.DB.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.GadgetID, &it.Name, &it.Quantity, &it.Price, &it.Subtotal); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

// ListByUser pages one user's orders, newest first. Line items are not
// loaded for listings.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, p query.Pagination) ([]model.Order, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, q, userID, p.Limit, p.Skip())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

// ListAll pages every order, optionally filtered by status. Admin only.
func (r *OrderRepository) ListAll(ctx context.Context, status *model.OrderStatus, p query.Pagination) ([]model.Order, int64, error) {
	b := &query.Builder{}
	if status != nil {
		b.And("status = " + b.Arg(string(*status)))
	}
	where := b.Where()

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, b.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC %s`, orderColumns, where, b.Paginate(p))
	rows, err := r.DB.Query(ctx, q, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

// UpdateStatus advances the status under a row lock so concurrent
// updates cannot skip states. The transition map rejects backward moves.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, next model.OrderStatus, tracking *string) (*model.Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var current model.OrderStatus
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		return nil, notFound(err, "ORDER_NOT_FOUND", "Order not found")
	}
	if !current.CanTransition(next) {
		return nil, apperr.BadRequest("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot move order from %s to %s", current, next))
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $2, tracking_number = COALESCE($3, tracking_number), updated_at = now() WHERE id = $1`,
		id, next, tracking)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Cancel cancels an order that has not shipped and returns its stock to
// the catalog, all in one transaction.
func (r *OrderRepository) Cancel(ctx context.Context, id int64) (*model.Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var current model.OrderStatus
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		return nil, notFound(err, "ORDER_NOT_FOUND", "Order not found")
	}
	if !current.Cancellable() {
		return nil, apperr.BadRequest("ORDER_NOT_CANCELLABLE",
			fmt.Sprintf("Order in status %s cannot be cancelled", current))
	}

	_, err = tx.Exec(ctx,
		`UPDATE gadgets g SET stock = g.stock + oi.quantity, updated_at = now()
		 FROM order_items oi WHERE oi.order_id = $1 AND oi.gadget_id = g.id`, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, model.OrderCancelled); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
