package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
)

type ReviewRepository struct {
	DB *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

const reviewColumns = `r.id, r.user_id, r.gadget_id, r.rating, r.title, r.comment,
	r.pros, r.cons, r.is_verified, r.helpful_count, u.name, r.created_at, r.updated_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.GadgetID, &rv.Rating, &rv.Title, &rv.Comment,
		&rv.Pros, &rv.Cons, &rv.IsVerified, &rv.HelpfulCount, &rv.UserName,
		&rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create inserts a review and recomputes the gadget's rating aggregates
// in the same transaction. The (user, gadget) unique index enforces one
// review per user per gadget.
func (r *ReviewRepository) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	q := `INSERT INTO reviews (user_id, gadget_id, rating, title, comment, pros, cons, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, q, rv.UserID, rv.GadgetID, rv.Rating, rv.Title, rv.Comment,
		rv.Pros, rv.Cons, rv.IsVerified).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Duplicate("You have already reviewed this gadget")
		}
		return nil, err
	}

	if err := recomputeRating(ctx, tx, rv.GadgetID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.id = $1`
	rv, err := scanReview(r.DB.QueryRow(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "REVIEW_NOT_FOUND", "Review not found")
	}
	return rv, nil
}

// ListByGadget pages reviews for one gadget, newest first.
func (r *ReviewRepository) ListByGadget(ctx context.Context, gadgetID int64, p query.Pagination) ([]model.Review, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE gadget_id = $1`, gadgetID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + reviewColumns + ` FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE r.gadget_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, q, gadgetID, p.Limit, p.Skip())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, total, rows.Err()
}

// Delete removes a review and recomputes the gadget's aggregates in the
// same transaction.
func (r *ReviewRepository) Delete(ctx context.Context, id, gadgetID int64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("REVIEW_NOT_FOUND", "Review not found")
	}
	if err := recomputeRating(ctx, tx, gadgetID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// IncrementHelpful bumps the helpful counter.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id int64) (*model.Review, error) {
	q := `UPDATE reviews SET helpful_count = helpful_count + 1, updated_at = $2 WHERE id = $1`
	tag, err := r.DB.Exec(ctx, q, id, time.Now())
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("REVIEW_NOT_FOUND", "Review not found")
	}
	return r.GetByID(ctx, id)
}

// recomputeRating rewrites the derived average_rating/total_reviews on
// the owning gadget: mean of all ratings rounded to one decimal, or
// zero/zero when no reviews remain.
func recomputeRating(ctx context.Context, tx pgx.Tx, gadgetID int64) error {
	q := `UPDATE gadgets SET
			average_rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE gadget_id = $1), 0),
			total_reviews  = (SELECT COUNT(*) FROM reviews WHERE gadget_id = $1),
			updated_at = now()
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, gadgetID)
	return err
}
