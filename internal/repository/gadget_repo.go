package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
)

type GadgetRepository struct {
	DB *pgxpool.Pool
}

func NewGadgetRepository(db *pgxpool.Pool) *GadgetRepository {
	return &GadgetRepository{DB: db}
}

const gadgetColumns = `id, name, description, price, original_price, category, brand, model,
	images, specifications, stock, is_active, average_rating, total_reviews, tags,
	created_at, updated_at`

func scanGadget(row pgx.Row) (*model.Gadget, error) {
	var g model.Gadget
	var specs []byte
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Price, &g.OriginalPrice,
		&g.Category, &g.Brand, &g.Model, &g.Images, &specs, &g.Stock, &g.IsActive,
		&g.AverageRating, &g.TotalReviews, &g.Tags, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &g.Specifications); err != nil {
			return nil, err
		}
	}
	if g.Specifications == nil {
		g.Specifications = []model.Specification{}
	}
	return &g, nil
}

// Create inserts a catalog item. Derived rating fields start at zero
// regardless of input.
func (r *GadgetRepository) Create(ctx context.Context, g *model.Gadget) (*model.Gadget, error) {
	specs, err := json.Marshal(g.Specifications)
	if err != nil {
		return nil, err
	}
	q := `INSERT INTO gadgets
			(name, description, price, original_price, category, brand, model, images, specifications, stock, is_active, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, $11)
		RETURNING ` + gadgetColumns
	return scanGadget(r.DB.QueryRow(ctx, q, g.Name, g.Description, g.Price, g.OriginalPrice,
		g.Category, g.Brand, g.Model, g.Images, specs, g.Stock, g.Tags))
}

func (r *GadgetRepository) GetByID(ctx context.Context, id int64) (*model.Gadget, error) {
	q := `SELECT ` + gadgetColumns + ` FROM gadgets WHERE id = $1`
	g, err := scanGadget(r.DB.QueryRow(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "GADGET_NOT_FOUND", "Gadget not found")
	}
	return g, nil
}

// List runs one count and one fetch from the same predicate and returns
// the page plus the total for pagination.
func (r *GadgetRepository) List(ctx context.Context, f query.GadgetFilters, s query.Sort, p query.Pagination) ([]model.Gadget, int64, error) {
	b := &query.Builder{}
	f.Apply(b)
	where := b.Where()

	var total int64
	countQ := `SELECT COUNT(*) FROM gadgets ` + where
	if err := r.DB.QueryRow(ctx, countQ, b.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQ := fmt.Sprintf(`SELECT %s FROM gadgets %s %s %s`, gadgetColumns, where, s.OrderBy(), b.Paginate(p))
	rows, err := r.DB.Query(ctx, listQ, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	gadgets := []model.Gadget{}
	for rows.Next() {
		g, err := scanGadget(rows)
		if err != nil {
			return nil, 0, err
		}
		gadgets = append(gadgets, *g)
	}
	return gadgets, total, rows.Err()
}

// Featured returns active, in-stock items rated at least 4, best first.
func (r *GadgetRepository) Featured(ctx context.Context, limit int) ([]model.Gadget, error) {
	q := `SELECT ` + gadgetColumns + ` FROM gadgets
		WHERE is_active = TRUE AND average_rating >= 4 AND stock > 0
		ORDER BY average_rating DESC, total_reviews DESC
		LIMIT $1`
	rows, err := r.DB.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gadgets := []model.Gadget{}
	for rows.Next() {
		g, err := scanGadget(rows)
		if err != nil {
			return nil, err
		}
		gadgets = append(gadgets, *g)
	}
	return gadgets, rows.Err()
}

// Update overwrites the client-settable fields. Rating aggregates are
// never written here.
func (r *GadgetRepository) Update(ctx context.Context, g *model.Gadget) (*model.Gadget, error) {
	specs, err := json.Marshal(g.Specifications)
	if err != nil {
		return nil, err
	}
	q := `UPDATE gadgets SET
			name = $2, description = $3, price = $4, original_price = $5, category = $6,
			brand = $7, model = $8, images = $9, specifications = $10, stock = $11,
			tags = $12, updated_at = $13
		WHERE id = $1
		RETURNING ` + gadgetColumns
	updated, err := scanGadget(r.DB.QueryRow(ctx, q, g.ID, g.Name, g.Description, g.Price,
		g.OriginalPrice, g.Category, g.Brand, g.Model, g.Images, specs, g.Stock, g.Tags, time.Now()))
	if err != nil {
		return nil, notFound(err, "GADGET_NOT_FOUND", "Gadget not found")
	}
	return updated, nil
}

// SoftDelete marks the item inactive, preserving history.
func (r *GadgetRepository) SoftDelete(ctx context.Context, id int64) (*model.Gadget, error) {
	q := `UPDATE gadgets SET is_active = FALSE, updated_at = $2 WHERE id = $1 RETURNING ` + gadgetColumns
	g, err := scanGadget(r.DB.QueryRow(ctx, q, id, time.Now()))
	if err != nil {
		return nil, notFound(err, "GADGET_NOT_FOUND", "Gadget not found")
	}
	return g, nil
}

// PermanentDelete removes the record irreversibly.
func (r *GadgetRepository) PermanentDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM gadgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("GADGET_NOT_FOUND", "Gadget not found")
	}
	return nil
}

// CategoryStat is one row of the per-category aggregation.
type CategoryStat struct {
	Category      model.GadgetCategory `json:"category"`
	Count         int64                `json:"count"`
	AveragePrice  float64              `json:"averagePrice"`
	AverageRating float64              `json:"averageRating"`
}

// GadgetStats is the aggregate snapshot for the stats endpoint.
type GadgetStats struct {
	TotalGadgets  int64          `json:"totalGadgets"`
	TotalBrands   int64          `json:"totalBrands"`
	CategoryStats []CategoryStat `json:"categoryStats"`
}

// Stats aggregates active items per category plus totals.
func (r *GadgetRepository) Stats(ctx context.Context) (*GadgetStats, error) {
	var stats GadgetStats

	q := `SELECT category, COUNT(*), COALESCE(AVG(price), 0), COALESCE(AVG(average_rating), 0)
		FROM gadgets WHERE is_active = TRUE
		GROUP BY category ORDER BY COUNT(*) DESC`
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.CategoryStats = []CategoryStat{}
	for rows.Next() {
		var cs CategoryStat
		if err := rows.Scan(&cs.Category, &cs.Count, &cs.AveragePrice, &cs.AverageRating); err != nil {
			return nil, err
		}
		stats.CategoryStats = append(stats.CategoryStats, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalsQ := `SELECT COUNT(*), COUNT(DISTINCT brand) FROM gadgets WHERE is_active = TRUE`
	if err := r.DB.QueryRow(ctx, totalsQ).Scan(&stats.TotalGadgets, &stats.TotalBrands); err != nil {
		return nil, err
	}
	return &stats, nil
}
