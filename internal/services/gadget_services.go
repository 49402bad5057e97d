package services

import (
	"context"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
	"github.com/siddik-official/evolution-gadget/internal/repository"
)

type GadgetService struct {
	Gadgets *repository.GadgetRepository
}

func NewGadgetService(gadgets *repository.GadgetRepository) *GadgetService {
	return &GadgetService{Gadgets: gadgets}
}

func validateGadget(g *model.Gadget) error {
	var details []apperr.FieldError
	if len(g.Name) < 2 || len(g.Name) > 100 {
		details = append(details, apperr.FieldError{Field: "name", Message: "must be 2-100 characters"})
	}
	if len(g.Description) < 10 || len(g.Description) > 2000 {
		details = append(details, apperr.FieldError{Field: "description", Message: "must be 10-2000 characters"})
	}
	if g.Price < 0 {
		details = append(details, apperr.FieldError{Field: "price", Message: "cannot be negative"})
	}
	if g.OriginalPrice != nil && *g.OriginalPrice < g.Price {
		details = append(details, apperr.FieldError{Field: "originalPrice", Message: "cannot be less than current price"})
	}
	if !g.Category.Valid() {
		details = append(details, apperr.FieldError{Field: "category", Message: "invalid category"})
	}
	if g.Brand == "" {
		details = append(details, apperr.FieldError{Field: "brand", Message: "required"})
	}
	if g.Model == "" {
		details = append(details, apperr.FieldError{Field: "model", Message: "required"})
	}
	if len(g.Images) == 0 {
		details = append(details, apperr.FieldError{Field: "images", Message: "at least one image is required"})
	}
	if g.Stock < 0 {
		details = append(details, apperr.FieldError{Field: "stock", Message: "cannot be negative"})
	}
	if len(details) > 0 {
		return apperr.Validation("Validation Error", details...)
	}
	return nil
}

// Create validates and stores a new catalog item. Admin path.
func (s *GadgetService) Create(ctx context.Context, g *model.Gadget) (*model.Gadget, error) {
	if err := validateGadget(g); err != nil {
		return nil, err
	}
	return s.Gadgets.Create(ctx, g)
}

// Get returns an item for the public catalog; inactive items read as
// unavailable, distinct from absent.
func (s *GadgetService) Get(ctx context.Context, id int64) (*model.Gadget, error) {
	g, err := s.Gadgets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.IsActive {
		return nil, apperr.NotFound("GADGET_UNAVAILABLE", "Gadget is not available")
	}
	return g, nil
}

// GetAny returns an item regardless of active flag. Admin path.
func (s *GadgetService) GetAny(ctx context.Context, id int64) (*model.Gadget, error) {
	return s.Gadgets.GetByID(ctx, id)
}

// List serves the public catalog: filters always constrain to active
// items.
func (s *GadgetService) List(ctx context.Context, f query.GadgetFilters, sort query.Sort, p query.Pagination) ([]model.Gadget, int64, error) {
	active := true
	f.Active = &active
	return s.Gadgets.List(ctx, f, sort, p)
}

// ListAdmin serves the admin listing, including inactive items unless
// the isActive filter narrows it.
func (s *GadgetService) ListAdmin(ctx context.Context, f query.GadgetFilters, sort query.Sort, p query.Pagination) ([]model.Gadget, int64, error) {
	return s.Gadgets.List(ctx, f, sort, p)
}

func (s *GadgetService) Featured(ctx context.Context, limit int) ([]model.Gadget, error) {
	if limit <= 0 || limit > query.GadgetMaxLimit {
		limit = 8
	}
	return s.Gadgets.Featured(ctx, limit)
}

// Update validates and overwrites an item. Admin path.
func (s *GadgetService) Update(ctx context.Context, g *model.Gadget) (*model.Gadget, error) {
	if err := validateGadget(g); err != nil {
		return nil, err
	}
	return s.Gadgets.Update(ctx, g)
}

func (s *GadgetService) SoftDelete(ctx context.Context, id int64) (*model.Gadget, error) {
	return s.Gadgets.SoftDelete(ctx, id)
}

func (s *GadgetService) PermanentDelete(ctx context.Context, id int64) error {
	return s.Gadgets.PermanentDelete(ctx, id)
}

func (s *GadgetService) Stats(ctx context.Context) (*repository.GadgetStats, error) {
	return s.Gadgets.Stats(ctx)
}
