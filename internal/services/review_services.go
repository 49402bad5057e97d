package services

import (
	"context"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
	"github.com/siddik-official/evolution-gadget/internal/repository"
)

type ReviewService struct {
	Reviews *repository.ReviewRepository
	Gadgets *repository.GadgetRepository
}

func NewReviewService(reviews *repository.ReviewRepository, gadgets *repository.GadgetRepository) *ReviewService {
	return &ReviewService{Reviews: reviews, Gadgets: gadgets}
}

// Create validates and stores a review against an active gadget. The
// gadget's rating aggregates are recomputed as part of the write.
func (s *ReviewService) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	var details []apperr.FieldError
	if rv.Rating < 1 || rv.Rating > 5 {
		details = append(details, apperr.FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}
	if rv.Title == "" || len(rv.Title) > 100 {
		details = append(details, apperr.FieldError{Field: "title", Message: "must be 1-100 characters"})
	}
	if len(rv.Comment) < 10 || len(rv.Comment) > 1000 {
		details = append(details, apperr.FieldError{Field: "comment", Message: "must be 10-1000 characters"})
	}
	if len(details) > 0 {
		return nil, apperr.Validation("Validation Error", details...)
	}

	g, err := s.Gadgets.GetByID(ctx, rv.GadgetID)
	if err != nil {
		return nil, err
	}
	if !g.IsActive {
		return nil, apperr.NotFound("GADGET_UNAVAILABLE", "Gadget is not available")
	}
	return s.Reviews.Create(ctx, rv)
}

// ListByGadget pages reviews for one gadget.
func (s *ReviewService) ListByGadget(ctx context.Context, gadgetID int64, p query.Pagination) ([]model.Review, int64, error) {
	if _, err := s.Gadgets.GetByID(ctx, gadgetID); err != nil {
		return nil, 0, err
	}
	return s.Reviews.ListByGadget(ctx, gadgetID, p)
}

// Delete removes a review; only its author or an admin may do so.
func (s *ReviewService) Delete(ctx context.Context, reviewID, requesterID int64, isAdmin bool) error {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !isAdmin && rv.UserID != requesterID {
		return apperr.Forbidden("RESOURCE_OWNERSHIP_REQUIRED", "Access denied. You can only access your own resources.")
	}
	return s.Reviews.Delete(ctx, reviewID, rv.GadgetID)
}

// MarkHelpful bumps the helpful counter.
func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID int64) (*model.Review, error) {
	return s.Reviews.IncrementHelpful(ctx, reviewID)
}
