package services

import (
	"context"
	"strings"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
	"github.com/siddik-official/evolution-gadget/internal/repository"
)

type UserService struct {
	Users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return s.Users.GetByID(ctx, userID)
}

// ProfileUpdate carries the optional profile fields; nil means "leave
// unchanged".
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Avatar  *string
	Address *model.Address
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*model.User, error) {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if len(trimmed) < 2 || len(trimmed) > 50 {
			return nil, apperr.Validation("Invalid name",
				apperr.FieldError{Field: "name", Message: "must be 2-50 characters"})
		}
		upd.Name = &trimmed
	}
	if upd.Phone != nil {
		trimmed := strings.TrimSpace(*upd.Phone)
		upd.Phone = &trimmed
	}
	return s.Users.UpdateProfile(ctx, userID, upd.Name, upd.Phone, upd.Avatar, upd.Address)
}

// Deactivate soft-disables the account; the record is kept.
func (s *UserService) Deactivate(ctx context.Context, userID int64) error {
	_, err := s.Users.SetActive(ctx, userID, false)
	return err
}

// List is the admin user listing with filters and pagination.
func (s *UserService) List(ctx context.Context, f query.UserFilters, sort query.Sort, p query.Pagination) ([]model.User, int64, error) {
	return s.Users.List(ctx, f, sort, p)
}

// SetStatus activates or deactivates any account. Admin path.
func (s *UserService) SetStatus(ctx context.Context, userID int64, active bool) (*model.User, error) {
	return s.Users.SetActive(ctx, userID, active)
}

// Delete removes the user permanently. Admin path.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.Users.Delete(ctx, userID)
}
