package services

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/repository"
)

const (
	MinPasswordLen = 6
	bcryptCost     = 12
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type AuthService struct {
	Users *repository.UserRepository
}

func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{Users: users}
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Validation("Email is required", apperr.FieldError{Field: "email", Message: "required"})
	}
	if !emailRegex.MatchString(email) {
		return apperr.Validation("Invalid email format", apperr.FieldError{Field: "email", Message: "invalid format"})
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return apperr.Validation("Password too short",
			apperr.FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	return nil
}

// Register creates a user with a hashed password. Role defaults to
// customer and must be one of the closed set when supplied.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(name) < 2 {
		return nil, apperr.Validation("Name is required",
			apperr.FieldError{Field: "name", Message: "must be at least 2 characters"})
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() {
		return nil, apperr.Validation("Invalid role",
			apperr.FieldError{Field: "role", Message: "must be admin or customer"})
	}

	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("USER_EXISTS", "User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.Users.Create(ctx, name, email, string(hash), role)
}

// Login authenticates email + password. Whether the email exists is
// never revealed; only deactivation gets its own code.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if e, ok := apperr.As(err); ok && e.Status == http.StatusNotFound {
			return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, apperr.Unauthorized("ACCOUNT_DEACTIVATED", "Account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("INVALID_CREDENTIALS", "Invalid email or password")
	}
	u.PasswordHash = ""
	return u, nil
}

// ChangePassword verifies the current password before re-hashing.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	hash, err := s.Users.GetPasswordHash(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(currentPassword)); err != nil {
		return apperr.BadRequest("INVALID_CURRENT_PASSWORD", "Current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, string(newHash))
}
