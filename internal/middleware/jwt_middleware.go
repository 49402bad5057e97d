package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
)

const authUserKey = "auth_user"

// Claims defines the JWT payload.
type Claims struct {
	UserID int64      `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies bearer tokens. It is built once from
// the loaded configuration; a missing secret is a startup failure.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenManager(secret, issuer, audience string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("middleware: jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, audience: audience, ttl: ttl}, nil
}

// Generate creates a signed token for the given user details.
func (tm *TokenManager) Generate(userID int64, email string, role model.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(tm.secret)
}

// Parse verifies signature, expiry, issuer and audience. Expired tokens
// are reported distinctly from malformed or badly signed ones.
func (tm *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return tm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized("TOKEN_EXPIRED", "Token expired.")
		}
		return nil, apperr.Unauthorized("INVALID_TOKEN", "Invalid token.")
	}
	if !token.Valid {
		return nil, apperr.Unauthorized("INVALID_TOKEN", "Invalid token.")
	}
	return claims, nil
}

// AuthUser is the minimal identity projection attached to the request
// context after authentication.
type AuthUser struct {
	ID       int64      `json:"id"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Name     string     `json:"name"`
	IsActive bool       `json:"isActive"`
}

// UserResolver looks up the identity named by a token's subject,
// excluding the password hash. repository.UserRepository implements it.
type UserResolver interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Authenticator runs the extract → verify → resolve → attach pipeline.
type Authenticator struct {
	Tokens *TokenManager
	Users  UserResolver
}

func NewAuthenticator(tm *TokenManager, users UserResolver) *Authenticator {
	return &Authenticator{Tokens: tm, Users: users}
}

// resolve runs verify + lookup for an already-extracted token.
func (a *Authenticator) resolve(c echo.Context, tokenString string) (*AuthUser, error) {
	claims, err := a.Tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := a.Users.GetByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("USER_NOT_FOUND", "Invalid token. User not found.")
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("ACCOUNT_DEACTIVATED", "Account is deactivated.")
	}
	return &AuthUser{
		ID:       user.ID,
		Email:    user.Email,
		Role:     user.Role,
		Name:     user.Name,
		IsActive: user.IsActive,
	}, nil
}

// Authenticate rejects the request unless a valid bearer token resolves
// to an active user. Authentication never mutates the store.
func (a *Authenticator) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := extractBearer(c)
		if tokenString == "" {
			return apperr.Unauthorized("MISSING_TOKEN", "Access denied. No token provided.")
		}
		user, err := a.resolve(c, tokenString)
		if err != nil {
			return err
		}
		c.Set(authUserKey, user)
		return next(c)
	}
}

// Optional attaches an identity when a valid token is present but never
// rejects; any failure proceeds unauthenticated.
func (a *Authenticator) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if tokenString := extractBearer(c); tokenString != "" {
			if user, err := a.resolve(c, tokenString); err == nil {
				c.Set(authUserKey, user)
			}
		}
		return next(c)
	}
}

// GetAuthUser returns the identity attached by Authenticate, or nil.
func GetAuthUser(c echo.Context) *AuthUser {
	if u, ok := c.Get(authUserKey).(*AuthUser); ok {
		return u
	}
	return nil
}

// RequireRoles allows only identities whose role is in the given set.
// Runs after Authenticate.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetAuthUser(c)
			if user == nil {
				return apperr.Unauthorized("NOT_AUTHENTICATED", "Authentication required.")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return apperr.Forbidden("INSUFFICIENT_PERMISSIONS", "Access denied. Insufficient permissions.")
		}
	}
}

// RequireOwnership allows admins through and otherwise insists the path
// parameter names the authenticated user's own id.
func RequireOwnership(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetAuthUser(c)
			if user == nil {
				return apperr.Unauthorized("NOT_AUTHENTICATED", "Authentication required.")
			}
			if user.Role == model.RoleAdmin {
				return next(c)
			}
			if raw := c.Param(param); raw != "" && raw != strconv.FormatInt(user.ID, 10) {
				return apperr.Forbidden("RESOURCE_OWNERSHIP_REQUIRED", "Access denied. You can only access your own resources.")
			}
			return next(c)
		}
	}
}

// extractBearer pulls the token out of the Authorization header;
// returns "" when the header is absent or not bearer-scheme.
func extractBearer(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return ""
	}
	parts := strings.Fields(auth)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
