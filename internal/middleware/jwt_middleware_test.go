package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
)

const testSecret = "test-secret"

type fakeResolver struct {
	users map[int64]*model.User
}

func (f *fakeResolver) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("USER_NOT_FOUND", "User not found")
}

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testSecret, "evolution-gadget", "evolution-gadget-users", time.Hour)
	require.NoError(t, err)
	return tm
}

func ctxWithToken(token string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", "iss", "aud", time.Hour)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newTestManager(t)

	token, err := tm.Generate(42, "jane@example.com", model.RoleAdmin)
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	other, err := NewTokenManager("another-secret", "evolution-gadget", "evolution-gadget-users", time.Hour)
	require.NoError(t, err)
	token, err := other.Generate(1, "a@b.c", model.RoleCustomer)
	require.NoError(t, err)

	_, err = newTestManager(t).Parse(token)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_TOKEN", e.Code)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	other, err := NewTokenManager(testSecret, "someone-else", "evolution-gadget-users", time.Hour)
	require.NoError(t, err)
	token, err := other.Generate(1, "a@b.c", model.RoleCustomer)
	require.NoError(t, err)

	_, err = newTestManager(t).Parse(token)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_TOKEN", e.Code)
}

func TestParseReportsExpiryDistinctly(t *testing.T) {
	now := time.Now()
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			Issuer:    "evolution-gadget",
			Audience:  jwt.ClaimStrings{"evolution-gadget-users"},
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestManager(t).Parse(token)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "TOKEN_EXPIRED", e.Code)
}

func TestAuthenticateMissingToken(t *testing.T) {
	a := NewAuthenticator(newTestManager(t), &fakeResolver{})

	err := a.Authenticate(okHandler)(ctxWithToken(""))
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "MISSING_TOKEN", e.Code)
}

func TestAuthenticateAttachesUser(t *testing.T) {
	tm := newTestManager(t)
	a := NewAuthenticator(tm, &fakeResolver{users: map[int64]*model.User{
		7: {ID: 7, Email: "jane@example.com", Name: "Jane", Role: model.RoleCustomer, IsActive: true},
	}})
	token, err := tm.Generate(7, "jane@example.com", model.RoleCustomer)
	require.NoError(t, err)

	c := ctxWithToken(token)
	require.NoError(t, a.Authenticate(okHandler)(c))

	user := GetAuthUser(c)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, model.RoleCustomer, user.Role)
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	tm := newTestManager(t)
	a := NewAuthenticator(tm, &fakeResolver{users: map[int64]*model.User{
		7: {ID: 7, IsActive: false},
	}})
	token, err := tm.Generate(7, "jane@example.com", model.RoleCustomer)
	require.NoError(t, err)

	err = a.Authenticate(okHandler)(ctxWithToken(token))
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", e.Code)
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	tm := newTestManager(t)
	a := NewAuthenticator(tm, &fakeResolver{})
	token, err := tm.Generate(999, "ghost@example.com", model.RoleCustomer)
	require.NoError(t, err)

	err = a.Authenticate(okHandler)(ctxWithToken(token))
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "USER_NOT_FOUND", e.Code)
}

func TestOptionalProceedsOnBadToken(t *testing.T) {
	a := NewAuthenticator(newTestManager(t), &fakeResolver{})

	c := ctxWithToken("not-a-token")
	require.NoError(t, a.Optional(okHandler)(c))
	assert.Nil(t, GetAuthUser(c))
}

func TestRequireRoles(t *testing.T) {
	mw := RequireRoles(model.RoleAdmin)

	// unauthenticated
	c := ctxWithToken("")
	err := mw(okHandler)(c)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_AUTHENTICATED", e.Code)

	// wrong role
	c = ctxWithToken("")
	c.Set(authUserKey, &AuthUser{ID: 1, Role: model.RoleCustomer})
	err = mw(okHandler)(c)
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", e.Code)

	// matching role
	c = ctxWithToken("")
	c.Set(authUserKey, &AuthUser{ID: 1, Role: model.RoleAdmin})
	assert.NoError(t, mw(okHandler)(c))
}

func TestRequireOwnership(t *testing.T) {
	mw := RequireOwnership("userId")

	newCtx := func(user *AuthUser, paramValue string) echo.Context {
		c := ctxWithToken("")
		c.SetParamNames("userId")
		c.SetParamValues(paramValue)
		if user != nil {
			c.Set(authUserKey, user)
		}
		return c
	}

	// owner passes
	assert.NoError(t, mw(okHandler)(newCtx(&AuthUser{ID: 5, Role: model.RoleCustomer}, "5")))

	// someone else's resource
	err := mw(okHandler)(newCtx(&AuthUser{ID: 5, Role: model.RoleCustomer}, "6"))
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "RESOURCE_OWNERSHIP_REQUIRED", e.Code)

	// admin bypass
	assert.NoError(t, mw(okHandler)(newCtx(&AuthUser{ID: 5, Role: model.RoleAdmin}, "6")))
}

func TestExtractBearer(t *testing.T) {
	c := ctxWithToken("abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", extractBearer(c))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	c = echo.New().NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "", extractBearer(c))
}
