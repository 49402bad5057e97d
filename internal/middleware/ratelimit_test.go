package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
)

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1)
	handler := rl.Middleware(okHandler)

	newCtx := func(ip string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		return echo.New().NewContext(req, httptest.NewRecorder())
	}

	require.NoError(t, handler(newCtx("10.0.0.1")))

	err := handler(newCtx("10.0.0.1"))
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, e.Status)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", e.Code)

	// budgets are per client address
	assert.NoError(t, handler(newCtx("10.0.0.2")))
}
