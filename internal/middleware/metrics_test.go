package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
)

func metricsCtx(path string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestMetricsMiddlewareCountsSuccess(t *testing.T) {
	m := NewMetrics()
	c := metricsCtx("/api/gadgets")
	require.NoError(t, m.Middleware(okHandler)(c))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/gadgets", "200")))
}

func TestMetricsMiddlewareCountsDomainErrorStatus(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(func(c echo.Context) error {
		return apperr.NotFound("GADGET_NOT_FOUND", "Gadget not found")
	})

	c := metricsCtx("/api/gadgets/99")
	require.Error(t, handler(c))

	// the domain error's status, not the not-yet-written response status
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/gadgets/99", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/gadgets/99", "200")))
}

func TestStatusOf(t *testing.T) {
	c := metricsCtx("/")
	assert.Equal(t, http.StatusUnauthorized, statusOf(c, apperr.Unauthorized("MISSING_TOKEN", "no token")))
	assert.Equal(t, http.StatusNotFound, statusOf(c, echo.NewHTTPError(http.StatusNotFound)))
	assert.Equal(t, http.StatusInternalServerError, statusOf(c, errors.New("boom")))

	require.NoError(t, okHandler(c))
	assert.Equal(t, http.StatusOK, statusOf(c, nil))
}
