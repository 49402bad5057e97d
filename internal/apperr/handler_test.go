package apperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"domain error", NotFound("GADGET_NOT_FOUND", "Gadget not found"), http.StatusNotFound, "GADGET_NOT_FOUND"},
		{"wrapped domain error", errors.Join(errors.New("outer"), Forbidden("INSUFFICIENT_PERMISSIONS", "no")), http.StatusForbidden, "INSUFFICIENT_PERMISSIONS"},
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusBadRequest, "DUPLICATE_KEY_ERROR"},
		{"other pg error", &pgconn.PgError{Code: "23514"}, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, "REQUEST_TIMEOUT"},
		{"echo 404", echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "ROUTE_NOT_FOUND"},
		{"echo 405", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "APPLICATION_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := translate(tc.err)
			assert.Equal(t, tc.wantStatus, e.Status)
			assert.Equal(t, tc.wantCode, e.Code)
		})
	}
}

func TestHTTPErrorHandlerWritesEnvelope(t *testing.T) {
	handler := HTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/gadgets/99", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	handler(NotFound("GADGET_NOT_FOUND", "Gadget not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Gadget not found", body.Message)
	assert.Equal(t, "GADGET_NOT_FOUND", body.Error)
}

func TestHTTPErrorHandlerIncludesValidationDetails(t *testing.T) {
	handler := HTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	handler(Validation("Validation Error", FieldError{Field: "email", Message: "invalid"}), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Details []FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Details, 1)
	assert.Equal(t, "email", body.Details[0].Field)
}
