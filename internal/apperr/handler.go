package apperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// uniqueViolation is the Postgres SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// HTTPErrorHandler is the single translator from domain errors to the
// JSON envelope. Unexpected failures are logged and surfaced as a
// generic 500 without leaking internals.
func HTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := translate(err)
		if resp.Status >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.Status)
			return
		}
		_ = c.JSON(resp.Status, envelope{
			Success: false,
			Message: resp.Message,
			Error:   resp.Code,
			Details: resp.Details,
		})
	}
}

func translate(err error) *Error {
	if e, ok := As(err); ok {
		return e
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return Duplicate("Duplicate value violates a unique constraint.")
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(http.StatusServiceUnavailable, "REQUEST_TIMEOUT", "Request timed out.")
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		code := "APPLICATION_ERROR"
		if he.Code == http.StatusNotFound {
			code = "ROUTE_NOT_FOUND"
		}
		return New(he.Code, code, msg)
	}

	return Internal("Internal Server Error")
}
