package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
)

// notFound maps an absent row onto the domain 404. Any other scan
// failure (timeout, lost connection) propagates untouched so the error
// handler can classify it.
func notFound(err error, code, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(code, message)
	}
	return err
}
