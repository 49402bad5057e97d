package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
)

func TestNotFoundMapsOnlyMissingRows(t *testing.T) {
	err := notFound(pgx.ErrNoRows, "GADGET_NOT_FOUND", "Gadget not found")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "GADGET_NOT_FOUND", e.Code)

	err = notFound(fmt.Errorf("query: %w", pgx.ErrNoRows), "USER_NOT_FOUND", "User not found")
	_, ok = apperr.As(err)
	assert.True(t, ok)

	// timeouts and connection failures keep their identity
	err = notFound(context.DeadlineExceeded, "GADGET_NOT_FOUND", "Gadget not found")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, ok = apperr.As(err)
	assert.False(t, ok)
}
