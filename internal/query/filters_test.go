package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
)

func TestParseGadgetFiltersEmpty(t *testing.T) {
	f, err := ParseGadgetFilters(params(nil))
	require.NoError(t, err)

	b := new(Builder)
	f.Apply(b)
	assert.Equal(t, "", b.Where())
}

func TestParseGadgetFilters(t *testing.T) {
	f, err := ParseGadgetFilters(params(map[string]string{
		"search":    "pixel",
		"category":  "smartphone",
		"brand":     "google",
		"minPrice":  "100",
		"maxPrice":  "900.50",
		"minRating": "4",
		"inStock":   "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "pixel", f.Search)
	require.NotNil(t, f.Category)
	assert.Equal(t, model.CategorySmartphone, *f.Category)
	assert.Equal(t, "google", f.Brand)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 100.0, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 900.50, *f.MaxPrice)
	require.NotNil(t, f.MinRating)
	assert.Equal(t, 4.0, *f.MinRating)
	assert.True(t, f.InStock)
}

func TestParseGadgetFiltersInvalidCategory(t *testing.T) {
	_, err := ParseGadgetFilters(params(map[string]string{"category": "spaceship"}))
	require.Error(t, err)

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_CATEGORY", e.Code)
}

func TestParseGadgetFiltersIgnoresUnparsableNumbers(t *testing.T) {
	f, err := ParseGadgetFilters(params(map[string]string{"minPrice": "cheap", "maxPrice": ""}))
	require.NoError(t, err)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
}

func TestGadgetFiltersApplySearchPredicate(t *testing.T) {
	f := GadgetFilters{Search: "pro"}
	b := new(Builder)
	f.Apply(b)

	where := b.Where()
	assert.Contains(t, where, "name ILIKE $1")
	assert.Contains(t, where, "description ILIKE $1")
	assert.Contains(t, where, "brand ILIKE $1")
	assert.Contains(t, where, "unnest(tags)")
	require.Len(t, b.Args(), 1)
	assert.Equal(t, "%pro%", b.Args()[0])
}

func TestGadgetFiltersApplyComposesWithAnd(t *testing.T) {
	active := true
	min := 50.0
	f := GadgetFilters{Active: &active, MinPrice: &min, InStock: true}
	b := new(Builder)
	f.Apply(b)

	assert.Equal(t, "WHERE is_active = $1 AND price >= $2 AND stock > 0", b.Where())
}

func TestParseUserFilters(t *testing.T) {
	f, err := ParseUserFilters(params(map[string]string{"search": "jane", "role": "admin", "isActive": "false"}))
	require.NoError(t, err)

	assert.Equal(t, "jane", f.Search)
	require.NotNil(t, f.Role)
	assert.Equal(t, model.RoleAdmin, *f.Role)
	require.NotNil(t, f.IsActive)
	assert.False(t, *f.IsActive)
}

func TestParseUserFiltersInvalidRole(t *testing.T) {
	_, err := ParseUserFilters(params(map[string]string{"role": "superuser"}))
	require.Error(t, err)

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_ROLE", e.Code)
}

func TestParseUserFiltersIsActiveLiteralOnly(t *testing.T) {
	f, err := ParseUserFilters(params(map[string]string{"isActive": "yes"}))
	require.NoError(t, err)
	assert.Nil(t, f.IsActive)
}
