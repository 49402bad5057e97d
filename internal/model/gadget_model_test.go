package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGadgetCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, GadgetCategory("drone").Valid())
	assert.False(t, GadgetCategory("").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleCustomer.Valid())
	assert.False(t, Role("moderator").Valid())
}

func TestDiscountPercentage(t *testing.T) {
	orig := 200.0
	g := &Gadget{Price: 150, OriginalPrice: &orig}
	assert.Equal(t, 25, g.DiscountPercentage())

	// no original price means no discount
	assert.Equal(t, 0, (&Gadget{Price: 150}).DiscountPercentage())

	// original at or below current price means no discount
	same := 150.0
	assert.Equal(t, 0, (&Gadget{Price: 150, OriginalPrice: &same}).DiscountPercentage())
}

func TestComputeRatingStats(t *testing.T) {
	stats := ComputeRatingStats([]int{5, 4, 4})
	assert.Equal(t, 4.3, stats.AverageRating)
	assert.Equal(t, 3, stats.TotalReviews)

	// rounding is to one decimal
	stats = ComputeRatingStats([]int{5, 4})
	assert.Equal(t, 4.5, stats.AverageRating)

	// no reviews resets both fields
	stats = ComputeRatingStats(nil)
	assert.Zero(t, stats.AverageRating)
	assert.Zero(t, stats.TotalReviews)
}

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{Price: 99.99, Quantity: 2},
		{Price: 10, Quantity: 1},
	}
	assert.InDelta(t, 209.98, CartTotal(items), 1e-9)
	assert.Zero(t, CartTotal(nil))
}
