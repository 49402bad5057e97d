package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("jane.doe+test@example.co.uk"))
	assert.Error(t, validateEmail(""))
	assert.Error(t, validateEmail("not-an-email"))
	assert.Error(t, validateEmail("missing@tld"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("secret1"))
	assert.Error(t, validatePassword("12345"))
}

func TestValidateGadget(t *testing.T) {
	valid := func() *model.Gadget {
		return &model.Gadget{
			Name:        "Pixel 9",
			Description: "A flagship smartphone with a great camera.",
			Price:       799,
			Category:    model.CategorySmartphone,
			Brand:       "Google",
			Model:       "GA05570",
			Images:      []string{"https://example.com/pixel9.jpg"},
			Stock:       10,
		}
	}

	assert.NoError(t, validateGadget(valid()))

	t.Run("collects all field errors", func(t *testing.T) {
		g := valid()
		g.Name = "x"
		g.Description = "short"
		g.Price = -1
		g.Category = "drone"
		g.Brand = ""
		g.Images = nil

		err := validateGadget(g)
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", e.Code)
		assert.Len(t, e.Details, 6)
	})

	t.Run("original price below current price", func(t *testing.T) {
		g := valid()
		orig := g.Price - 100
		g.OriginalPrice = &orig
		assert.Error(t, validateGadget(g))
	})
}

func TestValidateAddress(t *testing.T) {
	full := model.Address{Street: "1 Main St", City: "Springfield", State: "IL", Country: "US", ZipCode: "62701"}
	assert.Empty(t, validateAddress("shippingAddress", full))

	partial := full
	partial.ZipCode = ""
	details := validateAddress("shippingAddress", partial)
	require.Len(t, details, 1)
	assert.Equal(t, "shippingAddress", details[0].Field)
}

func TestUpdateProfileRejectsBadName(t *testing.T) {
	svc := &UserService{}

	for _, name := range []string{"", "   ", "x", strings.Repeat("a", 51)} {
		n := name
		_, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdate{Name: &n})
		e, ok := apperr.As(err)
		require.True(t, ok, "name %q", name)
		assert.Equal(t, "VALIDATION_ERROR", e.Code)
	}
}

func TestCumulativeQuantity(t *testing.T) {
	items := []model.CartItem{
		{GadgetID: 1, Quantity: 3},
		{GadgetID: 2, Quantity: 1},
	}

	// adding to an existing line counts what the cart already holds
	assert.Equal(t, 5, cumulativeQuantity(items, 1, 2))
	// a new line counts only the increment
	assert.Equal(t, 2, cumulativeQuantity(items, 3, 2))
	assert.Equal(t, 4, cumulativeQuantity(nil, 1, 4))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.14, round2(3.14159))
	assert.Equal(t, 2.72, round2(2.718))
	assert.Equal(t, 0.0, round2(0))
	assert.Equal(t, 79.99, round2(79.99))
}

func TestOrderPricing(t *testing.T) {
	// below the free-shipping threshold the flat rate applies
	assert.Equal(t, 8.0, round2(100.0*TaxRate))
	assert.Less(t, 100.0, FreeShippingAbove)
	assert.Equal(t, 10.0, ShippingFlat)

	// at the threshold shipping is waived
	assert.GreaterOrEqual(t, 500.0, FreeShippingAbove)
}
