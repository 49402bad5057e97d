package query

import (
	"fmt"
	"strconv"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
)

// GadgetSortColumns whitelists sortBy values for catalog listings.
var GadgetSortColumns = map[string]string{
	"createdAt":     "created_at",
	"name":          "name",
	"price":         "price",
	"stock":         "stock",
	"averageRating": "average_rating",
	"totalReviews":  "total_reviews",
}

// UserSortColumns whitelists sortBy values for the admin user listing.
var UserSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"email":     "email",
}

// GadgetFilters is the bag of optional catalog filters. Nil pointers
// mean "filter not supplied".
type GadgetFilters struct {
	Search    string
	Category  *model.GadgetCategory
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	InStock   bool
	// Active constrains is_active; nil (admin "all" listing with no
	// isActive param) leaves it unconstrained.
	Active *bool
}

// ParseGadgetFilters reads the public catalog filter set. Unparsable
// numerics are treated as absent; an invalid category is a validation
// error, not silently ignored.
func ParseGadgetFilters(get Params) (GadgetFilters, error) {
	f := GadgetFilters{
		Search:    get("search"),
		Brand:     get("brand"),
		MinPrice:  floatParam(get("minPrice")),
		MaxPrice:  floatParam(get("maxPrice")),
		MinRating: floatParam(get("minRating")),
		InStock:   get("inStock") == "true",
	}
	if raw := get("category"); raw != "" {
		cat := model.GadgetCategory(raw)
		if !cat.Valid() {
			return GadgetFilters{}, apperr.BadRequest("INVALID_CATEGORY", fmt.Sprintf("invalid category %q", raw))
		}
		f.Category = &cat
	}
	return f, nil
}

// Apply appends the active filter conditions to b. Text search is an OR
// across name, description, brand and tags, AND-ed with everything else.
func (f GadgetFilters) Apply(b *Builder) {
	if f.Active != nil {
		b.And("is_active = " + b.Arg(*f.Active))
	}
	if f.Search != "" {
		p := b.Arg(contains(f.Search))
		b.And(fmt.Sprintf(
			"(name ILIKE %[1]s OR description ILIKE %[1]s OR brand ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE %[1]s))", p))
	}
	if f.Category != nil {
		b.And("category = " + b.Arg(string(*f.Category)))
	}
	if f.Brand != "" {
		b.And("brand ILIKE " + b.Arg(contains(f.Brand)))
	}
	if f.MinPrice != nil {
		b.And("price >= " + b.Arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		b.And("price <= " + b.Arg(*f.MaxPrice))
	}
	if f.MinRating != nil {
		b.And("average_rating >= " + b.Arg(*f.MinRating))
	}
	if f.InStock {
		b.And("stock > 0")
	}
}

// UserFilters is the admin user-listing filter set.
type UserFilters struct {
	Search   string
	Role     *model.Role
	IsActive *bool
}

// ParseUserFilters rejects unknown role values; isActive only filters
// on the literal strings "true"/"false".
func ParseUserFilters(get Params) (UserFilters, error) {
	f := UserFilters{
		Search:   get("search"),
		IsActive: boolParam(get("isActive")),
	}
	if raw := get("role"); raw != "" {
		role := model.Role(raw)
		if !role.Valid() {
			return UserFilters{}, apperr.BadRequest("INVALID_ROLE", fmt.Sprintf("invalid role %q", raw))
		}
		f.Role = &role
	}
	return f, nil
}

// Apply appends the active filter conditions to b. Search matches name
// or email.
func (f UserFilters) Apply(b *Builder) {
	if f.Search != "" {
		p := b.Arg(contains(f.Search))
		b.And(fmt.Sprintf("(name ILIKE %[1]s OR email ILIKE %[1]s)", p))
	}
	if f.Role != nil {
		b.And("role = " + b.Arg(string(*f.Role)))
	}
	if f.IsActive != nil {
		b.And("is_active = " + b.Arg(*f.IsActive))
	}
}

func floatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func boolParam(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
