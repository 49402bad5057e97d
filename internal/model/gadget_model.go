package model

import "time"

type GadgetCategory string

const (
	CategorySmartphone  GadgetCategory = "smartphone"
	CategoryLaptop      GadgetCategory = "laptop"
	CategoryTablet      GadgetCategory = "tablet"
	CategorySmartwatch  GadgetCategory = "smartwatch"
	CategoryHeadphones  GadgetCategory = "headphones"
	CategoryCamera      GadgetCategory = "camera"
	CategoryGaming      GadgetCategory = "gaming"
	CategoryAccessories GadgetCategory = "accessories"
)

// Categories lists the closed set in a stable order.
func Categories() []GadgetCategory {
	return []GadgetCategory{
		CategorySmartphone, CategoryLaptop, CategoryTablet, CategorySmartwatch,
		CategoryHeadphones, CategoryCamera, CategoryGaming, CategoryAccessories,
	}
}

func (c GadgetCategory) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// Specification is a free-form key/value pair on a gadget.
type Specification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Gadget struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	OriginalPrice  *float64        `json:"originalPrice,omitempty"`
	Category       GadgetCategory  `json:"category"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	Images         []string        `json:"images"`
	Specifications []Specification `json:"specifications"`
	Stock          int             `json:"stock"`
	IsActive       bool            `json:"isActive"`
	AverageRating  float64         `json:"averageRating"`
	TotalReviews   int             `json:"totalReviews"`
	Tags           []string        `json:"tags"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// DiscountPercentage is derived from originalPrice when it exceeds the
// current price.
func (g *Gadget) DiscountPercentage() int {
	if g.OriginalPrice != nil && *g.OriginalPrice > g.Price && *g.OriginalPrice > 0 {
		return int((*g.OriginalPrice-g.Price)/(*g.OriginalPrice)*100 + 0.5)
	}
	return 0
}
