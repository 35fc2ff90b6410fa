package catalog

import (
	"github.com/angelmondragon/bouquet-backend/pkg/db/models"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	"github.com/angelmondragon/bouquet-backend/pkg/money"
)

// Product is the catalog view consumed by the composer and listing endpoints.
type Product struct {
	ID             int64
	Name           string
	Category       enums.ProductCategory
	UnitPriceCents int64
	MaxQuantity    int
	ImageRef       *string
	Icon           *string
}

// Capped reports whether the product limits the quantity per order.
func (p Product) Capped() bool {
	return p.MaxQuantity > 0
}

// ProductDTO is the listing wire shape.
type ProductDTO struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Price       money.Amount `json:"price"`
	Image       *string      `json:"image,omitempty"`
	Icon        *string      `json:"icon,omitempty"`
	MaxQuantity int          `json:"max_quantity"`
}

func fromModel(m models.Product) Product {
	return Product{
		ID:             m.ID,
		Name:           m.Name,
		Category:       m.Category,
		UnitPriceCents: m.UnitPriceCents,
		MaxQuantity:    m.MaxQuantity,
		ImageRef:       m.ImageRef,
		Icon:           m.Icon,
	}
}

// ToDTO converts a product for the listing endpoints.
func ToDTO(p Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       money.FromCents(p.UnitPriceCents),
		Image:       p.ImageRef,
		Icon:        p.Icon,
		MaxQuantity: p.MaxQuantity,
	}
}

// ToDTOs converts a listing, always returning a non-nil slice.
func ToDTOs(products []Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, ToDTO(p))
	}
	return out
}
