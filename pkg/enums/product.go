package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the catalog categories a bouquet is built from.
type ProductCategory string

const (
	ProductCategoryFlower  ProductCategory = "flower"
	ProductCategoryFoliage ProductCategory = "foliage"
	ProductCategoryPaper   ProductCategory = "paper"
	ProductCategoryRibbon  ProductCategory = "ribbon"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFlower,
	ProductCategoryFoliage,
	ProductCategoryPaper,
	ProductCategoryRibbon,
}

// ProductCategories returns every known category in listing order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// FitsSlot reports whether a product of this category may be placed in slot.
// Flowers and foliage share the stem slot.
func (c ProductCategory) FitsSlot(slot LineSlot) bool {
	switch slot {
	case LineSlotFlower:
		return c == ProductCategoryFlower || c == ProductCategoryFoliage
	case LineSlotPaper:
		return c == ProductCategoryPaper
	case LineSlotRibbon:
		return c == ProductCategoryRibbon
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validProductCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
