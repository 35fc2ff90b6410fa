package models

import (
	"time"

	"github.com/angelmondragon/bouquet-backend/pkg/enums"
)

// Product is a purchasable catalog entry. Prices are integer cents.
type Product struct {
	ID             int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string                `gorm:"column:name;not null"`
	Category       enums.ProductCategory `gorm:"column:category;type:text;not null;index:idx_products_category"`
	UnitPriceCents int64                 `gorm:"column:unit_price_cents;not null"`
	MaxQuantity    int                   `gorm:"column:max_quantity;not null;default:0"`
	ImageRef       *string               `gorm:"column:image_ref"`
	Icon           *string               `gorm:"column:icon"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
