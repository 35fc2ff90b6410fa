package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/bouquet-backend/pkg/enums"
)

// Order is the immutable record of a committed cart. Only VisualizationRef is
// written after creation.
type Order struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber string    `gorm:"column:order_number;not null;uniqueIndex:ux_orders_order_number"`
	TotalCents  int64     `gorm:"column:total_cents;not null"`

	IsGift           bool    `gorm:"column:is_gift;not null;default:false"`
	RecipientName    *string `gorm:"column:recipient_name"`
	RecipientAddress *string `gorm:"column:recipient_address"`
	GreetingCard     *string `gorm:"column:greeting_card"`

	PickupAlias   *string              `gorm:"column:pickup_alias"`
	PickupDate    *string              `gorm:"column:pickup_date"`
	PickupTime    *string              `gorm:"column:pickup_time"`
	PickupMethod  *enums.PickupMethod  `gorm:"column:pickup_method;type:text"`
	PaymentMethod *enums.PaymentMethod `gorm:"column:payment_method;type:text"`

	VisualizationRef *string `gorm:"column:visualization_ref"`

	Lines     []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;not null;index:idx_orders_created_at"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	return nil
}

// OrderLine is a priced snapshot of one selection. ProductID is a weak
// reference; name, category and price survive product removal.
type OrderLine struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderID           uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index:idx_order_lines_order_id"`
	Slot              enums.LineSlot        `gorm:"column:slot;type:text;not null"`
	Position          int                   `gorm:"column:position;not null"`
	ProductID         *int64                `gorm:"column:product_id"`
	ProductName       string                `gorm:"column:product_name;not null"`
	Category          enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Quantity          int                   `gorm:"column:quantity;not null"`
	PriceAtOrderCents int64                 `gorm:"column:price_at_order_cents;not null"`
	LineTotalCents    int64                 `gorm:"column:line_total_cents;not null"`
}

func (OrderLine) TableName() string { return "order_lines" }

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
