package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/bouquet-backend/pkg/db/models"
)

// ErrOrderNumberTaken reports a collision on the unique order_number index.
var ErrOrderNumberTaken = errors.New("order number already taken")

// Repository is the Order Store: atomic commit and read-back of order graphs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Commit(ctx context.Context, order *models.Order) error
	List(ctx context.Context) ([]Summary, error)
	FindByNumber(ctx context.Context, orderNumber string) (*Summary, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	AttachVisualization(ctx context.Context, orderID uuid.UUID, ref string) error
}

// Summary is a persisted order with display names resolved at read time.
type Summary struct {
	Order models.Order
	Lines []SummaryLine
}

// SummaryLine pairs the line snapshot with the current catalog name, falling
// back to the snapshot name when the product is gone.
type SummaryLine struct {
	models.OrderLine
	DisplayName string
}
