package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/bouquet-backend/pkg/db"
	"github.com/angelmondragon/bouquet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
)

const orderNumberConstraint = "ux_orders_order_number"

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Commit inserts the header and every line in one transaction. When the
// repository is already bound to a transaction a savepoint is used.
func (r *repository) Commit(ctx context.Context, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "order required")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(order.Lines) == 0 {
			return nil
		}
		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
		}
		return tx.Create(&order.Lines).Error
	})
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err, orderNumberConstraint, "orders.order_number") {
		return ErrOrderNumberTaken
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "commit order")
}

func linesInPosition(tx *gorm.DB) *gorm.DB {
	return tx.Order("position ASC")
}

// List returns every order, newest first.
func (r *repository) List(ctx context.Context) ([]Summary, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", linesInPosition).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	names, err := r.currentNames(ctx, orders...)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(orders))
	for _, order := range orders {
		out = append(out, summarize(order, names))
	}
	return out, nil
}

func (r *repository) FindByNumber(ctx context.Context, orderNumber string) (*Summary, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", linesInPosition).
		Where("order_number = ?", strings.TrimSpace(orderNumber)).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	names, err := r.currentNames(ctx, order)
	if err != nil {
		return nil, err
	}
	summary := summarize(order, names)
	return &summary, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Lines", linesInPosition).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

// AttachVisualization is the only post-creation write an order accepts.
func (r *repository) AttachVisualization(ctx context.Context, orderID uuid.UUID, ref string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("visualization_ref", ref)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, res.Error, "attach visualization")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

// currentNames maps product ids referenced by the orders to their live names.
func (r *repository) currentNames(ctx context.Context, orders ...models.Order) (map[int64]string, error) {
	ids := make([]int64, 0)
	seen := map[int64]struct{}{}
	for _, order := range orders {
		for _, line := range order.Lines {
			if line.ProductID == nil {
				continue
			}
			if _, ok := seen[*line.ProductID]; ok {
				continue
			}
			seen[*line.ProductID] = struct{}{}
			ids = append(ids, *line.ProductID)
		}
	}
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []struct {
		ID   int64
		Name string
	}
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id", "name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func summarize(order models.Order, names map[int64]string) Summary {
	lines := make([]SummaryLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		display := line.ProductName
		if line.ProductID != nil {
			if name, ok := names[*line.ProductID]; ok {
				display = name
			}
		}
		lines = append(lines, SummaryLine{OrderLine: line, DisplayName: display})
	}
	return Summary{Order: order, Lines: lines}
}
