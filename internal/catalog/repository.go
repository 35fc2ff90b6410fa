package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/bouquet-backend/pkg/db/models"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
)

// Repository reads catalog rows. It never writes; seeding lives outside the service.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID returns gorm.ErrRecordNotFound when the id is absent.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads all requested ids in a single query. Unknown ids are omitted.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *Repository) ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error) {
	if !category.IsValid() {
		return nil, errors.New("invalid product category")
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("id ASC").
		Find(&products).Error
	return products, err
}
