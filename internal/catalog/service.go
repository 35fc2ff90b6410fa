package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/angelmondragon/bouquet-backend/pkg/db/models"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
)

// Service is the read-only Catalog Store contract.
type Service interface {
	Lookup(ctx context.Context, id int64) (*Product, error)
	LookupMany(ctx context.Context, ids []int64) (map[int64]Product, error)
	ListByCategory(ctx context.Context, category enums.ProductCategory) ([]Product, error)
}

type productReader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error)
}

type service struct {
	repo  productReader
	cache *listingCache
	group singleflight.Group
}

// NewService builds the catalog service. store may be nil, in which case
// listings always hit the database.
func NewService(repo productReader, store cacheStore, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	svc := &service{repo: repo}
	if store != nil {
		svc.cache = &listingCache{store: store, ttl: ttl, logg: logg}
	}
	return svc, nil
}

// Lookup always reads the database so the composer prices against live values.
func (s *service) Lookup(ctx context.Context, id int64) (*Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, fmt.Sprintf("product %d not found", id)).
				WithDetails(map[string]any{"productId": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog lookup failed")
	}
	product := fromModel(*row)
	return &product, nil
}

func (s *service) LookupMany(ctx context.Context, ids []int64) (map[int64]Product, error) {
	rows, err := s.repo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog lookup failed")
	}
	out := make(map[int64]Product, len(rows))
	for _, row := range rows {
		out[row.ID] = fromModel(row)
	}
	return out, nil
}

func (s *service) ListByCategory(ctx context.Context, category enums.ProductCategory) ([]Product, error) {
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", category))
	}
	if cached, ok := s.cache.get(ctx, category); ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(string(category), func() (any, error) {
		rows, err := s.repo.ListByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		products := make([]Product, 0, len(rows))
		for _, row := range rows {
			products = append(products, fromModel(row))
		}
		s.cache.put(ctx, category, products)
		return products, nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog listing failed")
	}
	return v.([]Product), nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
