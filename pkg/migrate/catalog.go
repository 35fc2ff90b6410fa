package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/angelmondragon/bouquet-backend/pkg/enums"
)

// CatalogReport counts products per category after a schema change.
type CatalogReport map[enums.ProductCategory]int64

// Orderable reports whether a bouquet can be composed: at least one flower or
// foliage product must exist.
func (r CatalogReport) Orderable() bool {
	return r[enums.ProductCategoryFlower]+r[enums.ProductCategoryFoliage] > 0
}

// Missing lists the categories with no products, in listing order.
func (r CatalogReport) Missing() []enums.ProductCategory {
	var out []enums.ProductCategory
	for _, c := range enums.ProductCategories() {
		if r[c] == 0 {
			out = append(out, c)
		}
	}
	return out
}

// InspectCatalog reads the per-category product counts.
func InspectCatalog(ctx context.Context, db *sql.DB) (CatalogReport, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	rows, err := db.QueryContext(ctx, `SELECT category, COUNT(*) FROM products GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	defer rows.Close()

	report := CatalogReport{}
	for rows.Next() {
		var (
			category string
			count    int64
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan product count: %w", err)
		}
		report[enums.ProductCategory(category)] = count
	}
	return report, rows.Err()
}
