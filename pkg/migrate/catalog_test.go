package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bouquet-backend/pkg/db/dbtest"
	"github.com/angelmondragon/bouquet-backend/pkg/db/models"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
)

func TestInspectCatalog(t *testing.T) {
	client := dbtest.Open(t)
	sqlDB, err := client.SQL()
	require.NoError(t, err)

	report, err := InspectCatalog(context.Background(), sqlDB)
	require.NoError(t, err)
	require.False(t, report.Orderable())
	require.Len(t, report.Missing(), 4)

	dbtest.SeedProducts(t, client,
		models.Product{Name: "Rose", Category: enums.ProductCategoryFlower, UnitPriceCents: 550},
		models.Product{Name: "Tulip", Category: enums.ProductCategoryFlower, UnitPriceCents: 400},
		models.Product{Name: "Kraft", Category: enums.ProductCategoryPaper, UnitPriceCents: 350},
	)

	report, err = InspectCatalog(context.Background(), sqlDB)
	require.NoError(t, err)
	require.True(t, report.Orderable())
	require.Equal(t, int64(2), report[enums.ProductCategoryFlower])
	require.Equal(t, []enums.ProductCategory{enums.ProductCategoryFoliage, enums.ProductCategoryRibbon}, report.Missing())
}

func TestInspectCatalogRequiresDB(t *testing.T) {
	_, err := InspectCatalog(context.Background(), nil)
	require.Error(t, err)
}
