package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/bouquet-backend/pkg/db"
	"github.com/angelmondragon/bouquet-backend/pkg/db/dbtest"
	"github.com/angelmondragon/bouquet-backend/pkg/db/models"
	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
)

type fixture struct {
	client *db.Client
	repo   Repository
	rose   models.Product
	kraft  models.Product
	satin  models.Product
	ctx    context.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	products := dbtest.SeedProducts(t, client,
		models.Product{Name: "Rose", Category: enums.ProductCategoryFlower, UnitPriceCents: 550},
		models.Product{Name: "Kraft", Category: enums.ProductCategoryPaper, UnitPriceCents: 350},
		models.Product{Name: "Satin", Category: enums.ProductCategoryRibbon, UnitPriceCents: 250},
	)
	return fixture{
		client: client,
		repo:   NewRepository(client.DB()),
		rose:   products[0],
		kraft:  products[1],
		satin:  products[2],
		ctx:    context.Background(),
	}
}

func ptr[T any](v T) *T { return &v }

func (f fixture) order(number string, createdAt time.Time) *models.Order {
	return &models.Order{
		OrderNumber: number,
		TotalCents:  2*550 + 350 + 250,
		CreatedAt:   createdAt,
		Lines: []models.OrderLine{
			{Slot: enums.LineSlotFlower, Position: 0, ProductID: ptr(f.rose.ID), ProductName: "Rose", Category: enums.ProductCategoryFlower, Quantity: 2, PriceAtOrderCents: 550, LineTotalCents: 1100},
			{Slot: enums.LineSlotPaper, Position: 1, ProductID: ptr(f.kraft.ID), ProductName: "Kraft", Category: enums.ProductCategoryPaper, Quantity: 1, PriceAtOrderCents: 350, LineTotalCents: 350},
			{Slot: enums.LineSlotRibbon, Position: 2, ProductID: ptr(f.satin.ID), ProductName: "Satin", Category: enums.ProductCategoryRibbon, Quantity: 1, PriceAtOrderCents: 250, LineTotalCents: 250},
		},
	}
}

func TestCommitPersistsHeaderAndLines(t *testing.T) {
	f := newFixture(t)
	order := f.order("ORD-2026-00000001", time.Time{})
	require.NoError(t, f.repo.Commit(f.ctx, order))
	require.NotEqual(t, uuid.Nil, order.ID)

	stored, err := f.repo.FindByID(f.ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 3)
	require.Equal(t, int64(1700), stored.TotalCents)
	require.False(t, stored.CreatedAt.IsZero())
}

func TestFindByIDReturnsLinesInPosition(t *testing.T) {
	f := newFixture(t)
	order := f.order("ORD-2026-0000REV1", time.Time{})
	lines := order.Lines
	order.Lines = []models.OrderLine{lines[2], lines[0], lines[1]}
	require.NoError(t, f.repo.Commit(f.ctx, order))

	stored, err := f.repo.FindByID(f.ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 3)
	for i, line := range stored.Lines {
		assert.Equal(t, i, line.Position)
	}
	assert.Equal(t, enums.LineSlotFlower, stored.Lines[0].Slot)
}

func TestCommitDuplicateOrderNumberLeavesNothingBehind(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Commit(f.ctx, f.order("ORD-2026-DUPL1CAT", time.Time{})))

	err := f.repo.Commit(f.ctx, f.order("ORD-2026-DUPL1CAT", time.Time{}))
	require.ErrorIs(t, err, ErrOrderNumberTaken)

	var orders, lines int64
	require.NoError(t, f.client.DB().Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, f.client.DB().Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(3), lines)
}

func TestCommitRollsBackWithOuterTransaction(t *testing.T) {
	f := newFixture(t)
	err := f.client.WithTx(f.ctx, func(tx *gorm.DB) error {
		if err := f.repo.WithTx(tx).Commit(f.ctx, f.order("ORD-2026-R0LLBACK", time.Time{})); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeInternal, "abort after commit")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, f.client.DB().Model(&models.OrderLine{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestListNewestFirstWithSnapshotPrices(t *testing.T) {
	f := newFixture(t)
	older := f.order("ORD-2026-0000000A", time.Now().Add(-time.Hour).UTC())
	newer := f.order("ORD-2026-0000000B", time.Now().UTC())
	require.NoError(t, f.repo.Commit(f.ctx, older))
	require.NoError(t, f.repo.Commit(f.ctx, newer))

	// a later catalog change must not leak into history
	require.NoError(t, f.client.DB().Model(&models.Product{}).Where("id = ?", f.rose.ID).
		Updates(map[string]any{"unit_price_cents": 999, "name": "Garden Rose"}).Error)

	summaries, err := f.repo.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "ORD-2026-0000000B", summaries[0].Order.OrderNumber)

	first := summaries[0]
	require.Equal(t, int64(1700), first.Order.TotalCents)
	require.Equal(t, int64(550), first.Lines[0].PriceAtOrderCents)
	require.Equal(t, "Garden Rose", first.Lines[0].DisplayName)
}

func TestListFallsBackToSnapshotNameWhenProductRemoved(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Commit(f.ctx, f.order("ORD-2026-00000C0D", time.Time{})))
	require.NoError(t, f.client.DB().Exec("UPDATE order_lines SET product_id = NULL WHERE product_id = ?", f.satin.ID).Error)
	require.NoError(t, f.client.DB().Delete(&models.Product{}, f.satin.ID).Error)

	summary, err := f.repo.FindByNumber(f.ctx, "ORD-2026-00000C0D")
	require.NoError(t, err)
	require.Equal(t, "Satin", summary.Lines[2].DisplayName)
	require.Nil(t, summary.Lines[2].ProductID)
}

func TestFindByNumberMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.repo.FindByNumber(f.ctx, "ORD-2026-FFFFFFFF")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestAttachVisualization(t *testing.T) {
	f := newFixture(t)
	order := f.order("ORD-2026-0000A11A", time.Time{})
	require.NoError(t, f.repo.Commit(f.ctx, order))

	require.NoError(t, f.repo.AttachVisualization(f.ctx, order.ID, "data:image/png;base64,AAAA"))
	stored, err := f.repo.FindByID(f.ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AAAA", *stored.VisualizationRef)

	err = f.repo.AttachVisualization(f.ctx, uuid.New(), "x")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestServiceHistoryWireShape(t *testing.T) {
	f := newFixture(t)
	order := f.order("ORD-2026-0000B0B0", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	order.IsGift = true
	order.RecipientName = ptr("Ana")
	order.RecipientAddress = ptr("Calle 1")
	require.NoError(t, f.repo.Commit(f.ctx, order))

	svc, err := NewService(f.repo)
	require.NoError(t, err)

	items, err := svc.History(f.ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	body, err := json.Marshal(items[0])
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "ORD-2026-0000B0B0", decoded["id"])
	assert.Equal(t, 17.0, decoded["totalPrice"])
	assert.Len(t, decoded["flowers"], 1)
	assert.Len(t, decoded["papers"], 1)
	assert.Len(t, decoded["ribbons"], 1)
	assert.NotNil(t, decoded["giftOptions"])
	assert.NotContains(t, decoded, "pickup")

	_, err = svc.Get(f.ctx, "ORD-2026-NOPE0000")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
