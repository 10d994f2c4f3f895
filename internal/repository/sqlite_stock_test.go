package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRepo_UpsertReplaces(t *testing.T) {
	db := testutil.NewTestDB(t)
	stock := NewSQLiteStockRepo(db)
	ctx := context.Background()

	require.NoError(t, stock.Upsert(ctx, domain.StockLevel{MaterialID: "M-2", AvailableQty: 1, LeadTimeDays: 4, UpdatedAt: testutil.FixtureNow}))
	require.NoError(t, stock.Upsert(ctx, domain.StockLevel{MaterialID: "M-1", AvailableQty: 5, LeadTimeDays: 2, UpdatedAt: testutil.FixtureNow}))
	require.NoError(t, stock.Upsert(ctx, domain.StockLevel{MaterialID: "M-2", AvailableQty: 7.5, LeadTimeDays: 0, UpdatedAt: testutil.FixtureNow}))

	levels, err := stock.List(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "M-1", levels[0].MaterialID)
	assert.Equal(t, "M-2", levels[1].MaterialID)
	assert.Equal(t, 7.5, levels[1].AvailableQty)
	assert.Equal(t, 0, levels[1].LeadTimeDays)

	got, err := stock.Get(ctx, "M-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.AvailableQty)
	assert.Equal(t, testutil.FixtureNow, got.UpdatedAt)
}

func TestStockRepo_Get_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := NewSQLiteStockRepo(db).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
