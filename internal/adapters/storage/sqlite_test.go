package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/adapters/storage"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

func TestSQLiteStore_LoadBeforeSave(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrStateNotFound)
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	state := domain.NewLedgerState(1000)
	state.Balance = 959.96
	state.Positions["tok-1"] = &domain.Position{
		TokenID:       "tok-1",
		MarketSlug:    "btc-moon",
		Outcome:       "Yes",
		Shares:        100,
		AvgEntryPrice: 0.40,
		TotalCost:     40,
		OpenedAt:      time.Now().UTC(),
	}
	state.Trades = append(state.Trades, domain.Trade{
		ID:     "trade-1",
		Side:   "BUY",
		Price:  0.40,
		Shares: 100,
	})
	state.Stats.TotalTrades = 1

	require.NoError(t, db.Save(ctx, state))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 959.96, loaded.Balance, 1e-9)
	require.Contains(t, loaded.Positions, "tok-1")
	assert.InDelta(t, 0.40, loaded.Positions["tok-1"].AvgEntryPrice, 1e-9)
	require.Len(t, loaded.Trades, 1)
	assert.Equal(t, "trade-1", loaded.Trades[0].ID)
	assert.Equal(t, 1, loaded.Stats.TotalTrades)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	db, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	state := domain.NewLedgerState(1000)
	require.NoError(t, db.Save(ctx, state))

	state.Balance = 500
	require.NoError(t, db.Save(ctx, state))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 500, loaded.Balance, 1e-9)
}
