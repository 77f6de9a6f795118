package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

// memStore es un LedgerStore en memoria para tests.
type memStore struct {
	state    *domain.LedgerState
	saves    int
	failSave bool
}

func (m *memStore) Load(ctx context.Context) (*domain.LedgerState, error) {
	if m.state == nil {
		return nil, ports.ErrStateNotFound
	}
	return m.state, nil
}

func (m *memStore) Save(ctx context.Context, state *domain.LedgerState) error {
	if m.failSave {
		return assert.AnError
	}
	m.state = state
	m.saves++
	return nil
}

func (m *memStore) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T, balance, feeRate float64) (*Ledger, *memStore) {
	t.Helper()
	store := &memStore{}
	l, err := New(context.Background(), store, balance, feeRate, testLogger())
	require.NoError(t, err)
	return l, store
}

func signal(tokenID, slug, outcome string) domain.TradeSignal {
	return domain.TradeSignal{
		TradeID:    "sig-" + tokenID,
		Wallet:     "0xabc",
		TokenID:    tokenID,
		MarketSlug: slug,
		Outcome:    outcome,
	}
}

func TestLedger_Buy_WeightedAverage(t *testing.T) {
	l, _ := newTestLedger(t, 1000, 0)
	ctx := context.Background()
	sig := signal("tok-1", "some-market", "Yes")

	_, err := l.Buy(ctx, sig, 100, 0.40)
	require.NoError(t, err)
	_, err = l.Buy(ctx, sig, 50, 0.70)
	require.NoError(t, err)

	positions := l.Positions()
	require.Len(t, positions, 1)
	pos := positions[0]

	// Media ponderada: (100*0.40 + 50*0.70) / 150 = 0.50
	assert.InDelta(t, 150, pos.Shares, 1e-9)
	assert.InDelta(t, 0.50, pos.AvgEntryPrice, 1e-9)
	assert.InDelta(t, pos.AvgEntryPrice*pos.Shares, pos.TotalCost, 1e-9)
	assert.InDelta(t, 1000-40-35, l.Balance(), 1e-9)
}

func TestLedger_Buy_InsufficientBalance(t *testing.T) {
	l, _ := newTestLedger(t, 10, 0.001)
	ctx := context.Background()

	_, err := l.Buy(ctx, signal("tok-1", "m", "Yes"), 100, 0.40)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Sin mutación: balance intacto, cero posiciones, cero trades.
	assert.InDelta(t, 10, l.Balance(), 1e-9)
	assert.Empty(t, l.Positions())
	assert.Empty(t, l.Trades())
}

func TestLedger_Sell_PartialThenFull(t *testing.T) {
	l, _ := newTestLedger(t, 1000, 0)
	ctx := context.Background()
	sig := signal("tok-1", "m", "Yes")

	_, err := l.Buy(ctx, sig, 100, 0.40)
	require.NoError(t, err)

	trade, err := l.Sell(ctx, sig, 40, 0.60)
	require.NoError(t, err)
	assert.InDelta(t, 40, trade.Shares, 1e-9)
	assert.InDelta(t, (0.60-0.40)*40, trade.RealizedPnL, 1e-9)

	positions := l.Positions()
	require.Len(t, positions, 1)
	assert.InDelta(t, 60, positions[0].Shares, 1e-9)
	assert.InDelta(t, 0.40*60, positions[0].TotalCost, 1e-9)

	// Cierre completo elimina la posición, no deja residuo.
	_, err = l.Sell(ctx, sig, 999, 0.60)
	require.NoError(t, err)
	assert.Empty(t, l.Positions())
}

func TestLedger_Sell_NoPosition(t *testing.T) {
	l, _ := newTestLedger(t, 1000, 0)

	_, err := l.Sell(context.Background(), signal("tok-1", "m", "Yes"), 10, 0.50)
	require.ErrorIs(t, err, ErrNoPosition)
	assert.InDelta(t, 1000, l.Balance(), 1e-9)
}

func TestLedger_PersistFailureNonFatal(t *testing.T) {
	store := &memStore{failSave: true}
	l, err := New(context.Background(), store, 1000, 0, testLogger())
	require.NoError(t, err)

	_, err = l.Buy(context.Background(), signal("tok-1", "m", "Yes"), 10, 0.50)
	require.NoError(t, err)
	assert.InDelta(t, 995, l.Balance(), 1e-9)
}

func TestLedger_Stats_ProfitFactor(t *testing.T) {
	l, _ := newTestLedger(t, 1000, 0)
	ctx := context.Background()
	sig := signal("tok-1", "m", "Yes")

	// Sin trades decididos: profit factor 0.
	assert.Zero(t, l.Stats().ProfitFactor)

	_, err := l.Buy(ctx, sig, 100, 0.40)
	require.NoError(t, err)
	_, err = l.Sell(ctx, sig, 100, 0.60)
	require.NoError(t, err)

	// Sólo wins: +Inf.
	stats := l.Stats()
	assert.Equal(t, 1, stats.WinningTrades)
	assert.True(t, stats.ProfitFactor > 1e308)
	assert.InDelta(t, 100.0, stats.WinRate, 1e-9)
}

func TestLedger_LoadExistingState(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()

	l1, err := New(ctx, store, 1000, 0, testLogger())
	require.NoError(t, err)
	_, err = l1.Buy(ctx, signal("tok-1", "m", "Yes"), 100, 0.40)
	require.NoError(t, err)

	// Segunda instancia sobre el mismo store continúa donde quedó.
	l2, err := New(ctx, store, 5000, 0, testLogger())
	require.NoError(t, err)
	assert.InDelta(t, 960, l2.Balance(), 1e-9)
	assert.Len(t, l2.Positions(), 1)
}

func TestLedger_ExportTradesCSV(t *testing.T) {
	l, _ := newTestLedger(t, 1000, 0)
	ctx := context.Background()
	sig := signal("tok-1", "m", "Yes")

	_, err := l.Buy(ctx, sig, 100, 0.40)
	require.NoError(t, err)
	_, err = l.Sell(ctx, sig, 100, 0.55)
	require.NoError(t, err)

	out, err := l.ExportTradesCSV()
	require.NoError(t, err)
	assert.Contains(t, out, "id,signal_id,token_id,market_slug")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "SELL")
}
