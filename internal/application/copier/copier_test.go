package copier

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/config"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/executor"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/ledger"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

type memStore struct{ state *domain.LedgerState }

func (m *memStore) Load(ctx context.Context) (*domain.LedgerState, error) {
	if m.state == nil {
		return nil, ports.ErrStateNotFound
	}
	return m.state, nil
}

func (m *memStore) Save(ctx context.Context, state *domain.LedgerState) error {
	m.state = state
	return nil
}

func (m *memStore) Close() error { return nil }

type fakeFeed struct {
	signals []domain.TradeSignal
	calls   int
}

func (f *fakeFeed) FetchActivity(ctx context.Context, wallet string, since time.Time) ([]domain.TradeSignal, error) {
	f.calls++
	return f.signals, nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, q ports.TokenQuery) (string, error) {
	return "", ports.ErrTokenNotFound
}

type recordingReporter struct {
	results []domain.ExecutionResult
}

func (r *recordingReporter) PrintExecution(res domain.ExecutionResult) {
	r.results = append(r.results, res)
}

func newTestCopier(t *testing.T, feed *fakeFeed, store *memStore) (*Copier, *ledger.Ledger, *recordingReporter) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		Trading: config.TradingConfig{
			Mode:       "paper",
			SizingMode: "fixed_usd",
			FixedUSD:   10,
			Slippage:   0,
		},
		Risk: config.RiskConfig{
			MaxUSDPerTrade:     config.Unlimited,
			MaxUSDPerMarketDay: config.Unlimited,
			MaxUSDPerDay:       config.Unlimited,
		},
	}

	book, err := ledger.New(context.Background(), store, 1000, 0, logger)
	require.NoError(t, err)

	exec := executor.New(cfg, book, fakeResolver{}, nil, logger)
	reporter := &recordingReporter{}
	c := New(Config{
		Wallets:         []string{"0xtarget"},
		PollInterval:    time.Second,
		MaxSignalAge:    5 * time.Minute,
		ReconcileEveryN: 100,
		Once:            true,
	}, feed, exec, book, nil, reporter, logger)

	return c, book, reporter
}

func freshSignal(id string) domain.TradeSignal {
	return domain.TradeSignal{
		TradeID:    id,
		Wallet:     "0xtarget",
		Activity:   domain.ActivityTrade,
		TokenID:    "tok-" + id,
		MarketSlug: "btc-moon",
		Outcome:    "Yes",
		Side:       "BUY",
		Price:      0.50,
		Timestamp:  time.Now(),
	}
}

func TestCopier_ProcessesFreshSignals(t *testing.T) {
	feed := &fakeFeed{signals: []domain.TradeSignal{freshSignal("a"), freshSignal("b")}}
	c, book, reporter := newTestCopier(t, feed, &memStore{})

	require.NoError(t, c.Run(context.Background()))

	assert.Len(t, reporter.results, 2)
	assert.Len(t, book.Positions(), 2)
}

func TestCopier_DeduplicatesAcrossCycles(t *testing.T) {
	feed := &fakeFeed{signals: []domain.TradeSignal{freshSignal("a")}}
	c, book, reporter := newTestCopier(t, feed, &memStore{})
	ctx := context.Background()

	c.runCycle(ctx)
	c.runCycle(ctx)

	assert.Equal(t, 2, feed.calls)
	assert.Len(t, reporter.results, 1)
	assert.Len(t, book.Positions(), 1)
}

func TestCopier_SkipsStaleSignals(t *testing.T) {
	stale := freshSignal("old")
	stale.Timestamp = time.Now().Add(-time.Hour)
	feed := &fakeFeed{signals: []domain.TradeSignal{stale}}
	c, book, reporter := newTestCopier(t, feed, &memStore{})

	require.NoError(t, c.Run(context.Background()))

	assert.Empty(t, reporter.results)
	assert.Empty(t, book.Positions())
}

func TestCopier_SeedsDedupFromTradeHistory(t *testing.T) {
	store := &memStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Primera sesión: ejecuta y persiste un trade.
	feed := &fakeFeed{signals: []domain.TradeSignal{freshSignal("a")}}
	c, _, _ := newTestCopier(t, feed, store)
	require.NoError(t, c.Run(context.Background()))

	// Segunda sesión sobre el mismo store: la misma señal no se re-copia.
	book, err := ledger.New(context.Background(), store, 1000, 0, logger)
	require.NoError(t, err)
	require.Len(t, book.Trades(), 1)

	cfg := &config.Config{
		Trading: config.TradingConfig{Mode: "paper", SizingMode: "fixed_usd", FixedUSD: 10},
		Risk: config.RiskConfig{
			MaxUSDPerTrade:     config.Unlimited,
			MaxUSDPerMarketDay: config.Unlimited,
			MaxUSDPerDay:       config.Unlimited,
		},
	}
	exec := executor.New(cfg, book, fakeResolver{}, nil, logger)
	reporter := &recordingReporter{}
	c2 := New(Config{
		Wallets:      []string{"0xtarget"},
		PollInterval: time.Second,
		MaxSignalAge: 5 * time.Minute,
		Once:         true,
	}, feed, exec, book, nil, reporter, logger)

	require.NoError(t, c2.Run(context.Background()))
	assert.Empty(t, reporter.results)
	assert.Len(t, book.Trades(), 1)
}
