// Package ledger owns the virtual position ledger: cash balance, open
// positions, trade history and aggregate statistics. All paper executions
// and settlement events flow through here. State is persisted write-through
// after every mutation; a persistence failure is logged but never fatal,
// the in-memory state stays authoritative for the process lifetime.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

var (
	// ErrInsufficientBalance se devuelve cuando el balance no cubre coste + fee.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNoPosition se devuelve en un SELL sin posición abierta para ese token.
	ErrNoPosition = errors.New("no open position")
)

// Ledger es el agregado mutable de posiciones, trades y estadísticas.
// Las llamadas se serializan con un mutex interno para que un host que
// paralelice señales no pueda violar el invariante de settlement único.
type Ledger struct {
	mu      sync.Mutex
	state   *domain.LedgerState
	store   ports.LedgerStore
	feeRate float64
	logger  *slog.Logger
}

// New carga el estado desde el store, o inicializa uno nuevo con el balance
// inicial configurado si todavía no existe.
func New(ctx context.Context, store ports.LedgerStore, startingBalance, feeRate float64, logger *slog.Logger) (*Ledger, error) {
	state, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrStateNotFound) {
			return nil, fmt.Errorf("ledger.New: load state: %w", err)
		}
		state = domain.NewLedgerState(startingBalance)
		logger.Info("initialized new ledger", "starting_balance", startingBalance)
	} else {
		logger.Info("loaded ledger state",
			"balance", state.Balance,
			"open_positions", len(state.Positions),
			"trades", len(state.Trades))
	}

	return &Ledger{
		state:   state,
		store:   store,
		feeRate: feeRate,
		logger:  logger,
	}, nil
}

// Buy ejecuta una compra contra el ledger: descuenta coste + fee del balance
// y abre (o promedia) la posición del token.
func (l *Ledger) Buy(ctx context.Context, sig domain.TradeSignal, shares, price float64) (*domain.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cost := shares * price
	fee := cost * l.feeRate
	if l.state.Balance < cost+fee {
		return nil, fmt.Errorf("ledger.Buy: need %.2f, have %.2f: %w", cost+fee, l.state.Balance, ErrInsufficientBalance)
	}

	l.state.Balance -= cost + fee

	pos, ok := l.state.Positions[sig.TokenID]
	if ok && pos.Shares > 0 {
		// Promedio ponderado por volumen. El fee no entra en el cost basis.
		newShares := pos.Shares + shares
		pos.AvgEntryPrice = (pos.TotalCost + cost) / newShares
		pos.Shares = newShares
		pos.TotalCost = pos.AvgEntryPrice * pos.Shares
		pos.UpdatedAt = time.Now()
	} else {
		now := time.Now()
		l.state.Positions[sig.TokenID] = &domain.Position{
			TokenID:       sig.TokenID,
			MarketSlug:    sig.MarketSlug,
			Outcome:       sig.Outcome,
			Shares:        shares,
			AvgEntryPrice: price,
			TotalCost:     cost,
			CurrentPrice:  price,
			OpenedAt:      now,
			UpdatedAt:     now,
		}
	}

	trade := l.appendTrade(domain.Trade{
		SignalID:   sig.TradeID,
		TokenID:    sig.TokenID,
		MarketSlug: sig.MarketSlug,
		Outcome:    sig.Outcome,
		Side:       "BUY",
		Price:      price,
		Shares:     shares,
		USDValue:   cost,
		Fee:        fee,
	})
	l.recordFee(fee, cost)
	l.persist(ctx)

	l.logger.Info("ledger buy",
		"token_id", sig.TokenID,
		"slug", sig.MarketSlug,
		"shares", shares,
		"price", price,
		"cost", cost,
		"balance", l.state.Balance)

	return trade, nil
}

// Sell cierra hasta min(shares, posición) de una posición larga abierta.
// Un cierre completo elimina la posición del mapa; sólo los settlements
// dejan residuos con settled=true. Sin posición abierta devuelve
// ErrNoPosition, que el caller trata como skip.
func (l *Ledger) Sell(ctx context.Context, sig domain.TradeSignal, shares, price float64) (*domain.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.state.Positions[sig.TokenID]
	if !ok || pos.Shares <= 0 || pos.Settled {
		return nil, fmt.Errorf("ledger.Sell: token %s: %w", sig.TokenID, ErrNoPosition)
	}

	closed := shares
	if closed > pos.Shares {
		closed = pos.Shares
	}

	proceeds := closed * price
	fee := proceeds * l.feeRate
	realized := (proceeds - fee) - pos.AvgEntryPrice*closed

	l.state.Balance += proceeds - fee

	pos.Shares -= closed
	if pos.Shares <= 1e-9 {
		delete(l.state.Positions, sig.TokenID)
	} else {
		pos.TotalCost = pos.AvgEntryPrice * pos.Shares
		pos.UpdatedAt = time.Now()
	}

	trade := l.appendTrade(domain.Trade{
		SignalID:    sig.TradeID,
		TokenID:     sig.TokenID,
		MarketSlug:  sig.MarketSlug,
		Outcome:     sig.Outcome,
		Side:        "SELL",
		Price:       price,
		Shares:      closed,
		USDValue:    proceeds,
		Fee:         fee,
		RealizedPnL: realized,
	})
	l.recordRealized(realized, fee, proceeds)
	l.persist(ctx)

	l.logger.Info("ledger sell",
		"token_id", sig.TokenID,
		"slug", sig.MarketSlug,
		"shares", closed,
		"price", price,
		"pnl", realized,
		"balance", l.state.Balance)

	return trade, nil
}

// Balance devuelve el balance de caja actual.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Balance
}

// Positions devuelve una copia de las posiciones actuales.
func (l *Ledger) Positions() []domain.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Position, 0, len(l.state.Positions))
	for _, pos := range l.state.Positions {
		out = append(out, *pos)
	}
	return out
}

// Stats devuelve una copia de las estadísticas agregadas.
func (l *Ledger) Stats() domain.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := l.state.Stats
	stats.UnrealizedPnL = 0
	for _, pos := range l.state.Positions {
		stats.UnrealizedPnL += pos.UnrealizedPnL
	}
	return stats
}

// Trades devuelve una copia del historial de trades.
func (l *Ledger) Trades() []domain.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Trade, len(l.state.Trades))
	copy(out, l.state.Trades)
	return out
}

// appendTrade completa los campos comunes y añade el trade al log.
// Caller debe tener el lock.
func (l *Ledger) appendTrade(t domain.Trade) *domain.Trade {
	t.ID = uuid.NewString()
	t.ExecutedAt = time.Now()
	l.state.Trades = append(l.state.Trades, t)
	return &l.state.Trades[len(l.state.Trades)-1]
}

// persist escribe el estado al store. Un fallo de escritura se loguea y se
// ignora: el estado en memoria sigue siendo correcto. Caller debe tener el lock.
func (l *Ledger) persist(ctx context.Context) {
	l.state.UpdatedAt = time.Now()
	if err := l.store.Save(ctx, l.state); err != nil {
		l.logger.Warn("ledger persist failed", "error", err)
	}
}
