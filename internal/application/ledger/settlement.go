package ledger

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

// slugTimestampRe captura el unix timestamp final que codifican los slugs
// de mercados con expiración (ej: "bitcoin-up-or-down-1735689600").
var slugTimestampRe = regexp.MustCompile(`(\d{10})$`)

// expiryGrace es el margen tras el timestamp del slug antes de considerar
// un mercado expirado.
const expiryGrace = 5 * time.Minute

// SettleSummary resume una pasada de settlement forzado.
type SettleSummary struct {
	SettledCount int
	TotalPnL     float64
}

// SettleRedeem procesa una señal REDEEM: el precio de redención revela qué
// lado ganó (>= 0.5 implica que el token redimido fue el ganador) y liquida
// todas las posiciones abiertas del mismo mercado, incluida la del outcome
// complementario. Sin posiciones que casen es un no-op, no un error.
func (l *Ledger) SettleRedeem(ctx context.Context, sig domain.TradeSignal) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	redeemedWon := sig.Price >= 0.5
	settled := 0

	for _, pos := range l.state.Positions {
		if pos.Settled || pos.Shares == 0 || pos.MarketSlug != sig.MarketSlug {
			continue
		}
		// Inferencia complementaria: si el token redimido perdió, el otro
		// outcome del mercado ganó.
		won := (pos.TokenID == sig.TokenID) == redeemedWon
		price := 0.0
		if won {
			price = 1.0
		}
		l.settlePosition(pos, price, "redeem")
		settled++
	}

	if settled > 0 {
		l.persist(ctx)
		l.logger.Info("redeem settlement",
			"slug", sig.MarketSlug,
			"redeemed_token", sig.TokenID,
			"redeemed_won", redeemedWon,
			"positions_settled", settled)
	}
	return settled
}

// MergeExit refleja un MERGE del target: salida del mercado completo. Cada
// posición abierta del slug se liquida como un SELL al último precio
// observado, cayendo al precio de entrada si nunca hubo mark.
func (l *Ledger) MergeExit(ctx context.Context, sig domain.TradeSignal) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	exited := 0
	for tokenID, pos := range l.state.Positions {
		if pos.Settled || pos.Shares <= 0 || pos.MarketSlug != sig.MarketSlug {
			continue
		}

		price := pos.CurrentPrice
		if price <= 0 {
			price = pos.AvgEntryPrice
		}

		proceeds := pos.Shares * price
		fee := proceeds * l.feeRate
		realized := (proceeds - fee) - pos.TotalCost

		l.state.Balance += proceeds - fee
		l.appendTrade(domain.Trade{
			SignalID:    sig.TradeID,
			TokenID:     tokenID,
			MarketSlug:  pos.MarketSlug,
			Outcome:     pos.Outcome,
			Side:        "SELL",
			Price:       price,
			Shares:      pos.Shares,
			USDValue:    proceeds,
			Fee:         fee,
			RealizedPnL: realized,
		})
		l.recordRealized(realized, fee, proceeds)
		delete(l.state.Positions, tokenID)
		exited++
	}

	if exited > 0 {
		l.persist(ctx)
		l.logger.Info("merge exit",
			"slug", sig.MarketSlug,
			"positions_closed", exited)
	}
	return exited
}

// SettleExpired fuerza el settlement de todas las posiciones cuyo slug
// codifica un timestamp ya vencido. assumeWin aplica 1.0 en vez del default
// conservador de 0.0. marketFilter no vacío restringe a un único slug.
func (l *Ledger) SettleExpired(ctx context.Context, assumeWin bool, marketFilter string) SettleSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	price := 0.0
	if assumeWin {
		price = 1.0
	}

	var sum SettleSummary
	for _, pos := range l.state.Positions {
		if pos.Settled || pos.Shares == 0 {
			continue
		}
		if marketFilter != "" && pos.MarketSlug != marketFilter {
			continue
		}
		if !slugExpired(pos.MarketSlug, time.Now()) {
			continue
		}
		pnl := l.settlePosition(pos, price, "expiry")
		sum.SettledCount++
		sum.TotalPnL += pnl
	}

	if sum.SettledCount > 0 {
		l.persist(ctx)
		l.logger.Info("expiry settlement",
			"assume_win", assumeWin,
			"positions_settled", sum.SettledCount,
			"total_pnl", sum.TotalPnL)
	}
	return sum
}

// ReconcileResolutions consulta el directorio de mercados para cada posición
// sin liquidar y realiza el P&L de las ya resueltas. Con force=true, las
// posiciones expiradas sin resolución verificable se asumen pérdida total.
func (l *Ledger) ReconcileResolutions(ctx context.Context, dir ports.MarketDirectory, force bool) SettleSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sum SettleSummary
	for _, pos := range l.state.Positions {
		if pos.Settled || pos.Shares == 0 {
			continue
		}

		res, err := dir.GetResolution(ctx, pos.MarketSlug)
		if err != nil {
			if !errors.Is(err, ports.ErrMarketNotFound) {
				l.logger.Warn("resolution lookup failed", "slug", pos.MarketSlug, "error", err)
				continue
			}
			// Not-found suele significar expirado o archivado: se trata
			// como no resuelto y decide el path de expiración de abajo.
			res, err = dir.GetResolutionByTokenID(ctx, pos.TokenID)
			if err != nil {
				res = domain.Resolution{}
			}
		}

		if !res.Resolved {
			if force && slugExpired(pos.MarketSlug, time.Now()) {
				// Sin resolución verificable: asumir pérdida total.
				pnl := l.settlePosition(pos, 0, "expiry")
				sum.SettledCount++
				sum.TotalPnL += pnl
			}
			continue
		}

		price, ok := resolutionPrice(pos, res)
		if !ok {
			l.logger.Warn("resolved market without usable price", "slug", pos.MarketSlug)
			continue
		}
		pnl := l.settlePosition(pos, price, "resolution")
		sum.SettledCount++
		sum.TotalPnL += pnl
	}

	if sum.SettledCount > 0 {
		l.persist(ctx)
		l.logger.Info("resolution reconciliation",
			"positions_settled", sum.SettledCount,
			"total_pnl", sum.TotalPnL)
	}
	return sum
}

// resolutionPrice determina el precio de settlement de una posición a partir
// de la resolución del directorio: primero por winning token id, si no por
// el array de outcome prices (YES en índice 0, NO en índice 1).
func resolutionPrice(pos *domain.Position, res domain.Resolution) (float64, bool) {
	if res.WinningTokenID != "" {
		if pos.TokenID == res.WinningTokenID {
			return 1.0, true
		}
		return 0.0, true
	}
	idx := 0
	if strings.EqualFold(pos.Outcome, "No") {
		idx = 1
	}
	if idx < len(res.OutcomePrices) {
		return res.OutcomePrices[idx], true
	}
	return 0, false
}

// settlePosition realiza el P&L de una posición a un precio de settlement.
// Libre de fees. Deja el residuo con shares=0 y settled=true; la flag es
// terminal y hace idempotente cualquier pasada posterior. Caller debe tener
// el lock y haber comprobado !pos.Settled.
func (l *Ledger) settlePosition(pos *domain.Position, price float64, settlement string) float64 {
	value := pos.Shares * price
	pnl := value - pos.TotalCost

	l.state.Balance += value
	l.appendTrade(domain.Trade{
		TokenID:     pos.TokenID,
		MarketSlug:  pos.MarketSlug,
		Outcome:     pos.Outcome,
		Side:        "SETTLE",
		Price:       price,
		Shares:      pos.Shares,
		USDValue:    value,
		RealizedPnL: pnl,
		Settlement:  settlement,
	})
	l.recordRealized(pnl, 0, value)

	pos.Resolved = true
	pos.Settled = true
	pos.SettledPrice = price
	pos.SettledPnL = pnl
	pos.Shares = 0
	pos.TotalCost = 0
	pos.UnrealizedPnL = 0
	pos.UpdatedAt = time.Now()

	return pnl
}

// slugExpired informa si el slug codifica un timestamp más de expiryGrace
// en el pasado.
func slugExpired(slug string, now time.Time) bool {
	m := slugTimestampRe.FindStringSubmatch(slug)
	if m == nil {
		return false
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return false
	}
	return now.Sub(time.Unix(ts, 0)) > expiryGrace
}
