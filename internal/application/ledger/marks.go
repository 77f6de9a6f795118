package ledger

import (
	"context"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

// MarkToMarket actualiza el precio actual y el P&L no realizado de cada
// posición abierta contra el directorio de mercados. Un mercado cerrado se
// marca resolved y se deja para la próxima pasada de settlement en vez de
// especular un precio. Un fallo de lookup (incluido not-found, que suele
// significar expirado o resuelto) también marca resolved sin tocar los
// precios previos.
func (l *Ledger) MarkToMarket(ctx context.Context, dir ports.MarketDirectory) {
	l.mu.Lock()
	defer l.mu.Unlock()

	marked := 0
	for _, pos := range l.state.Positions {
		if pos.Settled || pos.Shares == 0 {
			continue
		}

		market, err := dir.GetMarketByTokenID(ctx, pos.TokenID)
		if err != nil {
			l.logger.Debug("mark lookup failed, flagging resolved",
				"slug", pos.MarketSlug, "error", err)
			pos.Resolved = true
			continue
		}
		if market.Closed {
			pos.Resolved = true
			continue
		}

		tok, ok := market.TokenByOutcome(pos.Outcome)
		if !ok {
			continue
		}
		pos.CurrentPrice = tok.Price
		pos.UnrealizedPnL = pos.Shares*tok.Price - pos.TotalCost
		marked++
	}

	if marked > 0 {
		l.persist(ctx)
	}
	l.logger.Debug("mark to market", "positions_marked", marked)
}
