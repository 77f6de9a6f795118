package executor

import (
	"math"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/config"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// sizeOrder calcula (shares, notional) para una señal según la política de
// sizing configurada. Devuelve (0, 0) cuando la orden queda por debajo del
// mínimo de shares: ese es el outcome terminal "skip, too small" y el caller
// lo trata como skip, nunca como orden de valor cero.
func sizeOrder(cfg config.TradingConfig, sig domain.TradeSignal) (shares, notional float64) {
	if sig.Price <= 0 {
		return 0, 0
	}

	switch cfg.SizingMode {
	case "fixed_shares":
		shares = cfg.FixedShares

	case "proportional":
		switch {
		case sig.Shares > 0:
			shares = sig.Shares * cfg.Multiplier
		case sig.NotionalUSD > 0:
			shares = (sig.NotionalUSD * cfg.Multiplier) / sig.Price
		default:
			// Sin tamaño observable en la señal: cae a fixed_usd.
			shares = cfg.FixedUSD / sig.Price
		}

	default: // fixed_usd
		shares = cfg.FixedUSD / sig.Price
	}

	// Tick de 2 decimales del exchange.
	shares = math.Round(shares*100) / 100
	notional = shares * sig.Price

	// Escalar hacia arriba hasta el notional mínimo de orden.
	if cfg.MinOrderUSD > 0 && notional < cfg.MinOrderUSD {
		shares = math.Ceil((cfg.MinOrderUSD/sig.Price)*100) / 100
		notional = shares * sig.Price
	}

	if cfg.MinShares > 0 && shares < cfg.MinShares {
		return 0, 0
	}
	return shares, notional
}

// limitPrice calcula el precio límite con slippage sobre el precio del
// target: "+" para BUY, "-" para SELL, acotado al rango válido del book
// y redondeado al tick de 2 decimales.
func limitPrice(price, slippage float64, side string) float64 {
	p := price * (1 + slippage)
	if side == "SELL" {
		p = price * (1 - slippage)
	}
	if p < 0.01 {
		p = 0.01
	}
	if p > 0.99 {
		p = 0.99
	}
	return math.Round(p*100) / 100
}
