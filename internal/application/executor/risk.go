package executor

import (
	"fmt"
	"strings"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/config"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// Decision es el resultado del risk gate.
type Decision struct {
	Allowed bool
	Reason  string
}

// RiskGate decide si un trade puede colocarse según los límites
// configurados. Consulta el acumulador de volumen pero nunca lo muta:
// el volumen se registra sólo después de colocar la orden.
type RiskGate struct {
	cfg     config.RiskConfig
	volumes *DailyVolume
}

// NewRiskGate construye el gate sobre la configuración de riesgo.
func NewRiskGate(cfg config.RiskConfig, volumes *DailyVolume) *RiskGate {
	return &RiskGate{cfg: cfg, volumes: volumes}
}

// CheckTrade evalúa una señal con su notional contra listas y caps.
func (g *RiskGate) CheckTrade(sig domain.TradeSignal, usdValue float64) Decision {
	for _, slug := range g.cfg.Denylist {
		if strings.EqualFold(slug, sig.MarketSlug) {
			return deny("market %s is denylisted", sig.MarketSlug)
		}
	}

	if len(g.cfg.Allowlist) > 0 {
		allowed := false
		for _, slug := range g.cfg.Allowlist {
			if strings.EqualFold(slug, sig.MarketSlug) {
				allowed = true
				break
			}
		}
		if !allowed {
			return deny("market %s not in allowlist", sig.MarketSlug)
		}
	}

	if usdValue > g.cfg.MaxUSDPerTrade {
		return deny("trade $%.2f exceeds per-trade cap $%.2f", usdValue, g.cfg.MaxUSDPerTrade)
	}

	if marketVol := g.volumes.MarketToday(sig.MarketSlug); marketVol+usdValue > g.cfg.MaxUSDPerMarketDay {
		return deny("market daily volume $%.2f + $%.2f exceeds cap $%.2f",
			marketVol, usdValue, g.cfg.MaxUSDPerMarketDay)
	}

	if total := g.volumes.TotalToday(); total+usdValue > g.cfg.MaxUSDPerDay {
		return deny("daily volume $%.2f + $%.2f exceeds cap $%.2f",
			total, usdValue, g.cfg.MaxUSDPerDay)
	}

	return Decision{Allowed: true}
}

func deny(format string, args ...any) Decision {
	return Decision{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}
