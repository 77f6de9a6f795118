package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/config"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

func unlimitedRisk() config.RiskConfig {
	return config.RiskConfig{
		MaxUSDPerTrade:     config.Unlimited,
		MaxUSDPerMarketDay: config.Unlimited,
		MaxUSDPerDay:       config.Unlimited,
	}
}

func TestRiskGate_CheckTrade(t *testing.T) {
	sig := domain.TradeSignal{TradeID: "t1", MarketSlug: "btc-moon"}

	t.Run("under all caps is allowed", func(t *testing.T) {
		g := NewRiskGate(unlimitedRisk(), NewDailyVolume())
		d := g.CheckTrade(sig, 50)
		assert.True(t, d.Allowed)
		assert.Empty(t, d.Reason)
	})

	t.Run("denylist wins over everything", func(t *testing.T) {
		cfg := unlimitedRisk()
		cfg.Denylist = []string{"btc-moon"}
		cfg.Allowlist = []string{"btc-moon"}
		d := NewRiskGate(cfg, NewDailyVolume()).CheckTrade(sig, 1)
		assert.False(t, d.Allowed)
		assert.Contains(t, d.Reason, "denylisted")
	})

	t.Run("allowlist miss denies", func(t *testing.T) {
		cfg := unlimitedRisk()
		cfg.Allowlist = []string{"other-market"}
		d := NewRiskGate(cfg, NewDailyVolume()).CheckTrade(sig, 1)
		assert.False(t, d.Allowed)
		assert.Contains(t, d.Reason, "allowlist")
	})

	t.Run("per trade cap always denies oversize", func(t *testing.T) {
		cfg := unlimitedRisk()
		cfg.MaxUSDPerTrade = 25
		d := NewRiskGate(cfg, NewDailyVolume()).CheckTrade(sig, 25.01)
		assert.False(t, d.Allowed)
		assert.Contains(t, d.Reason, "per-trade cap")
	})

	t.Run("per market daily cap counts accumulated volume", func(t *testing.T) {
		cfg := unlimitedRisk()
		cfg.MaxUSDPerMarketDay = 100
		vol := NewDailyVolume()
		vol.Record("btc-moon", 80)
		g := NewRiskGate(cfg, vol)

		assert.True(t, g.CheckTrade(sig, 20).Allowed)
		assert.False(t, g.CheckTrade(sig, 20.01).Allowed)

		// Otro mercado no comparte el acumulador per-market.
		other := domain.TradeSignal{TradeID: "t2", MarketSlug: "eth-flip"}
		assert.True(t, g.CheckTrade(other, 99).Allowed)
	})

	t.Run("daily cap counts total volume", func(t *testing.T) {
		cfg := unlimitedRisk()
		cfg.MaxUSDPerDay = 100
		vol := NewDailyVolume()
		vol.Record("eth-flip", 90)
		d := NewRiskGate(cfg, vol).CheckTrade(sig, 15)
		assert.False(t, d.Allowed)
		assert.Contains(t, d.Reason, "daily volume")
	})

	t.Run("gate does not mutate volume", func(t *testing.T) {
		vol := NewDailyVolume()
		g := NewRiskGate(unlimitedRisk(), vol)
		g.CheckTrade(sig, 50)
		g.CheckTrade(sig, 50)
		assert.Zero(t, vol.TotalToday())
	})
}

func TestDailyVolume_Rollover(t *testing.T) {
	vol := NewDailyVolume()
	current := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
	vol.now = func() time.Time { return current }

	vol.Record("m1", 100)
	assert.InDelta(t, 100, vol.TotalToday(), 1e-9)
	assert.InDelta(t, 100, vol.MarketToday("m1"), 1e-9)

	// Cruzar medianoche UTC resetea todo.
	current = current.Add(20 * time.Minute)
	assert.Zero(t, vol.TotalToday())
	assert.Zero(t, vol.MarketToday("m1"))

	vol.Record("m1", 10)
	assert.InDelta(t, 10, vol.TotalToday(), 1e-9)
}
