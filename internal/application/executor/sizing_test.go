package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/config"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

func TestSizeOrder(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.TradingConfig
		sig          domain.TradeSignal
		wantShares   float64
		wantNotional float64
	}{
		{
			name:         "fixed usd",
			cfg:          config.TradingConfig{SizingMode: "fixed_usd", FixedUSD: 10},
			sig:          domain.TradeSignal{Price: 0.40},
			wantShares:   25,
			wantNotional: 10,
		},
		{
			name:         "fixed shares",
			cfg:          config.TradingConfig{SizingMode: "fixed_shares", FixedShares: 50},
			sig:          domain.TradeSignal{Price: 0.30},
			wantShares:   50,
			wantNotional: 15,
		},
		{
			name:         "proportional mirrors target shares",
			cfg:          config.TradingConfig{SizingMode: "proportional", Multiplier: 0.5},
			sig:          domain.TradeSignal{Price: 0.30, Shares: 200},
			wantShares:   100,
			wantNotional: 30,
		},
		{
			name:         "proportional derives from notional",
			cfg:          config.TradingConfig{SizingMode: "proportional", Multiplier: 0.1},
			sig:          domain.TradeSignal{Price: 0.50, NotionalUSD: 100},
			wantShares:   20,
			wantNotional: 10,
		},
		{
			name:         "proportional falls back to fixed usd",
			cfg:          config.TradingConfig{SizingMode: "proportional", Multiplier: 0.5, FixedUSD: 5},
			sig:          domain.TradeSignal{Price: 0.50},
			wantShares:   10,
			wantNotional: 5,
		},
		{
			name:         "scaled up to minimum order notional",
			cfg:          config.TradingConfig{SizingMode: "fixed_usd", FixedUSD: 0.50, MinOrderUSD: 1.0},
			sig:          domain.TradeSignal{Price: 0.50},
			wantShares:   2,
			wantNotional: 1,
		},
		{
			name:         "below minimum shares zeroes out",
			cfg:          config.TradingConfig{SizingMode: "fixed_shares", FixedShares: 3, MinShares: 5},
			sig:          domain.TradeSignal{Price: 0.50},
			wantShares:   0,
			wantNotional: 0,
		},
		{
			name:         "zero price zeroes out",
			cfg:          config.TradingConfig{SizingMode: "fixed_usd", FixedUSD: 10},
			sig:          domain.TradeSignal{Price: 0},
			wantShares:   0,
			wantNotional: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, notional := sizeOrder(tt.cfg, tt.sig)
			assert.InDelta(t, tt.wantShares, shares, 1e-9)
			assert.InDelta(t, tt.wantNotional, notional, 1e-9)
		})
	}
}

func TestLimitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		slippage float64
		side     string
		want     float64
	}{
		{"buy adds slippage", 0.50, 0.02, "BUY", 0.51},
		{"sell subtracts slippage", 0.50, 0.02, "SELL", 0.49},
		{"clamped at ceiling", 0.98, 0.05, "BUY", 0.99},
		{"clamped at floor", 0.01, 0.05, "SELL", 0.01},
		{"rounded to tick", 0.333, 0.02, "BUY", 0.34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, limitPrice(tt.price, tt.slippage, tt.side), 1e-9)
		})
	}
}
