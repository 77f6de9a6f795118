package notify

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

func TestConsole_PrintExecution(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.PrintExecution(domain.Skip("0xabcdef0123456789", "split activity, nothing to mirror"))
	assert.Contains(t, buf.String(), "skip 0xabcdef01")
	assert.Contains(t, buf.String(), "split activity")

	buf.Reset()
	c.PrintExecution(domain.ExecutionResult{
		TradeID: "0xhash",
		DryRun:  true,
		Order:   &domain.Order{Side: "BUY", Price: 0.51, Shares: 20, USDValue: 10},
		Result:  &domain.OrderResult{Success: true},
	})
	assert.Contains(t, buf.String(), "sim ")
	assert.Contains(t, buf.String(), "BUY")

	buf.Reset()
	c.PrintExecution(domain.ExecutionResult{
		TradeID: "0xhash",
		Result:  &domain.OrderResult{Success: false, Error: "order submission: timeout"},
	})
	assert.Contains(t, buf.String(), "FAIL")
	assert.Contains(t, buf.String(), "timeout")
}

func TestConsole_PrintPositions(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.PrintPositions(nil, 1000)
	assert.Contains(t, buf.String(), "No positions")

	buf.Reset()
	c.PrintPositions([]domain.Position{
		{
			MarketSlug:    "btc-up-or-down-1735689600",
			Outcome:       "Yes",
			Shares:        100,
			AvgEntryPrice: 0.40,
			CurrentPrice:  0.55,
			UnrealizedPnL: 15,
			OpenedAt:      time.Now(),
		},
		{
			MarketSlug:   "eth-flip",
			Outcome:      "No",
			Settled:      true,
			SettledPrice: 1.0,
			SettledPnL:   60,
		},
	}, 959.96)

	out := buf.String()
	assert.Contains(t, out, "btc-up-or-down-1735689600")
	assert.Contains(t, out, "OPEN")
	assert.Contains(t, out, "SETTLED")
	assert.Contains(t, out, "$959.96")
}

func TestConsole_PrintStats(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.PrintStats(domain.Stats{
		TotalTrades:   3,
		WinningTrades: 1,
		WinRate:       100,
		ProfitFactor:  math.Inf(1),
		RealizedPnL:   60,
	}, 1059.96, 1000)

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "win rate 100.0%")
	assert.Contains(t, out, "$1059.96")
}
