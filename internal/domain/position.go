package domain

import "time"

// Position is the locally tracked holding in one outcome token.
// Keyed uniquely by TokenID; created on first BUY, mutated by subsequent
// BUY/SELL/REDEEM/MERGE events, and zeroed + flagged settled on resolution.
type Position struct {
	TokenID       string
	MarketSlug    string
	Outcome       string  // "YES" | "NO"
	Shares        float64 // signed, positive = long
	AvgEntryPrice float64 // volume-weighted
	TotalCost     float64 // AvgEntryPrice * Shares, signed
	CurrentPrice  float64 // last observed mark
	UnrealizedPnL float64 // Shares*CurrentPrice - TotalCost, derived
	Resolved      bool    // market outcome is known
	Settled       bool    // P&L realized into the ledger; terminal
	SettledPrice  float64
	SettledPnL    float64
	OpenedAt      time.Time
	UpdatedAt     time.Time
}

// Open reports whether the position still carries exposure.
func (p Position) Open() bool {
	return p.Shares != 0 && !p.Settled
}

// Trade is an immutable append-only record of one fill, including
// settlement fills. Never mutated after creation.
type Trade struct {
	ID          string // internal id
	SignalID    string // trade id of the source signal, empty for settlements
	TokenID     string
	MarketSlug  string
	Outcome     string
	Side        string // "BUY" | "SELL" | "SETTLE"
	Price       float64
	Shares      float64
	USDValue    float64
	Fee         float64
	RealizedPnL float64 // zero for entries
	Settlement  string  // "redeem" | "expiry" | "resolution", empty for fills
	ExecutedAt  time.Time
}

// Stats are the aggregate statistics across the whole ledger.
// LargestWin/LargestLoss are max/min over realized P&L, not absolute value.
type Stats struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // percent
	LargestWin    float64
	LargestLoss   float64
	GrossProfit   float64 // sum of winning realizations
	GrossLoss     float64 // sum of |losing realizations|
	ProfitFactor  float64 // GrossProfit/GrossLoss; +Inf with wins, no losses
	RealizedPnL   float64
	UnrealizedPnL float64
	TotalFees     float64
	TotalVolume   float64
	AvgTradeSize  float64
}

// LedgerState is the aggregate persistence unit: virtual cash, all tracked
// positions, the append-only trade log and derived statistics.
// Balance reflects every realized cash flow; unrealized P&L is recomputed
// on each mark-to-market pass and never authoritative.
type LedgerState struct {
	StartingBalance float64
	Balance         float64
	Positions       map[string]*Position // tokenID → position
	Trades          []Trade
	Stats           Stats
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewLedgerState creates a fresh ledger funded with startingBalance.
func NewLedgerState(startingBalance float64) *LedgerState {
	now := time.Now().UTC()
	return &LedgerState{
		StartingBalance: startingBalance,
		Balance:         startingBalance,
		Positions:       make(map[string]*Position),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
