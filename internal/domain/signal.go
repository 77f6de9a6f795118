package domain

import "time"

// ActivityType is the kind of on-chain activity observed for a target wallet.
type ActivityType string

const (
	ActivityTrade  ActivityType = "TRADE"
	ActivityRedeem ActivityType = "REDEEM"
	ActivityMerge  ActivityType = "MERGE"
	ActivitySplit  ActivityType = "SPLIT"
)

// Branch is the handling path a signal is routed to.
type Branch int

const (
	// BranchTrade is the full sizing → risk → order flow (BUY/SELL).
	BranchTrade Branch = iota
	// BranchRedeem settles existing positions — the market has resolved.
	BranchRedeem
	// BranchMerge mirrors a target exit by liquidating matching positions.
	BranchMerge
	// BranchSplit carries no tradeable intent and is skipped.
	BranchSplit
)

// Branch maps an activity type to its handling branch. Any type not
// recognized falls back to the trade path — nothing goes unclassified.
func (a ActivityType) Branch() Branch {
	switch a {
	case ActivityRedeem:
		return BranchRedeem
	case ActivityMerge:
		return BranchMerge
	case ActivitySplit:
		return BranchSplit
	default:
		return BranchTrade
	}
}

// TradeSignal is one observed activity event for a target wallet.
// Immutable once received.
type TradeSignal struct {
	TradeID     string       // unique per event, used for deduplication
	Wallet      string       // target (copied) wallet address
	Activity    ActivityType
	TokenID     string       // outcome token, may be empty for MERGE/SPLIT
	ConditionID string
	MarketSlug  string
	Outcome     string  // "YES" | "NO"
	Side        string  // "BUY" | "SELL"
	Price       float64 // probability-as-price in (0, 1]
	Shares      float64 // target's own trade size in shares
	NotionalUSD float64 // target's notional, optional (proportional sizing)
	Timestamp   time.Time
}
