package ports

import (
	"context"
	"time"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// ActivityProvider streams the observed activity of a target wallet.
type ActivityProvider interface {
	// FetchActivity returns the wallet's activity since the given time,
	// oldest first. Deduplication is the caller's responsibility.
	FetchActivity(ctx context.Context, wallet string, since time.Time) ([]domain.TradeSignal, error)
}
