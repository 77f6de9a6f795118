package ports

import (
	"context"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// OrderSubmitter places real limit orders through the exchange-side
// execution service. Errors are transport failures; a rejected order
// comes back as Success=false with the exchange's reason.
type OrderSubmitter interface {
	PlaceLimitOrder(ctx context.Context, order domain.Order) (domain.OrderResult, error)
}
