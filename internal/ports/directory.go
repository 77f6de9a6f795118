package ports

import (
	"context"
	"errors"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// ErrMarketNotFound indica que el directorio no conoce el mercado.
// Típicamente significa que el mercado expiró o fue archivado.
var ErrMarketNotFound = errors.New("market not found")

// MarketDirectory is the external market metadata service.
type MarketDirectory interface {
	GetMarketBySlug(ctx context.Context, slug string) (domain.Market, error)
	GetMarketByTokenID(ctx context.Context, tokenID string) (domain.Market, error)

	// GetResolution returns the resolution status for a market.
	GetResolution(ctx context.Context, slug string) (domain.Resolution, error)
	GetResolutionByTokenID(ctx context.Context, tokenID string) (domain.Resolution, error)
}
