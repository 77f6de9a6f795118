package polymarket

import (
	"context"
	"fmt"
	"net/url"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

const gammaMarketsPath = "/markets"

// Directory implementa ports.MarketDirectory sobre Gamma, con fallback al
// CLOB para lookups por token que Gamma no indexa.
type Directory struct {
	client *Client
}

// NewDirectory crea el directorio de mercados.
func NewDirectory(client *Client) *Directory {
	return &Directory{client: client}
}

// GetMarketBySlug busca un mercado por su slug en Gamma.
func (d *Directory) GetMarketBySlug(ctx context.Context, slug string) (domain.Market, error) {
	gm, err := d.gammaLookup(ctx, "slug", slug)
	if err != nil {
		return domain.Market{}, fmt.Errorf("polymarket.GetMarketBySlug: %w", err)
	}
	return mapGammaMarket(gm), nil
}

// GetMarketByTokenID busca el mercado que contiene un token id.
func (d *Directory) GetMarketByTokenID(ctx context.Context, tokenID string) (domain.Market, error) {
	gm, err := d.gammaLookup(ctx, "clob_token_ids", tokenID)
	if err != nil {
		return domain.Market{}, fmt.Errorf("polymarket.GetMarketByTokenID: %w", err)
	}
	return mapGammaMarket(gm), nil
}

// GetResolution devuelve el estado de resolución de un mercado por slug.
func (d *Directory) GetResolution(ctx context.Context, slug string) (domain.Resolution, error) {
	gm, err := d.gammaLookup(ctx, "slug", slug)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("polymarket.GetResolution: %w", err)
	}
	return mapGammaResolution(gm), nil
}

// GetResolutionByTokenID devuelve la resolución del mercado de un token.
func (d *Directory) GetResolutionByTokenID(ctx context.Context, tokenID string) (domain.Resolution, error) {
	gm, err := d.gammaLookup(ctx, "clob_token_ids", tokenID)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("polymarket.GetResolutionByTokenID: %w", err)
	}
	return mapGammaResolution(gm), nil
}

// gammaLookup hace un GET /markets con un único filtro y devuelve el primer
// resultado. Cero resultados es ports.ErrMarketNotFound, el caso normal de
// mercados expirados o archivados.
func (d *Directory) gammaLookup(ctx context.Context, param, value string) (gammaMarket, error) {
	u := fmt.Sprintf("%s%s?%s=%s&limit=1",
		d.client.gammaBase, gammaMarketsPath, param, url.QueryEscape(value))

	var resp gammaMarketsResponse
	if err := d.client.get(ctx, d.client.gammaLimiter, u, &resp); err != nil {
		return gammaMarket{}, err
	}
	if len(resp) == 0 {
		return gammaMarket{}, fmt.Errorf("%s=%s: %w", param, value, ports.ErrMarketNotFound)
	}
	return resp[0], nil
}
