package polymarket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

const clobMarketsPath = "/markets"

// Resolver implementa ports.TokenResolver encadenando lookups: primero el
// CLOB por condition id, después Gamma por slug, eligiendo el token cuyo
// outcome casa con la señal.
type Resolver struct {
	client    *Client
	directory *Directory
}

// NewResolver crea el resolver de tokens.
func NewResolver(client *Client, directory *Directory) *Resolver {
	return &Resolver{client: client, directory: directory}
}

// Resolve devuelve el token id para los hints dados, o ErrTokenNotFound.
func (r *Resolver) Resolve(ctx context.Context, q ports.TokenQuery) (string, error) {
	if q.TokenID != "" {
		return q.TokenID, nil
	}

	if q.ConditionID != "" {
		m, err := r.marketByCondition(ctx, q.ConditionID)
		if err == nil {
			if id := tokenForOutcome(m, q.Outcome); id != "" {
				return id, nil
			}
		}
	}

	if q.MarketSlug != "" {
		m, err := r.directory.GetMarketBySlug(ctx, q.MarketSlug)
		if err != nil {
			if errors.Is(err, ports.ErrMarketNotFound) {
				return "", fmt.Errorf("slug %s: %w", q.MarketSlug, ports.ErrTokenNotFound)
			}
			return "", fmt.Errorf("polymarket.Resolve: %w", err)
		}
		if id := tokenForOutcome(m, q.Outcome); id != "" {
			return id, nil
		}
	}

	return "", fmt.Errorf("outcome %q: %w", q.Outcome, ports.ErrTokenNotFound)
}

// marketByCondition consulta GET /markets/{condition_id} en el CLOB.
func (r *Resolver) marketByCondition(ctx context.Context, conditionID string) (domain.Market, error) {
	u := fmt.Sprintf("%s%s/%s", r.client.clobBase, clobMarketsPath, conditionID)

	var raw clobMarket
	if err := r.client.get(ctx, r.client.clobLimiter, u, &raw); err != nil {
		return domain.Market{}, err
	}
	if raw.ConditionID == "" {
		return domain.Market{}, ports.ErrMarketNotFound
	}
	return mapClobMarket(raw), nil
}

// tokenForOutcome elige el token del mercado cuyo outcome casa con el label
// de la señal. Sin outcome, el token YES por convención.
func tokenForOutcome(m domain.Market, outcome string) string {
	if outcome == "" {
		return m.YesToken().TokenID
	}
	for _, t := range m.Tokens {
		if strings.EqualFold(t.Outcome, outcome) {
			return t.TokenID
		}
	}
	return ""
}
