package polymarket

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// mapClobMarket convierte un clobMarket DTO a domain.Market.
func mapClobMarket(r clobMarket) domain.Market {
	m := domain.Market{
		ConditionID: r.ConditionID,
		Question:    r.Question,
		Slug:        r.MarketSlug,
		EndDate:     parseEndDate(r.EndDateISO),
		Active:      r.Active,
		Closed:      r.Closed,
	}
	for i, t := range r.Tokens {
		if i >= 2 {
			break
		}
		m.Tokens[i] = domain.Token{
			TokenID: t.TokenID,
			Outcome: t.Outcome,
			Price:   t.Price,
			Winner:  t.Winner,
		}
	}
	return m
}

// mapGammaMarket convierte un gammaMarket DTO a domain.Market.
// Gamma codifica outcomes, precios y token ids como arrays JSON anidados
// en strings; un campo malformado deja los tokens correspondientes vacíos.
func mapGammaMarket(gm gammaMarket) domain.Market {
	m := domain.Market{
		ConditionID: gm.ConditionID,
		Question:    gm.Question,
		Slug:        gm.Slug,
		EndDate:     parseEndDate(gm.EndDateISO),
		Active:      gm.Active,
		Closed:      gm.Closed,
	}

	outcomes := parseStringArray(gm.Outcomes)
	prices := parseFloatArray(gm.OutcomePrices)
	tokenIDs := parseStringArray(gm.CLOBTokenIDs)

	for i := 0; i < 2; i++ {
		var t domain.Token
		if i < len(outcomes) {
			t.Outcome = outcomes[i]
		}
		if i < len(prices) {
			t.Price = prices[i]
		}
		if i < len(tokenIDs) {
			t.TokenID = tokenIDs[i]
		}
		m.Tokens[i] = t
	}
	return m
}

// mapGammaResolution deriva el estado de resolución de un mercado de Gamma.
// Gamma no expone winner por token, así que el ganador se infiere del array
// de outcome prices: un precio de 1 marca el outcome ganador.
func mapGammaResolution(gm gammaMarket) domain.Resolution {
	res := domain.Resolution{
		Resolved:      gm.Closed,
		OutcomePrices: parseFloatArray(gm.OutcomePrices),
	}

	outcomes := parseStringArray(gm.Outcomes)
	tokenIDs := parseStringArray(gm.CLOBTokenIDs)
	for i, p := range res.OutcomePrices {
		if p == 1 {
			if i < len(outcomes) {
				res.WinningOutcome = outcomes[i]
			}
			if i < len(tokenIDs) {
				res.WinningTokenID = tokenIDs[i]
			}
			break
		}
	}
	return res
}

// mapResolutionFromClob deriva la resolución desde el flag winner del CLOB.
func mapResolutionFromClob(m domain.Market) domain.Resolution {
	res := domain.Resolution{Resolved: m.Closed}
	for _, t := range m.Tokens {
		if t.Winner {
			res.Resolved = true
			res.WinningTokenID = t.TokenID
			res.WinningOutcome = t.Outcome
		}
		res.OutcomePrices = append(res.OutcomePrices, t.Price)
	}
	return res
}

// mapActivity convierte un evento raw del Data-API a domain.TradeSignal.
func mapActivity(r rawActivity) domain.TradeSignal {
	return domain.TradeSignal{
		TradeID:     r.TransactionHash,
		Wallet:      r.ProxyWallet,
		Activity:    domain.ActivityType(r.Type),
		TokenID:     r.Asset,
		ConditionID: r.ConditionID,
		MarketSlug:  r.Slug,
		Outcome:     r.Outcome,
		Side:        r.Side,
		Price:       r.Price,
		Shares:      r.Size,
		NotionalUSD: r.USDCSize,
		Timestamp:   time.Unix(r.Timestamp, 0).UTC(),
	}
}

// parseStringArray decodifica un array JSON anidado en string.
func parseStringArray(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// parseFloatArray decodifica un array de números que Gamma manda como
// strings dentro de un string JSON (`"[\"0.98\", \"0.02\"]"`).
func parseFloatArray(s string) []float64 {
	raw := parseStringArray(s)
	if raw == nil {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		out = append(out, f)
	}
	return out
}

// parseEndDate intenta los formatos de fecha que usa Polymarket.
func parseEndDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
