package polymarket

import "encoding/json"

// DTOs raw de la API de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- CLOB API ---

// clobMarket es la respuesta de GET /markets/{condition_id} del CLOB.
type clobMarket struct {
	ConditionID string      `json:"condition_id"`
	QuestionID  string      `json:"question_id"`
	Question    string      `json:"question"`
	MarketSlug  string      `json:"market_slug"`
	EndDateISO  string      `json:"end_date_iso"`
	Tokens      []clobToken `json:"tokens"`
	Active      bool        `json:"active"`
	Closed      bool        `json:"closed"`
}

// clobToken representa un token (YES/NO) en el CLOB.
type clobToken struct {
	TokenID string  `json:"token_id"`
	Outcome string  `json:"outcome"`
	Price   float64 `json:"price"`
	Winner  bool    `json:"winner"`
}

// --- Gamma API ---

// gammaMarketsResponse es la respuesta de GET /markets de Gamma.
type gammaMarketsResponse []gammaMarket

// gammaMarket contiene la metadata de un mercado en Gamma.
// Varios campos "array" llegan como strings JSON anidados
// (ej: `"[\"Yes\", \"No\"]"`), se decodifican en mapping.go.
type gammaMarket struct {
	ConditionID   string      `json:"conditionId"`
	Question      string      `json:"question"`
	Slug          string      `json:"slug"`
	EndDateISO    string      `json:"endDateIso"`
	Outcomes      string      `json:"outcomes"`
	OutcomePrices string      `json:"outcomePrices"`
	CLOBTokenIDs  string      `json:"clobTokenIds"`
	Volume        json.Number `json:"volume"`
	Active        bool        `json:"active"`
	Closed        bool        `json:"closed"`
	UMAResolution string      `json:"umaResolutionStatus"`
}

// --- Data API ---

// rawActivity es un evento de GET /activity del Data-API.
type rawActivity struct {
	ProxyWallet     string  `json:"proxyWallet"`
	Timestamp       int64   `json:"timestamp"`
	ConditionID     string  `json:"conditionId"`
	Type            string  `json:"type"`
	Size            float64 `json:"size"`
	USDCSize        float64 `json:"usdcSize"`
	TransactionHash string  `json:"transactionHash"`
	Price           float64 `json:"price"`
	Asset           string  `json:"asset"`
	Side            string  `json:"side"`
	Outcome         string  `json:"outcome"`
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
}
