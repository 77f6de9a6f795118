package domain

import "time"

// Market representa un mercado de predicción binario en Polymarket.
type Market struct {
	ConditionID string
	Question    string
	Slug        string
	EndDate     time.Time
	Tokens      [2]Token
	Active      bool
	Closed      bool
}

// Token es uno de los dos lados del mercado (YES/NO).
type Token struct {
	TokenID string
	Outcome string  // "Yes" | "No"
	Price   float64 // último precio del CLOB
	Winner  bool    // declarado ganador tras la resolución
}

// Resolution is the resolution status of a market as reported by the
// market directory. OutcomePrices is indexed by outcome: YES→0, NO→1.
type Resolution struct {
	Resolved       bool
	WinningTokenID string
	WinningOutcome string
	OutcomePrices  []float64
}

// YesToken devuelve el token YES del mercado.
func (m Market) YesToken() Token {
	for _, t := range m.Tokens {
		if t.Outcome == "Yes" {
			return t
		}
	}
	return m.Tokens[0]
}

// NoToken devuelve el token NO del mercado.
func (m Market) NoToken() Token {
	for _, t := range m.Tokens {
		if t.Outcome == "No" {
			return t
		}
	}
	return m.Tokens[1]
}

// TokenByOutcome returns the token whose outcome label matches "YES"/"NO".
func (m Market) TokenByOutcome(outcome string) (Token, bool) {
	switch outcome {
	case "YES", "Yes", "yes":
		t := m.YesToken()
		return t, t.TokenID != ""
	case "NO", "No", "no":
		t := m.NoToken()
		return t, t.TokenID != ""
	}
	return Token{}, false
}
