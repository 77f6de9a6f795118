package ports

import (
	"context"
	"errors"
)

// ErrTokenNotFound indica que el resolver no pudo identificar el token.
// Para el pipeline es un skip, no un fallo.
var ErrTokenNotFound = errors.New("token not found")

// TokenQuery are the hints available to identify an outcome token.
// TokenID wins if set; otherwise the resolver combines condition id,
// market slug and outcome label.
type TokenQuery struct {
	TokenID     string
	ConditionID string
	MarketSlug  string
	Outcome     string
}

// TokenResolver resolves a fully-qualified token id from partial hints.
type TokenResolver interface {
	// Resolve returns the token id, or ErrTokenNotFound when the hints
	// don't identify any token.
	Resolve(ctx context.Context, q TokenQuery) (string, error)
}
