package ports

import (
	"context"
	"errors"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// ErrStateNotFound indica que no hay estado persistido todavía.
var ErrStateNotFound = errors.New("ledger state not found")

// LedgerStore persists the ledger as an opaque document. The ledger
// writes through after every mutation; a Save failure must be treated
// as non-fatal by the caller (in-memory state stays authoritative).
type LedgerStore interface {
	Load(ctx context.Context) (*domain.LedgerState, error)
	Save(ctx context.Context, state *domain.LedgerState) error

	// Close cierra la conexión al almacenamiento limpiamente.
	Close() error
}
