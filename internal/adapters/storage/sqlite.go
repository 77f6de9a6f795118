// Package storage persiste el estado del ledger en SQLite.
//
// Estrategia: el LedgerState completo se guarda como un único documento
// JSON en una tabla key-document. El ledger escribe write-through tras cada
// mutación; el documento rara vez supera unas decenas de KB, así que el
// upsert completo es más simple y robusto que normalizar posiciones y
// trades en tablas propias.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_state (
    key        TEXT PRIMARY KEY,
    doc        TEXT     NOT NULL,
    updated_at DATETIME NOT NULL
);
`

const stateKey = "ledger"

// SQLiteStore implementa ports.LedgerStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica
// el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load lee el documento del ledger, o ports.ErrStateNotFound si todavía
// no se guardó ninguno.
func (s *SQLiteStore) Load(ctx context.Context) (*domain.LedgerState, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM ledger_state WHERE key = ?`, stateKey).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage.Load: %w", err)
	}

	var state domain.LedgerState
	if err := json.Unmarshal([]byte(doc), &state); err != nil {
		return nil, fmt.Errorf("storage.Load: decode state: %w", err)
	}
	if state.Positions == nil {
		state.Positions = make(map[string]*domain.Position)
	}
	return &state, nil
}

// Save hace upsert del documento completo del ledger.
func (s *SQLiteStore) Save(ctx context.Context, state *domain.LedgerState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("storage.Save: encode state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledger_state (key, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		stateKey, string(doc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	return nil
}

// Close cierra la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
