package ledger

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// ExportTradesCSV serializa el historial completo de trades como texto CSV
// para auditoría externa.
func (l *Ledger) ExportTradesCSV() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "signal_id", "token_id", "market_slug", "outcome",
		"side", "price", "shares", "usd_value", "fee",
		"realized_pnl", "settlement", "executed_at",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("ledger.ExportTradesCSV: %w", err)
	}

	for _, t := range l.state.Trades {
		row := []string{
			t.ID,
			t.SignalID,
			t.TokenID,
			t.MarketSlug,
			t.Outcome,
			t.Side,
			fmt.Sprintf("%.4f", t.Price),
			fmt.Sprintf("%.2f", t.Shares),
			fmt.Sprintf("%.2f", t.USDValue),
			fmt.Sprintf("%.4f", t.Fee),
			fmt.Sprintf("%.2f", t.RealizedPnL),
			t.Settlement,
			t.ExecutedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("ledger.ExportTradesCSV: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("ledger.ExportTradesCSV: %w", err)
	}
	return buf.String(), nil
}
