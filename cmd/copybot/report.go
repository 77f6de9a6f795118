package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/config"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/adapters/notify"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/ledger"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

const reportTradeCount = 25

// runReport refresca el mark-to-market y muestra posiciones, últimos trades
// y estadísticas.
func runReport(ctx context.Context, book *ledger.Ledger, directory ports.MarketDirectory, console *notify.Console, cfg *config.Config) {
	book.MarkToMarket(ctx, directory)

	console.PrintPositions(book.Positions(), book.Balance())
	console.PrintTrades(book.Trades(), reportTradeCount)
	console.PrintStats(book.Stats(), book.Balance(), cfg.Trading.StartingBalance)
}

// runExport escribe el historial completo de trades como CSV.
func runExport(book *ledger.Ledger, path string) {
	csv, err := book.ExportTradesCSV()
	if err != nil {
		slog.Error("export failed", "err", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		slog.Error("export write failed", "err", err, "path", path)
		os.Exit(1)
	}
	slog.Info("trades exported", "path", path, "trades", len(book.Trades()))
}
