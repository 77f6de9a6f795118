// Package notify imprime el estado del bot por consola: ejecuciones línea a
// línea durante el polling y tablas de posiciones, trades y estadísticas
// para los comandos de reporting.
package notify

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
)

// Console escribe el output del bot.
type Console struct {
	out io.Writer
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintExecution imprime el resultado de una señal en una línea.
func (c *Console) PrintExecution(res domain.ExecutionResult) {
	now := time.Now().Format("15:04:05")

	switch {
	case res.Skipped:
		fmt.Fprintf(c.out, "[%s] skip %s — %s\n", now, shortID(res.TradeID), res.SkipReason)
	case res.Result != nil && !res.Result.Success:
		fmt.Fprintf(c.out, "[%s] FAIL %s — %s\n", now, shortID(res.TradeID), res.Result.Error)
	case res.Order != nil:
		tag := "exec"
		if res.DryRun {
			tag = "sim "
		}
		fmt.Fprintf(c.out, "[%s] %s %s %s %.2f @ $%.2f ($%.2f)\n",
			now, tag, res.Order.Side, shortID(res.TradeID),
			res.Order.Shares, res.Order.Price, res.Order.USDValue)
	}
}

// PrintPositions imprime la tabla de posiciones, abiertas primero.
func (c *Console) PrintPositions(positions []domain.Position, balance float64) {
	if len(positions) == 0 {
		fmt.Fprintf(c.out, "\n  No positions. Balance: $%.2f\n", balance)
		return
	}

	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Settled != positions[j].Settled {
			return !positions[i].Settled
		}
		return positions[i].OpenedAt.Before(positions[j].OpenedAt)
	})

	fmt.Fprintf(c.out, "\nBalance: $%.2f\n", balance)

	table := tablewriter.NewWriter(c.out)
	table.Header("Market", "Outcome", "Shares", "Avg", "Mark", "uPnL", "Status")

	for _, pos := range positions {
		status := "OPEN"
		mark := fmt.Sprintf("$%.2f", pos.CurrentPrice)
		upnl := fmt.Sprintf("$%+.2f", pos.UnrealizedPnL)
		switch {
		case pos.Settled:
			status = fmt.Sprintf("SETTLED $%+.2f", pos.SettledPnL)
			mark = fmt.Sprintf("$%.2f", pos.SettledPrice)
			upnl = "-"
		case pos.Resolved:
			status = "RESOLVED"
		}

		table.Append(
			truncate(pos.MarketSlug, 40),
			pos.Outcome,
			fmt.Sprintf("%.2f", pos.Shares),
			fmt.Sprintf("$%.2f", pos.AvgEntryPrice),
			mark,
			upnl,
			status,
		)
	}
	table.Render()
}

// PrintStats imprime el resumen de estadísticas del ledger.
func (c *Console) PrintStats(stats domain.Stats, balance, startingBalance float64) {
	total := balance - startingBalance + stats.UnrealizedPnL
	pf := fmt.Sprintf("%.2f", stats.ProfitFactor)
	if math.IsInf(stats.ProfitFactor, 1) {
		pf = "INF"
	}

	fmt.Fprintf(c.out, "\n  Balance       $%.2f (start $%.2f)\n", balance, startingBalance)
	fmt.Fprintf(c.out, "  Total P&L     $%+.2f (realized $%+.2f, unrealized $%+.2f)\n",
		total, stats.RealizedPnL, stats.UnrealizedPnL)
	fmt.Fprintf(c.out, "  Trades        %d (%d W / %d L, win rate %.1f%%)\n",
		stats.TotalTrades, stats.WinningTrades, stats.LosingTrades, stats.WinRate)
	fmt.Fprintf(c.out, "  Profit factor %s | largest win $%+.2f | largest loss $%+.2f\n",
		pf, stats.LargestWin, stats.LargestLoss)
	fmt.Fprintf(c.out, "  Volume        $%.2f | avg trade $%.2f | fees $%.4f\n",
		stats.TotalVolume, stats.AvgTradeSize, stats.TotalFees)
}

// PrintTrades imprime los últimos n trades del historial.
func (c *Console) PrintTrades(trades []domain.Trade, n int) {
	if len(trades) == 0 {
		fmt.Fprintln(c.out, "\n  No trades yet.")
		return
	}
	if n > 0 && len(trades) > n {
		trades = trades[len(trades)-n:]
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Time", "Side", "Market", "Shares", "Price", "Value", "PnL")

	for _, t := range trades {
		pnl := "-"
		if t.Side != "BUY" {
			pnl = fmt.Sprintf("$%+.2f", t.RealizedPnL)
		}
		side := t.Side
		if t.Settlement != "" {
			side = fmt.Sprintf("%s/%s", t.Side, t.Settlement)
		}
		table.Append(
			t.ExecutedAt.Format("01-02 15:04"),
			side,
			truncate(t.MarketSlug, 40),
			fmt.Sprintf("%.2f", t.Shares),
			fmt.Sprintf("$%.2f", t.Price),
			fmt.Sprintf("$%.2f", t.USDValue),
			pnl,
		)
	}
	table.Render()
}

// shortID acorta los transaction hashes para el output de una línea.
func shortID(id string) string {
	if len(id) <= 10 {
		return id
	}
	return id[:10]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
