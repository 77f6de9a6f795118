// Package executor es el order router: clasifica cada señal de actividad,
// la dimensiona, la pasa por el risk gate, resuelve el token y la despacha
// a uno de los tres modos de ejecución (simulate, paper, live).
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/config"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/ledger"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

// Executor orquesta el pipeline completo de una señal. Las señales se
// procesan de una en una en orden de llegada; el caller serializa.
type Executor struct {
	cfg       *config.Config
	book      *ledger.Ledger
	resolver  ports.TokenResolver
	submitter ports.OrderSubmitter
	gate      *RiskGate
	volumes   *DailyVolume
	logger    *slog.Logger
}

// New construye el executor con sus colaboradores. submitter puede ser nil
// salvo en modo live.
func New(cfg *config.Config, book *ledger.Ledger, resolver ports.TokenResolver, submitter ports.OrderSubmitter, logger *slog.Logger) *Executor {
	volumes := NewDailyVolume()
	return &Executor{
		cfg:       cfg,
		book:      book,
		resolver:  resolver,
		submitter: submitter,
		gate:      NewRiskGate(cfg.Risk, volumes),
		volumes:   volumes,
		logger:    logger,
	}
}

// Execute procesa una señal de principio a fin y devuelve un resultado
// uniforme: skip con razón, simulación dry-run, o ejecución real/paper.
// Los fallos de transporte vuelven como resultado fallido, nunca como
// panic ni como estado corrupto del ledger.
func (e *Executor) Execute(ctx context.Context, sig domain.TradeSignal) domain.ExecutionResult {
	switch sig.Activity.Branch() {
	case domain.BranchSplit:
		// SPLIT sólo aprovisiona inventario, no hay intención de trade.
		return domain.Skip(sig.TradeID, "split activity, nothing to mirror")

	case domain.BranchRedeem:
		n := e.book.SettleRedeem(ctx, sig)
		return domain.Skip(sig.TradeID, fmt.Sprintf("redeem: settled %d positions", n))

	case domain.BranchMerge:
		n := e.book.MergeExit(ctx, sig)
		return domain.Skip(sig.TradeID, fmt.Sprintf("merge: closed %d positions", n))

	default:
		return e.executeTrade(ctx, sig)
	}
}

func (e *Executor) executeTrade(ctx context.Context, sig domain.TradeSignal) domain.ExecutionResult {
	shares, notional := sizeOrder(e.cfg.Trading, sig)
	if shares == 0 {
		return domain.Skip(sig.TradeID, "order below minimum size")
	}

	if d := e.gate.CheckTrade(sig, notional); !d.Allowed {
		e.logger.Info("trade denied by risk gate", "trade_id", sig.TradeID, "reason", d.Reason)
		return domain.Skip(sig.TradeID, "risk: "+d.Reason)
	}

	tokenID := sig.TokenID
	if tokenID == "" {
		resolved, err := e.resolver.Resolve(ctx, ports.TokenQuery{
			ConditionID: sig.ConditionID,
			MarketSlug:  sig.MarketSlug,
			Outcome:     sig.Outcome,
		})
		if err != nil {
			if errors.Is(err, ports.ErrTokenNotFound) {
				return domain.Skip(sig.TradeID, "token not resolved")
			}
			return failed(sig.TradeID, nil, fmt.Sprintf("token resolution: %v", err))
		}
		tokenID = resolved
	}

	order := domain.Order{
		TokenID:  tokenID,
		Side:     sig.Side,
		Price:    limitPrice(sig.Price, e.cfg.Trading.Slippage, sig.Side),
		Shares:   shares,
		USDValue: notional,
	}

	var res domain.ExecutionResult
	switch e.cfg.Trading.Mode {
	case "simulate":
		res = e.simulate(sig, order)
	case "live":
		res = e.submitLive(ctx, sig, order)
	default:
		res = e.executePaper(ctx, sig, order)
	}

	if res.Result != nil && res.Result.Success && !res.DryRun {
		e.volumes.Record(sig.MarketSlug, order.USDValue)
	}

	e.logger.Info("signal executed",
		"trade_id", sig.TradeID,
		"side", order.Side,
		"price", order.Price,
		"shares", order.Shares,
		"skipped", res.Skipped,
		"dry_run", res.DryRun)
	return res
}

// simulate es el modo dry-run: siempre éxito, order id sintético, cero
// mutación de estado.
func (e *Executor) simulate(sig domain.TradeSignal, order domain.Order) domain.ExecutionResult {
	return domain.ExecutionResult{
		TradeID: sig.TradeID,
		DryRun:  true,
		Order:   &order,
		Result: &domain.OrderResult{
			Success:       true,
			OrderID:       "sim-" + uuid.NewString(),
			ExecutedPrice: order.Price,
			ExecutedSize:  order.Shares,
		},
	}
}

// executePaper delega en el ledger virtual.
func (e *Executor) executePaper(ctx context.Context, sig domain.TradeSignal, order domain.Order) domain.ExecutionResult {
	var trade *domain.Trade
	var err error
	if order.Side == "SELL" {
		trade, err = e.book.Sell(ctx, sig, order.Shares, order.Price)
	} else {
		trade, err = e.book.Buy(ctx, sig, order.Shares, order.Price)
	}
	if err != nil {
		// SELL sin posición larga: el mercado no soporta shorts de esta
		// forma, así que se omite en vez de abrir una posición negativa.
		if errors.Is(err, ledger.ErrNoPosition) {
			return domain.Skip(sig.TradeID, "sell without open position")
		}
		return failed(sig.TradeID, &order, err.Error())
	}

	return domain.ExecutionResult{
		TradeID: sig.TradeID,
		Order:   &order,
		Result: &domain.OrderResult{
			Success:       true,
			OrderID:       trade.ID,
			ExecutedPrice: order.Price,
			ExecutedSize:  order.Shares,
		},
	}
}

// submitLive envía la orden al servicio de ejecución real.
func (e *Executor) submitLive(ctx context.Context, sig domain.TradeSignal, order domain.Order) domain.ExecutionResult {
	if e.submitter == nil {
		return failed(sig.TradeID, &order, "no order submitter configured")
	}

	result, err := e.submitter.PlaceLimitOrder(ctx, order)
	if err != nil {
		return failed(sig.TradeID, &order, fmt.Sprintf("order submission: %v", err))
	}
	return domain.ExecutionResult{
		TradeID: sig.TradeID,
		Order:   &order,
		Result:  &result,
	}
}

func failed(tradeID string, order *domain.Order, msg string) domain.ExecutionResult {
	return domain.ExecutionResult{
		TradeID: tradeID,
		Order:   order,
		Result:  &domain.OrderResult{Success: false, Error: msg},
	}
}
