// Package copier es el loop principal del bot: hace polling de la actividad
// de los wallets objetivo, deduplica señales y las entrega al executor en
// orden de llegada, una a una. Periódicamente reconcilia resoluciones y
// actualiza el mark-to-market de las posiciones abiertas.
package copier

import (
	"context"
	"log/slog"
	"time"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/executor"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/ledger"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/domain"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

// Config contiene la configuración del loop de copiado.
type Config struct {
	Wallets         []string
	PollInterval    time.Duration
	MaxSignalAge    time.Duration
	ReconcileEveryN int
	Once            bool
}

// Reporter recibe el resultado de cada señal procesada.
type Reporter interface {
	PrintExecution(res domain.ExecutionResult)
}

// Copier es el orquestador del loop de polling.
type Copier struct {
	cfg       Config
	feed      ports.ActivityProvider
	exec      *executor.Executor
	book      *ledger.Ledger
	directory ports.MarketDirectory
	reporter  Reporter
	logger    *slog.Logger

	seen     map[string]struct{}
	lastPoll map[string]time.Time
	cycles   int
}

// New crea un Copier con todas las dependencias inyectadas. El set de
// deduplicación se siembra desde el historial de trades persistido para
// no re-copiar señales tras un reinicio.
func New(cfg Config, feed ports.ActivityProvider, exec *executor.Executor, book *ledger.Ledger, directory ports.MarketDirectory, reporter Reporter, logger *slog.Logger) *Copier {
	if cfg.ReconcileEveryN <= 0 {
		cfg.ReconcileEveryN = 20
	}

	seen := make(map[string]struct{})
	for _, t := range book.Trades() {
		if t.SignalID != "" {
			seen[t.SignalID] = struct{}{}
		}
	}

	return &Copier{
		cfg:       cfg,
		feed:      feed,
		exec:      exec,
		book:      book,
		directory: directory,
		reporter:  reporter,
		logger:    logger,
		seen:      seen,
		lastPoll:  make(map[string]time.Time),
	}
}

// Run ejecuta el loop hasta que el contexto se cancele.
// Con cfg.Once sólo procesa un ciclo.
func (c *Copier) Run(ctx context.Context) error {
	c.logger.Info("copier starting",
		"wallets", len(c.cfg.Wallets),
		"interval", c.cfg.PollInterval,
		"once", c.cfg.Once)

	c.runCycle(ctx)
	if c.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("copier stopped")
			return nil
		case <-ticker.C:
			c.runCycle(ctx)
		}
	}
}

// runCycle hace un polling completo de todos los wallets y, cada N ciclos,
// una pasada de settlement y mark-to-market.
func (c *Copier) runCycle(ctx context.Context) {
	start := time.Now()
	processed := 0

	for _, wallet := range c.cfg.Wallets {
		n, err := c.pollWallet(ctx, wallet)
		if err != nil {
			c.logger.Warn("wallet poll failed", "wallet", wallet, "error", err)
			continue
		}
		processed += n
	}

	c.cycles++
	if c.directory != nil && c.cycles%c.cfg.ReconcileEveryN == 0 {
		c.book.ReconcileResolutions(ctx, c.directory, false)
		c.book.MarkToMarket(ctx, c.directory)
	}

	c.logger.Debug("poll cycle complete",
		"signals", processed,
		"duration", time.Since(start).Round(time.Millisecond))
}

// pollWallet trae la actividad nueva de un wallet y la ejecuta en orden.
func (c *Copier) pollWallet(ctx context.Context, wallet string) (int, error) {
	since, ok := c.lastPoll[wallet]
	if !ok {
		// Primer ciclo: sólo actividad dentro de la ventana de frescura.
		since = time.Now().Add(-c.cfg.MaxSignalAge)
	}

	signals, err := c.feed.FetchActivity(ctx, wallet, since)
	if err != nil {
		return 0, err
	}
	c.lastPoll[wallet] = time.Now()

	processed := 0
	for _, sig := range signals {
		if _, dup := c.seen[sig.TradeID]; dup {
			continue
		}
		c.seen[sig.TradeID] = struct{}{}

		if age := time.Since(sig.Timestamp); age > c.cfg.MaxSignalAge {
			c.logger.Debug("signal too old, skipping",
				"trade_id", sig.TradeID, "age", age.Round(time.Second))
			continue
		}

		res := c.exec.Execute(ctx, sig)
		if c.reporter != nil {
			c.reporter.PrintExecution(res)
		}
		processed++
	}
	return processed, nil
}
