package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/config"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/adapters/notify"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/adapters/polymarket"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/adapters/storage"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/copier"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/executor"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/application/ledger"
	"github.com/TONKAFREAK/polymarket-copy-trading-bot-sub002/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one poll cycle and exit")
	report := flag.Bool("report", false, "print positions and stats, then exit")
	export := flag.String("export", "", "export trade history as CSV to the given file")
	settleExpired := flag.Bool("settle-expired", false, "force-settle expired positions, then exit")
	assumeWin := flag.Bool("assume-win", false, "settle expired positions as wins instead of losses")
	market := flag.String("market", "", "restrict --settle-expired to one market slug")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)
	logger := slog.Default()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	book, err := ledger.New(ctx, store, cfg.Trading.StartingBalance, cfg.Trading.FeeRate, logger)
	if err != nil {
		slog.Error("failed to load ledger", "err", err)
		os.Exit(1)
	}

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase, cfg.API.DataBase)
	directory := polymarket.NewDirectory(client)
	console := notify.NewConsole()

	// Comandos de operador: reporting y settlement manual.
	if *report {
		runReport(ctx, book, directory, console, cfg)
		return
	}
	if *export != "" {
		runExport(book, *export)
		return
	}
	if *settleExpired {
		sum := book.SettleExpired(ctx, *assumeWin, *market)
		slog.Info("expired positions settled",
			"count", sum.SettledCount, "total_pnl", sum.TotalPnL)
		console.PrintPositions(book.Positions(), book.Balance())
		return
	}

	if len(cfg.Targets.Wallets) == 0 {
		slog.Error("no target wallets configured")
		os.Exit(1)
	}

	var submitter ports.OrderSubmitter
	if cfg.Trading.Mode == "live" {
		submitter = polymarket.NewRelay(client, cfg.API.ExecutionURL)
	}

	exec := executor.New(cfg, book, polymarket.NewResolver(client, directory), submitter, logger)
	feed := polymarket.NewActivityFeed(client)

	slog.Info("copybot starting",
		"config", *configPath,
		"mode", cfg.Trading.Mode,
		"sizing", cfg.Trading.SizingMode,
		"wallets", len(cfg.Targets.Wallets),
		"interval", cfg.PollInterval(),
		"balance", book.Balance())

	c := copier.New(copier.Config{
		Wallets:         cfg.Targets.Wallets,
		PollInterval:    cfg.PollInterval(),
		MaxSignalAge:    cfg.MaxSignalAge(),
		ReconcileEveryN: cfg.Targets.ReconcileEveryN,
		Once:            *once,
	}, feed, exec, book, directory, console, logger)

	if err := c.Run(ctx); err != nil {
		slog.Error("copier exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("copybot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
