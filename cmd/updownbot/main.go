package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/updownbot/config"
	"github.com/alejandrodnm/updownbot/internal/adapters/binance"
	"github.com/alejandrodnm/updownbot/internal/adapters/candles"
	"github.com/alejandrodnm/updownbot/internal/adapters/montecarlo"
	"github.com/alejandrodnm/updownbot/internal/adapters/notify"
	"github.com/alejandrodnm/updownbot/internal/adapters/polymarket"
	"github.com/alejandrodnm/updownbot/internal/adapters/storage"
	"github.com/alejandrodnm/updownbot/internal/domain"
	"github.com/alejandrodnm/updownbot/internal/engine"
	"github.com/alejandrodnm/updownbot/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one quoting cycle and exit")
	live := flag.Bool("live", false, "place real orders (overrides config)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print fills as a table")
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
	if *live {
		cfg.Bot.Live = true
	}
	setupLogger(cfg.Log)

	asset := domain.Asset(cfg.Bot.Asset)
	slog.Info("updownbot starting",
		"config", *configPath,
		"asset", asset,
		"portfolio", cfg.Bot.PortfolioSize,
		"live", cfg.Bot.Live,
		"once", *once,
	)

	prices, err := binance.NewClient(cfg.API.BinanceBase, asset)
	if err != nil {
		slog.Error("failed to create price client", "err", err)
		os.Exit(1)
	}

	returns, err := candles.NewStore(cfg.Data.ReturnsFile, cfg.Data.WindowSize, prices)
	if err != nil {
		slog.Error("failed to open returns store", "err", err, "file", cfg.Data.ReturnsFile)
		os.Exit(1)
	}

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase)
	events := polymarket.NewEvents(client)
	books := polymarket.NewBooks(client)

	var executor ports.OrderExecutor
	if cfg.Bot.Live {
		key := os.Getenv("POLYMARKET_PRIVATE_KEY")
		if key == "" {
			slog.Error("live mode requires POLYMARKET_PRIVATE_KEY")
			os.Exit(1)
		}
		auth, err := polymarket.NewAuthClient(client, key)
		if err != nil {
			slog.Error("failed to create auth client", "err", err)
			os.Exit(1)
		}
		executor = polymarket.NewExecutor(auth)
		slog.Info("live trading enabled", "wallet", auth.Address())
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table)

	bot := engine.New(
		prices, events, books, returns,
		montecarlo.NewModel(0),
		executor, store, notifier,
		engine.Config{
			Asset:              asset,
			PortfolioSize:      cfg.Bot.PortfolioSize,
			MaxPositionPercent: cfg.Bot.MaxPositionPercent,
			RiskThreshold:      cfg.Bot.RiskThreshold,
			NumSimulations:     cfg.Bot.NumSimulations,
			LoopDelay:          cfg.LoopDelay(),
			RolloverDelay:      cfg.RolloverDelay(),
			Live:               cfg.Bot.Live,
		},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := returns.Backfill(ctx); err != nil {
		slog.Error("failed to backfill returns", "err", err)
		os.Exit(1)
	}
	go returns.Run(ctx, nil)

	if *once {
		if err := bot.Bootstrap(ctx); err != nil {
			slog.Error("bootstrap failed", "err", err)
			os.Exit(1)
		}
		if _, err := bot.RunOnce(ctx); err != nil {
			slog.Error("cycle failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("bot exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("updownbot stopped cleanly")
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
