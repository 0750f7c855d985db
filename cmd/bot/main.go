package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kittyscape/lootbot/internal/config"
	"github.com/kittyscape/lootbot/internal/database"
	"github.com/kittyscape/lootbot/internal/database/postgres"
	"github.com/kittyscape/lootbot/internal/discord"
	"github.com/kittyscape/lootbot/internal/feed"
	"github.com/kittyscape/lootbot/internal/linking"
	"github.com/kittyscape/lootbot/internal/logger"
	"github.com/kittyscape/lootbot/internal/oracle"
	"github.com/kittyscape/lootbot/internal/scheduler"
	"github.com/kittyscape/lootbot/internal/server"
	"github.com/kittyscape/lootbot/internal/tracker"
	"github.com/kittyscape/lootbot/internal/worker"
)

const (
	dbMaxConnections   = 10
	dbMaxIdleTime      = 5 * time.Minute
	dbMaxLifetime      = 30 * time.Minute
	workerCount        = 4
	workerQueueSize    = 32
	startupOracleGrace = 30 * time.Second
	shutdownGrace      = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	connString := cfg.GetDBConnString()

	if err := database.Migrate(connString); err != nil {
		return err
	}

	dbPool, err := database.NewPool(connString, dbMaxConnections, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	trackerRepo := postgres.NewTrackerRepository(dbPool)
	linkingRepo := postgres.NewLinkingRepository(dbPool)

	// Oracles load once up front so the first command already has data.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupOracleGrace)
	defer cancelStartup()

	priceClient := oracle.NewPriceClient()
	if err := priceClient.Refresh(startupCtx); err != nil {
		// Prices recover on the next scheduled refresh; rarity data is
		// local and failing to load it means a broken deployment.
		slog.Warn("initial price refresh failed", "error", err)
	}

	rarityOracle := oracle.NewRarityFileOracle(cfg.RarityDataPath, cfg.RaritySchemaPath)
	if err := rarityOracle.Reload(startupCtx); err != nil {
		return err
	}

	workerPool := worker.NewPool(workerCount, workerQueueSize)
	workerPool.Start()
	defer workerPool.Stop()

	sched := scheduler.New(workerPool)
	sched.Schedule(cfg.OracleRefreshInterval, priceClient)
	sched.Schedule(cfg.OracleRefreshInterval, rarityOracle)
	defer sched.Stop()

	notifier := discord.NewRankNotifier(cfg.ModChannelID)
	trackerSvc := tracker.NewService(trackerRepo, priceClient, rarityOracle, notifier)
	linkingSvc := linking.NewService(linkingRepo)
	feedSvc := feed.NewService(linkingSvc, trackerSvc)

	bot, err := discord.New(discord.Config{
		Token:         cfg.DiscordToken,
		AppID:         cfg.DiscordAppID,
		ModChannelID:  cfg.ModChannelID,
		LogChannelID:  cfg.LogChannelID,
		FeedChannelID: cfg.FeedChannelID,
	}, discord.Deps{
		Tracker: trackerSvc,
		Linking: linkingSvc,
		Feed:    feedSvc,
		Prices:  priceClient,
		Rarity:  rarityOracle,
	})
	if err != nil {
		return err
	}
	notifier.Bind(bot.Session, bot.Names())

	srv := server.NewServer(cfg.Port, dbPool)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server failed", "error", err)
		}
	}()

	if err := bot.Start(); err != nil {
		return err
	}
	defer bot.Stop()

	if err := bot.RegisterCommands(cfg.ForceCommandUpdate); err != nil {
		// The bot can still run on previously registered commands.
		slog.Error("Failed to register commands", "error", err)
	}

	slog.Info("lootbot is running, press Ctrl+C to exit")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
	return nil
}
