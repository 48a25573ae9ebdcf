package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gbax/gbax-core/internal/bonus"
	"github.com/gbax/gbax-core/internal/bootstrap"
	"github.com/gbax/gbax-core/internal/config"
	"github.com/gbax/gbax-core/internal/consumable"
	"github.com/gbax/gbax-core/internal/database"
	"github.com/gbax/gbax-core/internal/effect"
	"github.com/gbax/gbax-core/internal/eventlog"
	"github.com/gbax/gbax-core/internal/guild"
	"github.com/gbax/gbax-core/internal/ledger"
	"github.com/gbax/gbax-core/internal/loyalty"
	"github.com/gbax/gbax-core/internal/mission"
	"github.com/gbax/gbax-core/internal/operation"
	"github.com/gbax/gbax-core/internal/player"
	"github.com/gbax/gbax-core/internal/progress"
	"github.com/gbax/gbax-core/internal/reward"
	"github.com/gbax/gbax-core/internal/scheduler"
	"github.com/gbax/gbax-core/internal/sector"
	"github.com/gbax/gbax-core/internal/server"
	"github.com/gbax/gbax-core/internal/sse"
	"github.com/gbax/gbax-core/internal/trait"
	"github.com/gbax/gbax-core/internal/tuning"
	"github.com/gbax/gbax-core/internal/worker"
)

// Pool and shutdown defaults. The worker pool stays small: jobs are periodic
// housekeeping, not request work.
const (
	DBMaxConns      = 10
	DBMaxIdleTime   = 5 * time.Minute
	DBMaxLifetime   = 30 * time.Minute
	MigrationsDir   = "migrations"
	WorkerCount     = 3
	WorkerQueueSize = 16
	ShutdownTimeout = 15 * time.Second

	AuditRetentionDays   = 30
	AuditCleanupInterval = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = logFile.Close() }()

	// Every service publishes through the resilient wrapper; a dispatch that
	// errors is retried in the background and dead-lettered, never dropped.
	eventBus, err := bootstrap.InitializeEventSystem()
	if err != nil {
		slog.Error("Event system setup failed", "error", err)
		os.Exit(1)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), DBMaxConns, DBMaxIdleTime, DBMaxLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.Migrate(dbPool, MigrationsDir); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	tun := tuning.Default()
	if cfg.TuningPath != "" {
		if tun, err = tuning.Load(cfg.TuningPath); err != nil {
			slog.Error("Tuning load failed", "path", cfg.TuningPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Tuning loaded", "path", cfg.TuningPath)
	}

	players, err := player.NewService(repos.Player, eventBus)
	if err != nil {
		slog.Error("Player service setup failed", "error", err)
		os.Exit(1)
	}

	var remote ledger.Client
	switch cfg.LedgerMode {
	case config.LedgerModeHTTP:
		remote = ledger.NewHTTPClient(cfg.LedgerURL, cfg.LedgerAPIKey, cfg.LedgerTimeout)
		slog.Info("Remote ledger enabled", "url", cfg.LedgerURL)
	default:
		remote = ledger.NewMockClient()
		slog.Info("Remote ledger running in mock mode")
	}

	effects := effect.NewLedger(eventBus)
	loyaltySvc := loyalty.NewService(tun.LoyaltyTiers, players, eventBus)
	guilds := guild.NewService(repos.Guild, players, remote)
	traits := trait.NewService(players)
	missions := mission.NewService(repos.Mission, players, eventBus)
	consumables := consumable.NewService(tun.Consumables, players, effects)

	audit := eventlog.NewService(repos.EventLog)
	if err := audit.Subscribe(eventBus); err != nil {
		slog.Error("Audit log setup failed", "error", err)
		os.Exit(1)
	}

	aggregator := bonus.NewAggregator(tun.Bonus)
	rewards := reward.NewService(aggregator, effects, players, loyaltySvc, guilds, traits, missions, tun.Operations)
	rewards.Subscribe(eventBus)

	sectors := sector.NewStore()

	seed := cfg.RegistrySeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	registry := operation.NewRegistry(tun.Operations, tun.Rewards, sectors, eventBus, seed)

	synchronizer := progress.NewSynchronizer(players, missions, remote, eventBus,
		progress.WithRemoteTimeout(cfg.LedgerTimeout))
	synchronizer.Subscribe(eventBus)

	sseHub := sse.NewHub()
	sseHub.Start()
	sse.NewSubscriber(sseHub, eventBus).Subscribe()

	pool := worker.NewPool(WorkerCount, WorkerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(cfg.TickInterval, worker.NewTickJob(registry, cfg.TickInterval))
	sched.Schedule(cfg.SweepInterval, worker.NewSweepJob(effects))
	sched.Schedule(cfg.SyncInterval, worker.NewSyncJob(synchronizer))
	sched.Schedule(AuditCleanupInterval, eventlog.NewCleanupJob(audit, AuditRetentionDays))

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, server.Services{
		DBPool:       dbPool,
		Players:      players,
		Registry:     registry,
		Effects:      effects,
		Consumables:  consumables,
		Rewards:      rewards,
		Loyalty:      loyaltySvc,
		Guilds:       guilds,
		Traits:       traits,
		Missions:     missions,
		Sectors:      sectors,
		Synchronizer: synchronizer,
		SSEHub:       sseHub,
		Audit:        audit,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         pool,
		Synchronizer:       synchronizer,
		SSEHub:             sseHub,
		ResilientPublisher: eventBus,
	})
}
