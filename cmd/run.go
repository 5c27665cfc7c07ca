package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"gambler/wager-engine/application"
	"gambler/wager-engine/config"
	"gambler/wager-engine/database"
	"gambler/wager-engine/domain/interfaces"
	"gambler/wager-engine/infrastructure"
	"gambler/wager-engine/infrastructure/cache"
	"gambler/wager-engine/infrastructure/observability"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the engine with its ops server and reconcile schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return Run(ctx, config.Get())
		},
	}
}

// Engine is a running engine and the resources it owns
type Engine struct {
	DB       *database.DB
	Casino   *application.Casino
	Services *application.Services
	closers  []func()
}

// Close releases the engine's connections in reverse order
func (e *Engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// Build connects to postgres, NATS and redis and wires the services. NATS and
// redis are optional and skipped when their settings are empty.
func Build(ctx context.Context, cfg *config.Config, registry prometheus.Registerer) (*Engine, error) {
	engine := &Engine{}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	engine.DB = db
	engine.closers = append(engine.closers, db.Close)

	var publisher interfaces.EventPublisher = infrastructure.NewNoopEventPublisher()
	if cfg.NATSServers != "" {
		client := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := client.Connect(ctx); err != nil {
			engine.Close()
			return nil, err
		}
		engine.closers = append(engine.closers, func() { _ = client.Close() })

		natsPublisher := infrastructure.NewNATSEventPublisher(client, infrastructure.NewEventSubjectMapper())
		if err := natsPublisher.EnsureDomainEventStream(client); err != nil {
			log.WithError(err).Warn("Could not ensure event stream; events may be dropped")
		}
		publisher = natsPublisher
	} else {
		log.Info("NATS_SERVERS not set, domain events will not be published")
	}

	var leaderboardCache interfaces.LeaderboardCache = cache.NoopLeaderboardCache{}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			engine.Close()
			return nil, err
		}
		engine.closers = append(engine.closers, func() { _ = client.Close() })
		leaderboardCache = cache.NewLeaderboardCache(client, cfg.LeaderboardCacheTTL)
	}

	metrics := observability.NewMetrics(registry)
	services, err := application.NewServices(cfg, infrastructure.NewUnitOfWorkFactory(db, publisher), metrics, leaderboardCache)
	if err != nil {
		engine.Close()
		return nil, err
	}

	engine.Services = services
	engine.Casino = application.NewCasino(services, nil)
	return engine, nil
}

// Run starts the engine and blocks until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config) error {
	configureLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting wager engine")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine, err := Build(ctx, cfg, registry)
	if err != nil {
		return err
	}
	defer engine.Close()

	worker := application.NewReconcileWorker(engine.Services.Reconciliation, cfg.ReconcileSchedule)
	if err := worker.Start(ctx); err != nil {
		return err
	}
	defer worker.Stop()

	router := observability.NewRouter(registry, map[string]observability.ReadinessCheck{
		"database": func(ctx context.Context) error { return engine.DB.Ping(ctx) },
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return observability.NewServer(cfg.MetricsAddr, router).Run(groupCtx)
	})

	log.Info("Wager engine is running")
	err = group.Wait()
	log.Info("Wager engine stopped")
	return err
}
