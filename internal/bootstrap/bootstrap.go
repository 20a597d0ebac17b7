// Package bootstrap wires configuration into a running object graph shared by
// the API server and the export CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/learnhub/learnhub-dashboard/config"
	"github.com/learnhub/learnhub-dashboard/internal/application/command"
	"github.com/learnhub/learnhub-dashboard/internal/application/query"
	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/connection"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/metrics"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/delivery"
	csvexport "github.com/learnhub/learnhub-dashboard/internal/infrastructure/export/csv"
	pdfexport "github.com/learnhub/learnhub-dashboard/internal/infrastructure/export/pdf"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/persistence/memory"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/persistence/postgres"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/persistence/redis"
	"github.com/learnhub/learnhub-dashboard/pkg/logger"
	"github.com/learnhub/learnhub-dashboard/pkg/retry"
)

// Check is a named liveness check for a backing service. Fn may return
// details to report next to the result.
type Check struct {
	Name string
	Fn   func(ctx context.Context) (any, error)
}

// App is the wired dependency graph.
type App struct {
	Config *config.Config
	Log    *logger.Logger

	Courses     course.Repository
	Assignments assignment.Repository
	Performance performance.Repository

	Loader     *query.LoadSnapshotHandler
	Dashboard  *query.GetDashboardHandler
	Exports    *command.ExportCoordinator
	Connection *command.ConnectionTracker

	Checks []Check

	closers []func()
}

// Options adjusts wiring per binary.
type Options struct {
	// Sink overrides the file sink rooted at cfg.Export.OutputDir.
	Sink command.Sink
}

// NewLogger builds the process logger from the observability settings.
func NewLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Format:    logger.ParseFormat(cfg.Observability.LogFormat),
		AddCaller: !cfg.IsProduction(),
	}).With(
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)
}

// Build connects the configured store, the optional Redis instance and the
// export pipeline. Call Close when done.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	var (
		lock      command.Lock
		connStore connection.Store
	)
	if cache := a.openRedis(ctx); cache != nil {
		lock = redis.NewExportLock(cache, cfg.Export.LockName, cfg.Export.LockTTL)
		connStore = redis.NewConnectionStore(cache)
	}

	calc := metrics.NewCalculator()
	a.Loader = query.NewLoadSnapshotHandler(a.Courses, a.Assignments, a.Performance, log)
	a.Dashboard = query.NewGetDashboardHandler(a.Loader, calc)

	sink := opts.Sink
	if sink == nil {
		sink = delivery.NewFileSink(cfg.Export.OutputDir)
	}
	a.Exports = command.NewExportCoordinator(a.Loader, sink,
		[]command.Serializer{csvexport.NewSerializer(), pdfexport.NewSerializer()},
		command.ExportCoordinatorConfig{
			ProcessingDelay: cfg.Export.ProcessingDelay,
			Lock:            lock,
			Calculator:      calc,
			Logger:          log,
		})

	a.Connection = command.NewConnectionTracker(a.Loader, connStore, log)
	if err := a.Connection.Restore(ctx); err != nil {
		log.Warn("connection state not restored", logger.Err(err))
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.StorePostgres:
		return a.openPostgres(ctx)
	default:
		store := memory.NewStore(memory.Latency{Read: cfg.Store.ReadLatency, Write: cfg.Store.WriteLatency})
		if cfg.Store.Seed {
			store.Seed(time.Now())
		}
		a.Courses, a.Assignments, a.Performance = store.Courses, store.Assignments, store.Performance
		a.Log.Info("using in-memory record store", logger.Bool("seeded", cfg.Store.Seed))
		return nil
	}
}

func (a *App) openPostgres(ctx context.Context) error {
	cfg := a.Config.Database
	settings := postgres.DefaultPoolSettings()
	settings.MaxConns = int32(cfg.MaxConns)
	settings.MinConns = int32(cfg.MinConns)
	settings.MaxConnLifetime = cfg.ConnMaxLifetime
	settings.MaxConnIdleTime = cfg.ConnMaxIdleTime

	a.Log.Info("connecting to database...")
	var conn *postgres.Connection
	err := retry.StartupRetrier(cfg.ConnectAttempts, a.logRetry("postgres")).Do(ctx, func(ctx context.Context) error {
		c, err := postgres.Connect(ctx, cfg.URL, settings)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, conn.Close)
	a.Checks = append(a.Checks, Check{Name: "database", Fn: func(ctx context.Context) (any, error) {
		h := conn.Health(ctx)
		return h, h.Err()
	}})

	if cfg.Migrate {
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		a.Log.Info("database schema is up to date")
	}

	if a.Config.Store.Seed {
		courses, assignments, samples := memory.DemoData(time.Now())
		seeded, err := postgres.SeedIfEmpty(ctx, conn, courses, assignments, samples)
		if err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		if seeded {
			a.Log.Info("seeded empty database with demo records")
		}
	}

	a.Courses = postgres.NewCourseRepository(conn)
	a.Assignments = postgres.NewAssignmentRepository(conn)
	a.Performance = postgres.NewPerformanceRepository(conn)
	return nil
}

// openRedis returns nil when Redis is not configured or unreachable.
func (a *App) openRedis(ctx context.Context) *redis.Cache {
	rc := a.Config.Redis
	if !rc.Enabled() {
		return nil
	}

	a.Log.Info("connecting to Redis...", logger.String("addr", rc.Addr))
	cache, err := redis.NewCache(ctx, redis.Config{
		Addr:         rc.Addr,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	})
	if err != nil {
		a.Log.Warn("failed to connect to Redis, export lock is process-local", logger.Err(err))
		return nil
	}
	a.closers = append(a.closers, func() { _ = cache.Close() })
	a.Checks = append(a.Checks, Check{Name: "redis", Fn: func(ctx context.Context) (any, error) {
		return nil, cache.Ping(ctx)
	}})
	return cache
}

func (a *App) logRetry(service string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		a.Log.Warn("dial failed, retrying",
			logger.String("service", service),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	}
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
