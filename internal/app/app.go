// Package app wires the conversation engine's collaborators from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hospital-voice-agent/internal/config"
	"hospital-voice-agent/internal/directory"
	"hospital-voice-agent/internal/events"
	"hospital-voice-agent/internal/observability/logging"
	"hospital-voice-agent/internal/observability/metrics"
	"hospital-voice-agent/internal/service/dialogue"
	"hospital-voice-agent/internal/service/session"
	"hospital-voice-agent/internal/store"
	"hospital-voice-agent/internal/store/memory"
	"hospital-voice-agent/internal/store/postgres"
	redisstore "hospital-voice-agent/internal/store/redis"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config

	Metrics   *metrics.Metrics
	Directory directory.Directory
	Store     store.Store
	Publisher *events.Publisher
	Sessions  *session.Manager

	ping    func(ctx context.Context) error
	closers []func()
	cancel  context.CancelFunc
}

// New constructs the application from cfg. The store backend is connected
// before New returns.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	a := &Application{
		Cfg:     cfg,
		Metrics: metrics.DefaultMetrics,
	}
	a.setupLogger()

	appLogger := a.Logger.With().
		Str("method", "New").
		Logger()

	dir, err := loadDirectory(cfg.Directory)
	if err != nil {
		return nil, err
	}
	a.Directory = dir

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	a.Publisher = events.New(&events.Config{
		Enabled:        cfg.Kafka.Enabled,
		Brokers:        cfg.Kafka.Brokers,
		TopicTurns:     cfg.Kafka.TopicTurns,
		TopicLifecycle: cfg.Kafka.TopicLifecycle,
		Principal:      cfg.Service.Principal,
		Metrics:        a.Metrics,
	})
	a.Sessions = session.NewManager(a.SessionDeps(), cfg.Sessions.TTL)

	appLogger.Info().
		Str("store", cfg.Store.Backend).
		Str("hospital", cfg.Dialogue.HospitalName).
		Msg("Hospital voice agent application created")
	return a, nil
}

// setupLogger configures zerolog for the service.
func (a *Application) setupLogger() {
	logging.Init(logging.Config{
		Level:      a.Cfg.Observability.LogLevel,
		Format:     a.Cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})
	a.Logger = logging.WithComponent("application").With().
		Str("service", "hospital-voice-agent").
		Logger()
}

// DialogueOptions maps the dialogue configuration onto machine options.
func (a *Application) DialogueOptions() dialogue.Options {
	opts := dialogue.DefaultOptions()
	d := a.Cfg.Dialogue
	if d.HospitalName != "" {
		opts.HospitalName = d.HospitalName
	}
	if d.Currency != "" {
		opts.Currency = d.Currency
	}
	opts.MaxReprompts = d.MaxReprompts
	opts.ConfirmRecommendation = d.ConfirmRecommendation
	return opts
}

// SessionDeps returns the collaborators shared by every session.
func (a *Application) SessionDeps() session.Deps {
	return session.Deps{
		Directory: a.Directory,
		Store:     a.Store,
		Events:    a.Publisher,
		Metrics:   a.Metrics,
		Dialogue:  a.DialogueOptions(),
		Now:       time.Now,
	}
}

// Ready reports whether the store backend is reachable.
func (a *Application) Ready(ctx context.Context) error {
	if a.ping == nil {
		return nil
	}
	return a.ping(ctx)
}

// Start performs any startup work required before serving traffic.
func (a *Application) Start(ctx context.Context) error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	a.StartupTime = time.Now().UTC()
	if interval := a.Cfg.Sessions.SweepInterval; interval > 0 && a.Cfg.Sessions.TTL > 0 {
		ctx, a.cancel = context.WithCancel(ctx)
		go a.Sessions.Run(ctx, interval)
	}
	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Hospital voice agent starting")

	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	if a.cancel != nil {
		a.cancel()
	}
	a.Sessions.Shutdown()
	if err := a.Publisher.Close(); err != nil {
		shutdownLogger.Warn().Err(err).Msg("Failed to close publisher")
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	shutdownLogger.Info().Msg("Hospital voice agent shutting down")
}

func loadDirectory(cfg config.DirectoryConfig) (directory.Directory, error) {
	if cfg.CatalogPath == "" {
		return directory.Default(), nil
	}
	c, err := directory.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("app: load catalog: %w", err)
	}
	return c, nil
}

func (a *Application) openStore(ctx context.Context) error {
	cfg := a.Cfg.Store
	switch cfg.Backend {
	case "", "memory":
		a.Store = memory.New()
	case "postgres":
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("app: DATABASE_URL is required for the postgres store")
		}
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("app: %w", err)
		}
		a.Store = postgres.New(pool)
		a.ping = pool.Ping
		a.closers = append(a.closers, pool.Close)
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("app: redis ping: %w", err)
		}
		a.Store = redisstore.New(client, cfg.KeyPrefix)
		a.ping = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		a.closers = append(a.closers, func() { _ = client.Close() })
	default:
		return fmt.Errorf("app: unknown store backend %q", cfg.Backend)
	}
	return nil
}
