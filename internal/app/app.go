package app

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// App holds the wired service graph shared by the binaries.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics

	postgres *persistence.Postgres
	redis    *persistence.Redis
	kafka    *kgo.Client

	bus     *events.Bus
	tokens  *auth.TokenService
	auth    *service.AuthService
	tickets *service.TicketService
}

// New connects backing services and builds the use-cases. Postgres, Redis
// and Kafka are each optional; without Postgres the stores live in memory.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}
	keys, err := auth.LoadKeyPair(cfg.Auth.PrivateKey, cfg.Auth.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("load signing keys: %w", err)
	}
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Keys:     keys,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
		tokens:  tokens,
	}

	a.postgres, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}

	a.redis = persistence.NewRedis(ctx, cfg.Redis, logger)

	if len(cfg.Kafka.Brokers) > 0 {
		a.kafka, err = events.NewKafkaClient(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("kafka client: %w", err)
		}
		if err := events.EnsureTopic(ctx, a.kafka, cfg.Kafka.Topic, 1); err != nil {
			logger.Warn("unable to ensure kafka topic", zap.String("topic", cfg.Kafka.Topic), zap.Error(err))
		}
	}

	users, tickets, eventLog := a.stores()
	a.bus = a.newBus(eventLog)

	clock := service.SystemClock{}
	a.auth = service.NewAuthService(service.AuthDependencies{
		Users:  users,
		Hasher: auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens: tokens,
		Events: a.bus,
		Clock:  clock,
		Logger: logger,
	})
	a.tickets = service.NewTicketService(service.TicketDependencies{
		Tickets: tickets,
		Events:  a.bus,
		Clock:   clock,
		Logger:  logger,
	})
	return a, nil
}

func (a *App) stores() (service.UserStore, service.TicketStore, repository.EventLogRepository) {
	if pool := a.postgres.PoolHandle(); pool != nil {
		return repository.NewUserRepository(pool),
			repository.NewTicketRepository(pool),
			repository.NewEventLogRepository(pool)
	}
	a.logger.Warn("using in-memory stores; data is lost on restart")
	return repository.NewInMemoryUserRepository(),
		repository.NewInMemoryTicketRepository(),
		repository.NewInMemoryEventLogRepository()
}

func (a *App) newBus(eventLog repository.EventLogRepository) *events.Bus {
	bus := events.NewBus(a.logger, a.metrics)
	bus.Subscribe(events.NewLogSink(a.logger))
	bus.Subscribe(events.NewMetricsSink(a.metrics))
	bus.Subscribe(events.NewAuditSink(eventLog))

	notifications := service.NewNotificationService(a.logger, a.cfg.Notification)
	if len(notifications.Channels()) > 0 {
		bus.Subscribe(notifications)
	}
	if a.redis.Client != nil {
		bus.Subscribe(events.NewRedisSink(a.redis.Client, a.cfg.Redis.EventsChannel))
	}
	if a.kafka != nil {
		bus.Subscribe(events.NewKafkaSink(a.kafka, a.cfg.Kafka.Topic, a.logger, func() {
			a.metrics.RecordSinkFailure("kafka")
		}))
	}
	return bus
}

// AuthService exposes the registration and login use-cases.
func (a *App) AuthService() *service.AuthService { return a.auth }

// TicketService exposes the ticket use-cases.
func (a *App) TicketService() *service.TicketService { return a.tickets }

// HTTP builds the Fiber application.
func (a *App) HTTP() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               a.cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, a.logger, a.metrics, httptransport.MiddlewareConfig{
		Timeout:      a.cfg.App.RequestTimeout(),
		ExposeCauses: a.cfg.App.IsDevelopment(),
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(a.cfg.App.Name, a.cfg.App.Version, map[string]handlers.Pinger{
			"postgres": a.postgres,
			"redis":    a.redis,
		}),
		Auth:           handlers.NewAuthHandler(a.auth),
		Tickets:        handlers.NewTicketsHandler(a.tickets),
		AuthMiddleware: auth.NewAuthMiddleware(a.tokens),
		Registry:       a.metrics.Registry(),
	})
	return app
}

// Close flushes pending Kafka records and releases connections.
func (a *App) Close(ctx context.Context) {
	if a.kafka != nil {
		if err := a.kafka.Flush(ctx); err != nil {
			a.logger.Warn("kafka flush", zap.Error(err))
		}
		a.kafka.Close()
	}
	a.redis.Close()
	a.postgres.Close()
}
