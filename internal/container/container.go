package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/linkvault/internal/auth"
	"github.com/serroba/linkvault/internal/clicks"
	"github.com/serroba/linkvault/internal/handlers"
	"github.com/serroba/linkvault/internal/health"
	"github.com/serroba/linkvault/internal/logging"
	"github.com/serroba/linkvault/internal/messaging"
	"github.com/serroba/linkvault/internal/middleware"
	"github.com/serroba/linkvault/internal/shortener"
	"github.com/serroba/linkvault/internal/store"
	"go.uber.org/zap"
)

const (
	// APIVersion is reported in the OpenAPI document.
	APIVersion = "1.0.0"

	// ClicksConsumerGroup is the Redis Streams consumer group of the click consumer.
	ClicksConsumerGroup = "linkvault-clicks"

	connectTimeout = 10 * time.Second
)

// PostgresPool closes the pool on injector shutdown.
type PostgresPool struct {
	*pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// RedisClient closes the client on injector shutdown.
type RedisClient struct {
	*redis.Client
}

func (r *RedisClient) Shutdown() error {
	return r.Close()
}

// LoggerPackage provides the shared zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return logging.New(opts.LogFormat, opts.LogLevel)
	})
}

// PostgresPackage provides a migrated connection pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		if err = store.Migrate(ctx, pool); err != nil {
			pool.Close()

			return nil, err
		}

		logger.Info("connected to postgres")

		return &PostgresPool{Pool: pool}, nil
	})
}

// RedisPackage provides the Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// StorePackage provides the user and URL repositories for the configured backend.
// Redirect lookups go through the Redis cache when Redis is configured.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (auth.UserRepository, error) {
		switch backend := do.MustInvoke[*Options](i).Store; backend {
		case StoreMemory:
			return store.NewMemoryUserStore(), nil
		case StorePostgres:
			return store.NewPostgresUserStore(do.MustInvoke[*PostgresPool](i).Pool), nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStore, backend)
		}
	})

	do.Provide(injector, func(i *do.Injector) (clicks.Counter, error) {
		return do.MustInvoke[*baseURLStore](i).Repository, nil
	})

	do.Provide(injector, func(i *do.Injector) (*baseURLStore, error) {
		switch backend := do.MustInvoke[*Options](i).Store; backend {
		case StoreMemory:
			return &baseURLStore{store.NewMemoryStore()}, nil
		case StorePostgres:
			return &baseURLStore{store.NewPostgresStore(do.MustInvoke[*PostgresPool](i).Pool)}, nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStore, backend)
		}
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		base := do.MustInvoke[*baseURLStore](i).Repository

		if opts.RedisAddr == "" {
			return base, nil
		}

		durations := do.MustInvoke[Durations](i)
		client := do.MustInvoke[*RedisClient](i).Client

		return store.NewRedisCacheRepository(base, client, durations.CacheTTL, do.MustInvoke[*zap.Logger](i)), nil
	})
}

// baseURLStore is the uncached URL repository.
type baseURLStore struct {
	shortener.Repository
}

// AuthPackage provides the auth service.
func AuthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*auth.Service, error) {
		opts := do.MustInvoke[*Options](i)
		durations := do.MustInvoke[Durations](i)

		return auth.NewService(
			do.MustInvoke[auth.UserRepository](i),
			auth.NewBcryptHasher(opts.BcryptCost),
			auth.NewJWTIssuer(opts.JWTSecret, durations.TokenTTL),
			do.MustInvoke[*zap.Logger](i),
		)
	})
}

// ShortenerPackage provides the URL service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)
		repo := do.MustInvoke[shortener.Repository](i)

		generator, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			repo,
			shortener.NewAllocator(repo, generator),
			do.MustInvoke[*clicks.Dispatcher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// ClicksPackage provides the click dispatcher. In stream mode clicks are
// published to Redis Streams, otherwise they are counted in place.
func ClicksPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*RedisClient](i).Client
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client},
			logging.NewWatermillAdapter(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (*clicks.Dispatcher, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var recorder clicks.Recorder

		if opts.ClickMode == ClickModeStream {
			group := do.MustInvoke[*messaging.PublisherGroup](i)
			recorder = clicks.NewPublishRecorder(
				messaging.NewPublishFunc[clicks.Event](group.Publisher(), clicks.TopicURLClicked),
			)
		} else {
			recorder = clicks.NewCounterRecorder(do.MustInvoke[clicks.Counter](i))
		}

		logger.Info("click counting configured", zap.String("mode", opts.ClickMode))

		return clicks.NewDispatcher(recorder, logger), nil
	})
}

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		router := chi.NewMux()
		router.Use(middleware.Recoverer(logger), middleware.CORS(opts.ClientURL))
		router.NotFound(middleware.NotFound(logger))
		router.MethodNotAllowed(middleware.NotFound(logger))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		durations := do.MustInvoke[Durations](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		authService := do.MustInvoke[*auth.Service](i)

		api := humachi.New(router, handlers.NewAPIConfig(APIVersion))
		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RequestLogger(logger),
			middleware.Authenticate(api, authService),
		)

		handlers.RegisterRoutes(api,
			handlers.NewAuthHandler(authService, handlers.NewCookieConfig(opts.Environment, durations.CookieTTL), logger),
			handlers.NewURLHandler(do.MustInvoke[*shortener.Service](i), opts.BaseURL),
		)
		health.RegisterRoutes(api, health.NewHandler(healthCheckers(i, opts)))

		return api, nil
	})
}

func healthCheckers(i *do.Injector, opts *Options) map[string]health.Checker {
	checkers := map[string]health.Checker{}

	if opts.Store == StorePostgres {
		checkers["postgres"] = health.NewPostgresChecker(do.MustInvoke[*PostgresPool](i).Pool)
	}

	if opts.RedisAddr != "" {
		checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
	}

	return checkers
}

// ConsumerGroupPackage provides the click stream consumers.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*RedisClient](i).Client
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client,
				ConsumerGroup: ClicksConsumerGroup,
			},
			logging.NewWatermillAdapter(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create stream subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			clicks.TopicURLClicked,
			clicks.NewCountingHandler(do.MustInvoke[clicks.Counter](i), logger),
			logger,
			messaging.WithAckPolicy(messaging.AckAlways),
		))

		return group, nil
	})
}
