package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"example.com/ecoquest/internal/account"
	"example.com/ecoquest/internal/api"
	"example.com/ecoquest/internal/auth"
	"example.com/ecoquest/internal/config"
	"example.com/ecoquest/internal/domain"
	"example.com/ecoquest/internal/outbox"
	"example.com/ecoquest/internal/persistence/memory"
	"example.com/ecoquest/internal/persistence/postgres"
	httptransport "example.com/ecoquest/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger("ecoquest-api", cfg.LogLevel, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("api stopped with error")
	}
	logger.Info().Msg("api stopped")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	group, ctx := errgroup.WithContext(ctx)

	var (
		repo  domain.ActivityRepository
		users account.UserStore
	)
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo = postgres.NewRepository(pool)
		users = postgres.NewUserStore(pool)

		if cfg.OutboxEnabled {
			producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
			defer producer.Close()
			registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)
			dispatcher := outbox.NewDispatcher(pool, producer, registry, logger, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
			group.Go(func() error {
				dispatcher.Start(ctx)
				return nil
			})
		}
	default:
		mem := memory.NewRepository()
		repo, users = mem, mem
		logger.Warn().Msg("using in-memory store; data is lost on restart")
	}

	tokens := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL}
	service := domain.NewService(repo,
		domain.WithLocation(cfg.Location()),
		domain.WithLogger(logger),
	)
	accounts := account.NewService(users, tokens, bcrypt.DefaultCost)

	mux := http.NewServeMux()
	api.NewHandler(service, accounts, api.WithLogger(logger), api.WithLocation(cfg.Location())).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	handler := httptransport.Chain(mux,
		api.RequestLogger(logger),
		api.CORS(cfg.CORSOrigin),
		auth.NewMiddleware(tokens, auth.PublicPaths).Wrap,
	)
	serverCfg := httptransport.DefaultServerConfig(cfg.HTTPAddress)
	server := httptransport.NewServer(serverCfg, handler)

	group.Go(func() error {
		return httptransport.Serve(ctx, server, serverCfg.ShutdownTimeout, logger)
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
