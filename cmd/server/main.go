package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/marketdesk/portfolio-api/internal/api"
	"github.com/marketdesk/portfolio-api/internal/api/handler"
	"github.com/marketdesk/portfolio-api/internal/core/domain"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
	"github.com/marketdesk/portfolio-api/internal/core/service"
	"github.com/marketdesk/portfolio-api/internal/infrastructure/db/mongo"
	"github.com/marketdesk/portfolio-api/internal/infrastructure/db/postgres"
	"github.com/marketdesk/portfolio-api/internal/infrastructure/db/redis"
	"github.com/marketdesk/portfolio-api/internal/infrastructure/queue"
	"github.com/marketdesk/portfolio-api/internal/infrastructure/security"
	"github.com/marketdesk/portfolio-api/internal/pkg/config"
	"github.com/marketdesk/portfolio-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Env:    cfg.Env,
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	// --- Relational partitions ---
	partitions, err := postgres.ConnectPartitions(ctx, cfg.Postgres.DSNs(), cfg.Postgres.MaxConns)
	if err != nil {
		return err
	}
	defer partitions.Close()

	accountRepo := postgres.NewAccountRepository(partitions)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure account indexes: %w", err)
	}
	log.Info().Int("partitions", len(domain.Partitions)).Msg("postgres partitions connected")

	health := make([]handler.Dependency, 0, len(domain.Partitions)+2)
	for _, p := range domain.Partitions {
		health = append(health, handler.Dependency{
			Name:  "postgres_" + string(p),
			Check: func(ctx context.Context) error { return partitions.Ping(ctx, p) },
		})
	}

	// --- Optional login throttle ---
	var throttle ports.LoginThrottle = ports.NopThrottle{}
	if cfg.Redis.Enabled() {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		throttle = redis.NewLoginThrottle(rdb, cfg.Redis.MaxFailures, cfg.Redis.FailureWindow)
		health = append(health, handler.Dependency{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttle enabled")
	}

	// --- Optional audit trail ---
	var audit ports.AuditLog = ports.NopAuditLog{}
	if cfg.Mongo.Enabled() {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		auditRepo := mongo.NewAuditRepository(db)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure audit indexes: %w", err)
		}
		audit = auditRepo
		health = append(health, handler.Dependency{
			Name:  "mongodb",
			Check: func(ctx context.Context) error { return client.Ping(ctx, nil) },
		})
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail enabled")
	}

	// --- Credentials ---
	argon, err := security.NewArgon2Hasher(cfg.HashSecret, security.Params{
		Time:    cfg.Hashing.Time,
		Memory:  cfg.Hashing.MemoryKiB,
		Threads: cfg.Hashing.Threads,
		KeyLen:  cfg.Hashing.KeyLen,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	tokens, err := security.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	pool := queue.NewHashPool(argon, cfg.Hashing.Workers, logger.Component("hash_pool"))
	pool.Start()
	defer pool.Stop()

	// --- Services and transport ---
	accounts := service.NewAccountService(service.AccountDeps{
		Repo:         accountRepo,
		Hasher:       pool,
		Salts:        security.GenerateSalt,
		Tokens:       tokens,
		Throttle:     throttle,
		Audit:        audit,
		Partition:    cfg.Accounts(),
		DefaultLevel: domain.SecurityLevel(cfg.DefaultSecurityLvl),
		Log:          logger.Component("account_service"),
	})
	market := service.NewMarketService(postgres.NewMarketRepository(partitions), cfg.Public(), logger.Component("market_service"))

	e := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Market:   market,
		Tokens:   tokens,
		Health:   health,
		Log:      log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
