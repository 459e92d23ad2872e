package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authhandler "condogate/internal/auth/handler"
	"condogate/internal/auth/lockout"
	authservice "condogate/internal/auth/service"
	authstore "condogate/internal/auth/store"
	condohandler "condogate/internal/condo/handler"
	condoservice "condogate/internal/condo/service"
	condostore "condogate/internal/condo/store"
	router "condogate/internal/http"
	"condogate/internal/platform/config"
	"condogate/internal/platform/httpserver"
	"condogate/internal/platform/logger"
	"condogate/internal/platform/metrics"
	"condogate/internal/platform/postgres"
	"condogate/internal/platform/redis"
	"condogate/internal/platform/tracing"
	residenthandler "condogate/internal/resident/handler"
	residentservice "condogate/internal/resident/service"
	residentstore "condogate/internal/resident/store"
	"condogate/internal/token"
	unithandler "condogate/internal/unit/handler"
	unitservice "condogate/internal/unit/service"
	unitstore "condogate/internal/unit/store"
	visitorhandler "condogate/internal/visitor/handler"
	visitorservice "condogate/internal/visitor/service"
	visitorstore "condogate/internal/visitor/store"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "condogate")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	var lockoutStore lockout.Store = lockout.NewMemoryStore()
	if redisClient != nil {
		defer redisClient.Close()
		lockoutStore = lockout.NewRedisStore(redisClient.Client)
		log.Info("login lockout backed by redis")
	}

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, "condogate", cfg.TokenTTL)

	users := authstore.NewPostgres(db)
	condos := condostore.NewPostgres(db)
	units := unitstore.NewPostgres(db)
	residents := residentstore.NewPostgres(db)
	entries := visitorstore.NewPostgres(db)

	authSvc := authservice.New(users, tokens, log,
		authservice.WithLockout(lockout.New(lockoutStore, log)),
		authservice.WithMetrics(m),
	)
	condoSvc := condoservice.New(condos, log,
		condoservice.WithChildCounters(units, residents, entries),
		condoservice.WithMetrics(m),
	)
	unitSvc := unitservice.New(units, condoSvc, log,
		unitservice.WithOccupancyChecker(residents),
		unitservice.WithMetrics(m),
	)
	residentSvc := residentservice.New(residents, condoSvc, unitSvc, log,
		residentservice.WithMetrics(m),
	)
	visitorSvc := visitorservice.New(entries, condoSvc, unitSvc, log,
		visitorservice.WithMetrics(m),
	)

	if err := authSvc.SeedAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		return err
	}

	handler := router.New(router.Handlers{
		Auth:      authhandler.New(authSvc, log),
		Condos:    condohandler.New(condoSvc, log),
		Units:     unithandler.New(unitSvc, log),
		Residents: residenthandler.New(residentSvc, log),
		Visitors:  visitorhandler.New(visitorSvc, log),
	}, tokens, m, log)

	server := httpserver.New(cfg.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
