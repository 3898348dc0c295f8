package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	grantshandler "healthbridge/internal/grants/handler"
	grantmetrics "healthbridge/internal/grants/metrics"
	"healthbridge/internal/grants/service"
	"healthbridge/internal/grants/workers/sweeper"
	jwttoken "healthbridge/internal/jwt_token"
	"healthbridge/internal/platform/config"
	"healthbridge/internal/platform/health"
	"healthbridge/internal/platform/logger"
	"healthbridge/internal/platform/tracer"
	httptransport "healthbridge/internal/transport/http"
	"healthbridge/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 10 * time.Second
	poolStatsInterval = 15 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing healthbridge",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"database", cfg.Database.URL != "",
		"redis", cfg.Redis.URL != "",
		"kafka", cfg.Kafka.Brokers != "",
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	healthHandler := health.New(cfg.Environment)

	infra, err := buildInfra(ctx, cfg, reg, healthHandler, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	metrics := grantmetrics.New(reg)
	svc := service.New(infra.Grants, infra.Directory, infra.Audit,
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithTracer(tracer.NewOTel()),
		service.WithRoster(infra.Roster),
		service.WithEmergencyDuration(cfg.Grants.EmergencyDuration),
		service.WithExpirePending(cfg.Grants.ExpirePending),
	)

	sweep, err := sweeper.New(svc,
		sweeper.WithInterval(cfg.Grants.SweepInterval),
		sweeper.WithLogger(log),
		sweeper.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("init sweeper: %w", err)
	}

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience, time.Hour)
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        request.NewMetrics(reg),
		Gatherer:       reg,
		Health:         healthHandler,
		Validator:      tokens.Validator(),
		Grants:         grantshandler.New(svc, log),
		Sweeper:        sweep,
		AdminToken:     cfg.AdminToken,
		RequestTimeout: cfg.RequestTimeout,
		TrustedProxies: cfg.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := sweep.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if infra.Redis != nil {
		g.Go(func() error {
			ticker := time.NewTicker(poolStatsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					infra.Redis.RecordPoolStats()
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
