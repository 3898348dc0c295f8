package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"healthbridge/internal/audit"
	auditpg "healthbridge/internal/audit/store/postgres"
	"healthbridge/internal/audit/stream"
	"healthbridge/internal/grants/service"
	"healthbridge/internal/grants/store"
	"healthbridge/internal/identity/adapters/cache"
	"healthbridge/internal/identity/adapters/remote"
	identitystore "healthbridge/internal/identity/store"
	"healthbridge/internal/platform/config"
	"healthbridge/internal/platform/database"
	"healthbridge/internal/platform/health"
	"healthbridge/internal/platform/kafka/producer"
	redisclient "healthbridge/internal/platform/redis"
	"healthbridge/internal/seeder"
	"healthbridge/migrations"
	"healthbridge/pkg/platform/circuit"
)

// infra holds the storage and messaging backends chosen by configuration.
// Postgres, Redis and Kafka are each optional; without a database the
// in-memory stores are used.
type infra struct {
	Grants    service.Store
	Directory service.PatientDirectory
	Roster    service.Roster
	Audit     *audit.Publisher
	Redis     *redisclient.Client

	closers []func()
}

func (i *infra) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		i.closers[n]()
	}
}

func buildInfra(ctx context.Context, cfg config.Server, reg prometheus.Registerer, checks *health.Handler, log *slog.Logger) (_ *infra, err error) {
	out := &infra{}
	defer func() {
		if err != nil {
			out.Close()
		}
	}()

	var (
		directory  seeder.DirectoryWriter
		lookup     service.PatientDirectory
		auditStore audit.Store
	)

	if cfg.Database.URL != "" {
		pool, err := database.New(ctx, database.FromSettings(cfg.Database))
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		out.closers = append(out.closers, func() { _ = pool.Close() })
		if err := pool.RegisterMetrics(reg, "healthbridge"); err != nil {
			log.Warn("failed to register db metrics", "error", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, pool.DB(), migrations.FS, log); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		checks.RegisterCheck("postgres", pool.Health)

		pgDirectory := identitystore.NewPostgres(pool.DB())
		out.Grants = store.NewPostgres(pool.DB())
		directory, lookup = pgDirectory, pgDirectory
		out.Roster = pgDirectory
		auditStore = auditpg.New(pool.DB())
		log.Info("using postgres storage")
	} else {
		memDirectory := identitystore.NewInMemory()
		out.Grants = store.NewInMemory()
		directory, lookup = memDirectory, memDirectory
		out.Roster = memDirectory
		auditStore = audit.NewInMemoryStore()
		log.Info("using in-memory storage")
	}

	if cfg.Identity.Seed {
		if err := seeder.New(directory, log).SeedAll(ctx); err != nil {
			return nil, fmt.Errorf("seed directory: %w", err)
		}
	}

	if cfg.Identity.RemoteURL != "" {
		breaker := circuit.New("identity-registry",
			circuit.WithStateChangeHook(func(name string, from, to circuit.State) {
				log.Warn("circuit breaker state change", "breaker", name, "from", from, "to", to)
			}),
		)
		lookup = remote.New(remote.DefaultConfig(cfg.Identity.RemoteURL),
			remote.WithBreaker(breaker),
			remote.WithLogger(log),
		)
		log.Info("using remote patient directory", "url", cfg.Identity.RemoteURL)
	}

	rc, err := redisclient.New(ctx, cfg.Redis, reg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rc != nil {
		out.Redis = rc
		out.closers = append(out.closers, func() { _ = rc.Close() })
		checks.RegisterCheck("redis", rc.Health)
		lookup = cache.New(lookup, rc.Client,
			cache.WithTTL(cfg.Identity.CacheTTL),
			cache.WithLogger(log),
			cache.WithMetrics(cache.NewMetrics(reg)),
		)
	}
	out.Directory = lookup

	publisherOpts := []audit.PublisherOption{
		audit.WithPublisherLogger(log),
		audit.WithPublisherMetrics(audit.NewMetrics(reg)),
	}
	if cfg.Audit.Buffer > 0 {
		publisherOpts = append(publisherOpts, audit.WithAsyncBuffer(cfg.Audit.Buffer))
	}
	if cfg.Kafka.Brokers != "" {
		prodCfg := producer.DefaultConfig()
		prodCfg.Brokers = cfg.Kafka.Brokers
		prod, err := producer.New(prodCfg, log)
		if err != nil {
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		out.closers = append(out.closers, prod.Close)
		checks.RegisterCheck("kafka", prod.Health)
		publisherOpts = append(publisherOpts, audit.WithMirror(stream.NewKafkaSink(prod, cfg.Kafka.AuditTopic)))
	}
	out.Audit = audit.NewPublisher(auditStore, publisherOpts...)
	out.closers = append(out.closers, out.Audit.Close)

	return out, nil
}
