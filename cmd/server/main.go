package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	bailhandler "nyaya/internal/bail/handler"
	bailservice "nyaya/internal/bail/service"
	bailstore "nyaya/internal/bail/store"
	compliancehandler "nyaya/internal/compliance/handler"
	compliancemetrics "nyaya/internal/compliance/metrics"
	complianceservice "nyaya/internal/compliance/service"
	"nyaya/internal/compliance/store/memory"
	pgstore "nyaya/internal/compliance/store/postgres"
	redisstore "nyaya/internal/compliance/store/redis"
	"nyaya/internal/digest"
	jwttoken "nyaya/internal/jwt_token"
	"nyaya/internal/ledger"
	ledgerhandler "nyaya/internal/ledger/handler"
	ledgermetrics "nyaya/internal/ledger/metrics"
	"nyaya/internal/platform/config"
	"nyaya/internal/platform/httpserver"
	kafkaconsumer "nyaya/internal/platform/kafka/consumer"
	"nyaya/internal/platform/kafka/producer"
	"nyaya/internal/platform/logger"
	"nyaya/internal/platform/metrics"
	"nyaya/internal/platform/postgres"
	redisclient "nyaya/internal/platform/redis"
	"nyaya/internal/report"
	httptransport "nyaya/internal/transport/http"
	"nyaya/pkg/platform/audit"
	auditconsumer "nyaya/pkg/platform/audit/consumer"
	compliancepub "nyaya/pkg/platform/audit/publishers/compliance"
	securitypub "nyaya/pkg/platform/audit/publishers/security"
	auditmemory "nyaya/pkg/platform/audit/store/memory"
	auditpg "nyaya/pkg/platform/audit/store/postgres"
	"nyaya/pkg/platform/audit/worker"
	txcontext "nyaya/pkg/platform/tx"
)

var version = "dev"

// deviceClockSkew tolerates field tablets whose clocks drift from the server.
const deviceClockSkew = 30 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load(os.Getenv("NYAYA_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New(version)
	health := map[string]httptransport.HealthCheck{}

	hasher, err := digest.ByName(cfg.Ledger.Digest)
	if err != nil {
		return err
	}
	chain, err := ledger.New(hasher,
		ledger.WithLogger(log),
		ledger.WithMetrics(ledgermetrics.NewWithRegisterer(m.Registry)),
	)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	health["ledger"] = chain.Health

	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = postgres.Open(ctx, postgres.Config{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.MigrateUp(db); err != nil {
			return err
		}
		health["postgres"] = db.PingContext
	}

	// Compliance stores.
	var (
		evidence complianceservice.EvidenceStore
		records  complianceservice.ComplianceStore
	)
	switch cfg.Compliance.Store {
	case config.StorePostgres:
		s := pgstore.New(db)
		evidence, records = s, s
	default:
		s := memory.New()
		evidence, records = s, s
	}
	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		records = redisstore.New(rdb.Client, records,
			redisstore.WithTTL(cfg.Redis.CacheTTL),
			redisstore.WithLogger(log),
			redisstore.WithRegisterer(m.Registry),
		)
		health["redis"] = rdb.Health
	}

	// Audit: outbox in postgres when available.
	var (
		events   audit.Store
		pgAudit  *auditpg.Store
		auditLog report.AuditReader
	)
	if db != nil {
		pgAudit = auditpg.New(db)
		events, auditLog = pgAudit, pgAudit
	} else {
		mem := auditmemory.NewInMemoryStore()
		events, auditLog = mem, mem
	}
	publisher := compliancepub.New(events,
		compliancepub.WithLogger(log),
		compliancepub.WithMetrics(compliancepub.NewMetrics(m.Registry)),
	)
	alerts := securitypub.New(events, securitypub.WithLogger(log))
	defer alerts.Close()

	// State writes and their audit rows commit together.
	var storeTx txcontext.Runner = txcontext.MemoryRunner{}
	if db != nil {
		storeTx = txcontext.NewSQLRunner(db)
	}

	complianceSvc := complianceservice.New(evidence, records, chain,
		complianceservice.WithLogger(log),
		complianceservice.WithAuditPublisher(publisher),
		complianceservice.WithSecurityAuditor(alerts),
		complianceservice.WithMetrics(compliancemetrics.NewWithRegisterer(m.Registry)),
		complianceservice.WithStoreTx(storeTx),
	)
	bailSvc := bailservice.New(bailstore.New(), chain,
		bailservice.WithLogger(log),
		bailservice.WithAuditPublisher(publisher),
		bailservice.WithStoreTx(storeTx),
	)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "nyaya", "nyaya-api",
		jwttoken.WithLeeway(deviceClockSkew))
	ledgerH := ledgerhandler.New(chain, log, ledgerhandler.WithSecurityAuditor(alerts))
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Validator: jwttoken.NewJWTServiceAdapter(jwtService),
		Modules: []httptransport.Module{
			compliancehandler.New(complianceSvc, log),
			ledgerH,
			bailhandler.New(bailSvc, log),
			report.NewHandler(report.NewGenerator(complianceSvc, chain, auditLog, log), log),
		},
		Admin:   []httptransport.Module{httptransport.ModuleFunc(ledgerH.RegisterAdmin)},
		Metrics: m.Handler(),
		Health:  health,
	})

	g, gctx := errgroup.WithContext(ctx)

	if len(cfg.Kafka.Brokers) > 0 {
		if err := startAuditRelay(gctx, g, cfg.Kafka, pgAudit, log, health); err != nil {
			return err
		}
	}

	srv := httpserver.New(cfg.Server.Addr, router)
	g.Go(func() error {
		log.Info("starting nyaya", "addr", cfg.Server.Addr, "version", version, "store", cfg.Compliance.Store)
		m.SetReady(true)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		m.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startAuditRelay publishes the outbox to Kafka and materializes consumed
// events into audit_events for the review report.
func startAuditRelay(ctx context.Context, g *errgroup.Group, cfg config.Kafka, outbox *auditpg.Store, log *slog.Logger, health map[string]httptransport.HealthCheck) error {
	prod, err := producer.New(ctx, cfg.Brokers)
	if err != nil {
		return err
	}
	if err := prod.EnsureTopics(ctx,
		producer.TopicSpec{Name: cfg.AuditTopic, Partitions: 3},
		producer.TopicSpec{Name: cfg.SecurityTopic, Partitions: 1},
	); err != nil {
		prod.Close()
		return err
	}
	health["kafka"] = prod.Health

	relay := worker.NewWorker(outbox, prod, worker.Topics{
		audit.CategoryCompliance: cfg.AuditTopic,
		audit.CategorySecurity:   cfg.SecurityTopic,
		audit.CategoryOperations: cfg.AuditTopic,
	}, log, worker.WithInterval(cfg.PollInterval), worker.WithBatchSize(cfg.BatchSize))

	topics := auditconsumer.NewRouter(log).
		Route(cfg.AuditTopic, auditconsumer.NewComplianceHandler(outbox, log)).
		Route(cfg.SecurityTopic, auditconsumer.NewSecurityHandler(outbox, log))
	cons, err := kafkaconsumer.New(kafkaconsumer.Config{
		Brokers: cfg.Brokers,
		GroupID: cfg.ConsumerGroup,
		Topics:  topics.Topics(),
	}, topics, log)
	if err != nil {
		prod.Close()
		return err
	}

	g.Go(func() error {
		defer prod.Close()
		return relay.Run(ctx)
	})
	g.Go(func() error {
		defer cons.Close()
		return cons.Run(ctx)
	})
	return nil
}
