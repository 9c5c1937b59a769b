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
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	httpapi "studycat/internal/http"
	jwttoken "studycat/internal/jwt_token"
	"studycat/internal/platform/config"
	"studycat/internal/platform/httpserver"
	"studycat/internal/platform/logger"
	"studycat/internal/platform/metrics"
	"studycat/internal/platform/postgres"
	"studycat/internal/platform/redis"
	rlmetrics "studycat/internal/ratelimit/metrics"
	rlmiddleware "studycat/internal/ratelimit/middleware"
	rlmodels "studycat/internal/ratelimit/models"
	"studycat/internal/ratelimit/store/bucket"
	studyhandler "studycat/internal/study/handler"
	studymetrics "studycat/internal/study/metrics"
	"studycat/internal/study/service"
	genomestore "studycat/internal/study/store/genome"
	studystore "studycat/internal/study/store/study"
	"studycat/pkg/platform/audit"
	"studycat/pkg/platform/audit/publisher"
	auditmemory "studycat/pkg/platform/audit/store/memory"
	auditpostgres "studycat/pkg/platform/audit/store/postgres"
	"studycat/pkg/platform/audit/worker"
	"studycat/pkg/platform/tx"
)

const (
	shutdownTimeout = 10 * time.Second
	txTimeout       = 10 * time.Second
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("studycat stopped", "error", err)
		os.Exit(1)
	}
}

// app holds the storage wiring chosen from config.
type app struct {
	studies   service.StudyStore
	genomes   service.GenomeStore
	tx        service.StoreTx
	audit     audit.Store
	outbox    worker.Outbox
	buckets   rlmiddleware.BucketStore
	checks    map[string]httpapi.HealthCheck
	closers   []func() error
	studyBase studystore.Backend
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	studyMetrics := studymetrics.New(reg)

	a, err := buildStorage(ctx, cfg, log, studyMetrics)
	if err != nil {
		return err
	}
	defer func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil {
				log.Warn("close failed", "error", err)
			}
		}
	}()

	auditPublisher := publisher.NewPublisher(a.audit, publisher.WithLogger(log))
	defer auditPublisher.Close()

	svc := service.New(a.studies, a.genomes,
		service.WithLogger(log),
		service.WithMetrics(studyMetrics),
		service.WithAuditPublisher(auditPublisher),
		service.WithTx(a.tx),
	)

	perMinute := func(n int) rlmodels.Limit { return rlmodels.Limit{Requests: n, Window: time.Minute} }
	limiter := rlmiddleware.New(a.buckets, log,
		rlmiddleware.WithDisabled(!cfg.RateLimit.Enabled),
		rlmiddleware.WithMetrics(rlmetrics.New(reg)),
		rlmiddleware.WithLimit(rlmodels.ClassRead, perMinute(cfg.RateLimit.ReadPerMinute)),
		rlmiddleware.WithLimit(rlmodels.ClassWrite, perMinute(cfg.RateLimit.WritePerMinute)),
		rlmiddleware.WithLimit(rlmodels.ClassValidate, perMinute(cfg.RateLimit.ValidatePerMinute)),
	)

	jwtSvc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   log,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Checks:   a.checks,
		V1: []httpapi.Mounter{
			studyhandler.New(svc, log, jwttoken.NewValidatorAdapter(jwtSvc),
				studyhandler.WithRateLimiter(limiter),
			),
		},
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting studycat", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := startRelay(gctx, g, cfg.Kafka, a.outbox, log); err != nil {
		return err
	}
	return g.Wait()
}

// buildStorage picks Postgres when DATABASE_URL is set and in-memory stores
// otherwise. Redis, when configured, caches study reads in front of either.
func buildStorage(ctx context.Context, cfg config.Server, log *slog.Logger, m *studymetrics.Metrics) (*app, error) {
	a := &app{
		checks:  map[string]httpapi.HealthCheck{},
		buckets: bucket.NewInMemoryBucketStore(),
	}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		auditStore := auditpostgres.New(db)
		a.studyBase = studystore.NewPostgres(db)
		a.genomes = genomestore.NewPostgres(db)
		a.tx = tx.NewPostgres(db, txTimeout)
		a.audit = auditStore
		a.outbox = auditStore
		a.checks["postgres"] = db.PingContext
		log.Info("using postgres storage")
	} else {
		a.studyBase = studystore.NewInMemory()
		a.genomes = genomestore.NewInMemory()
		a.tx = tx.NewLocal()
		a.audit = auditmemory.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}
	a.studies = a.studyBase

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		for _, c := range a.closers {
			_ = c()
		}
		return nil, err
	}
	if client != nil {
		a.closers = append(a.closers, client.Close)
		a.studies = studystore.NewCached(a.studyBase, client.Client, cfg.CacheTTL,
			studystore.WithCacheLogger(log),
			studystore.WithCacheMetrics(m),
		)
		a.buckets = bucket.NewRedis(client.Client)
		a.checks["redis"] = client.Health
		log.Info("study cache enabled", "ttl", cfg.CacheTTL)
	}
	return a, nil
}

// startRelay runs the audit outbox relay when brokers are configured. The
// relay needs the Postgres outbox.
func startRelay(ctx context.Context, g *errgroup.Group, cfg config.KafkaConfig, outbox worker.Outbox, log *slog.Logger) error {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	if outbox == nil {
		log.Warn("KAFKA_BROKERS set without DATABASE_URL, audit relay disabled")
		return nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return fmt.Errorf("kafka client: %w", err)
	}
	if err := worker.EnsureTopic(ctx, client, cfg.AuditTopic, 3, 1); err != nil {
		client.Close()
		return err
	}

	relay := worker.NewWorker(outbox, client, cfg.AuditTopic,
		worker.WithLogger(log),
		worker.WithInterval(cfg.PollInterval),
		worker.WithBatchSize(cfg.BatchSize),
	)
	g.Go(func() error {
		defer client.Close()
		log.Info("audit relay started", "topic", cfg.AuditTopic, "brokers", cfg.Brokers)
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	return nil
}
