package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	studymetrics "studycat/internal/study/metrics"
	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	"studycat/pkg/platform/audit"
	"studycat/pkg/platform/tx"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

const tracerName = "studycat/internal/study/service"

// DefaultValidateConcurrency bounds ValidateRecords workers.
const DefaultValidateConcurrency = 8

type StudyStore interface {
	CreateIfNameAvailable(ctx context.Context, s *models.Study) error
	FindByID(ctx context.Context, studyID id.StudyID) (*models.Study, error)
	FindByName(ctx context.Context, name string) (*models.Study, error)
	List(ctx context.Context) ([]*models.Study, error)
	Execute(ctx context.Context, studyID id.StudyID, validate func(*models.Study) error, mutate func(*models.Study)) (*models.Study, error)
	Delete(ctx context.Context, studyID id.StudyID) error
}

type GenomeStore interface {
	Register(ctx context.Context, studyID id.StudyID, accessions []id.Accession) ([]id.Accession, error)
	ListByStudy(ctx context.Context, studyID id.StudyID) ([]*models.Genome, error)
	ListAccessions(ctx context.Context, studyID id.StudyID) ([]id.Accession, error)
	SetField(ctx context.Context, studyID id.StudyID, field string, values map[id.Accession]*models.FieldValue) (int, error)
	ResetRepresentatives(ctx context.Context, studyID id.StudyID) error
	AssignRepresentatives(ctx context.Context, studyID id.StudyID, assignments map[id.Accession]id.Accession) error
	DeleteByStudy(ctx context.Context, studyID id.StudyID) error
}

// StoreTx runs a function so that every store call made with the context it
// receives commits or rolls back together.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type serviceConfig struct {
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *studymetrics.Metrics
	tx             StoreTx
	tracer         trace.Tracer
	concurrency    int
}

type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(c *serviceConfig) {
		c.auditPublisher = publisher
	}
}

func WithMetrics(m *studymetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithTx sets the transaction runner. Postgres deployments pass tx.NewPostgres
// so store writes and outbox rows share one transaction.
func WithTx(storeTx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = storeTx
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = tracer
	}
}

// WithValidateConcurrency sets how many records ValidateRecords parses at once.
func WithValidateConcurrency(n int) Option {
	return func(c *serviceConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// Service orchestrates the study catalog: provenance records and the genomes
// recovered by each study.
type Service struct {
	studies      StudyStore
	genomes      GenomeStore
	tx           StoreTx
	auditEmitter *auditEmitter
	metrics      *studymetrics.Metrics
	logger       *slog.Logger
	tracer       trace.Tracer
	concurrency  int
}

func New(studies StudyStore, genomes GenomeStore, opts ...Option) *Service {
	cfg := &serviceConfig{concurrency: DefaultValidateConcurrency}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tx == nil {
		cfg.tx = tx.NewLocal()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(tracerName)
	}
	return &Service{
		studies:      studies,
		genomes:      genomes,
		tx:           cfg.tx,
		auditEmitter: newAuditEmitter(cfg.logger, cfg.auditPublisher),
		metrics:      cfg.metrics,
		logger:       cfg.logger,
		tracer:       cfg.tracer,
		concurrency:  cfg.concurrency,
	}
}

// start opens a span and returns a finisher that records the outcome in both
// the span and the operation histogram.
func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	begin := time.Now()
	ctx, span := s.tracer.Start(ctx, "study."+op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
		s.metrics.ObserveOperation(op, begin)
	}
}

func studyAttr(studyID id.StudyID) attribute.KeyValue {
	return attribute.String("study.id", studyID.String())
}
