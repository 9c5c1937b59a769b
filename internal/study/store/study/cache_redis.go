package study

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	studymetrics "studycat/internal/study/metrics"
	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	"studycat/pkg/platform/circuit"
	"studycat/pkg/platform/tx"
)

const studyKeyPrefix = "studycat:study:"

// Backend is the store the cache reads through to.
type Backend interface {
	CreateIfNameAvailable(ctx context.Context, s *models.Study) error
	FindByID(ctx context.Context, studyID id.StudyID) (*models.Study, error)
	FindByName(ctx context.Context, name string) (*models.Study, error)
	List(ctx context.Context) ([]*models.Study, error)
	Execute(ctx context.Context, studyID id.StudyID, validate func(*models.Study) error, mutate func(*models.Study)) (*models.Study, error)
	Delete(ctx context.Context, studyID id.StudyID) error
}

// Cached caches FindByID results in Redis. Writes go to the backend first and
// evict the key once the surrounding transaction commits, so a reader cannot
// re-cache the pre-commit row after the evict. Redis failures never fail a call: the breaker opens
// after repeated errors and lookups go straight to the backend until Redis
// answers again.
type Cached struct {
	backend Backend
	client  *redis.Client
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *studymetrics.Metrics
}

type CachedOption func(*Cached)

func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(c *Cached) { c.logger = logger }
}

func WithCacheMetrics(m *studymetrics.Metrics) CachedOption {
	return func(c *Cached) { c.metrics = m }
}

func WithBreaker(b *circuit.Breaker) CachedOption {
	return func(c *Cached) { c.breaker = b }
}

func NewCached(backend Backend, client *redis.Client, ttl time.Duration, opts ...CachedOption) *Cached {
	c := &Cached{
		backend: backend,
		client:  client,
		ttl:     ttl,
		breaker: circuit.New("study-cache"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cached) CreateIfNameAvailable(ctx context.Context, s *models.Study) error {
	return c.backend.CreateIfNameAvailable(ctx, s)
}

func (c *Cached) FindByID(ctx context.Context, studyID id.StudyID) (*models.Study, error) {
	if c.breaker.IsOpen() {
		c.metrics.RecordCacheLookup("bypass")
		s, err := c.backend.FindByID(ctx, studyID)
		if err == nil {
			c.store(ctx, s)
		}
		return s, err
	}

	raw, err := c.client.Get(ctx, studyKey(studyID)).Bytes()
	switch {
	case err == nil:
		var doc document
		if jsonErr := json.Unmarshal(raw, &doc); jsonErr == nil {
			c.recordSuccess()
			c.metrics.RecordCacheLookup("hit")
			return doc.study(), nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cached study", "study_id", studyID.String())
	case errors.Is(err, redis.Nil):
		c.recordSuccess()
	default:
		c.recordFailure(ctx, err)
	}
	c.metrics.RecordCacheLookup("miss")

	s, err := c.backend.FindByID(ctx, studyID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, s)
	return s, nil
}

func (c *Cached) FindByName(ctx context.Context, name string) (*models.Study, error) {
	return c.backend.FindByName(ctx, name)
}

func (c *Cached) List(ctx context.Context) ([]*models.Study, error) {
	return c.backend.List(ctx)
}

func (c *Cached) Execute(ctx context.Context, studyID id.StudyID, validate func(*models.Study) error, mutate func(*models.Study)) (*models.Study, error) {
	s, err := c.backend.Execute(ctx, studyID, validate, mutate)
	if err != nil {
		return nil, err
	}
	c.evictAfterCommit(ctx, studyID)
	return s, nil
}

func (c *Cached) Delete(ctx context.Context, studyID id.StudyID) error {
	if err := c.backend.Delete(ctx, studyID); err != nil {
		return err
	}
	c.evictAfterCommit(ctx, studyID)
	return nil
}

// store writes s to Redis. With the breaker open it doubles as the probe that
// lets the breaker close again.
func (c *Cached) store(ctx context.Context, s *models.Study) {
	body, err := json.Marshal(toDocument(s))
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, studyKey(s.ID), body, c.ttl).Err(); err != nil {
		c.recordFailure(ctx, err)
		return
	}
	c.recordSuccess()
}

func (c *Cached) evictAfterCommit(ctx context.Context, studyID id.StudyID) {
	evictCtx := context.WithoutCancel(ctx)
	tx.AfterCommit(ctx, func() { c.evict(evictCtx, studyID) })
}

// evict runs even with the breaker open. A failed evict leaves the entry to
// expire with its TTL.
func (c *Cached) evict(ctx context.Context, studyID id.StudyID) {
	if err := c.client.Del(ctx, studyKey(studyID)).Err(); err != nil {
		c.recordFailure(ctx, err)
		c.logger.WarnContext(ctx, "failed to evict cached study", "study_id", studyID.String(), "error", err)
		return
	}
	c.recordSuccess()
}

func (c *Cached) recordFailure(ctx context.Context, err error) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.metrics.SetCacheBreakerOpen(true)
		c.logger.WarnContext(ctx, "study cache circuit opened", "error", err)
	}
}

func (c *Cached) recordSuccess() {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.metrics.SetCacheBreakerOpen(false)
		c.logger.Info("study cache circuit closed")
	}
}

func studyKey(studyID id.StudyID) string {
	return studyKeyPrefix + studyID.String()
}
