package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "studycat/internal/jwt_token"
	"studycat/internal/platform/metrics"
	"studycat/internal/platform/middleware"
	rlmiddleware "studycat/internal/ratelimit/middleware"
	rlmodels "studycat/internal/ratelimit/models"
	"studycat/internal/ratelimit/store/bucket"
	studyhandler "studycat/internal/study/handler"
	studymetrics "studycat/internal/study/metrics"
	"studycat/internal/study/service"
	genomestore "studycat/internal/study/store/genome"
	studystore "studycat/internal/study/store/study"
	id "studycat/pkg/domain"
	"studycat/pkg/platform/audit/publisher"
	auditmemory "studycat/pkg/platform/audit/store/memory"
	"studycat/pkg/testutil"
)

const record = "study_description\tCSG\nsequencing_platform\tIllumina\nread_files\t*.fq\n" +
	"qc_program\tTrimmomatic v0.36\nassembly_program\tCLC\ngap_filling_program\tAbyss-sealer\n" +
	"mapping_program\tBamM\nbinning_program\tMetaBAT v2\nscaffolding_program\tFinishM\n" +
	"genome_assessment_program\tCheckM v1.0.4\nrefinement_description\tRefineM\ngenome_coverage\n"

type stack struct {
	router http.Handler
	token  string
	audit  *auditmemory.InMemoryStore
}

func newStack(t *testing.T, checks map[string]HealthCheck, opts ...studyhandler.Option) stack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	auditStore := auditmemory.NewInMemoryStore()

	svc := service.New(studystore.NewInMemory(), genomestore.NewInMemory(),
		service.WithLogger(logger),
		service.WithMetrics(studymetrics.New(reg)),
		service.WithAuditPublisher(publisher.NewPublisher(auditStore, publisher.WithLogger(logger))),
	)
	jwtSvc := jwttoken.NewJWTService("test-key", "studycat", "studycat-curators")
	token, err := jwtSvc.GenerateToken(id.CuratorID(uuid.New()), id.APIVersionV1, time.Hour)
	require.NoError(t, err)

	router := NewRouter(Deps{
		Logger:   logger,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Checks:   checks,
		V1: []Mounter{
			studyhandler.New(svc, logger, jwttoken.NewValidatorAdapter(jwtSvc), opts...),
		},
	})
	return stack{router: router, token: token, audit: auditStore}
}

func TestHealth(t *testing.T) {
	t.Run("no checks is ok", func(t *testing.T) {
		s := newStack(t, nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("failing check degrades", func(t *testing.T) {
		s := newStack(t, map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

		resp := testutil.UnmarshalResponse[healthResponse](t, rr)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "ok", resp.Checks["postgres"])
		assert.Equal(t, "dial tcp: refused", resp.Checks["redis"])
	})
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newStack(t, nil)

	req := testutil.NewRequest(t, http.MethodGet, "/health")
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rr := testutil.DoRequest(s.router, req)
	assert.Equal(t, "req-42", rr.Header().Get(middleware.RequestIDHeader))

	rr = testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/health"))
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestStudyRoutesAreVersioned(t *testing.T) {
	s := newStack(t, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/studies"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/v1/studies"))
	testutil.AssertStatusOK(t, rr)
}

func TestWritesRequireCuratorToken(t *testing.T) {
	s := newStack(t, nil)

	rr := testutil.DoRequest(s.router, testutil.NewTextRequest(t, http.MethodPost, "/v1/studies?name=csg", record))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req := testutil.WithBearer(testutil.NewTextRequest(t, http.MethodPost, "/v1/studies?name=csg", record), "not-a-jwt")
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req = testutil.WithBearer(testutil.NewTextRequest(t, http.MethodPost, "/v1/studies?name=csg", record), s.token)
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	testutil.AssertJSONContains(t, rr, "name", "csg")
	assert.Equal(t, 1, s.audit.Len())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newStack(t, nil)
	testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/v1/studies"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
	body := string(testutil.ReadBody(t, rr))
	assert.True(t, strings.Contains(body, "studycat_http_requests_total"))
	assert.True(t, strings.Contains(body, `route="/v1/studies"`))
}

func TestReadsAreRateLimitedPerClient(t *testing.T) {
	limiter := rlmiddleware.New(bucket.NewInMemoryBucketStore(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		rlmiddleware.WithLimit(rlmodels.ClassRead, rlmodels.Limit{Requests: 2, Window: time.Minute}),
	)
	s := newStack(t, nil, studyhandler.WithRateLimiter(limiter))
	list := func(ip string) *http.Request {
		req := testutil.NewRequest(t, http.MethodGet, "/v1/studies")
		req.Header.Set("X-Forwarded-For", ip)
		return req
	}

	for range 2 {
		testutil.AssertStatusOK(t, testutil.DoRequest(s.router, list("203.0.113.5")))
	}
	rr := testutil.DoRequest(s.router, list("203.0.113.5"))
	testutil.AssertStatus(t, rr, http.StatusTooManyRequests)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))

	testutil.AssertStatusOK(t, testutil.DoRequest(s.router, list("203.0.113.6")))
	testutil.AssertStatusOK(t, testutil.DoRequest(s.router, testutil.NewRequest(t, http.MethodGet, "/health")))
}
