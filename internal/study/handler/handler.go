package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"studycat/internal/platform/middleware"
	rlmodels "studycat/internal/ratelimit/models"
	"studycat/internal/study/models"
	"studycat/internal/study/service"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
	"studycat/pkg/platform/httputil"
	"studycat/pkg/platform/middleware/version"
	"studycat/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// MaxUploadBytes bounds record, metadata and cluster file uploads.
const MaxUploadBytes = 32 << 20

// Service defines the study catalog operations exposed over HTTP.
type Service interface {
	CreateStudy(ctx context.Context, name string, raw io.Reader) (*models.Study, error)
	GetStudy(ctx context.Context, studyID id.StudyID) (*models.Study, error)
	GetStudyByName(ctx context.Context, name string) (*models.Study, error)
	ListStudies(ctx context.Context) ([]*models.Study, error)
	UpdateField(ctx context.Context, studyID id.StudyID, key, value string) (*models.Study, error)
	DeleteStudy(ctx context.Context, studyID id.StudyID) error
	ExportRecord(ctx context.Context, studyID id.StudyID, w io.Writer, format service.ExportFormat) error
	RegisterGenomes(ctx context.Context, studyID id.StudyID, accessions []string) (*service.RegisterResult, error)
	ListGenomes(ctx context.Context, studyID id.StudyID) ([]*models.Genome, error)
	ImportField(ctx context.Context, studyID id.StudyID, req service.ImportRequest) (*service.ImportResult, error)
	AssignRepresentatives(ctx context.Context, studyID id.StudyID, clusters io.Reader) (*service.RepresentativeResult, error)
	FilterGenomes(ctx context.Context, studyID id.StudyID, filter models.QualityFilter) (*models.FilterResult, error)
	ValidateRecord(ctx context.Context, name string, raw io.Reader) service.Validation
}

// RateLimiter throttles a class of endpoints.
type RateLimiter interface {
	RateLimit(class rlmodels.EndpointClass) func(http.Handler) http.Handler
}

// Handler wires study endpoints to the study service.
type Handler struct {
	service   Service
	logger    *slog.Logger
	validator middleware.TokenValidator
	limiter   RateLimiter
}

type Option func(*Handler)

// WithRateLimiter throttles reads, validation and curator writes separately.
func WithRateLimiter(l RateLimiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// New constructs a study handler. Write endpoints require a curator token
// accepted by validator.
func New(svc Service, logger *slog.Logger, validator middleware.TokenValidator, opts ...Option) *Handler {
	h := &Handler{
		service:   svc,
		logger:    logger,
		validator: validator,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the study endpoints on a versioned router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(rd chi.Router) {
		rd.Use(h.limit(rlmodels.ClassRead))
		rd.Get("/studies", h.HandleListStudies)
		rd.Get("/studies/by-name/{name}", h.HandleGetStudyByName)
		rd.Get("/studies/{studyID}", h.HandleGetStudy)
		rd.Get("/studies/{studyID}/record", h.HandleExportRecord)
		rd.Get("/studies/{studyID}/genomes", h.HandleListGenomes)
		rd.Get("/studies/{studyID}/genomes/quality", h.HandleFilterGenomes)
	})
	r.With(h.limit(rlmodels.ClassValidate)).Post("/records/validate", h.HandleValidateRecord)

	r.Group(func(w chi.Router) {
		w.Use(middleware.RequireCurator(h.validator, h.logger))
		w.Use(version.ValidateTokenVersion(h.logger))
		w.Use(h.limit(rlmodels.ClassWrite))
		w.Post("/studies", h.HandleCreateStudy)
		w.Put("/studies/{studyID}/fields/{key}", h.HandleUpdateField)
		w.Delete("/studies/{studyID}", h.HandleDeleteStudy)
		w.Post("/studies/{studyID}/genomes", h.HandleRegisterGenomes)
		w.Post("/studies/{studyID}/genomes/import", h.HandleImportField)
		w.Post("/studies/{studyID}/representatives", h.HandleAssignRepresentatives)
	})
}

// HandleCreateStudy handles POST /studies?name=. The body is the record text.
func (h *Handler) HandleCreateStudy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "name query parameter is required"))
		return
	}

	study, err := h.service.CreateStudy(ctx, name, h.upload(w, r))
	if err != nil {
		h.fail(ctx, w, "create study failed", err, "name", name)
		return
	}

	h.logger.InfoContext(ctx, "study created",
		"request_id", requestID,
		"study_id", study.ID,
		"curator_id", requestcontext.CuratorID(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, toStudyResponse(study))
}

func (h *Handler) HandleListStudies(w http.ResponseWriter, r *http.Request) {
	studies, err := h.service.ListStudies(r.Context())
	if err != nil {
		h.fail(r.Context(), w, "list studies failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStudySummaries(studies))
}

func (h *Handler) HandleGetStudy(w http.ResponseWriter, r *http.Request) {
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	study, err := h.service.GetStudy(r.Context(), studyID)
	if err != nil {
		h.fail(r.Context(), w, "get study failed", err, "study_id", studyID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStudyResponse(study))
}

func (h *Handler) HandleGetStudyByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	study, err := h.service.GetStudyByName(r.Context(), name)
	if err != nil {
		h.fail(r.Context(), w, "get study by name failed", err, "name", name)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStudyResponse(study))
}

// HandleExportRecord handles GET /studies/{studyID}/record?format=text|yaml.
func (h *Handler) HandleExportRecord(w http.ResponseWriter, r *http.Request) {
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	format, err := service.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportRecord(r.Context(), studyID, &buf, format); err != nil {
		h.fail(r.Context(), w, "export record failed", err, "study_id", studyID)
		return
	}

	contentType := "text/tab-separated-values; charset=utf-8"
	if format == service.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateFieldRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	study, err := h.service.UpdateField(ctx, studyID, key, *req.Value)
	if err != nil {
		h.fail(ctx, w, "update field failed", err, "study_id", studyID, "key", key)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStudyResponse(study))
}

func (h *Handler) HandleDeleteStudy(w http.ResponseWriter, r *http.Request) {
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteStudy(r.Context(), studyID); err != nil {
		h.fail(r.Context(), w, "delete study failed", err, "study_id", studyID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListGenomes(w http.ResponseWriter, r *http.Request) {
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	genomes, err := h.service.ListGenomes(r.Context(), studyID)
	if err != nil {
		h.fail(r.Context(), w, "list genomes failed", err, "study_id", studyID)
		return
	}
	if genomes == nil {
		genomes = []*models.Genome{}
	}
	httputil.WriteJSON(w, http.StatusOK, ListGenomesResponse{Genomes: genomes})
}

func (h *Handler) HandleRegisterGenomes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RegisterGenomesRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	result, err := h.service.RegisterGenomes(ctx, studyID, req.Accessions)
	if err != nil {
		h.fail(ctx, w, "register genomes failed", err, "study_id", studyID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleImportField handles POST /studies/{studyID}/genomes/import?field=&type=.
// The body is an accession<TAB>value file.
func (h *Handler) HandleImportField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	field, fieldType, err := parseImportQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.ImportField(ctx, studyID, service.ImportRequest{
		Field: field,
		Type:  fieldType,
		Data:  h.upload(w, r),
	})
	if err != nil {
		h.fail(ctx, w, "import field failed", err, "study_id", studyID, "field", field)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleAssignRepresentatives(w http.ResponseWriter, r *http.Request) {
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	result, err := h.service.AssignRepresentatives(r.Context(), studyID, h.upload(w, r))
	if err != nil {
		h.fail(r.Context(), w, "assign representatives failed", err, "study_id", studyID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleFilterGenomes handles GET /studies/{studyID}/genomes/quality. Query
// parameters override the default thresholds.
func (h *Handler) HandleFilterGenomes(w http.ResponseWriter, r *http.Request) {
	studyID, ok := h.studyID(w, r)
	if !ok {
		return
	}
	filter, err := parseQualityFilter(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.FilterGenomes(r.Context(), studyID, filter)
	if err != nil {
		h.fail(r.Context(), w, "filter genomes failed", err, "study_id", studyID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleValidateRecord checks a record body without storing it.
func (h *Handler) HandleValidateRecord(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "record"
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.ValidateRecord(r.Context(), name, h.upload(w, r)))
}

func (h *Handler) limit(class rlmodels.EndpointClass) func(http.Handler) http.Handler {
	if h.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return h.limiter.RateLimit(class)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, MaxUploadBytes)
}

func (h *Handler) studyID(w http.ResponseWriter, r *http.Request) (id.StudyID, bool) {
	studyID, err := parseStudyID(chi.URLParam(r, "studyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.StudyID{}, false
	}
	return studyID, true
}

// fail logs at error level for internal failures and warn otherwise, then
// writes the error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append(attrs, "request_id", requestcontext.RequestID(ctx), "error", err)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
