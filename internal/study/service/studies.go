package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"studycat/internal/record"
	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
	"studycat/pkg/platform/sentinel"
	"studycat/pkg/requestcontext"
)

// ExportFormat selects the encoding used by ExportRecord.
type ExportFormat string

const (
	FormatText ExportFormat = "text"
	FormatYAML ExportFormat = "yaml"
)

// ParseExportFormat accepts "", "text", "tsv" and "yaml".
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "tsv":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported export format: "+s)
	}
}

// CreateStudy parses raw as a provenance record and stores it under name.
// A record missing any known key is rejected.
func (s *Service) CreateStudy(ctx context.Context, name string, raw io.Reader) (_ *models.Study, err error) {
	ctx, end := s.start(ctx, "create_study", attribute.String("study.name", name))
	defer func() { end(&err) }()

	rec, err := parseRecord(raw)
	if err != nil {
		return nil, err
	}
	if rep := record.Validate(rec); !rep.OK() {
		return nil, dErrors.New(dErrors.CodeValidation, "record is missing known keys: "+strings.Join(rep.Missing, ", "))
	}

	study, err := models.NewStudy(id.NewStudyID(), name, rec, requestcontext.CuratorID(ctx), requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.studies.CreateIfNameAvailable(txCtx, study); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) || dErrors.HasCode(err, dErrors.CodeConflict) {
				return dErrors.New(dErrors.CodeConflict, "study name must be unique")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create study")
		}
		return s.auditEmitter.emitStudyCreated(txCtx, studyRef{id: study.ID, name: study.Name})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStudyCreated()
	s.logger.InfoContext(ctx, "study created", "study_id", study.ID, "name", study.Name)
	return study, nil
}

func (s *Service) GetStudy(ctx context.Context, studyID id.StudyID) (*models.Study, error) {
	if err := requireStudyID(studyID); err != nil {
		return nil, err
	}
	study, err := s.studies.FindByID(ctx, studyID)
	if err != nil {
		return nil, wrapStudyErr(err, "load study")
	}
	return study, nil
}

// GetStudyByName looks a study up case-insensitively.
func (s *Service) GetStudyByName(ctx context.Context, name string) (*models.Study, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "study name is required")
	}
	study, err := s.studies.FindByName(ctx, name)
	if err != nil {
		return nil, wrapStudyErr(err, "load study")
	}
	return study, nil
}

// ListStudies returns every study ordered by name.
func (s *Service) ListStudies(ctx context.Context) ([]*models.Study, error) {
	studies, err := s.studies.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list studies")
	}
	return studies, nil
}

// UpdateField sets one record field and bumps the study revision.
func (s *Service) UpdateField(ctx context.Context, studyID id.StudyID, key, value string) (_ *models.Study, err error) {
	ctx, end := s.start(ctx, "update_field", studyAttr(studyID), attribute.String("record.key", key))
	defer func() { end(&err) }()

	if err := requireStudyID(studyID); err != nil {
		return nil, err
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	var updated *models.Study
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		st, err := s.studies.Execute(txCtx, studyID,
			func(st *models.Study) error {
				return st.CanSetField(key, value)
			},
			func(st *models.Study) {
				st.ApplyFieldUpdate(key, value, now)
			},
		)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return toValidation(err)
			}
			return wrapStudyErr(err, "update study")
		}
		updated = st
		return s.auditEmitter.emitFieldUpdated(txCtx, studyID, key, st.Revision)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncFieldUpdated()
	return updated, nil
}

// DeleteStudy removes a study together with its genomes.
func (s *Service) DeleteStudy(ctx context.Context, studyID id.StudyID) (err error) {
	ctx, end := s.start(ctx, "delete_study", studyAttr(studyID))
	defer func() { end(&err) }()

	if err := requireStudyID(studyID); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		study, err := s.studies.FindByID(txCtx, studyID)
		if err != nil {
			return wrapStudyErr(err, "load study")
		}
		if err := s.genomes.DeleteByStudy(txCtx, studyID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete genomes")
		}
		if err := s.studies.Delete(txCtx, studyID); err != nil {
			return wrapStudyErr(err, "delete study")
		}
		return s.auditEmitter.emitStudyDeleted(txCtx, studyRef{id: study.ID, name: study.Name})
	})
}

// ExportRecord writes the stored record to w.
func (s *Service) ExportRecord(ctx context.Context, studyID id.StudyID, w io.Writer, format ExportFormat) error {
	study, err := s.GetStudy(ctx, studyID)
	if err != nil {
		return err
	}
	switch format {
	case FormatYAML:
		err = record.EncodeYAML(w, study.Record)
	default:
		err = record.Encode(w, study.Record)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to export record")
	}
	return nil
}

func parseRecord(raw io.Reader) (*record.Record, error) {
	if raw == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "record body is required")
	}
	rec, err := record.Parse(raw)
	if err != nil {
		var pe *record.ParseError
		if errors.As(err, &pe) {
			return nil, toValidation(err)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read record")
	}
	if rec.Len() == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "record is empty")
	}
	return rec, nil
}
