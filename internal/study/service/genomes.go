package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"studycat/internal/record"
	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
	strutil "studycat/pkg/platform/strings"
)

// RegisterResult lists accessions that were new and those already known.
type RegisterResult struct {
	Added    []id.Accession `json:"added"`
	Existing []id.Accession `json:"existing"`
}

// ImportRequest carries one metadata file for a single genome field.
type ImportRequest struct {
	Field string
	Type  id.FieldType
	Data  io.Reader
}

// ImportResult reports which accessions took the new value. Skipped holds
// accessions from the file that are not registered in the study.
type ImportResult struct {
	Field   string   `json:"field"`
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
	Cleared int      `json:"cleared"`
}

// RepresentativeResult summarises a cluster file import.
type RepresentativeResult struct {
	Clusters        int      `json:"clusters"`
	Representatives int      `json:"representatives"`
	Assigned        int      `json:"assigned"`
	Skipped         []string `json:"skipped"`
}

// RegisterGenomes adds accessions to a study. Input is trimmed and
// deduplicated; accessions already registered are reported, not re-added.
func (s *Service) RegisterGenomes(ctx context.Context, studyID id.StudyID, accessions []string) (_ *RegisterResult, err error) {
	ctx, end := s.start(ctx, "register_genomes", studyAttr(studyID), attribute.Int("genomes.requested", len(accessions)))
	defer func() { end(&err) }()

	if _, err := s.GetStudy(ctx, studyID); err != nil {
		return nil, err
	}
	raw := strutil.DedupeAndTrim(accessions)
	if len(raw) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one accession is required")
	}
	parsed := make([]id.Accession, 0, len(raw))
	for _, a := range raw {
		acc, err := id.ParseAccession(a)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("accession %q: %s", a, dErrors.MessageOf(err)))
		}
		parsed = append(parsed, acc)
	}

	var added []id.Accession
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		added, err = s.genomes.Register(txCtx, studyID, parsed)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register genomes")
		}
		return s.auditEmitter.emitGenomesRegistered(txCtx, studyID, len(added))
	})
	if err != nil {
		return nil, err
	}

	isNew := make(map[id.Accession]struct{}, len(added))
	for _, a := range added {
		isNew[a] = struct{}{}
	}
	result := &RegisterResult{Added: added, Existing: []id.Accession{}}
	if result.Added == nil {
		result.Added = []id.Accession{}
	}
	for _, a := range parsed {
		if _, ok := isNew[a]; !ok {
			result.Existing = append(result.Existing, a)
		}
	}
	s.metrics.AddGenomesRegistered(len(added))
	return result, nil
}

// ListGenomes returns the study's genomes ordered by accession.
func (s *Service) ListGenomes(ctx context.Context, studyID id.StudyID) ([]*models.Genome, error) {
	if _, err := s.GetStudy(ctx, studyID); err != nil {
		return nil, err
	}
	genomes, err := s.genomes.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list genomes")
	}
	return genomes, nil
}

// ImportField sets one typed field from an accession<TAB>value file.
//
// Every value is coerced before anything is written, so a bad line leaves the
// study untouched. A blank value clears the field. When an accession appears
// more than once the last line wins.
func (s *Service) ImportField(ctx context.Context, studyID id.StudyID, req ImportRequest) (_ *ImportResult, err error) {
	field := strings.TrimSpace(req.Field)
	ctx, end := s.start(ctx, "import_field", studyAttr(studyID), attribute.String("genome.field", field))
	defer func() { end(&err) }()

	if err := record.ValidateKey(field); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid field name: "+err.Error())
	}
	if !req.Type.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid field type")
	}
	if req.Data == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "metadata file is required")
	}
	if _, err := s.GetStudy(ctx, studyID); err != nil {
		return nil, err
	}

	lines, err := models.ParseMetadataFile(req.Data)
	if err != nil {
		return nil, err
	}
	registered, err := s.accessionSet(ctx, studyID)
	if err != nil {
		return nil, err
	}

	values := make(map[id.Accession]*models.FieldValue)
	var skipped []string
	seenSkipped := make(map[string]struct{})
	for _, l := range lines {
		acc := l.Accession
		var v *models.FieldValue
		if strings.TrimSpace(l.Value) != "" {
			fv, err := models.CoerceFieldValue(req.Type, l.Value)
			if err != nil {
				return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("line %d: %s", l.Line, dErrors.MessageOf(err)))
			}
			v = &fv
		}
		if _, ok := registered[acc]; !ok {
			if _, dup := seenSkipped[string(acc)]; !dup {
				seenSkipped[string(acc)] = struct{}{}
				skipped = append(skipped, string(acc))
			}
			continue
		}
		values[acc] = v
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if len(values) > 0 {
			if _, err := s.genomes.SetField(txCtx, studyID, field, values); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to import field")
			}
		}
		return s.auditEmitter.emitFieldImported(txCtx, studyID, field, len(values), len(skipped))
	})
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Field: field, Updated: []string{}, Skipped: skipped}
	if result.Skipped == nil {
		result.Skipped = []string{}
	}
	for acc, v := range values {
		if v == nil {
			result.Cleared++
			continue
		}
		result.Updated = append(result.Updated, string(acc))
	}
	sort.Strings(result.Updated)

	s.metrics.AddImported("updated", len(result.Updated))
	s.metrics.AddImported("cleared", result.Cleared)
	s.metrics.AddImported("skipped", len(result.Skipped))
	if len(skipped) > 0 {
		s.logger.WarnContext(ctx, "import skipped unregistered accessions",
			"study_id", studyID, "field", field, "skipped", len(skipped))
	}
	return result, nil
}

// AssignRepresentatives replaces the study's representative assignments with
// those in a cluster file.
//
// All existing assignments are cleared first. Each cluster maps its
// representative to itself and every member to the representative. A genome
// that represents a cluster keeps itself as representative even if another
// cluster lists it as a member. Clusters whose representative is not
// registered are skipped whole.
func (s *Service) AssignRepresentatives(ctx context.Context, studyID id.StudyID, clusters io.Reader) (_ *RepresentativeResult, err error) {
	ctx, end := s.start(ctx, "assign_representatives", studyAttr(studyID))
	defer func() { end(&err) }()

	if clusters == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "cluster file is required")
	}
	if _, err := s.GetStudy(ctx, studyID); err != nil {
		return nil, err
	}
	parsed, err := models.ParseClusterFile(clusters)
	if err != nil {
		return nil, err
	}
	registered, err := s.accessionSet(ctx, studyID)
	if err != nil {
		return nil, err
	}

	assignments := make(map[id.Accession]id.Accession)
	reps := make(map[id.Accession]struct{})
	var skipped []string
	skip := func(a id.Accession) {
		skipped = append(skipped, string(a))
	}
	for _, c := range parsed {
		rep := c.Representative
		if _, ok := registered[rep]; !ok {
			skip(rep)
			for _, m := range c.Members {
				skip(m)
			}
			continue
		}
		reps[rep] = struct{}{}
		for _, m := range c.Members {
			if _, ok := registered[m]; !ok {
				skip(m)
				continue
			}
			assignments[m] = rep
		}
	}
	for rep := range reps {
		assignments[rep] = rep
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.genomes.ResetRepresentatives(txCtx, studyID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset representatives")
		}
		if len(assignments) > 0 {
			if err := s.genomes.AssignRepresentatives(txCtx, studyID, assignments); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign representatives")
			}
		}
		return s.auditEmitter.emitRepresentativesAssigned(txCtx, studyID, len(reps))
	})
	if err != nil {
		return nil, err
	}

	skipped = strutil.DedupeAndTrim(skipped)
	if skipped == nil {
		skipped = []string{}
	}
	return &RepresentativeResult{
		Clusters:        len(parsed),
		Representatives: len(reps),
		Assigned:        len(assignments),
		Skipped:         skipped,
	}, nil
}

// FilterGenomes applies a CheckM quality filter to the study's genomes.
// Genomes without both estimates are listed under NoEstimate.
func (s *Service) FilterGenomes(ctx context.Context, studyID id.StudyID, filter models.QualityFilter) (_ *models.FilterResult, err error) {
	ctx, end := s.start(ctx, "filter_genomes", studyAttr(studyID))
	defer func() { end(&err) }()

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	genomes, err := s.ListGenomes(ctx, studyID)
	if err != nil {
		return nil, err
	}

	result := &models.FilterResult{
		Kept:       []models.FilteredGenome{},
		Filtered:   []string{},
		NoEstimate: []string{},
	}
	for _, g := range genomes {
		comp, cont, ok := g.Quality()
		if !ok {
			result.NoEstimate = append(result.NoEstimate, string(g.Accession))
			continue
		}
		passes := filter.Passes(comp, cont)
		retained := !passes && filter.RetainRepresentatives && g.IsRepresentative
		if !passes && !retained {
			result.Filtered = append(result.Filtered, string(g.Accession))
			continue
		}
		if retained {
			s.logger.WarnContext(ctx, "retaining representative below quality thresholds",
				"study_id", studyID, "accession", g.Accession,
				"completeness", comp, "contamination", cont)
		}
		class, _ := models.ClassifyGenome(g)
		result.Kept = append(result.Kept, models.FilteredGenome{
			Genome:        g,
			Completeness:  comp,
			Contamination: cont,
			Quality:       filter.Score(comp, cont),
			MIMAG:         class,
			Retained:      retained,
		})
	}
	return result, nil
}

func (s *Service) accessionSet(ctx context.Context, studyID id.StudyID) (map[id.Accession]struct{}, error) {
	accs, err := s.genomes.ListAccessions(ctx, studyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list genomes")
	}
	set := make(map[id.Accession]struct{}, len(accs))
	for _, a := range accs {
		set[a] = struct{}{}
	}
	return set, nil
}
