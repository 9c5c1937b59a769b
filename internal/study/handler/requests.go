package handler

import (
	"net/url"
	"strconv"
	"strings"

	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
)

// maxRegisterBatch bounds accessions accepted by one register request.
const maxRegisterBatch = 50000

// UpdateFieldRequest is the body for PUT /studies/{id}/fields/{key}.
type UpdateFieldRequest struct {
	Value *string `json:"value"`
}

// Validate implements httputil.Validatable.
func (r *UpdateFieldRequest) Validate() error {
	if r.Value == nil {
		return dErrors.New(dErrors.CodeValidation, "value is required")
	}
	return nil
}

// RegisterGenomesRequest is the body for POST /studies/{id}/genomes.
type RegisterGenomesRequest struct {
	Accessions []string `json:"accessions"`
}

// Validate implements httputil.Validatable.
func (r *RegisterGenomesRequest) Validate() error {
	if len(r.Accessions) == 0 {
		return dErrors.New(dErrors.CodeValidation, "accessions are required")
	}
	if len(r.Accessions) > maxRegisterBatch {
		return dErrors.New(dErrors.CodeValidation, "too many accessions in one request")
	}
	return nil
}

func parseStudyID(raw string) (id.StudyID, error) {
	studyID, err := id.ParseStudyID(raw)
	if err != nil {
		return id.StudyID{}, dErrors.New(dErrors.CodeBadRequest, "invalid study id")
	}
	return studyID, nil
}

// parseImportQuery reads ?field=&type= for a metadata import.
func parseImportQuery(q url.Values) (string, id.FieldType, error) {
	field := strings.TrimSpace(q.Get("field"))
	if field == "" {
		return "", "", dErrors.New(dErrors.CodeBadRequest, "field query parameter is required")
	}
	rawType := q.Get("type")
	if rawType == "" {
		return field, id.FieldTypeText, nil
	}
	ft, err := id.ParseFieldType(rawType)
	if err != nil {
		return "", "", dErrors.New(dErrors.CodeBadRequest, dErrors.MessageOf(err))
	}
	return field, ft, nil
}

// parseQualityFilter overlays query parameters on the default filter.
func parseQualityFilter(q url.Values) (models.QualityFilter, error) {
	f := models.DefaultQualityFilter()
	floats := []struct {
		name string
		dst  *float64
	}{
		{"min_completeness", &f.MinCompleteness},
		{"max_contamination", &f.MaxContamination},
		{"min_quality", &f.MinQuality},
		{"weight", &f.Weight},
	}
	for _, p := range floats {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, dErrors.New(dErrors.CodeBadRequest, p.name+" must be a number")
		}
		*p.dst = v
	}
	if raw := q.Get("retain_representatives"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, dErrors.New(dErrors.CodeBadRequest, "retain_representatives must be a boolean")
		}
		f.RetainRepresentatives = v
	}
	return f, nil
}
