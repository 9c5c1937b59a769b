package handler

import (
	"time"

	"studycat/internal/record"
	"studycat/internal/study/models"
)

// StudyResponse is the full view of a study.
type StudyResponse struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Revision  int                       `json:"revision"`
	CreatedBy string                    `json:"created_by,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
	Fields    []record.Field            `json:"fields"`
	Tools     map[string]record.ToolRef `json:"tools"`
	Report    record.Report             `json:"report"`
}

// StudySummary is the list view of a study.
type StudySummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Revision  int       `json:"revision"`
	Complete  bool      `json:"complete"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListStudiesResponse struct {
	Studies []StudySummary `json:"studies"`
}

type ListGenomesResponse struct {
	Genomes []*models.Genome `json:"genomes"`
}

func toStudyResponse(s *models.Study) *StudyResponse {
	resp := &StudyResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Revision:  s.Revision,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Fields:    s.Record.Fields(),
		Tools:     map[string]record.ToolRef{},
		Report:    s.Report(),
	}
	if !s.CreatedBy.IsNil() {
		resp.CreatedBy = s.CreatedBy.String()
	}
	for stage, tool := range s.Record.Tools() {
		resp.Tools[string(stage)] = tool
	}
	return resp
}

func toStudySummaries(studies []*models.Study) *ListStudiesResponse {
	out := &ListStudiesResponse{Studies: make([]StudySummary, 0, len(studies))}
	for _, s := range studies {
		out.Studies = append(out.Studies, StudySummary{
			ID:        s.ID.String(),
			Name:      s.Name,
			Revision:  s.Revision,
			Complete:  s.Report().OK(),
			UpdatedAt: s.UpdatedAt,
		})
	}
	return out
}
