package models

import (
	id "studycat/pkg/domain"
)

// Genome field names used by quality filtering and MIMAG classification.
const (
	FieldCompleteness  = "checkm_completeness"
	FieldContamination = "checkm_contamination"
	FieldDomain        = "gtdb_domain"
	FieldSSULength     = "ssu_silva_length"
	FieldLSU23SLength  = "lsu_silva_length"
	FieldLSU5SLength   = "lsu_5s_length"
	FieldTRNACount     = "trna_aa_count"
)

// Genome is a recovered genome registered under a study.
//
// Invariants:
//   - Accession is unique within the study
//   - Representative, when set, is a registered accession of the same study
//   - IsRepresentative implies Representative == Accession
type Genome struct {
	StudyID          id.StudyID            `json:"study_id"`
	Accession        id.Accession          `json:"accession"`
	Fields           map[string]FieldValue `json:"fields"`
	Representative   id.Accession          `json:"representative,omitempty"`
	IsRepresentative bool                  `json:"is_representative"`
}

func NewGenome(studyID id.StudyID, accession id.Accession) *Genome {
	return &Genome{StudyID: studyID, Accession: accession, Fields: map[string]FieldValue{}}
}

// Field returns a field value by name.
func (g *Genome) Field(name string) (FieldValue, bool) {
	v, ok := g.Fields[name]
	return v, ok
}

// SetField stores v under name.
func (g *Genome) SetField(name string, v FieldValue) {
	if g.Fields == nil {
		g.Fields = map[string]FieldValue{}
	}
	g.Fields[name] = v
}

// Quality returns CheckM completeness and contamination when both are present.
func (g *Genome) Quality() (completeness, contamination float64, ok bool) {
	compField, okComp := g.Fields[FieldCompleteness]
	contField, okCont := g.Fields[FieldContamination]
	if !okComp || !okCont {
		return 0, 0, false
	}
	comp, okComp := compField.Number()
	cont, okCont := contField.Number()
	return comp, cont, okComp && okCont
}

// ClearRepresentative resets representative assignment.
func (g *Genome) ClearRepresentative() {
	g.Representative = ""
	g.IsRepresentative = false
}

func (g *Genome) Clone() *Genome {
	if g == nil {
		return nil
	}
	c := *g
	c.Fields = make(map[string]FieldValue, len(g.Fields))
	for k, v := range g.Fields {
		c.Fields[k] = v
	}
	return &c
}
