package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"studycat/internal/record"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
)

// MaxStudyNameLength bounds study names.
const MaxStudyNameLength = 128

// Study is a catalogued provenance record.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Record keys are unique and every known key is present at creation
//   - Revision starts at 1 and increases by one per field update
//   - CreatedAt is immutable after construction
type Study struct {
	ID        id.StudyID     `json:"id"`
	Name      string         `json:"name"`
	Record    *record.Record `json:"-"`
	Revision  int            `json:"revision"`
	CreatedBy id.CuratorID   `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewStudy validates and builds a study at revision 1.
func NewStudy(studyID id.StudyID, name string, rec *record.Record, createdBy id.CuratorID, now time.Time) (*Study, error) {
	name = strings.TrimSpace(name)
	if err := ValidateStudyName(name); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "study record is required")
	}
	if rep := record.Validate(rec); !rep.OK() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "record is incomplete: "+rep.Summary())
	}
	return &Study{
		ID:        studyID,
		Name:      name,
		Record:    rec.Clone(),
		Revision:  1,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateStudyName checks the name invariants.
func ValidateStudyName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "study name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxStudyNameLength {
		return dErrors.New(dErrors.CodeInvariantViolation, "study name must be 128 characters or less")
	}
	return nil
}

// NameKey is the case-insensitive uniqueness key for a study name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CanSetField checks that key=value can be stored and exported losslessly.
// Use with ApplyFieldUpdate in Execute callbacks.
func (s *Study) CanSetField(key, value string) error {
	if err := record.ValidateKey(key); err != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, err.Error())
	}
	if err := record.ValidateValue(key, value); err != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, err.Error())
	}
	if !utf8.ValidString(value) {
		return dErrors.New(dErrors.CodeInvariantViolation, "field value must be valid UTF-8")
	}
	return nil
}

// ApplyFieldUpdate sets the field and bumps the revision.
func (s *Study) ApplyFieldUpdate(key, value string, now time.Time) {
	if s.Record == nil {
		s.Record = &record.Record{}
	}
	s.Record.Set(key, value)
	s.Revision++
	s.UpdatedAt = now
}

// Report validates the current record.
func (s *Study) Report() record.Report {
	return record.Validate(s.Record)
}

// Clone returns a deep copy so stores never share record state with callers.
func (s *Study) Clone() *Study {
	if s == nil {
		return nil
	}
	c := *s
	c.Record = s.Record.Clone()
	return &c
}
