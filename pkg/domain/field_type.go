package domain

import (
	"strings"

	dErrors "studycat/pkg/domain-errors"
)

// FieldType is the declared storage type of an imported genome metadata field.
// Invariant: the value must be one of the supported types below.
//
// Usage: construct via ParseFieldType at trust boundaries; direct casting
// bypasses validation.
type FieldType string

const (
	FieldTypeText    FieldType = "TEXT"
	FieldTypeBoolean FieldType = "BOOLEAN"
	FieldTypeInteger FieldType = "INTEGER"
	FieldTypeFloat   FieldType = "FLOAT"
)

var validFieldTypes = map[FieldType]bool{
	FieldTypeText:    true,
	FieldTypeBoolean: true,
	FieldTypeInteger: true,
	FieldTypeFloat:   true,
}

// ParseFieldType accepts the type names case-insensitively.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseFieldType(s string) (FieldType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "field type cannot be empty")
	}
	t := FieldType(strings.ToUpper(s))
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported field type "+s)
	}
	return t, nil
}

// IsValid checks if the type is one of the supported enum values.
func (t FieldType) IsValid() bool {
	return validFieldTypes[t]
}

func (t FieldType) String() string {
	return string(t)
}
