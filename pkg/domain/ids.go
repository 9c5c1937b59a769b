// Package domain holds primitive value types shared across the catalog.
// Values are constructed through Parse* functions at trust boundaries; direct
// casting skips validation and is reserved for stores and tests.
package domain

import (
	"github.com/google/uuid"

	dErrors "studycat/pkg/domain-errors"
)

// StudyID identifies a catalogued study record.
type StudyID uuid.UUID

// CuratorID identifies the human curator who authored or changed a record.
type CuratorID uuid.UUID

// EventID identifies an audit event.
type EventID uuid.UUID

func (i StudyID) String() string   { return uuid.UUID(i).String() }
func (i CuratorID) String() string { return uuid.UUID(i).String() }
func (i EventID) String() string   { return uuid.UUID(i).String() }

func (i StudyID) IsNil() bool   { return uuid.UUID(i) == uuid.Nil }
func (i CuratorID) IsNil() bool { return uuid.UUID(i) == uuid.Nil }
func (i EventID) IsNil() bool   { return uuid.UUID(i) == uuid.Nil }

// NewStudyID returns a random study ID.
func NewStudyID() StudyID { return StudyID(uuid.New()) }

// ParseStudyID parses an external study identifier.
func ParseStudyID(s string) (StudyID, error) {
	u, err := parseUUID(s, "study ID")
	return StudyID(u), err
}

// ParseCuratorID parses an external curator identifier.
func ParseCuratorID(s string) (CuratorID, error) {
	u, err := parseUUID(s, "curator ID")
	return CuratorID(u), err
}

// ParseEventID parses an audit event identifier.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event ID")
	return EventID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

// MarshalText renders IDs as canonical UUID strings in JSON.
func (i StudyID) MarshalText() ([]byte, error)   { return uuid.UUID(i).MarshalText() }
func (i CuratorID) MarshalText() ([]byte, error) { return uuid.UUID(i).MarshalText() }

// UnmarshalText accepts the nil UUID so zero values round-trip.
func (i *StudyID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(i).UnmarshalText(b)
}

func (i *CuratorID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(i).UnmarshalText(b)
}
