package audit

import (
	"context"
	"time"

	id "studycat/pkg/domain"
)

// EventCategory decides retention and routing of an audit event.
type EventCategory string

const (
	// CategoryCompliance covers changes to what a study is: creation, deletion
	// and edits of its provenance record.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine catalog activity such as genome imports.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from service logic after a successful mutation.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	CuratorID id.CuratorID
	StudyID   id.StudyID
	Action    string
	// Subject names the thing acted on inside the study: a record key, a
	// genome field, or the study name.
	Subject   string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	EventStudyCreated            AuditEvent = "study_created"
	EventStudyFieldUpdated       AuditEvent = "study_field_updated"
	EventStudyDeleted            AuditEvent = "study_deleted"
	EventGenomesRegistered       AuditEvent = "genomes_registered"
	EventGenomeFieldImported     AuditEvent = "genome_field_imported"
	EventRepresentativesAssigned AuditEvent = "representatives_assigned"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventStudyCreated:      CategoryCompliance,
	EventStudyFieldUpdated: CategoryCompliance,
	EventStudyDeleted:      CategoryCompliance,

	EventGenomesRegistered:       CategoryOperations,
	EventGenomeFieldImported:     CategoryOperations,
	EventRepresentativesAssigned: CategoryOperations,
}

// Category returns the category of e. Unknown events are operations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByStudy(ctx context.Context, studyID id.StudyID) ([]Event, error)
}
