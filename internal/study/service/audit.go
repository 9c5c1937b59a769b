package service

import (
	"context"
	"log/slog"

	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
	"studycat/pkg/platform/audit"
	"studycat/pkg/requestcontext"
)

// auditEmitter turns catalog mutations into audit events. Without a publisher
// events are only logged.
type auditEmitter struct {
	logger    *slog.Logger
	publisher AuditPublisher
}

func newAuditEmitter(logger *slog.Logger, publisher AuditPublisher) *auditEmitter {
	return &auditEmitter{logger: logger, publisher: publisher}
}

func (e *auditEmitter) emit(ctx context.Context, action audit.AuditEvent, studyID id.StudyID, subject, reason string) error {
	event := audit.Event{
		Category:  action.Category(),
		Timestamp: requestcontext.Now(ctx),
		CuratorID: requestcontext.CuratorID(ctx),
		StudyID:   studyID,
		Action:    string(action),
		Subject:   subject,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	}
	if e.publisher == nil {
		e.logger.InfoContext(ctx, string(action),
			"study_id", studyID,
			"subject", subject,
			"reason", reason,
			"request_id", event.RequestID,
		)
		return nil
	}
	if err := e.publisher.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func (e *auditEmitter) emitStudyCreated(ctx context.Context, s studyRef) error {
	return e.emit(ctx, audit.EventStudyCreated, s.id, s.name, "")
}

func (e *auditEmitter) emitFieldUpdated(ctx context.Context, studyID id.StudyID, key string, revision int) error {
	return e.emit(ctx, audit.EventStudyFieldUpdated, studyID, key, revisionReason(revision))
}

func (e *auditEmitter) emitStudyDeleted(ctx context.Context, s studyRef) error {
	return e.emit(ctx, audit.EventStudyDeleted, s.id, s.name, "")
}

func (e *auditEmitter) emitGenomesRegistered(ctx context.Context, studyID id.StudyID, added int) error {
	return e.emit(ctx, audit.EventGenomesRegistered, studyID, "", countReason("added", added))
}

func (e *auditEmitter) emitFieldImported(ctx context.Context, studyID id.StudyID, field string, updated, skipped int) error {
	return e.emit(ctx, audit.EventGenomeFieldImported, studyID, field,
		countReason("updated", updated)+" "+countReason("skipped", skipped))
}

func (e *auditEmitter) emitRepresentativesAssigned(ctx context.Context, studyID id.StudyID, clusters int) error {
	return e.emit(ctx, audit.EventRepresentativesAssigned, studyID, "", countReason("clusters", clusters))
}

type studyRef struct {
	id   id.StudyID
	name string
}
