package service

import (
	"errors"
	"strconv"

	"studycat/internal/record"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
	"studycat/pkg/platform/sentinel"
)

func requireStudyID(studyID id.StudyID) error {
	if studyID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "study id is required")
	}
	return nil
}

// wrapStudyErr translates store sentinels for study lookups. Domain errors pass
// through untouched.
func wrapStudyErr(err error, action string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "study not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
}

// toValidation reports invariant violations and parse errors as client
// validation errors.
func toValidation(err error) error {
	var pe *record.ParseError
	if errors.As(err, &pe) {
		return dErrors.New(dErrors.CodeValidation, pe.Error())
	}
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) || dErrors.HasCode(err, dErrors.CodeInvalidInput) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func revisionReason(revision int) string {
	return "revision=" + strconv.Itoa(revision)
}

func countReason(label string, n int) string {
	return label + "=" + strconv.Itoa(n)
}
