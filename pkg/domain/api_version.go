package domain

import (
	dErrors "studycat/pkg/domain-errors"
)

// APIVersion names a versioned route group of the catalog API.
type APIVersion string

const APIVersionV1 APIVersion = "v1"

// apiVersions orders the known route groups, oldest first.
var apiVersions = []APIVersion{APIVersionV1}

func (v APIVersion) rank() int {
	for i, known := range apiVersions {
		if v == known {
			return i + 1
		}
	}
	return 0
}

// ParseAPIVersion accepts only versions the server routes.
func ParseAPIVersion(s string) (APIVersion, error) {
	v := APIVersion(s)
	if v.rank() == 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown API version: "+s)
	}
	return v, nil
}

func (v APIVersion) String() string { return string(v) }

func (v APIVersion) IsNil() bool { return v == "" }

// IsAtLeast reports whether v is the same as or newer than other. An unknown
// v is never at least anything; an unknown other is outranked by any known v.
func (v APIVersion) IsAtLeast(other APIVersion) bool {
	mine := v.rank()
	if mine == 0 {
		return false
	}
	return mine >= other.rank()
}
