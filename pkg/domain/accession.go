package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	dErrors "studycat/pkg/domain-errors"
)

// MaxAccessionLength bounds genome accessions accepted from input files.
const MaxAccessionLength = 64

// Accession identifies a genome within a study, e.g. "U_73212" or "GCA_000010565.1".
//
// Invariants:
//   - non-empty, at most MaxAccessionLength bytes
//   - valid UTF-8 with no whitespace or control characters
type Accession string

// ParseAccession validates an accession read from a metadata or cluster file.
// Surrounding whitespace is trimmed first.
func ParseAccession(s string) (Accession, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "accession cannot be empty")
	}
	if len(s) > MaxAccessionLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "accession is too long")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "accession must be valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == ',' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "accession contains an illegal character")
		}
	}
	return Accession(s), nil
}

func (a Accession) String() string {
	return string(a)
}
