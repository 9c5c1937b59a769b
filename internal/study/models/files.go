package models

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
)

const maxFileLineBytes = 1024 * 1024

// MetadataLine is one accession<TAB>value line of a metadata import file.
type MetadataLine struct {
	Line      int
	Accession id.Accession
	// Value is the raw text after the tab. Blank clears the field.
	Value string
}

// Cluster is one line of a cluster file: a representative and its members.
type Cluster struct {
	Line           int
	Representative id.Accession
	Members        []id.Accession
}

// ParseMetadataFile reads accession<TAB>value lines. Blank lines and lines
// starting with # are skipped. A line without a tab is an error.
func ParseMetadataFile(r io.Reader) ([]MetadataLine, error) {
	var out []MetadataLine
	err := scanLines(r, func(n int, line string) error {
		acc, value, ok := strings.Cut(line, "\t")
		if !ok {
			return lineError(n, "expected accession<TAB>value")
		}
		accession, err := id.ParseAccession(acc)
		if err != nil {
			return lineError(n, dErrors.MessageOf(err))
		}
		out = append(out, MetadataLine{Line: n, Accession: accession, Value: value})
		return nil
	})
	return out, err
}

// ParseClusterFile reads rep<TAB>...<TAB>...<TAB>member,member lines. The
// members column is read only when a line has exactly four columns.
func ParseClusterFile(r io.Reader) ([]Cluster, error) {
	var out []Cluster
	err := scanLines(r, func(n int, line string) error {
		cols := strings.Split(line, "\t")
		rep, err := id.ParseAccession(cols[0])
		if err != nil {
			return lineError(n, "representative: "+dErrors.MessageOf(err))
		}
		c := Cluster{Line: n, Representative: rep}
		if len(cols) == 4 {
			for _, m := range strings.Split(cols[3], ",") {
				if strings.TrimSpace(m) == "" {
					continue
				}
				member, err := id.ParseAccession(m)
				if err != nil {
					return lineError(n, "member: "+dErrors.MessageOf(err))
				}
				c.Members = append(c.Members, member)
			}
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func scanLines(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxFileLineBytes)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return lineError(n+1, "line too long")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read input")
	}
	return nil
}

func lineError(n int, msg string) error {
	return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("line %d: %s", n, msg))
}
