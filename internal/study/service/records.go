package service

import (
	"context"
	"io"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"studycat/internal/record"
	dErrors "studycat/pkg/domain-errors"
)

// Validation is the outcome of checking one record file. Error is set when
// the file could not be parsed; Report is meaningful only when it is empty.
type Validation struct {
	Name   string                          `json:"name"`
	Valid  bool                            `json:"valid"`
	Error  string                          `json:"error,omitempty"`
	Report record.Report                   `json:"report"`
	Tools  map[record.Stage]record.ToolRef `json:"tools,omitempty"`
}

// ValidateRecord parses and checks a single record without storing it.
func (s *Service) ValidateRecord(ctx context.Context, name string, raw io.Reader) Validation {
	v := Validation{Name: name}
	rec, err := parseRecord(raw)
	if err != nil {
		v.Error = dErrors.MessageOf(err)
		if v.Error == "" {
			v.Error = err.Error()
		}
		s.metrics.RecordValidation("unparseable")
		return v
	}
	v.Report = record.Validate(rec)
	v.Valid = v.Report.OK()
	v.Tools = rec.Tools()
	if v.Valid {
		s.metrics.RecordValidation("valid")
	} else {
		s.metrics.RecordValidation("invalid")
	}
	return v
}

// ValidateRecords checks many records concurrently. Results are ordered by
// name. Only cancellation of ctx produces an error.
func (s *Service) ValidateRecords(ctx context.Context, readers map[string]io.Reader) (_ []Validation, err error) {
	ctx, end := s.start(ctx, "validate_records", attribute.Int("records.count", len(readers)))
	defer func() { end(&err) }()

	names := make([]string, 0, len(readers))
	for name := range readers {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]Validation, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.ValidateRecord(gctx, name, readers[name])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "validation cancelled")
	}
	return results, nil
}
