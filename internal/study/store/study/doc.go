// Package study stores study records. InMemory and Postgres are
// interchangeable; Cached adds a Redis read-through layer over either.
package study

import (
	"encoding/json"
	"fmt"
	"time"

	"studycat/internal/record"
	"studycat/internal/study/models"
	id "studycat/pkg/domain"
)

// document is the serialized study used by the Postgres record column and
// the Redis cache. Fields keep authoring order.
type document struct {
	ID        id.StudyID     `json:"id"`
	Name      string         `json:"name"`
	Fields    []record.Field `json:"fields"`
	Revision  int            `json:"revision"`
	CreatedBy id.CuratorID   `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toDocument(s *models.Study) document {
	return document{
		ID:        s.ID,
		Name:      s.Name,
		Fields:    s.Record.Fields(),
		Revision:  s.Revision,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (d document) study() *models.Study {
	return &models.Study{
		ID:        d.ID,
		Name:      d.Name,
		Record:    record.New(d.Fields...),
		Revision:  d.Revision,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func encodeFields(rec *record.Record) ([]byte, error) {
	fields := rec.Fields()
	if fields == nil {
		fields = []record.Field{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return b, nil
}

func decodeFields(b []byte) (*record.Record, error) {
	var fields []record.Field
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return record.New(fields...), nil
}
