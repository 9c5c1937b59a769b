package memory

import (
	"context"
	"sync"

	id "studycat/pkg/domain"
	audit "studycat/pkg/platform/audit"
)

// InMemoryStore keeps audit events per study for servers running without
// Postgres. It has no outbox, so nothing is relayed to Kafka.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.StudyID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.StudyID][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	s.events[event.StudyID] = append(s.events[event.StudyID], event)
	return nil
}

// ListByStudy returns events for a study in emission order.
func (s *InMemoryStore) ListByStudy(_ context.Context, studyID id.StudyID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[studyID]...), nil
}

// Len counts events across all studies.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, evs := range s.events {
		n += len(evs)
	}
	return n
}
