package study

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	"studycat/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded study store.
type InMemory struct {
	mu      sync.RWMutex
	studies map[id.StudyID]*models.Study
	byName  map[string]id.StudyID
}

func NewInMemory() *InMemory {
	return &InMemory{
		studies: make(map[id.StudyID]*models.Study),
		byName:  make(map[string]id.StudyID),
	}
}

// CreateIfNameAvailable stores s unless its name is taken case-insensitively.
func (m *InMemory) CreateIfNameAvailable(_ context.Context, s *models.Study) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := models.NameKey(s.Name)
	if _, taken := m.byName[key]; taken {
		return fmt.Errorf("study name %q: %w", s.Name, sentinel.ErrAlreadyUsed)
	}
	if _, exists := m.studies[s.ID]; exists {
		return fmt.Errorf("study %s: %w", s.ID, sentinel.ErrAlreadyUsed)
	}
	m.studies[s.ID] = s.Clone()
	m.byName[key] = s.ID
	return nil
}

func (m *InMemory) FindByID(_ context.Context, studyID id.StudyID) (*models.Study, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.studies[studyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.Clone(), nil
}

func (m *InMemory) FindByName(_ context.Context, name string) (*models.Study, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	studyID, ok := m.byName[models.NameKey(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.studies[studyID].Clone(), nil
}

// List returns all studies ordered by name.
func (m *InMemory) List(_ context.Context) ([]*models.Study, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Study, 0, len(m.studies))
	for _, s := range m.studies {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return models.NameKey(out[i].Name) < models.NameKey(out[j].Name)
	})
	return out, nil
}

// Execute runs validate then mutate on a copy under the write lock and stores
// the copy only when validate passes.
func (m *InMemory) Execute(_ context.Context, studyID id.StudyID, validate func(*models.Study) error, mutate func(*models.Study)) (*models.Study, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.studies[studyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	m.studies[studyID] = working
	return working.Clone(), nil
}

func (m *InMemory) Delete(_ context.Context, studyID id.StudyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.studies[studyID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(m.byName, models.NameKey(s.Name))
	delete(m.studies, studyID)
	return nil
}
