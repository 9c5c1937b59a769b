// Package genome stores genomes registered under studies.
package genome

import (
	"context"
	"sort"
	"sync"

	"studycat/internal/study/models"
	id "studycat/pkg/domain"
)

// InMemory keeps genomes per study behind one mutex. Each write method is
// applied completely or not at all.
type InMemory struct {
	mu      sync.RWMutex
	genomes map[id.StudyID]map[id.Accession]*models.Genome
}

func NewInMemory() *InMemory {
	return &InMemory{genomes: make(map[id.StudyID]map[id.Accession]*models.Genome)}
}

// Register adds accessions not yet present and returns the ones added, in input order.
func (m *InMemory) Register(_ context.Context, studyID id.StudyID, accessions []id.Accession) ([]id.Accession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byAcc, ok := m.genomes[studyID]
	if !ok {
		byAcc = make(map[id.Accession]*models.Genome)
		m.genomes[studyID] = byAcc
	}
	var added []id.Accession
	for _, acc := range accessions {
		if _, exists := byAcc[acc]; exists {
			continue
		}
		byAcc[acc] = models.NewGenome(studyID, acc)
		added = append(added, acc)
	}
	return added, nil
}

// ListByStudy returns copies sorted by accession.
func (m *InMemory) ListByStudy(_ context.Context, studyID id.StudyID) ([]*models.Genome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Genome, 0, len(m.genomes[studyID]))
	for _, g := range m.genomes[studyID] {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Accession < out[j].Accession })
	return out, nil
}

// ListAccessions returns the registered accessions of a study, sorted.
func (m *InMemory) ListAccessions(_ context.Context, studyID id.StudyID) ([]id.Accession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]id.Accession, 0, len(m.genomes[studyID]))
	for acc := range m.genomes[studyID] {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// SetField writes field for each accession; a nil value removes the field.
// Unregistered accessions are ignored. Returns the number of genomes changed.
func (m *InMemory) SetField(_ context.Context, studyID id.StudyID, field string, values map[id.Accession]*models.FieldValue) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for acc, v := range values {
		g, ok := m.genomes[studyID][acc]
		if !ok {
			continue
		}
		if v == nil {
			delete(g.Fields, field)
		} else {
			g.SetField(field, *v)
		}
		n++
	}
	return n, nil
}

// ResetRepresentatives clears assignment on every genome of the study.
func (m *InMemory) ResetRepresentatives(_ context.Context, studyID id.StudyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.genomes[studyID] {
		g.ClearRepresentative()
	}
	return nil
}

// AssignRepresentatives sets accession -> representative. A genome assigned
// to itself is marked as a representative.
func (m *InMemory) AssignRepresentatives(_ context.Context, studyID id.StudyID, assignments map[id.Accession]id.Accession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for acc, rep := range assignments {
		g, ok := m.genomes[studyID][acc]
		if !ok {
			continue
		}
		g.Representative = rep
		g.IsRepresentative = acc == rep
	}
	return nil
}

func (m *InMemory) DeleteByStudy(_ context.Context, studyID id.StudyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.genomes, studyID)
	return nil
}
