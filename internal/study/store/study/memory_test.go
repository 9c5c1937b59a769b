package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"studycat/internal/record"
	"studycat/internal/study/models"
	id "studycat/pkg/domain"
	"studycat/pkg/platform/sentinel"
)

type StudyStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestStudyStoreSuite(t *testing.T) {
	suite.Run(t, new(StudyStoreSuite))
}

func (s *StudyStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *StudyStoreSuite) newStudy(name string) *models.Study {
	rec := &record.Record{}
	for _, k := range record.KnownKeys() {
		rec.Set(k, "v")
	}
	st, err := models.NewStudy(id.NewStudyID(), name, rec, id.CuratorID{}, time.Now())
	s.Require().NoError(err)
	return st
}

func (s *StudyStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds by ID and name", func() {
		st := s.newStudy("Bowen Basin")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, st))

		found, err := s.store.FindByID(s.ctx, st.ID)
		s.Require().NoError(err)
		s.Equal(st.Name, found.Name)
		s.Equal(st.Record.Keys(), found.Record.Keys())

		byName, err := s.store.FindByName(s.ctx, "bowen basin")
		s.Require().NoError(err)
		s.Equal(st.ID, byName.ID)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewStudyID())
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindByName(s.ctx, "nope")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned studies are copies", func() {
		st := s.newStudy("Copy Check")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, st))
		found, err := s.store.FindByID(s.ctx, st.ID)
		s.Require().NoError(err)
		found.Record.Set(record.KeyQCProgram, "mutated")

		again, err := s.store.FindByID(s.ctx, st.ID)
		s.Require().NoError(err)
		s.Equal("v", again.Record.Value(record.KeyQCProgram))
	})
}

func (s *StudyStoreSuite) TestNameUniqueness() {
	s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, s.newStudy("Surat")))
	err := s.store.CreateIfNameAvailable(s.ctx, s.newStudy("SURAT"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *StudyStoreSuite) TestListSortedByName() {
	for _, n := range []string{"gamma", "Alpha", "beta"} {
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, s.newStudy(n)))
	}
	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("Alpha", list[0].Name)
	s.Equal("beta", list[1].Name)
	s.Equal("gamma", list[2].Name)
}

func (s *StudyStoreSuite) TestExecute() {
	st := s.newStudy("Execute")
	s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, st))

	s.Run("validate failure leaves study untouched", func() {
		_, err := s.store.Execute(s.ctx, st.ID,
			func(*models.Study) error { return sentinel.ErrInvalidState },
			func(m *models.Study) { m.ApplyFieldUpdate(record.KeyQCProgram, "x", time.Now()) },
		)
		s.ErrorIs(err, sentinel.ErrInvalidState)
		found, _ := s.store.FindByID(s.ctx, st.ID)
		s.Equal(1, found.Revision)
	})

	s.Run("mutation persists", func() {
		updated, err := s.store.Execute(s.ctx, st.ID,
			func(m *models.Study) error { return m.CanSetField(record.KeyQCProgram, "Trimmomatic v0.36") },
			func(m *models.Study) { m.ApplyFieldUpdate(record.KeyQCProgram, "Trimmomatic v0.36", time.Now()) },
		)
		s.Require().NoError(err)
		s.Equal(2, updated.Revision)
		found, _ := s.store.FindByID(s.ctx, st.ID)
		s.Equal("Trimmomatic v0.36", found.Record.Value(record.KeyQCProgram))
	})

	s.Run("unknown study", func() {
		_, err := s.store.Execute(s.ctx, id.NewStudyID(),
			func(*models.Study) error { return nil }, func(*models.Study) {})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *StudyStoreSuite) TestDeleteFreesName() {
	st := s.newStudy("Transient")
	s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, st))
	s.Require().NoError(s.store.Delete(s.ctx, st.ID))
	s.ErrorIs(s.store.Delete(s.ctx, st.ID), sentinel.ErrNotFound)
	s.NoError(s.store.CreateIfNameAvailable(s.ctx, s.newStudy("transient")))
}
