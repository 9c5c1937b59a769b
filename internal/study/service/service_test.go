package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	studymetrics "studycat/internal/study/metrics"
	"studycat/internal/record"
	"studycat/internal/study/models"
	genomestore "studycat/internal/study/store/genome"
	studystore "studycat/internal/study/store/study"
	id "studycat/pkg/domain"
	dErrors "studycat/pkg/domain-errors"
	"studycat/pkg/platform/audit"
	auditpublisher "studycat/pkg/platform/audit/publisher"
	auditmemory "studycat/pkg/platform/audit/store/memory"
	"studycat/pkg/requestcontext"
)

const csgRecord = "study_description\tCoal seam gas well genome recovery\n" +
	"sequencing_platform\tIllumina HiSeq 2000\n" +
	"read_files\t*.fastq.gz\n" +
	"qc_program\tTrimmomatic v0.36\n" +
	"assembly_program\tCLC v7.5\n" +
	"gap_filling_program\tAbyss-sealer v1.9.0\n" +
	"mapping_program\tBamM v1.7.0\n" +
	"binning_program\tMetaBAT v0.26.3\n" +
	"scaffolding_program\tFinishM v0.0.7\n" +
	"genome_assessment_program\tCheckM v1.0.4\n" +
	"refinement_description\tRefineM\n" +
	"genome_coverage\n"

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	curator    id.CuratorID
	studies    *studystore.InMemory
	genomes    *genomestore.InMemory
	auditStore *auditmemory.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.curator = id.CuratorID(uuid.New())
	ctx := requestcontext.WithCuratorID(context.Background(), s.curator)
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	s.ctx = requestcontext.WithTime(ctx, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	s.studies = studystore.NewInMemory()
	s.genomes = genomestore.NewInMemory()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.service = New(s.studies, s.genomes,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(auditpublisher.NewPublisher(s.auditStore)),
		WithMetrics(studymetrics.New(prometheus.NewRegistry())),
	)
}

func (s *ServiceSuite) createStudy(name string) *models.Study {
	st, err := s.service.CreateStudy(s.ctx, name, strings.NewReader(csgRecord))
	s.Require().NoError(err)
	return st
}

func (s *ServiceSuite) auditActions(studyID id.StudyID) []string {
	events, err := s.auditStore.ListByStudy(context.Background(), studyID)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

func (s *ServiceSuite) TestCreateStudy() {
	s.Run("stores the record at revision 1 and audits", func() {
		st := s.createStudy("CSG wells")

		s.Equal("CSG wells", st.Name)
		s.Equal(1, st.Revision)
		s.Equal(s.curator, st.CreatedBy)
		s.True(st.Report().OK())
		s.Equal("Trimmomatic v0.36", st.Record.Value("qc_program"))

		events, err := s.auditStore.ListByStudy(context.Background(), st.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventStudyCreated), events[0].Action)
		s.Equal(audit.CategoryCompliance, events[0].Category)
		s.Equal(s.curator, events[0].CuratorID)
		s.Equal("req-1", events[0].RequestID)
	})

	s.Run("missing known keys are a validation error naming them", func() {
		raw := strings.Replace(csgRecord, "binning_program\tMetaBAT v0.26.3\n", "", 1)
		_, err := s.service.CreateStudy(s.ctx, "no binning", strings.NewReader(raw))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "binning_program")
	})

	s.Run("duplicate keys are a validation error", func() {
		raw := csgRecord + "qc_program\tFastQC\n"
		_, err := s.service.CreateStudy(s.ctx, "dup keys", strings.NewReader(raw))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "line 13")
	})

	s.Run("names are unique ignoring case", func() {
		s.createStudy("Surat Basin")
		_, err := s.service.CreateStudy(s.ctx, "  surat basin ", strings.NewReader(csgRecord))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("empty name is rejected", func() {
		_, err := s.service.CreateStudy(s.ctx, "   ", strings.NewReader(csgRecord))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestLookups() {
	b := s.createStudy("Bowen Basin")
	a := s.createStudy("alpha")

	got, err := s.service.GetStudyByName(s.ctx, "BOWEN BASIN")
	s.Require().NoError(err)
	s.Equal(b.ID, got.ID)

	list, err := s.service.ListStudies(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(a.ID, list[0].ID)
	s.Equal(b.ID, list[1].ID)

	_, err = s.service.GetStudy(s.ctx, id.NewStudyID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.GetStudy(s.ctx, id.StudyID{})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestUpdateField() {
	st := s.createStudy("update me")

	s.Run("sets the value and bumps the revision", func() {
		updated, err := s.service.UpdateField(s.ctx, st.ID, "genome_coverage", "35x")
		s.Require().NoError(err)
		s.Equal(2, updated.Revision)
		s.Equal("35x", updated.Record.Value("genome_coverage"))
		s.Equal([]string{string(audit.EventStudyCreated), string(audit.EventStudyFieldUpdated)}, s.auditActions(st.ID))
	})

	s.Run("new keys are appended", func() {
		updated, err := s.service.UpdateField(s.ctx, st.ID, "funding", "ARC")
		s.Require().NoError(err)
		s.Equal("funding", updated.Record.Keys()[updated.Record.Len()-1])
	})

	s.Run("keys with whitespace are rejected without a revision bump", func() {
		_, err := s.service.UpdateField(s.ctx, st.ID, "bad key", "x")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		got, err := s.service.GetStudy(s.ctx, st.ID)
		s.Require().NoError(err)
		s.Equal(3, got.Revision)
	})

	s.Run("unknown study", func() {
		_, err := s.service.UpdateField(s.ctx, id.NewStudyID(), "genome_coverage", "1x")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("surrounding whitespace is trimmed so the export reads back", func() {
		updated, err := s.service.UpdateField(s.ctx, st.ID, "sequencing_platform", "\tIllumina HiSeq 2500 ")
		s.Require().NoError(err)
		s.Equal("Illumina HiSeq 2500", updated.Record.Value("sequencing_platform"))

		var buf bytes.Buffer
		s.Require().NoError(s.service.ExportRecord(s.ctx, st.ID, &buf, FormatText))
		reread, err := record.ParseString(buf.String())
		s.Require().NoError(err)
		s.Equal(updated.Record.Map(), reread.Map())
	})
}

func (s *ServiceSuite) TestDeleteStudy() {
	st := s.createStudy("short lived")
	_, err := s.service.RegisterGenomes(s.ctx, st.ID, []string{"U_1", "U_2"})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteStudy(s.ctx, st.ID))

	_, err = s.service.GetStudy(s.ctx, st.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	accs, err := s.genomes.ListAccessions(s.ctx, st.ID)
	s.Require().NoError(err)
	s.Empty(accs)
	s.Contains(s.auditActions(st.ID), string(audit.EventStudyDeleted))

	err = s.service.DeleteStudy(s.ctx, st.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestExportRecord() {
	st := s.createStudy("export")

	var buf bytes.Buffer
	s.Require().NoError(s.service.ExportRecord(s.ctx, st.ID, &buf, FormatText))
	s.Equal(csgRecord, buf.String())

	buf.Reset()
	s.Require().NoError(s.service.ExportRecord(s.ctx, st.ID, &buf, FormatYAML))
	s.Contains(buf.String(), "qc_program: Trimmomatic v0.36")
}

func (s *ServiceSuite) TestRegisterGenomes() {
	st := s.createStudy("genomes")

	res, err := s.service.RegisterGenomes(s.ctx, st.ID, []string{" U_2 ", "U_1", "U_2", ""})
	s.Require().NoError(err)
	s.Equal([]id.Accession{"U_2", "U_1"}, res.Added)
	s.Empty(res.Existing)

	res, err = s.service.RegisterGenomes(s.ctx, st.ID, []string{"U_1", "U_3"})
	s.Require().NoError(err)
	s.Equal([]id.Accession{"U_3"}, res.Added)
	s.Equal([]id.Accession{"U_1"}, res.Existing)

	_, err = s.service.RegisterGenomes(s.ctx, st.ID, []string{"bad,acc"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.RegisterGenomes(s.ctx, st.ID, []string{" "})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestImportField() {
	st := s.createStudy("import")
	_, err := s.service.RegisterGenomes(s.ctx, st.ID, []string{"U_1", "U_2", "U_3"})
	s.Require().NoError(err)

	s.Run("coerces values and skips unregistered accessions", func() {
		file := "U_1\tTrue\nU_2\tno\nU_9\tyes\n"
		res, err := s.service.ImportField(s.ctx, st.ID, ImportRequest{Field: "is_complete", Type: id.FieldTypeBoolean, Data: strings.NewReader(file)})
		s.Require().NoError(err)
		s.Equal([]string{"U_1", "U_2"}, res.Updated)
		s.Equal([]string{"U_9"}, res.Skipped)

		genomes, err := s.service.ListGenomes(s.ctx, st.ID)
		s.Require().NoError(err)
		v, ok := genomes[0].Field("is_complete")
		s.Require().True(ok)
		b, _ := v.Bool()
		s.True(b)
	})

	s.Run("a bad value aborts the whole import", func() {
		file := "U_1\t12.5\nU_2\tlots\n"
		_, err := s.service.ImportField(s.ctx, st.ID, ImportRequest{Field: models.FieldCompleteness, Type: id.FieldTypeFloat, Data: strings.NewReader(file)})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "line 2")

		genomes, err := s.service.ListGenomes(s.ctx, st.ID)
		s.Require().NoError(err)
		_, ok := genomes[0].Field(models.FieldCompleteness)
		s.False(ok)
	})

	s.Run("blank values clear the field", func() {
		res, err := s.service.ImportField(s.ctx, st.ID, ImportRequest{Field: "is_complete", Type: id.FieldTypeBoolean, Data: strings.NewReader("U_1\t\n")})
		s.Require().NoError(err)
		s.Equal(1, res.Cleared)
		s.Empty(res.Updated)

		genomes, err := s.service.ListGenomes(s.ctx, st.ID)
		s.Require().NoError(err)
		_, ok := genomes[0].Field("is_complete")
		s.False(ok)
	})

	s.Run("rejects an invalid field name", func() {
		_, err := s.service.ImportField(s.ctx, st.ID, ImportRequest{Field: "two words", Type: id.FieldTypeText, Data: strings.NewReader("U_1\tx\n")})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestAssignRepresentatives() {
	st := s.createStudy("clusters")
	_, err := s.service.RegisterGenomes(s.ctx, st.ID, []string{"U_1", "U_2", "U_3", "U_4", "U_5"})
	s.Require().NoError(err)

	file := "U_1\t3\t95.0\tU_2,U_3,U_404\n" +
		"U_4\t1\t99.0\n" +
		"U_999\t2\t90.0\tU_5\n"
	res, err := s.service.AssignRepresentatives(s.ctx, st.ID, strings.NewReader(file))
	s.Require().NoError(err)
	s.Equal(3, res.Clusters)
	s.Equal(2, res.Representatives)
	s.Equal(4, res.Assigned)
	s.Equal([]string{"U_404", "U_999", "U_5"}, res.Skipped)

	genomes, err := s.service.ListGenomes(s.ctx, st.ID)
	s.Require().NoError(err)
	byAcc := make(map[id.Accession]*models.Genome)
	for _, g := range genomes {
		byAcc[g.Accession] = g
	}
	s.True(byAcc["U_1"].IsRepresentative)
	s.Equal(id.Accession("U_1"), byAcc["U_1"].Representative)
	s.Equal(id.Accession("U_1"), byAcc["U_3"].Representative)
	s.False(byAcc["U_3"].IsRepresentative)
	s.True(byAcc["U_4"].IsRepresentative)
	s.Empty(byAcc["U_5"].Representative)

	s.Run("a second import replaces earlier assignments", func() {
		_, err := s.service.AssignRepresentatives(s.ctx, st.ID, strings.NewReader("U_2\tx\ty\tU_1\n"))
		s.Require().NoError(err)
		genomes, err := s.service.ListGenomes(s.ctx, st.ID)
		s.Require().NoError(err)
		for _, g := range genomes {
			switch g.Accession {
			case "U_1", "U_2":
				s.Equal(id.Accession("U_2"), g.Representative)
			default:
				s.Empty(g.Representative, string(g.Accession))
				s.False(g.IsRepresentative)
			}
		}
	})
}

func (s *ServiceSuite) TestFilterGenomes() {
	st := s.createStudy("quality")
	_, err := s.service.RegisterGenomes(s.ctx, st.ID, []string{"G_good", "G_bad", "G_rep", "G_none"})
	s.Require().NoError(err)
	_, err = s.service.ImportField(s.ctx, st.ID, ImportRequest{
		Field: models.FieldCompleteness, Type: id.FieldTypeFloat,
		Data: strings.NewReader("G_good\t97.5\nG_bad\t40\nG_rep\t60\n"),
	})
	s.Require().NoError(err)
	_, err = s.service.ImportField(s.ctx, st.ID, ImportRequest{
		Field: models.FieldContamination, Type: id.FieldTypeFloat,
		Data: strings.NewReader("G_good\t1.2\nG_bad\t2\nG_rep\t4\nG_none\t0\n"),
	})
	s.Require().NoError(err)
	_, err = s.service.AssignRepresentatives(s.ctx, st.ID, strings.NewReader("G_rep\n"))
	s.Require().NoError(err)

	s.Run("representatives are retained by default", func() {
		res, err := s.service.FilterGenomes(s.ctx, st.ID, models.DefaultQualityFilter())
		s.Require().NoError(err)
		s.Require().Len(res.Kept, 2)
		s.Equal(id.Accession("G_good"), res.Kept[0].Genome.Accession)
		s.Equal(models.MIMAGMedium, res.Kept[0].MIMAG)
		s.InDelta(91.5, res.Kept[0].Quality, 1e-9)
		s.Equal(id.Accession("G_rep"), res.Kept[1].Genome.Accession)
		s.True(res.Kept[1].Retained)
		s.Equal([]string{"G_bad"}, res.Filtered)
		s.Equal([]string{"G_none"}, res.NoEstimate)
	})

	s.Run("retention can be switched off", func() {
		f := models.DefaultQualityFilter()
		f.RetainRepresentatives = false
		res, err := s.service.FilterGenomes(s.ctx, st.ID, f)
		s.Require().NoError(err)
		s.Require().Len(res.Kept, 1)
		s.Equal([]string{"G_bad", "G_rep"}, res.Filtered)
	})

	s.Run("invalid thresholds", func() {
		f := models.DefaultQualityFilter()
		f.Weight = -1
		_, err := s.service.FilterGenomes(s.ctx, st.ID, f)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestFilterGenomesReadsTextQualityFields() {
	st := s.createStudy("text quality")
	_, err := s.service.RegisterGenomes(s.ctx, st.ID, []string{"U_1"})
	s.Require().NoError(err)
	for field, data := range map[string]string{
		models.FieldCompleteness:  "U_1\t97.5\n",
		models.FieldContamination: "U_1\t0.5\n",
	} {
		_, err = s.service.ImportField(s.ctx, st.ID, ImportRequest{
			Field: field, Type: id.FieldTypeText, Data: strings.NewReader(data),
		})
		s.Require().NoError(err)
	}

	res, err := s.service.FilterGenomes(s.ctx, st.ID, models.DefaultQualityFilter())
	s.Require().NoError(err)
	s.Require().Len(res.Kept, 1)
	s.Equal(id.Accession("U_1"), res.Kept[0].Genome.Accession)
	s.InDelta(95.0, res.Kept[0].Quality, 1e-9)
	s.Empty(res.NoEstimate)
}

func (s *ServiceSuite) TestValidateRecords() {
	readers := map[string]io.Reader{
		"b.tsv": strings.NewReader(csgRecord),
		"a.tsv": strings.NewReader("study_description\tonly one\n"),
		"c.tsv": strings.NewReader("k\tv\nk\tw\n"),
	}
	results, err := s.service.ValidateRecords(s.ctx, readers)
	s.Require().NoError(err)
	s.Require().Len(results, 3)

	s.Equal("a.tsv", results[0].Name)
	s.False(results[0].Valid)
	s.Contains(results[0].Report.Missing, "genome_coverage")

	s.Equal("b.tsv", results[1].Name)
	s.True(results[1].Valid)
	s.Equal("MetaBAT", results[1].Tools["binning"].Name)

	s.Equal("c.tsv", results[2].Name)
	s.False(results[2].Valid)
	s.Contains(results[2].Error, "duplicate key")

	s.Run("cancelled context", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		cancel()
		_, err := s.service.ValidateRecords(ctx, map[string]io.Reader{"x": strings.NewReader(csgRecord)})
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}
