package test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "studycat/internal/http"
	jwttoken "studycat/internal/jwt_token"
	studyhandler "studycat/internal/study/handler"
	"studycat/internal/study/models"
	"studycat/internal/study/service"
	genomestore "studycat/internal/study/store/genome"
	studystore "studycat/internal/study/store/study"
	id "studycat/pkg/domain"
	"studycat/pkg/platform/audit/publisher"
	auditmemory "studycat/pkg/platform/audit/store/memory"
	"studycat/pkg/testutil"
)

const studyRecord = "study_description\tCSG\nsequencing_platform\tIllumina\nread_files\t*.fq\n" +
	"qc_program\tTrimmomatic v0.36\nassembly_program\tCLC\ngap_filling_program\tAbyss-sealer\n" +
	"mapping_program\tBamM\nbinning_program\tMetaBAT v2\nscaffolding_program\tFinishM\n" +
	"genome_assessment_program\tCheckM v1.0.4\nrefinement_description\tRefineM\ngenome_coverage\n"

func newRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(studystore.NewInMemory(), genomestore.NewInMemory(),
		service.WithLogger(logger),
		service.WithAuditPublisher(publisher.NewPublisher(auditmemory.NewInMemoryStore())),
	)
	jwtSvc := jwttoken.NewJWTService("workflow-key", "studycat", "studycat-curators")
	token, err := jwtSvc.GenerateToken(id.CuratorID(uuid.New()), id.APIVersionV1, time.Hour)
	require.NoError(t, err)

	return httpapi.NewRouter(httpapi.Deps{
		Logger: logger,
		V1:     []httpapi.Mounter{studyhandler.New(svc, logger, jwttoken.NewValidatorAdapter(jwtSvc))},
	}), token
}

func TestCurationWorkflow(t *testing.T) {
	testutil.Given(t, "a curated study with three genomes", func(t *testing.T) {
		router, token := newRouter(t)
		authed := func(req *http.Request) *http.Request { return testutil.WithBearer(req, token) }

		rr := testutil.DoRequest(router, authed(testutil.NewTextRequest(t, http.MethodPost, "/v1/studies?name=csg", studyRecord)))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		created := testutil.UnmarshalResponse[studyhandler.StudyResponse](t, rr)
		base := "/v1/studies/" + created.ID

		rr = testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, base+"/genomes",
			map[string][]string{"accessions": {"U_1", "U_2", "U_3"}})))
		testutil.AssertStatusOK(t, rr)
		registered := testutil.UnmarshalResponse[service.RegisterResult](t, rr)
		require.Len(t, registered.Added, 3)

		testutil.When(t, "CheckM estimates and clusters are imported", func(t *testing.T) {
			rr := testutil.DoRequest(router, authed(testutil.NewTextRequest(t, http.MethodPost,
				base+"/genomes/import?field=checkm_completeness&type=float", "U_1\t95\nU_2\t60\nU_3\t40\nU_9\t99\n")))
			testutil.AssertStatusOK(t, rr)
			imported := testutil.UnmarshalResponse[service.ImportResult](t, rr)
			assert.Equal(t, []string{"U_9"}, imported.Skipped)

			rr = testutil.DoRequest(router, authed(testutil.NewTextRequest(t, http.MethodPost,
				base+"/genomes/import?field=checkm_contamination&type=FLOAT", "U_1\t1\nU_2\t5\nU_3\t2\n")))
			testutil.AssertStatusOK(t, rr)

			rr = testutil.DoRequest(router, authed(testutil.NewTextRequest(t, http.MethodPost,
				base+"/representatives", "U_2\t\t\tU_1,U_3\n")))
			testutil.AssertStatusOK(t, rr)
			reps := testutil.UnmarshalResponse[service.RepresentativeResult](t, rr)
			assert.Equal(t, 1, reps.Representatives)

			testutil.Then(t, "the default filter keeps good genomes and retains the representative", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, base+"/genomes/quality"))
				testutil.AssertStatusOK(t, rr)
				result := testutil.UnmarshalResponse[models.FilterResult](t, rr)

				kept := map[id.Accession]bool{}
				for _, g := range result.Kept {
					kept[g.Genome.Accession] = g.Retained
				}
				assert.Equal(t, map[id.Accession]bool{"U_1": false, "U_2": true}, kept)
				assert.Equal(t, []string{"U_3"}, result.Filtered)
				assert.Empty(t, result.NoEstimate)
			})

			testutil.Then(t, "a stricter filter without retention drops the representative", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet,
					base+"/genomes/quality?retain_representatives=false&min_completeness=90"))
				testutil.AssertStatusOK(t, rr)
				result := testutil.UnmarshalResponse[models.FilterResult](t, rr)
				require.Len(t, result.Kept, 1)
				assert.Equal(t, id.Accession("U_1"), result.Kept[0].Genome.Accession)
			})
		})

		testutil.When(t, "the study is deleted", func(t *testing.T) {
			rr := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodDelete, base)))
			testutil.AssertStatus(t, rr, http.StatusNoContent)

			testutil.Then(t, "its genomes are gone too", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, base))
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})
	})
}
