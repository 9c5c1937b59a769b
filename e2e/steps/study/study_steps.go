package study

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context study steps need.
type TestContext interface {
	JSON(method, path string, body any) error
	Text(method, path, body string) error
	Do(method, path, contentType string, body []byte) error
	LastStatus() int
	LastBody() []byte
	Field(path string) (any, error)
	Expand(s string) string
	SetStudyID(id string)
}

// RegisterSteps registers study curation steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &studySteps{tc: tc}

	ctx.Step(`^I create a study named "([^"]*)" with the record:$`, steps.createStudy)
	ctx.Step(`^a study named "([^"]*)" exists with the record:$`, steps.studyExists)
	ctx.Step(`^I register genomes "([^"]*)"$`, steps.registerGenomes)
	ctx.Step(`^I import the "([^"]*)" field as "([^"]*)":$`, steps.importField)
	ctx.Step(`^I assign representatives:$`, steps.assignRepresentatives)
	ctx.Step(`^I filter genomes$`, steps.filterDefault)
	ctx.Step(`^I filter genomes with "([^"]*)"$`, steps.filterWith)
	ctx.Step(`^genome "([^"]*)" should be kept$`, steps.genomeKept)
	ctx.Step(`^genome "([^"]*)" should be filtered$`, steps.genomeFiltered)
	ctx.Step(`^I validate the record:$`, steps.validateRecord)
	ctx.Step(`^I set field "([^"]*)" to "([^"]*)"$`, steps.setField)
	ctx.Step(`^I export the study as "([^"]*)"$`, steps.export)
	ctx.Step(`^the export should contain "([^"]*)"$`, steps.exportContains)
}

type studySteps struct {
	tc TestContext
}

func (s *studySteps) createStudy(_ context.Context, name string, doc *godog.DocString) error {
	return s.tc.Text(http.MethodPost, "/v1/studies?name="+url.QueryEscape(s.tc.Expand(name)), unescapeTabs(doc.Content)+"\n")
}

func (s *studySteps) studyExists(ctx context.Context, name string, doc *godog.DocString) error {
	if err := s.createStudy(ctx, name, doc); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusCreated {
		return fmt.Errorf("create study: status %d: %s", s.tc.LastStatus(), s.tc.LastBody())
	}
	v, err := s.tc.Field("id")
	if err != nil {
		return err
	}
	s.tc.SetStudyID(fmt.Sprint(v))
	return nil
}

func (s *studySteps) registerGenomes(_ context.Context, list string) error {
	var accessions []string
	for _, a := range strings.Split(list, ",") {
		accessions = append(accessions, strings.TrimSpace(a))
	}
	return s.tc.JSON(http.MethodPost, "/v1/studies/{study}/genomes", map[string][]string{"accessions": accessions})
}

func (s *studySteps) importField(_ context.Context, field, fieldType string, doc *godog.DocString) error {
	q := url.Values{"field": {field}, "type": {fieldType}}
	return s.tc.Text(http.MethodPost, "/v1/studies/{study}/genomes/import?"+q.Encode(), unescapeTabs(doc.Content)+"\n")
}

func (s *studySteps) assignRepresentatives(_ context.Context, doc *godog.DocString) error {
	return s.tc.Text(http.MethodPost, "/v1/studies/{study}/representatives", unescapeTabs(doc.Content)+"\n")
}

func (s *studySteps) filterDefault(context.Context) error {
	return s.tc.Do(http.MethodGet, "/v1/studies/{study}/genomes/quality", "", nil)
}

func (s *studySteps) filterWith(_ context.Context, query string) error {
	return s.tc.Do(http.MethodGet, "/v1/studies/{study}/genomes/quality?"+query, "", nil)
}

func (s *studySteps) genomeKept(_ context.Context, accession string) error {
	kept, err := s.tc.Field("kept")
	if err != nil {
		return err
	}
	list, _ := kept.([]any)
	for _, entry := range list {
		g, _ := entry.(map[string]any)
		genome, _ := g["genome"].(map[string]any)
		if genome["accession"] == accession {
			return nil
		}
	}
	return fmt.Errorf("genome %s not kept: %s", accession, s.tc.LastBody())
}

func (s *studySteps) genomeFiltered(_ context.Context, accession string) error {
	filtered, err := s.tc.Field("filtered")
	if err != nil {
		return err
	}
	list, _ := filtered.([]any)
	for _, a := range list {
		if a == accession {
			return nil
		}
	}
	return fmt.Errorf("genome %s not filtered: %s", accession, s.tc.LastBody())
}

func (s *studySteps) validateRecord(_ context.Context, doc *godog.DocString) error {
	return s.tc.Text(http.MethodPost, "/v1/records/validate", unescapeTabs(doc.Content)+"\n")
}

func (s *studySteps) setField(_ context.Context, key, value string) error {
	return s.tc.JSON(http.MethodPut, "/v1/studies/{study}/fields/"+url.PathEscape(key), map[string]string{"value": value})
}

func (s *studySteps) export(_ context.Context, format string) error {
	return s.tc.Do(http.MethodGet, "/v1/studies/{study}/record?format="+url.QueryEscape(format), "", nil)
}

func (s *studySteps) exportContains(_ context.Context, want string) error {
	want = unescapeTabs(want)
	if !strings.Contains(string(s.tc.LastBody()), want) {
		return fmt.Errorf("export does not contain %q:\n%s", want, s.tc.LastBody())
	}
	return nil
}

// unescapeTabs lets feature files write tab-separated rows as "\t".
func unescapeTabs(s string) string {
	return strings.ReplaceAll(s, `\t`, "\t")
}
