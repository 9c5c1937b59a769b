package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario context generic steps need.
type TestContext interface {
	Authenticate() error
	Do(method, path, contentType string, body []byte) error
	LastStatus() int
	LastBody() []byte
	LastHeader(name string) string
	Field(path string) (any, error)
	Expand(s string) string
}

// RegisterSteps registers request and assertion steps shared by all features.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the studycat service is running$`, steps.serviceIsRunning)
	ctx.Step(`^I am an authenticated curator$`, steps.authenticate)
	ctx.Step(`^I (GET|DELETE) "([^"]*)"$`, steps.send)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be (true|false)$`, steps.fieldShouldBeBool)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) entr(?:y|ies)$`, steps.fieldShouldHaveLen)
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.errorCodeShouldBe)
	ctx.Step(`^the response header "([^"]*)" should be set$`, steps.headerShouldBeSet)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsRunning(context.Context) error {
	if err := s.tc.Do(http.MethodGet, "/health", "", nil); err != nil {
		return err
	}
	if s.tc.LastStatus() != http.StatusOK {
		return fmt.Errorf("health check returned %d: %s", s.tc.LastStatus(), s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) authenticate(context.Context) error {
	return s.tc.Authenticate()
}

func (s *commonSteps) send(_ context.Context, method, path string) error {
	return s.tc.Do(method, path, "", nil)
}

func (s *commonSteps) statusShouldBe(_ context.Context, want int) error {
	if got := s.tc.LastStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(_ context.Context, path, want string) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	want = s.tc.Expand(want)
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("field %q: expected %q, got %q", path, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeBool(_ context.Context, path, want string) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	b, ok := v.(bool)
	if !ok || fmt.Sprint(b) != want {
		return fmt.Errorf("field %q: expected %s, got %v", path, want, v)
	}
	return nil
}

func (s *commonSteps) fieldShouldHaveLen(_ context.Context, path string, want int) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	var n int
	switch node := v.(type) {
	case []any:
		n = len(node)
	case map[string]any:
		n = len(node)
	case nil:
		n = 0
	default:
		return fmt.Errorf("field %q is not a collection: %v", path, v)
	}
	if n != want {
		return fmt.Errorf("field %q: expected %d entries, got %d", path, want, n)
	}
	return nil
}

func (s *commonSteps) errorCodeShouldBe(ctx context.Context, want string) error {
	return s.fieldShouldBe(ctx, "error", want)
}

func (s *commonSteps) headerShouldBeSet(_ context.Context, name string) error {
	if strings.TrimSpace(s.tc.LastHeader(name)) == "" {
		return fmt.Errorf("header %q missing", name)
	}
	return nil
}
