// Package e2e drives a running studycat server through godog scenarios.
//
// The server is found at BASE_URL (default http://localhost:8080). Curator
// tokens are signed with JWT_SIGNING_KEY, JWT_ISSUER and JWT_AUDIENCE, which
// must match the server's settings.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TestContext carries HTTP state between the steps of one scenario.
type TestContext struct {
	BaseURL    string
	HTTPClient *http.Client

	token      string
	studyID    string
	run        string
	lastStatus int
	lastBody   []byte
	lastHeader http.Header
}

func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL:    envOr("BASE_URL", "http://localhost:8080"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		run:        newRunID(),
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.token = ""
	tc.studyID = ""
	tc.run = newRunID()
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastHeader = nil
}

// Authenticate mints a curator token the server will accept.
func (tc *TestContext) Authenticate() error {
	now := time.Now()
	curator := uuid.NewString()
	claims := jwt.MapClaims{
		"curator_id":  curator,
		"api_version": "v1",
		"sub":         curator,
		"iss":         envOr("JWT_ISSUER", "studycat"),
		"aud":         []string{envOr("JWT_AUDIENCE", "studycat-curators")},
		"iat":         now.Unix(),
		"exp":         now.Add(time.Hour).Unix(),
		"jti":         uuid.NewString(),
	}
	key := envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	tc.token = signed
	return nil
}

func (tc *TestContext) StudyID() string      { return tc.studyID }
func (tc *TestContext) SetStudyID(id string) { tc.studyID = id }
func (tc *TestContext) LastStatus() int      { return tc.lastStatus }
func (tc *TestContext) LastBody() []byte     { return tc.lastBody }

func (tc *TestContext) LastHeader(name string) string {
	if tc.lastHeader == nil {
		return ""
	}
	return tc.lastHeader.Get(name)
}

// Expand substitutes {study} with the current study ID and {run} with a
// per-scenario suffix, so scenarios can rerun against a persistent catalog.
func (tc *TestContext) Expand(s string) string {
	return strings.NewReplacer("{study}", tc.studyID, "{run}", tc.run).Replace(s)
}

// Do sends a request and records the response. Paths are relative to BaseURL.
func (tc *TestContext) Do(method, path, contentType string, body []byte) error {
	path = tc.Expand(path)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", "studycat-e2e/1.0")
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastHeader = resp.Header
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

// JSON sends body encoded as JSON.
func (tc *TestContext) JSON(method, path string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tc.Do(method, path, "application/json", encoded)
}

// Text sends body as a plain-text upload.
func (tc *TestContext) Text(method, path, body string) error {
	return tc.Do(method, path, "text/plain", []byte(body))
}

// Field walks a dotted path ("report.missing.0") through the last JSON body.
func (tc *TestContext) Field(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w (body %q)", err, tc.lastBody)
	}
	for _, part := range strings.Split(path, ".") {
		switch node := doc.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, tc.lastBody)
			}
			doc = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			doc = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q at %q", path, part)
		}
	}
	return doc, nil
}

func newRunID() string {
	return uuid.NewString()[:8]
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
