package models

import (
	"time"

	dErrors "studycat/pkg/domain-errors"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassRead: catalog lookups, exports and quality filtering.
	ClassRead EndpointClass = "read"
	// ClassWrite: curator mutations and file uploads.
	ClassWrite EndpointClass = "write"
	// ClassValidate: anonymous record validation.
	ClassValidate EndpointClass = "validate"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassRead, ClassWrite, ClassValidate:
		return true
	}
	return false
}

// Limit is the number of requests allowed per sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

func (l Limit) Validate() error {
	if l.Requests <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "rate limit must allow at least one request")
	}
	if l.Window <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "rate limit window must be positive")
	}
	return nil
}

// DefaultLimits are per-minute budgets for each class.
func DefaultLimits() map[EndpointClass]Limit {
	return map[EndpointClass]Limit{
		ClassRead:     {Requests: 300, Window: time.Minute},
		ClassWrite:    {Requests: 60, Window: time.Minute},
		ClassValidate: {Requests: 120, Window: time.Minute},
	}
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// RetryAfterSeconds rounds the wait until resetAt up to whole seconds, never
// below one.
func RetryAfterSeconds(now, resetAt time.Time) int {
	d := resetAt.Sub(now)
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
