// Package sentinel holds the errors stores return for infrastructure facts.
// Services translate them into domain errors; validation failures use
// pkg/domain-errors directly.
package sentinel

import "errors"

var (
	// ErrNotFound means the study or genome does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed means a unique value, such as a study name, is taken.
	ErrAlreadyUsed = errors.New("already used")
	// ErrInvalidState means the entity cannot accept the requested change.
	ErrInvalidState = errors.New("invalid state")
)
