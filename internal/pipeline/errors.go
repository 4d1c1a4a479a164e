// Package pipeline implements the fixed post-generation pipeline: a forward
// chain of stages that share one mutable state, each calling the
// text-generation service and validating its output against the brand
// identity.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/postforge/postforge/internal/identity"
)

// ErrNoPayload indicates the pipeline completed without producing a post.
var ErrNoPayload = errors.New("pipeline produced no post payload")

// MissingInputError indicates a stage precondition was violated because an
// upstream stage did not populate a required state field.
type MissingInputError struct {
	Stage string
	Field string
}

// Error implements the error interface.
func (e *MissingInputError) Error() string {
	return fmt.Sprintf("stage %s: required input %q is missing", e.Stage, e.Field)
}

// OutputParseError indicates the model reply was not valid JSON after
// fence stripping. It always aborts the run; there is no silent fallback.
type OutputParseError struct {
	Stage string
	Raw   string
	Err   error
}

// Error implements the error interface.
func (e *OutputParseError) Error() string {
	return fmt.Sprintf("stage %s: could not parse model output: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *OutputParseError) Unwrap() error {
	return e.Err
}

// Retryable classifies whether an error is worth a client retry. Identity
// configuration problems are permanent until the stored spec changes;
// generation and parse failures are transient model behavior.
func Retryable(err error) bool {
	var missing *MissingInputError
	if errors.As(err, &missing) {
		return false
	}
	var spec *identity.SpecValidationError
	if errors.As(err, &spec) {
		return false
	}
	if errors.Is(err, identity.ErrNoActiveIdentity) || errors.Is(err, ErrNoPayload) {
		return false
	}
	return true
}
