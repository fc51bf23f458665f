package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline error.
type Kind string

const (
	// KindSchema means a required column or field is absent from an input table.
	// Fatal for the run that depends on that input.
	KindSchema Kind = "schema"
	// KindDataValidation means a generated uniqueness invariant was violated.
	// Always a logic bug; fatal before any downstream write.
	KindDataValidation Kind = "data_validation"
	// KindEnrichment means a single search query or LLM call failed or returned
	// unparseable content. Recoverable; counted and processing continues.
	KindEnrichment Kind = "enrichment"
	// KindMalformedRecord means a row in an intermediate artifact is not a
	// well-formed object. The row is skipped with a warning.
	KindMalformedRecord Kind = "malformed_record"
)

// PipelineError is the application error carried between pipeline stages.
type PipelineError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"` // wrapped cause, for logs only
	Context string `json:"-"` // extra context (stage, file, record id)
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause for errors.Is and errors.As.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error must abort the run before any final artifact
// is written.
func (e *PipelineError) Fatal() bool {
	return e.Kind == KindSchema || e.Kind == KindDataValidation
}

// WithContext attaches context to the error and returns it.
func (e *PipelineError) WithContext(context string) *PipelineError {
	e.Context = context
	return e
}

// NewSchemaError creates a fatal error for a missing required column/field.
func NewSchemaError(message string, err error) *PipelineError {
	return &PipelineError{Kind: KindSchema, Message: message, Err: err}
}

// NewDataValidationError creates a fatal error for a violated generated-ID invariant.
func NewDataValidationError(message string, err error) *PipelineError {
	return &PipelineError{Kind: KindDataValidation, Message: message, Err: err}
}

// NewEnrichmentFailure creates a recoverable error for a failed search or LLM call.
func NewEnrichmentFailure(message string, err error) *PipelineError {
	return &PipelineError{Kind: KindEnrichment, Message: message, Err: err}
}

// NewMalformedRecordError creates a recoverable error for a skippable bad row.
func NewMalformedRecordError(message string, err error) *PipelineError {
	return &PipelineError{Kind: KindMalformedRecord, Message: message, Err: err}
}

// IsKind reports whether err is a *PipelineError of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// IsFatal reports whether err (or any wrapped error) must abort the run.
func IsFatal(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Fatal()
	}
	return false
}
