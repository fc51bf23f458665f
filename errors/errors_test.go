package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestPipelineErrorUnwrap(t *testing.T) {
	cause := stderrors.New("column not present")
	err := NewSchemaError("no variety column found", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
	if err.Error() != "no variety column found: column not present" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
}

func TestFatalClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   *PipelineError
		fatal bool
	}{
		{"schema", NewSchemaError("missing column", nil), true},
		{"data_validation", NewDataValidationError("raw id collision", nil), true},
		{"enrichment", NewEnrichmentFailure("llm call failed", nil), false},
		{"malformed_record", NewMalformedRecordError("not an object", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Fatal() != tt.fatal {
				t.Errorf("Fatal() = %v, want %v", tt.err.Fatal(), tt.fatal)
			}
			if IsFatal(tt.err) != tt.fatal {
				t.Errorf("IsFatal() = %v, want %v", IsFatal(tt.err), tt.fatal)
			}
		})
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("stage failed: %w", NewEnrichmentFailure("query timed out", nil))

	if !IsKind(err, KindEnrichment) {
		t.Error("expected IsKind to see through fmt.Errorf wrapping")
	}
	if IsKind(err, KindSchema) {
		t.Error("wrong kind reported")
	}
	if IsFatal(err) {
		t.Error("enrichment failures are recoverable")
	}
}
