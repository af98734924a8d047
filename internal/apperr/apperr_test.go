package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"not found", NotFound("missing %q", "x"), KindNotFound},
		{"conflict", Conflict("busy", nil), KindConflict},
		{"persistence", Persistence("write", errors.New("disk full")), KindPersistence},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("inner")), KindNotFound},
		{"plain error", errors.New("plain"), 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Persistence("write document", cause)
	if !errors.Is(err, cause) {
		t.Error("persistence error should unwrap to its cause")
	}
	if got := err.Error(); got != "persistence_error: write document: disk full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("service: %w", NotFound("task %q not found", "Study math"))
	if !errors.Is(err, NotFound("")) {
		t.Error("errors.Is should match any error of the same kind")
	}
	if errors.Is(err, Validation("")) {
		t.Error("errors.Is must not match a different kind")
	}
}

func TestDetailsOf(t *testing.T) {
	details := map[string]interface{}{"blocking_task": "Team meeting"}
	err := Conflict("time conflict", details)
	got := DetailsOf(err)
	if got["blocking_task"] != "Team meeting" {
		t.Errorf("DetailsOf() = %v", got)
	}
	if DetailsOf(errors.New("plain")) != nil {
		t.Error("DetailsOf on a plain error should be nil")
	}
}
