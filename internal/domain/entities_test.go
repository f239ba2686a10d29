package domain

import (
	"errors"
	"testing"
)

func TestNewTerm(t *testing.T) {
	term, err := NewTerm("John Smith")
	if err != nil {
		t.Fatalf("NewTerm: %v", err)
	}
	if !term.Is("john smith") || !term.Is("JOHN SMITH") {
		t.Error("Is should match case-insensitively")
	}
	if term.Is("john") {
		t.Error("Is should not match partial text")
	}

	if _, err := NewTerm("   "); err == nil {
		t.Error("expected error for blank term")
	}
	var validationErr *ValidationError
	_, err = NewTerm("")
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestNewPosition(t *testing.T) {
	pos, err := NewPosition(10, 20, 110, 45)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if pos.Width() != 100 || pos.Height() != 25 {
		t.Errorf("Width/Height = %v/%v", pos.Width(), pos.Height())
	}

	if _, err := NewPosition(110, 20, 10, 45); err == nil {
		t.Error("expected error for inverted x range")
	}
	if _, err := NewPosition(10, 45, 110, 20); err == nil {
		t.Error("expected error for inverted y range")
	}
}

func TestNewTermOccurrence(t *testing.T) {
	term, _ := NewTerm("secret")
	pos, _ := NewPosition(0, 0, 10, 10)

	if _, err := NewTermOccurrence(term, pos, 1); err != nil {
		t.Errorf("page 1 should be valid: %v", err)
	}
	if _, err := NewTermOccurrence(term, pos, 0); err == nil {
		t.Error("expected error for page 0")
	}
}

func TestObfuscationResultHelpers(t *testing.T) {
	term, _ := NewTerm("a")
	pos, _ := NewPosition(0, 0, 1, 1)
	occ, _ := NewTermOccurrence(term, pos, 1)

	result := ObfuscationResult{
		Success: true,
		TermResults: []TermResult{
			{Term: term, Status: StatusFound, Occurrences: []TermOccurrence{occ}},
			{Term: term, Status: StatusNotFound},
			{Term: term, Status: StatusError, Message: "boom"},
		},
	}

	if result.HasErrors() {
		t.Error("successful result without error message should not report errors")
	}
	if got := len(result.FoundTermResults()); got != 1 {
		t.Errorf("FoundTermResults = %d, want 1", got)
	}
	if !result.TermResults[0].WasFound() {
		t.Error("term with occurrences should report found")
	}
	if result.TermResults[1].WasFound() {
		t.Error("not_found term should not report found")
	}
}

func TestProcessingErrorUnwrap(t *testing.T) {
	cause := errors.New("io failure")
	err := NewProcessingError("render", cause)
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
	var procErr *DocumentProcessingError
	if !errors.As(err, &procErr) || procErr.Stage != "render" {
		t.Errorf("unexpected error shape: %v", err)
	}
}
