package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestFileNotFoundError(t *testing.T) {
	err := NewFileNotFound("/tmp/predictions.json")

	if !errors.Is(err, ErrFileNotFound) {
		t.Fatal("expected errors.Is(err, ErrFileNotFound)")
	}
	want := "prediction file not found: /tmp/predictions.json"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var fnf *FileNotFoundError
	if !errors.As(fmt.Errorf("load: %w", err), &fnf) {
		t.Fatal("expected errors.As to find FileNotFoundError")
	}
	if fnf.Path != "/tmp/predictions.json" {
		t.Errorf("Path = %q", fnf.Path)
	}
}

func TestInvalidFieldsError(t *testing.T) {
	err := NewInvalidFields("doc-7")

	if !errors.Is(err, ErrInvalidFields) {
		t.Fatal("expected errors.Is(err, ErrInvalidFields)")
	}
	want := "each document requires an object-valued 'fields' entry (document: doc-7)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"file not found", NewFileNotFound("x"), KindFileNotFound},
		{"missing ground truth", ErrMissingGroundTruth, KindMissingGroundTruth},
		{"empty input wrapped", fmt.Errorf("parse: %w", ErrEmptyInput), KindEmptyInput},
		{"invalid fields", NewInvalidFields("d"), KindInvalidFields},
		{"invalid structure", ErrInvalidFieldStructure, KindInvalidFieldStructure},
		{"invalid json", fmt.Errorf("%w: unexpected EOF", ErrInvalidJSON), KindInvalidJSON},
		{"io", fmt.Errorf("%w: disk full", ErrIO), KindIO},
		{"foreign", errors.New("boom"), KindUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestKindOf_ReportErrorsAreUnknown(t *testing.T) {
	for _, err := range []error{ErrReportNotFound, ErrReportStoreDisabled} {
		if got := KindOf(err); got != KindUnknown {
			t.Errorf("KindOf(%v) = %q, want %q", err, got, KindUnknown)
		}
	}
}
