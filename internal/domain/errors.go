package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound signals a missing predictions source.
	ErrFileNotFound = errors.New("prediction file not found")
	// ErrMissingGroundTruth signals that the reference payload is unavailable.
	ErrMissingGroundTruth = errors.New("embedded ground truth payload is missing")
	// ErrEmptyInput signals an empty reference or prediction corpus.
	ErrEmptyInput = errors.New("ground truth or prediction payload was empty")
	// ErrInvalidFields signals a document whose fields member is not an object.
	ErrInvalidFields = errors.New("each document requires an object-valued 'fields' entry")
	// ErrInvalidFieldStructure signals a scalar where a container was required.
	ErrInvalidFieldStructure = errors.New("field structures must be JSON objects or arrays")
	// ErrInvalidJSON signals a payload that is not a valid document array.
	ErrInvalidJSON = errors.New("failed to parse JSON")
	// ErrIO signals a read or write failure.
	ErrIO = errors.New("i/o failure")
)

// Report storage errors. These are outside the evaluation error set.
var (
	ErrReportNotFound      = errors.New("evaluation report not found")
	ErrReportStoreDisabled = errors.New("report persistence is disabled")
)

// FileNotFoundError wraps ErrFileNotFound with the missing location.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFileNotFound.Error(), e.Path)
}

func (e *FileNotFoundError) Unwrap() error { return ErrFileNotFound }

// NewFileNotFound creates a not-found error for the given location.
func NewFileNotFound(path string) error {
	return &FileNotFoundError{Path: path}
}

// InvalidFieldsError wraps ErrInvalidFields with the offending document id.
type InvalidFieldsError struct {
	DocumentID string
}

func (e *InvalidFieldsError) Error() string {
	return fmt.Sprintf("%s (document: %s)", ErrInvalidFields.Error(), e.DocumentID)
}

func (e *InvalidFieldsError) Unwrap() error { return ErrInvalidFields }

// NewInvalidFields creates an invalid-fields error for a document.
func NewInvalidFields(documentID string) error {
	return &InvalidFieldsError{DocumentID: documentID}
}

// ErrorKind names one of the closed set of evaluation failure kinds.
type ErrorKind string

// Error kinds, one per sentinel.
const (
	KindNone                  ErrorKind = ""
	KindFileNotFound          ErrorKind = "file_not_found"
	KindMissingGroundTruth    ErrorKind = "missing_ground_truth"
	KindEmptyInput            ErrorKind = "empty_input"
	KindInvalidFields         ErrorKind = "invalid_fields"
	KindInvalidFieldStructure ErrorKind = "invalid_field_structure"
	KindInvalidJSON           ErrorKind = "invalid_json"
	KindIO                    ErrorKind = "io"
	KindUnknown               ErrorKind = "unknown"
)

var kinds = []struct {
	sentinel error
	kind     ErrorKind
}{
	{ErrFileNotFound, KindFileNotFound},
	{ErrMissingGroundTruth, KindMissingGroundTruth},
	{ErrEmptyInput, KindEmptyInput},
	{ErrInvalidFields, KindInvalidFields},
	{ErrInvalidFieldStructure, KindInvalidFieldStructure},
	{ErrInvalidJSON, KindInvalidJSON},
	{ErrIO, KindIO},
}

// KindOf classifies err. Returns KindNone for nil and KindUnknown for errors
// outside the evaluation error set.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindUnknown
}
