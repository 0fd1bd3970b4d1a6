package payload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kailas-cloud/fieldeval/internal/domain"
)

// File reads a payload from the local filesystem.
type File struct {
	path     string
	notFound func(path string) error
}

// NewPredictionFile reads predictions; a missing file is a FileNotFoundError.
func NewPredictionFile(path string) *File {
	return &File{path: path, notFound: domain.NewFileNotFound}
}

// NewReferenceFile reads a reference override; a missing file is an I/O
// failure, since the caller named the file explicitly.
func NewReferenceFile(path string) *File {
	return &File{path: path, notFound: func(p string) error {
		return fmt.Errorf("%w: reference file %s does not exist", domain.ErrIO, p)
	}}
}

// Name identifies the provider in logs.
func (f *File) Name() string { return "file:" + f.path }

// Path returns the file location.
func (f *File) Path() string { return f.path }

// Load reads the whole file.
func (f *File) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, f.notFound(f.path)
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrIO, f.path, err)
	}
	return data, nil
}

// Bytes is an in-memory payload, e.g. a request body.
type Bytes []byte

// Name identifies the provider in logs.
func (b Bytes) Name() string { return "inline" }

// Load returns the payload as is.
func (b Bytes) Load(_ context.Context) ([]byte, error) { return b, nil }
