// Package payload provides the sources that corpus payloads are read from:
// the reference baked into the binary, local files, request bodies and Redis.
package payload

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/kailas-cloud/fieldeval/internal/domain"
)

//go:generate go run ../../../cmd/fieldeval-bake --ground-truth ../../../testdata/dummy_ground_truth.json --assets assets

// Asset file names written by fieldeval-bake into the assets directory.
const (
	ReferenceAsset = "ground_truth.json.zz"
	BuildInfoAsset = "build_info.json"
)

var (
	//go:embed assets/ground_truth.json.zz
	embeddedReference []byte

	//go:embed assets/build_info.json
	embeddedBuildInfo []byte
)

// Embedded serves the zlib-compressed reference corpus compiled into the
// binary.
type Embedded struct {
	compressed []byte
}

// NewEmbedded returns the provider for the reference baked into this binary.
func NewEmbedded() *Embedded {
	return &Embedded{compressed: embeddedReference}
}

// NewEmbeddedFrom wraps an arbitrary compressed payload.
func NewEmbeddedFrom(compressed []byte) *Embedded {
	return &Embedded{compressed: compressed}
}

// Name identifies the provider in logs.
func (e *Embedded) Name() string { return "embedded" }

// Load decompresses the reference payload.
func (e *Embedded) Load(_ context.Context) ([]byte, error) {
	if len(e.compressed) == 0 {
		return nil, domain.ErrMissingGroundTruth
	}
	zr, err := zlib.NewReader(bytes.NewReader(e.compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: open embedded reference: %w", domain.ErrIO, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress embedded reference: %w", domain.ErrIO, err)
	}
	return data, nil
}

// EmbeddedBuildInfo returns the build_info.json baked next to the reference.
func EmbeddedBuildInfo() []byte {
	out := make([]byte, len(embeddedBuildInfo))
	copy(out, embeddedBuildInfo)
	return out
}

// Compress zlib-compresses data at the highest compression level, the format
// Embedded reads back.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create zlib writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish compression: %w", err)
	}
	return buf.Bytes(), nil
}
