// Package report persists finished evaluation reports.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/fieldeval/internal/db"
	"github.com/kailas-cloud/fieldeval/internal/domain"
	"github.com/kailas-cloud/fieldeval/internal/domain/evaluation"
)

// File writes the pretty-printed report, newline terminated, to a path.
type File struct {
	path string
}

// NewFile creates a file sink.
func NewFile(path string) *File {
	return &File{path: path}
}

// Save writes the report, replacing any existing file. runID is not part of
// the file contents.
func (f *File) Save(_ context.Context, _ string, m evaluation.Metrics) error {
	payload, err := m.MarshalPretty()
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(f.path, payload, 0o644); err != nil { //nolint:gosec // reports are meant to be shared
		return fmt.Errorf("%w: write %s: %w", domain.ErrIO, f.path, err)
	}
	return nil
}

// store is the consumer interface for the KV sink (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KV stores reports under <prefix><run id>.
type KV struct {
	store  store
	prefix string
	ttl    time.Duration
}

// NewKV creates a KV sink. A zero ttl keeps reports forever.
func NewKV(s store, prefix string, ttl time.Duration) *KV {
	return &KV{store: s, prefix: prefix, ttl: ttl}
}

// Save stores the pretty-printed report.
func (k *KV) Save(ctx context.Context, runID string, m evaluation.Metrics) error {
	payload, err := m.MarshalPretty()
	if err != nil {
		return err
	}
	if err := k.store.SetWithTTL(ctx, k.key(runID), payload, k.ttl); err != nil {
		return fmt.Errorf("store report %s: %w", runID, err)
	}
	return nil
}

// Get returns the stored report JSON.
func (k *KV) Get(ctx context.Context, runID string) ([]byte, error) {
	data, err := k.store.Get(ctx, k.key(runID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("get report %s: %w", runID, err)
	}
	return data, nil
}

// List returns the ids of all stored reports, sorted.
func (k *KV) List(ctx context.Context) ([]string, error) {
	keys, err := k.store.Scan(ctx, globEscaper.Replace(k.prefix)+"*")
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if id, ok := strings.CutPrefix(key, k.prefix); ok && id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// globEscaper quotes the characters SCAN MATCH treats as pattern syntax.
var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

func (k *KV) key(runID string) string {
	return k.prefix + runID
}
