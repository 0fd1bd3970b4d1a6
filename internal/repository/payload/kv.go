package payload

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/fieldeval/internal/db"
	"github.com/kailas-cloud/fieldeval/internal/domain"
)

// store is the consumer interface for KV-backed payloads (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// KV reads a reference corpus stored under a single key.
type KV struct {
	store store
	key   string
}

// NewKV creates a KV-backed reference provider.
func NewKV(s store, key string) *KV {
	return &KV{store: s, key: key}
}

// Name identifies the provider in logs.
func (k *KV) Name() string { return "kv:" + k.key }

// Load fetches the payload. A missing or empty key means no reference has
// been published.
func (k *KV) Load(ctx context.Context) ([]byte, error) {
	data, err := k.store.Get(ctx, k.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: key %s", domain.ErrMissingGroundTruth, k.key)
		}
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrIO, k.key, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: key %s is empty", domain.ErrMissingGroundTruth, k.key)
	}
	return data, nil
}
