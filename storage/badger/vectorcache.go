package badger

import (
	"context"
	"errors"

	"github.com/JDeepLearn/faq-data-loader/ai"
	"github.com/JDeepLearn/faq-data-loader/storage"
	"github.com/dgraph-io/badger/v4"
)

// VectorCache implements ai.VectorCache on a BadgerDB backend.
type VectorCache struct {
	backend *Backend
}

var _ ai.VectorCache = (*VectorCache)(nil)

// NewVectorCache creates a vector cache on backend.
func NewVectorCache(backend *Backend) *VectorCache {
	return &VectorCache{backend: backend}
}

// GetVector returns the vector cached under key.
func (c *VectorCache) GetVector(ctx context.Context, key string) ([]float32, bool, error) {
	if c.backend.IsClosed() {
		return nil, false, storage.ErrStorageClosed
	}

	var vector []float32
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorCacheKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			vector, err = storage.UnmarshalVector(val)
			return err
		})
	}, false)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return vector, true, nil
}

// PutVector caches vector under key.
func (c *VectorCache) PutVector(ctx context.Context, key string, vector []float32) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	value := storage.MarshalVector(vector)
	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorCacheKey(key), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
