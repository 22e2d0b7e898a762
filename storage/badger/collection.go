package badger

import (
	"context"
	"errors"

	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/JDeepLearn/faq-data-loader/storage"
	"github.com/dgraph-io/badger/v4"
)

// Collection implements storage.Collection on an embedded BadgerDB.
// It is a single node, so it cannot honour any durability above
// storage.DurabilityNone and reports storage.ErrDurabilityImpossible.
type Collection struct {
	backend *Backend
	owned   bool
}

var _ storage.Collection = (*Collection)(nil)

// NewCollection creates a Collection on a shared backend. Closing the
// collection leaves the backend open.
func NewCollection(backend *Backend) *Collection {
	return &Collection{backend: backend}
}

// OpenCollection opens a backend at filePath and returns a Collection that
// owns it.
func OpenCollection(filePath string, inMemory bool) (*Collection, error) {
	backend, err := OpenBackend(filePath, inMemory, nil)
	if err != nil {
		return nil, err
	}
	return &Collection{backend: backend, owned: true}, nil
}

// Backend returns the backend the collection writes to.
func (c *Collection) Backend() *Backend {
	return c.backend
}

// Insert stores doc unless its key already exists.
func (c *Collection) Insert(ctx context.Context, doc *core.Document, durability storage.Durability) error {
	value, err := c.prepare(ctx, doc, durability)
	if err != nil {
		return err
	}
	key := makeDocumentKey(doc.ID)

	err = c.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrDocumentExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	// A concurrent insert of the same key committed first.
	if errors.Is(err, badger.ErrConflict) {
		return storage.ErrDocumentExists
	}
	return err
}

// Upsert stores doc, replacing any existing document.
func (c *Collection) Upsert(ctx context.Context, doc *core.Document, durability storage.Durability) error {
	value, err := c.prepare(ctx, doc, durability)
	if err != nil {
		return err
	}
	key := makeDocumentKey(doc.ID)

	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a document by id.
func (c *Collection) Get(ctx context.Context, id string) (*core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var doc *core.Document
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			doc, err = storage.UnmarshalDocument(id, val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Close closes the backend if the collection opened it.
func (c *Collection) Close() error {
	if !c.owned || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}

func (c *Collection) prepare(ctx context.Context, doc *core.Document, durability storage.Durability) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if durability > storage.DurabilityNone {
		return nil, storage.ErrDurabilityImpossible
	}
	return storage.MarshalDocument(doc)
}
