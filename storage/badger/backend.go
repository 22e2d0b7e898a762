package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend owns one BadgerDB instance. A Collection and a VectorCache may
// share it.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// slogAdapter routes badger's printf-style logging into slog.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) log(level slog.Level, msg string, items []any) {
	if !a.logger.Enabled(context.Background(), level) {
		return
	}
	a.logger.Log(context.Background(), level, fmt.Sprintf(msg, items...))
}

func (a *slogAdapter) Errorf(msg string, items ...any)   { a.log(slog.LevelError, msg, items) }
func (a *slogAdapter) Warningf(msg string, items ...any) { a.log(slog.LevelWarn, msg, items) }

// Infof is compaction and flush chatter; it is demoted to debug.
func (a *slogAdapter) Infof(msg string, items ...any)  { a.log(slog.LevelDebug, msg, items) }
func (a *slogAdapter) Debugf(msg string, items ...any) { a.log(slog.LevelDebug, msg, items) }

// OpenBackend opens the database at dir, creating the directory when it is
// missing. With inMemory set dir is ignored. A nil logger uses slog.Default().
//
// On-disk backends sync every commit: the collection offers no replica to
// fall back on.
func OpenBackend(dir string, inMemory bool, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "badger")

	opts := badger.DefaultOptions("").WithInMemory(true)
	if !inMemory {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.
		WithLogger(&slogAdapter{logger: logger}).
		WithCompression(options.None)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	logger.Debug("badger opened", "dir", dir, "in_memory", inMemory)
	return &Backend{db: db, logger: logger}, nil
}

func ensureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("badger directory is required")
	}
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(dir, 0o755)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn in a transaction that is discarded when fn returns.
// Write transactions must be committed by fn.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}
