package couchbase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JDeepLearn/faq-data-loader/core"
	"github.com/JDeepLearn/faq-data-loader/storage"
	"github.com/couchbase/gocb/v2"
)

// Config describes the cluster and the target keyspace.
type Config struct {
	ConnectionString string
	Username         string
	Password         string
	Bucket           string
	Scope            string
	Collection       string

	ConnectTimeout time.Duration
	KVTimeout      time.Duration
	// ReadyTimeout bounds WaitUntilReady on the bucket.
	ReadyTimeout time.Duration
}

// Validate checks that the keyspace is fully specified.
func (c *Config) Validate() error {
	switch {
	case c.ConnectionString == "":
		return errors.New("couchbase config: ConnectionString is required")
	case c.Bucket == "":
		return errors.New("couchbase config: Bucket is required")
	case c.Scope == "":
		return errors.New("couchbase config: Scope is required")
	case c.Collection == "":
		return errors.New("couchbase config: Collection is required")
	}
	return nil
}

// Collection implements storage.Collection for Couchbase.
type Collection struct {
	cluster    *gocb.Cluster
	collection *gocb.Collection
	logger     *slog.Logger
}

var _ storage.Collection = (*Collection)(nil)

// Open connects to the cluster and waits until the bucket is ready.
func Open(cfg Config, logger *slog.Logger) (*Collection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "couchbase", "bucket", cfg.Bucket,
		"keyspace", cfg.Scope+"."+cfg.Collection)

	cluster, err := gocb.Connect(cfg.ConnectionString, gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		},
		TimeoutsConfig: gocb.TimeoutsConfig{
			ConnectTimeout: cfg.ConnectTimeout,
			KVTimeout:      cfg.KVTimeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to couchbase: %w", err)
	}

	bucket := cluster.Bucket(cfg.Bucket)
	if err := bucket.WaitUntilReady(cfg.ReadyTimeout, nil); err != nil {
		_ = cluster.Close(nil)
		return nil, fmt.Errorf("bucket %s not ready: %w", cfg.Bucket, err)
	}

	logger.Info("connected to couchbase")
	return &Collection{
		cluster:    cluster,
		collection: bucket.Scope(cfg.Scope).Collection(cfg.Collection),
		logger:     logger,
	}, nil
}

// Insert stores doc unless its key already exists.
func (c *Collection) Insert(ctx context.Context, doc *core.Document, durability storage.Durability) error {
	_, err := c.collection.Insert(doc.ID, doc, &gocb.InsertOptions{
		DurabilityLevel: durabilityLevel(durability),
		Context:         ctx,
	})
	return mapError(err)
}

// Upsert stores doc, replacing any existing document.
func (c *Collection) Upsert(ctx context.Context, doc *core.Document, durability storage.Durability) error {
	_, err := c.collection.Upsert(doc.ID, doc, &gocb.UpsertOptions{
		DurabilityLevel: durabilityLevel(durability),
		Context:         ctx,
	})
	return mapError(err)
}

// Get retrieves a document by id.
func (c *Collection) Get(ctx context.Context, id string) (*core.Document, error) {
	result, err := c.collection.Get(id, &gocb.GetOptions{Context: ctx})
	if err != nil {
		return nil, mapError(err)
	}

	var doc core.Document
	if err := result.Content(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	doc.ID = id
	return &doc, nil
}

// Close closes the cluster connection.
func (c *Collection) Close() error {
	return c.cluster.Close(nil)
}

func durabilityLevel(d storage.Durability) gocb.DurabilityLevel {
	switch d {
	case storage.DurabilityMajority:
		return gocb.DurabilityLevelMajority
	case storage.DurabilityMajorityAndPersistActive:
		return gocb.DurabilityLevelMajorityAndPersistOnMaster
	case storage.DurabilityPersistMajority:
		return gocb.DurabilityLevelPersistToMajority
	default:
		return gocb.DurabilityLevelNone
	}
}

// mapError translates gocb errors to storage sentinels, keeping the cause.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gocb.ErrDocumentExists):
		return fmt.Errorf("%w: %w", storage.ErrDocumentExists, err)
	case errors.Is(err, gocb.ErrDocumentNotFound):
		return fmt.Errorf("%w: %w", storage.ErrNotFound, err)
	case errors.Is(err, gocb.ErrDurabilityImpossible):
		return fmt.Errorf("%w: %w", storage.ErrDurabilityImpossible, err)
	default:
		return err
	}
}
