package storage

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"dna-hq/netexport/pkg/corpus"
)

const snapshotKey = "snapshot"

// CacheObserver is told about snapshot cache activity.
type CacheObserver interface {
	RecordCacheHit()
	RecordCacheMiss()
	RecordCacheInvalidation()
}

type noopObserver struct{}

func (noopObserver) RecordCacheHit()          {}
func (noopObserver) RecordCacheMiss()         {}
func (noopObserver) RecordCacheInvalidation() {}

// CachedStorage wraps a corpus.Storage and keeps the last Snapshot for ttl.
// Any write through the wrapper drops the cached snapshot.
type CachedStorage struct {
	corpus.Storage

	cache    *gocache.Cache
	observer CacheObserver
	logger   *slog.Logger
}

// NewCachedStorage wraps inner. A ttl of zero or less keeps snapshots until
// the next write.
func NewCachedStorage(inner corpus.Storage, ttl time.Duration) *CachedStorage {
	cleanup := ttl * 2
	if ttl <= 0 {
		ttl = gocache.NoExpiration
		cleanup = 0
	}

	return &CachedStorage{
		Storage:  inner,
		cache:    gocache.New(ttl, cleanup),
		observer: noopObserver{},
		logger:   slog.Default().With("component", "corpus.storage.cached"),
	}
}

// SetObserver installs o as the cache observer. Nil restores the no-op
// observer. Call before the storage is shared.
func (c *CachedStorage) SetObserver(o CacheObserver) {
	if o == nil {
		o = noopObserver{}
	}
	c.observer = o
}

// Snapshot returns the cached snapshot, loading it from the wrapped storage
// on a miss.
func (c *CachedStorage) Snapshot(ctx context.Context) (*corpus.Snapshot, error) {
	if val, found := c.cache.Get(snapshotKey); found {
		c.observer.RecordCacheHit()
		c.logger.Debug("snapshot cache hit")
		return val.(*corpus.Snapshot), nil
	}

	c.observer.RecordCacheMiss()
	snap, err := c.Storage.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(snapshotKey, snap, gocache.DefaultExpiration)
	c.logger.Debug("snapshot cache miss", "statements", snap.Len())
	return snap, nil
}

// StoreDocument persists a document and invalidates the cache.
func (c *CachedStorage) StoreDocument(ctx context.Context, doc *corpus.Document) error {
	defer c.Invalidate()
	return c.Storage.StoreDocument(ctx, doc)
}

// StoreStatementType persists a statement type and invalidates the cache.
func (c *CachedStorage) StoreStatementType(ctx context.Context, st *corpus.StatementType) error {
	defer c.Invalidate()
	return c.Storage.StoreStatementType(ctx, st)
}

// StoreStatement persists a statement and invalidates the cache.
func (c *CachedStorage) StoreStatement(ctx context.Context, stmt *corpus.Statement) error {
	defer c.Invalidate()
	return c.Storage.StoreStatement(ctx, stmt)
}

// Invalidate drops the cached snapshot.
func (c *CachedStorage) Invalidate() {
	c.observer.RecordCacheInvalidation()
	c.cache.Delete(snapshotKey)
}

// Close flushes the cache and closes the wrapped storage.
func (c *CachedStorage) Close() error {
	c.cache.Flush()
	return c.Storage.Close()
}
