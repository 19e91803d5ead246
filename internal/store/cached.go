package store

import (
	"context"
	"errors"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Backend = (*CachedBackend)(nil)

// CachedBackend puts a freecache read-through cache in front of another
// backend. Writes go to the backend first; the cache only keeps values the
// backend accepted.
type CachedBackend struct {
	backend Backend
	cache   *freecache.Cache
}

func NewCachedBackend(backend Backend, cacheSize int) *CachedBackend {
	return &CachedBackend{
		backend: backend,
		cache:   freecache.NewCache(cacheSize),
	}
}

func (c *CachedBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if value, err := c.cache.Get([]byte(key)); err == nil {
		return value, nil
	}

	value, err := c.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set([]byte(key), value, 0); err != nil {
		log.Debugf("cache set [%s]: %s", key, err)
	}
	return value, nil
}

func (c *CachedBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := c.backend.Set(ctx, key, value); err != nil {
		c.cache.Del([]byte(key))
		return err
	}

	if err := c.cache.Set([]byte(key), value, 0); err != nil {
		// entry too large for the cache, just keep reading through
		if !errors.Is(err, freecache.ErrLargeEntry) && !errors.Is(err, freecache.ErrLargeKey) {
			log.Debugf("cache set [%s]: %s", key, err)
		}
		c.cache.Del([]byte(key))
	}
	return nil
}

func (c *CachedBackend) Close() error {
	c.cache.Clear()
	return c.backend.Close()
}
