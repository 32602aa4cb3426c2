package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache - потокобезопасный кеш в памяти с TTL и групповой
// инвалидацией по тегам. Срок жизни и вытеснение записей обеспечивает
// go-cache, индекс тегов ведется поверх него: каждому тегу соответствует
// множество ключей, что позволяет сбрасывать все списочные выборки одним
// вызовом без перебора комбинаций параметров.
type MemoryCache struct {
	store *gocache.Cache
	log   *slog.Logger

	mu   sync.Mutex
	tags map[string]map[string]struct{}
}

// New создает кеш с указанным сроком жизни записей.
func New(ttl time.Duration, log *slog.Logger) *MemoryCache {
	c := &MemoryCache{
		store: gocache.New(ttl, 2*ttl),
		log:   log,
		tags:  make(map[string]map[string]struct{}),
	}
	// Индекс тегов чистится и при явном удалении, и при вытеснении по TTL.
	c.store.OnEvicted(func(key string, _ interface{}) {
		c.forgetKey(key)
	})
	return c
}

// GetOrCompute возвращает значение из кеша либо вычисляет его, сохраняет
// под ключом с заданными тегами и возвращает. Ошибка вычисления не
// кешируется и возвращается вызывающей стороне.
func (c *MemoryCache) GetOrCompute(ctx context.Context, key string, tags []string, compute func(ctx context.Context) (any, error)) (any, error) {
	if value, ok := c.store.Get(key); ok {
		c.log.Debug("Cache hit", slog.String("key", key))
		return value, nil
	}
	c.log.Debug("Cache miss", slog.String("key", key))
	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	c.store.SetDefault(key, value)
	if len(tags) > 0 {
		c.mu.Lock()
		for _, tag := range tags {
			keys, ok := c.tags[tag]
			if !ok {
				keys = make(map[string]struct{})
				c.tags[tag] = keys
			}
			keys[key] = struct{}{}
		}
		c.mu.Unlock()
	}
	return value, nil
}

// InvalidateKey удаляет одну запись кеша.
func (c *MemoryCache) InvalidateKey(key string) error {
	c.store.Delete(key)
	return nil
}

// InvalidateTag удаляет все записи, помеченные указанным тегом.
func (c *MemoryCache) InvalidateTag(tag string) error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.tags[tag]))
	for key := range c.tags[tag] {
		keys = append(keys, key)
	}
	c.mu.Unlock()
	for _, key := range keys {
		c.store.Delete(key)
	}
	c.log.Debug("Cache tag invalidated",
		slog.String("tag", tag),
		slog.Int("keys", len(keys)),
	)
	return nil
}

// forgetKey убирает ключ из индекса тегов после удаления записи.
func (c *MemoryCache) forgetKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for tag, keys := range c.tags {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.tags, tag)
		}
	}
}
