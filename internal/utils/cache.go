package utils

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装缓存数据和过期时间
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// TTLCache is a size-bounded LRU whose entries also expire.
type TTLCache struct {
	lruCache *lru.Cache[string, CacheItem]
	now      func() time.Time
}

var cacheInstance *TTLCache

// NewCache creates a cache holding at most size entries.
func NewCache(size int) (*TTLCache, error) {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache{lruCache: l, now: time.Now}, nil
}

// GetCache 获取单例缓存实例
func GetCache() *TTLCache {
	if cacheInstance == nil {
		// 创建一个容量为 500 的 LRU 缓存
		c, err := NewCache(500)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = c
	}
	return cacheInstance
}

// Set 设置缓存，TTL 为过期时间
func (c *TTLCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *TTLCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Purge drops every entry.
func (c *TTLCache) Purge() {
	c.lruCache.Purge()
}

func (c *TTLCache) Len() int {
	return c.lruCache.Len()
}
