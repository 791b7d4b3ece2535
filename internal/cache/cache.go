// Package cache holds small in-process caches with TTL and size-based eviction.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

var _ Cache[[]byte] = (*LRUCache[[]byte])(nil)
