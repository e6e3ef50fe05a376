// Package cache provides a named, string keyed object store.
package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by Get for keys that were never set or were deleted
	ErrKeyNotFound = errors.New("key not found")
	// ErrTypeMismatch is returned by GetAs when the stored value has another type
	ErrTypeMismatch = errors.New("cached value has a different type")
)

// Cache maps keys to values of type T. Entries live until deleted; there is
// no eviction. Range visits entries in insertion order.
type Cache[T any] struct {
	name    string
	entries map[string]T
	order   []string
}

// Loose is a cache holding values of any type
type Loose = Cache[any]

// New creates an empty cache. The name only shows up in errors.
func New[T any](name string) *Cache[T] {
	return &Cache[T]{
		name:    name,
		entries: make(map[string]T),
	}
}

// NewLoose creates an empty cache for values of any type
func NewLoose(name string) *Loose {
	return New[any](name)
}

// Name returns the cache name
func (c *Cache[T]) Name() string {
	return c.name
}

// Get returns the value stored under key
func (c *Cache[T]) Get(key string) (T, error) {
	v, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q isn't a valid key inside cache %s", ErrKeyNotFound, key, c.name)
	}
	return v, nil
}

// Set inserts or overwrites the value stored under key
func (c *Cache[T]) Set(key string, value T) {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = value
}

// Delete removes key and reports whether it was present
func (c *Cache[T]) Delete(key string) bool {
	if _, exists := c.entries[key]; !exists {
		return false
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether key is present
func (c *Cache[T]) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of entries
func (c *Cache[T]) Len() int {
	return len(c.entries)
}

// Keys returns the keys in insertion order
func (c *Cache[T]) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Range calls fn for every entry in insertion order until fn returns false.
// Entries added or removed by fn are not visited.
func (c *Cache[T]) Range(fn func(key string, value T) bool) {
	for _, key := range c.Keys() {
		v, ok := c.entries[key]
		if !ok {
			continue
		}
		if !fn(key, v) {
			return
		}
	}
}

// GetAs returns the value stored under key narrowed to D
func GetAs[D any, T any](c *Cache[T], key string) (D, error) {
	var zero D
	v, err := c.Get(key)
	if err != nil {
		return zero, err
	}
	d, ok := any(v).(D)
	if !ok {
		return zero, fmt.Errorf("%w: %q in cache %s holds %T, not %T", ErrTypeMismatch, key, c.name, v, zero)
	}
	return d, nil
}
