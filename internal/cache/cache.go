// Package cache stores raw retrieved documents on disk, keyed by article identifier.
package cache

import (
	"fmt"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ValidateKey rejects keys that cannot be used as a single file name
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`+"\x00") {
		return fmt.Errorf("invalid cache key %q", key)
	}
	return nil
}

// Noop is a cache that stores nothing
type Noop struct{}

func (Noop) Get(string) ([]byte, bool) { return nil, false }
func (Noop) Set(string, []byte, time.Duration) error { return nil }
func (Noop) Delete(string) error { return nil }
func (Noop) Clear() error { return nil }
