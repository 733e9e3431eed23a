// Package cache keeps fetched notice text so that repeated analyses of the
// same URL do not hit the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-value cache with per-entry TTL. A zero TTL means the
// implementation's default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyVersion changes whenever the cached representation changes.
const keyVersion = "roa:v1:"

// Key derives a cache key from a notice source (URL or path).
func Key(source string) string {
	hash := sha256.Sum256([]byte(source))
	return keyVersion + hex.EncodeToString(hash[:])
}

// Nop is a Cache that stores nothing. It stands in when caching is disabled.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
