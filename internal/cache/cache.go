// Package cache stores rendered analysis reports keyed by document
// text and analysis configuration, so re-analyzing an unchanged
// document is a lookup instead of a full detector run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-blob store with per-entry TTL. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for one (document, configuration) pair.
// Any change to the sanitized text or to the analysis settings yields
// a different key, so stale reports are never served.
func Key(text, configFingerprint string) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(configFingerprint))
	return "verbum:v1:" + hex.EncodeToString(h.Sum(nil))
}
