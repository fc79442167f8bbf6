// Package cache provides a best-effort memo of generated results, keyed on
// the image content identifier and a digest of the composed prompt. A hit
// skips the full evaluation cycle for a repeated image and prompt pair.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/maypok86/otter/v2"
)

// Config represents settings for the results cache.
//
// MaxResults: Defines the maximum number of generated results held at a
// time. Defaults to 128 if the value is 0.
//
// TTL: Defines the time an existing result can live in the cache without
// being replaced. Defaults to 5 minutes if the value is 0.
type Config struct {
	MaxResults int
	TTL        time.Duration
}

func validateConfig(cfg Config) Config {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 128
	}

	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	return cfg
}

// Results caches generated text for repeated image and prompt requests. Keys
// are content derived, so a hash collision returns a stale result. Callers
// accept that as best-effort behavior.
type Results struct {
	cache *otter.Cache[string, string]
}

// NewResults constructs the results cache.
func NewResults(cfg Config) (*Results, error) {
	cfg = validateConfig(cfg)

	opt := otter.Options[string, string]{
		MaximumSize:      cfg.MaxResults,
		ExpiryCalculator: otter.ExpiryWriting[string, string](cfg.TTL),
	}

	cache, err := otter.New(&opt)
	if err != nil {
		return nil, fmt.Errorf("constructing cache: %w", err)
	}

	r := Results{
		cache: cache,
	}

	return &r, nil
}

// Key derives the cache key for a bitmap identifier and composed prompt.
func Key(bitmapID string, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("%s:%s", bitmapID, hex.EncodeToString(sum[:8]))
}

// Lookup returns the cached result for the key if one exists.
func (r *Results) Lookup(key string) (string, bool) {
	return r.cache.GetIfPresent(key)
}

// Store records a generated result under the key.
func (r *Results) Store(key string, text string) {
	r.cache.Set(key, text)
}

// Clear drops every cached result.
func (r *Results) Clear() {
	r.cache.InvalidateAll()
}
