package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// PlanKeyOpts are the generation parameters that distinguish otherwise
// identical scenes in the cache.
type PlanKeyOpts struct {
	Kind       string  `json:"kind"`
	Seed       uint64  `json:"seed"`
	Density    float64 `json:"density"`
	Separation float64 `json:"separation"`
}

// Keyer generates cache keys.
type Keyer interface {
	// PlanKey generates a key for a generated plan, from the hash of the
	// scene geometry plus the sampling options.
	PlanKey(sceneHash string, opts PlanKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for plan caching.
func (k *DefaultKeyer) PlanKey(sceneHash string, opts PlanKeyOpts) string {
	return hashKey("plan", sceneHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. when
// several simulation campaigns share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PlanKey generates a prefixed key for plan caching.
func (k *ScopedKeyer) PlanKey(sceneHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(sceneHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions.
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
