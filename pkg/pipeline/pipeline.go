// Package pipeline provides the scene → plan generation pipeline.
//
// This package implements the complete load → plan → cache flow shared by
// the CLI and the HTTP server. Centralizing it keeps the two entry points
// behaving identically: same defaults, same cache keys, same hooks.
//
// # Usage
//
// Create a Runner and generate a plan from a scene:
//
//	runner := pipeline.NewRunner(cache, nil)
//	p, err := runner.Generate(ctx, sc, pipeline.Options{Logger: logger})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.Count(), "objects")
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skysim/skyplan/pkg/cache"
	"github.com/skysim/skyplan/pkg/geom"
	"github.com/skysim/skyplan/pkg/scene"
)

const (
	// DefaultSeed is the random seed used when neither the scene nor the
	// caller provides one.
	DefaultSeed = uint64(42)

	// DefaultTTL is how long cached plans are kept. Plans are cheap to
	// regenerate; a bounded TTL keeps stale campaign caches from growing
	// without limit.
	DefaultTTL = 30 * 24 * time.Hour
)

// Options carries per-run overrides on top of the scene configuration.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Seed overrides the scene seed when non-zero.
	Seed uint64 `json:"seed,omitempty"`

	// Density overrides the scene object density when set.
	Density *float64 `json:"density,omitempty"`

	// Separation overrides the scene spacing when non-zero.
	Separation float64 `json:"separation,omitempty"`

	// NoCache disables cache reads for this run (the result is still
	// written back).
	NoCache bool `json:"no_cache,omitempty"`

	// TTL for the cached plan; DefaultTTL when zero.
	TTL time.Duration `json:"-"`

	// Logger receives progress and clamp warnings. Discards when nil.
	Logger *log.Logger `json:"-"`
}

// effectiveSeed resolves the seed precedence: override, then scene, then
// default.
func (o *Options) effectiveSeed(sc *scene.Scene) uint64 {
	if o.Seed != 0 {
		return o.Seed
	}
	if sc.Seed != 0 {
		return sc.Seed
	}
	return DefaultSeed
}

// logger returns the configured logger or a discarding one.
func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// sceneHash fingerprints the scene geometry for cache keying. Sampling
// parameters are keyed separately via PlanKeyOpts so overrides miss
// correctly.
func sceneHash(sc *scene.Scene) string {
	data, _ := json.Marshal(struct {
		Field  scene.Field   `json:"field"`
		Origin geom.SkyCoord `json:"origin"`
	}{sc.Field, sc.Origin})
	return cache.Hash(data)
}
