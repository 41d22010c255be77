package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skysim/skyplan/pkg/cache"
	"github.com/skysim/skyplan/pkg/layout"
	"github.com/skysim/skyplan/pkg/observability"
	"github.com/skysim/skyplan/pkg/plan"
	"github.com/skysim/skyplan/pkg/rng"
	"github.com/skysim/skyplan/pkg/scene"
)

// Runner executes the generation pipeline with caching.
type Runner struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewRunner creates a pipeline runner. A nil cache disables caching; a nil
// keyer selects the default key scheme.
func NewRunner(c cache.Cache, k cache.Keyer) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &Runner{cache: c, keyer: k}
}

// CacheInfo reports how the cache behaved during one run.
type CacheInfo struct {
	Key string `json:"key"`
	Hit bool   `json:"hit"`
}

// Generate produces a plan for the scene, reusing a cached plan when one
// exists for the same scene, seed, and sampling parameters.
func (r *Runner) Generate(ctx context.Context, sc *scene.Scene, opts Options) (plan.Plan, error) {
	p, _, err := r.GenerateWithCacheInfo(ctx, sc, opts)
	return p, err
}

// GenerateWithCacheInfo is Generate plus cache diagnostics.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, sc *scene.Scene, opts Options) (plan.Plan, CacheInfo, error) {
	logger := opts.logger()

	if err := sc.Validate(); err != nil {
		return plan.Plan{}, CacheInfo{}, err
	}

	seed := opts.effectiveSeed(sc)
	params := sc.Params()
	if opts.Density != nil {
		params.Density = *opts.Density
	}
	if opts.Separation != 0 {
		params.Separation = opts.Separation
	}

	key := r.keyer.PlanKey(sceneHash(sc), cache.PlanKeyOpts{
		Kind:       sc.Layout.Kind,
		Seed:       seed,
		Density:    params.Density,
		Separation: params.Separation,
	})
	info := CacheInfo{Key: key}

	if !opts.NoCache {
		if data, hit, err := r.cache.Get(ctx, key); err != nil {
			logger.Warnf("cache read failed: %v", err)
		} else if hit {
			cached, err := plan.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				logger.Debugf("cache hit for %s plan", cached.Kind)
				info.Hit = true
				return cached, info, nil
			}
			logger.Warnf("discarding corrupt cached plan: %v", err)
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	kind := sc.Kind()
	observability.Plan().OnPlanStart(ctx, string(kind), seed)
	start := time.Now()

	p, err := r.generate(sc, kind, seed, params, logger)
	observability.Plan().OnPlanComplete(ctx, string(kind), p.Count(), time.Since(start), err)
	if err != nil {
		return plan.Plan{}, info, err
	}

	if data, merr := plan.Marshal(p); merr == nil {
		ttl := opts.TTL
		if ttl <= 0 {
			ttl = DefaultTTL
		}
		if cerr := r.cache.Set(ctx, key, data, ttl); cerr != nil {
			logger.Warnf("cache write failed: %v", cerr)
		} else {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}

	return p, info, nil
}

// generate runs planner construction and shift sampling, then assembles the
// plan with full provenance.
func (r *Runner) generate(sc *scene.Scene, kind layout.Kind, seed uint64, params layout.Params, logger *log.Logger) (plan.Plan, error) {
	lopts := sc.PlannerOptions()
	lopts.Logger = logger

	planner, err := layout.New(kind, lopts)
	if err != nil {
		return plan.Plan{}, err
	}

	shifts, err := planner.GetShifts(rng.NewSeeded(seed), params)
	if err != nil {
		return plan.Plan{}, err
	}
	logger.Debugf("generated %d shifts for %s layout", len(shifts), kind)

	origin := sc.Origin
	if origin.IsZero() {
		origin = layout.DefaultOrigin
	}

	p := plan.New(kind, seed)
	p.FieldDim = sc.Field.Dim
	p.Buffer = sc.Field.Buffer
	p.PixelScale = planner.PixelScale()
	p.Origin = origin
	p.SimpleBBox = sc.Field.SimpleBBox
	p.Density = params.Density
	p.Separation = params.Separation
	p.UsableArea = planner.UsableArea()
	p.Shifts = shifts
	return p, nil
}
