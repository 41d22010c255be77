// Package pkg provides the core libraries for skyplan layout generation.
//
// # Overview
//
// Skyplan decides where simulated objects land in a synthetic sky image.
// Given a scene (field geometry plus a placement strategy), it produces a
// plan: a reproducible list of arcsec offsets from the field center. The
// pkg directory is organized into:
//
//  1. [layout] - Placement strategies (pair, grid, hex, random box/disk)
//  2. [geom] - Field geometry and the tangent-plane sky projection
//  3. [rng] - Seeded random sources for reproducible sampling
//  4. [scene] / [plan] - Input configuration and output documents
//  5. [pipeline] - Orchestration (scene → planner → shifts → plan)
//  6. [cache] / [store] - Plan caching and persistent storage
//  7. [render] - Scatter-plot rendering of generated plans
//
// # Architecture
//
// The typical data flow through skyplan:
//
//	Scene file (TOML)
//	         ↓
//	    [scene] package (parse + validate)
//	         ↓
//	    [layout] package (planner construction + shift sampling)
//	         ↓
//	    [plan] package (provenance + serialization)
//	         ↓
//	    JSON plan / PNG scatter / HTTP API
//
// # Quick Start
//
// Generate shifts for a random field:
//
//	import (
//	    "github.com/skysim/skyplan/pkg/layout"
//	    "github.com/skysim/skyplan/pkg/rng"
//	)
//
//	// 1. Build a planner
//	p, _ := layout.New(layout.KindRandomBox, layout.Options{
//	    FieldDim:   351,
//	    Buffer:     20,
//	    PixelScale: 0.2,
//	})
//
//	// 2. Sample object positions
//	shifts, _ := p.GetShifts(rng.NewSeeded(42), layout.Params{Density: 60})
//
// [layout]: github.com/skysim/skyplan/pkg/layout
// [geom]: github.com/skysim/skyplan/pkg/geom
// [rng]: github.com/skysim/skyplan/pkg/rng
// [scene]: github.com/skysim/skyplan/pkg/scene
// [plan]: github.com/skysim/skyplan/pkg/plan
// [pipeline]: github.com/skysim/skyplan/pkg/pipeline
// [cache]: github.com/skysim/skyplan/pkg/cache
// [store]: github.com/skysim/skyplan/pkg/store
// [render]: github.com/skysim/skyplan/pkg/render
package pkg
