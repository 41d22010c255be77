// Package scene loads simulation scene configuration.
//
// A scene file is a TOML document describing one simulated field: its layout
// kind, pixel geometry, sky origin, and sampling parameters. Example:
//
//	seed = 42
//
//	[field]
//	dim = 351
//	buffer = 20
//	pixel_scale = 0.2
//	simple_bbox = false
//
//	[layout]
//	kind = "random_box"
//	density = 60.0
//
//	[origin]
//	ra = 200.0
//	dec = 0.0
//
// Omitted values fall back to the layout package defaults. Density is
// optional and distinct from an explicit zero: leaving it out selects the
// default object density, while density = 0.0 requests an empty field.
package scene

import (
	"github.com/BurntSushi/toml"

	"github.com/skysim/skyplan/pkg/errors"
	"github.com/skysim/skyplan/pkg/geom"
	"github.com/skysim/skyplan/pkg/layout"
)

// Field describes the pixel geometry of the simulated field.
type Field struct {
	Dim        int     `toml:"dim" json:"dim"`
	Buffer     int     `toml:"buffer" json:"buffer"`
	PixelScale float64 `toml:"pixel_scale" json:"pixel_scale"`
	SimpleBBox bool    `toml:"simple_bbox" json:"simple_bbox"`
}

// Layout describes the placement strategy and its sampling parameters.
type Layout struct {
	Kind string `toml:"kind" json:"kind"`

	// Density is objects per square arcminute for the random kinds. nil
	// selects the default density; an explicit 0 requests no objects.
	Density *float64 `toml:"density" json:"density,omitempty"`

	// Separation is the object spacing in arcsec for pair/grid/hex.
	Separation float64 `toml:"separation" json:"separation,omitempty"`
}

// Scene is one simulation field configuration.
type Scene struct {
	Seed   uint64        `toml:"seed" json:"seed"`
	Field  Field         `toml:"field" json:"field"`
	Layout Layout        `toml:"layout" json:"layout"`
	Origin geom.SkyCoord `toml:"origin" json:"origin"`
}

// Load reads and validates a scene from a TOML file.
func Load(path string) (*Scene, error) {
	var s Scene
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "load scene %s", path)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse decodes and validates a scene from TOML source text.
func Parse(data string) (*Scene, error) {
	var s Scene
	if _, err := toml.Decode(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse scene")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scene for configuration errors. Layout-level
// validation (missing field dim, unknown kinds) is repeated by the planner;
// this catches problems early with scene-level error codes.
func (s *Scene) Validate() error {
	if s.Layout.Kind == "" {
		return errors.New(errors.ErrCodeInvalidScene, "layout.kind is required")
	}
	if _, err := layout.ParseKind(s.Layout.Kind); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "layout.kind")
	}
	if s.Field.Dim < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "field.dim must be non-negative, got %d", s.Field.Dim)
	}
	if s.Field.PixelScale < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "field.pixel_scale must be non-negative, got %g", s.Field.PixelScale)
	}
	if s.Layout.Density != nil && *s.Layout.Density < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "layout.density must be non-negative, got %g", *s.Layout.Density)
	}
	if s.Layout.Separation < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "layout.separation must be non-negative, got %g", s.Layout.Separation)
	}
	return nil
}

// Kind returns the parsed layout kind.
func (s *Scene) Kind() layout.Kind {
	k, _ := layout.ParseKind(s.Layout.Kind)
	return k
}

// PlannerOptions converts the scene to planner construction options.
func (s *Scene) PlannerOptions() layout.Options {
	return layout.Options{
		FieldDim:   s.Field.Dim,
		Buffer:     s.Field.Buffer,
		PixelScale: s.Field.PixelScale,
		Origin:     s.Origin,
		SimpleBBox: s.Field.SimpleBBox,
	}
}

// Params converts the scene to shift-generation parameters, applying the
// default density when none is configured.
func (s *Scene) Params() layout.Params {
	p := layout.Params{Separation: s.Layout.Separation}
	if s.Layout.Density != nil {
		p.Density = *s.Layout.Density
	} else {
		p.Density = layout.DefaultDensity
	}
	return p
}
