// Package layout computes object-placement patterns for synthetic-sky image
// simulations.
//
// A Planner is configured once with a layout kind and field geometry, then
// produces position shifts: 2-D offsets in arcseconds relative to the field
// center at which objects are rendered. Five kinds are supported:
//
//   - KindPair: exactly two objects at a fixed separation
//   - KindGrid: a square lattice spanning the usable field
//   - KindHex: a triangular lattice with alternating row offsets
//   - KindRandomBox: Poisson-distributed objects uniform in a square
//   - KindRandomDisk: Poisson-distributed objects uniform in a disk
//
// # Usage
//
// Construct a planner and generate shifts with an explicit random source:
//
//	p, err := layout.New(layout.KindRandomBox, layout.Options{
//	    FieldDim:   351,
//	    Buffer:     20,
//	    PixelScale: 0.2,
//	})
//	if err != nil {
//	    return err
//	}
//	src := rng.NewSeeded(42)
//	shifts, err := p.GetShifts(src, layout.DefaultParams())
//
// Grid and hex layouts are deterministic: the shift count and positions
// depend only on the field geometry and spacing, never on the random source.
// The random layouts draw their object count from a Poisson distribution and
// place each object independently.
//
// # Determinism and State
//
// A Planner is immutable after construction, and GetShifts never mutates it.
// All randomness comes from the passed-in source, so a fixed seed and call
// sequence reproduce identical output. Reusing one source across calls (one
// call per exposure, say) is intentional and keeps a multi-call simulation
// reproducible as a whole.
package layout

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/skysim/skyplan/pkg/errors"
	"github.com/skysim/skyplan/pkg/geom"
	"github.com/skysim/skyplan/pkg/rng"
)

// Kind identifies a layout strategy. The set of kinds is fixed at
// construction and validated exhaustively.
type Kind string

// Supported layout kinds.
const (
	KindPair       Kind = "pair"
	KindGrid       Kind = "grid"
	KindHex        Kind = "hex"
	KindRandomBox  Kind = "random_box"
	KindRandomDisk Kind = "random_disk"
)

// Kinds lists every supported layout kind.
var Kinds = []Kind{KindPair, KindGrid, KindHex, KindRandomBox, KindRandomDisk}

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if Kind(s) == k {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidLayout,
		"unknown layout kind %q (must be one of: pair, grid, hex, random_box, random_disk)", s)
}

// Shift is a 2-D offset in arcseconds from the field center, identifying
// where a simulated object is placed.
type Shift struct {
	DX float64 `json:"dx" bson:"dx"`
	DY float64 `json:"dy" bson:"dy"`
}

// Options configures Planner construction.
type Options struct {
	// FieldDim is the side length of the square field in pixels. Required
	// for every kind except KindPair.
	FieldDim int

	// Buffer is the pixel margin excluded from object placement. Default 0.
	Buffer int

	// PixelScale is the conversion factor in arcsec/pixel. Defaults to
	// DefaultPixelScale when zero.
	PixelScale float64

	// Origin is the sky reference point forwarded to the geometry provider.
	// Defaults to DefaultOrigin when zero.
	Origin geom.SkyCoord

	// SimpleBBox selects the centered-at-origin bounding-box strategy.
	// Otherwise the box is placed with an offset from the reference point.
	SimpleBBox bool

	// Logger receives the degenerate-field clamp warning. Defaults to the
	// process logger.
	Logger *log.Logger
}

// Planner validates a layout configuration once and generates shifts on
// demand. It is immutable after construction.
type Planner struct {
	kind       Kind
	pixelScale float64
	fieldDim   int
	buffer     int

	// usableSide and usableRadius are in pixels, after degenerate-field
	// clamping. Only the fields the kind needs are set: Pair carries none
	// of the geometry state.
	usableSide   float64
	usableRadius float64
	usableArea   float64 // arcmin², random kinds only
	geometry     *geom.Geometry
}

// New constructs a Planner for the given kind.
//
// FieldDim is required for every kind except KindPair; omitting it returns a
// MISSING_PARAMETER error. An unknown kind returns INVALID_LAYOUT. For the
// random kinds a usable span below 2 pixels is clamped to the minimum viable
// span with a warning rather than failing. Geometry provider errors propagate
// unchanged.
func New(kind Kind, opts Options) (*Planner, error) {
	if opts.PixelScale == 0 {
		opts.PixelScale = DefaultPixelScale
	}
	if opts.Origin.IsZero() {
		opts.Origin = DefaultOrigin
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	p := &Planner{
		kind:       kind,
		pixelScale: opts.PixelScale,
	}

	// Pair is the degenerate two-point case: no fixed field, no geometry.
	if kind == KindPair {
		return p, nil
	}

	switch kind {
	case KindGrid, KindHex, KindRandomBox, KindRandomDisk:
	default:
		return nil, errors.New(errors.ErrCodeInvalidLayout,
			"unknown layout kind %q (must be one of: pair, grid, hex, random_box, random_disk)", kind)
	}

	if opts.FieldDim <= 0 {
		return nil, errors.New(errors.ErrCodeMissingParameter,
			"field_dim is required for %s layout", kind)
	}
	p.fieldDim = opts.FieldDim
	p.buffer = opts.Buffer

	span := float64(opts.FieldDim - 2*opts.Buffer)
	switch kind {
	case KindRandomBox:
		if span < 2 {
			logger.Warnf("field_dim - 2*buffer = %g < 2, forcing usable side to 2 pixels", span)
			span = 2
		}
		p.usableSide = span
		p.usableArea = sq(span * opts.PixelScale / 60)
	case KindRandomDisk:
		if span < 2 {
			logger.Warnf("field_dim - 2*buffer = %g < 2, forcing usable radius to 1 pixel", span)
			p.usableRadius = 1
		} else {
			p.usableRadius = float64(opts.FieldDim)/2 - float64(opts.Buffer)
		}
		p.usableArea = math.Pi * sq(p.usableRadius*opts.PixelScale/60)
	}

	g, err := geom.Build(opts.FieldDim, opts.PixelScale, opts.Origin, opts.SimpleBBox)
	if err != nil {
		return nil, err
	}
	p.geometry = g

	return p, nil
}

// Kind returns the layout kind.
func (p *Planner) Kind() Kind { return p.kind }

// PixelScale returns the pixel scale in arcsec/pixel.
func (p *Planner) PixelScale() float64 { return p.pixelScale }

// FieldDim returns the field side length in pixels. Zero for KindPair.
func (p *Planner) FieldDim() int { return p.fieldDim }

// Buffer returns the placement margin in pixels. Zero for KindPair.
func (p *Planner) Buffer() int { return p.buffer }

// UsableArea returns the placement area in square arcminutes. It is only
// meaningful for the random kinds; grid and hex report zero and pair carries
// no area at all.
func (p *Planner) UsableArea() float64 { return p.usableArea }

// Geometry returns the field geometry, or nil for KindPair.
func (p *Planner) Geometry() *geom.Geometry { return p.geometry }

// Params controls shift generation.
type Params struct {
	// Density is the object density in objects per square arcminute. Only
	// the random kinds use it; zero means no objects.
	Density float64

	// Separation is the object spacing in arcsec. Required for KindPair;
	// for KindGrid and KindHex a non-positive value selects the default
	// spacing. The random kinds ignore it.
	Separation float64
}

// DefaultParams returns Params with the default object density.
func DefaultParams() Params {
	return Params{Density: DefaultDensity}
}

// GetShifts generates position shifts for objects, routing to the generator
// matching the planner's kind. The returned order is generator-defined but
// reproducible for a fixed random source state.
//
// Pair requires Separation (MISSING_PARAMETER otherwise). The random kinds
// fail with INVALID_GEOMETRY if the usable area is non-positive; degenerate
// fields are clamped at construction, never here. A call either fully
// succeeds or returns an error; no partial results.
func (p *Planner) GetShifts(src rng.Source, params Params) ([]Shift, error) {
	switch p.kind {
	case KindPair:
		if params.Separation <= 0 {
			return nil, errors.New(errors.ErrCodeMissingParameter,
				"separation is required for %s layout", p.kind)
		}
		return pairShifts(params.Separation), nil

	case KindGrid:
		spacing := params.Separation
		if spacing <= 0 {
			spacing = GridSpacing
		}
		return gridShifts(p.fieldDim, p.buffer, p.pixelScale, spacing), nil

	case KindHex:
		spacing := params.Separation
		if spacing <= 0 {
			spacing = HexSpacing
		}
		return hexShifts(p.fieldDim, p.buffer, p.pixelScale, spacing), nil

	case KindRandomBox:
		n, err := p.drawCount(src, params.Density)
		if err != nil {
			return nil, err
		}
		half := p.usableSide / 2 * p.pixelScale
		return randomBoxShifts(src, half, n), nil

	case KindRandomDisk:
		n, err := p.drawCount(src, params.Density)
		if err != nil {
			return nil, err
		}
		radius := p.usableRadius * p.pixelScale
		return randomDiskShifts(src, radius, n), nil

	default:
		// Unreachable given construction-time validation.
		return nil, errors.New(errors.ErrCodeInvalidLayout, "bad layout kind %q", p.kind)
	}
}

// drawCount draws the object count for the random kinds: Poisson with mean
// max(area*density, 1), or exactly zero when density is zero. The floor of
// one expected object keeps sparse nonzero densities from collapsing to
// always-empty fields.
func (p *Planner) drawCount(src rng.Source, density float64) (int, error) {
	if p.usableArea <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidGeometry,
			"nonpositive usable area for %s layout", p.kind)
	}
	if density == 0 {
		return 0, nil
	}
	mean := math.Max(p.usableArea*density, 1)
	return src.Poisson(mean), nil
}

// DiscardLogger returns a logger that drops everything, for callers that
// want construction-time clamp warnings silenced.
func DiscardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sq(v float64) float64 { return v * v }
