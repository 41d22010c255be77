// Package geom provides the field geometry used by layout planning.
//
// A layout is defined over a square pixel grid (the field). This package
// builds the bounding box for that grid together with a tangent-plane
// coordinate system that maps pixel positions to sky coordinates. Layout
// code stores the result opaquely and forwards it to downstream consumers;
// only rendering and simulation code interpret it.
//
// # Bounding Box Strategies
//
// Build supports two strategies, selected by the simple flag:
//
//   - simple: the bounding box is centered on the reference sky point, so
//     the box center and the coordinate-system origin coincide.
//   - offset: the bounding box is embedded at an offset inside a parent
//     frame twice the field size. The reference point stays at the parent
//     center, so the box center does not coincide with the origin.
package geom

import (
	"github.com/skysim/skyplan/pkg/errors"
)

// SkyCoord is a position on the celestial sphere in degrees.
type SkyCoord struct {
	RA  float64 `json:"ra" toml:"ra"`
	Dec float64 `json:"dec" toml:"dec"`
}

// IsZero reports whether the coordinate is the zero value.
func (c SkyCoord) IsZero() bool {
	return c.RA == 0 && c.Dec == 0
}

// Bounds is an integer pixel bounding box.
type Bounds struct {
	X0     int `json:"x0"`
	Y0     int `json:"y0"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the pixel coordinates of the box center.
func (b Bounds) Center() (float64, float64) {
	return float64(b.X0) + float64(b.Width-1)/2, float64(b.Y0) + float64(b.Height-1)/2
}

// Contains reports whether the pixel position lies inside the box.
func (b Bounds) Contains(x, y float64) bool {
	return x >= float64(b.X0) && x < float64(b.X0+b.Width) &&
		y >= float64(b.Y0) && y < float64(b.Y0+b.Height)
}

// Geometry bundles a coordinate system with the field bounding box.
type Geometry struct {
	WCS    *TanWCS
	Bounds Bounds
}

// Build constructs the field geometry for a square field of fieldDim pixels
// at the given pixel scale (arcsec/pixel), referenced to origin.
//
// With simple set, the bounding box is centered at origin. Otherwise the box
// is placed at an offset inside a parent frame of twice the field size, with
// the reference point at the parent center.
func Build(fieldDim int, pixelScale float64, origin SkyCoord, simple bool) (*Geometry, error) {
	if fieldDim <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "field dim must be positive, got %d", fieldDim)
	}
	if pixelScale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "pixel scale must be positive, got %g", pixelScale)
	}

	if simple {
		bounds := Bounds{X0: 0, Y0: 0, Width: fieldDim, Height: fieldDim}
		cx, cy := bounds.Center()
		return &Geometry{
			WCS:    NewTanWCS(cx, cy, origin, pixelScale),
			Bounds: bounds,
		}, nil
	}

	// Offset placement: the field box sits in the lower-left quadrant-shifted
	// position of a parent frame twice its size. The reference pixel is the
	// geometric parent center parentDim/2, which never coincides with the box
	// center offset+(fieldDim-1)/2 for any field size.
	parentDim := 2 * fieldDim
	offset := fieldDim / 2
	bounds := Bounds{X0: offset, Y0: offset, Width: fieldDim, Height: fieldDim}
	crpix := float64(parentDim) / 2
	return &Geometry{
		WCS:    NewTanWCS(crpix, crpix, origin, pixelScale),
		Bounds: bounds,
	}, nil
}
