package layout

import "github.com/skysim/skyplan/pkg/geom"

// Module-level defaults shared by the library, scene configs, and the CLI.
const (
	// DefaultPixelScale is the default pixel scale in arcsec/pixel.
	DefaultPixelScale = 0.2

	// DefaultDensity is the default object density in objects per square
	// arcminute for the random layouts.
	DefaultDensity = 80.0

	// GridSpacing is the default lattice spacing in arcsec for the grid
	// layout.
	GridSpacing = 9.5

	// HexSpacing is the default lattice spacing in arcsec for the hex
	// layout.
	HexSpacing = 9.5
)

// DefaultOrigin is the default sky reference point for field geometry.
var DefaultOrigin = geom.SkyCoord{RA: 200.0, Dec: 0.0}
