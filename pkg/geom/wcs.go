package geom

import "math"

// ArcsecPerRadian converts between radians and arcseconds.
const ArcsecPerRadian = 180 * 3600 / math.Pi

// TanWCS is a gnomonic (tangent-plane) coordinate system: pixel offsets from
// a reference pixel map to sky coordinates around a reference point. This is
// the flat-sky approximation every layout is defined on.
//
// The convention follows FITS TAN: x increases toward decreasing RA (east is
// left in pixel space), y increases toward increasing Dec.
type TanWCS struct {
	crpixX, crpixY float64  // reference pixel
	crval          SkyCoord // sky position at the reference pixel
	scale          float64  // arcsec per pixel
}

// NewTanWCS creates a tangent-plane coordinate system with the reference
// pixel (crpixX, crpixY) mapping to crval, at scale arcsec/pixel.
func NewTanWCS(crpixX, crpixY float64, crval SkyCoord, scale float64) *TanWCS {
	return &TanWCS{crpixX: crpixX, crpixY: crpixY, crval: crval, scale: scale}
}

// PixelScale returns the scale in arcsec per pixel.
func (w *TanWCS) PixelScale() float64 { return w.scale }

// Reference returns the reference pixel and its sky position.
func (w *TanWCS) Reference() (x, y float64, c SkyCoord) {
	return w.crpixX, w.crpixY, w.crval
}

// PixelToSky maps a pixel position to a sky coordinate.
func (w *TanWCS) PixelToSky(x, y float64) SkyCoord {
	// Tangent-plane offsets in radians.
	xi := -(x - w.crpixX) * w.scale / ArcsecPerRadian
	eta := (y - w.crpixY) * w.scale / ArcsecPerRadian

	ra0 := w.crval.RA * math.Pi / 180
	dec0 := w.crval.Dec * math.Pi / 180

	rho := math.Hypot(xi, eta)
	if rho == 0 {
		return w.crval
	}
	c := math.Atan(rho)
	sinC, cosC := math.Sin(c), math.Cos(c)
	sinDec0, cosDec0 := math.Sin(dec0), math.Cos(dec0)

	dec := math.Asin(cosC*sinDec0 + eta*sinC*cosDec0/rho)
	ra := ra0 + math.Atan2(xi*sinC, rho*cosDec0*cosC-eta*sinDec0*sinC)

	return SkyCoord{
		RA:  normalizeRA(ra * 180 / math.Pi),
		Dec: dec * 180 / math.Pi,
	}
}

// SkyToPixel maps a sky coordinate to a pixel position.
func (w *TanWCS) SkyToPixel(c SkyCoord) (x, y float64) {
	ra := c.RA * math.Pi / 180
	dec := c.Dec * math.Pi / 180
	ra0 := w.crval.RA * math.Pi / 180
	dec0 := w.crval.Dec * math.Pi / 180

	sinDec, cosDec := math.Sin(dec), math.Cos(dec)
	sinDec0, cosDec0 := math.Sin(dec0), math.Cos(dec0)
	cosDRA := math.Cos(ra - ra0)

	d := sinDec*sinDec0 + cosDec*cosDec0*cosDRA
	xi := cosDec * math.Sin(ra-ra0) / d
	eta := (sinDec*cosDec0 - cosDec*sinDec0*cosDRA) / d

	x = w.crpixX - xi*ArcsecPerRadian/w.scale
	y = w.crpixY + eta*ArcsecPerRadian/w.scale
	return x, y
}

// normalizeRA wraps right ascension into [0, 360).
func normalizeRA(ra float64) float64 {
	ra = math.Mod(ra, 360)
	if ra < 0 {
		ra += 360
	}
	return ra
}
