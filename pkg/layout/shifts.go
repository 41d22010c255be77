package layout

import (
	"math"

	"github.com/skysim/skyplan/pkg/rng"
)

// pairShifts places two objects symmetrically about the field center,
// separated by sep arcsec along the x axis.
func pairShifts(sep float64) []Shift {
	half := sep / 2
	return []Shift{
		{DX: -half, DY: 0},
		{DX: half, DY: 0},
	}
}

// gridShifts places objects on a square lattice spanning the usable field,
// centered on the field center. The count is however many lattice steps fit
// in the usable span; a spacing wider than the span yields no objects.
func gridShifts(dim, buff int, pixelScale, spacing float64) []Shift {
	width := float64(dim-2*buff) * pixelScale
	n := int(width / spacing)
	if n < 1 {
		return []Shift{}
	}

	shifts := make([]Shift, 0, n*n)
	mid := float64(n-1) / 2
	for iy := 0; iy < n; iy++ {
		for ix := 0; ix < n; ix++ {
			shifts = append(shifts, Shift{
				DX: (float64(ix) - mid) * spacing,
				DY: (float64(iy) - mid) * spacing,
			})
		}
	}
	return shifts
}

// hexShifts places objects on a triangular lattice: rows are spacing*sqrt(3)/2
// apart and every other row is offset by half the spacing. The lattice spans
// the usable field and is recentered on the field center.
func hexShifts(dim, buff int, pixelScale, spacing float64) []Shift {
	width := float64(dim-2*buff) * pixelScale
	pitch := spacing * math.Sqrt(3) / 2

	nx := int(width / spacing)
	ny := int(width / pitch)
	if nx < 1 || ny < 1 {
		return []Shift{}
	}

	shifts := make([]Shift, 0, nx*ny)
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for iy := 0; iy < ny; iy++ {
		rowOffset := 0.0
		if iy%2 == 1 {
			rowOffset = spacing / 2
		}
		y := float64(iy) * pitch
		for ix := 0; ix < nx; ix++ {
			x := float64(ix)*spacing + rowOffset
			shifts = append(shifts, Shift{DX: x, DY: y})
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}

	// Recenter so the lattice midpoint sits on the field center. The odd-row
	// offset makes the raw extent asymmetric, so centering by index alone
	// would bias x by a quarter spacing.
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	for i := range shifts {
		shifts[i].DX -= cx
		shifts[i].DY -= cy
	}
	return shifts
}

// randomBoxShifts draws n independent positions uniform in the square
// [-half, half] on both axes (arcsec).
func randomBoxShifts(src rng.Source, half float64, n int) []Shift {
	shifts := make([]Shift, n)
	for i := range shifts {
		shifts[i] = Shift{
			DX: src.UniformRange(-half, half),
			DY: src.UniformRange(-half, half),
		}
	}
	return shifts
}

// randomDiskShifts draws n independent positions uniform in area within a
// disk of the given radius (arcsec). The radius is drawn as sqrt(u)*radius;
// drawing it uniformly would pile objects up at the center.
func randomDiskShifts(src rng.Source, radius float64, n int) []Shift {
	shifts := make([]Shift, n)
	for i := range shifts {
		r := math.Sqrt(src.Uniform()) * radius
		theta := src.UniformRange(0, 2*math.Pi)
		shifts[i] = Shift{
			DX: r * math.Cos(theta),
			DY: r * math.Sin(theta),
		}
	}
	return shifts
}
