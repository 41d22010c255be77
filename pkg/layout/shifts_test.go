package layout

import (
	"math"
	"testing"

	"github.com/skysim/skyplan/pkg/rng"
)

func newPlanner(t *testing.T, kind Kind, opts Options) *Planner {
	t.Helper()
	opts.Logger = DiscardLogger()
	p, err := New(kind, opts)
	if err != nil {
		t.Fatalf("New(%s): %v", kind, err)
	}
	return p
}

func TestPairShifts(t *testing.T) {
	p := newPlanner(t, KindPair, Options{})

	const sep = 4.0
	shifts, err := p.GetShifts(rng.NewSeeded(1), Params{Separation: sep})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}

	if len(shifts) != 2 {
		t.Fatalf("len = %d, want 2", len(shifts))
	}

	dx := shifts[1].DX - shifts[0].DX
	dy := shifts[1].DY - shifts[0].DY
	if got := math.Hypot(dx, dy); math.Abs(got-sep) > 1e-12 {
		t.Errorf("separation = %g, want %g", got, sep)
	}

	// Symmetric about the center.
	if shifts[0].DX+shifts[1].DX != 0 || shifts[0].DY+shifts[1].DY != 0 {
		t.Errorf("shifts not symmetric about center: %+v", shifts)
	}
}

func TestGridShiftsDeterministic(t *testing.T) {
	p := newPlanner(t, KindGrid, Options{FieldDim: 300, Buffer: 10, PixelScale: 0.2})

	// Different rng states and repeated calls must give identical output.
	first, err := p.GetShifts(rng.NewSeeded(1), Params{Separation: 10})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}
	second, err := p.GetShifts(rng.NewSeeded(999), Params{Separation: 10})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("shift %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGridShiftsGeometry(t *testing.T) {
	const (
		dim     = 300
		buff    = 10
		scale   = 0.2
		spacing = 10.0
	)
	p := newPlanner(t, KindGrid, Options{FieldDim: dim, Buffer: buff, PixelScale: scale})

	shifts, err := p.GetShifts(rng.NewSeeded(1), Params{Separation: spacing})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}

	// Usable width is 280 px * 0.2 = 56 arcsec, so 5 steps fit per side.
	usable := float64(dim-2*buff) * scale
	n := int(usable / spacing)
	if want := n * n; len(shifts) != want {
		t.Fatalf("count = %d, want %d", len(shifts), want)
	}

	// Lattice is centered: shifts sum to zero on both axes.
	var sumX, sumY float64
	for _, s := range shifts {
		sumX += s.DX
		sumY += s.DY
	}
	if math.Abs(sumX) > 1e-9 || math.Abs(sumY) > 1e-9 {
		t.Errorf("lattice not centered: sum = (%g, %g)", sumX, sumY)
	}

	// Nearest-neighbor spacing along a row equals the requested spacing.
	if got := shifts[1].DX - shifts[0].DX; math.Abs(got-spacing) > 1e-12 {
		t.Errorf("row spacing = %g, want %g", got, spacing)
	}
}

func TestGridShiftsDefaultSpacing(t *testing.T) {
	p := newPlanner(t, KindGrid, Options{FieldDim: 300, PixelScale: 0.2})

	withDefault, err := p.GetShifts(rng.NewSeeded(1), Params{})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}
	explicit, err := p.GetShifts(rng.NewSeeded(1), Params{Separation: GridSpacing})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}
	if len(withDefault) != len(explicit) {
		t.Errorf("default spacing should equal GridSpacing: %d vs %d shifts",
			len(withDefault), len(explicit))
	}
}

func TestGridShiftsSpacingWiderThanField(t *testing.T) {
	p := newPlanner(t, KindGrid, Options{FieldDim: 20, PixelScale: 0.2})

	shifts, err := p.GetShifts(rng.NewSeeded(1), Params{Separation: 100})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}
	if len(shifts) != 0 {
		t.Errorf("spacing wider than field should place nothing, got %d", len(shifts))
	}
}

func TestHexShifts(t *testing.T) {
	const (
		dim     = 400
		scale   = 0.2
		spacing = 8.0
	)
	p := newPlanner(t, KindHex, Options{FieldDim: dim, PixelScale: scale})

	shifts, err := p.GetShifts(rng.NewSeeded(1), Params{Separation: spacing})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}
	if len(shifts) == 0 {
		t.Fatal("hex layout produced no shifts")
	}

	// Deterministic across calls and rng states.
	again, err := p.GetShifts(rng.NewSeeded(77), Params{Separation: spacing})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}
	if len(again) != len(shifts) {
		t.Fatalf("counts differ across calls: %d vs %d", len(shifts), len(again))
	}
	for i := range shifts {
		if shifts[i] != again[i] {
			t.Fatalf("shift %d differs across calls", i)
		}
	}

	// Rows are spacing*sqrt(3)/2 apart; collect distinct y values.
	pitch := spacing * math.Sqrt(3) / 2
	ys := map[float64]bool{}
	for _, s := range shifts {
		ys[s.DY] = true
	}
	if len(ys) < 2 {
		t.Fatal("expected multiple hex rows")
	}
	var sorted []float64
	for y := range ys {
		sorted = append(sorted, y)
	}
	minY, maxY := sorted[0], sorted[0]
	for _, y := range sorted {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	rowSpan := maxY - minY
	rows := float64(len(ys) - 1)
	if math.Abs(rowSpan/rows-pitch) > 1e-9 {
		t.Errorf("row pitch = %g, want %g", rowSpan/rows, pitch)
	}

	// Centered: extremes are symmetric about zero.
	if math.Abs(minY+maxY) > 1e-9 {
		t.Errorf("rows not centered: min %g, max %g", minY, maxY)
	}
}

func TestRandomBoxShifts(t *testing.T) {
	const (
		dim   = 300
		buff  = 20
		scale = 0.2
	)
	p := newPlanner(t, KindRandomBox, Options{FieldDim: dim, Buffer: buff, PixelScale: scale})

	t.Run("ZeroDensityEmpty", func(t *testing.T) {
		for seed := uint64(0); seed < 5; seed++ {
			shifts, err := p.GetShifts(rng.NewSeeded(seed), Params{Density: 0})
			if err != nil {
				t.Fatalf("GetShifts: %v", err)
			}
			if len(shifts) != 0 {
				t.Fatalf("density 0 produced %d shifts", len(shifts))
			}
		}
	})

	t.Run("Containment", func(t *testing.T) {
		half := float64(dim-2*buff) / 2 * scale
		shifts, err := p.GetShifts(rng.NewSeeded(42), DefaultParams())
		if err != nil {
			t.Fatalf("GetShifts: %v", err)
		}
		if len(shifts) == 0 {
			t.Fatal("expected objects at default density")
		}
		for _, s := range shifts {
			if s.DX < -half || s.DX > half || s.DY < -half || s.DY > half {
				t.Fatalf("shift (%g, %g) outside usable half-width %g", s.DX, s.DY, half)
			}
		}
	})

	t.Run("Reproducible", func(t *testing.T) {
		a, err := p.GetShifts(rng.NewSeeded(7), DefaultParams())
		if err != nil {
			t.Fatalf("GetShifts: %v", err)
		}
		b, err := p.GetShifts(rng.NewSeeded(7), DefaultParams())
		if err != nil {
			t.Fatalf("GetShifts: %v", err)
		}
		if len(a) != len(b) {
			t.Fatalf("counts differ: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("shift %d differs", i)
			}
		}
	})

	t.Run("PoissonCount", func(t *testing.T) {
		// Mean count is area*density; the average over many draws should
		// land near it.
		area := p.UsableArea()
		mean := area * DefaultDensity

		src := rng.NewSeeded(123)
		const trials = 200
		total := 0
		for i := 0; i < trials; i++ {
			shifts, err := p.GetShifts(src, DefaultParams())
			if err != nil {
				t.Fatalf("GetShifts: %v", err)
			}
			total += len(shifts)
		}
		got := float64(total) / trials
		sigma := math.Sqrt(mean / trials)
		if math.Abs(got-mean) > 5*sigma {
			t.Errorf("average count = %g, want ~%g", got, mean)
		}
	})
}

func TestRandomBoxTinyAreaFloorsMeanAtOne(t *testing.T) {
	// A vanishingly small area*density product still expects at least one
	// object; averaged over many draws the count should approach 1, not 0.
	p := newPlanner(t, KindRandomBox, Options{FieldDim: 12, Buffer: 2, PixelScale: 0.2})

	src := rng.NewSeeded(5)
	const trials = 500
	total := 0
	for i := 0; i < trials; i++ {
		shifts, err := p.GetShifts(src, Params{Density: 1e-9})
		if err != nil {
			t.Fatalf("GetShifts: %v", err)
		}
		total += len(shifts)
	}
	got := float64(total) / trials
	if math.Abs(got-1) > 5*math.Sqrt(1.0/trials) {
		t.Errorf("average count = %g, want ~1 (floored mean)", got)
	}
}

func TestRandomDiskShifts(t *testing.T) {
	const (
		dim   = 400
		buff  = 20
		scale = 0.2
	)
	p := newPlanner(t, KindRandomDisk, Options{FieldDim: dim, Buffer: buff, PixelScale: scale})
	radius := (float64(dim)/2 - buff) * scale

	t.Run("ZeroDensityEmpty", func(t *testing.T) {
		shifts, err := p.GetShifts(rng.NewSeeded(9), Params{Density: 0})
		if err != nil {
			t.Fatalf("GetShifts: %v", err)
		}
		if len(shifts) != 0 {
			t.Fatalf("density 0 produced %d shifts", len(shifts))
		}
	})

	t.Run("Containment", func(t *testing.T) {
		shifts, err := p.GetShifts(rng.NewSeeded(42), DefaultParams())
		if err != nil {
			t.Fatalf("GetShifts: %v", err)
		}
		if len(shifts) == 0 {
			t.Fatal("expected objects at default density")
		}
		for _, s := range shifts {
			if s.DX*s.DX+s.DY*s.DY > radius*radius+1e-9 {
				t.Fatalf("shift (%g, %g) outside disk radius %g", s.DX, s.DY, radius)
			}
		}
	})

	t.Run("UniformAreaSampling", func(t *testing.T) {
		// If positions are uniform in area, r^2 is uniform on [0, R^2]:
		// mean r^2 is R^2/2 and half the draws fall below it.
		src := rng.NewSeeded(1234)
		var r2s []float64
		for len(r2s) < 20000 {
			shifts, err := p.GetShifts(src, DefaultParams())
			if err != nil {
				t.Fatalf("GetShifts: %v", err)
			}
			for _, s := range shifts {
				r2s = append(r2s, s.DX*s.DX+s.DY*s.DY)
			}
		}

		r2max := radius * radius
		var sum float64
		below := 0
		for _, r2 := range r2s {
			sum += r2
			if r2 < r2max/2 {
				below++
			}
		}
		n := float64(len(r2s))

		// Uniform on [0, R^2] has mean R^2/2 and stddev R^2/sqrt(12).
		meanErr := math.Abs(sum/n - r2max/2)
		if meanErr > 5*r2max/math.Sqrt(12*n) {
			t.Errorf("mean r^2 = %g, want ~%g", sum/n, r2max/2)
		}
		frac := float64(below) / n
		if math.Abs(frac-0.5) > 5*0.5/math.Sqrt(n) {
			t.Errorf("fraction below R^2/2 = %g, want ~0.5", frac)
		}
	})
}
