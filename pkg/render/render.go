// Package render draws generated layout plans as scatter plots.
//
// Rendering is a diagnostic aid: a quick look at the object positions makes
// layout bugs (clipped buffers, off-center lattices, clumped sampling)
// obvious in a way the raw shift list does not. Plots show arcsec offsets
// from the field center with the usable region outlined.
//
// # Usage
//
//	data, err := render.Render(p, render.Options{Format: render.FormatPNG})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("plan.png", data, 0644)
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/skysim/skyplan/pkg/errors"
	"github.com/skysim/skyplan/pkg/layout"
	"github.com/skysim/skyplan/pkg/plan"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// Formats lists the supported output formats.
var Formats = []string{FormatPNG, FormatSVG, FormatPDF}

// Options configures plot rendering.
type Options struct {
	// Format is the output image format; FormatPNG when empty.
	Format string

	// Width and Height of the plot canvas; 12cm square when zero.
	Width  vg.Length
	Height vg.Length

	// Title overrides the default "<kind> layout (N objects)" title.
	Title string

	// NoBoundary suppresses the usable-region outline.
	NoBoundary bool
}

// ParseFormat validates a format name, accepting it case-insensitively.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unknown format %q (supported: %s)", s, strings.Join(Formats, ", "))
}

// FormatFromPath infers the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"cannot infer format from %q: no file extension", path)
	}
	return ParseFormat(ext)
}

// Render draws the plan and returns the encoded image.
func Render(p plan.Plan, opts Options) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = FormatPNG
	}
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if opts.Width == 0 {
		opts.Width = 12 * vg.Centimeter
	}
	if opts.Height == 0 {
		opts.Height = 12 * vg.Centimeter
	}

	plt, err := buildPlot(p, opts)
	if err != nil {
		return nil, err
	}

	wt, err := plt.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the plan to a file, inferring the format from the
// extension unless opts.Format is set.
func WriteFile(p plan.Plan, path string, opts Options) error {
	if opts.Format == "" {
		format, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		opts.Format = format
	}
	data, err := Render(p, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func buildPlot(p plan.Plan, opts Options) (*plot.Plot, error) {
	plt := plot.New()

	title := opts.Title
	if title == "" {
		title = defaultTitle(p)
	}
	plt.Title.Text = title
	plt.X.Label.Text = "dx (arcsec)"
	plt.Y.Label.Text = "dy (arcsec)"
	plt.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(p.Shifts))
	for i, s := range p.Shifts {
		pts[i].X = s.DX
		pts[i].Y = s.DY
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "scatter")
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	plt.Add(scatter)

	extent := dataExtent(pts)
	if !opts.NoBoundary {
		if boundary := boundaryLine(p); boundary != nil {
			line, err := plotter.NewLine(boundary)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "boundary")
			}
			line.LineStyle.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			plt.Add(line)
			extent = math.Max(extent, dataExtent(boundary))
		}
	}

	// Keep arcsec square on the page.
	extent *= 1.05
	plt.X.Min, plt.X.Max = -extent, extent
	plt.Y.Min, plt.Y.Max = -extent, extent
	return plt, nil
}

// boundaryLine returns the outline of the usable region, or nil when the
// plan geometry does not define one.
func boundaryLine(p plan.Plan) plotter.XYs {
	span := float64(p.FieldDim-2*p.Buffer) * p.PixelScale
	if p.FieldDim <= 0 || span <= 0 {
		return nil
	}

	switch p.Kind {
	case layout.KindRandomDisk:
		radius := span / 2
		const segments = 128
		pts := make(plotter.XYs, segments+1)
		for i := 0; i <= segments; i++ {
			theta := 2 * math.Pi * float64(i) / segments
			pts[i].X = radius * math.Cos(theta)
			pts[i].Y = radius * math.Sin(theta)
		}
		return pts
	case layout.KindPair:
		return nil
	default:
		half := span / 2
		return plotter.XYs{
			{X: -half, Y: -half},
			{X: half, Y: -half},
			{X: half, Y: half},
			{X: -half, Y: half},
			{X: -half, Y: -half},
		}
	}
}

func defaultTitle(p plan.Plan) string {
	noun := "objects"
	if p.Count() == 1 {
		noun = "object"
	}
	return fmt.Sprintf("%s layout (%d %s)", p.Kind, p.Count(), noun)
}

// dataExtent returns the largest absolute coordinate, with a floor of 1 so
// empty plans still get a sensible viewport.
func dataExtent(pts plotter.XYs) float64 {
	extent := 1.0
	for _, pt := range pts {
		extent = math.Max(extent, math.Abs(pt.X))
		extent = math.Max(extent, math.Abs(pt.Y))
	}
	return extent
}
