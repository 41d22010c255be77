package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/skysim/skyplan/pkg/plan"
	"github.com/skysim/skyplan/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path
	format     string  // output format: png, svg, pdf
	width      float64 // canvas width in centimeters
	height     float64 // canvas height in centimeters
	title      string  // plot title override
	noBoundary bool    // suppress the usable-region outline
}

// renderCommand creates the render command for drawing plans as scatter plots.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		width:  12,
		height: 12,
	}

	cmd := &cobra.Command{
		Use:   "render [plan.json]",
		Short: "Render a layout plan as a scatter plot",
		Long: `Render a layout plan as a scatter plot.

Each object appears at its arcsec offset from the field center, with the
usable region outlined. The output format is inferred from the output file
extension unless --format is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: plan name with .png)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png (default), svg, pdf")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width in cm")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height in cm")
	cmd.Flags().StringVar(&opts.title, "title", "", "plot title")
	cmd.Flags().BoolVar(&opts.noBoundary, "no-boundary", false, "hide the usable-region outline")

	return cmd
}

func (c *CLI) runRender(planPath string, opts *renderOpts) error {
	p, err := plan.ReadFile(planPath)
	if err != nil {
		return err
	}
	c.Logger.Debugf("loaded %s plan with %d objects", p.Kind, p.Count())

	outputPath := opts.output
	if outputPath == "" {
		ext := opts.format
		if ext == "" {
			ext = render.FormatPNG
		}
		outputPath = strings.TrimSuffix(planPath, filepath.Ext(planPath)) + "." + ext
	}

	ropts := render.Options{
		Format:     opts.format,
		Width:      vg.Length(opts.width) * vg.Centimeter,
		Height:     vg.Length(opts.height) * vg.Centimeter,
		Title:      opts.title,
		NoBoundary: opts.noBoundary,
	}
	if err := render.WriteFile(p, outputPath, ropts); err != nil {
		return err
	}

	printSuccess("Rendered %s plan (%d objects)", p.Kind, p.Count())
	printFile(outputPath)
	return nil
}
