package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skysim/skyplan/pkg/pipeline"
	"github.com/skysim/skyplan/pkg/plan"
	"github.com/skysim/skyplan/pkg/scene"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	output     string  // output file path; derived from the scene file when empty
	seed       uint64  // seed override; 0 keeps the scene seed
	density    float64 // density override in objects per square arcminute
	hasDensity bool    // whether --density was set (0 is a meaningful value)
	separation float64 // spacing override in arcsec
	noCache    bool    // bypass the plan cache
	toStdout   bool    // write the plan JSON to stdout instead of a file
}

// planCommand creates the plan command for generating layout plans.
func (c *CLI) planCommand() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan [scene.toml]",
		Short: "Generate a layout plan from a scene file",
		Long: `Generate a layout plan from a TOML scene file.

The scene file describes the field geometry and placement strategy; the
resulting plan records every object position as an arcsec offset from the
field center, along with the parameters it was generated from. Identical
scenes reuse cached plans unless --no-cache is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasDensity = cmd.Flags().Changed("density")
			return c.runPlan(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: scene name with .plan.json)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "override the scene seed")
	cmd.Flags().Float64Var(&opts.density, "density", 0, "override the object density (objects per sq arcmin)")
	cmd.Flags().Float64Var(&opts.separation, "separation", 0, "override the object spacing (arcsec)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the plan cache")
	cmd.Flags().BoolVar(&opts.toStdout, "stdout", false, "write the plan JSON to stdout")

	return cmd
}

func (c *CLI) runPlan(cmd *cobra.Command, scenePath string, opts *planOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	sc, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	logger.Debugf("loaded scene: kind=%s dim=%d", sc.Layout.Kind, sc.Field.Dim)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Seed:       opts.seed,
		Separation: opts.separation,
		NoCache:    opts.noCache,
		Logger:     logger,
	}
	if opts.hasDensity {
		popts.Density = &opts.density
	}

	spin := newSpinnerWithContext(ctx, "Generating layout plan...")
	spin.Start()
	p, info, err := runner.GenerateWithCacheInfo(ctx, sc, popts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d objects", p.Count()))

	if opts.toStdout {
		data, err := plan.Marshal(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(scenePath, filepath.Ext(scenePath)) + ".plan.json"
	}
	if err := plan.WriteFile(p, outputPath); err != nil {
		return err
	}

	printSuccess("Generated %s plan", p.Kind)
	printStats(string(p.Kind), p.Count(), info.Hit)
	printFile(outputPath)
	printNextStep("Render it", fmt.Sprintf("%s render %s -o %s.png",
		appName, outputPath, strings.TrimSuffix(outputPath, ".json")))
	return nil
}
