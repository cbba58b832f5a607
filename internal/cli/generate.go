package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftworks/liftplan/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output   string  // output file path or base path for multiple formats
	shafts   int     // declared shaft count, 0 means draft/config default
	bottomUp bool    // pick 1 at the bottom edge of the grid
	pngScale float64 // PNG resolution multiplier
	noCache  bool    // bypass the artifact cache
}

// generateCommand creates the generate command, the main entry point for
// converting a treadling and tie-up into lift plan artifacts.
func (c *CLI) generateCommand() *cobra.Command {
	var formatsStr string
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <treadling> [tieup]",
		Short: "Convert a treadling and tie-up into a lift plan",
		Long: `Generate expands the sectioned treadling, derives the shaft lifts through
the tie-up, and writes the requested artifacts (pdf, svg, png, csv, json).

The tie-up argument is optional when the treadling is a YAML draft that
carries its own tie-up.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := c.parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			tieup := ""
			if len(args) > 1 {
				tieup = args[1]
			}
			return c.runGenerate(cmd, args[0], tieup, formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "formats", "f", "", "output format(s): pdf (default), svg, png, csv, json (comma-separated)")
	cmd.Flags().IntVarP(&opts.shafts, "shafts", "s", 0, "declared shaft count (default: draft declaration or config)")
	cmd.Flags().BoolVar(&opts.bottomUp, "bottom-up", false, "place pick 1 at the bottom of the grid")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", 0, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, treadling, tieup string, formats []string, opts *generateOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	shafts := opts.shafts
	if shafts == 0 {
		shafts = c.Config.Shafts
	}

	p := newProgress(c.Logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		TreadlingPath: treadling,
		TieUpPath:     tieup,
		Shafts:        shafts,
		Formats:       formats,
		BottomUp:      opts.bottomUp || c.Config.BottomUp,
		PNGScale:      opts.pngScale,
		NoCache:       opts.noCache,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Derived %d picks on %d shafts", result.Picks, result.Shafts))

	base := basePath(opts.output, treadling)
	for _, format := range formats {
		path := opts.output
		if path == "" || len(formats) > 1 {
			path = base + "." + format
		}
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(result.Picks, result.Shafts, len(result.CacheHits) > 0)
	return nil
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
