package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftworks/liftplan/pkg/load"
	"github.com/weftworks/liftplan/pkg/render/sectiongraph"
)

// graphCommand creates the graph command, which visualizes how treadling
// sections reference each other.
func (c *CLI) graphCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "graph <treadling>",
		Short: "Visualize the section reference structure",
		Long: `Graph renders the treadling's sections as a directed graph: one node per
section, edges for references labeled with their repeat counts. Useful for
spotting a circular reference before generate reports it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, main, err := load.TreadlingFile(args[0])
			if err != nil {
				return err
			}

			dot := sectiongraph.ToDOT(main, sections)

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = sectiongraph.RenderSVG(dot)
			case "pdf":
				data, err = sectiongraph.RenderPDF(dot)
			case "png":
				data, err = sectiongraph.RenderPNG(dot, 2.0)
			default:
				return fmt.Errorf("unknown graph format: %s (must be 'dot', 'svg', 'pdf', or 'png')", format)
			}
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = basePath("", args[0]) + "_sections." + format
			}
			if err := writeArtifact(path, data); err != nil {
				return err
			}
			c.Logger.Infof("Generated %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: derived from input, '-' for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot (default), svg, pdf, png")

	return cmd
}
