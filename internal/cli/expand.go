package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/load"
)

// expandCommand creates the expand command, a debugging aid that prints the
// fully expanded treadle sequence without deriving lifts.
func (c *CLI) expandCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <treadling>",
		Short: "Print the expanded treadle sequence",
		Long: `Expand resolves all section references and repeats in the treadling and
prints the flat treadle sequence, one row per line, with section
annotations marking where each repeat begins and ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, main, err := load.TreadlingFile(args[0])
			if err != nil {
				return err
			}

			seq, err := draft.Expand(main, sections)
			if err != nil {
				return err
			}

			printExpanded(cmd, seq)
			c.Logger.Debugf("Expanded %d sections into %d rows", len(sections), len(seq))
			return nil
		},
	}
}

// printExpanded writes the sequence to the command's stdout, indenting
// treadle rows under their annotations by nesting depth.
func printExpanded(cmd *cobra.Command, seq []draft.Expanded) {
	out := cmd.OutOrStdout()
	depth := 0
	for _, row := range seq {
		if row.Annotation {
			if strings.HasPrefix(row.Label, "End ") {
				depth--
			}
			fmt.Fprintf(out, "%s%s\n", indent(depth), StyleDim.Render(row.Label))
			if strings.HasPrefix(row.Label, "Begin ") {
				depth++
			}
			continue
		}
		fmt.Fprintf(out, "%s%s\n", indent(depth), formatTreadles(row.Treadles))
	}
}

func indent(depth int) string {
	if depth < 0 {
		depth = 0
	}
	return strings.Repeat("  ", depth)
}

func formatTreadles(treadles []draft.Treadle) string {
	if len(treadles) == 0 {
		return "-"
	}
	parts := make([]string, len(treadles))
	for i, t := range treadles {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, " ")
}
