package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/load"
	"github.com/weftworks/liftplan/pkg/pipeline"
)

// previewCommand creates the preview command, which renders the lift grid
// directly in the terminal instead of producing a file.
func (c *CLI) previewCommand() *cobra.Command {
	var shafts int
	var bottomUp bool

	cmd := &cobra.Command{
		Use:   "preview <treadling> [tieup]",
		Short: "Render the lift plan in the terminal",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tieup := ""
			if len(args) > 1 {
				tieup = args[1]
			}
			d, err := loadDraftArgs(args[0], tieup)
			if err != nil {
				return err
			}

			if shafts == 0 {
				shafts = d.Shafts
			}
			if shafts == 0 {
				shafts = c.Config.Shafts
			}
			if shafts == 0 {
				shafts = pipeline.DefaultShafts
			}

			plan, err := draft.Generate(d.Main, d.Sections, d.TieUp, shafts)
			if err != nil {
				return err
			}

			printGrid(cmd.OutOrStdout(), plan, shafts, bottomUp || c.Config.BottomUp)
			return nil
		},
	}

	cmd.Flags().IntVarP(&shafts, "shafts", "s", 0, "declared shaft count (default: draft declaration or config)")
	cmd.Flags().BoolVar(&bottomUp, "bottom-up", false, "place pick 1 at the bottom of the grid")

	return cmd
}

// loadDraftArgs loads treadling and tie-up files into a draft, allowing the
// tie-up to be omitted when the treadling is a self-contained YAML draft.
func loadDraftArgs(treadling, tieup string) (*load.Draft, error) {
	if tieup == "" {
		return load.DraftFile(treadling)
	}
	sections, main, err := load.TreadlingFile(treadling)
	if err != nil {
		return nil, err
	}
	tu, err := load.TieUpFile(tieup)
	if err != nil {
		return nil, err
	}
	return &load.Draft{TieUp: tu, Sections: sections, Main: main}, nil
}

// printGrid writes a character-cell lift grid: one line per pick, one
// two-column cell per shaft, section labels on annotation rows.
func printGrid(w io.Writer, plan []draft.Lift, shafts int, bottomUp bool) {
	columns := shafts
	if m := draft.MaxShaft(plan); m > columns {
		columns = m
	}

	rows := plan
	if bottomUp {
		rows = make([]draft.Lift, len(plan))
		for i, l := range plan {
			rows[len(plan)-1-i] = l
		}
	}

	fmt.Fprintln(w, "      "+gridHeader(columns, shafts))
	for _, l := range rows {
		if l.Annotation {
			fmt.Fprintln(w, "      "+StyleDim.Render(l.Label))
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", StyleNumber.Render(fmt.Sprintf("%4d", l.Pick)), gridRow(l, columns))
	}
}

func gridHeader(columns, shafts int) string {
	var b strings.Builder
	for s := 1; s <= columns; s++ {
		label := fmt.Sprintf("%2d", s)
		if s > shafts {
			label = StyleWarning.Render(label)
		} else {
			label = StyleDim.Render(label)
		}
		b.WriteString(label)
	}
	return b.String()
}

func gridRow(l draft.Lift, columns int) string {
	raised := make(map[draft.Shaft]bool, len(l.Shafts))
	for _, s := range l.Shafts {
		raised[s] = true
	}
	var b strings.Builder
	for s := 1; s <= columns; s++ {
		if raised[draft.Shaft(s)] {
			b.WriteString(styleCellRaised.Render(cellRaised))
		} else {
			b.WriteString(StyleDim.Render(cellEmpty))
		}
	}
	return b.String()
}
