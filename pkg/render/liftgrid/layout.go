// Package liftgrid renders a derived lift plan as the grid weavers read at
// the loom: one row per pick, one column per shaft, a filled cell where a
// shaft is raised, and labeled divider rows at section boundaries.
package liftgrid

import (
	"github.com/weftworks/liftplan/pkg/draft"
)

// Default cell geometry, in SVG user units.
const (
	defaultCellW   = 24.0
	defaultCellH   = 18.0
	defaultGutterW = 40.0 // left gutter holding pick numbers
	defaultHeaderH = 20.0 // shaft-number header row
)

// Options configures grid layout.
type Options struct {
	// BottomUp places pick 1 at the bottom edge, the order the cloth grows
	// on the loom. Default is pick 1 at the top.
	BottomUp bool

	// CellW and CellH override the default cell size when positive.
	CellW, CellH float64
}

// RowKind discriminates grid row variants.
type RowKind int

const (
	// RowPick is a weaving row with filled shaft cells.
	RowPick RowKind = iota
	// RowDivider is a full-width labeled section marker.
	RowDivider
)

// Row is one horizontal band of the grid, in visual top-to-bottom order.
type Row struct {
	Kind  RowKind
	Pick  int           // RowPick: 1-based pick number
	Lifts []draft.Shaft // RowPick: shafts to raise
	Label string        // RowDivider: annotation text; RowPick: section name

	// ThickTop and ThickBottom mark the first and last weaving pick of a
	// contiguous section run; those edges get a heavier rule.
	ThickTop, ThickBottom bool
}

// Layout is the computed grid geometry, ready for SVG emission.
type Layout struct {
	Rows    []Row
	Columns int // shaft columns; at least the declared count, widened to the max observed shaft

	// Declared is the configured shaft count. Columns beyond it exist only
	// because the tie-up references shafts the loom does not have; the
	// renderer flags them.
	Declared int

	CellW, CellH     float64
	GutterW, HeaderH float64
	Width, Height    float64
}

// NewLayout computes the grid geometry for a lift plan.
//
// The grid is widened past the declared shaft count when the plan contains
// larger shaft numbers: the derivation never truncates, and hiding the
// overflow here would make a broken tie-up look healthy.
func NewLayout(plan []draft.Lift, shaftCount int, opts Options) Layout {
	l := Layout{
		Columns:  shaftCount,
		Declared: shaftCount,
		CellW:    defaultCellW,
		CellH:    defaultCellH,
		GutterW:  defaultGutterW,
		HeaderH:  defaultHeaderH,
	}
	if opts.CellW > 0 {
		l.CellW = opts.CellW
	}
	if opts.CellH > 0 {
		l.CellH = opts.CellH
	}
	if max := draft.MaxShaft(plan); max > l.Columns {
		l.Columns = max
	}

	l.Rows = buildRows(plan, opts.BottomUp)
	l.Width = l.GutterW + float64(l.Columns)*l.CellW
	l.Height = l.HeaderH + float64(len(l.Rows))*l.CellH
	return l
}

// buildRows converts the plan into visual rows and marks section-run edges.
func buildRows(plan []draft.Lift, bottomUp bool) []Row {
	rows := make([]Row, 0, len(plan))
	for _, entry := range plan {
		if entry.Annotation {
			rows = append(rows, Row{Kind: RowDivider, Label: entry.Label})
			continue
		}
		rows = append(rows, Row{Kind: RowPick, Pick: entry.Pick, Lifts: entry.Shafts, Label: entry.Label})
	}

	markSectionEdges(rows)

	if bottomUp {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
		// Run edges flip with the rows.
		for i := range rows {
			rows[i].ThickTop, rows[i].ThickBottom = rows[i].ThickBottom, rows[i].ThickTop
		}
	}
	return rows
}

// markSectionEdges sets ThickTop on the first and ThickBottom on the last
// weaving pick of each contiguous run of equal section labels. Divider rows
// break runs but carry no edge marks themselves.
func markSectionEdges(rows []Row) {
	runStart := -1
	label := ""
	for i := range rows {
		if rows[i].Kind != RowPick || rows[i].Label != label {
			if runStart >= 0 {
				rows[runStart].ThickTop = true
				rows[i-1].ThickBottom = true
			}
			runStart = -1
			label = ""
		}
		if rows[i].Kind == RowPick && runStart < 0 {
			runStart = i
			label = rows[i].Label
		}
	}
	if runStart >= 0 {
		rows[runStart].ThickTop = true
		rows[len(rows)-1].ThickBottom = true
	}
}
