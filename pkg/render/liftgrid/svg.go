package liftgrid

import (
	"bytes"
	"fmt"
)

const (
	colorFill     = "#1a1a1a" // raised-shaft cells
	colorOverflow = "#b3302f" // cells on shafts beyond the declared count
	colorDivider  = "#e8e4da" // section marker row background
	colorGridLine = "#999999"
	colorText     = "#1a1a1a"
	colorDimText  = "#777777"

	gridStroke  = 0.5
	thickStroke = 2.0
)

// RenderSVG emits the grid as a standalone SVG document.
//
// Columns run left to right for shafts 1..Columns with a numbered header;
// the left gutter numbers each weaving pick. Divider rows span the full
// shaft width with their label centered. Cells on shafts beyond the declared
// count render in a warning color so a tie-up referencing shafts the loom
// does not have is immediately visible.
func RenderSVG(l Layout) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	buf.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	renderHeader(&buf, l)
	for i, row := range l.Rows {
		y := l.HeaderH + float64(i)*l.CellH
		switch row.Kind {
		case RowPick:
			renderPickRow(&buf, l, row, y)
		case RowDivider:
			renderDividerRow(&buf, l, row, y)
		}
	}
	renderGrid(&buf, l)
	renderEdges(&buf, l)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderHeader draws the shaft numbers across the top.
func renderHeader(buf *bytes.Buffer, l Layout) {
	for s := 1; s <= l.Columns; s++ {
		x := l.GutterW + (float64(s)-0.5)*l.CellW
		color := colorText
		if s > l.Declared {
			color = colorOverflow
		}
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="middle" fill="%s">%d</text>`+"\n",
			x, l.HeaderH-6, color, s)
	}
}

func renderPickRow(buf *bytes.Buffer, l Layout, row Row, y float64) {
	// Pick number in the gutter.
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="9" text-anchor="end" fill="%s">%d</text>`+"\n",
		l.GutterW-6, y+l.CellH/2+3, colorDimText, row.Pick)

	for _, s := range row.Lifts {
		x := l.GutterW + float64(s-1)*l.CellW
		color := colorFill
		if s > l.Declared {
			color = colorOverflow
		}
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			x, y, l.CellW, l.CellH, color)
	}
}

func renderDividerRow(buf *bytes.Buffer, l Layout, row Row, y float64) {
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		0.0, y, l.Width, l.CellH, colorDivider)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="10" font-style="italic" text-anchor="middle" fill="%s">%s</text>`+"\n",
		l.Width/2, y+l.CellH/2+3, colorText, escapeText(row.Label))
}

// renderGrid draws the cell lattice over the filled cells.
func renderGrid(buf *bytes.Buffer, l Layout) {
	bottom := l.HeaderH + float64(len(l.Rows))*l.CellH
	for s := 0; s <= l.Columns; s++ {
		x := l.GutterW + float64(s)*l.CellW
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x, l.HeaderH, x, bottom, colorGridLine, gridStroke)
	}
	for r := 0; r <= len(l.Rows); r++ {
		y := l.HeaderH + float64(r)*l.CellH
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
			l.GutterW, y, l.Width, y, colorGridLine, gridStroke)
	}
}

// renderEdges overlays heavier rules on section-run boundaries.
func renderEdges(buf *bytes.Buffer, l Layout) {
	for i, row := range l.Rows {
		y := l.HeaderH + float64(i)*l.CellH
		if row.ThickTop {
			fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="%.1f"/>`+"\n",
				l.GutterW, y, l.Width, y, thickStroke)
		}
		if row.ThickBottom {
			fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="%.1f"/>`+"\n",
				l.GutterW, y+l.CellH, l.Width, y+l.CellH, thickStroke)
		}
	}
}

// escapeText escapes the XML-significant characters in labels.
func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
