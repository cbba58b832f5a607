package liftgrid

import (
	"strings"
	"testing"

	"github.com/weftworks/liftplan/pkg/draft"
)

func plan() []draft.Lift {
	return []draft.Lift{
		{Annotation: true, Label: "Begin section hem (repeat 1)"},
		{Pick: 1, Shafts: []draft.Shaft{1}, Label: "hem"},
		{Pick: 2, Shafts: []draft.Shaft{2}, Label: "hem"},
		{Annotation: true, Label: "End section hem"},
	}
}

func TestNewLayout_RowOrder(t *testing.T) {
	l := NewLayout(plan(), 4, Options{})

	if len(l.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(l.Rows))
	}
	if l.Rows[0].Kind != RowDivider || l.Rows[3].Kind != RowDivider {
		t.Error("divider rows should bracket the picks")
	}
	if l.Rows[1].Pick != 1 || l.Rows[2].Pick != 2 {
		t.Errorf("pick order top-down = %d,%d, want 1,2", l.Rows[1].Pick, l.Rows[2].Pick)
	}
}

func TestNewLayout_BottomUp(t *testing.T) {
	l := NewLayout(plan(), 4, Options{BottomUp: true})

	if l.Rows[1].Pick != 2 || l.Rows[2].Pick != 1 {
		t.Errorf("bottom-up pick order = %d,%d, want 2,1", l.Rows[1].Pick, l.Rows[2].Pick)
	}
	// Edge marks follow the reversal: pick 1 is now the bottom of its run.
	if !l.Rows[2].ThickBottom {
		t.Error("pick 1 should carry the bottom run edge after reversal")
	}
	if !l.Rows[1].ThickTop {
		t.Error("pick 2 should carry the top run edge after reversal")
	}
}

func TestNewLayout_SectionEdges(t *testing.T) {
	p := []draft.Lift{
		{Pick: 1, Shafts: []draft.Shaft{1}, Label: "hem"},
		{Pick: 2, Shafts: []draft.Shaft{2}, Label: "hem"},
		{Pick: 3, Shafts: []draft.Shaft{1}, Label: "body"},
	}
	l := NewLayout(p, 4, Options{})

	if !l.Rows[0].ThickTop || l.Rows[0].ThickBottom {
		t.Errorf("row 0 edges = top %v bottom %v, want top only", l.Rows[0].ThickTop, l.Rows[0].ThickBottom)
	}
	if l.Rows[1].ThickTop || !l.Rows[1].ThickBottom {
		t.Errorf("row 1 edges = top %v bottom %v, want bottom only (end of hem run)", l.Rows[1].ThickTop, l.Rows[1].ThickBottom)
	}
	if !l.Rows[2].ThickTop || !l.Rows[2].ThickBottom {
		t.Error("single-pick body run should carry both edges")
	}
}

func TestNewLayout_WidensForOverflowShafts(t *testing.T) {
	p := []draft.Lift{{Pick: 1, Shafts: []draft.Shaft{12}}}
	l := NewLayout(p, 8, Options{})

	if l.Columns != 12 {
		t.Errorf("Columns = %d, want 12 (widened past declared 8)", l.Columns)
	}
	if l.Declared != 8 {
		t.Errorf("Declared = %d, want 8", l.Declared)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(NewLayout(plan(), 4, Options{})))

	if !strings.HasPrefix(svg, "<svg xmlns=") {
		t.Error("output should start with an svg element")
	}
	if !strings.Contains(svg, "Begin section hem (repeat 1)") {
		t.Error("divider label missing from output")
	}
	// 4 shaft columns in the header.
	for _, want := range []string{">1</text>", ">2</text>", ">3</text>", ">4</text>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("header shaft number %s missing", want)
		}
	}
}

func TestRenderSVG_OverflowCellColor(t *testing.T) {
	p := []draft.Lift{{Pick: 1, Shafts: []draft.Shaft{2, 12}}}
	svg := string(RenderSVG(NewLayout(p, 8, Options{})))

	if !strings.Contains(svg, colorOverflow) {
		t.Error("overflow shaft cells should use the warning color")
	}
}

func TestRenderSVG_EscapesLabels(t *testing.T) {
	p := []draft.Lift{{Annotation: true, Label: "Begin section a&b <x> (repeat 1)"}}
	svg := string(RenderSVG(NewLayout(p, 2, Options{})))

	if strings.Contains(svg, "a&b") || strings.Contains(svg, "<x>") {
		t.Error("label not escaped")
	}
	if !strings.Contains(svg, "a&amp;b &lt;x&gt;") {
		t.Error("escaped label missing")
	}
}

func TestRenderSVG_Deterministic(t *testing.T) {
	l := NewLayout(plan(), 4, Options{})
	first := RenderSVG(l)
	for i := 0; i < 3; i++ {
		if string(RenderSVG(l)) != string(first) {
			t.Fatal("repeated renders differ")
		}
	}
}
