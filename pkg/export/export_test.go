package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/weftworks/liftplan/pkg/draft"
)

var testPlan = []draft.Lift{
	{Annotation: true, Label: "Begin section hem (repeat 1)"},
	{Pick: 1, Shafts: []draft.Shaft{1, 3}, Label: "hem"},
	{Pick: 2, Shafts: nil, Label: "hem"},
	{Annotation: true, Label: "End section hem"},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(testPlan, &buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"pick,shafts,label",
		",,Begin section hem (repeat 1)",
		"1,1 3,hem",
		"2,,hem",
		",,End section hem",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(testPlan, 4, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded struct {
		Shafts int `json:"shafts"`
		Picks  []struct {
			Pick       int    `json:"pick"`
			Shafts     []int  `json:"shafts"`
			Label      string `json:"label"`
			Annotation bool   `json:"annotation"`
		} `json:"picks"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Shafts != 4 {
		t.Errorf("shafts = %d, want 4", decoded.Shafts)
	}
	if len(decoded.Picks) != 4 {
		t.Fatalf("picks = %d, want 4", len(decoded.Picks))
	}
	if !decoded.Picks[0].Annotation || decoded.Picks[0].Label != "Begin section hem (repeat 1)" {
		t.Errorf("first row = %+v, want annotation marker", decoded.Picks[0])
	}
	if got := decoded.Picks[1].Shafts; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("pick 1 shafts = %v, want [1 3]", got)
	}
}

func TestWriteCSV_EmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(nil, &buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "pick,shafts,label" {
		t.Errorf("empty plan output = %q, want header only", got)
	}
}
