// Package export writes derived lift plans to tabular formats.
//
// The CSV form is the one weavers pin next to the loom: a pick column and a
// space-joined shafts column, with annotation rows carrying their label in a
// third column. The JSON form is for downstream tooling and round-trips the
// full [draft.Lift] structure.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/weftworks/liftplan/pkg/draft"
)

// WriteCSV writes the lift plan as CSV with header pick,shafts,label.
// Weaving rows carry their pick number and space-joined shaft list;
// annotation rows have an empty pick column and their label.
func WriteCSV(plan []draft.Lift, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pick", "shafts", "label"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, l := range plan {
		var rec []string
		if l.Annotation {
			rec = []string{"", "", l.Label}
		} else {
			rec = []string{strconv.Itoa(l.Pick), joinShafts(l.Shafts), l.Label}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write pick %d: %w", l.Pick, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// liftJSON is the JSON wire shape of one lift plan row.
type liftJSON struct {
	Pick       int    `json:"pick,omitempty"`
	Shafts     []int  `json:"shafts,omitempty"`
	Label      string `json:"label,omitempty"`
	Annotation bool   `json:"annotation,omitempty"`
}

type planJSON struct {
	Shafts int        `json:"shafts"`
	Picks  []liftJSON `json:"picks"`
}

// WriteJSON encodes the lift plan and its declared shaft count as indented
// JSON and writes it to w.
func WriteJSON(plan []draft.Lift, shaftCount int, w io.Writer) error {
	out := planJSON{
		Shafts: shaftCount,
		Picks:  make([]liftJSON, len(plan)),
	}
	for i, l := range plan {
		out.Picks[i] = liftJSON{Pick: l.Pick, Shafts: l.Shafts, Label: l.Label, Annotation: l.Annotation}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportCSV writes the lift plan to a CSV file at path.
func ExportCSV(plan []draft.Lift, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(plan, f)
}

// ExportJSON writes the lift plan to a JSON file at path.
func ExportJSON(plan []draft.Lift, shaftCount int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(plan, shaftCount, f)
}

func joinShafts(shafts []draft.Shaft) string {
	parts := make([]string, len(shafts))
	for i, s := range shafts {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, " ")
}
