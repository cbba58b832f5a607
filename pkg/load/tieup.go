package load

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/errors"
)

// TieUpCSV parses a tie-up table from CSV. The file must have a header row
// with "treadle" and "shafts" columns; shafts are space-separated shaft
// numbers. A treadle appearing twice is a validation failure, not
// last-write-wins: a duplicate key in a hand-authored table almost always
// means a transcription mistake that would silently corrupt the weave.
func TieUpCSV(r io.Reader) (draft.TieUp, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTieUp, err, "read tie-up")
	}

	treadleCol, ok := header["treadle"]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTieUp, "tie-up is missing required column %q", "treadle")
	}
	shaftsCol, ok := header["shafts"]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTieUp, "tie-up is missing required column %q", "shafts")
	}

	tieup := make(draft.TieUp, len(rows))
	for i, row := range rows {
		raw := cell(row, treadleCol, true)
		treadle, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidTieUp, "row %d: treadle %q is not a number", i+2, raw)
		}
		if _, dup := tieup[treadle]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTieUp, "duplicate treadle %d", treadle)
		}
		shafts, err := parseNumberList(cell(row, shaftsCol, true))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTieUp, err, "row %d: treadle %d shafts", i+2, treadle)
		}
		tieup[treadle] = shafts
	}

	if err := tieup.Validate(); err != nil {
		return nil, err
	}
	return tieup, nil
}

// TieUpCSVFile loads a tie-up CSV from path.
func TieUpCSVFile(path string) (draft.TieUp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open tie-up %s", path)
	}
	defer f.Close()
	return TieUpCSV(f)
}

// TieUpJSON parses a tie-up from its JSON form: an object mapping treadle
// numbers (as strings, the JSON key restriction) to shaft arrays.
func TieUpJSON(r io.Reader) (draft.TieUp, error) {
	var raw map[string][]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTieUp, err, "decode tie-up JSON")
	}

	tieup := make(draft.TieUp, len(raw))
	for k, shafts := range raw {
		treadle, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidTieUp, "treadle key %q is not a number", k)
		}
		// Distinct JSON keys can trim to the same treadle ("1" and " 1").
		if _, dup := tieup[treadle]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTieUp, "duplicate treadle %d", treadle)
		}
		tieup[treadle] = shafts
	}

	if err := tieup.Validate(); err != nil {
		return nil, err
	}
	return tieup, nil
}

// TieUpJSONFile loads a tie-up JSON file from path.
func TieUpJSONFile(path string) (draft.TieUp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open tie-up %s", path)
	}
	defer f.Close()
	return TieUpJSON(f)
}

// readTable reads a CSV with a header row and returns the data rows plus a
// column-name → index map. Column names are lowercased and trimmed.
func readTable(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are validated per-column instead

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "empty table: missing header row")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return records[1:], header, nil
}

// parseNumberList splits a space-separated list of integers. An empty or
// whitespace-only field yields nil.
func parseNumberList(s string) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not a number", f)
		}
		nums[i] = n
	}
	return nums, nil
}

// cell safely reads a column that may be absent from a ragged row.
func cell(row []string, col int, ok bool) string {
	if !ok || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
