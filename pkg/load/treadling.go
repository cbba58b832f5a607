package load

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/errors"
)

// FlatSection is the anonymous section name used when a flat treadling file
// (no section structure) is loaded. The empty name makes the expander skip
// begin/end annotations and leave picks unlabeled, so a flat file weaves as
// plain rows.
const FlatSection = ""

// TreadlingCSV parses a treadling table from CSV. Files with a "type"
// column use the sectioned layout; anything else falls back to the flat
// layout where each row's "treadles" field is one pick.
func TreadlingCSV(r io.Reader) (draft.Sections, draft.MainSequence, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidTreadling, err, "read treadling")
	}
	if _, sectioned := header["type"]; sectioned {
		return parseSectioned(rows, header)
	}
	return parseFlat(rows, header)
}

// TreadlingCSVFile loads a treadling CSV from path.
func TreadlingCSVFile(path string) (draft.Sections, draft.MainSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open treadling %s", path)
	}
	defer f.Close()
	return TreadlingCSV(f)
}

// parseSectioned reads the sectioned layout. Each row is either:
//
//	type=section  name=<section>  treadles=<nums>              one pick appended to the section
//	type=section  name=<section>  ref_name=<other> repeat=<n>  a reference appended to the section
//	type=main     name=<section>  repeat=<n>                   one main-sequence entry
//
// A section row with treadles takes precedence over ref_name, matching how
// hand-authored tables leave the unused column blank. Repeat defaults to 1.
func parseSectioned(rows [][]string, header map[string]int) (draft.Sections, draft.MainSequence, error) {
	typeCol, ok := header["type"]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeInvalidTreadling, "treadling is missing required column %q", "type")
	}
	nameCol, ok := header["name"]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeInvalidTreadling, "treadling is missing required column %q", "name")
	}
	treadlesCol, hasTreadles := header["treadles"]
	refCol, hasRef := header["ref_name"]
	repeatCol, hasRepeat := header["repeat"]

	sections := draft.Sections{}
	var main draft.MainSequence

	for i, row := range rows {
		line := i + 2 // 1-based, counting the header
		rowType := strings.ToLower(cell(row, typeCol, true))
		name := cell(row, nameCol, true)

		switch rowType {
		case "section":
			if name == "" {
				return nil, nil, errors.New(errors.ErrCodeInvalidTreadling, "row %d: section row missing a name", line)
			}
			if _, exists := sections[name]; !exists {
				sections[name] = nil
			}
			treadlesStr := cell(row, treadlesCol, hasTreadles)
			refName := cell(row, refCol, hasRef)
			switch {
			case treadlesStr != "":
				treadles, err := parseNumberList(treadlesStr)
				if err != nil {
					return nil, nil, errors.Wrap(errors.ErrCodeInvalidTreadling, err, "row %d: treadles", line)
				}
				sections[name] = append(sections[name], draft.Pick(treadles...))
			case refName != "":
				repeat, err := parseRepeat(cell(row, repeatCol, hasRepeat), line)
				if err != nil {
					return nil, nil, err
				}
				sections[name] = append(sections[name], draft.Ref(refName, repeat))
			}
			// A bare section row (neither treadles nor ref) just declares
			// the name; some tables use it as a visual separator.

		case "main":
			if name == "" {
				return nil, nil, errors.New(errors.ErrCodeInvalidTreadling, "row %d: main row missing a section name", line)
			}
			repeat, err := parseRepeat(cell(row, repeatCol, hasRepeat), line)
			if err != nil {
				return nil, nil, err
			}
			main = append(main, draft.SeqRef{Name: name, Repeat: repeat})

		default:
			return nil, nil, errors.New(errors.ErrCodeInvalidTreadling, "row %d: unknown row type %q", line, rowType)
		}
	}

	if len(main) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidTreadling, "treadling has no main rows: nothing to weave")
	}
	return sections, main, nil
}

// parseFlat reads the flat fallback layout: a "treadles" column only, one
// pick per row, wrapped in a single anonymous section played once.
func parseFlat(rows [][]string, header map[string]int) (draft.Sections, draft.MainSequence, error) {
	treadlesCol, ok := header["treadles"]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeInvalidTreadling, "treadling is missing required column %q", "treadles")
	}

	entries := make([]draft.Entry, 0, len(rows))
	for i, row := range rows {
		treadles, err := parseNumberList(cell(row, treadlesCol, true))
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidTreadling, err, "row %d: treadles", i+2)
		}
		entries = append(entries, draft.Pick(treadles...))
	}

	sections := draft.Sections{FlatSection: entries}
	main := draft.MainSequence{{Name: FlatSection, Repeat: 1}}
	return sections, main, nil
}

func parseRepeat(s string, line int) (int, error) {
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidTreadling, "row %d: repeat %q is not a number", line, s)
	}
	if n < 1 {
		return 0, errors.New(errors.ErrCodeInvalidRepeat, "row %d: repeat count %d must be at least 1", line, n)
	}
	return n, nil
}
