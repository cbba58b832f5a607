// Package load reads weaving draft inputs (tie-up, treadling, full draft
// documents) from files in their supported formats.
//
// Supported formats:
//   - Tie-up: CSV (treadle,shafts columns) or JSON ({"1": [1,2], ...})
//   - Treadling: sectioned CSV (type,name,treadles,ref_name,repeat columns)
//     or a flat CSV (treadles column only), auto-detected by header
//   - Draft: a single YAML document holding shaft count, tie-up, sections
//     and main sequence
//
// Loaders perform all row-level validation before the core runs: missing
// required columns, non-numeric identifiers, duplicate treadle keys and
// unknown row types are rejected here with coded errors naming the offending
// column or row. The core assumes fully typed values.
package load

import (
	"path/filepath"
	"strings"

	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/errors"
)

// Draft bundles everything one run consumes. Loaded once, then read-only.
type Draft struct {
	TieUp    draft.TieUp
	Sections draft.Sections
	Main     draft.MainSequence

	// Shafts is the declared shaft count when the source format carries one
	// (YAML drafts); zero otherwise, meaning the caller's default applies.
	Shafts int
}

// DraftFile loads a self-contained draft document. Only YAML carries the
// tie-up alongside the treadling; CSV treadlings need a separate tie-up file.
func DraftFile(path string) (*Draft, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return DraftYAMLFile(path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not a self-contained draft, a tie-up file is required", filepath.Base(path))
	}
}

// TieUpFile loads a tie-up from path, dispatching on the file extension.
func TieUpFile(path string) (draft.TieUp, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return TieUpCSVFile(path)
	case ".json":
		return TieUpJSONFile(path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported tie-up format %q (want .csv or .json)", ext)
	}
}

// TreadlingFile loads a treadling from path. CSV files are sniffed for the
// sectioned layout (a "type" column) and fall back to the flat single-column
// layout; YAML files must be full draft documents.
func TreadlingFile(path string) (draft.Sections, draft.MainSequence, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return TreadlingCSVFile(path)
	case ".yaml", ".yml":
		d, err := DraftYAMLFile(path)
		if err != nil {
			return nil, nil, err
		}
		return d.Sections, d.Main, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported treadling format %q (want .csv or .yaml)", ext)
	}
}
