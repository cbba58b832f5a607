package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/errors"
	"github.com/weftworks/liftplan/pkg/load"
)

// draftFromUpload reads the "treadling" and "tieup" multipart file fields
// into a draft, dispatching on the uploaded filename extension.
func draftFromUpload(r *http.Request) (*load.Draft, error) {
	treadling, treadlingName, err := formFile(r, "treadling")
	if err != nil {
		return nil, err
	}
	defer treadling.Close()

	switch ext(treadlingName) {
	case ".yaml", ".yml":
		// A YAML draft is self-contained, no separate tie-up needed.
		return load.DraftYAML(treadling)
	case ".csv":
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported treadling format %q", treadlingName)
	}

	sections, main, err := load.TreadlingCSV(treadling)
	if err != nil {
		return nil, err
	}

	tieupFile, tieupName, err := formFile(r, "tieup")
	if err != nil {
		return nil, err
	}
	defer tieupFile.Close()

	var tieup draft.TieUp
	switch ext(tieupName) {
	case ".csv":
		tieup, err = load.TieUpCSV(tieupFile)
	case ".json":
		tieup, err = load.TieUpJSON(tieupFile)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported tie-up format %q", tieupName)
	}
	if err != nil {
		return nil, err
	}

	return &load.Draft{TieUp: tieup, Sections: sections, Main: main}, nil
}

func formFile(r *http.Request, field string) (multipart.File, string, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == io.EOF {
			return nil, "", errors.New(errors.ErrCodeInvalidInput, "missing %q file field", field)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %q file field", field)
	}
	return f, hdr.Filename, nil
}

func ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
