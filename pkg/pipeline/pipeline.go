// Package pipeline provides the load → expand → derive → render flow for
// liftplan.
//
// The CLI and the HTTP server both run the same pipeline; centralizing it
// here keeps their behavior identical. The stages are:
//
//  1. Load: read the treadling and tie-up tables (skipped when the caller
//     supplies a pre-loaded draft, as the server does for uploads)
//  2. Expand: flatten the sectioned treadling into the pick sequence
//  3. Derive: resolve treadles through the tie-up into lift sets
//  4. Render: produce the requested artifact formats
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    TreadlingPath: "treadling.csv",
//	    TieUpPath:     "tieup.csv",
//	    Formats:       []string{"pdf"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"github.com/weftworks/liftplan/pkg/errors"
	"github.com/weftworks/liftplan/pkg/load"
)

// Default option values shared by CLI and server.
const (
	// DefaultShafts is the shaft count assumed when neither the input nor
	// the caller declares one. Eight-shaft table looms are the common case.
	DefaultShafts = 8

	// DefaultPNGScale renders PNGs at 2x resolution.
	DefaultPNGScale = 2.0
)

// Output format identifiers.
const (
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatCSV:  true,
	FormatJSON: true,
}

// ContentTypes maps formats to their MIME types for HTTP responses.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatPNG:  "image/png",
	FormatCSV:  "text/csv",
	FormatJSON: "application/json",
}

// Options configures one pipeline run.
type Options struct {
	// TreadlingPath and TieUpPath locate the input tables. They are ignored
	// when Draft is set.
	TreadlingPath string
	TieUpPath     string

	// Draft supplies pre-loaded inputs, bypassing the load stage. The
	// server uses this for multipart uploads.
	Draft *load.Draft

	// Shafts is the declared shaft count. Zero means: use the draft's own
	// declaration if present, otherwise DefaultShafts.
	Shafts int

	// Formats lists the artifacts to produce. Empty defaults to PDF.
	Formats []string

	// BottomUp places pick 1 at the bottom edge of the grid.
	BottomUp bool

	// PNGScale is the PNG resolution multiplier. Zero means DefaultPNGScale.
	PNGScale float64

	// NoCache bypasses artifact caching for this run.
	NoCache bool
}

// ValidateAndSetDefaults checks the options and fills unset values.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Draft == nil {
		if o.TreadlingPath == "" {
			return errors.New(errors.ErrCodeInvalidInput, "no treadling input: set TreadlingPath or Draft")
		}
		// Missing TieUpPath is allowed: the treadling may be a YAML draft
		// carrying its own tie-up, which loadDraft resolves.
	}
	if o.Shafts < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "shaft count %d must be positive", o.Shafts)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	return nil
}

// ValidateFormat checks a single output format identifier.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want svg, pdf, png, csv, or json)", format)
	}
	return nil
}

// ValidateFormats checks a list of output formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
