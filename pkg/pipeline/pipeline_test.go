package pipeline

import (
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"pdf", false},
		{"png", false},
		{"csv", false},
		{"json", false},
		{"invalid", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "csv"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	opts := Options{TreadlingPath: "t.csv", TieUpPath: "u.csv"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPDF {
		t.Errorf("Formats = %v, want [pdf]", opts.Formats)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale = %v, want %v", opts.PNGScale, DefaultPNGScale)
	}
}

func TestOptions_MissingTreadling(t *testing.T) {
	opts := Options{TieUpPath: "u.csv"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("want error for missing treadling")
	}
}

func TestOptions_TieUpOptional(t *testing.T) {
	// YAML drafts carry their own tie-up, so validation accepts a lone
	// treadling path and defers the format check to loading.
	opts := Options{TreadlingPath: "draft.yaml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("ValidateAndSetDefaults() error = %v", err)
	}
}

func TestOptions_BadFormat(t *testing.T) {
	opts := Options{TreadlingPath: "t.csv", TieUpPath: "u.csv", Formats: []string{"docx"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("want error for unsupported format")
	}
}

func TestContentTypes_CoverAllFormats(t *testing.T) {
	for f := range ValidFormats {
		if ContentTypes[f] == "" {
			t.Errorf("format %q has no content type", f)
		}
	}
}
