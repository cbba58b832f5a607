package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/weftworks/liftplan/pkg/cache"
	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/errors"
	"github.com/weftworks/liftplan/pkg/load"
)

func testDraft() *load.Draft {
	return &load.Draft{
		TieUp: draft.TieUp{1: {1}, 2: {2}},
		Sections: draft.Sections{
			"hem": {draft.Pick(1), draft.Pick(2)},
		},
		Main: draft.MainSequence{{Name: "hem", Repeat: 2}},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunner_Execute(t *testing.T) {
	r := NewRunner(nil, quietLogger())
	opts := Options{
		Draft:   testDraft(),
		Shafts:  2,
		Formats: []string{FormatSVG, FormatCSV, FormatJSON},
	}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Picks != 4 {
		t.Errorf("Picks = %d, want 4", result.Picks)
	}
	if result.Shafts != 2 {
		t.Errorf("Shafts = %d, want 2", result.Shafts)
	}
	if len(result.Plan) != 8 {
		t.Errorf("Plan rows = %d, want 8 (4 picks + 4 markers)", len(result.Plan))
	}
	for _, f := range opts.Formats {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("artifact %q is empty", f)
		}
	}

	var decoded struct {
		Shafts int `json:"shafts"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &decoded); err != nil {
		t.Fatalf("json artifact invalid: %v", err)
	}
	if decoded.Shafts != 2 {
		t.Errorf("json artifact shafts = %d, want 2", decoded.Shafts)
	}
}

func TestRunner_DefaultShafts(t *testing.T) {
	r := NewRunner(nil, quietLogger())
	result, err := r.Execute(context.Background(), Options{
		Draft:   testDraft(),
		Formats: []string{FormatSVG},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Shafts != DefaultShafts {
		t.Errorf("Shafts = %d, want default %d", result.Shafts, DefaultShafts)
	}
}

func TestRunner_DraftDeclaredShafts(t *testing.T) {
	d := testDraft()
	d.Shafts = 4
	r := NewRunner(nil, quietLogger())

	result, err := r.Execute(context.Background(), Options{Draft: d, Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Shafts != 4 {
		t.Errorf("Shafts = %d, want 4 from draft declaration", result.Shafts)
	}
}

func TestRunner_ExpansionErrorPropagates(t *testing.T) {
	d := testDraft()
	d.Sections["loop"] = []draft.Entry{draft.Ref("loop", 1)}
	d.Main = draft.MainSequence{{Name: "loop", Repeat: 1}}

	r := NewRunner(nil, quietLogger())
	_, err := r.Execute(context.Background(), Options{Draft: d, Formats: []string{FormatCSV}})
	if !errors.Is(err, errors.ErrCodeCircular) {
		t.Errorf("Execute() error = %v, want CIRCULAR_REFERENCE", err)
	}
}

func TestRunner_LoadsFromFiles(t *testing.T) {
	dir := t.TempDir()
	treadling := filepath.Join(dir, "treadling.csv")
	tieup := filepath.Join(dir, "tieup.csv")
	writeFile(t, treadling, "type,name,treadles,ref_name,repeat\nsection,hem,1,,\nmain,hem,,,2\n")
	writeFile(t, tieup, "treadle,shafts\n1,1 2\n")

	r := NewRunner(nil, quietLogger())
	result, err := r.Execute(context.Background(), Options{
		TreadlingPath: treadling,
		TieUpPath:     tieup,
		Formats:       []string{FormatCSV},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Picks != 2 {
		t.Errorf("Picks = %d, want 2", result.Picks)
	}
	csv := string(result.Artifacts[FormatCSV])
	if !strings.Contains(csv, "1,1 2,hem") {
		t.Errorf("csv artifact missing derived row:\n%s", csv)
	}
}

func TestRunner_ArtifactCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, quietLogger())
	opts := Options{Draft: testDraft(), Shafts: 2, Formats: []string{FormatSVG}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(first.CacheHits) != 0 {
		t.Errorf("first run cache hits = %v, want none", first.CacheHits)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(second.CacheHits) != 1 || second.CacheHits[0] != FormatSVG {
		t.Errorf("second run cache hits = %v, want [svg]", second.CacheHits)
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// Changing an option must miss.
	opts.BottomUp = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(third.CacheHits) != 0 {
		t.Errorf("option change still hit cache: %v", third.CacheHits)
	}
}

func TestRunner_NoCacheBypasses(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, quietLogger())
	opts := Options{Draft: testDraft(), Shafts: 2, Formats: []string{FormatSVG}, NoCache: true}

	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.CacheHits) != 0 {
		t.Errorf("NoCache run reported cache hits: %v", result.CacheHits)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
