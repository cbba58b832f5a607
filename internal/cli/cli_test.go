package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derive from input", "", "drafts/towels.csv", "drafts/towels"},
		{"strip format extension", "plan.pdf", "towels.csv", "plan"},
		{"keep other extension", "plan.out", "towels.csv", "plan.out"},
		{"plain base", "plan", "towels.csv", "plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	c := New(io.Discard, LogInfo)

	if got := c.parseFormats("svg,csv"); len(got) != 2 || got[0] != "svg" || got[1] != "csv" {
		t.Errorf("parseFormats = %v", got)
	}

	// Empty falls back to the configured formats.
	c.Config.Formats = []string{"json"}
	if got := c.parseFormats(""); len(got) != 1 || got[0] != "json" {
		t.Errorf("parseFormats fallback = %v", got)
	}
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const fixtureTieUp = "treadle,shafts\n1,1 3\n2,2 4\n"

const fixtureTreadling = `type,name,treadles,ref_name,repeat
section,hem,1,,
section,hem,2,,
main,hem,,,2
`

// runCommand executes the CLI against a fresh config-free working directory
// and returns the combined cobra output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenerateCommand_CSV(t *testing.T) {
	dir := t.TempDir()
	treadling := writeFixture(t, dir, "towels.csv", fixtureTreadling)
	tieup := writeFixture(t, dir, "tieup.csv", fixtureTieUp)
	output := filepath.Join(dir, "plan.csv")

	_, err := runCommand(t, "generate", treadling, tieup, "-f", "csv", "-o", output, "--no-cache")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"pick,shafts,label", "1,1 3,hem", "4,2 4,hem"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output missing %q:\n%s", want, data)
		}
	}
}

func TestGenerateCommand_UndefinedSection(t *testing.T) {
	dir := t.TempDir()
	treadling := writeFixture(t, dir, "bad.csv", "type,name,treadles,ref_name,repeat\nmain,missing,,,1\n")
	tieup := writeFixture(t, dir, "tieup.csv", fixtureTieUp)

	_, err := runCommand(t, "generate", treadling, tieup, "-f", "csv", "--no-cache")
	if err == nil {
		t.Fatal("want error for undefined section")
	}
	if !strings.Contains(err.Error(), "UNDEFINED_SECTION") {
		t.Errorf("error %q does not carry the code", err)
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error %q does not name the section", err)
	}
}

func TestExpandCommand(t *testing.T) {
	dir := t.TempDir()
	treadling := writeFixture(t, dir, "towels.csv", fixtureTreadling)

	out, err := runCommand(t, "expand", treadling)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	for _, want := range []string{
		"Begin section hem (repeat 1)",
		"Begin section hem (repeat 2)",
		"End section hem",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	treadling := writeFixture(t, dir, "towels.csv", fixtureTreadling)
	tieup := writeFixture(t, dir, "tieup.csv", fixtureTieUp)

	out, err := runCommand(t, "preview", treadling, tieup, "--shafts", "4")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, cellRaised) {
		t.Errorf("grid has no raised cells:\n%s", out)
	}
	if !strings.Contains(out, "Begin section hem (repeat 1)") {
		t.Errorf("grid missing annotation:\n%s", out)
	}
}

func TestGraphCommand_DOT(t *testing.T) {
	dir := t.TempDir()
	treadling := writeFixture(t, dir, "towels.csv", fixtureTreadling)
	output := filepath.Join(dir, "sections.dot")

	_, err := runCommand(t, "graph", treadling, "-o", output)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "hem") {
		t.Errorf("DOT missing section node:\n%s", data)
	}
}
