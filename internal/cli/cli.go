// Package cli implements the liftplan command-line interface.
//
// This package provides commands for converting a tie-up and sectioned
// treadling into a lift plan, previewing the plan in the terminal,
// inspecting the section structure, and running the upload server. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Convert a treadling and tie-up into lift plan artifacts
//   - expand: Print the expanded treadle sequence for debugging
//   - preview: Render the lift grid in the terminal
//   - graph: Visualize the section reference structure
//   - serve: Run the HTTP upload server
//
// All commands support --verbose (-v) for debug-level logging and --config
// to point at a liftplan.toml file with project defaults.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/weftworks/liftplan/pkg/buildinfo"
	"github.com/weftworks/liftplan/pkg/cache"
	"github.com/weftworks/liftplan/pkg/config"
	"github.com/weftworks/liftplan/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "liftplan"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Liftplan converts weaving drafts into lift plans",
		Long:         `Liftplan is a CLI tool for converting a floor-loom tie-up and sectioned treadling into the lift plan a dobby or table loom needs, rendered as a printable grid.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to liftplan.toml (default: ./liftplan.toml if present)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.expandCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the file cache, or the null
// cache when caching is disabled or no cache directory is available.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newFileCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.Logger), nil
}

func newFileCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/liftplan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
// Empty falls back to the configured formats.
func (c *CLI) parseFormats(s string) []string {
	if s == "" {
		if len(c.Config.Formats) > 0 {
			return c.Config.Formats
		}
		return []string{pipeline.FormatPDF}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped so per-format suffixes
// can be appended.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// openOutput returns a WriteCloser for the given path, creating parent
// directories as needed. "-" means stdout, whose Close is a no-op so later
// status output still reaches the terminal.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
