package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/weftworks/liftplan/pkg/cache"
	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/export"
	"github.com/weftworks/liftplan/pkg/load"
	"github.com/weftworks/liftplan/pkg/render"
	"github.com/weftworks/liftplan/pkg/render/liftgrid"
)

// artifactTTL bounds how long rendered artifacts stay cached.
const artifactTTL = 24 * time.Hour

// Runner executes the pipeline with artifact caching. It is stateless apart
// from the cache and logger, so one Runner may serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// falls back to log.Default().
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Result holds the outputs of one pipeline run.
type Result struct {
	// Plan is the derived lift plan, annotations included.
	Plan []draft.Lift

	// Shafts is the effective declared shaft count for the run.
	Shafts int

	// Artifacts maps format → rendered bytes for each requested format.
	Artifacts map[string][]byte

	// Picks counts weaving rows (annotations excluded).
	Picks int

	// CacheHits lists the formats served from cache.
	CacheHits []string
}

// Execute runs the full pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	d, err := r.loadDraft(opts)
	if err != nil {
		return nil, err
	}

	shafts := opts.Shafts
	if shafts == 0 {
		shafts = d.Shafts
	}
	if shafts == 0 {
		shafts = DefaultShafts
	}

	start := time.Now()
	plan, err := draft.Generate(d.Main, d.Sections, d.TieUp, shafts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Plan:      plan,
		Shafts:    shafts,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	for _, l := range plan {
		if !l.Annotation {
			result.Picks++
		}
	}
	if overflow := draft.MaxShaft(plan); overflow > shafts {
		r.Logger.Warn("tie-up references shafts beyond the declared count",
			"declared", shafts, "max", overflow)
	}
	r.Logger.Info("derived lift plan",
		"picks", result.Picks,
		"sections", len(d.Sections),
		"duration", time.Since(start).Round(time.Millisecond))

	if err := r.renderAll(ctx, d, plan, shafts, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

// loadDraft returns the pre-loaded draft or reads the input files.
func (r *Runner) loadDraft(opts Options) (*load.Draft, error) {
	if opts.Draft != nil {
		return opts.Draft, nil
	}
	if opts.TieUpPath == "" {
		return load.DraftFile(opts.TreadlingPath)
	}

	sections, main, err := load.TreadlingFile(opts.TreadlingPath)
	if err != nil {
		return nil, err
	}
	tieup, err := load.TieUpFile(opts.TieUpPath)
	if err != nil {
		return nil, err
	}
	return &load.Draft{TieUp: tieup, Sections: sections, Main: main}, nil
}

// renderAll produces every requested artifact, consulting the cache per
// format. The cache key covers the full draft content and render options, so
// two identical uploads share artifacts while any edit misses.
func (r *Runner) renderAll(ctx context.Context, d *load.Draft, plan []draft.Lift, shafts int, opts Options, result *Result) error {
	layout := liftgrid.NewLayout(plan, shafts, liftgrid.Options{BottomUp: opts.BottomUp})

	for _, format := range opts.Formats {
		key := cache.Key("artifact", d, format, shafts, opts.BottomUp, opts.PNGScale)

		if !opts.NoCache {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				result.Artifacts[format] = data
				result.CacheHits = append(result.CacheHits, format)
				r.Logger.Debug("artifact cache hit", "format", format)
				continue
			}
		}

		start := time.Now()
		data, err := r.renderOne(layout, plan, shafts, format, opts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		r.Logger.Info("rendered artifact",
			"format", format,
			"bytes", len(data),
			"duration", time.Since(start).Round(time.Millisecond))

		if !opts.NoCache {
			if err := r.Cache.Set(ctx, key, data, artifactTTL); err != nil {
				r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
			}
		}
	}
	return nil
}

func (r *Runner) renderOne(layout liftgrid.Layout, plan []draft.Lift, shafts int, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return liftgrid.RenderSVG(layout), nil
	case FormatPDF:
		return render.ToPDF(liftgrid.RenderSVG(layout))
	case FormatPNG:
		return render.ToPNG(liftgrid.RenderSVG(layout), opts.PNGScale)
	case FormatCSV:
		var buf bytes.Buffer
		if err := export.WriteCSV(plan, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := export.WriteJSON(plan, shafts, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ValidateFormat(format)
	}
}
