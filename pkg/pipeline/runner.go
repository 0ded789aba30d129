package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/roughcast/roughcast/pkg/cache"
	"github.com/roughcast/roughcast/pkg/errors"
	rcio "github.com/roughcast/roughcast/pkg/io"
	"github.com/roughcast/roughcast/pkg/model"
	"github.com/roughcast/roughcast/pkg/observability"
	"github.com/roughcast/roughcast/pkg/render"
	"github.com/roughcast/roughcast/pkg/render/sink"
	"github.com/roughcast/roughcast/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → synthesize → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Format: opts.Format}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, parseHit, err := r.parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.ParseTime = time.Since(parseStart)
	result.CacheInfo.ParseHit = parseHit
	result.Stats.ElementCount = len(doc.Visible())

	r.Logger.Info("parsed document",
		"elements", len(doc.Elements),
		"duration", result.Stats.ParseTime)

	// Stage 2: Synthesize, for statistics and skip reporting. The render
	// backends regenerate primitives internally from the same inputs.
	synthStart := time.Now()
	observability.Render().OnSynthesizeStart(ctx, len(doc.Elements))
	synth := scene.NewSynthesizer(scene.WithLogger(r.Logger))
	prims, skipped := synth.Document(doc, opts.Seed)
	observability.Render().OnSynthesizeComplete(ctx, len(prims), skipped, time.Since(synthStart), nil)
	result.Stats.PrimitiveCount = len(prims)
	result.Stats.SkippedCount = skipped
	if skipped > 0 {
		r.Logger.Warn("skipped unsupported elements", "count", skipped)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifact, hit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	result.DocHash = DocumentHash(doc)
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered output",
		"format", opts.Format,
		"bytes", len(artifact),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse loads and decodes the document named by the options.
func (r *Runner) Parse(ctx context.Context, opts Options) (*model.Document, error) {
	doc, _, err := r.parse(ctx, opts)
	return doc, err
}

// parse decodes the document, serving normalized documents from cache keyed
// on the raw input bytes. The second return value reports a cache hit.
func (r *Runner) parse(ctx context.Context, opts Options) (*model.Document, bool, error) {
	if opts.Input == "" && opts.Source == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "input path or source is required")
	}

	source := opts.Input
	if source == "" {
		source = "inline"
	}
	start := time.Now()
	observability.Render().OnParseStart(ctx, source)

	raw := opts.Source
	if raw == nil {
		var err error
		raw, err = os.ReadFile(opts.Input)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeFileNotFound, err, "opening %s", opts.Input)
			observability.Render().OnParseComplete(ctx, source, 0, time.Since(start), err)
			return nil, false, err
		}
	}

	cacheKey := r.Keyer.DocumentKey(cache.Hash(raw))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var doc model.Document
			if json.Unmarshal(data, &doc) == nil {
				observability.Cache().OnCacheHit(ctx, "document")
				observability.Render().OnParseComplete(ctx, source, len(doc.Elements), time.Since(start), nil)
				return &doc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	doc, err := rcio.ReadDocument(bytes.NewReader(raw))
	if err == nil {
		if data, mErr := json.Marshal(doc); mErr == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument) == nil {
				observability.Cache().OnCacheSet(ctx, "document", len(data))
			}
		}
	}

	count := 0
	if doc != nil {
		count = len(doc.Elements)
	}
	observability.Render().OnParseComplete(ctx, source, count, time.Since(start), err)
	return doc, false, err
}

// RenderWithCacheInfo renders an artifact with caching and reports whether
// the bytes came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *model.Document, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	background := opts.ResolveBackground(doc)
	cacheKey := r.Keyer.ArtifactKey(DocumentHash(doc), opts.ArtifactKeyOpts(background))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	artifact, err := r.render(ctx, doc, background, opts)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, artifact, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(artifact))
	}

	return artifact, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *model.Document, opts Options) ([]byte, error) {
	artifact, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifact, err
}

func (r *Runner) render(ctx context.Context, doc *model.Document, background model.Color, opts Options) ([]byte, error) {
	backend := backendName(opts)
	start := time.Now()
	observability.Render().OnRenderStart(ctx, backend, []string{opts.Format})

	var artifact []byte
	var err error
	switch opts.Format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{
			sink.WithBackground(background),
			sink.WithSeedBase(opts.Seed),
			sink.WithSVGLogger(opts.Logger),
		}
		if opts.Exact {
			svgOpts = append(svgOpts, sink.WithExact())
		}
		artifact = sink.RenderSVG(doc, svgOpts...)

	case FormatPNG:
		pngOpts := []sink.PNGOption{
			sink.WithPNGBackground(background),
			sink.WithPNGSeedBase(opts.Seed),
			sink.WithQuality(opts.Quality),
			sink.WithPNGDPI(opts.DPI),
		}
		if opts.Exact {
			pngOpts = append(pngOpts, sink.WithPNGExact())
		}
		if opts.Legacy {
			pngOpts = append(pngOpts, sink.WithLegacy())
		}
		artifact, err = sink.RenderPNG(doc, pngOpts...)

	case FormatPDF:
		svgOpts := []sink.SVGOption{
			sink.WithBackground(background),
			sink.WithSeedBase(opts.Seed),
			sink.WithSVGLogger(opts.Logger),
		}
		if opts.Exact {
			svgOpts = append(svgOpts, sink.WithExact())
		}
		artifact, err = render.ToPDF(sink.RenderSVG(doc, svgOpts...))
		if err != nil {
			err = errors.Wrap(errors.ErrCodeConvertFailed, err, "converting svg to pdf")
		}

	default:
		err = errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", opts.Format)
	}

	observability.Render().OnRenderComplete(ctx, backend, []string{opts.Format}, time.Since(start), err)
	return artifact, err
}

// DocumentHash returns the content hash of a normalized document. Rendered
// artifacts are keyed on it together with the render options.
func DocumentHash(doc *model.Document) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func backendName(opts Options) string {
	switch {
	case opts.Format == FormatSVG:
		return "svg"
	case opts.Format == FormatPDF, opts.Legacy:
		return "legacy"
	default:
		return "raster"
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
