package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roughcast/roughcast/pkg/cache"
	rcio "github.com/roughcast/roughcast/pkg/io"
	"github.com/roughcast/roughcast/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path (default: input with the format extension)
	format     string // output format: "svg", "png", or "pdf"
	background string // background color: hex, "transparent", or "auto"
	exact      bool   // disable the sketchy stroke generator
	seed       uint64 // render seed base for reproducible jitter
	quality    int    // PNG compression knob, 1-100
	dpi        int    // PNG output resolution (0 = source)
	legacy     bool   // render SVG then rasterize with rsvg-convert
	noCache    bool   // disable the artifact cache entirely
	refresh    bool   // bypass cache reads, forcing a re-render
	cacheDir   string // override the cache directory
}

// newRenderCmd creates the render command for generating images from
// diagram documents.
//
// Default settings:
//   - format: svg
//   - background: auto (use the color stored in the document)
//   - sketchy rendering with per-element seeds
func newRenderCmd(cfg *config) *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram document to SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyConfig(cmd, cfg, &opts)
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.DefaultFormat, "output format: svg (default), png, pdf")
	cmd.Flags().StringVar(&opts.background, "background", pipeline.BackgroundAuto, "background: hex color, transparent, or auto")
	cmd.Flags().BoolVar(&opts.exact, "exact", false, "disable sketchy strokes and render exact geometry")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "render seed base for reproducible jitter")
	cmd.Flags().IntVar(&opts.quality, "quality", pipeline.DefaultQuality, "png compression, 1-100")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "png output resolution (0 = source)")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "render SVG then rasterize with rsvg-convert")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "artifact cache directory")

	return cmd
}

// applyConfig fills in option values from the config file for every flag the
// user did not set explicitly.
func applyConfig(cmd *cobra.Command, cfg *config, opts *renderOpts) {
	flags := cmd.Flags()
	if !flags.Changed("format") && cfg.Format != "" {
		opts.format = cfg.Format
	}
	if !flags.Changed("background") && cfg.Background != "" {
		opts.background = cfg.Background
	}
	if !flags.Changed("exact") && cfg.Exact {
		opts.exact = true
	}
	if !flags.Changed("seed") && cfg.Seed != 0 {
		opts.seed = cfg.Seed
	}
	if !flags.Changed("quality") && cfg.Quality != 0 {
		opts.quality = cfg.Quality
	}
	if !flags.Changed("dpi") && cfg.DPI != 0 {
		opts.dpi = cfg.DPI
	}
	if !flags.Changed("legacy") && cfg.Legacy {
		opts.legacy = true
	}
	if !flags.Changed("no-cache") && cfg.NoCache {
		opts.noCache = true
	}
	if !flags.Changed("cache-dir") && cfg.CacheDir != "" {
		opts.cacheDir = cfg.CacheDir
	}
}

// outputPath derives the output file path from the flags and input name.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// openCache builds the artifact cache, or nil when caching is disabled.
// A cache that fails to open degrades to no caching with a warning.
func openCache(ctx context.Context, opts *renderOpts) cache.Cache {
	if opts.noCache {
		return nil
	}
	dir, err := cacheDir(opts.cacheDir)
	if err == nil {
		if c, cerr := cache.NewFileCache(dir); cerr == nil {
			return c
		} else {
			err = cerr
		}
	}
	loggerFromContext(ctx).Warn("artifact cache disabled", "err", err)
	return nil
}

// runRender loads the document, renders it, and writes the artifact.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner := pipeline.NewRunner(openCache(ctx, opts), nil, logger)
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{
		Input:      input,
		Format:     opts.format,
		Background: opts.background,
		Exact:      opts.exact,
		Seed:       opts.seed,
		Quality:    opts.quality,
		DPI:        opts.dpi,
		Legacy:     opts.legacy,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	out := outputPath(opts.output, input, result.Format)
	if err := rcio.WriteArtifact(out, result.Artifact); err != nil {
		return err
	}
	prog.done("Rendered " + input)

	printSuccess("Generated %s", out)
	printStats(result.Stats.ElementCount, result.Stats.PrimitiveCount, result.CacheInfo.RenderHit)
	if result.Stats.SkippedCount > 0 {
		printWarning("Skipped %d unsupported element(s)", result.Stats.SkippedCount)
	}
	return nil
}
