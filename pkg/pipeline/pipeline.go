// Package pipeline provides the core render pipeline for roughcast.
//
// This package implements the complete parse → synthesize → render flow
// shared by the CLI and the preview server. Centralizing it keeps behavior
// identical across entry points and puts caching in one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode and normalize the diagram document
//  2. Synthesize: Turn elements into drawable primitives
//  3. Render: Serialize SVG or draw PNG pixels
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:  "diagram.excalidraw",
//	    Format: "svg",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifact
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/roughcast/roughcast/pkg/cache"
	"github.com/roughcast/roughcast/pkg/errors"
	"github.com/roughcast/roughcast/pkg/model"
)

// Defaults shared by the CLI and the preview server.
const (
	// DefaultFormat is the output format when none is requested.
	DefaultFormat = FormatSVG

	// DefaultQuality is the PNG quality knob (0 = encoder default).
	DefaultQuality = 0

	// MaxDPI bounds the requested raster resolution.
	MaxDPI = 1200
)

// Format constants for output formats. PDF always goes through the external
// conversion step, so it requires rsvg-convert on the PATH.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// BackgroundAuto selects the background stored in the document's appState.
const BackgroundAuto = "auto"

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for preview-server requests.
type Options struct {
	// Parse options. Source takes precedence over Input when both are set.
	Input  string `json:"input,omitempty"`
	Source []byte `json:"source,omitempty"`

	// Render options
	Format     string `json:"format,omitempty"`
	Background string `json:"background,omitempty"` // hex color, "transparent", or "auto"
	Exact      bool   `json:"exact,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`

	// PNG options
	Quality int  `json:"quality,omitempty"`
	DPI     int  `json:"dpi,omitempty"`
	Legacy  bool `json:"legacy,omitempty"` // SVG-then-rasterize via rsvg-convert

	// Refresh bypasses cache reads, forcing a re-render.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed diagram.
	Document *model.Document

	// DocHash is the content hash of the normalized document.
	DocHash string

	// Artifact is the rendered output.
	Artifact []byte

	// Format is the artifact format, "svg", "png", or "pdf".
	Format string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the artifact came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount   int
	PrimitiveCount int
	SkippedCount   int

	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed document came from cache
	RenderHit bool // Whether the artifact came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be svg, png, or pdf)", format)
	}
	return nil
}

// ValidateBackground checks that a background is a known keyword or a
// parseable hex color.
func ValidateBackground(background string) error {
	switch background {
	case "", BackgroundAuto, "transparent":
		return nil
	}
	if len(background) == 0 || background[0] != '#' {
		return errors.New(errors.ErrCodeInvalidColor, "invalid background: %q", background)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && o.Source == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input path or source is required")
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateBackground(o.Background); err != nil {
		return err
	}
	if o.Quality < 0 || o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "quality must be in [0, 100], got %d", o.Quality)
	}
	if o.DPI < 0 || o.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be in [0, %d], got %d", MaxDPI, o.DPI)
	}
	if o.Legacy && o.Format != FormatPNG {
		return errors.New(errors.ErrCodeInvalidInput, "legacy rendering only applies to png output")
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// ResolveBackground returns the effective background color for a document.
// "auto" and the empty string take the document's stored background;
// "transparent" disables the background fill.
func (o *Options) ResolveBackground(doc *model.Document) model.Color {
	bg := o.Background
	switch bg {
	case "", BackgroundAuto:
		bg = doc.ViewBackgroundColor()
	case "transparent":
		return model.Color{}
	}
	return model.ParseColor(bg)
}

// ArtifactKeyOpts returns cache key options for the rendered artifact.
// The background must be resolved first so "auto" keys on the document's
// actual color.
func (o *Options) ArtifactKeyOpts(background model.Color) cache.ArtifactKeyOpts {
	bg := ""
	if !background.IsTransparent() {
		bg = background.Hex()
	}
	return cache.ArtifactKeyOpts{
		Format:     o.Format,
		Background: bg,
		Sketchy:    !o.Exact,
		Legacy:     o.Legacy,
		Quality:    o.Quality,
		DPI:        o.DPI,
		Seed:       o.Seed,
	}
}
