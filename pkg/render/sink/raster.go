package sink

import (
	"image"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/roughcast/roughcast/pkg/errors"
	"github.com/roughcast/roughcast/pkg/fonts"
	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/model"
	"github.com/roughcast/roughcast/pkg/scene"
	"github.com/roughcast/roughcast/pkg/sketch"
)

const (
	// Source documents are treated as 96 DPI; the DPI option scales from there.
	baseDPI = 96.0

	// The raster backend draws at double resolution and downscales with
	// Lanczos, which smooths the jittered strokes considerably.
	supersample = 2.0

	// Hard ceiling on output dimensions.
	maxRasterDim = 16384

	// Default font size for raster text when the element carries none.
	defaultRasterFontSize = 20.0
)

// RasterOption configures direct raster rendering.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	background model.Color
	exact      bool
	seedBase   uint64
	dpi        int
	logger     *log.Logger
}

// WithRasterBackground fills the canvas with a color before drawing.
// A transparent color leaves the canvas transparent.
func WithRasterBackground(c model.Color) RasterOption {
	return func(r *rasterRenderer) { r.background = c }
}

// WithRasterExact disables the sketchy stroke generator.
func WithRasterExact() RasterOption {
	return func(r *rasterRenderer) { r.exact = true }
}

// WithRasterSeedBase sets the render-time seed base.
func WithRasterSeedBase(seed uint64) RasterOption {
	return func(r *rasterRenderer) { r.seedBase = seed }
}

// WithDPI sets the output resolution. Zero keeps the source resolution.
func WithDPI(dpi int) RasterOption {
	return func(r *rasterRenderer) { r.dpi = dpi }
}

// WithRasterLogger sets the logger for skipped-element reporting.
func WithRasterLogger(l *log.Logger) RasterOption {
	return func(r *rasterRenderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// RenderRaster draws the document onto a pixel surface sized to its bounds
// and returns the image. Elements draw in list order; deleted and
// unsupported elements are skipped.
func RenderRaster(doc *model.Document, opts ...RasterOption) (image.Image, error) {
	r := rasterRenderer{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&r)
	}

	scale := 1.0
	if r.dpi > 0 {
		scale = float64(r.dpi) / baseDPI
	}

	bounds := scene.ComputeBounds(doc.Elements)
	outW := int(math.Ceil(bounds.Width() * scale))
	outH := int(math.Ceil(bounds.Height() * scale))
	if outW < 1 || outH < 1 {
		return nil, errors.New(errors.ErrCodeBadCanvasSize, "canvas has no area")
	}
	if outW > maxRasterDim || outH > maxRasterDim {
		return nil, errors.New(errors.ErrCodeBadCanvasSize, "canvas exceeds maximum raster size")
	}

	ss := scale * supersample
	dc := gg.NewContext(int(math.Ceil(bounds.Width()*ss)), int(math.Ceil(bounds.Height()*ss)))
	dc.Scale(ss, ss)
	dc.Translate(-bounds.MinX, -bounds.MinY)

	if !r.background.IsTransparent() {
		dc.SetRGBA(
			float64(r.background.R)/255,
			float64(r.background.G)/255,
			float64(r.background.B)/255,
			r.background.Alpha(),
		)
		dc.Clear()
	}

	synth := scene.NewSynthesizer(scene.WithLogger(r.logger))
	prims, _ := synth.Document(doc, r.seedBase)
	for _, p := range prims {
		if err := r.drawPrimitive(dc, p, ss); err != nil {
			return nil, err
		}
	}

	out := imaging.Resize(dc.Image(), outW, outH, imaging.Lanczos)
	return out, nil
}

func (r *rasterRenderer) roughness(attr scene.Attr) float64 {
	if r.exact {
		return 0
	}
	return attr.Roughness
}

func (r *rasterRenderer) drawPrimitive(dc *gg.Context, p scene.Primitive, ss float64) error {
	attr := p.Attributes()
	// Text positions its anchors itself so glyphs stay screen-aligned.
	if t, ok := p.(scene.Text); ok {
		return r.drawText(dc, t, ss)
	}
	rotated := attr.Angle != 0
	if rotated {
		dc.Push()
		dc.RotateAbout(attr.Angle, attr.Pivot.X, attr.Pivot.Y)
	}
	defer func() {
		if rotated {
			dc.Pop()
		}
	}()

	switch v := p.(type) {
	case scene.Polygon:
		r.fillShape(dc, attr, polygonPath(v.Points), v.Points, ss)
		if attr.HasStroke() {
			passes := sketch.RoughPolygon(v.Points, r.roughness(attr), attr.Seed)
			r.strokePasses(dc, attr, passes, ss)
		}

	case scene.Path:
		outline := sketch.OutlinePoints(v, cornerSteps)
		r.fillShape(dc, attr, v, outline, ss)
		if attr.HasStroke() {
			passes := sketch.RoughOutline(outline, r.roughness(attr), attr.Seed)
			if passes == nil {
				passes = []sketch.Pass{{Paths: []scene.Path{v}, Opacity: 1}}
			}
			r.strokePasses(dc, attr, passes, ss)
		}

	case scene.Ellipse:
		if attr.HasFill() {
			if attr.FillStyle == model.FillSolid {
				r.setColor(dc, attr.Fill, attr.Opacity)
				dc.DrawEllipse(v.Center.X, v.Center.Y, v.RX, v.RY)
				dc.Fill()
			} else {
				outline := sketch.EllipseOutline(v.Center, v.RX, v.RY, 0)
				r.hatchShape(dc, attr, outline, ss)
			}
		}
		if attr.HasStroke() {
			passes := sketch.RoughEllipse(v.Center, v.RX, v.RY, r.roughness(attr), attr.Seed)
			if passes == nil {
				r.setColor(dc, attr.Stroke, attr.Opacity)
				r.strokeStyle(dc, attr, ss)
				dc.DrawEllipse(v.Center.X, v.Center.Y, v.RX, v.RY)
				dc.Stroke()
				dc.SetDash()
			} else {
				r.strokePasses(dc, attr, passes, ss)
			}
		}

	case scene.Polyline:
		if attr.HasStroke() {
			passes := sketch.RoughPolyline(v.Points, v.Smooth, attr.StrokeWidth, r.roughness(attr), attr.Seed)
			r.strokePasses(dc, attr, passes, ss)
		}
	}
	return nil
}

func (r *rasterRenderer) setColor(dc *gg.Context, c model.Color, opacity float64) {
	dc.SetRGBA(
		float64(c.R)/255,
		float64(c.G)/255,
		float64(c.B)/255,
		c.Alpha()*opacity,
	)
}

// strokeStyle applies line width and dash pattern. gg stroking happens in
// device space, so widths scale by the effective pixel scale.
func (r *rasterRenderer) strokeStyle(dc *gg.Context, attr scene.Attr, ss float64) {
	dc.SetLineWidth(attr.StrokeWidth * ss)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	switch attr.StrokeStyle {
	case model.StrokeDashed:
		dc.SetDash(8*ss, (8+attr.StrokeWidth)*ss)
	case model.StrokeDotted:
		dc.SetDash(1.5*ss, (6+attr.StrokeWidth)*ss)
	default:
		dc.SetDash()
	}
}

func (r *rasterRenderer) strokePasses(dc *gg.Context, attr scene.Attr, passes []sketch.Pass, ss float64) {
	for _, pass := range passes {
		r.setColor(dc, attr.Stroke, attr.Opacity*pass.Opacity)
		r.strokeStyle(dc, attr, ss)
		for _, path := range pass.Paths {
			tracePath(dc, path)
		}
		dc.Stroke()
	}
	dc.SetDash()
}

func (r *rasterRenderer) fillShape(dc *gg.Context, attr scene.Attr, outline scene.Path, poly []geom.Point, ss float64) {
	if !attr.HasFill() {
		return
	}
	if attr.FillStyle == model.FillSolid {
		r.setColor(dc, attr.Fill, attr.Opacity)
		tracePath(dc, outline)
		dc.Fill()
		return
	}
	r.hatchShape(dc, attr, poly, ss)
}

func (r *rasterRenderer) hatchShape(dc *gg.Context, attr scene.Attr, poly []geom.Point, ss float64) {
	var lines []sketch.Line
	if attr.FillStyle == model.FillCrossHatch {
		lines = sketch.CrossHatchLines(poly, sketch.HatchAngle, sketch.HatchGap)
	} else {
		lines = sketch.HatchLines(poly, sketch.HatchAngle, sketch.HatchGap)
	}
	if len(lines) == 0 {
		return
	}
	r.setColor(dc, attr.Fill, attr.Opacity)
	dc.SetLineWidth(1 * ss)
	dc.SetDash()
	for _, l := range lines {
		dc.MoveTo(l.A.X, l.A.Y)
		dc.LineTo(l.B.X, l.B.Y)
	}
	dc.Stroke()
}

func tracePath(dc *gg.Context, p scene.Path) {
	dc.MoveTo(p.Start.X, p.Start.Y)
	for _, seg := range p.Segments {
		switch seg.Op {
		case scene.SegLine:
			dc.LineTo(seg.P1.X, seg.P1.Y)
		case scene.SegQuad:
			dc.QuadraticTo(seg.P1.X, seg.P1.Y, seg.P2.X, seg.P2.Y)
		case scene.SegCubic:
			dc.CubicTo(seg.P1.X, seg.P1.Y, seg.P2.X, seg.P2.Y, seg.P3.X, seg.P3.Y)
		}
	}
	if p.Closed {
		dc.ClosePath()
	}
}

// drawText renders a text block with the embedded typeface. Glyphs are drawn
// in device space at pre-rotated anchor positions, so rotated text keeps its
// anchor but the glyphs themselves stay horizontal.
func (r *rasterRenderer) drawText(dc *gg.Context, v scene.Text, ss float64) error {
	if v.Content == "" {
		return nil
	}
	attr := v.Attr
	fontSize := v.FontSize
	if fontSize <= 0 {
		fontSize = defaultRasterFontSize
	}
	lineHeight := v.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.25
	}
	lineStep := lineHeight * fontSize
	baseline := fontSize * 0.75

	face, err := fontFace(fontSize * ss)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "loading font face")
	}

	var ax float64
	switch v.Anchor {
	case "middle":
		ax = 0.5
	case "end":
		ax = 1
	}

	lines := strings.Split(v.Content, "\n")
	type placed struct {
		sx, sy float64
	}
	anchors := make([]placed, len(lines))
	for i := range lines {
		anchor := geom.Pt(v.Pos.X, v.Pos.Y+float64(i)*lineStep+baseline)
		if attr.Angle != 0 {
			anchor = geom.RotateAbout(anchor, attr.Pivot, attr.Angle)
		}
		sx, sy := dc.TransformPoint(anchor.X, anchor.Y)
		anchors[i] = placed{sx, sy}
	}

	dc.Push()
	defer dc.Pop()
	dc.Identity()
	dc.SetFontFace(face)
	r.setColor(dc, attr.Stroke, attr.Opacity)
	for i, line := range lines {
		dc.DrawStringAnchored(line, anchors[i].sx, anchors[i].sy, ax, 0)
	}
	return nil
}

// fontFace is replaceable in tests.
var fontFace = fonts.Face
