// Package sink contains the two render backends: an SVG serializer and a
// direct raster drawer. Both consume the primitive stream from pkg/scene and
// the sketchy passes from pkg/sketch, so their output stays visually
// equivalent for the same document and options.
package sink

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/roughcast/roughcast/pkg/fonts"
	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/model"
	"github.com/roughcast/roughcast/pkg/scene"
	"github.com/roughcast/roughcast/pkg/sketch"
)

// Curve sampling density when flattening rounded corners for rough strokes
// and hatch clipping.
const cornerSteps = 8

// Default font size for SVG text when the element carries none.
const defaultSVGFontSize = 16.0

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background model.Color
	exact      bool
	seedBase   uint64
	logger     *log.Logger
}

// WithBackground composites a full-canvas background rectangle under the
// drawing. A transparent color leaves the canvas unfilled.
func WithBackground(c model.Color) SVGOption {
	return func(r *svgRenderer) { r.background = c }
}

// WithExact disables the sketchy stroke generator; shapes render with their
// exact geometry regardless of element roughness.
func WithExact() SVGOption {
	return func(r *svgRenderer) { r.exact = true }
}

// WithSeedBase sets the render-time seed mixed into every element's jitter
// seed. The same document with the same seed base renders identically.
func WithSeedBase(seed uint64) SVGOption {
	return func(r *svgRenderer) { r.seedBase = seed }
}

// WithSVGLogger sets the logger for skipped-element reporting.
func WithSVGLogger(l *log.Logger) SVGOption {
	return func(r *svgRenderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// RenderSVG renders the document as an SVG byte stream. Elements are emitted
// in list order; deleted and unsupported elements are skipped.
func RenderSVG(doc *model.Document, opts ...SVGOption) []byte {
	r := svgRenderer{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&r)
	}

	bounds := scene.ComputeBounds(doc.Elements)
	synth := scene.NewSynthesizer(scene.WithLogger(r.logger))
	prims, _ := synth.Document(doc, r.seedBase)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg viewBox="%s %s %s %s" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`+"\n",
		num(bounds.MinX), num(bounds.MinY), num(bounds.Width()), num(bounds.Height()))
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrowhead" markerWidth="10" markerHeight="10" refX="9" refY="3" orient="auto">` + "\n")
	buf.WriteString(`      <polygon points="0 0, 10 3, 0 6" fill="#000000"/>` + "\n")
	buf.WriteString("    </marker>\n  </defs>\n")

	if !r.background.IsTransparent() {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s"/>`+"\n",
			num(bounds.MinX), num(bounds.MinY), num(bounds.Width()), num(bounds.Height()),
			r.background.Hex(), num(r.background.Alpha()))
	}

	for _, p := range prims {
		r.emitPrimitive(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) roughness(attr scene.Attr) float64 {
	if r.exact {
		return 0
	}
	return attr.Roughness
}

func (r *svgRenderer) emitPrimitive(buf *bytes.Buffer, p scene.Primitive) {
	switch v := p.(type) {
	case scene.Polygon:
		r.emitFill(buf, v.Attr, polygonPath(v.Points), v.Points)
		if v.Attr.HasStroke() {
			passes := sketch.RoughPolygon(v.Points, r.roughness(v.Attr), v.Attr.Seed)
			r.emitStrokePasses(buf, v.Attr, passes)
		}

	case scene.Path:
		r.emitFill(buf, v.Attr, v, sketch.OutlinePoints(v, cornerSteps))
		if v.Attr.HasStroke() {
			rough := r.roughness(v.Attr)
			passes := sketch.RoughOutline(sketch.OutlinePoints(v, cornerSteps), rough, v.Attr.Seed)
			if passes == nil {
				passes = []sketch.Pass{{Paths: []scene.Path{v}, Opacity: 1}}
			}
			r.emitStrokePasses(buf, v.Attr, passes)
		}

	case scene.Ellipse:
		r.emitEllipse(buf, v)

	case scene.Polyline:
		if !v.Attr.HasStroke() {
			return
		}
		passes := sketch.RoughPolyline(v.Points, v.Smooth, v.Attr.StrokeWidth, r.roughness(v.Attr), v.Attr.Seed)
		r.emitStrokePasses(buf, v.Attr, passes)

	case scene.Text:
		r.emitText(buf, v)
	}
}

// emitFill writes the interior of a closed primitive: a plain filled path for
// solid fills, hatch or cross-hatch strokes otherwise.
func (r *svgRenderer) emitFill(buf *bytes.Buffer, attr scene.Attr, outline scene.Path, poly []geom.Point) {
	if !attr.HasFill() {
		return
	}
	opacity := attr.Opacity * attr.Fill.Alpha()

	if attr.FillStyle == model.FillSolid {
		fmt.Fprintf(buf, `  <path d="%s" fill="%s" stroke="none" opacity="%s"%s/>`+"\n",
			pathData(outline), attr.Fill.Hex(), num(opacity), transformAttr(attr))
		return
	}

	var lines []sketch.Line
	if attr.FillStyle == model.FillCrossHatch {
		lines = sketch.CrossHatchLines(poly, sketch.HatchAngle, sketch.HatchGap)
	} else {
		lines = sketch.HatchLines(poly, sketch.HatchAngle, sketch.HatchGap)
	}
	if len(lines) == 0 {
		return
	}
	var d strings.Builder
	for i, l := range lines {
		if i > 0 {
			d.WriteByte(' ')
		}
		fmt.Fprintf(&d, "M%s,%s L%s,%s", num(l.A.X), num(l.A.Y), num(l.B.X), num(l.B.Y))
	}
	fmt.Fprintf(buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="1" opacity="%s"%s/>`+"\n",
		d.String(), attr.Fill.Hex(), num(opacity), transformAttr(attr))
}

func (r *svgRenderer) emitStrokePasses(buf *bytes.Buffer, attr scene.Attr, passes []sketch.Pass) {
	for _, pass := range passes {
		opacity := attr.Opacity * attr.Stroke.Alpha() * pass.Opacity
		fmt.Fprintf(buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="%s" opacity="%s" stroke-linecap="round" stroke-linejoin="round"%s%s/>`+"\n",
			passData(pass.Paths), attr.Stroke.Hex(), num(attr.StrokeWidth), num(opacity),
			dashAttr(attr), transformAttr(attr))
	}
}

func (r *svgRenderer) emitEllipse(buf *bytes.Buffer, v scene.Ellipse) {
	attr := v.Attr
	if attr.HasFill() {
		opacity := attr.Opacity * attr.Fill.Alpha()
		if attr.FillStyle == model.FillSolid {
			fmt.Fprintf(buf, `  <ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" stroke="none" opacity="%s"%s/>`+"\n",
				num(v.Center.X), num(v.Center.Y), num(v.RX), num(v.RY),
				attr.Fill.Hex(), num(opacity), transformAttr(attr))
		} else {
			outline := sketch.EllipseOutline(v.Center, v.RX, v.RY, 0)
			r.emitFill(buf, attr, polygonPath(outline), outline)
		}
	}

	if !attr.HasStroke() {
		return
	}
	passes := sketch.RoughEllipse(v.Center, v.RX, v.RY, r.roughness(attr), attr.Seed)
	if passes == nil {
		opacity := attr.Opacity * attr.Stroke.Alpha()
		fmt.Fprintf(buf, `  <ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="none" stroke="%s" stroke-width="%s" opacity="%s" stroke-linecap="round"%s%s/>`+"\n",
			num(v.Center.X), num(v.Center.Y), num(v.RX), num(v.RY),
			attr.Stroke.Hex(), num(attr.StrokeWidth), num(opacity), dashAttr(attr), transformAttr(attr))
		return
	}
	r.emitStrokePasses(buf, attr, passes)
}

func (r *svgRenderer) emitText(buf *bytes.Buffer, v scene.Text) {
	attr := v.Attr
	fontSize := v.FontSize
	if fontSize <= 0 {
		fontSize = defaultSVGFontSize
	}
	lineHeight := v.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.25
	}
	lineStep := lineHeight * fontSize
	baseline := fontSize * 0.75

	fmt.Fprintf(buf, `  <text font-size="%s" font-family="%s" fill="%s" opacity="%s" text-anchor="%s" dominant-baseline="alphabetic"%s>`,
		num(fontSize), fonts.Family(v.FontFamily), attr.Stroke.Hex(),
		num(attr.Opacity*attr.Stroke.Alpha()), v.Anchor, transformAttr(attr))
	for i, line := range strings.Split(v.Content, "\n") {
		y := v.Pos.Y + float64(i)*lineStep + baseline
		fmt.Fprintf(buf, `<tspan x="%s" y="%s" style="white-space: pre;">%s</tspan>`,
			num(v.Pos.X), num(y), escapeXML(line))
	}
	buf.WriteString("</text>\n")
}

func polygonPath(pts []geom.Point) scene.Path {
	if len(pts) == 0 {
		return scene.Path{}
	}
	p := scene.Path{Start: pts[0], Closed: true}
	for _, pt := range pts[1:] {
		p.Segments = append(p.Segments, scene.Segment{Op: scene.SegLine, P1: pt})
	}
	return p
}

// num formats a coordinate with two decimals and no trailing zeros.
func num(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func pathData(p scene.Path) string {
	var d strings.Builder
	fmt.Fprintf(&d, "M%s,%s", num(p.Start.X), num(p.Start.Y))
	for _, seg := range p.Segments {
		switch seg.Op {
		case scene.SegLine:
			fmt.Fprintf(&d, " L%s,%s", num(seg.P1.X), num(seg.P1.Y))
		case scene.SegQuad:
			fmt.Fprintf(&d, " Q%s,%s %s,%s", num(seg.P1.X), num(seg.P1.Y), num(seg.P2.X), num(seg.P2.Y))
		case scene.SegCubic:
			fmt.Fprintf(&d, " C%s,%s %s,%s %s,%s",
				num(seg.P1.X), num(seg.P1.Y), num(seg.P2.X), num(seg.P2.Y), num(seg.P3.X), num(seg.P3.Y))
		}
	}
	if p.Closed {
		d.WriteString(" Z")
	}
	return d.String()
}

func passData(paths []scene.Path) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = pathData(p)
	}
	return strings.Join(parts, " ")
}

func transformAttr(attr scene.Attr) string {
	if attr.Angle == 0 {
		return ""
	}
	deg := attr.Angle * 180 / math.Pi
	return fmt.Sprintf(` transform="rotate(%s %s %s)"`, num(deg), num(attr.Pivot.X), num(attr.Pivot.Y))
}

func dashAttr(attr scene.Attr) string {
	switch attr.StrokeStyle {
	case model.StrokeDashed:
		return fmt.Sprintf(` stroke-dasharray="%s,%s"`, num(8), num(8+attr.StrokeWidth))
	case model.StrokeDotted:
		return fmt.Sprintf(` stroke-dasharray="%s,%s"`, num(1.5), num(6+attr.StrokeWidth))
	}
	return ""
}

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)
