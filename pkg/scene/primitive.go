// Package scene turns diagram elements into backend-agnostic geometry.
//
// The synthesizer produces one or more primitives per element in document
// coordinates. Primitives carry their own drawing attributes copied from the
// source element, so backends never reach back into the element list. Both
// the SVG and raster backends consume the same primitive stream.
package scene

import (
	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/model"
)

// Attr holds the drawing attributes for one primitive.
type Attr struct {
	Stroke      model.Color
	Fill        model.Color
	FillStyle   model.FillStyle
	StrokeWidth float64
	StrokeStyle model.StrokeStyle
	Opacity     float64 // fraction in [0,1]
	Roughness   float64
	Seed        uint64

	// Rotation about Pivot, applied by the backend as a transform.
	Angle float64
	Pivot geom.Point
}

// HasStroke reports whether the primitive draws an outline.
func (a Attr) HasStroke() bool {
	return !a.Stroke.IsTransparent() && a.StrokeWidth > 0
}

// HasFill reports whether the primitive draws an interior.
func (a Attr) HasFill() bool {
	return !a.Fill.IsTransparent()
}

// Primitive is one drawable produced by the synthesizer.
type Primitive interface {
	Attributes() Attr
}

// Polyline is an open stroke through a point sequence. Smooth polylines are
// rendered as Catmull-Rom splines, elbowed ones as straight segments.
type Polyline struct {
	Attr   Attr
	Points []geom.Point
	Smooth bool
}

func (p Polyline) Attributes() Attr { return p.Attr }

// Polygon is a closed straight-edged shape.
type Polygon struct {
	Attr   Attr
	Points []geom.Point
}

func (p Polygon) Attributes() Attr { return p.Attr }

// Ellipse is an axis-aligned ellipse before rotation.
type Ellipse struct {
	Attr   Attr
	Center geom.Point
	RX     float64
	RY     float64
}

func (e Ellipse) Attributes() Attr { return e.Attr }

// SegOp identifies a path segment operation.
type SegOp int

const (
	SegLine  SegOp = iota // line to P1
	SegQuad               // quadratic curve, control P1, end P2
	SegCubic              // cubic curve, controls P1 P2, end P3
)

// Segment is one step of a Path.
type Segment struct {
	Op         SegOp
	P1, P2, P3 geom.Point
}

// Path is a general curve path, used for rounded rectangles and rough output.
type Path struct {
	Attr     Attr
	Start    geom.Point
	Segments []Segment
	Closed   bool
}

func (p Path) Attributes() Attr { return p.Attr }

// Text is a text block. Pos is the anchor of the first line's baseline
// column; the backend applies per-line baseline offsets.
type Text struct {
	Attr       Attr
	Pos        geom.Point
	Content    string
	FontSize   float64 // 0 means backend default
	FontFamily int     // document font id, 0 means the hand-drawn default
	LineHeight float64 // multiple of font size, 0 means 1.25
	Anchor     string  // "start", "middle", or "end"
}

func (t Text) Attributes() Attr { return t.Attr }
