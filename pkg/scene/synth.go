package scene

import (
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/model"
)

// Corner-rounding constants.
const (
	proportionalRadius = 0.25
	adaptiveRadius     = 32.0
)

// Synthesizer converts elements into primitives.
type Synthesizer struct {
	logger *log.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the logger used for skipped-element reporting.
func WithLogger(l *log.Logger) Option {
	return func(s *Synthesizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSynthesizer creates a Synthesizer. Logging is discarded unless a logger
// is supplied.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document synthesizes every visible element in z-order. The second return
// value counts elements that were skipped because their kind is unsupported.
func (s *Synthesizer) Document(doc *model.Document, seedBase uint64) ([]Primitive, int) {
	var prims []Primitive
	skipped := 0
	for i := range doc.Elements {
		e := &doc.Elements[i]
		if e.IsDeleted {
			continue
		}
		p, ok := s.Element(e, seedBase)
		if !ok {
			s.logger.Warn("skipping unsupported element", "id", e.ID, "kind", e.Kind)
			skipped++
			continue
		}
		prims = append(prims, p...)
	}
	return prims, skipped
}

// Element synthesizes one element. The second return value is false when the
// element kind is not supported.
func (s *Synthesizer) Element(e *model.Element, seedBase uint64) ([]Primitive, bool) {
	attr := baseAttr(e, seedBase)
	switch e.Kind {
	case model.KindRectangle:
		return []Primitive{synthRectangle(e, attr)}, true
	case model.KindDiamond:
		return []Primitive{synthDiamond(e, attr)}, true
	case model.KindEllipse:
		return []Primitive{Ellipse{
			Attr:   attr,
			Center: e.Center(),
			RX:     e.Width / 2,
			RY:     e.Height / 2,
		}}, true
	case model.KindLine, model.KindArrow:
		return synthLinear(e, attr), true
	case model.KindText:
		return []Primitive{synthText(e, attr)}, true
	default:
		return nil, false
	}
}

// ElementSeed derives the deterministic jitter seed for an element. Elements
// carrying their own seed keep it; otherwise the seed comes from the element
// ID, so renders stay reproducible without a stored seed. The render-time
// seed base is mixed in either way.
func ElementSeed(e *model.Element, seedBase uint64) uint64 {
	s := uint64(e.Seed)
	if e.Seed == 0 {
		s = xxhash.Sum64String(e.ID)
	}
	return s ^ seedBase
}

func baseAttr(e *model.Element, seedBase uint64) Attr {
	return Attr{
		Stroke:      model.ParseColor(e.StrokeColor),
		Fill:        model.ParseColor(e.BackgroundColor),
		FillStyle:   e.FillStyle,
		StrokeWidth: e.StrokeWidth,
		StrokeStyle: e.StrokeStyle,
		Opacity:     e.Opacity / 100,
		Roughness:   e.Roughness,
		Seed:        ElementSeed(e, seedBase),
		Angle:       e.Angle,
		Pivot:       e.Center(),
	}
}

// CornerRadius returns the corner radius for a box-like element, clamped so
// opposite corners never overlap.
func CornerRadius(e *model.Element) float64 {
	if e.Roundness == nil {
		return 0
	}
	dim := minFloat(e.Width, e.Height)
	var r float64
	switch e.Roundness.Type {
	case model.RoundnessProportional, 1:
		r = dim * proportionalRadius
	case model.RoundnessAdaptive:
		fixed := adaptiveRadius
		if e.Roundness.Value != nil {
			fixed = *e.Roundness.Value
		}
		if dim <= fixed/proportionalRadius {
			r = dim * proportionalRadius
		} else {
			r = fixed
		}
	default:
		return 0
	}
	return minFloat(r, minFloat(e.Width/2, e.Height/2))
}

func synthRectangle(e *model.Element, attr Attr) Primitive {
	r := CornerRadius(e)
	if r <= 0 {
		return Polygon{
			Attr: attr,
			Points: []geom.Point{
				{X: e.X, Y: e.Y},
				{X: e.X + e.Width, Y: e.Y},
				{X: e.X + e.Width, Y: e.Y + e.Height},
				{X: e.X, Y: e.Y + e.Height},
			},
		}
	}
	return RoundedRectPath(e.X, e.Y, e.Width, e.Height, r, attr)
}

// RoundedRectPath builds the closed rounded-rectangle path: four straight
// edges joined by quadratic corner curves.
func RoundedRectPath(x, y, w, h, r float64, attr Attr) Path {
	return Path{
		Attr:  attr,
		Start: geom.Pt(x+r, y),
		Segments: []Segment{
			{Op: SegLine, P1: geom.Pt(x+w-r, y)},
			{Op: SegQuad, P1: geom.Pt(x+w, y), P2: geom.Pt(x+w, y+r)},
			{Op: SegLine, P1: geom.Pt(x+w, y+h-r)},
			{Op: SegQuad, P1: geom.Pt(x+w, y+h), P2: geom.Pt(x+w-r, y+h)},
			{Op: SegLine, P1: geom.Pt(x+r, y+h)},
			{Op: SegQuad, P1: geom.Pt(x, y+h), P2: geom.Pt(x, y+h-r)},
			{Op: SegLine, P1: geom.Pt(x, y+r)},
			{Op: SegQuad, P1: geom.Pt(x, y), P2: geom.Pt(x+r, y)},
		},
		Closed: true,
	}
}

func synthDiamond(e *model.Element, attr Attr) Primitive {
	return Polygon{
		Attr: attr,
		Points: []geom.Point{
			{X: e.X + e.Width/2, Y: e.Y},
			{X: e.X + e.Width, Y: e.Y + e.Height/2},
			{X: e.X + e.Width/2, Y: e.Y + e.Height},
			{X: e.X, Y: e.Y + e.Height/2},
		},
	}
}

func synthLinear(e *model.Element, attr Attr) []Primitive {
	pts := e.AbsolutePoints()
	if len(pts) < 2 {
		return nil
	}
	prims := []Primitive{Polyline{
		Attr:   attr,
		Points: pts,
		Smooth: !e.Elbowed,
	}}

	if e.EndArrowhead != model.ArrowheadNone {
		tail := pts[len(pts)-2]
		tip := pts[len(pts)-1]
		prims = append(prims, arrowheadPrimitives(tail, tip, e.EndArrowhead, attr)...)
	}
	if e.StartArrowhead != model.ArrowheadNone {
		tail := pts[1]
		tip := pts[0]
		prims = append(prims, arrowheadPrimitives(tail, tip, e.StartArrowhead, attr)...)
	}
	return prims
}

func synthText(e *model.Element, attr Attr) Primitive {
	anchorX := e.X
	anchor := "start"
	switch e.TextAlign {
	case "center":
		anchorX = e.X + e.Width/2
		anchor = "middle"
	case "right":
		anchorX = e.X + e.Width
		anchor = "end"
	}
	return Text{
		Attr:       attr,
		Pos:        geom.Pt(anchorX, e.Y),
		Content:    e.Text,
		FontSize:   e.FontSize,
		FontFamily: e.FontFamily,
		LineHeight: e.LineHeight,
		Anchor:     anchor,
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
