package scene

import (
	"math"

	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/model"
)

func arrowheadSize(kind model.Arrowhead) float64 {
	switch kind {
	case model.ArrowheadArrow:
		return 25
	case model.ArrowheadDiamond, model.ArrowheadDiamondOutline:
		return 12
	case model.ArrowheadCrowfootOne, model.ArrowheadCrowfootMany, model.ArrowheadCrowfootOneOrMany:
		return 20
	default:
		return 15
	}
}

func arrowheadAngle(kind model.Arrowhead) float64 {
	switch kind {
	case model.ArrowheadBar:
		return 90 * math.Pi / 180
	case model.ArrowheadArrow:
		return 20 * math.Pi / 180
	default:
		return 25 * math.Pi / 180
	}
}

// arrowheadPrimitives builds the decoration at a line endpoint. The wedge is
// oriented along the tangent from tail to tip and scales with stroke width,
// shrinking on short end segments so it never swallows the line.
func arrowheadPrimitives(tail, tip geom.Point, kind model.Arrowhead, lineAttr Attr) []Primitive {
	dx := tip.X - tail.X
	dy := tip.Y - tail.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return nil
	}
	nx := dx / dist
	ny := dy / dist

	sizeMultiplier := 1 + (lineAttr.StrokeWidth-1)*0.3
	lengthMult := 0.5
	if kind == model.ArrowheadDiamond || kind == model.ArrowheadDiamondOutline {
		lengthMult = 0.25
	}
	size := math.Min(arrowheadSize(kind)*sizeMultiplier, dist*lengthMult)

	// Base of the head on the shaft.
	base := geom.Pt(tip.X-nx*size, tip.Y-ny*size)

	// Heads are drawn filled with the line's stroke color. Outline variants
	// fill with the element's background color so the head reads hollow.
	attr := lineAttr
	attr.Fill = lineAttr.Stroke
	if kind.IsOutline() {
		attr.Fill = lineAttr.Fill
	}
	attr.FillStyle = model.FillSolid
	attr.StrokeStyle = model.StrokeSolid

	angle := arrowheadAngle(kind)
	cosA := math.Cos(angle)
	sinA := math.Sin(angle)

	// Side points: the backward direction rotated by +/- the head angle,
	// anchored at the tip. Symmetric about the shaft, so the wedge bisector
	// follows the end segment's tangent.
	side1 := geom.Pt(tip.X+(-nx*cosA-ny*sinA)*size, tip.Y+(-ny*cosA+nx*sinA)*size)
	side2 := geom.Pt(tip.X+(-nx*cosA+ny*sinA)*size, tip.Y+(-ny*cosA-nx*sinA)*size)

	switch kind {
	case model.ArrowheadDot, model.ArrowheadCircle, model.ArrowheadCircleOutline:
		radius := (geom.Distance(base, tip) + lineAttr.StrokeWidth - 2) / 2
		return []Primitive{Ellipse{Attr: attr, Center: tip, RX: radius, RY: radius}}

	case model.ArrowheadBar:
		// Perpendicular bar through the base point.
		p1 := geom.Pt(base.X-ny*size, base.Y+nx*size)
		p2 := geom.Pt(base.X+ny*size, base.Y-nx*size)
		return []Primitive{Polyline{Attr: attr, Points: []geom.Point{p1, p2}}}

	case model.ArrowheadArrow:
		// Open V: two strokes meeting at the tip.
		return []Primitive{
			Polyline{Attr: attr, Points: []geom.Point{side1, tip}},
			Polyline{Attr: attr, Points: []geom.Point{side2, tip}},
		}

	case model.ArrowheadTriangle, model.ArrowheadTriangleOutline:
		return []Primitive{Polygon{Attr: attr, Points: []geom.Point{tip, side1, side2}}}

	case model.ArrowheadDiamond, model.ArrowheadDiamondOutline:
		opposite := geom.Pt(tip.X-nx*size*cosA*2, tip.Y-ny*size*cosA*2)
		return []Primitive{Polygon{Attr: attr, Points: []geom.Point{tip, side1, opposite, side2}}}

	case model.ArrowheadCrowfootOne, model.ArrowheadCrowfootMany, model.ArrowheadCrowfootOneOrMany:
		return crowfootPrimitives(base, tip, kind, angle, attr)
	}
	return nil
}

// crowfootPrimitives builds entity-relationship cardinality markers. The fork
// prongs run from the tip rotated about the base back to the base point, so
// the marker opens toward the connected shape. The "one" bar is the chord
// between the two rotated points.
func crowfootPrimitives(base, tip geom.Point, kind model.Arrowhead, angle float64, attr Attr) []Primitive {
	p1 := geom.RotateAbout(tip, base, -angle)
	p2 := geom.RotateAbout(tip, base, angle)

	var prims []Primitive
	if kind == model.ArrowheadCrowfootMany || kind == model.ArrowheadCrowfootOneOrMany {
		prims = append(prims,
			Polyline{Attr: attr, Points: []geom.Point{p1, base}},
			Polyline{Attr: attr, Points: []geom.Point{p2, base}},
		)
	}
	if kind == model.ArrowheadCrowfootOne || kind == model.ArrowheadCrowfootOneOrMany {
		prims = append(prims, Polyline{Attr: attr, Points: []geom.Point{p1, p2}})
	}
	return prims
}
