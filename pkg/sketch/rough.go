package sketch

import (
	"math"

	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/scene"
)

// Pass is one stroke layer of a sketchy rendering. Opacity is a multiplier
// applied on top of the element's own opacity; the underlay pass is 1.0 and
// overlays fade out.
type Pass struct {
	Paths   []scene.Path
	Opacity float64
}

const (
	bowing = 1.0

	// Pass opacities for the underlay / overlay / high-roughness layers.
	opacityUnderlay = 1.0
	opacityOverlay  = 0.85
	opacityTertiary = 0.7
)

// roughnessGain tapers jitter on long segments so a long line does not wander.
func roughnessGain(length float64) float64 {
	switch {
	case length < 200:
		return 1.0
	case length > 500:
		return 0.4
	default:
		return -0.0016668*length + 1.233334
	}
}

// roughSegment renders one straight segment as a wobbly cubic, following the
// rough.js line algorithm: offset endpoints, a random diverge point, and a
// bowing displacement perpendicular to the segment.
func roughSegment(a, b geom.Point, rng *RNG, roughness, maxOffset float64, preserveVertices, overlay bool) scene.Path {
	length := geom.Distance(a, b)
	gain := roughnessGain(length)

	offset := maxOffset
	if offset*offset*100 > length*length {
		offset = length / 10
	}
	halfOffset := offset / 2
	divergePoint := 0.2 + rng.Float64()*0.2

	midDispX := bowing * maxOffset * (b.Y - a.Y) / 200
	midDispY := bowing * maxOffset * (a.X - b.X) / 200
	midDispX = rng.Range(-midDispX, midDispX) * roughness * gain
	midDispY = rng.Range(-midDispY, midDispY) * roughness * gain

	o := offset
	if overlay {
		o = halfOffset
	}
	jitter := func() float64 {
		return rng.Range(-o, o) * roughness * gain
	}

	start := a
	if !preserveVertices {
		start = geom.Pt(a.X+jitter(), a.Y+jitter())
	}
	end := b
	if !preserveVertices {
		end = geom.Pt(b.X+jitter(), b.Y+jitter())
	}

	c1 := geom.Pt(
		midDispX+a.X+(b.X-a.X)*divergePoint+jitter(),
		midDispY+a.Y+(b.Y-a.Y)*divergePoint+jitter(),
	)
	c2 := geom.Pt(
		midDispX+a.X+2*(b.X-a.X)*divergePoint+jitter(),
		midDispY+a.Y+2*(b.Y-a.Y)*divergePoint+jitter(),
	)

	return scene.Path{
		Start: start,
		Segments: []scene.Segment{
			{Op: scene.SegCubic, P1: c1, P2: c2, P3: end},
		},
	}
}

// RoughOutline walks a closed point sequence and renders each edge as a
// wobbly cubic, in an underlay pass and a tighter overlay pass. Used for
// rectangle and rounded-rectangle perimeters. Zero roughness yields nil;
// the caller draws the exact outline instead.
func RoughOutline(pts []geom.Point, roughness float64, seed uint64) []Pass {
	if roughness <= 0 || len(pts) < 2 {
		return nil
	}
	maxOffset := 2 * math.Sqrt(roughness)
	preserveVertices := roughness < 1.5

	underlay := NewRNG(seed)
	var primary []scene.Path
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		primary = append(primary, roughSegment(a, b, underlay, roughness, maxOffset, preserveVertices, false))
	}
	passes := []Pass{{Paths: primary, Opacity: opacityUnderlay}}

	overlay := NewRNG(seed + 1)
	var secondary []scene.Path
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		secondary = append(secondary, roughSegment(a, b, overlay, roughness, maxOffset, false, true))
	}
	passes = append(passes, Pass{Paths: secondary, Opacity: opacityOverlay})
	return passes
}

// jitterPolyline displaces each point mostly perpendicular to the local
// tangent, with a smaller tangential component.
func jitterPolyline(pts []geom.Point, rng *RNG, amplitude float64) []geom.Point {
	if len(pts) < 2 {
		return append([]geom.Point(nil), pts...)
	}
	out := make([]geom.Point, 0, len(pts))
	for i, p := range pts {
		var dx, dy float64
		switch i {
		case 0:
			dx, dy = pts[1].X-p.X, pts[1].Y-p.Y
		case len(pts) - 1:
			dx, dy = p.X-pts[i-1].X, p.Y-pts[i-1].Y
		default:
			dx, dy = pts[i+1].X-pts[i-1].X, pts[i+1].Y-pts[i-1].Y
		}
		length := math.Max(math.Hypot(dx, dy), 1e-6)
		tx, ty := dx/length, dy/length
		px, py := -ty, tx

		perp := rng.Range(-amplitude, amplitude)
		tang := rng.Range(-amplitude*0.3, amplitude*0.3)
		out = append(out, geom.Pt(p.X+px*perp+tx*tang, p.Y+py*perp+ty*tang))
	}
	return out
}

func polylinePath(pts []geom.Point, closed bool) scene.Path {
	p := scene.Path{Start: pts[0], Closed: closed}
	for _, pt := range pts[1:] {
		p.Segments = append(p.Segments, scene.Segment{Op: scene.SegLine, P1: pt})
	}
	return p
}

func splinePath(pts []geom.Point) scene.Path {
	if len(pts) <= 2 {
		return polylinePath(pts, false)
	}
	p := scene.Path{Start: pts[0]}
	for _, c := range geom.CatmullRomCubics(pts, 0.5) {
		p.Segments = append(p.Segments, scene.Segment{
			Op: scene.SegCubic, P1: c.C1, P2: c.C2, P3: c.P1,
		})
	}
	return p
}

// RoughPolygon renders a closed polygon as jittered copies of itself:
// a full-amplitude underlay, a half-amplitude overlay, and a third light
// pass when roughness exceeds 1. Zero roughness yields a single exact pass.
func RoughPolygon(pts []geom.Point, roughness float64, seed uint64) []Pass {
	if roughness <= 0 || len(pts) < 3 {
		return []Pass{{Paths: []scene.Path{polylinePath(pts, true)}, Opacity: opacityUnderlay}}
	}
	amplitude := 1.2 * roughness

	passes := []Pass{{
		Paths:   []scene.Path{polylinePath(jitterPolyline(pts, NewRNG(seed), amplitude), true)},
		Opacity: opacityUnderlay,
	}, {
		Paths:   []scene.Path{polylinePath(jitterPolyline(pts, NewRNG(seed+1), amplitude*0.5), true)},
		Opacity: opacityOverlay,
	}}
	if roughness > 1 {
		passes = append(passes, Pass{
			Paths:   []scene.Path{polylinePath(jitterPolyline(pts, NewRNG(seed+2), amplitude*0.3), true)},
			Opacity: opacityTertiary,
		})
	}
	return passes
}

// RoughPolyline renders an open line or arrow shaft. The first pass is the
// exact path (a Catmull-Rom spline unless elbowed); jittered overlays are
// stacked on top when roughness is positive. Line jitter grows with stroke
// width, matching the heavier wobble of thick hand-drawn strokes.
func RoughPolyline(pts []geom.Point, smooth bool, strokeWidth, roughness float64, seed uint64) []Pass {
	if len(pts) < 2 {
		return nil
	}
	shape := func(p []geom.Point) scene.Path {
		if smooth {
			return splinePath(p)
		}
		return polylinePath(p, false)
	}

	passes := []Pass{{Paths: []scene.Path{shape(pts)}, Opacity: opacityUnderlay}}
	if roughness <= 0 {
		return passes
	}

	amplitude := (1.2 + 0.3*strokeWidth) * roughness
	passes = append(passes, Pass{
		Paths:   []scene.Path{shape(jitterPolyline(pts, NewRNG(seed), amplitude))},
		Opacity: opacityOverlay,
	})
	if roughness > 1 {
		passes = append(passes, Pass{
			Paths:   []scene.Path{shape(jitterPolyline(pts, NewRNG(seed+0x55555555), amplitude*0.6))},
			Opacity: opacityTertiary,
		})
	}
	return passes
}

// ellipsePoints builds the jittered point cloud for one rough ellipse pass,
// following the rough.js step-count heuristic: more steps for bigger
// perimeters, plus overlap points past the full turn so the closure blends.
func ellipsePoints(center geom.Point, rx, ry, offsetFactor float64, rng *RNG, roughness float64) []geom.Point {
	const curveStepCount = 9.0

	psq := math.Sqrt(math.Pi * 2 * math.Sqrt((rx*rx+ry*ry)/2))
	stepCount := math.Ceil(math.Max(curveStepCount, (curveStepCount/math.Sqrt(200))*psq))
	increment := (math.Pi * 2) / stepCount

	jitter := func() float64 {
		return rng.Range(-offsetFactor, offsetFactor) * roughness
	}
	at := func(angle, radiusFactor float64) geom.Point {
		return geom.Pt(
			center.X+radiusFactor*rx*math.Cos(angle)+jitter(),
			center.Y+radiusFactor*ry*math.Sin(angle)+jitter(),
		)
	}

	radOffset := rng.Range(-0.5, 0.5) - math.Pi/2
	overlap := increment * 0.5

	var pts []geom.Point
	pts = append(pts, at(radOffset-increment, 0.9))
	for angle := radOffset; angle < math.Pi*2+radOffset-0.01; angle += increment {
		pts = append(pts, at(angle, 1))
	}
	pts = append(pts,
		at(radOffset+math.Pi*2+overlap*0.5, 1),
		at(radOffset+overlap, 0.98),
		at(radOffset+overlap*0.5, 0.9),
	)
	return pts
}

// RoughEllipse renders an ellipse outline as smoothed point clouds: a main
// pass, a wider overlay, and a lighter third pass for high roughness.
// Zero roughness yields nil; the caller draws the exact ellipse instead.
func RoughEllipse(center geom.Point, rx, ry, roughness float64, seed uint64) []Pass {
	if roughness <= 0 {
		return nil
	}
	passes := []Pass{{
		Paths:   []scene.Path{splinePath(ellipsePoints(center, rx, ry, 1.0, NewRNG(seed), roughness))},
		Opacity: opacityUnderlay,
	}, {
		Paths:   []scene.Path{splinePath(ellipsePoints(center, rx, ry, 1.5, NewRNG(seed+1), roughness))},
		Opacity: opacityOverlay,
	}}
	if roughness > 1 {
		passes = append(passes, Pass{
			Paths:   []scene.Path{splinePath(ellipsePoints(center, rx, ry, 1.2, NewRNG(seed+2), roughness*0.7))},
			Opacity: opacityTertiary,
		})
	}
	return passes
}

// OutlinePoints flattens a closed path into a point sequence, sampling curve
// segments at the given step count. Used to feed rounded-rectangle perimeters
// into RoughOutline and the fill generators.
func OutlinePoints(p scene.Path, curveSteps int) []geom.Point {
	if curveSteps < 1 {
		curveSteps = 8
	}
	pts := []geom.Point{p.Start}
	cur := p.Start
	for _, seg := range p.Segments {
		switch seg.Op {
		case scene.SegLine:
			pts = append(pts, seg.P1)
			cur = seg.P1
		case scene.SegQuad:
			// Promote to a cubic for uniform sampling.
			c := geom.Cubic{
				P0: cur,
				C1: geom.Lerp(cur, seg.P1, 2.0/3.0),
				C2: geom.Lerp(seg.P2, seg.P1, 2.0/3.0),
				P1: seg.P2,
			}
			for i := 1; i <= curveSteps; i++ {
				pts = append(pts, c.At(float64(i)/float64(curveSteps)))
			}
			cur = seg.P2
		case scene.SegCubic:
			c := geom.Cubic{P0: cur, C1: seg.P1, C2: seg.P2, P1: seg.P3}
			for i := 1; i <= curveSteps; i++ {
				pts = append(pts, c.At(float64(i)/float64(curveSteps)))
			}
			cur = seg.P3
		}
	}
	return pts
}
