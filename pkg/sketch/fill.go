package sketch

import (
	"math"
	"sort"

	"github.com/roughcast/roughcast/pkg/geom"
)

// Hatch fill constants.
const (
	HatchGap   = 4.0
	HatchAngle = -45.0 * math.Pi / 180
)

// Line is one hatch stroke.
type Line struct {
	A, B geom.Point
}

// HatchLines fills a closed polygon with parallel lines at the given angle,
// spaced by gap and clipped to the polygon interior. The element's own
// rotation should be added to the angle so the pattern rotates with the
// shape. No randomness is involved; hatch output is fully deterministic.
func HatchLines(poly []geom.Point, angle, gap float64) []Line {
	if len(poly) < 3 || gap <= 0 {
		return nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	width := maxX - minX
	height := maxY - minY
	if width <= 0 || height <= 0 {
		return nil
	}

	cx := minX + width/2
	cy := minY + height/2
	diagonal := math.Hypot(width, height)
	numLines := int(math.Ceil(diagonal / gap))

	cosA := math.Cos(angle)
	sinA := math.Sin(angle)
	rect := isAxisAlignedRect(poly, minX, minY, maxX, maxY)

	var lines []Line
	for i := -numLines; i <= numLines; i++ {
		offset := float64(i) * gap
		perpX := -sinA * offset
		perpY := cosA * offset
		a := geom.Pt(cx+perpX-cosA*diagonal, cy+perpY-sinA*diagonal)
		b := geom.Pt(cx+perpX+cosA*diagonal, cy+perpY+sinA*diagonal)

		if rect {
			ca, cb, ok := geom.ClipToRect(a, b, geom.Pt(minX, minY), geom.Pt(maxX, maxY))
			if ok && geom.Distance(ca, cb) > 1e-9 {
				lines = append(lines, Line{A: ca, B: cb})
			}
			continue
		}
		lines = append(lines, clipToPolygon(a, b, poly)...)
	}
	return lines
}

// CrossHatchLines layers a perpendicular set of hatch lines over HatchLines.
func CrossHatchLines(poly []geom.Point, angle, gap float64) []Line {
	lines := HatchLines(poly, angle, gap)
	return append(lines, HatchLines(poly, angle+math.Pi/2, gap)...)
}

// EllipseOutline samples an ellipse into a polygon for hatch clipping.
func EllipseOutline(center geom.Point, rx, ry float64, steps int) []geom.Point {
	if steps < 8 {
		steps = 36
	}
	pts := make([]geom.Point, 0, steps)
	for i := 0; i < steps; i++ {
		a := float64(i) / float64(steps) * 2 * math.Pi
		pts = append(pts, geom.Pt(center.X+rx*math.Cos(a), center.Y+ry*math.Sin(a)))
	}
	return pts
}

// isAxisAlignedRect reports whether poly is exactly its own bounding box.
func isAxisAlignedRect(poly []geom.Point, minX, minY, maxX, maxY float64) bool {
	if len(poly) != 4 {
		return false
	}
	for _, p := range poly {
		onX := p.X == minX || p.X == maxX
		onY := p.Y == minY || p.Y == maxY
		if !onX || !onY {
			return false
		}
	}
	return true
}

// clipToPolygon returns the portions of segment a-b inside the polygon,
// using even-odd pairing of edge crossings sorted along the segment.
func clipToPolygon(a, b geom.Point, poly []geom.Point) []Line {
	dir := b.Sub(a)
	var ts []float64
	for i := range poly {
		p1 := poly[i]
		p2 := poly[(i+1)%len(poly)]
		hit, ok := geom.SegmentIntersection(a, b, p1, p2)
		if !ok {
			continue
		}
		var t float64
		if math.Abs(dir.X) >= math.Abs(dir.Y) {
			t = (hit.X - a.X) / dir.X
		} else {
			t = (hit.Y - a.Y) / dir.Y
		}
		ts = append(ts, t)
	}
	if len(ts) < 2 {
		return nil
	}
	sort.Float64s(ts)

	var lines []Line
	for i := 0; i+1 < len(ts); i += 2 {
		p := a.Add(dir.Scale(ts[i]))
		q := a.Add(dir.Scale(ts[i+1]))
		if geom.Distance(p, q) > 1e-9 {
			lines = append(lines, Line{A: p, B: q})
		}
	}
	return lines
}
