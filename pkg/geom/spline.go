package geom

// Cubic is one cubic Bézier segment.
type Cubic struct {
	P0 Point // start point
	C1 Point // first control point
	C2 Point // second control point
	P1 Point // end point
}

// At evaluates the segment at parameter t in [0,1].
func (c Cubic) At(t float64) Point {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Point{
		X: b0*c.P0.X + b1*c.C1.X + b2*c.C2.X + b3*c.P1.X,
		Y: b0*c.P0.Y + b1*c.C1.Y + b2*c.C2.Y + b3*c.P1.Y,
	}
}

// CatmullRomCubics converts a point sequence into cubic Bézier segments using
// a Catmull-Rom spline with the given tension. Endpoints are duplicated so the
// curve passes through the first and last points. Fewer than three points
// yield a single straight segment (or nothing).
func CatmullRomCubics(pts []Point, tension float64) []Cubic {
	switch len(pts) {
	case 0, 1:
		return nil
	case 2:
		return []Cubic{lineCubic(pts[0], pts[1])}
	}

	segs := make([]Cubic, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[maxInt(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[minInt(i+2, len(pts)-1)]

		// Tangents scaled by tension, then divided by 3 for Bézier controls.
		c1 := Point{
			X: p1.X + (p2.X-p0.X)*tension/3,
			Y: p1.Y + (p2.Y-p0.Y)*tension/3,
		}
		c2 := Point{
			X: p2.X - (p3.X-p1.X)*tension/3,
			Y: p2.Y - (p3.Y-p1.Y)*tension/3,
		}
		segs = append(segs, Cubic{P0: p1, C1: c1, C2: c2, P1: p2})
	}
	return segs
}

// lineCubic expresses the straight segment from a to b as a degenerate cubic.
func lineCubic(a, b Point) Cubic {
	return Cubic{
		P0: a,
		C1: Lerp(a, b, 1.0/3.0),
		C2: Lerp(a, b, 2.0/3.0),
		P1: b,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
