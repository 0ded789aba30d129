package geom

// Cohen-Sutherland region codes.
const (
	clipInside = 0
	clipLeft   = 1
	clipRight  = 2
	clipBottom = 4
	clipTop    = 8
)

func outCode(p Point, min, max Point) int {
	code := clipInside
	if p.X < min.X {
		code |= clipLeft
	} else if p.X > max.X {
		code |= clipRight
	}
	if p.Y < min.Y {
		code |= clipBottom
	} else if p.Y > max.Y {
		code |= clipTop
	}
	return code
}

// ClipToRect clips the segment a-b to the axis-aligned rectangle [min,max]
// using the Cohen-Sutherland algorithm. The third return value reports
// whether any part of the segment lies inside the rectangle.
func ClipToRect(a, b, min, max Point) (Point, Point, bool) {
	codeA := outCode(a, min, max)
	codeB := outCode(b, min, max)

	for {
		if codeA|codeB == 0 {
			return a, b, true
		}
		if codeA&codeB != 0 {
			return a, b, false
		}

		// Pick an endpoint outside the rectangle and move it to the boundary.
		code := codeA
		if code == 0 {
			code = codeB
		}

		var p Point
		switch {
		case code&clipTop != 0:
			p.X = a.X + (b.X-a.X)*(max.Y-a.Y)/(b.Y-a.Y)
			p.Y = max.Y
		case code&clipBottom != 0:
			p.X = a.X + (b.X-a.X)*(min.Y-a.Y)/(b.Y-a.Y)
			p.Y = min.Y
		case code&clipRight != 0:
			p.Y = a.Y + (b.Y-a.Y)*(max.X-a.X)/(b.X-a.X)
			p.X = max.X
		case code&clipLeft != 0:
			p.Y = a.Y + (b.Y-a.Y)*(min.X-a.X)/(b.X-a.X)
			p.X = min.X
		}

		if code == codeA {
			a = p
			codeA = outCode(a, min, max)
		} else {
			b = p
			codeB = outCode(b, min, max)
		}
	}
}

// SegmentIntersection returns the intersection point of segments a1-a2 and
// b1-b2, if any. Parallel or non-crossing segments report false.
func SegmentIntersection(a1, a2, b1, b2 Point) (Point, bool) {
	d1 := a2.Sub(a1)
	d2 := b2.Sub(b1)
	denom := d1.X*d2.Y - d1.Y*d2.X
	if denom == 0 {
		return Point{}, false
	}
	diff := b1.Sub(a1)
	t := (diff.X*d2.Y - diff.Y*d2.X) / denom
	u := (diff.X*d1.Y - diff.Y*d1.X) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return a1.Add(d1.Scale(t)), true
}
