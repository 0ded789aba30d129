package sketch

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/scene"
)

func TestRNG(t *testing.T) {
	t.Run("deterministic stream", func(t *testing.T) {
		a := NewRNG(42)
		b := NewRNG(42)
		for i := 0; i < 100; i++ {
			if a.Uint64() != b.Uint64() {
				t.Fatalf("streams diverged at step %d", i)
			}
		}
	})

	t.Run("different seeds differ", func(t *testing.T) {
		if NewRNG(1).Uint64() == NewRNG(2).Uint64() {
			t.Error("seeds 1 and 2 produced the same first value")
		}
	})

	t.Run("float64 in unit interval", func(t *testing.T) {
		r := NewRNG(7)
		for i := 0; i < 1000; i++ {
			v := r.Float64()
			if v < 0 || v >= 1 {
				t.Fatalf("Float64() = %v out of [0,1)", v)
			}
		}
	})

	t.Run("range respects bounds", func(t *testing.T) {
		r := NewRNG(7)
		for i := 0; i < 1000; i++ {
			v := r.Range(-3, 5)
			if v < -3 || v >= 5 {
				t.Fatalf("Range(-3,5) = %v", v)
			}
		}
	})

	t.Run("zero seed does not stall", func(t *testing.T) {
		// The mix constant XORed with itself would zero the state.
		r := NewRNG(0x9E3779B97F4A7C15)
		if r.Uint64() == r.Uint64() {
			t.Error("generator not advancing")
		}
	})
}

func square(size float64) []geom.Point {
	return []geom.Point{
		geom.Pt(0, 0), geom.Pt(size, 0), geom.Pt(size, size), geom.Pt(0, size),
	}
}

func TestRoughPolygon(t *testing.T) {
	t.Run("zero roughness is the exact polygon", func(t *testing.T) {
		passes := RoughPolygon(square(10), 0, 1)
		if len(passes) != 1 {
			t.Fatalf("got %d passes, want 1", len(passes))
		}
		path := passes[0].Paths[0]
		if !path.Closed || len(path.Segments) != 3 {
			t.Errorf("exact polygon path: closed=%v segments=%d", path.Closed, len(path.Segments))
		}
		if path.Start != geom.Pt(0, 0) {
			t.Errorf("start = %v", path.Start)
		}
	})

	t.Run("pass count follows roughness", func(t *testing.T) {
		if n := len(RoughPolygon(square(10), 1, 1)); n != 2 {
			t.Errorf("roughness 1: %d passes, want 2", n)
		}
		if n := len(RoughPolygon(square(10), 2, 1)); n != 3 {
			t.Errorf("roughness 2: %d passes, want 3", n)
		}
	})

	t.Run("opacity ladder", func(t *testing.T) {
		passes := RoughPolygon(square(10), 2, 1)
		want := []float64{1.0, 0.85, 0.7}
		for i, p := range passes {
			if p.Opacity != want[i] {
				t.Errorf("pass %d opacity = %v, want %v", i, p.Opacity, want[i])
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := RoughPolygon(square(10), 1.5, 99)
		b := RoughPolygon(square(10), 1.5, 99)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("same seed produced different output:\n%s", diff)
		}
		c := RoughPolygon(square(10), 1.5, 100)
		if diff := cmp.Diff(a, c); diff == "" {
			t.Error("different seeds produced identical output")
		}
	})

	t.Run("jitter bounded by amplitude", func(t *testing.T) {
		roughness := 1.0
		passes := RoughPolygon(square(100), roughness, 5)
		// Perpendicular amplitude 1.2*roughness plus a 0.3 tangential share.
		limit := 1.2 * roughness * 1.4
		orig := square(100)
		path := passes[0].Paths[0]
		got := append([]geom.Point{path.Start}, pointsOf(path)...)
		for i, p := range got[:len(orig)] {
			if geom.Distance(p, orig[i]) > limit {
				t.Errorf("vertex %d displaced %v, limit %v", i, geom.Distance(p, orig[i]), limit)
			}
		}
	})
}

func pointsOf(p scene.Path) []geom.Point {
	var pts []geom.Point
	for _, s := range p.Segments {
		switch s.Op {
		case scene.SegLine:
			pts = append(pts, s.P1)
		case scene.SegQuad:
			pts = append(pts, s.P2)
		case scene.SegCubic:
			pts = append(pts, s.P3)
		}
	}
	return pts
}

func TestRoughOutline(t *testing.T) {
	t.Run("zero roughness yields nil", func(t *testing.T) {
		if RoughOutline(square(10), 0, 1) != nil {
			t.Error("expected nil for exact mode")
		}
	})

	t.Run("two passes of cubic segments", func(t *testing.T) {
		passes := RoughOutline(square(10), 1, 1)
		if len(passes) != 2 {
			t.Fatalf("got %d passes, want 2", len(passes))
		}
		// One wobbly cubic per edge.
		if len(passes[0].Paths) != 4 {
			t.Errorf("underlay has %d paths, want 4", len(passes[0].Paths))
		}
		for _, p := range passes[0].Paths {
			if len(p.Segments) != 1 || p.Segments[0].Op != scene.SegCubic {
				t.Errorf("edge path = %+v, want single cubic", p)
			}
		}
		if passes[1].Opacity != 0.85 {
			t.Errorf("overlay opacity = %v", passes[1].Opacity)
		}
	})

	t.Run("low roughness preserves vertices", func(t *testing.T) {
		passes := RoughOutline(square(100), 1, 3)
		pts := square(100)
		for i, p := range passes[0].Paths {
			if p.Start != pts[i] {
				t.Errorf("edge %d starts at %v, want exact vertex %v", i, p.Start, pts[i])
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := RoughOutline(square(50), 1.2, 7)
		b := RoughOutline(square(50), 1.2, 7)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("nondeterministic output:\n%s", diff)
		}
	})
}

func TestRoughPolyline(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(50, 10), geom.Pt(100, 0)}

	t.Run("first pass is exact", func(t *testing.T) {
		passes := RoughPolyline(pts, true, 1, 1, 3)
		if len(passes) != 2 {
			t.Fatalf("got %d passes, want 2", len(passes))
		}
		exact := passes[0].Paths[0]
		if exact.Start != pts[0] {
			t.Errorf("exact pass starts at %v", exact.Start)
		}
		// Smooth mode: Catmull-Rom cubics through the points.
		for _, s := range exact.Segments {
			if s.Op != scene.SegCubic {
				t.Errorf("smooth segment op = %v, want cubic", s.Op)
			}
		}
		end := exact.Segments[len(exact.Segments)-1].P3
		if end != pts[len(pts)-1] {
			t.Errorf("spline ends at %v, want %v", end, pts[len(pts)-1])
		}
	})

	t.Run("elbowed mode uses straight segments", func(t *testing.T) {
		passes := RoughPolyline(pts, false, 1, 0, 3)
		if len(passes) != 1 {
			t.Fatalf("roughness 0: got %d passes, want 1", len(passes))
		}
		for _, s := range passes[0].Paths[0].Segments {
			if s.Op != scene.SegLine {
				t.Errorf("elbowed segment op = %v, want line", s.Op)
			}
		}
	})

	t.Run("third pass above roughness 1", func(t *testing.T) {
		if n := len(RoughPolyline(pts, true, 2, 1.5, 3)); n != 3 {
			t.Errorf("got %d passes, want 3", n)
		}
	})

	t.Run("two points stay a line", func(t *testing.T) {
		two := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 10)}
		passes := RoughPolyline(two, true, 1, 0, 3)
		if got := passes[0].Paths[0].Segments[0].Op; got != scene.SegLine {
			t.Errorf("two-point smooth path op = %v, want line", got)
		}
	})

	t.Run("single point yields nothing", func(t *testing.T) {
		if RoughPolyline([]geom.Point{geom.Pt(0, 0)}, true, 1, 1, 3) != nil {
			t.Error("expected nil for single point")
		}
	})
}

func TestRoughEllipse(t *testing.T) {
	center := geom.Pt(50, 50)

	t.Run("zero roughness yields nil", func(t *testing.T) {
		if RoughEllipse(center, 30, 20, 0, 1) != nil {
			t.Error("expected nil for exact mode")
		}
	})

	t.Run("pass structure", func(t *testing.T) {
		if n := len(RoughEllipse(center, 30, 20, 1, 1)); n != 2 {
			t.Errorf("roughness 1: %d passes, want 2", n)
		}
		if n := len(RoughEllipse(center, 30, 20, 2, 1)); n != 3 {
			t.Errorf("roughness 2: %d passes, want 3", n)
		}
	})

	t.Run("points stay near the ellipse", func(t *testing.T) {
		rx, ry := 30.0, 20.0
		passes := RoughEllipse(center, rx, ry, 1, 42)
		path := passes[0].Paths[0]
		check := func(p geom.Point) {
			// Normalized radial distance is ~1 up to jitter and the 0.9
			// closure points.
			nx := (p.X - center.X) / rx
			ny := (p.Y - center.Y) / ry
			r := math.Hypot(nx, ny)
			if r < 0.6 || r > 1.4 {
				t.Errorf("point %v at normalized radius %v", p, r)
			}
		}
		check(path.Start)
		for _, p := range pointsOf(path) {
			check(p)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := RoughEllipse(center, 30, 20, 1.5, 9)
		b := RoughEllipse(center, 30, 20, 1.5, 9)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("nondeterministic output:\n%s", diff)
		}
	})
}

func TestHatchLines(t *testing.T) {
	t.Run("lines clipped to rectangle", func(t *testing.T) {
		poly := square(100)
		lines := HatchLines(poly, HatchAngle, HatchGap)
		if len(lines) == 0 {
			t.Fatal("no hatch lines produced")
		}
		for _, l := range lines {
			for _, p := range []geom.Point{l.A, l.B} {
				if p.X < -1e-6 || p.X > 100+1e-6 || p.Y < -1e-6 || p.Y > 100+1e-6 {
					t.Fatalf("hatch endpoint %v outside rect", p)
				}
			}
		}
	})

	t.Run("spacing matches gap", func(t *testing.T) {
		poly := square(100)
		lines := HatchLines(poly, HatchAngle, HatchGap)
		// A 100x100 square at gap 4 along the diagonal needs on the order of
		// sqrt(2)*100/4 lines.
		if len(lines) < 25 || len(lines) > 80 {
			t.Errorf("got %d hatch lines", len(lines))
		}
	})

	t.Run("diamond interior", func(t *testing.T) {
		diamond := []geom.Point{
			geom.Pt(50, 0), geom.Pt(100, 50), geom.Pt(50, 100), geom.Pt(0, 50),
		}
		lines := HatchLines(diamond, HatchAngle, HatchGap)
		if len(lines) == 0 {
			t.Fatal("no hatch lines for diamond")
		}
		for _, l := range lines {
			mid := geom.Lerp(l.A, l.B, 0.5)
			// Inside the diamond: |x-50| + |y-50| <= 50.
			if math.Abs(mid.X-50)+math.Abs(mid.Y-50) > 50+1e-6 {
				t.Fatalf("hatch midpoint %v outside diamond", mid)
			}
		}
	})

	t.Run("cross hatch doubles coverage", func(t *testing.T) {
		poly := square(50)
		single := HatchLines(poly, HatchAngle, HatchGap)
		cross := CrossHatchLines(poly, HatchAngle, HatchGap)
		if len(cross) <= len(single) {
			t.Errorf("cross-hatch %d lines, single %d", len(cross), len(single))
		}
	})

	t.Run("degenerate polygon", func(t *testing.T) {
		if HatchLines([]geom.Point{geom.Pt(0, 0), geom.Pt(1, 1)}, HatchAngle, HatchGap) != nil {
			t.Error("expected nil for 2-point polygon")
		}
	})
}

func TestEllipseOutline(t *testing.T) {
	pts := EllipseOutline(geom.Pt(0, 0), 10, 5, 36)
	if len(pts) != 36 {
		t.Fatalf("got %d points", len(pts))
	}
	for _, p := range pts {
		r := math.Hypot(p.X/10, p.Y/5)
		if math.Abs(r-1) > 1e-9 {
			t.Errorf("outline point %v off the ellipse", p)
		}
	}
}

func TestOutlinePoints(t *testing.T) {
	attr := scene.Attr{}
	path := scene.RoundedRectPath(0, 0, 100, 50, 10, attr)
	pts := OutlinePoints(path, 8)
	// 4 line endpoints + 4 corners at 8 samples each + the start point.
	if len(pts) != 1+4+4*8 {
		t.Errorf("got %d outline points", len(pts))
	}
	for _, p := range pts {
		if p.X < -1e-6 || p.X > 100+1e-6 || p.Y < -1e-6 || p.Y > 50+1e-6 {
			t.Errorf("outline point %v outside the rectangle", p)
		}
	}
}
