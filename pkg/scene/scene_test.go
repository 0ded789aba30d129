package scene

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/model"
)

func ptsClose(a, b geom.Point, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

func TestComputeBounds(t *testing.T) {
	t.Run("single rectangle with padding", func(t *testing.T) {
		elements := []model.Element{
			{Kind: model.KindRectangle, X: 0, Y: 0, Width: 100, Height: 50},
		}
		b := ComputeBounds(elements)
		want := Bounds{MinX: -40, MinY: -40, MaxX: 140, MaxY: 90}
		if b != want {
			t.Errorf("ComputeBounds() = %+v, want %+v", b, want)
		}
		if b.Width() != 180 || b.Height() != 130 {
			t.Errorf("size = %vx%v, want 180x130", b.Width(), b.Height())
		}
	})

	t.Run("empty document falls back", func(t *testing.T) {
		b := ComputeBounds(nil)
		want := Bounds{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600}
		if b != want {
			t.Errorf("ComputeBounds(nil) = %+v, want %+v", b, want)
		}
	})

	t.Run("deleted elements excluded", func(t *testing.T) {
		elements := []model.Element{
			{Kind: model.KindRectangle, X: 0, Y: 0, Width: 10, Height: 10},
			{Kind: model.KindRectangle, X: 1000, Y: 1000, Width: 10, Height: 10, IsDeleted: true},
		}
		b := ComputeBounds(elements)
		if b.MaxX != 50 || b.MaxY != 50 {
			t.Errorf("deleted element leaked into bounds: %+v", b)
		}
	})

	t.Run("all deleted falls back", func(t *testing.T) {
		elements := []model.Element{
			{Kind: model.KindRectangle, X: 5, Y: 5, Width: 10, Height: 10, IsDeleted: true},
		}
		b := ComputeBounds(elements)
		if b.Width() != 800 || b.Height() != 600 {
			t.Errorf("expected fallback canvas, got %+v", b)
		}
	})

	t.Run("linear element uses its points", func(t *testing.T) {
		elements := []model.Element{
			{
				Kind:   model.KindLine,
				X:      10,
				Y:      20,
				Points: model.PointList{geom.Pt(0, 0), geom.Pt(100, -50)},
			},
		}
		b := ComputeBounds(elements)
		want := Bounds{MinX: -30, MinY: -70, MaxX: 150, MaxY: 60}
		if b != want {
			t.Errorf("ComputeBounds() = %+v, want %+v", b, want)
		}
	})

	t.Run("rotated rectangle expands bounds", func(t *testing.T) {
		// A 100x10 bar rotated 90 degrees occupies 10x100 around its center.
		elements := []model.Element{
			{Kind: model.KindRectangle, X: 0, Y: 0, Width: 100, Height: 10, Angle: math.Pi / 2},
		}
		b := ComputeBounds(elements)
		if math.Abs(b.Width()-(10+2*Padding)) > 1e-9 {
			t.Errorf("width = %v, want %v", b.Width(), 10+2*Padding)
		}
		if math.Abs(b.Height()-(100+2*Padding)) > 1e-9 {
			t.Errorf("height = %v, want %v", b.Height(), 100+2*Padding)
		}
	})
}

func TestSynthesizeRectangle(t *testing.T) {
	s := NewSynthesizer()

	t.Run("sharp rectangle is its bounding box polygon", func(t *testing.T) {
		e := &model.Element{
			ID: "r1", Kind: model.KindRectangle,
			X: 10, Y: 20, Width: 100, Height: 50,
		}
		prims, ok := s.Element(e, 0)
		if !ok || len(prims) != 1 {
			t.Fatalf("got %d primitives, ok=%v", len(prims), ok)
		}
		poly, isPoly := prims[0].(Polygon)
		if !isPoly {
			t.Fatalf("expected Polygon, got %T", prims[0])
		}
		want := []geom.Point{
			geom.Pt(10, 20), geom.Pt(110, 20), geom.Pt(110, 70), geom.Pt(10, 70),
		}
		if diff := cmp.Diff(want, poly.Points); diff != "" {
			t.Errorf("corner mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rounded rectangle is a quad-cornered path", func(t *testing.T) {
		e := &model.Element{
			ID: "r2", Kind: model.KindRectangle,
			X: 0, Y: 0, Width: 100, Height: 50,
			Roundness: &model.Roundness{Type: model.RoundnessProportional},
		}
		prims, ok := s.Element(e, 0)
		if !ok || len(prims) != 1 {
			t.Fatalf("got %d primitives, ok=%v", len(prims), ok)
		}
		path, isPath := prims[0].(Path)
		if !isPath {
			t.Fatalf("expected Path, got %T", prims[0])
		}
		if !path.Closed {
			t.Error("rounded rectangle path should be closed")
		}
		lines, quads := 0, 0
		for _, seg := range path.Segments {
			switch seg.Op {
			case SegLine:
				lines++
			case SegQuad:
				quads++
			}
		}
		if lines != 4 || quads != 4 {
			t.Errorf("got %d lines and %d quads, want 4 and 4", lines, quads)
		}
		// Proportional radius of a 100x50 box is 12.5.
		if !ptsClose(path.Start, geom.Pt(12.5, 0), 1e-9) {
			t.Errorf("path starts at %v, want (12.5, 0)", path.Start)
		}
	})
}

func TestCornerRadius(t *testing.T) {
	value := 10.0
	tests := []struct {
		name string
		e    model.Element
		want float64
	}{
		{
			name: "no roundness",
			e:    model.Element{Width: 100, Height: 50},
			want: 0,
		},
		{
			name: "proportional",
			e: model.Element{Width: 100, Height: 50,
				Roundness: &model.Roundness{Type: model.RoundnessProportional}},
			want: 12.5,
		},
		{
			name: "adaptive above cutoff uses fixed radius",
			e: model.Element{Width: 400, Height: 300,
				Roundness: &model.Roundness{Type: model.RoundnessAdaptive}},
			want: 32,
		},
		{
			name: "adaptive below cutoff is proportional",
			e: model.Element{Width: 100, Height: 100,
				Roundness: &model.Roundness{Type: model.RoundnessAdaptive}},
			want: 25,
		},
		{
			name: "adaptive with explicit value",
			e: model.Element{Width: 400, Height: 300,
				Roundness: &model.Roundness{Type: model.RoundnessAdaptive, Value: &value}},
			want: 10,
		},
		{
			name: "clamped to half the short side",
			e: model.Element{Width: 300, Height: 8,
				Roundness: &model.Roundness{Type: model.RoundnessAdaptive}},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CornerRadius(&tt.e); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CornerRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSynthesizeDiamond(t *testing.T) {
	s := NewSynthesizer()
	e := &model.Element{ID: "d1", Kind: model.KindDiamond, X: 0, Y: 0, Width: 40, Height: 20}
	prims, ok := s.Element(e, 0)
	if !ok || len(prims) != 1 {
		t.Fatalf("got %d primitives, ok=%v", len(prims), ok)
	}
	poly := prims[0].(Polygon)
	want := []geom.Point{
		geom.Pt(20, 0), geom.Pt(40, 10), geom.Pt(20, 20), geom.Pt(0, 10),
	}
	if diff := cmp.Diff(want, poly.Points); diff != "" {
		t.Errorf("diamond vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeEllipse(t *testing.T) {
	s := NewSynthesizer()
	e := &model.Element{ID: "e1", Kind: model.KindEllipse, X: 10, Y: 10, Width: 60, Height: 40}
	prims, _ := s.Element(e, 0)
	el := prims[0].(Ellipse)
	if el.Center != geom.Pt(40, 30) || el.RX != 30 || el.RY != 20 {
		t.Errorf("ellipse = center %v rx %v ry %v", el.Center, el.RX, el.RY)
	}
}

func TestSynthesizeArrow(t *testing.T) {
	s := NewSynthesizer()

	t.Run("shaft plus triangle head", func(t *testing.T) {
		e := &model.Element{
			ID: "a1", Kind: model.KindArrow,
			X: 0, Y: 0,
			Points:       model.PointList{geom.Pt(0, 0), geom.Pt(100, 0)},
			EndArrowhead: model.ArrowheadTriangle,
			StrokeWidth:  1,
		}
		prims, ok := s.Element(e, 0)
		if !ok {
			t.Fatal("arrow not synthesized")
		}
		if len(prims) != 2 {
			t.Fatalf("got %d primitives, want shaft + head", len(prims))
		}
		if _, isLine := prims[0].(Polyline); !isLine {
			t.Errorf("first primitive is %T, want Polyline", prims[0])
		}
		head, isPoly := prims[1].(Polygon)
		if !isPoly {
			t.Fatalf("head is %T, want Polygon", prims[1])
		}
		if len(head.Points) != 3 {
			t.Fatalf("triangle head has %d points", len(head.Points))
		}

		// Bisector of the wedge must match the last segment direction.
		tip := head.Points[0]
		mid := geom.Pt(
			(head.Points[1].X+head.Points[2].X)/2,
			(head.Points[1].Y+head.Points[2].Y)/2,
		)
		bisector := math.Atan2(tip.Y-mid.Y, tip.X-mid.X)
		if math.Abs(bisector) > 1e-6 {
			t.Errorf("bisector angle = %v rad, want 0 (pointing +x)", bisector)
		}
		if !ptsClose(tip, geom.Pt(100, 0), 1e-9) {
			t.Errorf("tip = %v, want the endpoint (100, 0)", tip)
		}
	})

	t.Run("head scales down on short segments", func(t *testing.T) {
		e := &model.Element{
			ID: "a2", Kind: model.KindArrow,
			Points:       model.PointList{geom.Pt(0, 0), geom.Pt(10, 0)},
			EndArrowhead: model.ArrowheadTriangle,
			StrokeWidth:  1,
		}
		prims, _ := s.Element(e, 0)
		head := prims[1].(Polygon)
		base := head.Points[1]
		// Head length is clamped to half the segment length.
		if got := 10 - base.X; math.Abs(got) > 5.01 {
			t.Errorf("head extends %v back from tip, want <= 5", got)
		}
	})

	t.Run("start and end arrowheads", func(t *testing.T) {
		e := &model.Element{
			ID: "a3", Kind: model.KindArrow,
			Points:         model.PointList{geom.Pt(0, 0), geom.Pt(200, 0)},
			StartArrowhead: model.ArrowheadDot,
			EndArrowhead:   model.ArrowheadBar,
			StrokeWidth:    2,
		}
		prims, _ := s.Element(e, 0)
		// Shaft + bar polyline + dot ellipse.
		if len(prims) != 3 {
			t.Fatalf("got %d primitives, want 3", len(prims))
		}
		if _, isEllipse := prims[2].(Ellipse); !isEllipse {
			t.Errorf("dot head is %T, want Ellipse", prims[2])
		}
	})

	t.Run("open arrow head is two strokes", func(t *testing.T) {
		e := &model.Element{
			ID: "a4", Kind: model.KindArrow,
			Points:       model.PointList{geom.Pt(0, 0), geom.Pt(200, 0)},
			EndArrowhead: model.ArrowheadArrow,
			StrokeWidth:  1,
		}
		prims, _ := s.Element(e, 0)
		if len(prims) != 3 {
			t.Fatalf("got %d primitives, want shaft + 2 head strokes", len(prims))
		}
		for _, p := range prims[1:] {
			line, isLine := p.(Polyline)
			if !isLine || len(line.Points) != 2 {
				t.Errorf("head stroke = %T %v", p, p)
			}
		}
	})

	t.Run("outline heads fill with the background color", func(t *testing.T) {
		for _, kind := range []model.Arrowhead{
			model.ArrowheadTriangleOutline,
			model.ArrowheadDiamondOutline,
		} {
			e := &model.Element{
				ID: "a6", Kind: model.KindArrow,
				Points:          model.PointList{geom.Pt(0, 0), geom.Pt(200, 0)},
				EndArrowhead:    kind,
				StrokeColor:     "#1e1e1e",
				BackgroundColor: "#ffffff",
				StrokeWidth:     1,
			}
			prims, _ := s.Element(e, 0)
			if len(prims) != 2 {
				t.Fatalf("%s: got %d primitives, want shaft + head", kind, len(prims))
			}
			head := prims[1].(Polygon)
			if head.Attr.Fill.Hex() != "#ffffff" {
				t.Errorf("%s: head fill = %v, want the background color", kind, head.Attr.Fill)
			}
			if head.Attr.Stroke.Hex() != "#1e1e1e" {
				t.Errorf("%s: head stroke = %v, want the line color", kind, head.Attr.Stroke)
			}
		}
	})

	t.Run("circle outline head is a hollow circle", func(t *testing.T) {
		e := &model.Element{
			ID: "a7", Kind: model.KindArrow,
			Points:          model.PointList{geom.Pt(0, 0), geom.Pt(200, 0)},
			EndArrowhead:    model.ArrowheadCircleOutline,
			StrokeColor:     "#1e1e1e",
			BackgroundColor: "#a5d8ff",
			StrokeWidth:     1,
		}
		prims, _ := s.Element(e, 0)
		if len(prims) != 2 {
			t.Fatalf("got %d primitives, want shaft + head", len(prims))
		}
		head, isEllipse := prims[1].(Ellipse)
		if !isEllipse {
			t.Fatalf("head is %T, want Ellipse", prims[1])
		}
		if head.Attr.Fill.Hex() != "#a5d8ff" {
			t.Errorf("head fill = %v, want the background color", head.Attr.Fill)
		}
	})

	t.Run("crowfoot heads", func(t *testing.T) {
		tests := []struct {
			kind    model.Arrowhead
			strokes int
		}{
			{model.ArrowheadCrowfootOne, 1},
			{model.ArrowheadCrowfootMany, 2},
			{model.ArrowheadCrowfootOneOrMany, 3},
		}
		for _, tt := range tests {
			e := &model.Element{
				ID: "a8", Kind: model.KindArrow,
				Points:       model.PointList{geom.Pt(0, 0), geom.Pt(200, 0)},
				EndArrowhead: tt.kind,
				StrokeWidth:  1,
			}
			prims, _ := s.Element(e, 0)
			if got := len(prims) - 1; got != tt.strokes {
				t.Fatalf("%s: got %d head strokes, want %d", tt.kind, got, tt.strokes)
			}
			for _, p := range prims[1:] {
				line, isLine := p.(Polyline)
				if !isLine || len(line.Points) != 2 {
					t.Errorf("%s: head stroke = %T %v", tt.kind, p, p)
				}
			}
		}
	})

	t.Run("crowfoot prongs fork toward the tip", func(t *testing.T) {
		e := &model.Element{
			ID: "a9", Kind: model.KindArrow,
			Points:       model.PointList{geom.Pt(0, 0), geom.Pt(200, 0)},
			EndArrowhead: model.ArrowheadCrowfootMany,
			StrokeWidth:  1,
		}
		prims, _ := s.Element(e, 0)
		// Size 20 on a 200-long segment: base sits 20 back from the tip and
		// both prongs run from a point rotated about the base to the base.
		base := geom.Pt(180, 0)
		for _, p := range prims[1:] {
			line := p.(Polyline)
			if !ptsClose(line.Points[1], base, 1e-9) {
				t.Errorf("prong ends at %v, want the base %v", line.Points[1], base)
			}
			if math.Abs(geom.Distance(line.Points[0], base)-20) > 1e-9 {
				t.Errorf("prong length = %v, want 20", geom.Distance(line.Points[0], base))
			}
			if line.Points[0].X <= base.X {
				t.Errorf("prong tip at %v does not open toward the shape", line.Points[0])
			}
		}
	})

	t.Run("single point yields nothing", func(t *testing.T) {
		e := &model.Element{
			ID: "a5", Kind: model.KindArrow,
			Points: model.PointList{geom.Pt(0, 0)},
		}
		prims, ok := s.Element(e, 0)
		if !ok {
			t.Fatal("kind should still be supported")
		}
		if len(prims) != 0 {
			t.Errorf("got %d primitives for a degenerate arrow", len(prims))
		}
	})
}

func TestSynthesizeText(t *testing.T) {
	s := NewSynthesizer()
	e := &model.Element{
		ID: "t1", Kind: model.KindText,
		X: 10, Y: 20, Width: 100, Height: 25,
		Text: "hello", FontSize: 20, TextAlign: "center",
		StrokeColor: "#ff0000",
	}
	prims, ok := s.Element(e, 0)
	if !ok || len(prims) != 1 {
		t.Fatalf("got %d primitives, ok=%v", len(prims), ok)
	}
	txt := prims[0].(Text)
	if txt.Content != "hello" || txt.FontSize != 20 {
		t.Errorf("text = %+v", txt)
	}
	if txt.Anchor != "middle" || txt.Pos != geom.Pt(60, 20) {
		t.Errorf("anchor %q at %v, want middle at (60, 20)", txt.Anchor, txt.Pos)
	}
	if txt.Attr.Stroke.Hex() != "#ff0000" {
		t.Errorf("text color = %v", txt.Attr.Stroke)
	}
}

func TestDocumentSynthesis(t *testing.T) {
	s := NewSynthesizer()
	doc := &model.Document{Elements: []model.Element{
		{ID: "1", Kind: model.KindRectangle, Width: 10, Height: 10},
		{ID: "2", Kind: "embed"},
		{ID: "3", Kind: model.KindEllipse, Width: 10, Height: 10, IsDeleted: true},
		{ID: "4", Kind: model.KindDiamond, Width: 10, Height: 10},
	}}
	prims, skipped := s.Document(doc, 0)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1 (unknown kind)", skipped)
	}
	if len(prims) != 2 {
		t.Errorf("got %d primitives, want 2", len(prims))
	}
}

func TestElementSeed(t *testing.T) {
	withSeed := &model.Element{ID: "x", Seed: 12345}
	if got := ElementSeed(withSeed, 0); got != 12345 {
		t.Errorf("explicit seed = %v, want 12345", got)
	}

	noSeed := &model.Element{ID: "x"}
	a := ElementSeed(noSeed, 0)
	b := ElementSeed(noSeed, 0)
	if a != b {
		t.Error("derived seed must be stable")
	}
	other := &model.Element{ID: "y"}
	if ElementSeed(noSeed, 0) == ElementSeed(other, 0) {
		t.Error("different IDs should derive different seeds")
	}
	if ElementSeed(noSeed, 0) == ElementSeed(noSeed, 99) {
		t.Error("seed base must change the derived seed")
	}
}
