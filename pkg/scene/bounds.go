package scene

import (
	"math"

	"github.com/roughcast/roughcast/pkg/geom"
	"github.com/roughcast/roughcast/pkg/model"
)

// Padding is the margin added on every side of the computed bounds.
const Padding = 40.0

// Fallback canvas for documents with no visible elements.
const (
	FallbackWidth  = 800.0
	FallbackHeight = 600.0
)

// Bounds is the canvas rectangle in document coordinates.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// ComputeBounds returns the padded bounding box over all visible elements.
// Rotated elements contribute their rotated corner or point positions.
// An empty document yields the fallback canvas anchored at the origin.
func ComputeBounds(elements []model.Element) Bounds {
	minX := math.Inf(1)
	minY := math.Inf(1)
	maxX := math.Inf(-1)
	maxY := math.Inf(-1)
	seen := false

	accumulate := func(p geom.Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
		seen = true
	}

	for i := range elements {
		e := &elements[i]
		if e.IsDeleted {
			continue
		}
		center := e.Center()
		if e.IsLinear() && len(e.Points) > 0 {
			for _, p := range e.AbsolutePoints() {
				accumulate(geom.RotateAbout(p, center, e.Angle))
			}
			continue
		}
		corners := [4]geom.Point{
			{X: e.X, Y: e.Y},
			{X: e.X + e.Width, Y: e.Y},
			{X: e.X + e.Width, Y: e.Y + e.Height},
			{X: e.X, Y: e.Y + e.Height},
		}
		for _, c := range corners {
			accumulate(geom.RotateAbout(c, center, e.Angle))
		}
	}

	if !seen {
		return Bounds{MinX: 0, MinY: 0, MaxX: FallbackWidth, MaxY: FallbackHeight}
	}
	return Bounds{
		MinX: minX - Padding,
		MinY: minY - Padding,
		MaxX: maxX + Padding,
		MaxY: maxY + Padding,
	}
}
