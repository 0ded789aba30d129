// Package model defines the diagram document and element types.
//
// Elements mirror the wire format of the source document: a flat z-ordered
// list of typed records with explicit positions. The parser in pkg/io
// normalizes defaults before the rest of the system sees an Element; after
// that, elements are read-only for the duration of a render.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/roughcast/roughcast/pkg/geom"
)

// Kind identifies the element type.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindDiamond   Kind = "diamond"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindArrow     Kind = "arrow"
	KindText      Kind = "text"
)

// FillStyle selects how closed shapes are filled in sketchy mode.
type FillStyle string

const (
	FillSolid      FillStyle = "solid"
	FillHachure    FillStyle = "hachure"
	FillCrossHatch FillStyle = "cross-hatch"
)

// StrokeStyle selects the stroke dash pattern.
type StrokeStyle string

const (
	StrokeSolid  StrokeStyle = "solid"
	StrokeDashed StrokeStyle = "dashed"
	StrokeDotted StrokeStyle = "dotted"
)

// Arrowhead identifies the decoration at a line endpoint.
type Arrowhead string

const (
	ArrowheadNone     Arrowhead = ""
	ArrowheadArrow    Arrowhead = "arrow"
	ArrowheadTriangle Arrowhead = "triangle"
	ArrowheadBar      Arrowhead = "bar"
	ArrowheadDot      Arrowhead = "dot"
	ArrowheadCircle   Arrowhead = "circle"
	ArrowheadDiamond  Arrowhead = "diamond"

	// Outline variants keep the same geometry but fill with the element's
	// background color instead of its stroke color.
	ArrowheadTriangleOutline Arrowhead = "triangle_outline"
	ArrowheadCircleOutline   Arrowhead = "circle_outline"
	ArrowheadDiamondOutline  Arrowhead = "diamond_outline"

	// Entity-relationship cardinality markers.
	ArrowheadCrowfootOne       Arrowhead = "crowfoot_one"
	ArrowheadCrowfootMany      Arrowhead = "crowfoot_many"
	ArrowheadCrowfootOneOrMany Arrowhead = "crowfoot_one_or_many"
)

// IsOutline reports whether the arrowhead is an outline variant.
func (a Arrowhead) IsOutline() bool {
	switch a {
	case ArrowheadTriangleOutline, ArrowheadCircleOutline, ArrowheadDiamondOutline:
		return true
	}
	return false
}

// Roundness corner-rounding modes.
const (
	RoundnessProportional = 2 // radius proportional to element size
	RoundnessAdaptive     = 3 // fixed radius with a proportional cutoff
)

// Roundness describes corner rounding for box-like elements.
type Roundness struct {
	Type  int      `json:"type"`
	Value *float64 `json:"value,omitempty"`
}

// PointList is a sequence of points in the wire format [[x,y], ...].
type PointList []geom.Point

// UnmarshalJSON decodes the nested-array point encoding.
func (p *PointList) UnmarshalJSON(data []byte) error {
	var raw [][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pts := make([]geom.Point, 0, len(raw))
	for i, pair := range raw {
		if len(pair) < 2 {
			return fmt.Errorf("point %d: expected [x,y], got %d values", i, len(pair))
		}
		pts = append(pts, geom.Point{X: pair[0], Y: pair[1]})
	}
	*p = pts
	return nil
}

// MarshalJSON encodes points back into nested arrays.
func (p PointList) MarshalJSON() ([]byte, error) {
	raw := make([][]float64, len(p))
	for i, pt := range p {
		raw[i] = []float64{pt.X, pt.Y}
	}
	return json.Marshal(raw)
}

// Element is one record in the diagram document.
type Element struct {
	ID              string      `json:"id"`
	Kind            Kind        `json:"type"`
	X               float64     `json:"x"`
	Y               float64     `json:"y"`
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
	Angle           float64     `json:"angle"` // radians, about the element center
	StrokeColor     string      `json:"strokeColor"`
	BackgroundColor string      `json:"backgroundColor"`
	FillStyle       FillStyle   `json:"fillStyle"`
	StrokeWidth     float64     `json:"strokeWidth"`
	StrokeStyle     StrokeStyle `json:"strokeStyle"`
	Roughness       float64     `json:"roughness"`
	Opacity         float64     `json:"opacity"`
	Roundness       *Roundness  `json:"roundness,omitempty"`
	Seed            int64       `json:"seed"`
	IsDeleted       bool        `json:"isDeleted"`

	// Linear elements (line, arrow).
	Points         PointList `json:"points,omitempty"`
	Elbowed        bool      `json:"elbowed,omitempty"`
	StartArrowhead Arrowhead `json:"startArrowhead,omitempty"`
	EndArrowhead   Arrowhead `json:"endArrowhead,omitempty"`

	// Text elements.
	Text          string  `json:"text,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty"`
	FontFamily    int     `json:"fontFamily,omitempty"`
	TextAlign     string  `json:"textAlign,omitempty"`
	VerticalAlign string  `json:"verticalAlign,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	ContainerID   string  `json:"containerId,omitempty"`
}

// Center returns the center of the element's bounding box.
func (e *Element) Center() geom.Point {
	return geom.Point{X: e.X + e.Width/2, Y: e.Y + e.Height/2}
}

// IsLinear reports whether the element is a point-based line or arrow.
func (e *Element) IsLinear() bool {
	return e.Kind == KindLine || e.Kind == KindArrow
}

// AbsolutePoints returns the element's points translated into document
// coordinates. Linear elements with no points yield a single point at the
// element position.
func (e *Element) AbsolutePoints() []geom.Point {
	if len(e.Points) == 0 {
		return []geom.Point{{X: e.X, Y: e.Y}}
	}
	abs := make([]geom.Point, len(e.Points))
	for i, p := range e.Points {
		abs[i] = geom.Point{X: e.X + p.X, Y: e.Y + p.Y}
	}
	return abs
}

// Normalize fills in defaults for optional fields and clamps out-of-range
// values. The parser calls this once per element after decoding.
func (e *Element) Normalize() {
	if e.StrokeColor == "" {
		e.StrokeColor = "#1e1e1e"
	}
	if e.FillStyle == "" {
		e.FillStyle = FillHachure
	}
	if e.StrokeStyle == "" {
		e.StrokeStyle = StrokeSolid
	}
	if e.StrokeWidth <= 0 {
		e.StrokeWidth = 1
	}
	if e.Opacity < 0 {
		e.Opacity = 0
	}
	if e.Opacity > 100 {
		e.Opacity = 100
	}
	if e.Width < 0 {
		e.X += e.Width
		e.Width = -e.Width
	}
	if e.Height < 0 {
		e.Y += e.Height
		e.Height = -e.Height
	}
}
