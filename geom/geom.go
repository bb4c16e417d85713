package geom

import "math"

// Point is an on-screen coordinate in CSS pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Add offsets the point by dx, dy
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Finite reports whether both coordinates are usable numbers
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// SurfaceSize is the visible viewport of the page being driven.
// It is queried per operation and never cached across moves.
type SurfaceSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the surface has a usable area
func (s SurfaceSize) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Clamp pulls p into [0, Width] x [0, Height]
func (s SurfaceSize) Clamp(p Point) Point {
	return Point{
		X: clamp(p.X, 0, float64(s.Width)),
		Y: clamp(p.Y, 0, float64(s.Height)),
	}
}

// Contains reports whether p lies inside the surface, edges included
func (s SurfaceSize) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= float64(s.Width) && p.Y <= float64(s.Height)
}

// BoundingBox is an element's box in viewport coordinates.
// X, Y hold the center.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// BoxFromRect builds a BoundingBox from an origin and a size, the shape
// browsers report for getBoundingClientRect and content quads.
func BoxFromRect(x, y, width, height float64) BoundingBox {
	return BoundingBox{
		Left:   x,
		Top:    y,
		Right:  x + width,
		Bottom: y + height,
		X:      x + width/2,
		Y:      y + height/2,
	}
}

// Center returns the box center as a Point
func (b BoundingBox) Center() Point {
	return Point{X: b.X, Y: b.Y}
}

// Valid checks the ordering invariant and that every edge is finite
func (b BoundingBox) Valid() bool {
	for _, v := range []float64{b.Left, b.Top, b.Right, b.Bottom, b.X, b.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Left <= b.Right && b.Top <= b.Bottom
}

// Contains reports whether p lies inside the box, edges included
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// QuadBezier evaluates the quadratic Bézier curve start -> ctrl -> end at t.
func QuadBezier(start, ctrl, end Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*start.X + 2*mt*t*ctrl.X + t*t*end.X,
		Y: mt*mt*start.Y + 2*mt*t*ctrl.Y + t*t*end.Y,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(lo, v), hi)
}
