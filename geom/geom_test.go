package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurfaceClamp(t *testing.T) {
	s := SurfaceSize{Width: 800, Height: 600}

	assert.Equal(t, Point{X: 0, Y: 0}, s.Clamp(Point{X: -10, Y: -0.5}))
	assert.Equal(t, Point{X: 800, Y: 600}, s.Clamp(Point{X: 1200, Y: 601}))
	assert.Equal(t, Point{X: 12.5, Y: 300}, s.Clamp(Point{X: 12.5, Y: 300}))
}

func TestBoxFromRect(t *testing.T) {
	b := BoxFromRect(100, 100, 100, 50)

	assert.Equal(t, BoundingBox{Left: 100, Top: 100, Right: 200, Bottom: 150, X: 150, Y: 125}, b)
	assert.True(t, b.Valid())
	assert.True(t, b.Contains(Point{X: 200, Y: 150}))
	assert.False(t, b.Contains(Point{X: 99.9, Y: 120}))
}

func TestBoundingBoxValid(t *testing.T) {
	assert.False(t, BoundingBox{Left: 10, Right: 5}.Valid())
	assert.False(t, BoundingBox{Top: math.NaN()}.Valid())
	assert.True(t, BoundingBox{}.Valid())
}

func TestQuadBezierEndpoints(t *testing.T) {
	start := Point{X: 3, Y: 7}
	ctrl := Point{X: 400, Y: -20}
	end := Point{X: 123.25, Y: 456.5}

	assert.Equal(t, start, QuadBezier(start, ctrl, end, 0))
	assert.Equal(t, end, QuadBezier(start, ctrl, end, 1))

	mid := QuadBezier(start, ctrl, end, 0.5)
	assert.InDelta(t, 0.25*start.X+0.5*ctrl.X+0.25*end.X, mid.X, 1e-9)
}

func TestPointHelpers(t *testing.T) {
	assert.Equal(t, 5.0, Point{}.Dist(Point{X: 3, Y: 4}))
	assert.Equal(t, Point{X: 1, Y: -1}, Point{}.Add(1, -1))
	assert.False(t, Point{X: math.Inf(1)}.Finite())
}
