// Package geometry provides the pure 3D rotation and perspective projection
// primitives shared by the layout engines. All functions are stateless.
package geometry

import "math"

// behindCameraEpsilon guards the perspective divide. Points whose depth
// lands at or behind the focal plane are reported not visible instead of
// producing a sign-flipped or infinite projection.
const behindCameraEpsilon = 1e-6

// Point is a coordinate in 3D space
type Point struct {
	X float64
	Y float64
	Z float64
}

// ScreenPoint is a projected coordinate in screen space. Scale carries the
// perspective factor so callers can size nodes by depth.
type ScreenPoint struct {
	X     float64
	Y     float64
	Scale float64
}

// RotateAroundX rotates a point around the X axis by angle radians using the
// standard right-handed rotation matrix. Rotating by 0 is the identity;
// rotating by angle then -angle round-trips within floating tolerance.
func RotateAroundX(p Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{
		X: p.X,
		Y: p.Y*cos - p.Z*sin,
		Z: p.Y*sin + p.Z*cos,
	}
}

// RotateAroundY rotates a point around the Y axis by angle radians
func RotateAroundY(p Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{
		X: p.X*cos + p.Z*sin,
		Y: p.Y,
		Z: -p.X*sin + p.Z*cos,
	}
}

// ProjectPerspective applies a perspective-divide projection:
//
//	scale = focalDistance / (focalDistance + z)
//
// The second return value is false when the point sits at or behind the
// camera (focalDistance + z <= 0); such points must be skipped for the
// frame rather than drawn.
func ProjectPerspective(p Point, offsetX, offsetY, focalDistance, zoom float64) (ScreenPoint, bool) {
	denom := focalDistance + p.Z
	if denom <= behindCameraEpsilon {
		return ScreenPoint{}, false
	}
	scale := focalDistance / denom
	return ScreenPoint{
		X:     p.X*scale*zoom + offsetX,
		Y:     p.Y*scale*zoom + offsetY,
		Scale: scale,
	}, true
}

// Distance2D is the Euclidean distance between two screen points
func Distance2D(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}
