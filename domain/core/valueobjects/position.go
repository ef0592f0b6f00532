package valueobjects

import (
	"math"
	"math/rand"

	pkgerrors "memoryweb/pkg/errors"
)

// Position is a value object representing memory coordinates in 3D space.
// The free-3D layout projects these directly; other layouts ignore them.
type Position struct {
	x float64
	y float64
	z float64
}

// NewPosition3D creates a 3D position with validation
func NewPosition3D(x, y, z float64) (Position, error) {
	if !isValidCoordinate(x) || !isValidCoordinate(y) || !isValidCoordinate(z) {
		return Position{}, pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return Position{x: x, y: y, z: z}, nil
}

// RandomPosition places a new memory uniformly inside a cube of the given
// half-width centered on the origin. Assigned once at creation.
func RandomPosition(spread float64) Position {
	return Position{
		x: (rand.Float64()*2 - 1) * spread,
		y: (rand.Float64()*2 - 1) * spread,
		z: (rand.Float64()*2 - 1) * spread,
	}
}

// X returns the X coordinate
func (p Position) X() float64 {
	return p.x
}

// Y returns the Y coordinate
func (p Position) Y() float64 {
	return p.y
}

// Z returns the Z coordinate
func (p Position) Z() float64 {
	return p.z
}

// DistanceTo calculates the Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	dx := p.x - other.x
	dy := p.y - other.y
	dz := p.z - other.z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.x-other.x) < epsilon &&
		math.Abs(p.y-other.y) < epsilon &&
		math.Abs(p.z-other.z) < epsilon
}

// Translate moves the position by the given offsets
func (p Position) Translate(dx, dy, dz float64) (Position, error) {
	return NewPosition3D(p.x+dx, p.y+dy, p.z+dz)
}

// Midpoint calculates the midpoint between two positions
func (p Position) Midpoint(other Position) Position {
	return Position{
		x: (p.x + other.x) / 2,
		y: (p.y + other.y) / 2,
		z: (p.z + other.z) / 2,
	}
}

// isValidCoordinate checks if a coordinate is a valid finite number
func isValidCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
