// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package mat

import "math"

// Vec2 is a 2D vector: a world-space point/direction, or a row of a 2x2
// matrix.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3-vector used as the generalized coordinate of a body:
// (x, y, theta) for pose/velocity, or a constraint row's Jacobian entry
// for one participating body.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec2 returns a new zero vector.
func NewVec2() *Vec2 { return &Vec2{} }

// NewVec3 returns a new zero vector.
func NewVec3() *Vec3 { return &Vec3{} }

// V2 is a convenience constructor.
func V2(x, y float64) Vec2 { return Vec2{x, y} }

// V3 is a convenience constructor.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// SetS sets v from scalars and returns v.
func (v *Vec2) SetS(x, y float64) *Vec2 { v.X, v.Y = x, y; return v }

// SetS sets v from scalars and returns v.
func (v *Vec3) SetS(x, y, z float64) *Vec3 { v.X, v.Y, v.Z = x, y, z; return v }

// Set copies a into v and returns v.
func (v *Vec2) Set(a Vec2) *Vec2 { *v = a; return v }

// Set copies a into v and returns v.
func (v *Vec3) Set(a Vec3) *Vec3 { *v = a; return v }

// Add sets v = a + b and returns v.
func (v *Vec2) Add(a, b Vec2) *Vec2 { v.X, v.Y = a.X+b.X, a.Y+b.Y; return v }

// Add sets v = a + b and returns v.
func (v *Vec3) Add(a, b Vec3) *Vec3 { v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z; return v }

// Sub sets v = a - b and returns v.
func (v *Vec2) Sub(a, b Vec2) *Vec2 { v.X, v.Y = a.X-b.X, a.Y-b.Y; return v }

// Sub sets v = a - b and returns v.
func (v *Vec3) Sub(a, b Vec3) *Vec3 { v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z; return v }

// Scale sets v = a*s and returns v.
func (v *Vec2) Scale(a Vec2, s float64) *Vec2 { v.X, v.Y = a.X*s, a.Y*s; return v }

// Scale sets v = a*s and returns v.
func (v *Vec3) Scale(a Vec3, s float64) *Vec3 { v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s; return v }

// Neg sets v = -a and returns v.
func (v *Vec2) Neg(a Vec2) *Vec2 { v.X, v.Y = -a.X, -a.Y; return v }

// Dot returns the dot product of v and a.
func (v Vec2) Dot(a Vec2) float64 { return v.X*a.X + v.Y*a.Y }

// Dot returns the dot product of v and a.
func (v Vec3) Dot(a Vec3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Cross returns the scalar z-component of the 2D cross product v x a.
func (v Vec2) Cross(a Vec2) float64 { return v.X*a.Y - v.Y*a.X }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSqr returns the squared length of v.
func (v Vec2) LenSqr() float64 { return v.Dot(v) }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Unit sets v to a unit-length copy of a. A zero-length a leaves v zeroed.
func (v *Vec2) Unit(a Vec2) *Vec2 {
	l := a.Len()
	if l < Epsilon {
		v.X, v.Y = 0, 0
		return v
	}
	v.X, v.Y = a.X/l, a.Y/l
	return v
}

// Perp returns the vector rotated 90 degrees counter-clockwise: the S
// matrix of spec.md §4.3.2 applied to v.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Lerp sets v to the linear interpolation of a to b by ratio t.
func (v *Vec2) Lerp(a, b Vec2, t float64) *Vec2 {
	v.X = a.X + (b.X-a.X)*t
	v.Y = a.Y + (b.Y-a.Y)*t
	return v
}

// Rotate sets v to a rotated by the 2x2 matrix m and returns v.
func (v *Vec2) Rotate(m Mat2, a Vec2) *Vec2 {
	v.X = m.Xx*a.X + m.Xy*a.Y
	v.Y = m.Yx*a.X + m.Yy*a.Y
	return v
}
