// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package mat

// Matrix functions deal with fixed-size 2x2, 3x3 and 4x4 matrices used by
// the physics core: 2x2 for per-particle energy Hessians and rotations,
// 3x3 for per-rigid-body (x,y,theta) system blocks and their LDLT solve,
// 4x4 for a flattened-F Frobenius basis. The physics energies assemble
// their projected Hessian directly as a 2x2 block and do not use Mat4.
//
// Row-major, explicitly indexed fields, following the convention:
//
//	     2x2         3x3             4x4
//	 [Xx, Xy]   [Xx, Xy, Xz]   [Xx, Xy, Xz, Xw]
//	 [Yx, Yy]   [Yx, Yy, Yz]   [Yx, Yy, Yz, Yw]
//	            [Zx, Zy, Zz]   [Zx, Zy, Zz, Zw]
//	                           [Wx, Wy, Wz, Ww]
//
// What is normative is the mathematical contract of each operation, not
// this index arithmetic; an implementation consistent throughout is all
// that matters.

import "math"

// Mat2 is a 2x2 matrix.
type Mat2 struct {
	Xx, Xy float64
	Yx, Yy float64
}

// Mat3 is a 3x3 matrix.
type Mat3 struct {
	Xx, Xy, Xz float64
	Yx, Yy, Yz float64
	Zx, Zy, Zz float64
}

// Mat4 is a 4x4 matrix for a flattened 2x2-deformation-gradient Frobenius
// basis. Nothing in the physics package uses it.
type Mat4 struct {
	Xx, Xy, Xz, Xw float64
	Yx, Yy, Yz, Yw float64
	Zx, Zy, Zz, Zw float64
	Wx, Wy, Wz, Ww float64
}

// Vec4 is a flattened 2x2 matrix (col-major: X=m00, Y=m10, Z=m01, W=m11)
// or any other 4-component quantity needed by Mat4 operations.
type Vec4 struct {
	X, Y, Z, W float64
}

// Mat2I is the 2x2 identity.
var Mat2I = Mat2{1, 0, 0, 1}

// Mat3I is the 3x3 identity.
var Mat3I = Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}

// NewMat2 returns a new zero matrix.
func NewMat2() *Mat2 { return &Mat2{} }

// NewMat3 returns a new zero matrix.
func NewMat3() *Mat3 { return &Mat3{} }

// NewMat4 returns a new zero matrix.
func NewMat4() *Mat4 { return &Mat4{} }

// Rot2 returns the 2x2 rotation matrix R(theta):
//
//	[cos -sin]
//	[sin  cos]
func Rot2(theta float64) Mat2 {
	c, s := math.Cos(theta), math.Sin(theta)
	return Mat2{c, -s, s, c}
}

// SetS sets m's entries from scalars in row-major order and returns m.
func (m *Mat2) SetS(xx, xy, yx, yy float64) *Mat2 {
	m.Xx, m.Xy, m.Yx, m.Yy = xx, xy, yx, yy
	return m
}

// Add sets m = a + b and returns m.
func (m *Mat2) Add(a, b Mat2) *Mat2 {
	m.Xx, m.Xy = a.Xx+b.Xx, a.Xy+b.Xy
	m.Yx, m.Yy = a.Yx+b.Yx, a.Yy+b.Yy
	return m
}

// Sub sets m = a - b and returns m.
func (m *Mat2) Sub(a, b Mat2) *Mat2 {
	m.Xx, m.Xy = a.Xx-b.Xx, a.Xy-b.Xy
	m.Yx, m.Yy = a.Yx-b.Yx, a.Yy-b.Yy
	return m
}

// Scale sets m = a*s and returns m.
func (m *Mat2) Scale(a Mat2, s float64) *Mat2 {
	m.Xx, m.Xy = a.Xx*s, a.Xy*s
	m.Yx, m.Yy = a.Yx*s, a.Yy*s
	return m
}

// Mult sets m = l * r (matrix product) and returns m.
func (m *Mat2) Mult(l, r Mat2) *Mat2 {
	m.Xx = l.Xx*r.Xx + l.Xy*r.Yx
	m.Xy = l.Xx*r.Xy + l.Xy*r.Yy
	m.Yx = l.Yx*r.Xx + l.Yy*r.Yx
	m.Yy = l.Yx*r.Xy + l.Yy*r.Yy
	return m
}

// Transpose sets m = aᵀ and returns m.
func (m *Mat2) Transpose(a Mat2) *Mat2 {
	m.Xx, m.Xy, m.Yx, m.Yy = a.Xx, a.Yx, a.Xy, a.Yy
	return m
}

// Det returns the determinant of m.
func (m Mat2) Det() float64 { return m.Xx*m.Yy - m.Xy*m.Yx }

// Inv sets m = a⁻¹ and returns m, ok. ok is false if a is singular.
func (m *Mat2) Inv(a Mat2) (*Mat2, bool) {
	d := a.Det()
	if math.Abs(d) < Epsilon {
		return m, false
	}
	id := 1.0 / d
	m.Xx, m.Xy = a.Yy*id, -a.Xy*id
	m.Yx, m.Yy = -a.Yx*id, a.Xx*id
	return m, true
}

// MultV returns m*v.
func (m Mat2) MultV(v Vec2) Vec2 {
	return Vec2{m.Xx*v.X + m.Xy*v.Y, m.Yx*v.X + m.Yy*v.Y}
}

// Outer sets m = a ⊗ b (a bᵀ, a column vector times b row vector) and
// returns m.
func (m *Mat2) Outer(a, b Vec2) *Mat2 {
	m.Xx, m.Xy = a.X*b.X, a.X*b.Y
	m.Yx, m.Yy = a.Y*b.X, a.Y*b.Y
	return m
}

// Trace returns Xx + Yy.
func (m Mat2) Trace() float64 { return m.Xx + m.Yy }

// Frobenius returns the Frobenius norm of m.
func (m Mat2) Frobenius() float64 {
	return math.Sqrt(m.Xx*m.Xx + m.Xy*m.Xy + m.Yx*m.Yx + m.Yy*m.Yy)
}

// --- Mat3 ---

// SetS sets m's entries from scalars in row-major order and returns m.
func (m *Mat3) SetS(xx, xy, xz, yx, yy, yz, zx, zy, zz float64) *Mat3 {
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return m
}

// SetDiag sets m to a diagonal matrix with entries x, y, z and returns m.
func (m *Mat3) SetDiag(x, y, z float64) *Mat3 {
	*m = Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
	return m
}

// Add sets m = a + b and returns m.
func (m *Mat3) Add(a, b Mat3) *Mat3 {
	m.Xx, m.Xy, m.Xz = a.Xx+b.Xx, a.Xy+b.Xy, a.Xz+b.Xz
	m.Yx, m.Yy, m.Yz = a.Yx+b.Yx, a.Yy+b.Yy, a.Yz+b.Yz
	m.Zx, m.Zy, m.Zz = a.Zx+b.Zx, a.Zy+b.Zy, a.Zz+b.Zz
	return m
}

// Scale sets m = a*s and returns m.
func (m *Mat3) Scale(a Mat3, s float64) *Mat3 {
	m.Xx, m.Xy, m.Xz = a.Xx*s, a.Xy*s, a.Xz*s
	m.Yx, m.Yy, m.Yz = a.Yx*s, a.Yy*s, a.Yz*s
	m.Zx, m.Zy, m.Zz = a.Zx*s, a.Zy*s, a.Zz*s
	return m
}

// Outer sets m = a ⊗ b and returns m.
func (m *Mat3) Outer(a, b Vec3) *Mat3 {
	m.Xx, m.Xy, m.Xz = a.X*b.X, a.X*b.Y, a.X*b.Z
	m.Yx, m.Yy, m.Yz = a.Y*b.X, a.Y*b.Y, a.Y*b.Z
	m.Zx, m.Zy, m.Zz = a.Z*b.X, a.Z*b.Y, a.Z*b.Z
	return m
}

// MultV returns m*v.
func (m Mat3) MultV(v Vec3) Vec3 {
	return Vec3{
		m.Xx*v.X + m.Xy*v.Y + m.Xz*v.Z,
		m.Yx*v.X + m.Yy*v.Y + m.Yz*v.Z,
		m.Zx*v.X + m.Zy*v.Y + m.Zz*v.Z,
	}
}

// Col returns column i (0, 1 or 2) of m as a Vec3.
func (m Mat3) Col(i int) Vec3 {
	switch i {
	case 0:
		return Vec3{m.Xx, m.Yx, m.Zx}
	case 1:
		return Vec3{m.Xy, m.Yy, m.Zy}
	default:
		return Vec3{m.Xz, m.Yz, m.Zz}
	}
}

// SolveLDLT3 solves m*x = b for x, where m is assumed symmetric positive
// definite (the caller must have regularized it, per §4.7). ok is false if
// a pivot is non-positive, signalling the caller to trip urgent_stop
// rather than return a NaN-laced result.
//
// m = L D Lᵀ with L unit lower triangular, D diagonal. Forward/back
// substitution then solves L D Lᵀ x = b in three small passes.
func SolveLDLT3(m Mat3, b Vec3) (Vec3, bool) {
	// symmetrize defensively: only the lower triangle is read.
	a00, a10, a11 := m.Xx, m.Yx, m.Yy
	a20, a21, a22 := m.Zx, m.Zy, m.Zz

	if a00 <= 0 {
		return Vec3{}, false
	}
	d0 := a00
	l10 := a10 / d0
	d1 := a11 - l10*l10*d0
	if d1 <= 0 {
		return Vec3{}, false
	}
	l20 := a20 / d0
	l21 := (a21 - l20*l10*d0) / d1
	d2 := a22 - l20*l20*d0 - l21*l21*d1
	if d2 <= 0 {
		return Vec3{}, false
	}

	// forward: L y = b
	y0 := b.X
	y1 := b.Y - l10*y0
	y2 := b.Z - l20*y0 - l21*y1

	// diagonal: D z = y
	z0 := y0 / d0
	z1 := y1 / d1
	z2 := y2 / d2

	// back: Lᵀ x = z
	x2 := z2
	x1 := z1 - l21*x2
	x0 := z0 - l10*x1 - l20*x2

	return Vec3{x0, x1, x2}, true
}

// --- Mat4 (flattened 2x2-basis Frobenius matrix for energy projection) ---

// Add sets m = a + b and returns m.
func (m *Mat4) Add(a, b Mat4) *Mat4 {
	m.Xx, m.Xy, m.Xz, m.Xw = a.Xx+b.Xx, a.Xy+b.Xy, a.Xz+b.Xz, a.Xw+b.Xw
	m.Yx, m.Yy, m.Yz, m.Yw = a.Yx+b.Yx, a.Yy+b.Yy, a.Yz+b.Yz, a.Yw+b.Yw
	m.Zx, m.Zy, m.Zz, m.Zw = a.Zx+b.Zx, a.Zy+b.Zy, a.Zz+b.Zz, a.Zw+b.Zw
	m.Wx, m.Wy, m.Wz, m.Ww = a.Wx+b.Wx, a.Wy+b.Wy, a.Wz+b.Wz, a.Ww+b.Ww
	return m
}

// Outer sets m = a ⊗ b and returns m.
func (m *Mat4) Outer(a, b Vec4) *Mat4 {
	m.Xx, m.Xy, m.Xz, m.Xw = a.X*b.X, a.X*b.Y, a.X*b.Z, a.X*b.W
	m.Yx, m.Yy, m.Yz, m.Yw = a.Y*b.X, a.Y*b.Y, a.Y*b.Z, a.Y*b.W
	m.Zx, m.Zy, m.Zz, m.Zw = a.Z*b.X, a.Z*b.Y, a.Z*b.Z, a.Z*b.W
	m.Wx, m.Wy, m.Wz, m.Ww = a.W*b.X, a.W*b.Y, a.W*b.Z, a.W*b.W
	return m
}

// Scale sets m = a*s and returns m.
func (m *Mat4) Scale(a Mat4, s float64) *Mat4 {
	m.Xx, m.Xy, m.Xz, m.Xw = a.Xx*s, a.Xy*s, a.Xz*s, a.Xw*s
	m.Yx, m.Yy, m.Yz, m.Yw = a.Yx*s, a.Yy*s, a.Yz*s, a.Yw*s
	m.Zx, m.Zy, m.Zz, m.Zw = a.Zx*s, a.Zy*s, a.Zz*s, a.Zw*s
	m.Wx, m.Wy, m.Wz, m.Ww = a.Wx*s, a.Wy*s, a.Wz*s, a.Ww*s
	return m
}

// MultV returns m*v.
func (m Mat4) MultV(v Vec4) Vec4 {
	return Vec4{
		m.Xx*v.X + m.Xy*v.Y + m.Xz*v.Z + m.Xw*v.W,
		m.Yx*v.X + m.Yy*v.Y + m.Yz*v.Z + m.Yw*v.W,
		m.Zx*v.X + m.Zy*v.Y + m.Zz*v.Z + m.Zw*v.W,
		m.Wx*v.X + m.Wy*v.Y + m.Wz*v.Z + m.Ww*v.W,
	}
}

// --- 2x2 SVD ---

// SVD2 factors f = U * diag(s) * Vᵀ with U, V rotation matrices (det=+1)
// and s.X >= |s.Y|. Required by the energy Hessian eigenvalue
// projection (§4.1, §4.5.3): if det(U Vᵀ) < 0 the smaller singular value's
// sign and the corresponding column of U are flipped so orientation is
// preserved; s.Y is then negative for an inverted f.
func SVD2(f Mat2) (u, v Mat2, s Vec2) {
	// Eigen-decompose fᵀf = V Σ² Vᵀ.
	ftf := Mat2{}
	ftf.Mult(Mat2{f.Xx, f.Yx, f.Xy, f.Yy}, f) // fᵀ * f

	theta := 0.0
	if !Aeq(ftf.Xx, ftf.Yy) || !AeqZ(ftf.Xy) {
		theta = 0.5 * math.Atan2(2*ftf.Xy, ftf.Xx-ftf.Yy)
	}
	c, sn := math.Cos(theta), math.Sin(theta)
	v = Mat2{c, -sn, sn, c}

	sigma := Mat2{}
	sigma.Mult(Mat2{c, sn, -sn, c}, ftf)
	sigma.Mult(sigma, v)
	s1sq, s2sq := sigma.Xx, sigma.Yy
	if s1sq < 0 {
		s1sq = 0
	}
	if s2sq < 0 {
		s2sq = 0
	}
	s1, s2 := math.Sqrt(s1sq), math.Sqrt(s2sq)

	// order descending, keeping V a rotation.
	if s1 < s2 {
		s1, s2 = s2, s1
		v = Mat2{v.Xy, -v.Xx, v.Yy, -v.Yx}
	}
	s = Vec2{s1, s2}

	// U columns = F * V columns / sigma, guarding near-zero singular values.
	fv := Mat2{}
	fv.Mult(f, v)
	u1 := Vec2{fv.Xx, fv.Yx}
	u2 := Vec2{fv.Xy, fv.Yy}
	if s1 > Epsilon {
		u1 = Vec2{u1.X / s1, u1.Y / s1}
	} else {
		u1 = Vec2{1, 0}
	}
	if s2 > Epsilon {
		u2 = Vec2{u2.X / s2, u2.Y / s2}
	} else {
		// pick the direction orthogonal to u1, preserving orientation.
		u2 = Vec2{-u1.Y, u1.X}
	}
	u = Mat2{u1.X, u2.X, u1.Y, u2.Y}

	// preserve orientation: V is a rotation here, so det(U Vᵀ) < 0 means U
	// is a reflection. Flip the smaller singular value's sign and U's
	// second column, leaving F = U diag(s) Vᵀ unchanged.
	uvt := Mat2{}
	uvt.Mult(u, Mat2{v.Xx, v.Yx, v.Xy, v.Yy})
	if uvt.Det() < 0 {
		s.Y = -s.Y
		u.Xy, u.Yy = -u.Xy, -u.Yy
	}
	return u, v, s
}
