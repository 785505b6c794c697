// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import "github.com/brynphys/avbd2d/mat"

// Spring is a single soft row pulling two bodies toward a rest length:
// C = |rA_world - rB_world| - L_rest. Unlike Length, it is parameterized by
// stiffness directly and carries a curvature Hessian.
type Spring struct {
	A, B     *Body
	RA, RB   mat.Vec2
	LRest    float64
	row      *Row
	disabled bool
}

// NewSpring attaches a soft spring of stiffness k and rest length lRest
// between local anchors rA on a and rB on b.
func NewSpring(a, b *Body, rA, rB mat.Vec2, lRest, k float64) *Spring {
	s := &Spring{A: a, B: b, RA: rA, RB: rB, LRest: lRest, row: newRow(2)}
	s.row.K = k
	a.attachForce(s)
	b.attachForce(s)
	return s
}

func (s *Spring) worldA() mat.Vec2 {
	r := s.A.Rotation().MultV(s.RA)
	return mat.Vec2{X: s.A.Q.X + r.X, Y: s.A.Q.Y + r.Y}
}

func (s *Spring) worldB() mat.Vec2 {
	r := s.B.Rotation().MultV(s.RB)
	return mat.Vec2{X: s.B.Q.X + r.X, Y: s.B.Q.Y + r.Y}
}

// Bodies implements Force.
func (s *Spring) Bodies() []*Body { return []*Body{s.A, s.B} }

// Rows implements Force.
func (s *Spring) Rows() []*Row { return []*Row{s.row} }

// Disabled implements Force.
func (s *Spring) Disabled() bool { return s.disabled }

// Disable implements Force.
func (s *Spring) Disable() { s.disabled = true; s.row.disable() }

// Initialize implements Force.
func (s *Spring) Initialize() bool { return !s.disabled }

// ComputeConstraints implements Force. Springs are always soft, so the row
// is never Taylor-stabilized by alpha.
func (s *Spring) ComputeConstraints(alpha float64) {
	d := mat.Vec2{}
	wa, wb := s.worldA(), s.worldB()
	d.Sub(wa, wb)
	s.row.C = d.Len() - s.LRest
}

// ComputeDerivatives implements Force. A degenerate zero-length d produces
// a zero Jacobian/Hessian, leaving the row quiescent until geometry
// recovers (spec.md section 7).
func (s *Spring) ComputeDerivatives(b *Body) {
	d := mat.Vec2{}
	wa, wb := s.worldA(), s.worldB()
	d.Sub(wa, wb)
	dist := d.Len()
	if dist < Epsilon {
		if b == s.A {
			s.row.J[0] = mat.Vec3{}
			s.row.H[0] = mat.Mat3{}
		} else if b == s.B {
			s.row.J[1] = mat.Vec3{}
			s.row.H[1] = mat.Mat3{}
		}
		return
	}
	n := mat.Vec2{}
	n.Unit(d)

	if b == s.A {
		r := s.A.Rotation().MultV(s.RA)
		angular := n.Dot(r.Perp())
		s.row.J[0] = mat.Vec3{X: n.X, Y: n.Y, Z: angular}
		s.row.H[0] = springHessian(n, dist)
		return
	}
	if b == s.B {
		r := s.B.Rotation().MultV(s.RB)
		perp := r.Perp()
		angular := -n.Dot(perp)
		s.row.J[1] = mat.Vec3{X: -n.X, Y: -n.Y, Z: angular}
		s.row.H[1] = springHessian(n, dist)
	}
}

// springHessian returns the translational block (I - n*nT)/d, n the unit
// direction, used by Spring for its distance constraint's curvature.
func springHessian(n mat.Vec2, dist float64) mat.Mat3 {
	outer := mat.Mat2{}
	outer.Outer(n, n)
	h := mat.Mat3{}
	h.Xx = (1 - outer.Xx) / dist
	h.Xy = (0 - outer.Xy) / dist
	h.Yx = (0 - outer.Yx) / dist
	h.Yy = (1 - outer.Yy) / dist
	return h
}

// RenderPoints implements Force.
func (s *Spring) RenderPoints() []ContactPoint { return nil }

// RenderLines implements Force.
func (s *Spring) RenderLines() []ContactLine {
	wa, wb := s.worldA(), s.worldB()
	thickness := mat.Clamp(s.row.K/1e4, 0.2, 0.45)
	return []ContactLine{{A: ContactPoint{X: wa.X, Y: wa.Y}, B: ContactPoint{X: wb.X, Y: wb.Y}, Thickness: thickness}}
}

func (s *Spring) detach(b *Body) {
	if b == s.A {
		s.A.detachForce(s)
	} else if b == s.B {
		s.B.detachForce(s)
	}
	s.Disable()
}
