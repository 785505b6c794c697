// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import "github.com/brynphys/avbd2d/mat"

// nearHardCompliance is used as k_eff when a Length's compliance is zero,
// approximating a hard constraint without the Inf bookkeeping of a true
// hard row (spec.md section 4.3.3).
const nearHardCompliance = 1e12

// Length is a distance constraint like Spring but parameterized by
// compliance alphaC rather than stiffness directly: k_eff = 1/alphaC if
// alphaC > 0, else nearHardCompliance. Its Hessian is always zero (the
// reference implementation treats Length as a Gauss-Newton row with no
// curvature term).
type Length struct {
	A, B     *Body
	RA, RB   mat.Vec2
	LRest    float64
	row      *Row
	disabled bool
}

// NewLength attaches a distance constraint between local anchors rA on a
// and rB on b, with rest length lRest and compliance alphaC (0 for a
// near-hard constraint).
func NewLength(a, b *Body, rA, rB mat.Vec2, lRest, alphaC float64) *Length {
	l := &Length{A: a, B: b, RA: rA, RB: rB, LRest: lRest, row: newRow(2)}
	if alphaC > 0 {
		l.row.K = 1.0 / alphaC
	} else {
		l.row.K = nearHardCompliance
	}
	a.attachForce(l)
	b.attachForce(l)
	return l
}

func (l *Length) worldA() mat.Vec2 {
	r := l.A.Rotation().MultV(l.RA)
	return mat.Vec2{X: l.A.Q.X + r.X, Y: l.A.Q.Y + r.Y}
}

func (l *Length) worldB() mat.Vec2 {
	r := l.B.Rotation().MultV(l.RB)
	return mat.Vec2{X: l.B.Q.X + r.X, Y: l.B.Q.Y + r.Y}
}

// Bodies implements Force.
func (l *Length) Bodies() []*Body { return []*Body{l.A, l.B} }

// Rows implements Force.
func (l *Length) Rows() []*Row { return []*Row{l.row} }

// Disabled implements Force.
func (l *Length) Disabled() bool { return l.disabled }

// Disable implements Force.
func (l *Length) Disable() { l.disabled = true; l.row.disable() }

// Initialize implements Force.
func (l *Length) Initialize() bool { return !l.disabled }

// ComputeConstraints implements Force.
func (l *Length) ComputeConstraints(alpha float64) {
	d := mat.Vec2{}
	wa, wb := l.worldA(), l.worldB()
	d.Sub(wa, wb)
	l.row.C = d.Len() - l.LRest
}

// ComputeDerivatives implements Force. Degenerate zero-length geometry
// zeroes the Jacobian for this row (spec.md section 7).
func (l *Length) ComputeDerivatives(b *Body) {
	d := mat.Vec2{}
	wa, wb := l.worldA(), l.worldB()
	d.Sub(wa, wb)
	dist := d.Len()
	if dist < Epsilon {
		if b == l.A {
			l.row.J[0] = mat.Vec3{}
		} else if b == l.B {
			l.row.J[1] = mat.Vec3{}
		}
		return
	}
	n := mat.Vec2{}
	n.Unit(d)
	if b == l.A {
		r := l.A.Rotation().MultV(l.RA)
		l.row.J[0] = mat.Vec3{X: n.X, Y: n.Y, Z: n.Dot(r.Perp())}
		return
	}
	if b == l.B {
		r := l.B.Rotation().MultV(l.RB)
		l.row.J[1] = mat.Vec3{X: -n.X, Y: -n.Y, Z: -n.Dot(r.Perp())}
	}
}

// RenderPoints implements Force.
func (l *Length) RenderPoints() []ContactPoint { return nil }

// RenderLines implements Force.
func (l *Length) RenderLines() []ContactLine {
	wa, wb := l.worldA(), l.worldB()
	return []ContactLine{{A: ContactPoint{X: wa.X, Y: wa.Y}, B: ContactPoint{X: wb.X, Y: wb.Y}, Thickness: 0.3}}
}

func (l *Length) detach(b *Body) {
	if b == l.A {
		l.A.detachForce(l)
	} else if b == l.B {
		l.B.detachForce(l)
	}
	l.Disable()
}
