// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import "github.com/brynphys/avbd2d/mat"

// TriArea constrains three particle bodies to preserve the signed area of
// the triangle they form: C = 1/2*((pB-pA) x (pC-pA)) - A0. Its Hessian is
// zero; only the Jacobian participates in the primal solve.
type TriArea struct {
	A, B, C  *Body
	A0       float64
	row      *Row
	disabled bool
}

// NewTriArea attaches a signed-area constraint to particles a, b, c with
// stiffness k (typically very large, approximating incompressibility).
func NewTriArea(a, b, c *Body, k float64) *TriArea {
	t := &TriArea{A: a, B: b, C: c, row: newRow(3)}
	t.row.K = k
	pb := mat.Vec2{}
	pc := mat.Vec2{}
	pb.Sub(mat.Vec2{X: b.Q.X, Y: b.Q.Y}, mat.Vec2{X: a.Q.X, Y: a.Q.Y})
	pc.Sub(mat.Vec2{X: c.Q.X, Y: c.Q.Y}, mat.Vec2{X: a.Q.X, Y: a.Q.Y})
	t.A0 = 0.5 * pb.Cross(pc)
	a.attachForce(t)
	b.attachForce(t)
	c.attachForce(t)
	return t
}

// Bodies implements Force.
func (t *TriArea) Bodies() []*Body { return []*Body{t.A, t.B, t.C} }

// Rows implements Force.
func (t *TriArea) Rows() []*Row { return []*Row{t.row} }

// Disabled implements Force.
func (t *TriArea) Disabled() bool { return t.disabled }

// Disable implements Force.
func (t *TriArea) Disable() { t.disabled = true; t.row.disable() }

// Initialize implements Force.
func (t *TriArea) Initialize() bool { return !t.disabled }

func (t *TriArea) edges() (pA, pB, pC mat.Vec2) {
	pA = mat.Vec2{X: t.A.Q.X, Y: t.A.Q.Y}
	pB = mat.Vec2{X: t.B.Q.X, Y: t.B.Q.Y}
	pC = mat.Vec2{X: t.C.Q.X, Y: t.C.Q.Y}
	return
}

// ComputeConstraints implements Force.
func (t *TriArea) ComputeConstraints(alpha float64) {
	pA, pB, pC := t.edges()
	ab, ac := mat.Vec2{}, mat.Vec2{}
	ab.Sub(pB, pA)
	ac.Sub(pC, pA)
	t.row.C = 0.5*ab.Cross(ac) - t.A0
}

// ComputeDerivatives implements Force. Each per-vertex Jacobian is the
// signed 90-degree rotation of the opposite edge, scaled by 1/2 (spec.md
// section 4.3.4).
func (t *TriArea) ComputeDerivatives(b *Body) {
	pA, pB, pC := t.edges()
	switch b {
	case t.A:
		e := mat.Vec2{}
		e.Sub(pC, pB)
		g := e.Perp()
		t.row.J[0] = mat.Vec3{X: 0.5 * g.X, Y: 0.5 * g.Y}
	case t.B:
		e := mat.Vec2{}
		e.Sub(pA, pC)
		g := e.Perp()
		t.row.J[1] = mat.Vec3{X: 0.5 * g.X, Y: 0.5 * g.Y}
	case t.C:
		e := mat.Vec2{}
		e.Sub(pB, pA)
		g := e.Perp()
		t.row.J[2] = mat.Vec3{X: 0.5 * g.X, Y: 0.5 * g.Y}
	}
}

// RenderPoints implements Force.
func (t *TriArea) RenderPoints() []ContactPoint { return nil }

// RenderLines implements Force.
func (t *TriArea) RenderLines() []ContactLine { return nil }

func (t *TriArea) detach(b *Body) {
	switch b {
	case t.A:
		t.A.detachForce(t)
	case t.B:
		t.B.detachForce(t)
	case t.C:
		t.C.detachForce(t)
	}
	t.Disable()
}
