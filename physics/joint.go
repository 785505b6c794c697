// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/brynphys/avbd2d/mat"
)

// Joint rigidly (or softly, via Stiffness) connects two bodies at local
// anchor points rA, rB, or a single body to a fixed world anchor when B is
// nil. It has three rows: two translation rows and one angular row. The
// angular row carries the joint's fracture threshold; crossing it disables
// the whole joint.
//
// A drag handle is just a one-body Joint with a large linear Stiffness
// whose world anchor is updated every pointer-move.
type Joint struct {
	A, B   *Body
	RA, RB mat.Vec2 // local anchor offsets

	worldAnchor mat.Vec2 // used only when B == nil
	thetaRest   float64

	rows      [3]*Row
	c0        mat.Vec3
	ell       float64 // L = |sA+sB|^2, the torque-arm surrogate
	disabled  bool
}

// NewJoint attaches A and B at local anchors rA, rB with the given
// stiffness (linear x, linear y, angular) and angular fracture threshold.
// If B is nil the joint pins A to worldAnchor instead.
func NewJoint(a, b *Body, rA, rB mat.Vec2, stiffness mat.Vec3, fracture float64) *Joint {
	if a == nil {
		log.Error("joint constructed with no primary body; dropping")
		return nil
	}
	j := &Joint{A: a, B: b, RA: rA, RB: rB}
	for i := range j.rows {
		j.rows[i] = newRow(2)
	}
	j.rows[0].K = stiffness.X
	j.rows[1].K = stiffness.Y
	j.rows[2].K = stiffness.Z
	j.rows[2].Fracture = fracture

	j.captureRest()
	a.attachForce(j)
	if b != nil {
		b.attachForce(j)
	}
	return j
}

// NewWorldJoint pins body a's local anchor rA to the fixed world point
// anchor. Used for the drag handle and for world-anchored pendulums.
func NewWorldJoint(a *Body, rA mat.Vec2, anchor mat.Vec2, stiffness mat.Vec3, fracture float64) *Joint {
	j := NewJoint(a, nil, rA, mat.Vec2{}, stiffness, fracture)
	if j == nil {
		return nil
	}
	j.worldAnchor = anchor
	j.captureRest()
	return j
}

// SetWorldAnchor updates the world anchor of a one-body joint, used by the
// drag-handle interaction each pointer-move.
func (j *Joint) SetWorldAnchor(anchor mat.Vec2) { j.worldAnchor = anchor }

// worldA/worldB return the current world-space anchor positions.
func (j *Joint) worldA() mat.Vec2 {
	r := j.A.Rotation().MultV(j.RA)
	return mat.Vec2{X: j.A.Q.X + r.X, Y: j.A.Q.Y + r.Y}
}

func (j *Joint) worldB() mat.Vec2 {
	if j.B == nil {
		return j.worldAnchor
	}
	r := j.B.Rotation().MultV(j.RB)
	return mat.Vec2{X: j.B.Q.X + r.X, Y: j.B.Q.Y + r.Y}
}

func (j *Joint) thetaB() float64 {
	if j.B == nil {
		return 0
	}
	return j.B.Q.Z
}

func (j *Joint) captureRest() {
	wa, wb := j.worldA(), j.worldB()
	sA := j.A.Rotation().MultV(j.RA)
	var sB mat.Vec2
	if j.B != nil {
		sB = j.B.Rotation().MultV(j.RB)
	}
	sum := mat.Vec2{X: sA.X + sB.X, Y: sA.Y + sB.Y}
	j.ell = sum.Dot(sum)
	if j.ell < Epsilon {
		j.ell = Epsilon
	}
	j.thetaRest = j.A.Q.Z - j.thetaB()
	j.c0 = mat.Vec3{
		X: wa.X - wb.X,
		Y: wa.Y - wb.Y,
		Z: (j.A.Q.Z - j.thetaB() - j.thetaRest) * j.ell,
	}
}

// Bodies implements Force.
func (j *Joint) Bodies() []*Body {
	if j.B == nil {
		return []*Body{j.A}
	}
	return []*Body{j.A, j.B}
}

// Rows implements Force.
func (j *Joint) Rows() []*Row { return j.rows[:] }

// Disabled implements Force.
func (j *Joint) Disabled() bool { return j.disabled }

// Disable implements Force.
func (j *Joint) Disable() {
	j.disabled = true
	for _, r := range j.rows {
		r.disable()
	}
}

// Initialize implements Force. A Joint never self-removes except when
// fractured (handled by the dual update, not here); it always returns true
// unless disabled.
func (j *Joint) Initialize() bool { return !j.disabled }

// ComputeConstraints implements Force.
func (j *Joint) ComputeConstraints(alpha float64) {
	wa, wb := j.worldA(), j.worldB()
	raw := mat.Vec3{
		X: wa.X - wb.X,
		Y: wa.Y - wb.Y,
		Z: (j.A.Q.Z - j.thetaB() - j.thetaRest) * j.ell,
	}
	// The Taylor-stabilized form C = C(q) - (1-alpha)*C0 applies only to
	// hard (infinite-stiffness) rows; soft rows use the raw constraint
	// value (spec.md section 4.3).
	j.rows[0].C = raw.X
	if j.rows[0].IsHard() {
		j.rows[0].C -= (1 - alpha) * j.c0.X
	}
	j.rows[1].C = raw.Y
	if j.rows[1].IsHard() {
		j.rows[1].C -= (1 - alpha) * j.c0.Y
	}
	j.rows[2].C = raw.Z
	if j.rows[2].IsHard() {
		j.rows[2].C -= (1 - alpha) * j.c0.Z
	}
}

// ComputeDerivatives implements Force.
func (j *Joint) ComputeDerivatives(b *Body) {
	if b == j.A {
		r := j.A.Rotation().MultV(j.RA)
		j.rows[0].J[0] = mat.Vec3{X: 1, Y: 0, Z: -r.Y}
		j.rows[1].J[0] = mat.Vec3{X: 0, Y: 1, Z: r.X}
		j.rows[2].J[0] = mat.Vec3{X: 0, Y: 0, Z: j.ell}
		return
	}
	if j.B != nil && b == j.B {
		r := j.B.Rotation().MultV(j.RB)
		j.rows[0].J[1] = mat.Vec3{X: -1, Y: 0, Z: r.Y}
		j.rows[1].J[1] = mat.Vec3{X: 0, Y: -1, Z: -r.X}
		j.rows[2].J[1] = mat.Vec3{X: 0, Y: 0, Z: -j.ell}
	}
}

// RenderPoints implements Force.
func (j *Joint) RenderPoints() []ContactPoint {
	wa := j.worldA()
	return []ContactPoint{{X: wa.X, Y: wa.Y}}
}

// RenderLines implements Force. Thickness is derived from the magnitude of
// the translation rows' current force so more-loaded joints render stronger.
func (j *Joint) RenderLines() []ContactLine {
	wa, wb := j.worldA(), j.worldB()
	mag := math.Hypot(j.rows[0].force(), j.rows[1].force())
	thickness := mat.Clamp(mag/1000.0, 0.2, 1.0)
	return []ContactLine{{
		A:         ContactPoint{X: wa.X, Y: wa.Y},
		B:         ContactPoint{X: wb.X, Y: wb.Y},
		Thickness: thickness,
	}}
}

func (j *Joint) detach(b *Body) {
	if b == j.A {
		j.A.detachForce(j)
		j.Disable()
	} else if j.B != nil && b == j.B {
		j.B.detachForce(j)
		j.Disable()
	}
}
