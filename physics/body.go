// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import "github.com/brynphys/avbd2d/mat"

// Body is a rigid rectangular region (width W, height H) or a point
// particle (W=H=0). A zero-mass Body is static: it is never moved by the
// solver and skips the gravity term during inertial prediction.
type Body struct {
	Q mat.Vec3 // pose: (x, y, theta)
	V mat.Vec3 // velocity: (xdot, ydot, thetadot)

	W, H float64 // half of the body's footprint is derived from these
	Rho  float64 // density; Mass = Rho*W*H

	Mass    float64 // 0 => static
	InvMass float64 // 0 when static
	I       float64 // moment of inertia
	InvI    float64 // 0 when static

	Radius float64 // bounding radius, r = 0.5*sqrt(W*W+H*H)
	Mu     float64 // friction coefficient in [0,1]

	Color string // wire-format hex color, carried through for rendering

	// Scratch fields, valid only during/after Solver.Step.
	PrevV             mat.Vec3 // velocity before this step's integration, for adaptive warm-start
	LastQ             mat.Vec3 // pose at the start of this step
	QInertial         mat.Vec3 // free-flight prediction (gravity + previous velocity)
	IsDragged         bool
	AddedDragVelocity mat.Vec3

	forces   []Force
	energies []Energy
}

// NewBody returns a Body with footprint w,h and density rho centered at the
// origin with zero velocity. rho=0 produces a static body.
func NewBody(w, h, rho float64) *Body {
	b := &Body{W: w, H: h, Rho: rho, Mu: 0.5, Color: "#888888"}
	b.Mass = rho * w * h
	if b.Mass > Epsilon {
		b.InvMass = 1.0 / b.Mass
		b.I = b.Mass * (w*w + h*h) / 12.0
		if b.I > Epsilon {
			b.InvI = 1.0 / b.I
		}
	}
	b.Radius = 0.5 * mat.Vec2{X: w, Y: h}.Len()
	return b
}

// NewParticle returns a zero-size dynamic Body of the given mass, used as a
// vertex of a soft-body energy element. Particles have zero moment of
// inertia: their angular row is inert.
func NewParticle(mass float64) *Body {
	b := &Body{Mu: 0.5, Color: "#888888"}
	b.Mass = mass
	if mass > Epsilon {
		b.InvMass = 1.0 / mass
	}
	return b
}

// IsStatic reports whether the body has zero mass and is therefore never
// moved by the solver.
func (b *Body) IsStatic() bool { return b.Mass <= Epsilon }

// Rotation returns the 2x2 rotation matrix for the body's current
// orientation theta.
func (b *Body) Rotation() mat.Mat2 { return mat.Rot2(b.Q.Z) }

// SetVelocity sets the body's velocity. A no-op on static bodies, per the
// invariant that static bodies never move.
func (b *Body) SetVelocity(v mat.Vec3) {
	if b.IsStatic() {
		return
	}
	b.V = v
}

// SetPose sets the body's pose directly (used by scene loading and drag
// interaction), bypassing the solver's integration.
func (b *Body) SetPose(q mat.Vec3) { b.Q = q }

// IsConstrainedTo reports whether some force or energy currently attaches
// both b and other.
func (b *Body) IsConstrainedTo(other *Body) bool {
	for _, f := range b.forces {
		for _, p := range f.Bodies() {
			if p == other {
				return true
			}
		}
	}
	for _, e := range b.energies {
		for _, p := range e.Bodies() {
			if p == other {
				return true
			}
		}
	}
	return false
}

// Forces returns the forces currently attached to b.
func (b *Body) Forces() []Force { return b.forces }

// Energies returns the energies currently attached to b.
func (b *Body) Energies() []Energy { return b.energies }

// attachForce appends f to b's back-reference list. Called by force
// constructors, never by solver code directly, so the invariant "b.forces
// equals {f : b in f.Bodies()}" holds by construction.
func (b *Body) attachForce(f Force) { b.forces = append(b.forces, f) }

// detachForce removes f from b's back-reference list.
func (b *Body) detachForce(f Force) {
	for i, g := range b.forces {
		if g == f {
			b.forces = append(b.forces[:i], b.forces[i+1:]...)
			return
		}
	}
}

// attachEnergy appends e to b's back-reference list.
func (b *Body) attachEnergy(e Energy) { b.energies = append(b.energies, e) }

// detachEnergy removes e from b's back-reference list.
func (b *Body) detachEnergy(e Energy) {
	for i, g := range b.energies {
		if g == e {
			b.energies = append(b.energies[:i], b.energies[i+1:]...)
			return
		}
	}
}

// Destroy unlinks b from every force and energy touching it, detaching
// those peers' back-references in turn so the cycle is torn down in both
// directions. Forces/energies left with too few bodies disable themselves;
// the solver prunes disabled entries on the next Step.
func (b *Body) Destroy() {
	for _, f := range append([]Force(nil), b.forces...) {
		for _, peer := range append([]*Body(nil), f.Bodies()...) {
			f.detach(peer)
		}
	}
	for _, e := range append([]Energy(nil), b.energies...) {
		for _, peer := range append([]*Body(nil), e.Bodies()...) {
			e.detach(peer)
		}
	}
	b.forces = nil
	b.energies = nil
}
