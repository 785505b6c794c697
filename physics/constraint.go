// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/brynphys/avbd2d/mat"
)

// Row is one scalar relation C(q)=0 (or an inequality-bounded force) that
// contributes to the augmented Lagrangian L(q,lambda) = 1/2*kappa*C^2 +
// lambda*C. A Force owns 1-4 rows; each row's J and H are stored per
// participating body, indexed in the same order as Force.Bodies().
type Row struct {
	C float64      // current constraint value
	J []mat.Vec3   // Jacobian, one 3-vector per body
	H []mat.Mat3   // Hessian, one 3x3 block per body

	K     float64 // stiffness; math.Inf(1) means hard (enforced via Lambda)
	Kappa float64 // penalty, kept in [KappaMin, min(KappaMax, K)]
	Lambda float64 // dual multiplier

	Fmin, Fmax float64 // force bounds, used for friction cones and fracture

	Fracture float64 // |Lambda| >= Fracture disables the owning Force; math.Inf(1) disables fracture
}

// newRow returns a Row with n body slots, hard stiffness, no bounds, and no
// fracture threshold.
func newRow(n int) *Row {
	return &Row{
		J:        make([]mat.Vec3, n),
		H:        make([]mat.Mat3, n),
		K:        math.Inf(1),
		Kappa:    KappaMin,
		Fmin:     math.Inf(-1),
		Fmax:     math.Inf(1),
		Fracture: math.Inf(1),
	}
}

// IsHard reports whether the row's stiffness is infinite, i.e. enforced via
// the dual multiplier rather than a finite penalty spring.
func (r *Row) IsHard() bool { return math.IsInf(r.K, 1) }

// force returns the row's current clamped force magnitude kappa*C + lambda
// (lambda only contributes for hard rows, per the invariant of spec.md
// section 3).
func (r *Row) force() float64 {
	lambdaLocal := 0.0
	if r.IsHard() {
		lambdaLocal = r.Lambda
	}
	return mat.Clamp(r.Kappa*r.C+lambdaLocal, r.Fmin, r.Fmax)
}

// decay applies warm-start decay at the top of a step: hard rows decay
// Lambda by alpha*gamma and Kappa by gamma, soft rows decay only Kappa by
// gamma (unless postStabilization, in which case both kinds just decay
// Kappa by gamma and keep Lambda).
// Kappa is then reclamped to [KappaMin, min(KappaMax, K)].
func (r *Row) decay(alpha, gamma float64, postStabilization bool) {
	if postStabilization {
		r.Kappa *= gamma
	} else if r.IsHard() {
		r.Lambda *= alpha * gamma
		r.Kappa *= gamma
	} else {
		r.Kappa *= gamma
	}
	upper := r.K
	if upper > KappaMax {
		upper = KappaMax
	}
	r.Kappa = mat.Clamp(r.Kappa, KappaMin, upper)
}

// updateDual performs the per-iteration dual ascent and penalty growth for
// one row (spec.md section 4.6 step 5c). beta is the penalty growth rate.
// It reports whether the row just crossed its fracture threshold.
func (r *Row) updateDual(beta float64) (fractured bool) {
	lambdaLocal := 0.0
	if r.IsHard() {
		lambdaLocal = r.Lambda
	}
	r.Lambda = mat.Clamp(lambdaLocal+r.Kappa*r.C, r.Fmin, r.Fmax)
	if math.Abs(r.Lambda) >= r.Fracture {
		return true
	}
	if r.Lambda > r.Fmin+Epsilon && r.Lambda < r.Fmax-Epsilon {
		upper := r.K
		if upper > KappaMax {
			upper = KappaMax
		}
		r.Kappa = math.Min(r.Kappa+beta*math.Abs(r.C), upper)
	}
	return false
}

// disable zeroes a row's stiffness, penalty and dual so it contributes
// nothing to any future step, per the fracture-latching law (spec.md
// section 8).
func (r *Row) disable() {
	r.K = 0
	r.Kappa = 0
	r.Lambda = 0
	r.Fmin, r.Fmax = 0, 0
}

// ContactPoint is a world-space render hint produced by a Force or Energy.
type ContactPoint struct{ X, Y float64 }

// ContactLine is a render hint for a constraint's visual "strength" as a
// line between two world-space points. Thickness >= 0.5 is conventionally
// rendered strong, 0.4..0.5 medium, else weak -- a renderer policy, not
// enforced here.
type ContactLine struct {
	A, B      ContactPoint
	Thickness float64
}

// Force is a constraint that contributes rows to the augmented Lagrangian.
// Concrete forces are Joint, Spring, Length, TriArea and Manifold.
type Force interface {
	// Bodies returns the participating bodies in Jacobian-index order.
	Bodies() []*Body
	// Rows returns the force's constraint rows.
	Rows() []*Row

	// Initialize runs once per Step before the main iteration loop. It
	// returns false to request removal (e.g. a separated contact, or a
	// disabled joint): the caller detaches and discards the force.
	Initialize() bool
	// ComputeConstraints fills every row's C for the current pose, using
	// the Taylor-stabilized form C = C(q) - (1-alpha)*C0 for hard rows.
	ComputeConstraints(alpha float64)
	// ComputeDerivatives fills the Jacobian/Hessian entries touching b
	// only.
	ComputeDerivatives(b *Body)

	// Disabled reports whether the force has fractured and gone dormant.
	Disabled() bool
	// Disable marks every row disabled; the force's next Initialize then
	// returns false, so the next Step detaches and discards it.
	Disable()

	// RenderPoints/RenderLines report this step's render hints.
	RenderPoints() []ContactPoint
	RenderLines() []ContactLine

	// detach unlinks the force from body b and, if that leaves it with
	// too few participants, disables it.
	detach(b *Body)
}
