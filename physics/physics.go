// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

// Package physics is a real-time simulation of 2D rigid-body and soft-body
// dynamics using Augmented Vertex Block Descent (AVBD): a primal-dual block
// coordinate descent solver on the augmented Lagrangian of a constraint
// system. Physics applies simulated forces and energies to bodies and
// updates their pose and velocity once per Solver.Step.
//
// Package physics is provided as part of the avbd2d engine.
package physics

// physics.go exposes the package-level API consumed by the scene driver.
// Package layout:
//
//	body.go       : rigid body state
//	constraint.go : the Row type and Force interface shared by all constraints
//	joint.go      : two-body positional+angular joint
//	spring.go     : soft distance spring
//	length.go     : compliance-based distance constraint
//	triarea.go    : triangle-area preservation constraint
//	manifold.go   : box-box SAT + Sutherland-Hodgman contact manifold
//	energy.go     : the Energy interface and shared Hessian projection
//	neohookean.go : Neo-Hookean triangle energy
//	stvk.go       : St. Venant-Kirchhoff triangle energy
//	broad.go      : bounding-circle broadphase pair prune
//	solver.go     : Step orchestration

import "log/slog"

// ProjectionMode selects how an energy's analytic Hessian eigenvalues are
// made safe for a descent step.
type ProjectionMode uint8

const (
	// ProjectClamp floors negative eigenvalues at Epsilon.
	ProjectClamp ProjectionMode = iota
	// ProjectAbsolute takes the absolute value, floored at Epsilon.
	ProjectAbsolute
	// ProjectAdaptive chooses Clamp or Absolute per-step based on the
	// trust-region ratio rho.
	ProjectAdaptive
)

func (m ProjectionMode) String() string {
	switch m {
	case ProjectAbsolute:
		return "absolute"
	case ProjectAdaptive:
		return "adaptive"
	default:
		return "clamp"
	}
}

// Default solver tuning, matching the reference implementation.
const (
	DefaultDt         = 1.0 / 60.0
	DefaultIterations = 10
	DefaultAlpha      = 0.99
	DefaultBeta       = 1e5
	DefaultBetaEnergy = 10.0
	DefaultGamma      = 0.99

	// KappaMin and KappaMax bound every row's penalty parameter.
	KappaMin = 1.0
	KappaMax = 1e9

	// Epsilon is the small-number floor used throughout the solver to
	// avoid division by zero and to detect degenerate geometry.
	Epsilon = 1e-6
)

var log = slog.Default()
