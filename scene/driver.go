// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package scene

import "github.com/brynphys/avbd2d/physics"

// maxCatchUpSubsteps bounds how many fixed-step substeps a single Advance
// call will run before giving up and discarding the remainder of the
// accumulated time, avoiding a spiral of death when the caller falls behind
// (spec.md section 6.5).
const maxCatchUpSubsteps = 5

// Driver advances a Solver at a fixed tick using an accumulator, decoupling
// the solver's timestep from the caller's (typically variable) frame rate.
type Driver struct {
	Solver *physics.Solver

	accumulator float64
	stepsRun    int64
	substepsHit int64 // count of Advance calls that discarded leftover time
}

// NewDriver returns a Driver wrapping solver, ticking at solver.Dt.
func NewDriver(solver *physics.Solver) *Driver {
	return &Driver{Solver: solver}
}

// Advance accumulates frameDt of wall-clock time and runs as many fixed
// Dt substeps as have accumulated, capped at maxCatchUpSubsteps per call.
// Returns the number of substeps actually run.
func (d *Driver) Advance(frameDt float64) int {
	dt := d.Solver.Dt
	if dt <= 0 {
		return 0
	}
	d.accumulator += frameDt

	ran := 0
	for d.accumulator >= dt && ran < maxCatchUpSubsteps {
		d.Solver.Step(dt)
		d.accumulator -= dt
		ran++
		d.stepsRun++
	}
	if ran == maxCatchUpSubsteps && d.accumulator >= dt {
		// Too far behind: drop the remainder rather than spiral.
		d.accumulator = 0
		d.substepsHit++
	}
	return ran
}

// StepsRun returns the total number of solver substeps this driver has run
// over its lifetime.
func (d *Driver) StepsRun() int64 { return d.stepsRun }

// Reset clears the accumulator without affecting the underlying solver.
func (d *Driver) Reset() { d.accumulator = 0 }
