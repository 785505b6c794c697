// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"
	"testing"

	"github.com/brynphys/avbd2d/mat"
)

func TestFallingBoxSettlesOnFloor(t *testing.T) {
	s := NewSolver()
	s.Gravity = mat.V2(0, -9.81)

	floor := NewBody(50, 2, 0)
	floor.Q = mat.V3(0, -5, 0)
	box := NewBody(2, 2, 1)
	box.Q = mat.V3(0, 10, 0)

	s.AddBody(floor)
	s.AddBody(box)

	for i := 0; i < 120; i++ {
		s.Step(s.Dt)
		if s.UrgentStop {
			t.Fatalf("solver tripped urgent_stop at step %d", i)
		}
	}

	wantY := -5.0 + 1.0 + 1.0 // floor top (half-height 1) + box half-height 1
	if math.Abs(box.Q.Y-wantY) > 0.2 {
		t.Errorf("box should have settled near y=%v, got %v", wantY, box.Q.Y)
	}
	if math.Abs(box.Q.Z) > 0.2 {
		t.Errorf("box should remain roughly unrotated resting on a flat floor, got theta=%v", box.Q.Z)
	}
}

func TestKappaStaysWithinBounds(t *testing.T) {
	s := NewSolver()
	floor := NewBody(50, 2, 0)
	floor.Q = mat.V3(0, -5, 0)
	box := NewBody(2, 2, 1)
	box.Q = mat.V3(0, -3.9, 0)
	s.AddBody(floor)
	s.AddBody(box)

	for i := 0; i < 30; i++ {
		s.Step(s.Dt)
	}
	for _, f := range s.forces {
		for _, row := range f.Rows() {
			upper := row.K
			if upper > KappaMax {
				upper = KappaMax
			}
			if row.Kappa < KappaMin-1e-6 || row.Kappa > upper+1e-6 {
				t.Errorf("row kappa %v outside [%v,%v]", row.Kappa, KappaMin, upper)
			}
		}
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	s := NewSolver()
	floor := NewBody(50, 2, 0)
	floor.Q = mat.V3(0, -5, 0)
	box := NewBody(2, 2, 1)
	box.Q = mat.V3(0, 0, 0)
	s.AddBody(floor)
	s.AddBody(box)
	for i := 0; i < 10; i++ {
		s.Step(s.Dt)
	}
	if floor.Q != mat.V3(0, -5, 0) {
		t.Errorf("static floor should never move, got %+v", floor.Q)
	}
}

func TestPausedStepIsNoOp(t *testing.T) {
	s := NewSolver()
	box := NewBody(1, 1, 1)
	box.Q = mat.V3(0, 10, 0)
	s.AddBody(box)
	s.Paused = true
	s.Step(s.Dt)
	if box.Q != mat.V3(0, 10, 0) {
		t.Errorf("paused solver should not move any body")
	}
}

func TestPendulumReturnsNearStartingAngle(t *testing.T) {
	s := NewSolver()
	s.Gravity = mat.V2(0, -9.81)
	bob := NewParticle(1)
	bob.Q = mat.V3(5, 0, 0)
	s.AddBody(bob)
	NewLength(bob, anchorBody(s), mat.Vec2{}, mat.Vec2{}, 5, 0)

	steps := int(4.49 / s.Dt)
	for i := 0; i < steps; i++ {
		s.Step(s.Dt)
		if s.UrgentStop {
			t.Fatalf("solver tripped urgent_stop at step %d", i)
		}
	}
	startAngle := math.Atan2(0, 5)
	endAngle := math.Atan2(bob.Q.Y, bob.Q.X)
	if math.Abs(endAngle-startAngle) > 0.1 {
		t.Errorf("pendulum should return near its starting angle after one period, got delta=%v", endAngle-startAngle)
	}
}

// anchorBody returns a static particle at the origin that the pendulum
// test's Length constraint pins against.
func anchorBody(s *Solver) *Body {
	anchor := NewBody(0, 0, 0)
	s.AddBody(anchor)
	return anchor
}
