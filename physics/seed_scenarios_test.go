// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"
	"testing"

	"github.com/brynphys/avbd2d/mat"
)

// TestTwoBoxStackSettlesAtRest is seed scenario 2 of spec.md section 8: two
// stacked boxes on a static floor come to rest with at least two
// persistent manifolds.
func TestTwoBoxStackSettlesAtRest(t *testing.T) {
	s := NewSolver()
	s.Gravity = mat.V2(0, -9.81)

	floor := NewBody(50, 2, 0)
	floor.Q = mat.V3(0, -5, 0)
	lower := NewBody(2, 2, 1)
	lower.Q = mat.V3(0, -3.5, 0)
	upper := NewBody(2, 2, 1)
	upper.Q = mat.V3(0, -1.5, 0)

	s.AddBody(floor)
	s.AddBody(lower)
	s.AddBody(upper)

	steps := int(5.0 / s.Dt)
	for i := 0; i < steps; i++ {
		s.Step(s.Dt)
		if s.UrgentStop {
			t.Fatalf("solver tripped urgent_stop at step %d", i)
		}
	}

	if lower.V.Len() > 1e-3*10 {
		t.Errorf("lower box should be near rest, |v|=%v", lower.V.Len())
	}
	if upper.V.Len() > 1e-3*10 {
		t.Errorf("upper box should be near rest, |v|=%v", upper.V.Len())
	}

	manifolds := 0
	for _, f := range s.forces {
		if _, ok := f.(*Manifold); ok {
			manifolds++
		}
	}
	if manifolds < 2 {
		t.Errorf("expected at least 2 persistent manifolds (floor-lower, lower-upper), got %d", manifolds)
	}
}

// TestFracturingJointDisablesUnderTorque is seed scenario 4: a joint with
// angular stiffness infinite but a finite fracture threshold should disable
// once the inertial torque from gravity exceeds it, after which the bodies
// separate under gravity.
func TestFracturingJointDisablesUnderTorque(t *testing.T) {
	s := NewSolver()
	s.Gravity = mat.V2(0, -9.81)

	anchor := NewBody(0, 0, 0)
	lower := NewBody(1, 4, 1)
	lower.Q = mat.V3(3, 0, 0)

	s.AddBody(anchor)
	s.AddBody(lower)

	j := NewJoint(anchor, lower, mat.Vec2{}, mat.V2(0, 2), mat.V3(1e9, 1e9, math.Inf(1)), 100)

	fractured := false
	for i := 0; i < int(3.0/s.Dt); i++ {
		s.Step(s.Dt)
		if s.UrgentStop {
			t.Fatalf("solver tripped urgent_stop at step %d", i)
		}
		if j.Disabled() {
			fractured = true
			break
		}
	}
	if !fractured {
		t.Errorf("expected the joint to fracture under the swing torque within 3s")
	}
}

// TestNeoHookeanHexCellStaysUninverted is seed scenario 5: a hex cell of
// soft-body triangle elements resting on a floor under gravity should
// deform without inverting over an extended run.
func TestNeoHookeanHexCellStaysUninverted(t *testing.T) {
	s := NewSolver()
	s.Gravity = mat.V2(0, -9.81)

	floor := NewBody(50, 2, 0)
	floor.Q = mat.V3(0, -5, 0)
	s.AddBody(floor)

	center := NewParticle(1)
	center.Q = mat.V3(0, -2, 0)
	s.AddBody(center)

	ring := make([]*Body, 6)
	for i := 0; i < 6; i++ {
		theta := float64(i) * math.Pi / 3.0
		b := NewParticle(1)
		b.Q = mat.V3(3*math.Cos(theta), -2+3*math.Sin(theta), 0)
		s.AddBody(b)
		ring[i] = b
	}
	elements := make([]*NeoHookean, 6)
	for i := 0; i < 6; i++ {
		elements[i] = NewNeoHookean(center, ring[i], ring[(i+1)%6], 3000, 0.3, 1e4)
	}

	steps := int(10.0 / s.Dt)
	for i := 0; i < steps; i++ {
		s.Step(s.Dt)
		if s.UrgentStop {
			t.Fatalf("solver tripped urgent_stop at step %d", i)
		}
		for k, el := range elements {
			_, j := el.deformationGradient()
			if j <= 0.2 {
				t.Fatalf("element %d inverted below J=0.2 (J=%v) at step %d", k, j, i)
			}
		}
	}
}

// TestCantileverBeamCollapsesWithoutNaN is seed scenario 6: a pinned grid of
// StVK elements sags under gravity without producing NaN poses or inverted
// elements.
func TestCantileverBeamCollapsesWithoutNaN(t *testing.T) {
	s := NewSolver()
	s.Gravity = mat.V2(0, -9.81)

	const rows, cols = 5, 6
	grid := make([][]*Body, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]*Body, cols)
		for c := 0; c < cols; c++ {
			b := NewParticle(1)
			b.Q = mat.V3(float64(c), -float64(r), 0)
			s.AddBody(b)
			grid[r][c] = b
		}
	}
	var elements []*StVK
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			tl, tr := grid[r][c], grid[r][c+1]
			bl, br := grid[r+1][c], grid[r+1][c+1]
			elements = append(elements, NewStVK(tl, tr, bl, 300, 0.33, 1e4))
			elements = append(elements, NewStVK(tr, br, bl, 300, 0.33, 1e4))
		}
	}
	for r := 0; r < rows; r++ {
		anchor := NewBody(0, 0, 0)
		anchor.Q = grid[r][cols-1].Q
		s.AddBody(anchor)
		NewJoint(anchor, grid[r][cols-1], mat.Vec2{}, mat.Vec2{}, mat.V3(1e9, 1e9, 1e9), math.Inf(1))
	}

	tipStart := grid[rows/2][0].Q.Y
	for i := 0; i < int(2.0/s.Dt); i++ {
		s.Step(s.Dt)
		if s.UrgentStop {
			t.Fatalf("solver tripped urgent_stop at step %d", i)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				q := grid[r][c].Q
				if math.IsNaN(q.X) || math.IsNaN(q.Y) || math.IsNaN(q.Z) {
					t.Fatalf("body (%d,%d) pose went NaN at step %d", r, c, i)
				}
			}
		}
		for k, el := range elements {
			_, j := el.deformationGradient()
			if j <= 0 {
				t.Fatalf("element %d inverted (J=%v) at step %d", k, j, i)
			}
		}
	}
	tipEnd := grid[rows/2][0].Q.Y
	if tipEnd >= tipStart {
		t.Errorf("unpinned mid-tip should sag downward under gravity, start=%v end=%v", tipStart, tipEnd)
	}
}
