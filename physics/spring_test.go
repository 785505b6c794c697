// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/brynphys/avbd2d/mat"
)

func TestSpringConstraintAtRestLength(t *testing.T) {
	a := NewBody(1, 1, 1)
	b := NewBody(1, 1, 1)
	b.Q.X = 5
	s := NewSpring(a, b, mat.Vec2{}, mat.Vec2{}, 5, 100)
	s.ComputeConstraints(1.0)
	if !mat.Aeq(s.row.C, 0) {
		t.Errorf("spring at rest length should have C=0, got %v", s.row.C)
	}
}

func TestSpringConstraintStretched(t *testing.T) {
	a := NewBody(1, 1, 1)
	b := NewBody(1, 1, 1)
	b.Q.X = 8
	s := NewSpring(a, b, mat.Vec2{}, mat.Vec2{}, 5, 100)
	s.ComputeConstraints(1.0)
	if !mat.Aeq(s.row.C, 3) {
		t.Errorf("stretched spring C wrong: got %v want 3", s.row.C)
	}
}

func TestSpringDegenerateZeroDistance(t *testing.T) {
	a := NewBody(1, 1, 1)
	b := NewBody(1, 1, 1)
	s := NewSpring(a, b, mat.Vec2{}, mat.Vec2{}, 5, 100)
	s.ComputeDerivatives(a)
	if s.row.J[0] != (mat.Vec3{}) {
		t.Errorf("degenerate spring should produce a zero Jacobian, got %+v", s.row.J[0])
	}
}
