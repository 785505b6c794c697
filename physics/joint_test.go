// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"
	"testing"

	"github.com/brynphys/avbd2d/mat"
)

func TestJointZeroConstraintAtRest(t *testing.T) {
	a := NewBody(1, 1, 1)
	b := NewBody(1, 1, 1)
	b.Q.X = 2
	j := NewJoint(a, b, mat.V2(1, 0), mat.V2(-1, 0), mat.V3(1e4, 1e4, 1e4), math.Inf(1))
	j.ComputeConstraints(1.0)
	for i, row := range j.rows {
		if math.Abs(row.C) > 1e-9 {
			t.Errorf("row %d should be zero right after construction at alpha=1, got %v", i, row.C)
		}
	}
}

func TestJointDisableZeroesRows(t *testing.T) {
	a := NewBody(1, 1, 1)
	b := NewBody(1, 1, 1)
	j := NewJoint(a, b, mat.Vec2{}, mat.Vec2{}, mat.V3(100, 100, 100), 50)
	j.Disable()
	if !j.Disabled() {
		t.Fatalf("joint should report disabled")
	}
	for _, row := range j.rows {
		if row.K != 0 || row.Kappa != 0 || row.Lambda != 0 {
			t.Errorf("disabled joint rows should be zeroed, got %+v", row)
		}
	}
}

func TestWorldJointSingleBody(t *testing.T) {
	a := NewBody(1, 1, 1)
	j := NewWorldJoint(a, mat.Vec2{}, mat.V2(5, 5), mat.V3(1e4, 1e4, 1e4), math.Inf(1))
	if len(j.Bodies()) != 1 {
		t.Errorf("world joint should report exactly one body, got %d", len(j.Bodies()))
	}
}
