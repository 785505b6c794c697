// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/brynphys/avbd2d/mat"
)

func triangleParticles() (a, b, c *Body) {
	a = NewParticle(1)
	b = NewParticle(1)
	c = NewParticle(1)
	b.Q.X = 1
	c.Q.Y = 1
	return
}

func TestTriAreaRestConstraintIsZero(t *testing.T) {
	a, b, c := triangleParticles()
	tri := NewTriArea(a, b, c, 1e4)
	tri.ComputeConstraints(1.0)
	if !mat.Aeq(tri.row.C, 0) {
		t.Errorf("triangle at its rest configuration should have C=0, got %v", tri.row.C)
	}
}

func TestTriAreaDetectsExpansion(t *testing.T) {
	a, b, c := triangleParticles()
	tri := NewTriArea(a, b, c, 1e4)
	b.Q.X = 2 // double the base, doubling the area
	tri.ComputeConstraints(1.0)
	if tri.row.C <= 0 {
		t.Errorf("expanded triangle should have positive signed-area deviation, got %v", tri.row.C)
	}
}
