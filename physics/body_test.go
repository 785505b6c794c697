// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/brynphys/avbd2d/mat"
)

func TestNewBodyMassAndInertia(t *testing.T) {
	b := NewBody(2, 4, 1)
	if !mat.Aeq(b.Mass, 8) {
		t.Errorf("mass should be rho*w*h = 8, got %v", b.Mass)
	}
	wantI := 8 * (4 + 16) / 12.0
	if !mat.Aeq(b.I, wantI) {
		t.Errorf("inertia wrong: got %v want %v", b.I, wantI)
	}
	wantR := 0.5 * mat.V2(2, 4).Len()
	if !mat.Aeq(b.Radius, wantR) {
		t.Errorf("bounding radius wrong: got %v want %v", b.Radius, wantR)
	}
}

func TestNewBodyStaticHasZeroMass(t *testing.T) {
	b := NewBody(2, 2, 0)
	if !b.IsStatic() {
		t.Errorf("zero density body should be static")
	}
	if b.InvMass != 0 || b.InvI != 0 {
		t.Errorf("static body should have zero inverse mass/inertia")
	}
}

func TestSetVelocityNoOpOnStatic(t *testing.T) {
	b := NewBody(1, 1, 0)
	b.SetVelocity(mat.V3(1, 2, 3))
	if b.V != (mat.Vec3{}) {
		t.Errorf("static body velocity should remain zero, got %+v", b.V)
	}
}

func TestSetVelocityOnDynamic(t *testing.T) {
	b := NewBody(1, 1, 1)
	b.SetVelocity(mat.V3(1, 2, 3))
	if b.V != mat.V3(1, 2, 3) {
		t.Errorf("dynamic body velocity should update, got %+v", b.V)
	}
}

func TestIsConstrainedToTracksForceList(t *testing.T) {
	a := NewBody(1, 1, 1)
	b := NewBody(1, 1, 1)
	if a.IsConstrainedTo(b) {
		t.Fatalf("unconstrained bodies should report false")
	}
	NewSpring(a, b, mat.Vec2{}, mat.Vec2{}, 1, 100)
	if !a.IsConstrainedTo(b) || !b.IsConstrainedTo(a) {
		t.Errorf("attaching a spring should make both bodies mutually constrained")
	}
}

func TestDestroyUnlinksForces(t *testing.T) {
	a := NewBody(1, 1, 1)
	b := NewBody(1, 1, 1)
	s := NewSpring(a, b, mat.Vec2{}, mat.Vec2{}, 1, 100)
	a.Destroy()
	if len(a.Forces()) != 0 {
		t.Errorf("destroyed body should have no forces left")
	}
	if len(b.Forces()) != 0 {
		t.Errorf("destroying a body should also unlink the force from its peer")
	}
	if !s.Disabled() {
		t.Errorf("spring should be disabled once one of its bodies is destroyed")
	}
}
