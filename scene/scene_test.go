// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/brynphys/avbd2d/physics"
)

const sampleYAML = `
static:
  - position: [0, -5]
    rotation: 0
    scale: [50, 2]
    density: 0
    friction: 0.5
    color: "#333333"
dynamic:
  - position: [0, 10]
    rotation: 0
    scale: [2, 2]
    density: 1
    initVelocity: [0, 0, 0]
jointForces:
  - bodyBIndex: 1
    rAOffset: [0, 0]
    rBOffset: [0, -1]
    stiffness: [1e9, 1e9, 1e9]
    fracture: .inf
springForces: []
`

func TestLoadParsesWireFormat(t *testing.T) {
	d, err := Load([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(d.Static) != 1 || len(d.Dynamic) != 1 {
		t.Fatalf("expected 1 static and 1 dynamic object, got %d/%d", len(d.Static), len(d.Dynamic))
	}
	if len(d.JointForces) != 1 {
		t.Fatalf("expected 1 joint force, got %d", len(d.JointForces))
	}
	if d.JointForces[0].BodyAIndex != nil {
		t.Errorf("expected a nil bodyAIndex (world anchor), got %v", *d.JointForces[0].BodyAIndex)
	}
}

func TestBuildWiresBodiesAndJoint(t *testing.T) {
	d, err := Load([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s := physics.NewSolver()
	bodies := Build(s, d)
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	if !bodies[0].IsStatic() {
		t.Errorf("first body (density 0) should be static")
	}
	if bodies[1].IsStatic() {
		t.Errorf("second body (density 1) should be dynamic")
	}
	if len(bodies[1].Forces()) == 0 {
		t.Errorf("dynamic body should have the world joint attached")
	}
}

func TestBuildClothGridIsDeterministic(t *testing.T) {
	p := FixtureParams{Rows: 3, Cols: 3, Spacing: 1}
	s1 := physics.NewSolver()
	s2 := physics.NewSolver()
	b1 := BuildClothGrid(s1, p)
	b2 := BuildClothGrid(s2, p)
	if len(b1) != len(b2) {
		t.Fatalf("grid sizes differ: %d vs %d", len(b1), len(b2))
	}
	for i := range b1 {
		if b1[i].Q != b2[i].Q {
			t.Errorf("body %d initial pose differs across identical builds: %+v vs %+v", i, b1[i].Q, b2[i].Q)
		}
	}
	for i := 0; i < 20; i++ {
		s1.Step(s1.Dt)
		s2.Step(s2.Dt)
	}
	for i := range b1 {
		if b1[i].Q != b2[i].Q {
			t.Errorf("body %d pose diverged after stepping two identically-built solvers: %+v vs %+v", i, b1[i].Q, b2[i].Q)
		}
	}
}

func TestBuildHexSoftBodyProducesSevenParticles(t *testing.T) {
	s := physics.NewSolver()
	bodies := BuildHexSoftBody(s, FixtureParams{Spacing: 1})
	if len(bodies) != 7 {
		t.Fatalf("expected 7 particles (1 center + 6 ring), got %d", len(bodies))
	}
	for _, b := range bodies {
		if len(b.Energies()) == 0 {
			t.Errorf("every hex body should participate in at least one Neo-Hookean element")
		}
	}
}

func TestBuildCantileverBeamAnchorsLastColumn(t *testing.T) {
	s := physics.NewSolver()
	p := FixtureParams{Rows: 2, Cols: 3, Spacing: 1}
	bodies := BuildCantileverBeam(s, p)
	anchored := 0
	for _, b := range bodies {
		if b.IsStatic() {
			anchored++
		}
	}
	if anchored != p.Rows {
		t.Errorf("expected %d anchor bodies (one per row), got %d", p.Rows, anchored)
	}
}

func TestOutOfBoundsCulling(t *testing.T) {
	s := physics.NewSolver()
	inside := physics.NewBody(1, 1, 1)
	outside := physics.NewBody(1, 1, 1)
	outside.Q.X = 1000
	s.AddBody(inside)
	s.AddBody(outside)

	n := CullOutOfBounds(s)
	if n != 1 {
		t.Fatalf("expected to cull exactly 1 body, culled %d", n)
	}
	if len(s.Bodies) != 1 || s.Bodies[0] != inside {
		t.Errorf("expected only the inside body to remain")
	}
}

func TestDriverCapsCatchUpSubsteps(t *testing.T) {
	s := physics.NewSolver()
	d := NewDriver(s)
	ran := d.Advance(100 * s.Dt) // far more than maxCatchUpSubsteps worth
	if ran != maxCatchUpSubsteps {
		t.Errorf("expected Advance to cap at %d substeps, ran %d", maxCatchUpSubsteps, ran)
	}
	if d.accumulator != 0 {
		t.Errorf("expected leftover accumulator to be discarded after a catch-up cap, got %v", d.accumulator)
	}
}

func TestDriverRunsExactSubsteps(t *testing.T) {
	s := physics.NewSolver()
	d := NewDriver(s)
	ran := d.Advance(2.5 * s.Dt)
	if ran != 2 {
		t.Errorf("expected 2 whole substeps from 2.5 ticks of accumulated time, got %d", ran)
	}
}
