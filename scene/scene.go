// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

// Package scene loads a wire-format scene description into a physics.Solver
// and drives it at a fixed tick using an accumulator pattern. It is the one
// package in this module that deals in degrees, hex colors and YAML: the
// physics package itself only ever sees radians and typed values.
//
// Package scene is provided as part of the avbd2d engine.
package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/brynphys/avbd2d/mat"
	"github.com/brynphys/avbd2d/physics"
)

// Description is the wire-format scene: the result of unmarshaling a scene
// YAML document. Rotation is in degrees in the wire format and converted to
// radians at load time (spec.md section 6.1).
type Description struct {
	Static       []ObjectDesc `yaml:"static"`
	Dynamic      []ObjectDesc `yaml:"dynamic"`
	JointForces  []JointDesc  `yaml:"jointForces"`
	SpringForces []SpringDesc `yaml:"springForces"`

	// Hardcoded, if set, selects a fixture builder instead of (or in
	// addition to) Static/Dynamic: "clothGrid", "hexSoftBody" or
	// "cantileverBeam".
	Hardcoded string         `yaml:"hardcoded,omitempty"`
	Fixture   FixtureParams  `yaml:"fixtureParams,omitempty"`
}

// ObjectDesc describes one rigid body in the wire format.
type ObjectDesc struct {
	Position     [2]float64 `yaml:"position"`
	Rotation     float64    `yaml:"rotation"` // degrees
	InitVelocity [3]float64 `yaml:"initVelocity"`
	Scale        [2]float64 `yaml:"scale"` // width, height
	Density      float64    `yaml:"density"`
	Friction     float64    `yaml:"friction"`
	Color        string     `yaml:"color"`
}

// JointDesc describes a two-body (or one-body, world-anchored) joint.
type JointDesc struct {
	BodyAIndex *int       `yaml:"bodyAIndex"` // nil => world anchor
	BodyBIndex int        `yaml:"bodyBIndex"`
	RAOffset   [2]float64 `yaml:"rAOffset"`
	RBOffset   [2]float64 `yaml:"rBOffset"`
	Stiffness  [3]float64 `yaml:"stiffness"` // linear x, linear y, angular
	Fracture   float64    `yaml:"fracture"`
}

// SpringDesc describes a two-body soft spring.
type SpringDesc struct {
	BodyAIndex int        `yaml:"bodyAIndex"`
	BodyBIndex int        `yaml:"bodyBIndex"`
	RAOffset   [2]float64 `yaml:"rAOffset"`
	RBOffset   [2]float64 `yaml:"rBOffset"`
	Stiffness  float64    `yaml:"stiffness"`
	RestLength float64    `yaml:"restLength"`
}

// FixtureParams parameterizes the hardcoded fixture builders. Identical
// parameters always yield an identical body/force/energy layout (spec.md
// section 6.1).
type FixtureParams struct {
	Rows       int     `yaml:"rows,omitempty"`
	Cols       int     `yaml:"cols,omitempty"`
	Spacing    float64 `yaml:"spacing,omitempty"`
	Origin     [2]float64 `yaml:"origin,omitempty"`
	Mass       float64 `yaml:"mass,omitempty"`
	YoungsE    float64 `yaml:"youngsE,omitempty"`
	PoissonNu  float64 `yaml:"poissonNu,omitempty"`
	Stiffness  float64 `yaml:"stiffness,omitempty"`
}

// Load parses a scene description from YAML bytes.
func Load(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("scene: parse failed: %w", err)
	}
	return &d, nil
}

// Build populates solver with the bodies, forces and energies described by
// d, returning the dynamic+static bodies in file order (index i corresponds
// to JointDesc/SpringDesc's bodyIndex, with Static bodies first, then
// Dynamic, matching Build's own append order).
func Build(solver *physics.Solver, d *Description) []*physics.Body {
	var bodies []*physics.Body

	addObject := func(o ObjectDesc, rho float64) *physics.Body {
		b := physics.NewBody(o.Scale[0], o.Scale[1], rho)
		b.Q = mat.V3(o.Position[0], o.Position[1], mat.Rad(o.Rotation))
		b.V = mat.V3(o.InitVelocity[0], o.InitVelocity[1], o.InitVelocity[2])
		if o.Friction > 0 {
			b.Mu = o.Friction
		}
		if o.Color != "" {
			b.Color = o.Color
		}
		solver.AddBody(b)
		return b
	}

	for _, o := range d.Static {
		bodies = append(bodies, addObject(o, 0))
	}
	for _, o := range d.Dynamic {
		rho := o.Density
		if rho <= 0 {
			rho = 1
		}
		bodies = append(bodies, addObject(o, rho))
	}

	for _, jd := range d.JointForces {
		var a, b *physics.Body
		if jd.BodyAIndex != nil {
			a = bodies[*jd.BodyAIndex]
		}
		b = bodies[jd.BodyBIndex]
		rA := mat.V2(jd.RAOffset[0], jd.RAOffset[1])
		rB := mat.V2(jd.RBOffset[0], jd.RBOffset[1])
		stiffness := mat.V3(jd.Stiffness[0], jd.Stiffness[1], jd.Stiffness[2])
		if a == nil {
			physics.NewWorldJoint(b, rB, rA, stiffness, jd.Fracture)
		} else {
			physics.NewJoint(a, b, rA, rB, stiffness, jd.Fracture)
		}
	}

	for _, sd := range d.SpringForces {
		a := bodies[sd.BodyAIndex]
		b := bodies[sd.BodyBIndex]
		rA := mat.V2(sd.RAOffset[0], sd.RAOffset[1])
		rB := mat.V2(sd.RBOffset[0], sd.RBOffset[1])
		physics.NewSpring(a, b, rA, rB, sd.RestLength, sd.Stiffness)
	}

	switch d.Hardcoded {
	case "clothGrid":
		bodies = append(bodies, BuildClothGrid(solver, d.Fixture)...)
	case "hexSoftBody":
		bodies = append(bodies, BuildHexSoftBody(solver, d.Fixture)...)
	case "cantileverBeam":
		bodies = append(bodies, BuildCantileverBeam(solver, d.Fixture)...)
	}

	return bodies
}

// WorldBounds is the reference culling rectangle of spec.md section 6.5.
var WorldBounds = struct{ MinX, MaxX, MinY, MaxY float64 }{-400, 400, -300, 300}

// OutOfBounds reports whether b's position has left WorldBounds. The outer
// driver, not the solver, decides whether and when to act on this.
func OutOfBounds(b *physics.Body) bool {
	return b.Q.X < WorldBounds.MinX || b.Q.X > WorldBounds.MaxX ||
		b.Q.Y < WorldBounds.MinY || b.Q.Y > WorldBounds.MaxY
}

// CullOutOfBounds removes and destroys every body in solver.Bodies that has
// left WorldBounds, returning the count removed. Not called by Solver.Step
// itself: the owning driver opts in by calling this between steps.
func CullOutOfBounds(solver *physics.Solver) int {
	var doomed []*physics.Body
	for _, b := range solver.Bodies {
		if OutOfBounds(b) {
			doomed = append(doomed, b)
		}
	}
	for _, b := range doomed {
		solver.RemoveBody(b)
	}
	return len(doomed)
}
