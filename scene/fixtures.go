// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package scene

import (
	"math"

	"github.com/brynphys/avbd2d/mat"
	"github.com/brynphys/avbd2d/physics"
)

// Default fixture parameters, used whenever a FixtureParams field is left
// at its zero value.
const (
	defaultRows      = 5
	defaultCols      = 5
	defaultSpacing   = 1.0
	defaultMass      = 1.0
	defaultYoungsE   = 3000.0
	defaultPoissonNu = 0.3
	defaultStiffness = 1e9
)

func fill(p *FixtureParams) {
	if p.Rows <= 0 {
		p.Rows = defaultRows
	}
	if p.Cols <= 0 {
		p.Cols = defaultCols
	}
	if p.Spacing <= 0 {
		p.Spacing = defaultSpacing
	}
	if p.Mass <= 0 {
		p.Mass = defaultMass
	}
	if p.YoungsE <= 0 {
		p.YoungsE = defaultYoungsE
	}
	if p.PoissonNu <= 0 {
		p.PoissonNu = defaultPoissonNu
	}
	if p.Stiffness <= 0 {
		p.Stiffness = defaultStiffness
	}
}

// BuildClothGrid creates a Rows x Cols grid of particles connected by
// triangle-area constraints (two triangles per quad), anchored by nothing:
// the grid falls freely unless the caller pins a row via separate Joints.
// Deterministic: identical params yield an identical grid every call.
func BuildClothGrid(solver *physics.Solver, p FixtureParams) []*physics.Body {
	fill(&p)
	grid := make([][]*physics.Body, p.Rows)
	var all []*physics.Body
	for r := 0; r < p.Rows; r++ {
		grid[r] = make([]*physics.Body, p.Cols)
		for c := 0; c < p.Cols; c++ {
			b := physics.NewParticle(p.Mass)
			b.Q = mat.V3(p.Origin[0]+float64(c)*p.Spacing, p.Origin[1]-float64(r)*p.Spacing, 0)
			solver.AddBody(b)
			grid[r][c] = b
			all = append(all, b)
		}
	}
	for r := 0; r < p.Rows-1; r++ {
		for c := 0; c < p.Cols-1; c++ {
			tl, tr := grid[r][c], grid[r][c+1]
			bl, br := grid[r+1][c], grid[r+1][c+1]
			physics.NewTriArea(tl, tr, bl, p.Stiffness)
			physics.NewTriArea(tr, br, bl, p.Stiffness)
		}
	}
	return all
}

// BuildHexSoftBody creates a central particle surrounded by a ring of six
// particles at radius Spacing*3 (matching the seed scenario of spec.md
// section 8, scenario 5), connected by Neo-Hookean triangle elements
// forming a hexagonal fan.
func BuildHexSoftBody(solver *physics.Solver, p FixtureParams) []*physics.Body {
	fill(&p)
	radius := p.Spacing * 3
	center := physics.NewParticle(p.Mass)
	center.Q = mat.V3(p.Origin[0], p.Origin[1], 0)
	solver.AddBody(center)

	ring := make([]*physics.Body, 6)
	for i := 0; i < 6; i++ {
		theta := float64(i) * math.Pi / 3.0
		b := physics.NewParticle(p.Mass)
		b.Q = mat.V3(p.Origin[0]+radius*math.Cos(theta), p.Origin[1]+radius*math.Sin(theta), 0)
		solver.AddBody(b)
		ring[i] = b
	}
	for i := 0; i < 6; i++ {
		next := ring[(i+1)%6]
		physics.NewNeoHookean(center, ring[i], next, p.YoungsE, p.PoissonNu, p.Stiffness)
	}
	return append([]*physics.Body{center}, ring...)
}

// BuildCantileverBeam creates a Rows x Cols grid of quads, each split into
// two StVK triangles, with the rightmost column pinned to the world via
// infinite-stiffness Joints (matching spec.md section 8, scenario 6).
func BuildCantileverBeam(solver *physics.Solver, p FixtureParams) []*physics.Body {
	fill(&p)
	grid := make([][]*physics.Body, p.Rows)
	var all []*physics.Body
	for r := 0; r < p.Rows; r++ {
		grid[r] = make([]*physics.Body, p.Cols)
		for c := 0; c < p.Cols; c++ {
			b := physics.NewParticle(p.Mass)
			b.Q = mat.V3(p.Origin[0]+float64(c)*p.Spacing, p.Origin[1]-float64(r)*p.Spacing, 0)
			solver.AddBody(b)
			grid[r][c] = b
			all = append(all, b)
		}
	}
	for r := 0; r < p.Rows-1; r++ {
		for c := 0; c < p.Cols-1; c++ {
			tl, tr := grid[r][c], grid[r][c+1]
			bl, br := grid[r+1][c], grid[r+1][c+1]
			physics.NewStVK(tl, tr, bl, p.YoungsE, p.PoissonNu, p.Stiffness)
			physics.NewStVK(tr, br, bl, p.YoungsE, p.PoissonNu, p.Stiffness)
		}
	}
	for r := 0; r < p.Rows; r++ {
		anchor := physics.NewBody(0, 0, 0)
		anchor.Q = grid[r][p.Cols-1].Q
		solver.AddBody(anchor)
		physics.NewJoint(anchor, grid[r][p.Cols-1], mat.Vec2{}, mat.Vec2{}, mat.V3(math.Inf(1), math.Inf(1), math.Inf(1)), math.Inf(1))
		all = append(all, anchor)
	}
	return all
}
