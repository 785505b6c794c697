// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"
	"time"

	"github.com/brynphys/avbd2d/mat"
)

// Solver owns the bodies, forces and energies of one scene and advances
// them one fixed tick at a time via Step, implementing Augmented Vertex
// Block Descent (spec.md section 4.6).
type Solver struct {
	Bodies   []*Body
	forces   []Force
	energies []Energy

	Dt         float64
	Gravity    mat.Vec2
	Iterations int

	Alpha      float64
	Beta       float64
	BetaEnergy float64
	Gamma      float64

	UseEnergyRamp     bool
	PostStabilization bool
	ProjectionMode    ProjectionMode

	rho            float64 // trust-region ratio
	prevTotalEnergy float64

	Paused     bool
	UrgentStop bool

	contactsToRender     []ContactPoint
	contactLinesToRender []ContactLine

	stepTimes []time.Duration // sliding window for performance accounting
}

// NewSolver returns a Solver with the default tuning of spec.md section 3.
func NewSolver() *Solver {
	return &Solver{
		Dt:             DefaultDt,
		Gravity:        mat.Vec2{X: 0, Y: -9.81},
		Iterations:     DefaultIterations,
		Alpha:          DefaultAlpha,
		Beta:           DefaultBeta,
		BetaEnergy:     DefaultBetaEnergy,
		Gamma:          DefaultGamma,
		ProjectionMode: ProjectClamp,
		rho:            1.0,
	}
}

// Parameter-surface setters (spec.md section 6.2). All take effect on the
// next Step.
func (s *Solver) SetGravity(g mat.Vec2)            { s.Gravity = g }
func (s *Solver) SetAlpha(a float64)               { s.Alpha = a }
func (s *Solver) SetBeta(b float64)                { s.Beta = b }
func (s *Solver) SetBetaEnergy(b float64)           { s.BetaEnergy = b }
func (s *Solver) SetGamma(g float64)                { s.Gamma = g }
func (s *Solver) SetPostStabilization(on bool)      { s.PostStabilization = on }
func (s *Solver) SetProjectionMode(m ProjectionMode) { s.ProjectionMode = m }
func (s *Solver) SetUseEnergyRamp(on bool)          { s.UseEnergyRamp = on }

// SetIterations sets the main loop's iteration count; values below 1 are
// clamped to 1.
func (s *Solver) SetIterations(n int) {
	if n < 1 {
		n = 1
	}
	s.Iterations = n
}

// AddBody registers a body with the solver's scene.
func (s *Solver) AddBody(b *Body) { s.Bodies = append(s.Bodies, b) }

// RemoveBody destroys b (unlinking all its forces/energies) and removes it
// from the solver's body list.
func (s *Solver) RemoveBody(b *Body) {
	b.Destroy()
	for i, c := range s.Bodies {
		if c == b {
			s.Bodies = append(s.Bodies[:i], s.Bodies[i+1:]...)
			return
		}
	}
}

// ContactsToRender/ContactLinesToRender expose this step's render feed
// (spec.md section 6.3). Valid only between steps.
func (s *Solver) ContactsToRender() []ContactPoint      { return s.contactsToRender }
func (s *Solver) ContactLinesToRender() []ContactLine   { return s.contactLinesToRender }

// Step advances the scene by dt, implementing the ordering of spec.md
// section 4.6. A no-op when Paused or UrgentStop is set.
func (s *Solver) Step(dt float64) {
	if s.Paused || s.UrgentStop {
		return
	}
	start := time.Now()

	if math.Abs(dt-s.Dt) > 0.01 {
		log.Warn("step called with drifted timestep", "requested", dt, "solver_dt", s.Dt)
	}

	// 1. Broadphase pairing: attach a fresh Manifold for every newly
	// overlapping, not-yet-constrained pair. broadphasePairs already
	// skips pairs an existing Manifold constrains, so this never
	// duplicates a persistent contact.
	for _, pair := range broadphasePairs(s.Bodies) {
		a, b := s.Bodies[pair[0]], s.Bodies[pair[1]]
		NewManifold(a, b)
	}

	// Rebuild the working force/energy sets as the deduplicated union of
	// every body's attachments, the authoritative source per the
	// body/force back-reference invariant (spec.md section 3). This picks
	// up Joints, Springs, Lengths and TriAreas wired by scene loading or
	// test setup, not just this step's fresh Manifolds.
	s.forces = collectForces(s.Bodies)
	s.energies = collectEnergies(s.Bodies)

	s.contactsToRender = nil
	s.contactLinesToRender = nil

	// 2. Initialize forces.
	kept := s.forces[:0]
	for _, f := range s.forces {
		if !f.Initialize() {
			for _, b := range f.Bodies() {
				f.detach(b)
			}
			continue
		}
		kept = append(kept, f)
		s.contactsToRender = append(s.contactsToRender, f.RenderPoints()...)
		s.contactLinesToRender = append(s.contactLinesToRender, f.RenderLines()...)
		for _, r := range f.Rows() {
			r.decay(s.Alpha, s.Gamma, s.PostStabilization)
		}
	}
	s.forces = kept

	// 3. Initialize energies.
	keptE := s.energies[:0]
	totalEnergy := 0.0
	for _, e := range s.energies {
		if !e.Initialize() {
			for _, b := range e.Bodies() {
				e.detach(b)
			}
			continue
		}
		keptE = append(keptE, e)
		e.DecayRamp(s.Gamma)
		totalEnergy += e.CachedEnergy()
	}
	s.energies = keptE
	s.prevTotalEnergy = totalEnergy

	// 4. Inertial prediction.
	gravity := s.Gravity
	if math.Abs(gravity.X) < Epsilon && math.Abs(gravity.Y) < Epsilon {
		gravity = mat.Vec2{X: 0, Y: 1e-6}
	}
	for _, b := range s.Bodies {
		b.V.Z = mat.Clamp(b.V.Z, -50, 50)
		b.LastQ = b.Q
		if b.IsStatic() {
			continue
		}
		// QInertial is the free-flight target with the full gravity
		// term; only the warm-start pose scales gravity by accWeight.
		b.QInertial = mat.Vec3{
			X: b.Q.X + b.V.X*s.Dt + s.Gravity.X*s.Dt*s.Dt,
			Y: b.Q.Y + b.V.Y*s.Dt + s.Gravity.Y*s.Dt*s.Dt,
			Z: b.Q.Z + b.V.Z*s.Dt,
		}
		accWeight := adaptiveWarmStartWeight(b.PrevV, b.V, gravity, s.Dt)
		disp := mat.Vec3{
			X: b.V.X*s.Dt + accWeight*gravity.X*s.Dt*s.Dt,
			Y: b.V.Y*s.Dt + accWeight*gravity.Y*s.Dt*s.Dt,
			Z: b.V.Z * s.Dt,
		}
		b.Q.Add(b.Q, disp)
	}

	iterations := s.Iterations
	if s.PostStabilization {
		iterations++
	}

	for iter := 0; iter < iterations; iter++ {
		isFinal := s.PostStabilization && iter == iterations-1
		alphaCurrent := s.Alpha
		if isFinal {
			alphaCurrent = 0
		}

		for _, f := range s.forces {
			f.ComputeConstraints(alphaCurrent)
		}

		predictedDecrease := make(map[*Body]float64, len(s.Bodies))

		// 5a. Primal block solve, body by body, insertion order.
		for _, b := range s.Bodies {
			if b.IsStatic() {
				continue
			}
			lhs := mat.Mat3{}
			lhs.SetDiag(b.Mass/(s.Dt*s.Dt), b.Mass/(s.Dt*s.Dt), b.I/(s.Dt*s.Dt))
			diff := mat.Vec3{}
			diff.Sub(b.Q, b.QInertial)
			rhs := lhs.MultV(diff)

			for _, f := range b.Forces() {
				if f.Disabled() {
					continue
				}
				f.ComputeDerivatives(b)
				idx := bodyIndex(f.Bodies(), b)
				if idx < 0 {
					continue
				}
				for _, row := range f.Rows() {
					jLocal := row.J[idx]
					fMag := row.force()
					h := row.H[idx]
					g := mat.Vec3{X: h.Col(0).Len(), Y: h.Col(1).Len(), Z: h.Col(2).Len()}
					absF := math.Abs(fMag)

					rhs.X += fMag * jLocal.X
					rhs.Y += fMag * jLocal.Y
					rhs.Z += fMag * jLocal.Z

					jOuter := mat.Mat3{}
					jOuter.Outer(jLocal, jLocal)
					jOuter.Scale(jOuter, row.Kappa)
					jOuter.Xx += absF * g.X
					jOuter.Yy += absF * g.Y
					jOuter.Zz += absF * g.Z
					lhs.Add(lhs, jOuter)
				}
			}

			gradEnergyTotal := mat.Vec3{}
			for _, e := range b.Energies() {
				if e.Disabled() {
					continue
				}
				grad2, hess2, _, ok := e.ComputeEnergyTerms(b, s.ProjectionMode, s.rho)
				if !ok {
					s.UrgentStop = true
					log.Error("NaN energy gradient encountered; tripping urgent_stop")
					return
				}
				scaledGrad := grad2
				scaledHess := hess2
				if s.UseEnergyRamp {
					ratio := e.EffectiveStiffness() / e.TargetStiffness()
					scaledGrad = mat.Vec2{X: grad2.X * ratio, Y: grad2.Y * ratio}
					scaledHess.Scale(hess2, ratio)
					reg := scaledGrad.Len() * ratio * 0.01
					scaledHess.Xx += reg
					scaledHess.Yy += reg
				}
				rhs.X += scaledGrad.X
				rhs.Y += scaledGrad.Y
				lhs.Xx += scaledHess.Xx
				lhs.Xy += scaledHess.Xy
				lhs.Yx += scaledHess.Yx
				lhs.Yy += scaledHess.Yy

				gradEnergyTotal.X += scaledGrad.X
				gradEnergyTotal.Y += scaledGrad.Y
			}

			// A particle (zero moment of inertia) has an inert angular
			// row: decouple it with a unit pivot and a zero right-hand
			// side so theta is left unchanged.
			if b.I <= Epsilon {
				lhs.Xz, lhs.Yz, lhs.Zx, lhs.Zy = 0, 0, 0, 0
				lhs.Zz = 1
				rhs.Z = 0
			}

			dx, ok := mat.SolveLDLT3(lhs, rhs)
			if !ok {
				s.UrgentStop = true
				log.Error("non-SPD pivot in primal block solve; tripping urgent_stop")
				return
			}
			b.Q.Sub(b.Q, dx)
			predictedDecrease[b] += 0.5 * (dx.X*gradEnergyTotal.X + dx.Y*gradEnergyTotal.Y)
		}

		// 5b. Trust-region update (ADAPTIVE mode only).
		if s.ProjectionMode == ProjectAdaptive {
			currentTotal := 0.0
			for _, e := range s.energies {
				currentTotal += e.CachedEnergy()
			}
			actualDecrease := s.prevTotalEnergy - currentTotal
			predictedTotal := 0.0
			for _, d := range predictedDecrease {
				predictedTotal += d
			}
			if math.Abs(predictedTotal) > 1e-10 {
				s.rho = actualDecrease / predictedTotal
			} else {
				s.rho = 1.0
			}
			s.prevTotalEnergy = currentTotal
		}

		// 5c. Dual + stiffness update, skipped on the final
		// post-stabilization iteration.
		if !isFinal {
			var fracturedForces []Force
			for _, f := range s.forces {
				if f.Disabled() {
					continue
				}
				fractured := false
				for _, row := range f.Rows() {
					if row.updateDual(s.Beta) {
						fractured = true
					}
				}
				if fractured {
					fracturedForces = append(fracturedForces, f)
				}
			}
			for _, f := range fracturedForces {
				f.Disable()
			}
			for _, e := range s.energies {
				if e.Disabled() {
					continue
				}
				e.RampStiffness(s.BetaEnergy)
			}
		}

		// 5d. Post-stabilization velocity extraction: runs after the
		// final alpha=0 iteration, whose pose change is exactly the
		// residual position correction this step folds into velocity
		// (see the Post-stabilization glossary entry).
		if s.PostStabilization && isFinal {
			for _, b := range s.Bodies {
				if b.IsStatic() {
					continue
				}
				b.PrevV = b.V
				diff := mat.Vec3{}
				diff.Sub(b.Q, b.LastQ)
				diff.Scale(diff, 1.0/s.Dt)
				b.V = diff
				if b.IsDragged {
					b.V.Add(b.V, b.AddedDragVelocity)
					b.IsDragged = false
					b.AddedDragVelocity = mat.Vec3{}
				}
			}
		}
	}

	// When post-stabilization is off, velocity extraction still has to
	// happen once after the (only) iteration pass.
	if !s.PostStabilization {
		for _, b := range s.Bodies {
			if b.IsStatic() {
				continue
			}
			b.PrevV = b.V
			diff := mat.Vec3{}
			diff.Sub(b.Q, b.LastQ)
			diff.Scale(diff, 1.0/s.Dt)
			b.V = diff
			if b.IsDragged {
				b.V.Add(b.V, b.AddedDragVelocity)
				b.IsDragged = false
				b.AddedDragVelocity = mat.Vec3{}
			}
		}
	}

	// 6. Performance accounting: sliding 1-second average.
	s.stepTimes = append(s.stepTimes, time.Since(start))
	maxSamples := int(1.0 / s.Dt)
	if maxSamples < 1 {
		maxSamples = 1
	}
	if len(s.stepTimes) > maxSamples {
		s.stepTimes = s.stepTimes[len(s.stepTimes)-maxSamples:]
	}
}

// AverageStepTime returns the sliding average step duration over the last
// second of simulated time (spec.md section 4.6 step 6).
func (s *Solver) AverageStepTime() time.Duration {
	if len(s.stepTimes) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s.stepTimes {
		total += d
	}
	return total / time.Duration(len(s.stepTimes))
}

// collectForces returns the deduplicated union of every body's attached
// forces, in first-seen order, so a multi-body force (e.g. a Joint or
// Manifold touching two bodies) appears exactly once.
func collectForces(bodies []*Body) []Force {
	seen := make(map[Force]bool)
	var out []Force
	for _, b := range bodies {
		for _, f := range b.Forces() {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// collectEnergies returns the deduplicated union of every body's attached
// energies, in first-seen order.
func collectEnergies(bodies []*Body) []Energy {
	seen := make(map[Energy]bool)
	var out []Energy
	for _, b := range bodies {
		for _, e := range b.Energies() {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// bodyIndex returns the index of target within bodies, or -1.
func bodyIndex(bodies []*Body, target *Body) int {
	for i, b := range bodies {
		if b == target {
			return i
		}
	}
	return -1
}

// adaptiveWarmStartWeight estimates what fraction of the previous step's
// acceleration was aligned with gravity, used to scale the gravity term of
// this step's warm-start pose (spec.md section 4.6 step 4).
func adaptiveWarmStartWeight(prevV, v mat.Vec3, gravity mat.Vec2, dt float64) float64 {
	accel := mat.Vec2{X: (v.X - prevV.X) / dt, Y: (v.Y - prevV.Y) / dt}
	gLen := gravity.Len()
	if gLen < Epsilon {
		return 1.0
	}
	weight := accel.Dot(gravity) / (gLen * gLen)
	return mat.Clamp(weight, 0, 1)
}
