// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import "github.com/brynphys/avbd2d/mat"

// Energy is a per-triangle hyperelastic force law contributing a gradient
// and Hessian per vertex body per iteration, rather than fixed constraint
// rows. Concrete energies are NeoHookean and StVK.
type Energy interface {
	Bodies() []*Body

	// Initialize runs once per Step; returns false to request removal.
	Initialize() bool

	// ComputeEnergyTerms evaluates this element for body b under the
	// current pose, returning the 2D gradient and Hessian contributed by
	// b plus the scalar cached energy (identical across all three
	// bodies of the same triangle, returned for convenience). A gradient
	// containing NaN signals the caller to trip urgent_stop.
	ComputeEnergyTerms(b *Body, mode ProjectionMode, rho float64) (grad mat.Vec2, hess mat.Mat2, cachedEnergy float64, ok bool)

	// Strain returns the element's current strain measure, used to ramp
	// EffectiveStiffness toward TargetStiffness.
	Strain() float64
	// EffectiveStiffness/TargetStiffness/RampStiffness implement the
	// energy-ramp state machine of spec.md section 4.6 step 5c.
	EffectiveStiffness() float64
	TargetStiffness() float64
	RampStiffness(betaEnergy float64)
	// DecayRamp runs at Initialize time, clamping EffectiveStiffness into
	// [Epsilon, TargetStiffness] after applying gamma decay.
	DecayRamp(gamma float64)

	CachedEnergy() float64

	Disabled() bool
	Disable()

	RenderPoints() []ContactPoint

	detach(b *Body)
}

// triangleGeometry is the shared rest-state and per-step deformation
// gradient bookkeeping common to NeoHookean and StVK (spec.md section 3,
// "Energy element").
type triangleGeometry struct {
	A, B, C *Body

	dm, dmInv mat.Mat2
	area0     float64
	gradN0, gradN1, gradN2 mat.Vec2

	e, nu       float64 // Young's modulus, Poisson ratio
	lambdaLame, muLame float64

	targetK, effK float64

	cachedEnergy float64
	strain       float64

	disabled bool
}

func newTriangleGeometry(a, b, c *Body, e, nu, targetK float64) *triangleGeometry {
	g := &triangleGeometry{A: a, B: b, C: c, e: e, nu: nu, targetK: targetK, effK: 1.0}
	g.muLame = e / (2 * (1 + nu))
	g.lambdaLame = e * nu / ((1 + nu) * (1 - 2*nu))

	pa, pb, pc := g.positions()
	e1, e2 := mat.Vec2{}, mat.Vec2{}
	e1.Sub(pb, pa)
	e2.Sub(pc, pa)
	g.dm = mat.Mat2{Xx: e1.X, Xy: e2.X, Yx: e1.Y, Yy: e2.Y}
	inv, ok := mat.NewMat2().Inv(g.dm)
	if !ok {
		log.Error("degenerate triangle rest shape; dropping energy element")
		g.disabled = true
		return g
	}
	g.dmInv = *inv
	g.area0 = 0.5 * e1.Cross(e2)
	if g.area0 < 0 {
		g.area0 = -g.area0
	}

	// shape-function gradients: columns of Dm^-T, with gradN0 = -gradN1-gradN2.
	dmInvT := mat.Mat2{}
	dmInvT.Transpose(g.dmInv)
	g.gradN1 = mat.Vec2{X: dmInvT.Xx, Y: dmInvT.Yx}
	g.gradN2 = mat.Vec2{X: dmInvT.Xy, Y: dmInvT.Yy}
	g.gradN0 = mat.Vec2{X: -g.gradN1.X - g.gradN2.X, Y: -g.gradN1.Y - g.gradN2.Y}
	return g
}

func (g *triangleGeometry) positions() (pa, pb, pc mat.Vec2) {
	pa = mat.Vec2{X: g.A.Q.X, Y: g.A.Q.Y}
	pb = mat.Vec2{X: g.B.Q.X, Y: g.B.Q.Y}
	pc = mat.Vec2{X: g.C.Q.X, Y: g.C.Q.Y}
	return
}

// deformationGradient returns the current F = Ds*Dm^-1 and J = det F.
func (g *triangleGeometry) deformationGradient() (f mat.Mat2, j float64) {
	pa, pb, pc := g.positions()
	e1, e2 := mat.Vec2{}, mat.Vec2{}
	e1.Sub(pb, pa)
	e2.Sub(pc, pa)
	ds := mat.Mat2{Xx: e1.X, Xy: e2.X, Yx: e1.Y, Yy: e2.Y}
	f.Mult(ds, g.dmInv)
	return f, f.Det()
}

// gradNFor returns this element's shape-function gradient for body b.
func (g *triangleGeometry) gradNFor(b *Body) mat.Vec2 {
	switch b {
	case g.A:
		return g.gradN0
	case g.B:
		return g.gradN1
	case g.C:
		return g.gradN2
	}
	return mat.Vec2{}
}

func (g *triangleGeometry) Bodies() []*Body { return []*Body{g.A, g.B, g.C} }

func (g *triangleGeometry) Initialize() bool { return !g.disabled }

func (g *triangleGeometry) Strain() float64              { return g.strain }
func (g *triangleGeometry) EffectiveStiffness() float64  { return g.effK }
func (g *triangleGeometry) TargetStiffness() float64     { return g.targetK }
func (g *triangleGeometry) CachedEnergy() float64        { return g.cachedEnergy }
func (g *triangleGeometry) Disabled() bool               { return g.disabled }

func (g *triangleGeometry) RampStiffness(betaEnergy float64) {
	g.effK = mat.Clamp(g.effK+betaEnergy*g.strain, Epsilon, g.targetK)
}

func (g *triangleGeometry) DecayRamp(gamma float64) {
	g.effK = mat.Clamp(g.effK*gamma, Epsilon, g.targetK)
}

func (g *triangleGeometry) RenderPoints() []ContactPoint { return nil }

// detachFrom unlinks energy e (the concrete NeoHookean/StVK embedding g)
// from body b's back-reference list and disables the element.
func (g *triangleGeometry) detachFrom(e Energy, b *Body) {
	switch b {
	case g.A:
		g.A.detachEnergy(e)
	case g.B:
		g.B.detachEnergy(e)
	case g.C:
		g.C.detachEnergy(e)
	}
	g.disabled = true
}

// selectProjectionEigenvalue maps a raw analytic eigenvalue to a safe one
// per the chosen projection mode (spec.md section 4.5.3).
func selectProjectionEigenvalue(lambda float64, mode ProjectionMode, rho float64) float64 {
	useAbsolute := mode == ProjectAbsolute
	if mode == ProjectAdaptive {
		useAbsolute = rho < 1-0.01 || rho > 1+0.01
	}
	if useAbsolute {
		v := lambda
		if v < 0 {
			v = -v
		}
		if v < Epsilon {
			return Epsilon
		}
		return v
	}
	if lambda < Epsilon {
		return Epsilon
	}
	return lambda
}

// frobeniusBasis builds the four 2x2 "D" basis matrices (scaling1,
// scaling2, twist, flip) from the SVD factors of F, per spec.md section
// 4.5: Dij = ui (x) vj, twist = (D12-D21)/sqrt(2), flip = (D12+D21)/sqrt(2).
func frobeniusBasis(u, v mat.Mat2) (scale1, scale2, twist, flip mat.Mat2) {
	u1 := mat.Vec2{X: u.Xx, Y: u.Yx}
	u2 := mat.Vec2{X: u.Xy, Y: u.Yy}
	v1 := mat.Vec2{X: v.Xx, Y: v.Yx}
	v2 := mat.Vec2{X: v.Xy, Y: v.Yy}

	d11, d22 := mat.Mat2{}, mat.Mat2{}
	d11.Outer(u1, v1)
	d22.Outer(u2, v2)
	d12, d21 := mat.Mat2{}, mat.Mat2{}
	d12.Outer(u1, v2)
	d21.Outer(u2, v1)

	const invSqrt2 = 0.7071067811865476
	twist = mat.Mat2{}
	twist.Sub(d12, d21)
	twist.Scale(twist, invSqrt2)
	flip = mat.Mat2{}
	flip.Add(d12, d21)
	flip.Scale(flip, invSqrt2)
	return d11, d22, twist, flip
}

// inversionHandlerTerms computes the shared fallback used by both energy
// models when an element inverts (J <= Epsilon): gradient toward J=Epsilon
// and a diagonal penalty Hessian (spec.md section 4.5, step 2).
func inversionHandlerTerms(f mat.Mat2, j, area0, alphaPenalty float64, gradNi mat.Vec2, negateGradient bool) (grad mat.Vec2, hess mat.Mat2, energy float64) {
	// cof(F) for a 2x2 matrix [[a,b],[c,d]] is [[d,-c],[-b,a]].
	cof := mat.Mat2{Xx: f.Yy, Xy: -f.Yx, Yx: -f.Xy, Yy: f.Xx}
	diff := Epsilon - j
	scale := area0 * alphaPenalty * diff
	if negateGradient {
		scale = -scale
	}
	cofGrad := cof.MultV(gradNi)
	grad = mat.Vec2{X: scale * cofGrad.X, Y: scale * cofGrad.Y}
	penalty := area0 * alphaPenalty
	hess = mat.Mat2{Xx: penalty, Yy: penalty}
	energy = area0 * alphaPenalty * diff * diff
	return grad, hess, energy
}
