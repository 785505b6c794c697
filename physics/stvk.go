// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/brynphys/avbd2d/mat"
)

// StVK is a per-triangle St. Venant-Kirchhoff hyperelastic energy:
// L = 1/2*(F^T F - I), Psi = mu*tr(L^2) + (lambda/2)*tr(L)^2 (spec.md
// section 4.5.2). Unlike NeoHookean, its inversion-handler gradient does
// not flip sign (spec.md section 9 open question, resolved per the
// project's grounding notes).
type StVK struct {
	*triangleGeometry
}

// NewStVK attaches a StVK element to particles a, b, c with Young's
// modulus e, Poisson ratio nu, and target stiffness k.
func NewStVK(a, b, c *Body, e, nu, k float64) *StVK {
	s := &StVK{triangleGeometry: newTriangleGeometry(a, b, c, e, nu, k)}
	if !s.disabled {
		a.attachEnergy(s)
		b.attachEnergy(s)
		c.attachEnergy(s)
	}
	return s
}

// Disable implements Energy.
func (s *StVK) Disable() { s.disabled = true }

func (s *StVK) detach(b *Body) { s.detachFrom(s, b) }

// ComputeEnergyTerms implements Energy.
func (s *StVK) ComputeEnergyTerms(b *Body, mode ProjectionMode, rho float64) (mat.Vec2, mat.Mat2, float64, bool) {
	f, j := s.deformationGradient()
	gradNi := s.gradNFor(b)

	if j <= Epsilon {
		alpha := 3 * s.muLame
		grad, hess, energy := inversionHandlerTerms(f, j, s.area0, alpha, gradNi, false)
		s.cachedEnergy = energy
		s.strain = math.Abs(Epsilon-j) * 4
		if math.IsNaN(grad.X) || math.IsNaN(grad.Y) {
			return grad, hess, energy, false
		}
		return grad, hess, energy, true
	}

	ftf := mat.Mat2{}
	ftf.Mult(mat.Mat2{Xx: f.Xx, Xy: f.Yx, Yx: f.Xy, Yy: f.Yy}, f)
	l := mat.Mat2{Xx: 0.5 * (ftf.Xx - 1), Xy: 0.5 * ftf.Xy, Yx: 0.5 * ftf.Yx, Yy: 0.5 * (ftf.Yy - 1)}
	trL := l.Trace()
	lSq := mat.Mat2{}
	lSq.Mult(l, l)
	psi := s.muLame*lSq.Trace() + 0.5*s.lambdaLame*trL*trL
	s.cachedEnergy = s.area0 * psi

	// P = F*(lambda*tr(L)*I + 2*mu*L)
	inner := mat.Mat2{Xx: s.lambdaLame*trL + 2*s.muLame*l.Xx, Xy: 2 * s.muLame * l.Xy, Yx: 2 * s.muLame * l.Yx, Yy: s.lambdaLame*trL + 2*s.muLame*l.Yy}
	p := mat.Mat2{}
	p.Mult(f, inner)
	pgrad := p.MultV(gradNi)
	grad := mat.Vec2{X: s.area0 * pgrad.X, Y: s.area0 * pgrad.Y}

	u, v, sv := mat.SVD2(f)
	scale1Basis, scale2Basis, twist, flip := frobeniusBasis(u, v)
	sigma1, sigma2 := sv.X, sv.Y

	eScale1 := s.lambdaLame*(3*sigma1*sigma1+sigma2*sigma2-2)/2 + s.muLame*(3*sigma1*sigma1-1)
	eScale2 := s.lambdaLame*(3*sigma2*sigma2+sigma1*sigma1-2)/2 + s.muLame*(3*sigma2*sigma2-1)
	cross := s.lambdaLame*sigma1*sigma2 + s.muLame*(sigma1*sigma1+sigma2*sigma2-2)
	lamTwist := s.muLame*(sigma1*sigma1+sigma2*sigma2-2) - cross
	lamFlip := s.muLame*(sigma1*sigma1+sigma2*sigma2-2) + cross

	eScale1 = selectProjectionEigenvalue(eScale1, mode, rho)
	eScale2 = selectProjectionEigenvalue(eScale2, mode, rho)
	lamTwist = selectProjectionEigenvalue(lamTwist, mode, rho)
	lamFlip = selectProjectionEigenvalue(lamFlip, mode, rho)

	hF := mat.Mat2{}
	hF.Scale(scale1Basis, eScale1*contractBasis(scale1Basis, gradNi))
	tmp := mat.Mat2{}
	tmp.Scale(scale2Basis, eScale2*contractBasis(scale2Basis, gradNi))
	hF.Add(hF, tmp)
	tmp.Scale(twist, lamTwist*contractBasis(twist, gradNi))
	hF.Add(hF, tmp)
	tmp.Scale(flip, lamFlip*contractBasis(flip, gradNi))
	hF.Add(hF, tmp)
	hess := mat.Mat2{}
	hess.Scale(hF, s.area0)

	s.strain = l.Frobenius() + math.Abs(j-1)

	if math.IsNaN(grad.X) || math.IsNaN(grad.Y) {
		return grad, hess, s.cachedEnergy, false
	}
	return grad, hess, s.cachedEnergy, true
}
