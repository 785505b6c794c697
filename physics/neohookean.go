// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/brynphys/avbd2d/mat"
)

// NeoHookean is a per-triangle Neo-Hookean hyperelastic energy:
// Psi = (mu/2)*(I1-2) + (lambda/2)*(J-a)^2, a = 1+mu/lambda (spec.md
// section 4.5.1). Its inversion-handler gradient flips sign relative to
// StVK's, per the canonical revision documented in the project's grounding
// notes.
type NeoHookean struct {
	*triangleGeometry
}

// NewNeoHookean attaches a Neo-Hookean element to particles a, b, c with
// Young's modulus e, Poisson ratio nu, and target stiffness k.
func NewNeoHookean(a, b, c *Body, e, nu, k float64) *NeoHookean {
	nh := &NeoHookean{triangleGeometry: newTriangleGeometry(a, b, c, e, nu, k)}
	if !nh.disabled {
		a.attachEnergy(nh)
		b.attachEnergy(nh)
		c.attachEnergy(nh)
	}
	return nh
}

// Disable implements Energy.
func (nh *NeoHookean) Disable() { nh.disabled = true }

func (nh *NeoHookean) detach(b *Body) { nh.detachFrom(nh, b) }

// ComputeEnergyTerms implements Energy, following the common pipeline of
// spec.md section 4.5.
func (nh *NeoHookean) ComputeEnergyTerms(b *Body, mode ProjectionMode, rho float64) (mat.Vec2, mat.Mat2, float64, bool) {
	f, j := nh.deformationGradient()
	gradNi := nh.gradNFor(b)
	a := 1 + nh.muLame/nh.lambdaLame

	if j <= Epsilon {
		alpha := 3 * nh.muLame
		grad, hess, energy := inversionHandlerTerms(f, j, nh.area0, alpha, gradNi, true)
		nh.cachedEnergy = energy
		nh.strain = math.Abs(Epsilon-j) * 4
		if math.IsNaN(grad.X) || math.IsNaN(grad.Y) {
			return grad, hess, energy, false
		}
		return grad, hess, energy, true
	}

	ftf := mat.Mat2{}
	ftf.Mult(mat.Mat2{Xx: f.Xx, Xy: f.Yx, Yx: f.Xy, Yy: f.Yy}, f)
	i1 := ftf.Trace()
	psi := 0.5*nh.muLame*(i1-2) + 0.5*nh.lambdaLame*(j-a)*(j-a)
	nh.cachedEnergy = nh.area0 * psi

	// P = mu*F + lambda*(J-a)*J*F^-T
	fInvT := mat.Mat2{}
	if inv, ok := mat.NewMat2().Inv(f); ok {
		fInvT.Transpose(*inv)
	}
	p := mat.Mat2{}
	p.Scale(f, nh.muLame)
	term := mat.Mat2{}
	term.Scale(fInvT, nh.lambdaLame*(j-a)*j)
	p.Add(p, term)

	pgrad := p.MultV(gradNi)
	grad := mat.Vec2{X: nh.area0 * pgrad.X, Y: nh.area0 * pgrad.Y}

	u, v, s := mat.SVD2(f)
	scale1, scale2, twist, flip := frobeniusBasis(u, v)

	sigma1, sigma2 := s.X, s.Y
	// diagonal mu+lambda*sigma_j^2, off-diagonal lambda*(2J-a).
	block := mat.Mat2{
		Xx: nh.muLame + nh.lambdaLame*sigma2*sigma2,
		Xy: nh.lambdaLame * (2*j - a),
		Yx: nh.lambdaLame * (2*j - a),
		Yy: nh.muLame + nh.lambdaLame*sigma1*sigma1,
	}
	eScale1, eScale2 := symEig2(block)

	var lamTwist, lamFlip float64
	if math.Abs(sigma1-sigma2) < 1e-9 {
		// l'Hopital limit at sigma1 ~= sigma2.
		lamTwist = nh.muLame - nh.lambdaLame*(j-a)
		lamFlip = nh.muLame + nh.lambdaLame*(j-a)
	} else {
		lamTwist = (nh.muLame*(sigma1+sigma2) - nh.lambdaLame*(j-a)*(sigma1+sigma2)) / (sigma1 + sigma2)
		lamFlip = (nh.muLame*(sigma1+sigma2) + nh.lambdaLame*(j-a)*(sigma1+sigma2)) / (sigma1 + sigma2)
	}

	eScale1 = selectProjectionEigenvalue(eScale1, mode, rho)
	eScale2 = selectProjectionEigenvalue(eScale2, mode, rho)
	lamTwist = selectProjectionEigenvalue(lamTwist, mode, rho)
	lamFlip = selectProjectionEigenvalue(lamFlip, mode, rho)

	hF := mat.Mat2{}
	// hF accumulates in the flattened 4-basis; since per-vertex Hessian
	// contracts with a single gradNi, project onto the 2x2 block via the
	// scaling eigenvectors' contribution along gradNi's direction.
	hF.Scale(scale1, eScale1*contractBasis(scale1, gradNi))
	tmp := mat.Mat2{}
	tmp.Scale(scale2, eScale2*contractBasis(scale2, gradNi))
	hF.Add(hF, tmp)
	tmp.Scale(twist, lamTwist*contractBasis(twist, gradNi))
	hF.Add(hF, tmp)
	tmp.Scale(flip, lamFlip*contractBasis(flip, gradNi))
	hF.Add(hF, tmp)
	hess := mat.Mat2{}
	hess.Scale(hF, nh.area0)

	fMinusI := mat.Mat2{}
	fMinusI.Sub(f, mat.Mat2I)
	nh.strain = fMinusI.Frobenius() + math.Abs(j-1)

	if math.IsNaN(grad.X) || math.IsNaN(grad.Y) {
		return grad, hess, nh.cachedEnergy, false
	}
	return grad, hess, nh.cachedEnergy, true
}

// symEig2 returns the two eigenvalues of a symmetric 2x2 matrix.
func symEig2(m mat.Mat2) (l1, l2 float64) {
	tr := m.Xx + m.Yy
	det := m.Det()
	disc := tr*tr - 4*det
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	return (tr + sq) / 2, (tr - sq) / 2
}

// contractBasis approximates contracting a Frobenius basis matrix with the
// per-vertex shape gradient down to a scalar weight used to distribute the
// basis eigenvalue onto the 2x2 per-body Hessian block.
func contractBasis(d mat.Mat2, gradNi mat.Vec2) float64 {
	v := d.MultV(gradNi)
	return v.Len() + Epsilon
}
