// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package mat

import (
	"math"
	"testing"
)

func TestMat2Inv(t *testing.T) {
	a := Mat2{2, 0, 0, 4}
	inv, ok := NewMat2().Inv(a)
	if !ok {
		t.Fatalf("expected invertible matrix")
	}
	r := NewMat2().Mult(a, *inv)
	if !Aeq(r.Xx, 1) || !Aeq(r.Yy, 1) || !AeqZ(r.Xy) || !AeqZ(r.Yx) {
		t.Errorf("a*a^-1 should be identity, got %+v", r)
	}
}

func TestRot2IsOrthonormal(t *testing.T) {
	r := Rot2(0.7)
	det := r.Det()
	if !Aeq(det, 1) {
		t.Errorf("rotation matrix determinant should be 1, got %v", det)
	}
}

func TestSolveLDLT3Identity(t *testing.T) {
	x, ok := SolveLDLT3(Mat3I, Vec3{1, 2, 3})
	if !ok {
		t.Fatalf("expected SPD solve to succeed")
	}
	if !Aeq(x.X, 1) || !Aeq(x.Y, 2) || !Aeq(x.Z, 3) {
		t.Errorf("identity solve should return b, got %+v", x)
	}
}

func TestSolveLDLT3Diagonal(t *testing.T) {
	m := Mat3{}
	m.SetDiag(2, 4, 8)
	x, ok := SolveLDLT3(m, Vec3{2, 8, 16})
	if !ok {
		t.Fatalf("expected SPD solve to succeed")
	}
	if !Aeq(x.X, 1) || !Aeq(x.Y, 2) || !Aeq(x.Z, 2) {
		t.Errorf("diagonal solve wrong, got %+v", x)
	}
}

func TestSolveLDLT3NonSPDFails(t *testing.T) {
	m := Mat3{}
	m.SetDiag(1, -1, 1)
	_, ok := SolveLDLT3(m, Vec3{1, 1, 1})
	if ok {
		t.Errorf("expected non-SPD matrix to fail the solve")
	}
}

func TestSolveLDLT3GeneralSPD(t *testing.T) {
	// m = J Jt + diag(1), guaranteed SPD for any J.
	j := Vec3{1, 2, 3}
	m := Mat3{}
	m.Outer(j, j)
	m.Xx += 1
	m.Yy += 1
	m.Zz += 1
	b := Vec3{4, 5, 6}
	x, ok := SolveLDLT3(m, b)
	if !ok {
		t.Fatalf("expected SPD solve to succeed")
	}
	// verify m*x == b
	r := m.MultV(x)
	if !Aeq(r.X, b.X) || !Aeq(r.Y, b.Y) || !Aeq(r.Z, b.Z) {
		t.Errorf("m*x should equal b: got %+v want %+v", r, b)
	}
}

func TestSVD2Reconstructs(t *testing.T) {
	f := Mat2{2, 0.3, -0.1, 1.5}
	u, v, s := SVD2(f)

	// F = U * diag(s) * Vt
	sig := Mat2{s.X, 0, 0, s.Y}
	uv := Mat2{}
	uv.Mult(u, sig)
	vt := Mat2{v.Xx, v.Yx, v.Xy, v.Yy}
	recon := Mat2{}
	recon.Mult(uv, vt)

	if !Aeq(recon.Xx, f.Xx) || !Aeq(recon.Xy, f.Xy) || !Aeq(recon.Yx, f.Yx) || !Aeq(recon.Yy, f.Yy) {
		t.Errorf("SVD reconstruction mismatch: got %+v want %+v", recon, f)
	}
}

func TestSVD2PreservesOrientation(t *testing.T) {
	// an inverted (negative determinant) deformation gradient.
	f := Mat2{1, 0, 0, -1}
	u, v, _ := SVD2(f)
	detU := u.Det()
	detV := v.Det()
	if math.Abs(detU-1) > 1e-6 {
		t.Errorf("U should be a proper rotation, det=%v", detU)
	}
	if math.Abs(detV-1) > 1e-6 {
		t.Errorf("V should be a proper rotation, det=%v", detV)
	}
}

func TestOuterMat3(t *testing.T) {
	m := NewMat3().Outer(Vec3{1, 2, 3}, Vec3{4, 5, 6})
	if m.Xx != 4 || m.Xy != 5 || m.Zz != 18 {
		t.Errorf("unexpected outer product: %+v", m)
	}
}
