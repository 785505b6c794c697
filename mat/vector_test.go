// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package mat

import "testing"

// While the functions below are not complicated, they are foundational such
// that it is better to test each one of them than have the bugs discovered
// later from other code.

func TestAddVec2(t *testing.T) {
	v := NewVec2().Add(V2(1, 2), V2(3, 4))
	if !Aeq(v.X, 4) || !Aeq(v.Y, 6) {
		t.Errorf("%+v is not the sum of (1,2) and (3,4)", v)
	}
}

func TestAddVec2AliasesInput(t *testing.T) {
	a := V2(1, 2)
	b := V2(3, 4)
	a.Add(a, b)
	if !Aeq(a.X, 4) || !Aeq(a.Y, 6) {
		t.Errorf("%+v should be safe to use an input as the receiver", a)
	}
}

func TestSubVec3(t *testing.T) {
	v := NewVec3().Sub(V3(5, 5, 5), V3(1, 2, 3))
	if !Aeq(v.X, 4) || !Aeq(v.Y, 3) || !Aeq(v.Z, 2) {
		t.Errorf("%+v is not the difference of (5,5,5) and (1,2,3)", v)
	}
}

func TestDotVec2(t *testing.T) {
	d := V2(1, 0).Dot(V2(0, 1))
	if !AeqZ(d) {
		t.Errorf("perpendicular vectors should have zero dot product, got %v", d)
	}
}

func TestCrossVec2(t *testing.T) {
	c := V2(1, 0).Cross(V2(0, 1))
	if !Aeq(c, 1) {
		t.Errorf("x-hat cross y-hat should be 1, got %v", c)
	}
}

func TestLenVec2(t *testing.T) {
	l := V2(3, 4).Len()
	if !Aeq(l, 5) {
		t.Errorf("(3,4) should have length 5, got %v", l)
	}
}

func TestUnitVec2ZeroLength(t *testing.T) {
	v := NewVec2().Unit(V2(0, 0))
	if v.X != 0 || v.Y != 0 {
		t.Errorf("unit of a zero vector should stay zero, got %+v", v)
	}
}

func TestUnitVec2(t *testing.T) {
	v := NewVec2().Unit(V2(3, 4))
	if !Aeq(v.Len(), 1) {
		t.Errorf("%+v should be unit length", v)
	}
}

func TestPerpVec2(t *testing.T) {
	p := V2(1, 0).Perp()
	if !Aeq(p.X, 0) || !Aeq(p.Y, 1) {
		t.Errorf("perp of x-hat should be y-hat, got %+v", p)
	}
	if !AeqZ(V2(1, 0).Dot(p)) {
		t.Errorf("perp should be orthogonal to its input")
	}
}

func TestLerpVec2(t *testing.T) {
	v := NewVec2().Lerp(V2(0, 0), V2(10, 20), 0.5)
	if !Aeq(v.X, 5) || !Aeq(v.Y, 10) {
		t.Errorf("halfway lerp wrong, got %+v", v)
	}
}

func TestRotateVec2(t *testing.T) {
	r := Rot2(HalfPi)
	v := NewVec2().Rotate(r, V2(1, 0))
	if !Aeq(v.X, 0) || !Aeq(v.Y, 1) {
		t.Errorf("rotating x-hat by 90 degrees should give y-hat, got %+v", v)
	}
}

func TestScaleVec3(t *testing.T) {
	v := NewVec3().Scale(V3(1, 2, 3), 2)
	if !Aeq(v.X, 2) || !Aeq(v.Y, 4) || !Aeq(v.Z, 6) {
		t.Errorf("%+v is not (1,2,3) scaled by 2", v)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 {
		t.Error("value inside range should be unchanged")
	}
	if Clamp(-1, 0, 10) != 0 {
		t.Error("value below range should clamp to lower bound")
	}
	if Clamp(11, 0, 10) != 10 {
		t.Error("value above range should clamp to upper bound")
	}
}

func TestSign(t *testing.T) {
	if Sign(5) != 1 || Sign(-5) != -1 || Sign(0) != 0 {
		t.Error("Sign should return -1, 0 or 1")
	}
}
