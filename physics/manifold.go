// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/brynphys/avbd2d/mat"
)

const (
	collisionMargin  = 0.0005
	faceRelativeBias = 0.95
	faceAbsoluteBias = 0.01

	normalFMax = 0.0
)

// normalFMin is -Inf: the canonical pushing-only contact (spec.md section
// 9 open question), not expressible as a typed numeric constant.
var normalFMin = math.Inf(-1)

// contactPoint is one persistent feature of a Manifold: a vertex surviving
// Sutherland-Hodgman clipping, tracked by featureID across steps so its
// penalty/dual rows can be warm-started.
type contactPoint struct {
	featureID uint32
	pA, pB    mat.Vec2 // local offsets, in each body's own frame
	normal    mat.Vec2 // world-frame contact normal, from B into A, so penetration makes the normal row's C negative

	jNormA, jTangA mat.Vec3
	jNormB, jTangB mat.Vec3

	c0 mat.Vec2 // (normal0, tangent0) stabilized target

	rowNorm, rowTang *Row
	stick            bool
}

// Manifold is the contact force between two oriented rectangles. It holds
// up to two contacts; each contributes two rows (normal, tangent).
type Manifold struct {
	A, B *Body

	contacts    []*contactPoint
	oldContacts []*contactPoint

	mu       float64 // effective friction = sqrt(muA*muB)
	disabled bool
}

// NewManifold returns an (initially empty) contact force between a and b.
// Its geometry is populated by the broadphase driver calling Initialize
// each step.
func NewManifold(a, b *Body) *Manifold {
	m := &Manifold{A: a, B: b, mu: math.Sqrt(a.Mu * b.Mu)}
	a.attachForce(m)
	b.attachForce(m)
	return m
}

// corners returns the four world-space corners of an oriented rectangle
// body, starting from the +x,+y corner and proceeding counter-clockwise.
func corners(b *Body) [4]mat.Vec2 {
	hx, hy := b.W/2, b.H/2
	r := b.Rotation()
	local := [4]mat.Vec2{{X: hx, Y: hy}, {X: -hx, Y: hy}, {X: -hx, Y: -hy}, {X: hx, Y: -hy}}
	var out [4]mat.Vec2
	for i, c := range local {
		w := r.MultV(c)
		out[i] = mat.Vec2{X: b.Q.X + w.X, Y: b.Q.Y + w.Y}
	}
	return out
}

// faceNormals returns the outward unit normal of each of the 4 edges of an
// oriented rectangle, in the same winding as corners(): normal i belongs to
// the edge from corner i to corner i+1.
func faceNormals(b *Body) [4]mat.Vec2 {
	r := b.Rotation()
	local := [4]mat.Vec2{{X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}, {X: 1, Y: 0}}
	var out [4]mat.Vec2
	for i, n := range local {
		out[i] = r.MultV(n)
	}
	return out
}

// satPenetration computes, for rectangle "ref" tested against the other
// rectangle's corners, the minimum penetration depth and the index of the
// separating face achieving it. A positive separation (no overlap) is
// signalled by ok=false.
func satPenetration(ref *Body, refCorners [4]mat.Vec2, refNormals [4]mat.Vec2, otherCorners [4]mat.Vec2) (bestDepth float64, bestFace int, ok bool) {
	bestDepth = math.Inf(1)
	bestFace = -1
	for f := 0; f < 4; f++ {
		n := refNormals[f]
		// support point of ref along this face, and of other against -n.
		refSupport := n.Dot(refCorners[f])
		minOther := math.Inf(1)
		for _, c := range otherCorners {
			d := n.Dot(c)
			if d < minOther {
				minOther = d
			}
		}
		sep := minOther - refSupport
		if sep > 0 {
			return 0, -1, false
		}
		depth := -sep
		if depth < bestDepth {
			bestDepth = depth
			bestFace = f
		}
	}
	return bestDepth, bestFace, true
}

// Initialize implements Force: it runs full SAT + Sutherland-Hodgman
// narrow-phase collision, merges with the previous step's contacts by
// feature ID for warm-starting, and precomputes the normal/tangent
// Jacobians for the current pose. Returns false (requesting removal) when
// the bodies have separated.
func (m *Manifold) Initialize() bool {
	if m.disabled {
		return false
	}
	cA, cB := corners(m.A), corners(m.B)
	nA, nB := faceNormals(m.A), faceNormals(m.B)

	depthA, faceA, okA := satPenetration(m.A, cA, nA, cB)
	if !okA {
		m.oldContacts = nil
		m.contacts = nil
		return false
	}
	depthB, faceB, okB := satPenetration(m.B, cB, nB, cA)
	if !okB {
		m.oldContacts = nil
		m.contacts = nil
		return false
	}

	refIsA := true
	if depthB < depthA*faceRelativeBias-faceAbsoluteBias*m.A.Radius {
		refIsA = false
	}

	var incBody *Body
	var refCorners, incCorners [4]mat.Vec2
	var refNormals [4]mat.Vec2
	var refFace int
	if refIsA {
		incBody = m.B
		refCorners, incCorners = cA, cB
		refNormals = nA
		refFace = faceA
	} else {
		incBody = m.A
		refCorners, incCorners = cB, cA
		refNormals = nB
		refFace = faceB
	}

	refNormal := refNormals[refFace]
	p1 := refCorners[refFace]
	p2 := refCorners[(refFace+1)%4]

	// incident edge: the edge of incBody whose outward normal is most
	// anti-parallel to refNormal.
	incNormals := faceNormals(incBody)
	bestDot := math.Inf(1)
	incFace := 0
	for i := 0; i < 4; i++ {
		d := incNormals[i].Dot(refNormal)
		if d < bestDot {
			bestDot = d
			incFace = i
		}
	}
	iv1 := incCorners[incFace]
	iv2 := incCorners[(incFace+1)%4]

	type clipped struct {
		p        mat.Vec2
		inEdge   uint8
		outEdge  uint8
	}
	pts := []clipped{{p: iv1, inEdge: uint8(incFace), outEdge: uint8(incFace)}, {p: iv2, inEdge: uint8((incFace + 1) % 4), outEdge: uint8((incFace + 1) % 4)}}

	// clip against the two side planes adjacent to the reference face.
	sideDir := mat.Vec2{}
	sideDir.Sub(p2, p1)
	sideDir.Unit(sideDir)
	clipPlanes := []struct {
		normal mat.Vec2
		offset float64
		tag    uint8
	}{
		{normal: mat.Vec2{X: -sideDir.X, Y: -sideDir.Y}, offset: -sideDir.Dot(p1), tag: uint8((refFace + 3) % 4)},
		{normal: sideDir, offset: sideDir.Dot(p2), tag: uint8((refFace + 1) % 4)},
	}
	for _, plane := range clipPlanes {
		if len(pts) == 0 {
			break
		}
		var out []clipped
		for i := 0; i < len(pts); i++ {
			cur := pts[i]
			prev := pts[(i-1+len(pts))%len(pts)]
			curDist := plane.normal.Dot(cur.p) - plane.offset
			prevDist := plane.normal.Dot(prev.p) - plane.offset
			curInside := curDist <= 0
			prevInside := prevDist <= 0
			if curInside {
				if !prevInside {
					t := prevDist / (prevDist - curDist)
					ip := mat.Vec2{}
					ip.Lerp(prev.p, cur.p, t)
					out = append(out, clipped{p: ip, inEdge: plane.tag, outEdge: cur.outEdge})
				}
				out = append(out, cur)
			} else if prevInside {
				t := prevDist / (prevDist - curDist)
				ip := mat.Vec2{}
				ip.Lerp(prev.p, cur.p, t)
				out = append(out, clipped{p: ip, inEdge: prev.inEdge, outEdge: plane.tag})
			}
		}
		pts = out
	}

	var fresh []*contactPoint
	for _, pt := range pts {
		if len(fresh) >= 2 {
			break
		}
		dist := refNormal.Dot(pt.p) - refNormal.Dot(p1)
		if dist > 0 {
			continue
		}
		featureID := packFeatureID(pt.inEdge, pt.outEdge, refIsA)
		n := refNormal
		if refIsA {
			n = mat.Vec2{X: -refNormal.X, Y: -refNormal.Y}
		}
		var pA, pB mat.Vec2
		worldPoint := pt.p
		if refIsA {
			pB = worldLocal(m.B, worldPoint)
			onRef := mat.Vec2{}
			onRef.Sub(worldPoint, mat.Vec2{X: refNormal.X * dist, Y: refNormal.Y * dist})
			pA = worldLocal(m.A, onRef)
		} else {
			pA = worldLocal(m.A, worldPoint)
			onRef := mat.Vec2{}
			onRef.Sub(worldPoint, mat.Vec2{X: refNormal.X * dist, Y: refNormal.Y * dist})
			pB = worldLocal(m.B, onRef)
		}
		cp := &contactPoint{featureID: featureID, pA: pA, pB: pB, normal: n}
		fresh = append(fresh, cp)
	}

	// warm-start merge by feature ID against the previous step's contacts.
	m.oldContacts = m.contacts
	for _, fc := range fresh {
		for _, old := range m.oldContacts {
			if old.featureID == fc.featureID {
				fc.rowNorm, fc.rowTang = old.rowNorm, old.rowTang
				fc.stick = old.stick
				if fc.stick {
					fc.pA, fc.pB = old.pA, old.pB
				}
				break
			}
		}
		if fc.rowNorm == nil {
			fc.rowNorm = newRow(2)
			fc.rowNorm.K = math.Inf(1)
			fc.rowNorm.Fmin, fc.rowNorm.Fmax = normalFMin, normalFMax
			fc.rowTang = newRow(2)
			fc.rowTang.K = math.Inf(1)
		}
	}

	m.contacts = fresh
	if len(m.contacts) == 0 {
		return false
	}

	for _, cp := range m.contacts {
		m.precomputeJacobians(cp)
	}
	return true
}

// worldLocal converts a world-space point into b's local frame.
func worldLocal(b *Body, p mat.Vec2) mat.Vec2 {
	rInv := mat.Mat2{}
	rInv.Transpose(b.Rotation())
	rel := mat.Vec2{X: p.X - b.Q.X, Y: p.Y - b.Q.Y}
	return rInv.MultV(rel)
}

// packFeatureID packs a clipped point's in/out edge tags (bits 0-7 and
// 8-15) and, in bit 16, whether B was the reference body into one 32-bit
// ID. Only these two tags are packed, not a separate in/out pair for each
// body.
func packFeatureID(inEdge, outEdge uint8, refIsA bool) uint32 {
	flip := uint8(0)
	if !refIsA {
		flip = 1
	}
	return uint32(inEdge) | uint32(outEdge)<<8 | uint32(flip)<<16
}

// precomputeJacobians fills a contact's normal/tangent Jacobians and C0,
// done once per manifold per step at Initialize (spec.md section 4.4).
func (m *Manifold) precomputeJacobians(cp *contactPoint) {
	n := cp.normal
	t := mat.Vec2{X: n.Y, Y: -n.X}

	rAWorld := m.A.Rotation().MultV(cp.pA)
	rBWorld := m.B.Rotation().MultV(cp.pB)

	cp.jNormA = mat.Vec3{X: n.X, Y: n.Y, Z: rAWorld.Cross(n)}
	cp.jTangA = mat.Vec3{X: t.X, Y: t.Y, Z: rAWorld.Cross(t)}
	cp.jNormB = mat.Vec3{X: -n.X, Y: -n.Y, Z: -rBWorld.Cross(n)}
	cp.jTangB = mat.Vec3{X: -t.X, Y: -t.Y, Z: -rBWorld.Cross(t)}

	posA := mat.Vec2{X: m.A.Q.X + rAWorld.X, Y: m.A.Q.Y + rAWorld.Y}
	posB := mat.Vec2{X: m.B.Q.X + rBWorld.X, Y: m.B.Q.Y + rBWorld.Y}
	d := mat.Vec2{}
	d.Sub(posA, posB)
	cp.c0 = mat.Vec2{X: n.Dot(d) + collisionMargin, Y: t.Dot(d)}

	cp.rowNorm.J[0], cp.rowNorm.J[1] = cp.jNormA, cp.jNormB
	cp.rowTang.J[0], cp.rowTang.J[1] = cp.jTangA, cp.jTangB
}

// Bodies implements Force.
func (m *Manifold) Bodies() []*Body { return []*Body{m.A, m.B} }

// Rows implements Force.
func (m *Manifold) Rows() []*Row {
	rows := make([]*Row, 0, 2*len(m.contacts))
	for _, cp := range m.contacts {
		rows = append(rows, cp.rowNorm, cp.rowTang)
	}
	return rows
}

// Disabled implements Force.
func (m *Manifold) Disabled() bool { return m.disabled }

// Disable implements Force.
func (m *Manifold) Disable() {
	m.disabled = true
	for _, cp := range m.contacts {
		cp.rowNorm.disable()
		cp.rowTang.disable()
	}
}

// ComputeConstraints implements Force.
func (m *Manifold) ComputeConstraints(alpha float64) {
	dqA := mat.Vec3{}
	dqB := mat.Vec3{}
	dqA.Sub(m.A.Q, m.A.LastQ)
	dqB.Sub(m.B.Q, m.B.LastQ)
	for _, cp := range m.contacts {
		cp.rowNorm.C = (1-alpha)*cp.c0.X + cp.jNormA.Dot(dqA) + cp.jNormB.Dot(dqB)
		cp.rowTang.C = (1-alpha)*cp.c0.Y + cp.jTangA.Dot(dqA) + cp.jTangB.Dot(dqB)

		fmax := m.mu * math.Abs(cp.rowNorm.Lambda)
		cp.rowTang.Fmin, cp.rowTang.Fmax = -fmax, fmax
		cp.stick = math.Abs(cp.rowTang.Lambda) < fmax && math.Abs(cp.c0.Y) < 0.01
	}
}

// ComputeDerivatives implements Force. Jacobians were already computed in
// Initialize and do not change within a step; this is a no-op kept to
// satisfy the Force interface.
func (m *Manifold) ComputeDerivatives(b *Body) {}

// RenderPoints implements Force.
func (m *Manifold) RenderPoints() []ContactPoint {
	pts := make([]ContactPoint, 0, len(m.contacts))
	for _, cp := range m.contacts {
		r := m.A.Rotation().MultV(cp.pA)
		pts = append(pts, ContactPoint{X: m.A.Q.X + r.X, Y: m.A.Q.Y + r.Y})
	}
	return pts
}

// RenderLines implements Force.
func (m *Manifold) RenderLines() []ContactLine { return nil }

func (m *Manifold) detach(b *Body) {
	if b == m.A {
		m.A.detachForce(m)
	} else if b == m.B {
		m.B.detachForce(m)
	}
	m.Disable()
}
