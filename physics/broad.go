// Copyright © 2026 avbd2d contributors
// Use is governed by an MIT-style license found in the LICENSE file.

package physics

import "github.com/brynphys/avbd2d/mat"

// broadphasePairs returns every index pair (i,j), i<j, of bodies whose
// bounding circles overlap, which are not both static and which are not
// already constrained to each other. Doubly-nested and O(n^2): spec.md's Non-goals explicitly exclude
// any acceleration structure beyond this prune.
func broadphasePairs(bodies []*Body) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			bi, bj := bodies[i], bodies[j]
			if bi.IsStatic() && bj.IsStatic() {
				continue
			}
			d := mat.Vec2{}
			d.Sub(mat.Vec2{X: bi.Q.X, Y: bi.Q.Y}, mat.Vec2{X: bj.Q.X, Y: bj.Q.Y})
			rsum := bi.Radius + bj.Radius
			if d.LenSqr() > rsum*rsum {
				continue
			}
			if bi.IsConstrainedTo(bj) {
				continue
			}
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}
