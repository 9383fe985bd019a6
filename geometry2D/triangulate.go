package geometry2D

import (
	"math"

	"github.com/notargets/godec/types"
)

func IsIllegalEdge(prX, prY, piX, piY, pjX, pjY, pkX, pkY float64) bool {
	/*
		pr is a new point for candidate triangle pi-pj-pr
		pi-pj is a shared edge between pi-pj-pk and pi-pj-pr
		if pr lies inside the circle defined by pi-pj-pk:
			- The edge pi-pj should be swapped with pr-pk to make two new triangles:
				pi-pr-pk and pj-pk-pr
	*/
	return inCircle(piX, piY, pjX, pjY, pkX, pkY, prX, prY) > 0
}

// inCircle is positive when d lies inside the circle through a, b and c, for either handedness of a-b-c.
func inCircle(ax, ay, bx, by, cx, cy, dx, dy float64) (det float64) {
	// Calculate handedness, counter-clockwise is (positive) and clockwise is (negative)
	signBit := math.Signbit((bx-ax)*(cy-ay) - (cx-ax)*(by-ay))
	ax_ := ax - dx
	ay_ := ay - dy
	bx_ := bx - dx
	by_ := by - dy
	cx_ := cx - dx
	cy_ := cy - dy
	det = (ax_*ax_+ay_*ay_)*(bx_*cy_-cx_*by_) -
		(bx_*bx_+by_*by_)*(ax_*cy_-cx_*ay_) +
		(cx_*cx_+cy_*cy_)*(ax_*by_-bx_*ay_)
	if signBit {
		det = -det
	}
	return
}

type edgeTris struct {
	tris [2]int
	n    int
}

/*
Legalize flips illegal interior edges (Lawson's algorithm) until the mesh is
Delaunay. Nearly cocircular quads within tol, relative to the mesh extent, are
left alone so that regular lattices do not flip back and forth.
Returns the number of flips performed.
*/
func (tm *TriMesh) Legalize() (flips int) {
	var (
		ext      = tm.Extent()
		tol      = 1.e-10 * ext * ext * ext * ext
		maxPass  = 10 * (len(tm.Tris) + 1)
		vx, vy   = tm.VX, tm.VY
		opposite = func(tri [3]int, ek types.EdgeKey) int {
			ev := ek.GetVertices(false)
			for _, v := range tri {
				if v != ev[0] && v != ev[1] {
					return v
				}
			}
			return -1
		}
	)
	for pass := 0; pass < maxPass; pass++ {
		edges := make(map[types.EdgeKey]*edgeTris, 3*len(tm.Tris)/2)
		keys := make([]types.EdgeKey, 0, 3*len(tm.Tris)/2)
		for k, tri := range tm.Tris {
			for n := 0; n < 3; n++ {
				ek := types.NewEdgeKey([2]int{tri[n], tri[(n+1)%3]})
				et, ok := edges[ek]
				if !ok {
					et = &edgeTris{}
					edges[ek] = et
					keys = append(keys, ek)
				}
				if et.n < 2 {
					et.tris[et.n] = k
				}
				et.n++
			}
		}
		touched := make(map[int]bool)
		var passFlips int
		for _, ek := range keys {
			et := edges[ek]
			if et.n != 2 {
				continue
			}
			k1, k2 := et.tris[0], et.tris[1]
			if touched[k1] || touched[k2] {
				continue
			}
			var (
				ev = ek.GetVertices(false)
				a  = ev[0]
				b  = ev[1]
				c  = opposite(tm.Tris[k1], ek)
				d  = opposite(tm.Tris[k2], ek)
			)
			if inCircle(vx[a], vy[a], vx[b], vy[b], vx[c], vy[c], vx[d], vy[d]) <= tol {
				continue
			}
			tm.Tris[k1] = tm.ccw([3]int{a, d, c})
			tm.Tris[k2] = tm.ccw([3]int{b, c, d})
			touched[k1], touched[k2] = true, true
			passFlips++
		}
		flips += passFlips
		if passFlips == 0 {
			break
		}
	}
	return
}

// IsDelaunay reports whether no interior edge is illegal beyond the relative tolerance used by Legalize.
func (tm *TriMesh) IsDelaunay() bool {
	var (
		ext = tm.Extent()
		tol = 1.e-10 * ext * ext * ext * ext
	)
	owner := make(map[types.EdgeKey][]int)
	for k, tri := range tm.Tris {
		for n := 0; n < 3; n++ {
			ek := types.NewEdgeKey([2]int{tri[n], tri[(n+1)%3]})
			owner[ek] = append(owner[ek], k)
		}
	}
	for ek, ks := range owner {
		if len(ks) != 2 {
			continue
		}
		ev := ek.GetVertices(false)
		var opp [2]int
		for i, k := range ks {
			for _, v := range tm.Tris[k] {
				if v != ev[0] && v != ev[1] {
					opp[i] = v
				}
			}
		}
		a, b, c, d := ev[0], ev[1], opp[0], opp[1]
		if inCircle(tm.VX[a], tm.VY[a], tm.VX[b], tm.VY[b], tm.VX[c], tm.VY[c], tm.VX[d], tm.VY[d]) > tol {
			return false
		}
	}
	return true
}

func (tm *TriMesh) ccw(tri [3]int) [3]int {
	if tm.SignedArea(tri) < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	return tri
}
