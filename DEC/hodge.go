package DEC

import (
	"fmt"
	"math"

	"github.com/notargets/godec/types"
	"github.com/notargets/godec/utils"
)

// Circumcenter of the triangle with vertices (x[i], y[i]).
func Circumcenter(x, y [3]float64) (cx, cy float64) {
	var (
		bx, by = x[1] - x[0], y[1] - y[0]
		qx, qy = x[2] - x[0], y[2] - y[0]
		d      = 2 * (bx*qy - by*qx)
		b2, q2 = bx*bx + by*by, qx*qx + qy*qy
	)
	cx = x[0] + (qy*b2-by*q2)/d
	cy = y[0] + (bx*q2-qx*b2)/d
	return
}

/*
buildHodgeStars assembles the diagonal circumcentric Hodge stars. Each triangle is split
by the segments from its circumcenter to its edge midpoints:
	- the dual of an edge is the sum over its triangles of the signed circumcenter-to-midpoint
	  distance, negative when the circumcenter falls outside the triangle across that edge
	- the dual cell of a vertex collects the two half-kite areas next to it in every triangle
	- the dual of a triangle is its circumcenter, with unit volume
star_k is the ratio dual/primal volume, and starInv_k its reciprocal. A zero dual edge length
(a right angle opposite the edge on both sides) gives a zero entry in both star_1 and its inverse.
*/
func (sc *SimplicialComplex) buildHodgeStars() (err error) {
	var (
		tm         = sc.Mesh
		Nv, Ne, Nt = sc.NumSimplices(0), sc.NumSimplices(1), sc.NumSimplices(2)
		dualArea   = make([]float64, Nv)
		dualLen    = make([]float64, Ne)
		primalLen  = make([]float64, Ne)
		area       = make([]float64, Nt)
		ext        = tm.Extent()
	)
	for k, tri := range tm.Tris {
		var x, y [3]float64
		for n := 0; n < 3; n++ {
			x[n], y[n] = tm.VX[tri[n]], tm.VY[tri[n]]
		}
		area[k] = tm.SignedArea(tri)
		cx, cy := Circumcenter(x, y)
		for n := 0; n < 3; n++ {
			var (
				i, j   = n, (n + 1) % 3
				ex, ey = x[j] - x[i], y[j] - y[i]
				l      = math.Hypot(ex, ey)
				// Counter-clockwise triangles have their interior left of each directed edge
				h = (ex*(cy-y[i]) - ey*(cx-x[i])) / l
				e = sc.edgeIndex[types.NewEdgeKey([2]int{tri[i], tri[j]})]
			)
			dualLen[e] += h
			primalLen[e] = l
			halfKite := 0.25 * l * h
			dualArea[tri[i]] += halfKite
			dualArea[tri[j]] += halfKite
		}
	}
	for v, a := range dualArea {
		if math.Abs(a) <= utils.NODETOL*ext*ext {
			err = fmt.Errorf("%w: vertex %d has zero dual area", ErrDegenerateComplex, v)
			return
		}
	}
	ones := func(n int) (o []float64) {
		o = make([]float64, n)
		for i := range o {
			o[i] = 1
		}
		return
	}
	sc.primal = [3][]float64{ones(Nv), primalLen, area}
	sc.dual = [3][]float64{dualArea, dualLen, ones(Nt)}
	for k := 0; k < 3; k++ {
		var (
			n      = len(sc.primal[k])
			ratio  = make([]float64, n)
			inv    = make([]float64, n)
			tol    = utils.NODETOL * math.Pow(ext, float64(2-k))
			primal = sc.primal[k]
			dual   = sc.dual[k]
		)
		for i := 0; i < n; i++ {
			ratio[i] = dual[i] / primal[i]
			if math.Abs(dual[i]) > tol {
				inv[i] = primal[i] / dual[i]
			}
		}
		sc.star[k] = utils.NewDiagonalCSR(ratio)
		sc.star[k].SetReadOnly(fmt.Sprintf("star%d", k))
		sc.starInv[k] = utils.NewDiagonalCSR(inv)
		sc.starInv[k].SetReadOnly(fmt.Sprintf("star%dInv", k))
	}
	return
}
