package geometry2D

import (
	"fmt"
	"math"
	"math/rand"
)

// RectGrid triangulates [0,width]x[0,height] on an (nx+1)x(ny+1) vertex lattice,
// splitting each cell along alternating diagonals.
func RectGrid(width, height float64, nx, ny int) (tm *TriMesh, err error) {
	if !(width > 0) || !(height > 0) || nx < 1 || ny < 1 {
		err = fmt.Errorf("%w: rectangle %gx%g with %dx%d cells", ErrInvalidMesh, width, height, nx, ny)
		return
	}
	var (
		Nv     = (nx + 1) * (ny + 1)
		VX, VY = make([]float64, Nv), make([]float64, Nv)
		tris   = make([][3]int, 0, 2*nx*ny)
		dx, dy = width / float64(nx), height / float64(ny)
		ind    = func(i, j int) int { return i + j*(nx+1) }
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			VX[ind(i, j)] = float64(i) * dx
			VY[ind(i, j)] = float64(j) * dy
		}
	}
	// Lattice edges land exactly on the domain boundary
	for j := 0; j <= ny; j++ {
		VX[ind(nx, j)] = width
	}
	for i := 0; i <= nx; i++ {
		VY[ind(i, ny)] = height
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00, v10, v01, v11 := ind(i, j), ind(i+1, j), ind(i, j+1), ind(i+1, j+1)
			if (i+j)%2 == 0 {
				tris = append(tris, [3]int{v00, v10, v11}, [3]int{v00, v11, v01})
			} else {
				tris = append(tris, [3]int{v00, v10, v01}, [3]int{v10, v11, v01})
			}
		}
	}
	return NewTriMesh(VX, VY, tris)
}

/*
RectUnstructured covers [0,width]x[0,height] with near-equilateral triangles of
about edgeLength on a side. Alternate rows are offset by half a spacing, interior
vertices are jittered by a seeded random amount, and the result is made Delaunay
by edge flips. Boundary vertices stay exactly on the rectangle.
*/
func RectUnstructured(width, height, edgeLength float64, seed int64) (tm *TriMesh, err error) {
	if !(width > 0) || !(height > 0) || !(edgeLength > 0) {
		err = fmt.Errorf("%w: rectangle %gx%g with edge length %g", ErrInvalidMesh, width, height, edgeLength)
		return
	}
	const jitter = 0.2
	var (
		nx   = int(math.Max(1, math.Ceil(width/edgeLength)))
		ny   = int(math.Max(1, math.Ceil(height/(edgeLength*math.Sqrt(3)/2))))
		dx   = width / float64(nx)
		dy   = height / float64(ny)
		rng  = rand.New(rand.NewSource(seed))
		VX   []float64
		VY   []float64
		rows = make([][]int, ny+1)
		tris [][3]int
	)
	addVertex := func(x, y float64, interior bool) (ind int) {
		if interior {
			x += jitter * dx * (rng.Float64() - 0.5)
			y += jitter * dy * (rng.Float64() - 0.5)
		}
		ind = len(VX)
		VX, VY = append(VX, x), append(VY, y)
		return
	}
	for j := 0; j <= ny; j++ {
		var (
			y        = float64(j) * dy
			edgeRow  = j == 0 || j == ny
			xs       []float64
			interior []bool
		)
		if j == ny {
			y = height
		}
		if j%2 == 0 {
			for i := 0; i <= nx; i++ {
				xs = append(xs, float64(i)*dx)
				interior = append(interior, !edgeRow && i != 0 && i != nx)
			}
		} else {
			xs = append(xs, 0)
			interior = append(interior, false)
			for i := 0; i < nx; i++ {
				xs = append(xs, (float64(i)+0.5)*dx)
				interior = append(interior, !edgeRow)
			}
			xs = append(xs, width)
			interior = append(interior, false)
		}
		xs[len(xs)-1] = width
		for i, x := range xs {
			rows[j] = append(rows[j], addVertex(x, y, interior[i]))
		}
	}
	for j := 0; j < ny; j++ {
		tris = zipRows(tris, rows[j], rows[j+1], VX)
	}
	if tm, err = NewTriMesh(VX, VY, tris); err != nil {
		return
	}
	tm.Legalize()
	return
}

// zipRows triangulates the strip between two monotone vertex rows that share end abscissae.
func zipRows(tris [][3]int, lower, upper []int, VX []float64) [][3]int {
	var (
		i, j   int
		nl, nu = len(lower) - 1, len(upper) - 1
	)
	for i < nl || j < nu {
		if j == nu || (i < nl && VX[lower[i+1]] <= VX[upper[j+1]]) {
			tris = append(tris, [3]int{lower[i], lower[i+1], upper[j]})
			i++
		} else {
			tris = append(tris, [3]int{lower[i], upper[j+1], upper[j]})
			j++
		}
	}
	return tris
}
