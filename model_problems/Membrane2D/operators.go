package Membrane2D

import (
	"fmt"
	"math"

	"github.com/notargets/godec/DEC"
	"github.com/notargets/godec/utils"
)

// Complex is the part of a simplicial complex the membrane needs. DEC.SimplicialComplex
// satisfies it.
type Complex interface {
	NumSimplices(k int) int
	D(k int) utils.CSR
	Star(k int) utils.CSR
	StarInv(k int) utils.CSR
	Boundary() []DEC.Simplex
	VertexIndex(v int) (index int, ok bool)
	Coordinates() (VX, VY []float64)
}

// StabilityLimit bounds dt^2 times the largest eigenvalue of the discrete Laplacian for leapfrog.
const StabilityLimit = 4.

/*
Operators holds the two constant update matrices of one membrane instance:

	VStep = -dt * star0Inv * transpose(d0) * star1   (edges -> vertices)
	WStep =  dt * d0                                  (vertices -> edges)

Rows of VStep belonging to boundary vertices are zero, which holds v fixed there.
Both are read only after assembly; a new dt needs a new Operators.
*/
type Operators struct {
	DT           float64
	VStep, WStep utils.CSR
	BoundaryRows []int // Vertex rows zeroed in VStep, ascending and unique
	Nv, Ne       int
}

func NewOperators(sc Complex, dt float64) (op *Operators, err error) {
	if sc == nil {
		err = fmt.Errorf("%w: nil complex", ErrConfiguration)
		return
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		err = fmt.Errorf("%w: dt = %v, must be positive", ErrConfiguration, dt)
		return
	}
	var (
		Nv, Ne = sc.NumSimplices(0), sc.NumSimplices(1)
	)
	if err = checkShapes(sc, Nv, Ne); err != nil {
		return
	}
	op = &Operators{DT: dt, Nv: Nv, Ne: Ne}
	// The scalar folds into the leftmost factor, then the products run left to right
	op.VStep = sc.StarInv(0).Copy().Scale(-dt).
		Mul(sc.D(0).Transpose()).
		Mul(sc.Star(1))
	op.WStep = sc.D(0).Copy().Scale(dt)
	zeroed := make([]bool, Nv)
	for _, edge := range sc.Boundary() {
		for _, vert := range edge.Boundary() {
			row, ok := sc.VertexIndex(vert.Verts[0])
			if !ok || row < 0 || row >= Nv {
				err = fmt.Errorf("%w: boundary vertex %v of edge %v has no index",
					ErrInvalidComplex, vert.Verts, edge.Verts)
				op = nil
				return
			}
			if !zeroed[row] {
				zeroed[row] = true
				op.VStep.ZeroRow(row)
			}
		}
	}
	for row, z := range zeroed {
		if z {
			op.BoundaryRows = append(op.BoundaryRows, row)
		}
	}
	op.VStep.SetReadOnly("VStep")
	op.WStep.SetReadOnly("WStep")
	return
}

func checkShapes(sc Complex, Nv, Ne int) (err error) {
	shapes := []struct {
		name   string
		m      utils.CSR
		nr, nc int
	}{
		{"d0", sc.D(0), Ne, Nv},
		{"star0", sc.Star(0), Nv, Nv},
		{"star0Inv", sc.StarInv(0), Nv, Nv},
		{"star1", sc.Star(1), Ne, Ne},
	}
	for _, s := range shapes {
		if s.m.M == nil {
			return fmt.Errorf("%w: %s is missing", ErrDimensionMismatch, s.name)
		}
		if nr, nc := s.m.Dims(); nr != s.nr || nc != s.nc {
			return fmt.Errorf("%w: %s is [%d,%d], want [%d,%d]",
				ErrDimensionMismatch, s.name, nr, nc, s.nr, s.nc)
		}
	}
	return
}

/*
SpectralRadius estimates the largest eigenvalue of -VStep*WStep by power iteration.
The product is dt^2 times the discrete Laplacian restricted to interior vertices, whose
eigenvalues are real and non-negative on a Delaunay mesh. Leapfrog is stable when the
result stays below StabilityLimit. The estimate approaches the eigenvalue from below.
*/
func (op *Operators) SpectralRadius(maxIter int, tol float64) (lambda float64) {
	var (
		x = utils.NewVector(op.Nv)
		y = utils.NewVector(op.Nv)
		t = utils.NewVector(op.Ne)
	)
	for i := range x.DataP {
		x.DataP[i] = 1 + 0.5*math.Sin(float64(i)+1)
	}
	for _, row := range op.BoundaryRows {
		x.DataP[row] = 0
	}
	for iter := 0; iter < maxIter; iter++ {
		norm := x.Norm()
		if norm == 0 {
			return 0
		}
		x.Scale(1 / norm)
		t.Set(0)
		y.Set(0)
		// Shapes were checked at assembly
		_ = op.WStep.MulVecAdd(x, t)
		_ = op.VStep.MulVecAdd(t, y)
		y.Scale(-1)
		next := y.Norm()
		x, y = y, x
		if math.Abs(next-lambda) <= tol*next {
			lambda = next
			return
		}
		lambda = next
	}
	return
}

// CheckStability returns ErrConfiguration when dt puts the leapfrog scheme outside its stable range.
func (op *Operators) CheckStability() (err error) {
	lambda := op.SpectralRadius(1000, 1.e-9)
	if lambda >= StabilityLimit {
		err = fmt.Errorf("%w: dt = %g is unstable, dt^2*lambdaMax = %.4f must be below %g",
			ErrConfiguration, op.DT, lambda, StabilityLimit)
	}
	return
}
