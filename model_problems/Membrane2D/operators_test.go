package Membrane2D

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/godec/DEC"
	"github.com/notargets/godec/geometry2D"
	"github.com/notargets/godec/utils"
)

func newComplex(t *testing.T, tm *geometry2D.TriMesh, err error) *DEC.SimplicialComplex {
	require.NoError(t, err)
	sc, err := DEC.NewSimplicialComplex(tm)
	require.NoError(t, err)
	return sc
}

// gridComplex is the 2x2 square on a 5x5 vertex lattice
func gridComplex(t *testing.T) *DEC.SimplicialComplex {
	tm, err := geometry2D.RectGrid(2, 2, 4, 4)
	return newComplex(t, tm, err)
}

func piComplex(t *testing.T) *DEC.SimplicialComplex {
	tm, err := geometry2D.RectUnstructured(math.Pi, math.Pi, math.Pi/20, 1)
	return newComplex(t, tm, err)
}

// brokenComplex loses the index of one boundary vertex
type brokenComplex struct {
	*DEC.SimplicialComplex
	lost int
}

func (bc brokenComplex) VertexIndex(v int) (int, bool) {
	if v == bc.lost {
		return 0, false
	}
	return bc.SimplicialComplex.VertexIndex(v)
}

// shortStarComplex has a star1 with one entry too few
type shortStarComplex struct {
	*DEC.SimplicialComplex
}

func (sc shortStarComplex) Star(k int) utils.CSR {
	if k == 1 {
		return utils.NewDiagonalCSR(make([]float64, sc.NumSimplices(1)-1))
	}
	return sc.SimplicialComplex.Star(k)
}

func TestOperatorsSingleTriangle(t *testing.T) {
	tm, err := geometry2D.NewTriMesh([]float64{0, 1, 0.3}, []float64{0, 0, 0.8}, [][3]int{{0, 1, 2}})
	sc := newComplex(t, tm, err)
	dt := 0.1
	op, err := NewOperators(sc, dt)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, op.BoundaryRows)
	{ // Every vertex is on the boundary, so VStep vanishes
		r, c := op.VStep.Dims()
		assert.Equal(t, [2]int{3, 3}, [2]int{r, c})
		assert.True(t, mat.Equal(mat.NewDense(3, 3, nil), op.VStep.ToDense()))
	}
	{ // WStep is the unmodified discrete gradient
		grad := sc.D(0).ToDense()
		grad.Scale(dt, grad)
		assert.True(t, mat.EqualApprox(grad, op.WStep.ToDense(), 1.e-15))
	}
	{ // Assembly leaves the complex untouched and the operators read only
		assert.True(t, op.VStep.IsReadOnly())
		assert.True(t, op.WStep.IsReadOnly())
		assert.True(t, mat.Equal(mat.NewDense(3, 3, []float64{
			-1, 1, 0,
			-1, 0, 1,
			0, -1, 1,
		}), sc.D(0).ToDense()))
		assert.Panics(t, func() { op.WStep.Scale(2) })
	}
}

func TestOperatorComposition(t *testing.T) {
	var (
		sc     = gridComplex(t)
		dt     = 0.05
		Nv, Ne = sc.NumSimplices(0), sc.NumSimplices(1)
	)
	op, err := NewOperators(sc, dt)
	require.NoError(t, err)
	assert.Equal(t, sc.BoundaryVertices(), op.BoundaryRows)
	assert.Equal(t, 16, len(op.BoundaryRows))
	var (
		want     = mat.NewDense(Nv, Ne, nil)
		tmp      = mat.NewDense(Nv, Ne, nil)
		starInv0 = sc.StarInv(0).ToDense()
	)
	starInv0.Scale(-dt, starInv0)
	tmp.Mul(starInv0, sc.D(0).ToDense().T())
	want.Mul(tmp, sc.Star(1).ToDense())
	got := op.VStep.ToDense()
	onBoundary := make(map[int]bool)
	for _, row := range op.BoundaryRows {
		onBoundary[row] = true
	}
	for i := 0; i < Nv; i++ {
		if onBoundary[i] {
			assert.True(t, op.VStep.IsZeroRow(i))
		}
		for j := 0; j < Ne; j++ {
			if onBoundary[i] {
				assert.Equal(t, 0., got.At(i, j))
			} else {
				assert.InDelta(t, want.At(i, j), got.At(i, j), 1.e-14)
			}
		}
	}
	// The centre vertex of the 5x5 grid has four axis neighbours with unit star1 and
	// dual area h^2, so its row is -dt/h^2 times the signed incidences of those edges
	centre := 12
	assert.False(t, onBoundary[centre])
	var nnz int
	for j := 0; j < Ne; j++ {
		if val := got.At(centre, j); val != 0 {
			nnz++
			assert.InDelta(t, 0.2, math.Abs(val), 1.e-12)
		}
	}
	assert.Equal(t, 4, nnz)
}

func TestOperatorErrors(t *testing.T) {
	sc := gridComplex(t)
	{
		_, err := NewOperators(nil, 0.1)
		assert.True(t, errors.Is(err, ErrConfiguration))
		for _, dt := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
			_, err = NewOperators(sc, dt)
			assert.True(t, errors.Is(err, ErrConfiguration), "dt = %v", dt)
		}
	}
	{ // A boundary vertex missing from the index map aborts assembly
		op, err := NewOperators(brokenComplex{SimplicialComplex: sc, lost: 24}, 0.1)
		assert.Nil(t, op)
		assert.True(t, errors.Is(err, ErrInvalidComplex))
	}
	{
		_, err := NewOperators(shortStarComplex{sc}, 0.1)
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
}

func TestStability(t *testing.T) {
	sc := gridComplex(t)
	op1, err := NewOperators(sc, 0.05)
	require.NoError(t, err)
	op2, err := NewOperators(sc, 0.1)
	require.NoError(t, err)
	var (
		l1 = op1.SpectralRadius(1000, 1.e-12)
		l2 = op2.SpectralRadius(1000, 1.e-12)
	)
	// Five point Laplacian on the 3x3 interior: 8/h^2 * sin^2(3pi/8)
	lambda := 8 / 0.25 * math.Pow(math.Sin(3*math.Pi/8), 2)
	assert.InDelta(t, lambda*0.05*0.05, l1, 1.e-6)
	assert.InEpsilon(t, 4*l1, l2, 1.e-9)
	assert.NoError(t, op1.CheckStability())
	op3, err := NewOperators(sc, 1)
	require.NoError(t, err)
	assert.True(t, errors.Is(op3.CheckStability(), ErrConfiguration))
	_, err = NewMembrane(sc, 1, 10, StandingWave(2, 3))
	assert.True(t, errors.Is(err, ErrConfiguration))
	{ // The unstructured pi x pi mesh at dt = 1/20 is inside the stable range
		op, err := NewOperators(piComplex(t), 0.05)
		require.NoError(t, err)
		assert.NoError(t, op.CheckStability())
	}
}
