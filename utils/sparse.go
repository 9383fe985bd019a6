package utils

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return mat.Transpose{Matrix: m} }

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

func (m DOK) ToCSR() CSR {
	R := CSR{
		M:    m.M.ToCSR(),
		name: "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return R.canonical()
}

/*
CSR is a compressed sparse row operator. Assembly happens through a DOK, after
which the sparsity pattern is fixed and only values may change. Once marked read
only, any attempt to change values panics.
Column indices within each row are kept ascending, so products sum in the same
order on every build.
*/
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

func NewCSR(nr, nc int, indptr, ind []int, data []float64) (R CSR) {
	R = CSR{
		M:    sparse.NewCSR(nr, nc, indptr, ind, data),
		name: "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	R.canonical()
	return
}

// NewDiagonalCSR builds a square operator with diag on its main diagonal.
func NewDiagonalCSR(diag []float64) (R CSR) {
	var (
		n      = len(diag)
		indptr = make([]int, n+1)
		ind    = make([]int, n)
		data   = make([]float64, n)
	)
	for i := 0; i < n; i++ {
		indptr[i+1] = i + 1
		ind[i] = i
		data[i] = diag[i]
	}
	R = NewCSR(n, n, indptr, ind, data)
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return mat.Transpose{Matrix: m} }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

func (m *CSR) SetReadOnly(name ...string) CSR {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m CSR) IsReadOnly() bool { return m.readOnly }
func (m CSR) Name() string     { return m.name }

func (m CSR) Copy() (R CSR) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		raw    = m.RawMatrix()
		indptr = make([]int, len(raw.Indptr))
		ind    = make([]int, len(raw.Ind))
		data   = make([]float64, len(raw.Data))
	)
	copy(indptr, raw.Indptr)
	copy(ind, raw.Ind)
	copy(data, raw.Data)
	R = NewCSR(nr, nc, indptr, ind, data)
	return
}

func (m CSR) Transpose() (R CSR) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		raw    = m.RawMatrix()
		dok    = NewDOK(nc, nr)
	)
	for i := 0; i < nr; i++ {
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			dok.Set(raw.Ind[k], i, raw.Data[k])
		}
	}
	R = dok.ToCSR()
	return
}

func (m CSR) Mul(A CSR) (R CSR) { // Does not change receiver
	var (
		nr, nc  = m.Dims()
		nrA, nA = A.Dims()
	)
	if nc != nrA {
		panic(fmt.Errorf("dimension mismatch in sparse product: [%d,%d] * [%d,%d]", nr, nc, nrA, nA))
	}
	R = NewCSR(nr, nA, nil, nil, nil)
	R.M.Mul(m.M, A.M)
	R.canonical()
	return
}

// canonical sorts the column indices of every row in place, carrying the values along.
func (m CSR) canonical() CSR {
	raw := m.RawMatrix()
	for i := 0; i+1 < len(raw.Indptr); i++ {
		b, e := raw.Indptr[i], raw.Indptr[i+1]
		row := csrRow{ind: raw.Ind[b:e], data: raw.Data[b:e]}
		if !sort.IsSorted(row) {
			sort.Sort(row)
		}
	}
	return m
}

type csrRow struct {
	ind  []int
	data []float64
}

func (r csrRow) Len() int           { return len(r.ind) }
func (r csrRow) Less(i, j int) bool { return r.ind[i] < r.ind[j] }
func (r csrRow) Swap(i, j int) {
	r.ind[i], r.ind[j] = r.ind[j], r.ind[i]
	r.data[i], r.data[j] = r.data[j], r.data[i]
}

// IsCanonical reports whether every row stores its column indices strictly ascending.
func (m CSR) IsCanonical() bool {
	raw := m.RawMatrix()
	for i := 0; i+1 < len(raw.Indptr); i++ {
		for k := raw.Indptr[i] + 1; k < raw.Indptr[i+1]; k++ {
			if raw.Ind[k-1] >= raw.Ind[k] {
				return false
			}
		}
	}
	return true
}

func (m CSR) Scale(a float64) CSR { // Changes receiver
	m.checkWritable()
	data := m.Data()
	for i := range data {
		data[i] *= a
	}
	return m
}

// ZeroRow sets every stored value in row i to zero, keeping the sparsity pattern.
func (m CSR) ZeroRow(i int) CSR { // Changes receiver
	var (
		nr, _ = m.Dims()
		raw   = m.RawMatrix()
	)
	m.checkWritable()
	if i < 0 || i >= nr {
		panic(fmt.Errorf("row index %d out of range [0,%d) in matrix \"%v\"", i, nr, m.name))
	}
	for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
		raw.Data[k] = 0
	}
	return m
}

// IsZeroRow reports whether every stored value in row i is exactly zero.
func (m CSR) IsZeroRow(i int) bool {
	raw := m.RawMatrix()
	for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
		if raw.Data[k] != 0 {
			return false
		}
	}
	return true
}

/*
MulVecAdd accumulates y += m*x row by row. A row contributing exactly zero leaves
y untouched, so a zeroed row keeps its y value bit for bit, including the sign of zero.
*/
func (m CSR) MulVecAdd(x, y Vector) (err error) {
	var (
		raw    = m.RawMatrix()
		xD, yD = x.DataP, y.DataP
	)
	if err = m.checkVecShapes(len(xD), len(yD)); err != nil {
		return
	}
	for i := range yD {
		b, e := raw.Indptr[i], raw.Indptr[i+1]
		if sum := blas.Dusdot(raw.Data[b:e], raw.Ind[b:e], xD, 1); sum != 0 {
			yD[i] += sum
		}
	}
	return
}

// MulVec returns m*x in a new vector.
func (m CSR) MulVec(x Vector) (y Vector, err error) {
	nr, _ := m.Dims()
	if err = m.checkVecShapes(len(x.DataP), nr); err != nil {
		return
	}
	y = NewVector(nr)
	m.M.MulVecTo(y.DataP, false, x.DataP)
	return
}

func (m CSR) checkVecShapes(nx, ny int) (err error) {
	nr, nc := m.Dims()
	if nc != nx || nr != ny {
		err = fmt.Errorf("matrix \"%v\" is [%d,%d], have x[%d] and y[%d]",
			m.name, nr, nc, nx, ny)
	}
	return
}

func (m CSR) ToDense() (R *mat.Dense) {
	R = mat.DenseCopyOf(m)
	return
}

func (m CSR) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
