package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
Vector is a dense float64 cochain. DataP aliases the storage of V, so in-place
updates through either are visible in both.
*/
type Vector struct {
	V     *mat.VecDense
	DataP []float64
}

func NewVector(N int, dataO ...[]float64) (R Vector) {
	var (
		data = make([]float64, N)
	)
	if len(dataO) != 0 {
		copy(data, dataO[0])
	}
	R = Vector{
		V:     mat.NewVecDense(N, data),
		DataP: data,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)    { return v.V.Dims() }
func (v Vector) At(i, j int) float64 { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix       { return v.V.T() }
func (v Vector) AtVec(i int) float64 { return v.DataP[i] }
func (v Vector) Len() int            { return len(v.DataP) }
func (v Vector) Data() []float64     { return v.DataP }

func (v Vector) Copy() (R Vector) { // Does not change receiver
	R = NewVector(v.Len(), v.DataP)
	return
}

func (v Vector) Set(val float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] = val
	}
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	floats.Scale(a, v.DataP)
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	floats.Add(v.DataP, a.DataP)
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	floats.Sub(v.DataP, a.DataP)
	return v
}

func (v Vector) Dot(a Vector) float64 {
	return floats.Dot(v.DataP, a.DataP)
}

func (v Vector) Norm() float64 {
	return floats.Norm(v.DataP, 2)
}

func (v Vector) Min() float64 { return floats.Min(v.DataP) }
func (v Vector) Max() float64 { return floats.Max(v.DataP) }

func (v Vector) AbsMax() (amax float64) {
	for _, val := range v.DataP {
		amax = math.Max(amax, math.Abs(val))
	}
	return
}

// Weighted returns sum(weight[i] * v[i]^2).
func (v Vector) Weighted(weight []float64) (sum float64) {
	for i, val := range v.DataP {
		sum += weight[i] * val * val
	}
	return
}

func (v Vector) Equal(a Vector) bool {
	return floats.Equal(v.DataP, a.DataP)
}
