package geometry2D

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangulate(t *testing.T) {
	{ // Test Legal Edge test
		R := []float64{-0.9600, 0.9201, -0.3333, 0.0733, -0.9405}
		S := []float64{-0.9600, -0.9600, -0.3333, -0.7064, -0.0297}
		R = append(R, -1, 1, -1) // Vertices
		S = append(S, -1, -1, 1)
		R = append(R, -0.9999999) // Almost at vertex, but inside
		S = append(S, -1)
		R = append(R, 2) // Well outside
		S = append(S, 2)
		testCheck := []bool{true, true, true, true, true, false, false, false, true, false}
		for i, r := range R {
			s := S[i]
			assert.Equal(t, testCheck[i], IsIllegalEdge(r, s, -1, -1, 1, -1, -1, 1))
			// Test the opposite direction of the base triangle
			assert.Equal(t, testCheck[i], IsIllegalEdge(r, s, -1, 1, 1, -1, -1, -1))
		}
	}
	{ // Legalize flips the long diagonal of a thin quad
		VX := []float64{0, 1, 2, 1}
		VY := []float64{0, -0.2, 0, 0.2}
		tm, err := NewTriMesh(VX, VY, [][3]int{{0, 1, 2}, {0, 2, 3}})
		require.NoError(t, err)
		assert.False(t, tm.IsDelaunay())
		assert.Equal(t, 1, tm.Legalize())
		assert.True(t, tm.IsDelaunay())
		for _, tri := range tm.Tris {
			assert.True(t, tm.SignedArea(tri) > 0)
		}
		assert.InDelta(t, 0.4, tm.Area(), 1.e-12)
	}
}

func TestNewTriMesh(t *testing.T) {
	{ // Clockwise input is reoriented
		tm, err := NewTriMesh([]float64{0, 0, 1}, []float64{0, 1, 0}, [][3]int{{0, 1, 2}})
		require.NoError(t, err)
		assert.Equal(t, [3]int{0, 2, 1}, tm.Tris[0])
		assert.InDelta(t, 0.5, tm.SignedArea(tm.Tris[0]), 1.e-15)
	}
	{ // Bad references, repeats and zero area triangles are rejected
		_, err := NewTriMesh([]float64{0, 1, 0}, []float64{0, 0, 1}, [][3]int{{0, 1, 3}})
		assert.True(t, errors.Is(err, ErrInvalidMesh))
		_, err = NewTriMesh([]float64{0, 1, 2}, []float64{0, 0, 0}, [][3]int{{0, 1, 2}})
		assert.True(t, errors.Is(err, ErrInvalidMesh))
		_, err = NewTriMesh([]float64{0, 1, 0}, []float64{0, 0, 1}, [][3]int{{0, 1, 2}, {2, 1, 0}})
		assert.True(t, errors.Is(err, ErrInvalidMesh))
		_, err = NewTriMesh([]float64{0, 1}, []float64{0, 0, 1}, [][3]int{{0, 1, 2}})
		assert.True(t, errors.Is(err, ErrInvalidMesh))
	}
}

func TestRectMeshes(t *testing.T) {
	{ // Structured grid
		tm, err := RectGrid(2, 2, 4, 4)
		require.NoError(t, err)
		assert.Equal(t, 25, tm.NumVerts())
		assert.Equal(t, 32, tm.NumTris())
		assert.InDelta(t, 4., tm.Area(), 1.e-12)
		assert.InDelta(t, 0.5, tm.MinEdgeLength(), 1.e-12)
		assert.True(t, tm.IsDelaunay())
		xmin, xmax, ymin, ymax := tm.BoundingBox()
		assert.Equal(t, [4]float64{0, 2, 0, 2}, [4]float64{xmin, xmax, ymin, ymax})
	}
	{ // Unstructured covering of a pi x pi square
		var (
			L      = math.Pi / 20
			tm, err = RectUnstructured(math.Pi, math.Pi, L, 1)
		)
		require.NoError(t, err)
		assert.InDelta(t, math.Pi*math.Pi, tm.Area(), 1.e-10)
		assert.True(t, tm.IsDelaunay())
		assert.NoError(t, tm.Validate())
		assert.True(t, tm.MinEdgeLength() > 0.3*L)
		xmin, xmax, ymin, ymax := tm.BoundingBox()
		assert.Equal(t, [4]float64{0, math.Pi, 0, math.Pi}, [4]float64{xmin, xmax, ymin, ymax})
		for _, tri := range tm.Tris {
			assert.True(t, tm.SignedArea(tri) > 0)
		}
		// Same seed, same mesh
		tm2, err := RectUnstructured(math.Pi, math.Pi, L, 1)
		require.NoError(t, err)
		assert.Equal(t, tm.VX, tm2.VX)
		assert.Equal(t, tm.Tris, tm2.Tris)
	}
	{
		_, err := RectUnstructured(1, 0, 0.1, 1)
		assert.True(t, errors.Is(err, ErrInvalidMesh))
		_, err = RectGrid(1, 1, 0, 3)
		assert.True(t, errors.Is(err, ErrInvalidMesh))
	}
}
