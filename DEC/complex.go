package DEC

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notargets/godec/geometry2D"
	"github.com/notargets/godec/types"
	"github.com/notargets/godec/utils"
)

var ErrDegenerateComplex = errors.New("degenerate simplicial complex")

/*
SimplicialComplex is a read-only view of a 2D triangle mesh as a simplicial complex:
	- 0-simplices are the mesh vertices, indexed as in the mesh
	- 1-simplices are the edges, oriented from the lower to the higher vertex index and
	  indexed in lexicographic order of their vertex pairs
	- 2-simplices are the triangles, oriented counter-clockwise and indexed as in the mesh
The exterior derivatives and the circumcentric Hodge stars are assembled once at
construction and marked read only. A complex may be shared by any number of solvers.
*/
type SimplicialComplex struct {
	Mesh      *geometry2D.TriMesh
	Edges     [][2]int
	edgeIndex map[types.EdgeKey]int
	triIndex  map[types.TriKey]int
	edgeTris  [][]int // Triangles incident on each edge
	boundary  []int   // Edge indices of the boundary, ascending
	d         [2]utils.CSR
	star      [3]utils.CSR
	starInv   [3]utils.CSR
	dual      [3][]float64 // Dual cell volumes: area per vertex, length per edge, 1 per triangle
	primal    [3][]float64 // Primal volumes: 1 per vertex, length per edge, area per triangle
}

func NewSimplicialComplex(tm *geometry2D.TriMesh) (sc *SimplicialComplex, err error) {
	if tm == nil {
		err = fmt.Errorf("%w: nil mesh", ErrDegenerateComplex)
		return
	}
	if err = tm.Validate(); err != nil {
		return
	}
	sc = &SimplicialComplex{
		Mesh:     tm,
		triIndex: make(map[types.TriKey]int, tm.NumTris()),
	}
	sc.enumerateEdges()
	for k, tri := range tm.Tris {
		sc.triIndex[types.NewTriKey(tri)] = k
	}
	sc.buildDerivatives()
	if err = sc.buildHodgeStars(); err != nil {
		sc = nil
		return
	}
	return
}

func (sc *SimplicialComplex) enumerateEdges() {
	var (
		tm   = sc.Mesh
		keys = make([]types.EdgeKey, 0, 3*tm.NumTris()/2+3)
		seen = make(map[types.EdgeKey]bool, 3*tm.NumTris()/2+3)
	)
	for _, tri := range tm.Tris {
		for n := 0; n < 3; n++ {
			ek := types.NewEdgeKey([2]int{tri[n], tri[(n+1)%3]})
			if !seen[ek] {
				seen[ek] = true
				keys = append(keys, ek)
			}
		}
	}
	// The packed key orders by the higher vertex first, so sort on the vertex pair
	sort.Slice(keys, func(i, j int) bool {
		vi, vj := keys[i].GetVertices(false), keys[j].GetVertices(false)
		if vi[0] != vj[0] {
			return vi[0] < vj[0]
		}
		return vi[1] < vj[1]
	})
	sc.Edges = make([][2]int, len(keys))
	sc.edgeIndex = make(map[types.EdgeKey]int, len(keys))
	for i, ek := range keys {
		sc.Edges[i] = ek.GetVertices(false)
		sc.edgeIndex[ek] = i
	}
	sc.edgeTris = make([][]int, len(keys))
	for k, tri := range tm.Tris {
		for n := 0; n < 3; n++ {
			e := sc.edgeIndex[types.NewEdgeKey([2]int{tri[n], tri[(n+1)%3]})]
			sc.edgeTris[e] = append(sc.edgeTris[e], k)
		}
	}
	for e, tris := range sc.edgeTris {
		if len(tris) == 1 {
			sc.boundary = append(sc.boundary, e)
		}
	}
}

func (sc *SimplicialComplex) buildDerivatives() {
	var (
		Nv, Ne, Nt = sc.NumSimplices(0), sc.NumSimplices(1), sc.NumSimplices(2)
		d0         = utils.NewDOK(Ne, Nv)
		d1         = utils.NewDOK(Nt, Ne)
	)
	for e, verts := range sc.Edges {
		d0.Set(e, verts[0], -1)
		d0.Set(e, verts[1], 1)
	}
	for k, tri := range sc.Mesh.Tris {
		for n := 0; n < 3; n++ {
			v1, v2 := tri[n], tri[(n+1)%3]
			e := sc.edgeIndex[types.NewEdgeKey([2]int{v1, v2})]
			sign := 1.
			if v1 > v2 { // Traversed against the edge orientation
				sign = -1
			}
			d1.Set(k, e, sign)
		}
	}
	sc.d[0] = d0.ToCSR()
	sc.d[0].SetReadOnly("d0")
	sc.d[1] = d1.ToCSR()
	sc.d[1].SetReadOnly("d1")
}

func (sc *SimplicialComplex) NumSimplices(k int) int {
	switch k {
	case 0:
		return sc.Mesh.NumVerts()
	case 1:
		return len(sc.Edges)
	case 2:
		return sc.Mesh.NumTris()
	}
	return 0
}

// D returns the exterior derivative mapping k-cochains to (k+1)-cochains, k = 0 or 1.
func (sc *SimplicialComplex) D(k int) utils.CSR {
	sc.checkDim(k, 1)
	return sc.d[k]
}

// Star returns the diagonal Hodge star mapping primal k-cochains to dual (2-k)-cochains.
func (sc *SimplicialComplex) Star(k int) utils.CSR {
	sc.checkDim(k, 2)
	return sc.star[k]
}

func (sc *SimplicialComplex) StarInv(k int) utils.CSR {
	sc.checkDim(k, 2)
	return sc.starInv[k]
}

func (sc *SimplicialComplex) DualVolume(k int) []float64 {
	sc.checkDim(k, 2)
	return sc.dual[k]
}

func (sc *SimplicialComplex) PrimalVolume(k int) []float64 {
	sc.checkDim(k, 2)
	return sc.primal[k]
}

func (sc *SimplicialComplex) checkDim(k, kmax int) {
	if k < 0 || k > kmax {
		panic(fmt.Errorf("simplex dimension %d out of range [0,%d]", k, kmax))
	}
}

// Boundary returns the boundary edges, each of which belongs to exactly one triangle.
func (sc *SimplicialComplex) Boundary() (edges []Simplex) {
	edges = make([]Simplex, len(sc.boundary))
	for i, e := range sc.boundary {
		edges[i] = sc.Simplex(1, e)
	}
	return
}

// BoundaryVertices returns the vertex indices lying on a boundary edge, ascending.
func (sc *SimplicialComplex) BoundaryVertices() (verts []int) {
	onBoundary := make([]bool, sc.NumSimplices(0))
	for _, e := range sc.boundary {
		onBoundary[sc.Edges[e][0]] = true
		onBoundary[sc.Edges[e][1]] = true
	}
	for v, on := range onBoundary {
		if on {
			verts = append(verts, v)
		}
	}
	return
}

// IncidentTriangles returns the triangles sharing edge e.
func (sc *SimplicialComplex) IncidentTriangles(e int) []int {
	return sc.edgeTris[e]
}

// Simplex returns the k-simplex at index.
func (sc *SimplicialComplex) Simplex(k, index int) (s Simplex) {
	switch k {
	case 0:
		s = Simplex{Verts: []int{index}}
	case 1:
		s = Simplex{Verts: []int{sc.Edges[index][0], sc.Edges[index][1]}}
	case 2:
		tri := sc.Mesh.Tris[index]
		s = Simplex{Verts: []int{tri[0], tri[1], tri[2]}}
	default:
		sc.checkDim(k, 2)
	}
	return
}

func (sc *SimplicialComplex) VertexIndex(v int) (index int, ok bool) {
	return sc.SimplexIndex(Simplex{Verts: []int{v}})
}

func (sc *SimplicialComplex) EdgeIndex(ek types.EdgeKey) (index int, ok bool) {
	index, ok = sc.edgeIndex[ek]
	return
}

// Coordinates returns the vertex positions, indexed as the 0-simplices.
func (sc *SimplicialComplex) Coordinates() (VX, VY []float64) {
	return sc.Mesh.VX, sc.Mesh.VY
}

// SimplexIndex looks up the index of s among the simplices of its dimension.
func (sc *SimplicialComplex) SimplexIndex(s Simplex) (index int, ok bool) {
	switch s.Dim() {
	case 0:
		v := s.Verts[0]
		if v >= 0 && v < sc.NumSimplices(0) {
			index, ok = v, true
		}
	case 1:
		if s.Verts[0] < 0 || s.Verts[1] < 0 {
			return
		}
		index, ok = sc.edgeIndex[types.NewEdgeKey([2]int{s.Verts[0], s.Verts[1]})]
	case 2:
		for _, v := range s.Verts {
			if v < 0 || v >= sc.NumSimplices(0) {
				return
			}
		}
		index, ok = sc.triIndex[types.NewTriKey([3]int{s.Verts[0], s.Verts[1], s.Verts[2]})]
	}
	return
}

/*
Simplex is an oriented simplex given by its vertices. The orientation of a 1-simplex is
from Verts[0] to Verts[1], of a 2-simplex the cyclic order of Verts.
*/
type Simplex struct {
	Verts []int
}

func (s Simplex) Dim() int { return len(s.Verts) - 1 }

// Boundary returns the faces of s with the orientation induced by s, empty for a vertex.
func (s Simplex) Boundary() (faces []Simplex) {
	switch s.Dim() {
	case 1:
		faces = []Simplex{{Verts: []int{s.Verts[0]}}, {Verts: []int{s.Verts[1]}}}
	case 2:
		faces = make([]Simplex, 3)
		for n := 0; n < 3; n++ {
			faces[n] = Simplex{Verts: []int{s.Verts[n], s.Verts[(n+1)%3]}}
		}
	}
	return
}
