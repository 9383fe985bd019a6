package geometry2D

import (
	"errors"
	"fmt"
	"math"

	graphics2D "github.com/notargets/avs/geometry"

	"github.com/notargets/godec/types"
	"github.com/notargets/godec/utils"
)

var ErrInvalidMesh = errors.New("invalid mesh")

/*
TriMesh is a 2D triangulation: vertex coordinates plus vertex index triples.
Triangles are stored counter-clockwise. BCEdges optionally carries named boundary
edge groups read from a mesh file.
*/
type TriMesh struct {
	VX, VY  []float64
	Tris    [][3]int
	BCEdges map[string][]types.EdgeInt
}

// NewTriMesh copies the inputs, orients every triangle counter-clockwise and validates the result.
func NewTriMesh(VX, VY []float64, tris [][3]int) (tm *TriMesh, err error) {
	if len(VX) != len(VY) {
		err = fmt.Errorf("%w: have %d x coordinates and %d y coordinates", ErrInvalidMesh, len(VX), len(VY))
		return
	}
	tm = &TriMesh{
		VX:   append([]float64(nil), VX...),
		VY:   append([]float64(nil), VY...),
		Tris: append([][3]int(nil), tris...),
	}
	if err = tm.Validate(); err != nil {
		tm = nil
		return
	}
	for k, tri := range tm.Tris {
		if tm.SignedArea(tri) < 0 {
			tm.Tris[k] = [3]int{tri[0], tri[2], tri[1]}
		}
	}
	return
}

func (tm *TriMesh) NumVerts() int { return len(tm.VX) }
func (tm *TriMesh) NumTris() int  { return len(tm.Tris) }

// Validate checks vertex references and rejects degenerate or repeated triangles.
func (tm *TriMesh) Validate() (err error) {
	var (
		Nv   = len(tm.VX)
		seen = make(map[types.TriKey]int, len(tm.Tris))
	)
	if Nv < 3 || len(tm.Tris) == 0 {
		err = fmt.Errorf("%w: need at least 3 vertices and 1 triangle, have %d and %d",
			ErrInvalidMesh, Nv, len(tm.Tris))
		return
	}
	scale := tm.Extent()
	for k, tri := range tm.Tris {
		for _, v := range tri {
			if v < 0 || v >= Nv {
				err = fmt.Errorf("%w: triangle %d references vertex %d, have %d vertices",
					ErrInvalidMesh, k, v, Nv)
				return
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			err = fmt.Errorf("%w: triangle %d repeats a vertex %v", ErrInvalidMesh, k, tri)
			return
		}
		if math.Abs(tm.SignedArea(tri)) <= utils.NODETOL*scale*scale {
			err = fmt.Errorf("%w: triangle %d %v has zero area", ErrInvalidMesh, k, tri)
			return
		}
		key := types.NewTriKey(tri)
		if prev, dup := seen[key]; dup {
			err = fmt.Errorf("%w: triangles %d and %d share vertices %v", ErrInvalidMesh, prev, k, tri)
			return
		}
		seen[key] = k
	}
	return
}

func (tm *TriMesh) SignedArea(tri [3]int) float64 {
	var (
		x0, y0 = tm.VX[tri[0]], tm.VY[tri[0]]
		x1, y1 = tm.VX[tri[1]], tm.VY[tri[1]]
		x2, y2 = tm.VX[tri[2]], tm.VY[tri[2]]
	)
	return 0.5 * ((x1-x0)*(y2-y0) - (x2-x0)*(y1-y0))
}

func (tm *TriMesh) Area() (area float64) {
	for _, tri := range tm.Tris {
		area += math.Abs(tm.SignedArea(tri))
	}
	return
}

// BoundingBox returns the min and max coordinates of the vertices.
func (tm *TriMesh) BoundingBox() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for i, x := range tm.VX {
		y := tm.VY[i]
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	return
}

// Extent is the larger side of the bounding box.
func (tm *TriMesh) Extent() float64 {
	xmin, xmax, ymin, ymax := tm.BoundingBox()
	return math.Max(xmax-xmin, ymax-ymin)
}

func (tm *TriMesh) EdgeLength(v1, v2 int) float64 {
	return math.Hypot(tm.VX[v2]-tm.VX[v1], tm.VY[v2]-tm.VY[v1])
}

// MinEdgeLength is the shortest triangle edge in the mesh.
func (tm *TriMesh) MinEdgeLength() (hmin float64) {
	hmin = math.Inf(1)
	for _, tri := range tm.Tris {
		for n := 0; n < 3; n++ {
			hmin = math.Min(hmin, tm.EdgeLength(tri[n], tri[(n+1)%3]))
		}
	}
	return
}

func (tm *TriMesh) ToGraphMesh() (trisOut graphics2D.TriMesh) {
	pts := utils.ArraysToPoints(tm.VX, tm.VY)
	tris := make([]graphics2D.Triangle, len(tm.Tris))
	for i, tri := range tm.Tris {
		tris[i].Nodes[0] = int32(tri[0])
		tris[i].Nodes[1] = int32(tri[1])
		tris[i].Nodes[2] = int32(tri[2])
	}
	trisOut = graphics2D.TriMesh{
		BaseGeometryClass: graphics2D.BaseGeometryClass{
			Geometry: pts,
		},
		Triangles:  tris,
		Attributes: nil,
	}
	return
}
