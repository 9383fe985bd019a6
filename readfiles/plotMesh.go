package readfiles

import (
	"image/color"

	"github.com/notargets/avs/chart2d"
	graphics2D "github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/godec/geometry2D"
	"github.com/notargets/godec/types"
)

// PlotMesh opens a chart window showing the mesh edges, with boundary marker edges colored.
func PlotMesh(tm *geometry2D.TriMesh, plotPoints bool) (chart *chart2d.Chart2D) {
	var (
		trimesh   = tm.ToGraphMesh()
		K         = tm.NumTris()
		onMarker  = make(map[types.EdgeKey]bool)
		colorMap  = utils2.NewColorMap(0, 1, 1)
		boundaryA = float32(1)
	)
	for _, edges := range tm.BCEdges {
		for _, e := range edges {
			onMarker[e.GetKey()] = true
		}
	}
	trimesh.Attributes = make([][]float32, K) // One BC attribute per face
	for k, tri := range tm.Tris {
		trimesh.Attributes[k] = make([]float32, 3)
		for i := 0; i < 3; i++ {
			if onMarker[types.NewEdgeKey([2]int{tri[i], tri[(i+1)%3]})] {
				trimesh.Attributes[k][i] = boundaryA
			}
		}
	}
	box := graphics2D.NewBoundingBox(trimesh.GetGeometry())
	box = box.Scale(1.5)
	chart = chart2d.NewChart2D(1920, 1920, box.XMin[0], box.XMax[0], box.XMin[1], box.XMax[1])
	chart.AddColorMap(colorMap)
	go chart.Plot()
	white := color.RGBA{
		R: 255,
		G: 255,
		B: 255,
		A: 0,
	}
	black := color.RGBA{
		R: 0,
		G: 0,
		B: 0,
		A: 0,
	}
	if err := chart.AddTriMesh("TriMesh", trimesh,
		chart2d.CrossGlyph, chart2d.Solid, white); err != nil {
		panic("unable to add graph series")
	}
	var ptsGlyph chart2d.GlyphType
	ptsGlyph = chart2d.NoGlyph
	if plotPoints {
		ptsGlyph = chart2d.CircleGlyph
	}
	if err := chart.AddSeries("Vertices", tm.VX, tm.VY,
		ptsGlyph, chart2d.NoLine, black); err != nil {
		panic(err)
	}
	return
}
