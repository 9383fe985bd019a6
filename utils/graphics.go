package utils

import (
	"image/color"

	"github.com/notargets/avs/functions"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	graphics2D "github.com/notargets/avs/geometry"
)

func ArraysToPoints(r1, r2 []float64) (points []graphics2D.Point) {
	points = make([]graphics2D.Point, len(r1))
	for i := range r1 {
		points[i].X[0] = float32(r1[i])
		points[i].X[1] = float32(r2[i])
	}
	return
}

func ToFloat32(f []float64) (f32 []float32) {
	f32 = make([]float32, len(f))
	for i, val := range f {
		f32[i] = float32(val)
	}
	return
}

type SurfacePlot struct {
	Chart        *chart2d.Chart2D
	ColorMap     *utils2.ColorMap
	GraphicsMesh *graphics2D.TriMesh
}

func NewSurfacePlot(width, height int, xmin, xmax, ymin, ymax float64,
	gm *graphics2D.TriMesh) (sp *SurfacePlot) {
	sp = &SurfacePlot{
		Chart:        chart2d.NewChart2D(width, height, float32(xmin), float32(xmax), float32(ymin), float32(ymax)),
		GraphicsMesh: gm,
	}
	go sp.Chart.Plot()
	return
}

func (sp *SurfacePlot) AddColorMap(fmin, fmax float64) {
	sp.ColorMap = utils2.NewColorMap(float32(fmin), float32(fmax), 1.)
	sp.Chart.AddColorMap(sp.ColorMap)
}

// AddFunctionSurface replaces the displayed surface with field, one value per mesh vertex.
func (sp *SurfacePlot) AddFunctionSurface(field []float32) (err error) {
	var (
		noLine = chart2d.NoLine
		white  = color.RGBA{R: 255, G: 255, B: 255, A: 1}
	)
	fs := functions.NewFSurface(sp.GraphicsMesh, [][]float32{field}, 0)
	err = sp.Chart.AddFunctionSurface("FSurface", *fs, noLine, white)
	return
}
