package Membrane2D

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/notargets/godec/geometry2D"
	"github.com/notargets/godec/utils"
)

/*
PNGFrames writes every Every-th frame as a colored vertex scatter to
Dir/<Prefix>_<step>.png. Values are clamped to [ZMin, ZMax] for coloring.
*/
type PNGFrames struct {
	Dir, Prefix   string
	VX, VY        []float64
	ZMin, ZMax    float64
	Every         int
	Width, Height vg.Length
	Written       []string
}

func NewPNGFrames(dir, prefix string, tm *geometry2D.TriMesh, zmin, zmax float64, every int) (pf *PNGFrames, err error) {
	if !(zmax > zmin) {
		err = fmt.Errorf("%w: color range [%g, %g] is empty", ErrConfiguration, zmin, zmax)
		return
	}
	if every < 1 {
		every = 1
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("cannot create frame directory: %w", err)
		return
	}
	pf = &PNGFrames{
		Dir: dir, Prefix: prefix,
		VX: tm.VX, VY: tm.VY,
		ZMin: zmin, ZMax: zmax,
		Every: every,
		Width: 6 * vg.Inch, Height: 6 * vg.Inch,
	}
	return
}

func (pf *PNGFrames) Render(step int, t float64, field []float64) (err error) {
	if step%pf.Every != 0 {
		return
	}
	if len(field) != len(pf.VX) {
		err = fmt.Errorf("%w: field of length %d on %d vertices", ErrDimensionMismatch, len(field), len(pf.VX))
		return
	}
	var (
		p   = plot.New()
		pts = make(plotter.XYs, len(field))
		cm  = moreland.SmoothBlueRed()
		sc  *plotter.Scatter
	)
	p.Title.Text = fmt.Sprintf("v, t = %8.4f", t)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	for i := range field {
		pts[i].X, pts[i].Y = pf.VX[i], pf.VY[i]
	}
	cm.SetMin(pf.ZMin)
	cm.SetMax(pf.ZMax)
	if sc, err = plotter.NewScatter(pts); err != nil {
		return
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		z := math.Max(pf.ZMin, math.Min(pf.ZMax, field[i]))
		c, cerr := cm.At(z)
		if cerr != nil {
			c = color.Black
		}
		return draw.GlyphStyle{Color: c, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
	}
	p.Add(sc)
	fileName := filepath.Join(pf.Dir, fmt.Sprintf("%s_%06d.png", pf.Prefix, step))
	if err = savePNG(p, pf.Width, pf.Height, fileName); err != nil {
		return
	}
	pf.Written = append(pf.Written, fileName)
	return
}

func savePNG(p *plot.Plot, w, h vg.Length, fileName string) (err error) {
	var (
		c    = vgimg.New(w, h)
		file *os.File
	)
	p.Draw(draw.New(c))
	if file, err = os.Create(fileName); err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer file.Close()
	bw := bufio.NewWriter(file)
	if _, err = (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

/*
WriteMesh writes the mesh in little endian binary:

	int64 dimensions (2)
	int64 3*K, then 3*K int64 triangle vertex indices
	int64 Nv, then 2*Nv float64 interleaved x,y
	per named boundary marker, sorted by name: [16]byte name, int64 count, count int64 packed edges
*/
func WriteMesh(w io.Writer, tm *geometry2D.TriMesh) (err error) {
	var (
		lenTriVerts = int64(3 * tm.NumTris())
		triVerts    = make([]int64, lenTriVerts)
		lenVerts    = int64(tm.NumVerts())
		xy          = make([]float64, 2*lenVerts)
		names       = make([]string, 0, len(tm.BCEdges))
	)
	for k, tri := range tm.Tris {
		for n := 0; n < 3; n++ {
			triVerts[3*k+n] = int64(tri[n])
		}
	}
	for i := range tm.VX {
		xy[2*i], xy[2*i+1] = tm.VX[i], tm.VY[i]
	}
	for name := range tm.BCEdges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, val := range []any{int64(2), lenTriVerts, triVerts, lenVerts, xy} {
		if err = binary.Write(w, binary.LittleEndian, val); err != nil {
			return
		}
	}
	for _, name := range names {
		var (
			fString [16]byte
			edges   = tm.BCEdges[name]
			packed  = make([]int64, len(edges))
		)
		copy(fString[:], name)
		for i, e := range edges {
			packed[i] = int64(e)
		}
		for _, val := range []any{fString, int64(len(edges)), packed} {
			if err = binary.Write(w, binary.LittleEndian, val); err != nil {
				return
			}
		}
	}
	return
}

/*
BinaryFrames streams fields in little endian binary: an int64 field length before
the first frame, then per frame an int64 step, a float64 time and the field values.
*/
type BinaryFrames struct {
	w       io.Writer
	length  int
	Written int
}

func NewBinaryFrames(w io.Writer) *BinaryFrames {
	return &BinaryFrames{w: w, length: -1}
}

func (bf *BinaryFrames) Render(step int, t float64, field []float64) (err error) {
	if bf.length < 0 {
		bf.length = len(field)
		if err = binary.Write(bf.w, binary.LittleEndian, int64(bf.length)); err != nil {
			return
		}
	}
	if len(field) != bf.length {
		err = fmt.Errorf("%w: frame of length %d in a stream of length %d",
			ErrDimensionMismatch, len(field), bf.length)
		return
	}
	for _, val := range []any{int64(step), t, field} {
		if err = binary.Write(bf.w, binary.LittleEndian, val); err != nil {
			return
		}
	}
	bf.Written++
	return
}

// ReadFrames decodes a stream written by BinaryFrames.
func ReadFrames(r io.Reader) (steps []int, times []float64, frames [][]float64, err error) {
	var n int64
	if err = binary.Read(r, binary.LittleEndian, &n); err != nil {
		return
	}
	for {
		var (
			step  int64
			t     float64
			field = make([]float64, n)
		)
		if err = binary.Read(r, binary.LittleEndian, &step); err != nil {
			if err == io.EOF {
				err = nil
			}
			return
		}
		if err = binary.Read(r, binary.LittleEndian, &t); err != nil {
			return
		}
		if err = binary.Read(r, binary.LittleEndian, field); err != nil {
			return
		}
		steps, times, frames = append(steps, int(step)), append(times, t), append(frames, field)
	}
}

// LiveSurface shows the field as a colored surface in an OpenGL window.
type LiveSurface struct {
	sp    *utils.SurfacePlot
	Delay time.Duration
}

func NewLiveSurface(tm *geometry2D.TriMesh, zmin, zmax float64, delay time.Duration) (ls *LiveSurface) {
	var (
		gm                     = tm.ToGraphMesh()
		xmin, xmax, ymin, ymax = tm.BoundingBox()
	)
	ls = &LiveSurface{
		sp:    utils.NewSurfacePlot(1280, 1280, xmin, xmax, ymin, ymax, &gm),
		Delay: delay,
	}
	ls.sp.AddColorMap(zmin, zmax)
	return
}

func (ls *LiveSurface) Render(step int, t float64, field []float64) (err error) {
	if err = ls.sp.AddFunctionSurface(utils.ToFloat32(field)); err != nil {
		return
	}
	if ls.Delay > 0 {
		time.Sleep(ls.Delay)
	}
	return
}
