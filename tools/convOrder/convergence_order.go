package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/notargets/godec/DEC"
	"github.com/notargets/godec/geometry2D"
	"github.com/notargets/godec/model_problems/Membrane2D"
	"github.com/notargets/godec/utils"
)

var (
	levels    = 4
	coarsest  = 8
	finalTime = 1.
	courant   = 0.25
)

// Refinement study of the standing wave on the pi x pi membrane, written as CSV to stdout.
func main() {
	levelsPtr := flag.Int("levels", levels, "number of grid refinements")
	coarsestPtr := flag.Int("N", coarsest, "cells per side of the coarsest grid")
	ftPtr := flag.Float64("FinalTime", finalTime, "simulated time at which the error is measured")
	courantPtr := flag.Float64("courant", courant, "dt as a fraction of the cell size")
	flag.Parse()
	levels, coarsest, finalTime, courant = *levelsPtr, *coarsestPtr, *ftPtr, *courantPtr
	if levels < 1 || coarsest < 2 || !(finalTime > 0) || !(courant > 0) {
		flag.Usage()
		os.Exit(1)
	}
	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"N", "h", "dt", "steps", "error", "order"})
	var hPrev, ePrev float64
	for level := 0; level < levels; level++ {
		n := coarsest << level
		cs, err := runLevel(n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "level %d: %v\n", level, err)
			os.Exit(1)
		}
		order := math.NaN()
		if level > 0 {
			order = math.Log(ePrev/cs.err) / math.Log(hPrev/cs.h)
		}
		hPrev, ePrev = cs.h, cs.err
		_ = w.Write([]string{
			strconv.Itoa(n),
			strconv.FormatFloat(cs.h, 'g', 6, 64),
			strconv.FormatFloat(cs.dt, 'g', 6, 64),
			strconv.Itoa(cs.steps),
			strconv.FormatFloat(cs.err, 'e', 6, 64),
			strconv.FormatFloat(order, 'f', 3, 64),
		})
	}
	w.Flush()
}

type convergenceSample struct {
	h, dt, err float64
	steps      int
}

// runLevel measures the dual area weighted L2 error of v against v0*cos(sqrt(13) t).
func runLevel(n int) (cs convergenceSample, err error) {
	var (
		tm *geometry2D.TriMesh
		sc *DEC.SimplicialComplex
		m  *Membrane2D.Membrane
	)
	if tm, err = geometry2D.RectGrid(math.Pi, math.Pi, n, n); err != nil {
		return
	}
	if sc, err = DEC.NewSimplicialComplex(tm); err != nil {
		return
	}
	cs.h = math.Pi / float64(n)
	cs.steps = int(math.Ceil(finalTime / (courant * cs.h)))
	cs.dt = finalTime / float64(cs.steps)
	if m, err = Membrane2D.NewMembrane(sc, cs.dt, cs.steps, Membrane2D.StandingWave(2, 3)); err != nil {
		return
	}
	if err = m.Run(); err != nil {
		return
	}
	var (
		exact = utils.NewVector(len(m.V0()), m.V0()).Scale(math.Cos(math.Sqrt(13) * m.Time()))
		diff  = m.V().Copy().Subtract(exact)
	)
	cs.err = math.Sqrt(diff.Weighted(sc.DualVolume(0)))
	return
}
