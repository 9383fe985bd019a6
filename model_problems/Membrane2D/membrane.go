package Membrane2D

import (
	"fmt"

	"github.com/notargets/godec/utils"
)

/*
Membrane is one simulation instance of the wave equation with phi = 0 on the boundary.
The acoustic pressure v = dphi/dt lives on vertices and the particle velocity w = grad(phi)
lives on edges as one flux per edge. The complex may be shared with other instances, the
operators and fields belong to this instance alone.
*/
type Membrane struct {
	Complex   Complex
	Ops       *Operators
	DT        float64
	StepCount int
	Init      InitialCondition
	Verbose   bool
	v, w      utils.Vector
	v0        []float64
	steps     int
	fault     error // Set by a dimension mismatch, after which the instance no longer steps
}

func NewMembrane(sc Complex, dt float64, stepCount int, init InitialCondition) (m *Membrane, err error) {
	if stepCount < 1 {
		err = fmt.Errorf("%w: step count %d, must be positive", ErrConfiguration, stepCount)
		return
	}
	if init == nil {
		err = fmt.Errorf("%w: nil initial condition", ErrConfiguration)
		return
	}
	var (
		op *Operators
	)
	if op, err = NewOperators(sc, dt); err != nil {
		return
	}
	if err = op.CheckStability(); err != nil {
		return
	}
	m = &Membrane{
		Complex:   sc,
		Ops:       op,
		DT:        dt,
		StepCount: stepCount,
		Init:      init,
	}
	return
}

// InitState (re)creates the fields from the initial condition and resets the step counter.
func (m *Membrane) InitState() (err error) {
	var (
		Nv, Ne = m.Ops.Nv, m.Ops.Ne
		VX, VY = m.Complex.Coordinates()
	)
	v0, w0 := m.Init(VX, VY, Ne)
	if len(v0) != Nv || len(w0) != Ne {
		err = fmt.Errorf("%w: initial condition gave v[%d], w[%d], want v[%d], w[%d]",
			ErrDimensionMismatch, len(v0), len(w0), Nv, Ne)
		return
	}
	m.v, m.w = utils.NewVector(Nv, v0), utils.NewVector(Ne, w0)
	m.v0 = make([]float64, Nv)
	copy(m.v0, v0)
	m.steps, m.fault = 0, nil
	if m.Verbose {
		fmt.Printf("Initialized %d vertices, %d edges, %d boundary vertices, dt = %8.6f\n",
			Nv, Ne, len(m.Ops.BoundaryRows), m.DT)
	}
	return
}

/*
Step advances one leapfrog pair, v first and then w from the updated v:

	v <- v + VStep*w
	w <- w + WStep*v
*/
func (m *Membrane) Step() (err error) {
	if m.fault != nil {
		return m.fault
	}
	if err = m.Ops.VStep.MulVecAdd(m.w, m.v); err != nil {
		m.fault = fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		return m.fault
	}
	if err = m.Ops.WStep.MulVecAdd(m.v, m.w); err != nil {
		m.fault = fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		return m.fault
	}
	m.steps++
	return
}

// SimultaneousStep updates v and w from the same old state. It is not leapfrog and
// serves as a reference trajectory only.
func (m *Membrane) SimultaneousStep() (err error) {
	if m.fault != nil {
		return m.fault
	}
	var (
		dv, dw utils.Vector
	)
	if dv, err = m.Ops.VStep.MulVec(m.w); err == nil {
		dw, err = m.Ops.WStep.MulVec(m.v)
	}
	if err != nil {
		m.fault = fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		return m.fault
	}
	m.v.Add(dv)
	m.w.Add(dw)
	m.steps++
	return
}

// V and W expose the live fields, callers must not modify them.
func (m *Membrane) V() utils.Vector { return m.v }
func (m *Membrane) W() utils.Vector { return m.w }

// V0 is the vertex field as of the last InitState.
func (m *Membrane) V0() []float64 { return m.v0 }

// Snapshot returns a copy of v for rendering.
func (m *Membrane) Snapshot() (field []float64) {
	field = make([]float64, len(m.v.DataP))
	copy(field, m.v.DataP)
	return
}

func (m *Membrane) Steps() int { return m.steps }

func (m *Membrane) Time() float64 { return float64(m.steps) * m.DT }

// Energy is the Hodge weighted discrete energy 1/2 (v.star0.v + w.star1.w).
func (m *Membrane) Energy() (e float64, err error) {
	var (
		sv, sw utils.Vector
	)
	if sv, err = m.Complex.Star(0).MulVec(m.v); err == nil {
		sw, err = m.Complex.Star(1).MulVec(m.w)
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
		return
	}
	e = 0.5 * (m.v.Dot(sv) + m.w.Dot(sw))
	return
}

// EnergyL2 is the unweighted sum(v^2) + sum(w^2).
func (m *Membrane) EnergyL2() float64 {
	return m.v.Dot(m.v) + m.w.Dot(m.w)
}
