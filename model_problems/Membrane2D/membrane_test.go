package Membrane2D

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMembrane(t *testing.T) {
	sc := gridComplex(t)
	{
		_, err := NewMembrane(sc, 0.05, 0, StandingWave(2, 3))
		assert.True(t, errors.Is(err, ErrConfiguration))
		_, err = NewMembrane(sc, 0.05, 10, nil)
		assert.True(t, errors.Is(err, ErrConfiguration))
		_, err = NewMembrane(sc, 0, 10, StandingWave(2, 3))
		assert.True(t, errors.Is(err, ErrConfiguration))
		_, err = NewMembrane(nil, 0.05, 10, StandingWave(2, 3))
		assert.True(t, errors.Is(err, ErrConfiguration))
	}
	{
		m, err := NewMembrane(sc, 0.05, 10, StandingWave(2, 3))
		require.NoError(t, err)
		assert.Equal(t, 10, m.StepCount)
		assert.Equal(t, 0.05, m.DT)
		assert.Equal(t, 0, m.Steps())
	}
}

func TestGridScenario(t *testing.T) {
	// 2x2 square, 5x5 vertices, dt = 0.05, v0 = sin(2x)sin(3y), w0 = 0
	var (
		sc     = gridComplex(t)
		Nv, Ne = sc.NumSimplices(0), sc.NumSimplices(1)
	)
	m, err := NewMembrane(sc, 0.05, 10, StandingWave(2, 3))
	require.NoError(t, err)
	require.NoError(t, m.InitState())
	v0 := m.Snapshot()
	VX, VY := sc.Coordinates()
	for i := range v0 {
		assert.Equal(t, math.Sin(2*VX[i])*math.Sin(3*VY[i]), v0[i])
	}
	assert.Equal(t, 0., m.W().AbsMax())
	require.NoError(t, m.Step())
	{ // With w0 = 0 the first v update adds nothing; the first w update picks up grad(v0)
		for i, val := range m.V().DataP {
			assert.Equal(t, v0[i], val)
		}
		assert.True(t, m.W().AbsMax() > 0)
		assert.Equal(t, Nv, m.V().Len())
		assert.Equal(t, Ne, m.W().Len())
	}
	require.NoError(t, m.Step())
	{ // The second step moves the interior, never the boundary
		onBoundary := make(map[int]bool)
		for _, row := range m.Ops.BoundaryRows {
			onBoundary[row] = true
			assert.Equal(t, v0[row], m.V().AtVec(row))
		}
		var changed int
		for i, val := range m.V().DataP {
			if !onBoundary[i] && val != v0[i] {
				changed++
			}
		}
		assert.True(t, changed > 0)
	}
	assert.Equal(t, 2, m.Steps())
	assert.InDelta(t, 0.1, m.Time(), 1.e-15)
}

func TestBoundaryInvariant(t *testing.T) {
	for _, sc := range []Complex{gridComplex(t), piComplex(t)} {
		for _, ic := range []InitialCondition{StandingWave(2, 3), MovingWave()} {
			m, err := NewMembrane(sc, 0.05, 40, ic)
			require.NoError(t, err)
			var (
				Nv, Ne = sc.NumSimplices(0), sc.NumSimplices(1)
				frames int
			)
			check := RendererFunc(func(step int, time float64, field []float64) error {
				frames++
				assert.Equal(t, Nv, len(field))
				assert.Equal(t, Ne, m.W().Len())
				for _, row := range m.Ops.BoundaryRows {
					// Bit exact including the sign of zero, sin(3y)sin(2x) gives -0 along y = 0
					assert.Equal(t, math.Float64bits(m.V0()[row]), math.Float64bits(field[row]),
						"vertex %d at step %d", row, step)
				}
				return nil
			})
			require.NoError(t, m.Run(check))
			assert.Equal(t, 41, frames)
		}
	}
}

func TestRerunIsBitIdentical(t *testing.T) {
	var (
		sc   = piComplex(t)
		runs []*Membrane
	)
	for i := 0; i < 4; i++ {
		m, err := NewMembrane(sc, 0.05, 40, StandingWave(2, 3))
		require.NoError(t, err)
		require.NoError(t, m.Run())
		assert.True(t, m.Ops.VStep.IsCanonical())
		assert.True(t, m.Ops.WStep.IsCanonical())
		runs = append(runs, m)
	}
	bits := func(f []float64) (b []uint64) {
		for _, val := range f {
			b = append(b, math.Float64bits(val))
		}
		return
	}
	first := runs[0]
	for _, m := range runs[1:] {
		assert.Equal(t, first.Ops.VStep.RawMatrix().Ind, m.Ops.VStep.RawMatrix().Ind)
		assert.Equal(t, bits(first.Ops.VStep.Data()), bits(m.Ops.VStep.Data()))
		assert.Equal(t, bits(first.V().DataP), bits(m.V().DataP))
		assert.Equal(t, bits(first.W().DataP), bits(m.W().DataP))
	}
}

func TestZeroState(t *testing.T) {
	for _, sc := range []Complex{gridComplex(t), piComplex(t)} {
		m, err := NewMembrane(sc, 0.05, 100, AtRest())
		require.NoError(t, err)
		require.NoError(t, m.Run())
		assert.Equal(t, 0., m.V().AbsMax())
		assert.Equal(t, 0., m.W().AbsMax())
		e, err := m.Energy()
		require.NoError(t, err)
		assert.Equal(t, 0., e)
		require.NoError(t, m.InitState())
		for i := 0; i < 20; i++ {
			require.NoError(t, m.SimultaneousStep())
		}
		assert.Equal(t, 0., m.V().AbsMax()+m.W().AbsMax())
	}
}

func TestLeapfrogOrder(t *testing.T) {
	sc := piComplex(t)
	leap, err := NewMembrane(sc, 0.05, 10, StandingWave(2, 3))
	require.NoError(t, err)
	sync, err := NewMembrane(sc, 0.05, 10, StandingWave(2, 3))
	require.NoError(t, err)
	require.NoError(t, leap.InitState())
	require.NoError(t, sync.InitState())
	require.NoError(t, leap.Step())
	require.NoError(t, sync.SimultaneousStep())
	// From rest both schemes take the same first step
	assert.True(t, leap.V().Equal(sync.V()))
	assert.True(t, leap.W().Equal(sync.W()))
	for i := 0; i < 4; i++ {
		require.NoError(t, leap.Step())
		require.NoError(t, sync.SimultaneousStep())
	}
	dv := leap.V().Copy().Subtract(sync.V()).AbsMax()
	dw := leap.W().Copy().Subtract(sync.W()).AbsMax()
	assert.True(t, dv > 1.e-6, "dv = %g", dv)
	assert.True(t, dw > 1.e-6, "dw = %g", dw)
}

func TestEnergyBounded(t *testing.T) {
	// 6 time units at 20 steps per unit on the pi x pi membrane
	sc := piComplex(t)
	for _, ic := range []InitialCondition{StandingWave(2, 3), MovingWave()} {
		m, err := NewMembrane(sc, 0.05, 120, ic)
		require.NoError(t, err)
		eh := NewEnergyHistory(m)
		require.NoError(t, m.Run(eh))
		require.Equal(t, 121, len(eh.Energy))
		e0 := eh.Energy[0]
		assert.True(t, e0 > 0)
		emin, emax := eh.Bounds()
		assert.True(t, emin > 0.7*e0, "emin = %g, e0 = %g", emin, e0)
		assert.True(t, emax < 1.3*e0, "emax = %g, e0 = %g", emax, e0)
		assert.True(t, eh.Drift() < 0.3)
		for _, e := range eh.EnergyL2 {
			assert.False(t, math.IsNaN(e) || math.IsInf(e, 0))
		}
	}
	{ // The standing wave starts with all of its energy in v
		m, err := NewMembrane(sc, 0.05, 1, StandingWave(2, 3))
		require.NoError(t, err)
		require.NoError(t, m.InitState())
		// 1/2 of the integral of sin^2(2x)sin^2(3y) over the square
		e, err := m.Energy()
		require.NoError(t, err)
		assert.InDelta(t, math.Pi*math.Pi/8, e, 0.05)
	}
}

func TestStandingWaveFrequency(t *testing.T) {
	var (
		sc     = piComplex(t)
		VX, VY = sc.Coordinates()
		probe  = NewProbe(NearestVertex(VX, VY, math.Pi/4, math.Pi/6))
	)
	m, err := NewMembrane(sc, 0.05, 240, StandingWave(2, 3))
	require.NoError(t, err)
	require.NoError(t, m.Run(probe))
	assert.Equal(t, 241, len(probe.Values))
	freq, err := probe.DominantFrequency()
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(13)/(2*math.Pi), freq, 0.05)
}

func TestStateErrors(t *testing.T) {
	sc := gridComplex(t)
	{ // Stepping before initialization is a dimension mismatch and stays fatal
		m, err := NewMembrane(sc, 0.05, 10, StandingWave(2, 3))
		require.NoError(t, err)
		assert.NotPanics(t, func() { _, err = m.Energy() })
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
		err = m.Step()
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
		assert.Equal(t, err, m.Step())
		assert.Equal(t, err, m.SimultaneousStep())
		require.NoError(t, m.InitState())
		assert.NoError(t, m.Step())
	}
	{
		short := func(VX, VY []float64, numEdges int) (v0, w0 []float64) {
			return make([]float64, len(VX)-1), make([]float64, numEdges)
		}
		m, err := NewMembrane(sc, 0.05, 10, short)
		require.NoError(t, err)
		err = m.Run()
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
		assert.Equal(t, 0, m.Steps())
	}
}

func TestInitType(t *testing.T) {
	it, err := NewInitType("Standing Wave")
	require.NoError(t, err)
	assert.Equal(t, STANDINGWAVE, it)
	assert.Equal(t, "Standing Wave", it.String())
	it, err = NewInitType("movingwave")
	require.NoError(t, err)
	assert.Equal(t, MOVINGWAVE, it)
	_, err = NewInitType("")
	assert.True(t, errors.Is(err, ErrConfiguration))
	_, err = NewInitType("plucked")
	assert.True(t, errors.Is(err, ErrConfiguration))
	{
		v0, w0 := MOVINGWAVE.Condition(2, 3)([]float64{math.Pi / 2}, []float64{math.Pi / 2}, 4)
		assert.InDelta(t, -0.2*math.Pi*math.Pi/4, v0[0], 1.e-14)
		assert.Equal(t, 4, len(w0))
		v0, _ = STANDINGWAVE.Condition(1, 1)([]float64{math.Pi / 2}, []float64{math.Pi / 2}, 0)
		assert.InDelta(t, 1., v0[0], 1.e-15)
	}
}
