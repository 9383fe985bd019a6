package Membrane2D

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
)

// EnergyHistory records the energy of a membrane at every rendered frame.
type EnergyHistory struct {
	m            *Membrane
	Time, Energy []float64
	EnergyL2     []float64
}

func NewEnergyHistory(m *Membrane) *EnergyHistory {
	return &EnergyHistory{m: m}
}

func (eh *EnergyHistory) Render(step int, time float64, field []float64) (err error) {
	var e float64
	if e, err = eh.m.Energy(); err != nil {
		return
	}
	if math.IsNaN(e) || math.IsInf(e, 0) {
		err = fmt.Errorf("energy is not finite at step %d, time %8.4f", step, time)
		return
	}
	eh.Time = append(eh.Time, time)
	eh.Energy = append(eh.Energy, e)
	eh.EnergyL2 = append(eh.EnergyL2, eh.m.EnergyL2())
	return
}

func (eh *EnergyHistory) Bounds() (emin, emax float64) {
	if len(eh.Energy) == 0 {
		return
	}
	emin, emax = eh.Energy[0], eh.Energy[0]
	for _, e := range eh.Energy {
		emin, emax = math.Min(emin, e), math.Max(emax, e)
	}
	return
}

// Drift is the spread of the recorded energy relative to its initial value.
func (eh *EnergyHistory) Drift() float64 {
	if len(eh.Energy) == 0 || eh.Energy[0] == 0 {
		return 0
	}
	emin, emax := eh.Bounds()
	return (emax - emin) / eh.Energy[0]
}

// Plot draws the energy history as a terminal chart.
func (eh *EnergyHistory) Plot(width, height int) string {
	if len(eh.Energy) == 0 {
		return ""
	}
	return asciigraph.Plot(eh.Energy,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("energy, t = [0, %.2f]", eh.Time[len(eh.Time)-1])),
	)
}
