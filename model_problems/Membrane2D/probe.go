package Membrane2D

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Probe records the field at one vertex.
type Probe struct {
	Vertex       int
	Time, Values []float64
}

func NewProbe(vertex int) *Probe {
	return &Probe{Vertex: vertex}
}

// NearestVertex returns the vertex closest to (x, y).
func NearestVertex(VX, VY []float64, x, y float64) (vertex int) {
	dmin := math.Inf(1)
	for i := range VX {
		if d := math.Hypot(VX[i]-x, VY[i]-y); d < dmin {
			dmin, vertex = d, i
		}
	}
	return
}

func (p *Probe) Render(step int, time float64, field []float64) (err error) {
	if p.Vertex < 0 || p.Vertex >= len(field) {
		err = fmt.Errorf("%w: probe vertex %d outside field of length %d",
			ErrDimensionMismatch, p.Vertex, len(field))
		return
	}
	p.Time = append(p.Time, time)
	p.Values = append(p.Values, field[p.Vertex])
	return
}

/*
DominantFrequency returns the frequency of the strongest spectral peak of the probe
history, in cycles per unit time. The mean is removed, a Hann window applied and the
series zero padded eight fold before the transform; the peak is refined by a parabola
through the three largest neighboring bins.
*/
func (p *Probe) DominantFrequency() (freq float64, err error) {
	var (
		n = len(p.Values)
	)
	if n < 4 {
		err = fmt.Errorf("need at least 4 samples for a spectrum, have %d", n)
		return
	}
	dt := (p.Time[n-1] - p.Time[0]) / float64(n-1)
	if !(dt > 0) {
		err = fmt.Errorf("probe samples are not spaced in time")
		return
	}
	var (
		mean float64
		x    = make([]float64, n)
	)
	for _, val := range p.Values {
		mean += val
	}
	mean /= float64(n)
	for i, val := range p.Values {
		x[i] = val - mean
	}
	window.Apply(x, window.Hann)
	nfft := 1
	for nfft < 8*n {
		nfft *= 2
	}
	padded := make([]float64, nfft)
	copy(padded, x)
	spectrum := fft.FFTReal(padded)
	var (
		kmax int
		amax float64
		amp  = make([]float64, nfft/2+1)
	)
	for k := range amp {
		amp[k] = cmplx.Abs(spectrum[k])
		if k > 0 && amp[k] > amax {
			amax, kmax = amp[k], k
		}
	}
	if amax == 0 {
		err = fmt.Errorf("%w at vertex %d over %d samples", ErrNoOscillation, p.Vertex, n)
		return
	}
	peak := float64(kmax)
	if kmax > 0 && kmax < len(amp)-1 {
		a, b, c := amp[kmax-1], amp[kmax], amp[kmax+1]
		if denom := a - 2*b + c; denom != 0 {
			peak += 0.5 * (a - c) / denom
		}
	}
	freq = peak / (float64(nfft) * dt)
	return
}
