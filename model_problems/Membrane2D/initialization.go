package Membrane2D

import (
	"fmt"
	"math"
	"strings"
)

// InitialCondition produces v0 (one value per vertex) and w0 (one value per edge).
type InitialCondition func(VX, VY []float64, numEdges int) (v0, w0 []float64)

type InitType uint

const (
	STANDINGWAVE InitType = iota
	MOVINGWAVE
	ATREST
)

var (
	InitNames = map[string]InitType{
		"standingwave": STANDINGWAVE,
		"movingwave":   MOVINGWAVE,
		"atrest":       ATREST,
	}
	InitPrintNames = []string{"Standing Wave", "Moving Wave", "At Rest"}
)

func (it InitType) String() string {
	if int(it) < len(InitPrintNames) {
		return InitPrintNames[it]
	}
	return fmt.Sprintf("InitType(%d)", uint(it))
}

func NewInitType(label string) (it InitType, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		err = fmt.Errorf("%w: empty init type, must be one of %v", ErrConfiguration, initLabels())
		return
	}
	label = strings.ToLower(strings.ReplaceAll(label, " ", ""))
	if it, ok = InitNames[label]; !ok {
		err = fmt.Errorf("%w: unable to use init type named %s, must be one of %v",
			ErrConfiguration, label, initLabels())
	}
	return
}

func initLabels() (labels []string) {
	for _, it := range []InitType{STANDINGWAVE, MOVINGWAVE, ATREST} {
		for name, t := range InitNames {
			if t == it {
				labels = append(labels, name)
			}
		}
	}
	return
}

// Condition returns the preset for it; kx and ky set the standing wave mode numbers.
func (it InitType) Condition(kx, ky float64) (ic InitialCondition) {
	switch it {
	case STANDINGWAVE:
		ic = StandingWave(kx, ky)
	case MOVINGWAVE:
		ic = MovingWave()
	case ATREST:
		ic = AtRest()
	}
	return
}

// StandingWave sets v0 = sin(kx*x)*sin(ky*y) and w0 = 0. On [0,pi]x[0,pi] with integer
// mode numbers the membrane oscillates at sqrt(kx^2+ky^2)/(2*pi).
func StandingWave(kx, ky float64) InitialCondition {
	return func(VX, VY []float64, numEdges int) (v0, w0 []float64) {
		v0 = make([]float64, len(VX))
		for i := range VX {
			v0[i] = math.Sin(kx*VX[i]) * math.Sin(ky*VY[i])
		}
		w0 = make([]float64, numEdges)
		return
	}
}

// MovingWave sets v0 = 0.2*x^2*sin(3x)*sin(y) and w0 = 0, a lopsided pulse that travels.
func MovingWave() InitialCondition {
	return func(VX, VY []float64, numEdges int) (v0, w0 []float64) {
		v0 = make([]float64, len(VX))
		for i := range VX {
			x, y := VX[i], VY[i]
			v0[i] = 0.2 * x * x * math.Sin(3*x) * math.Sin(y)
		}
		w0 = make([]float64, numEdges)
		return
	}
}

func AtRest() InitialCondition {
	return func(VX, VY []float64, numEdges int) (v0, w0 []float64) {
		return make([]float64, len(VX)), make([]float64, numEdges)
	}
}
