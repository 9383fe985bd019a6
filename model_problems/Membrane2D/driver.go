package Membrane2D

import (
	"fmt"
	"sync"

	"github.com/notargets/godec/utils"
)

// Renderer receives the vertex field after every completed step, in step order, starting
// with the initial state as step 0. The field is a copy owned by the renderer.
type Renderer interface {
	Render(step int, time float64, field []float64) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(step int, time float64, field []float64) error

func (f RendererFunc) Render(step int, time float64, field []float64) error {
	return f(step, time, field)
}

// Every passes only frames whose step is a multiple of n to r.
func Every(n int, r Renderer) Renderer {
	if n <= 1 {
		return r
	}
	return RendererFunc(func(step int, time float64, field []float64) error {
		if step%n != 0 {
			return nil
		}
		return r.Render(step, time, field)
	})
}

var logFrequency = 20

// Run initializes the state once, renders frame 0, then steps StepCount times rendering
// after each step. The first step or renderer error stops the run; the state stays valid.
func (m *Membrane) Run(renderers ...Renderer) (err error) {
	if err = m.InitState(); err != nil {
		return
	}
	if err = m.render(renderers); err != nil {
		return
	}
	if m.Verbose {
		fmt.Printf("FinalTime = %8.4f, Nsteps = %d, dt = %8.6f\n",
			float64(m.StepCount)*m.DT, m.StepCount, m.DT)
	}
	for tstep := 0; tstep < m.StepCount; tstep++ {
		if err = m.Step(); err != nil {
			return
		}
		if err = m.render(renderers); err != nil {
			return
		}
		if (tstep+1)%logFrequency == 0 {
			if !utils.IsFinite(m.v.DataP) || !utils.IsFinite(m.w.DataP) {
				err = fmt.Errorf("fields are not finite at step %d, time %8.4f", m.steps, m.Time())
				return
			}
			if m.Verbose {
				var e float64
				if e, err = m.Energy(); err != nil {
					return
				}
				fmt.Printf("Time = %8.4f, step = %d, vmin = %8.5f, vmax = %8.5f, energy = %10.6f\n",
					m.Time(), m.steps, m.v.Min(), m.v.Max(), e)
			}
		}
	}
	if m.Verbose {
		fmt.Printf("Completed %d steps, %s\n", m.steps, utils.GetMemUsage())
	}
	return
}

func (m *Membrane) render(renderers []Renderer) (err error) {
	for _, r := range renderers {
		if err = r.Render(m.steps, m.Time(), m.Snapshot()); err != nil {
			err = fmt.Errorf("render of step %d: %w", m.steps, err)
			return
		}
	}
	return
}

// Job pairs a membrane with the renderers that watch it. Renderers are not shared between jobs.
type Job struct {
	Membrane  *Membrane
	Renderers []Renderer
}

// RunFamily runs each job on its own goroutine and returns the first error in job order.
// Jobs may share a complex, which is only read.
func RunFamily(jobs ...Job) (err error) {
	var (
		wg   sync.WaitGroup
		errs = make([]error, len(jobs))
	)
	for i, job := range jobs {
		if job.Membrane == nil {
			errs[i] = fmt.Errorf("%w: job %d has no membrane", ErrConfiguration, i)
			continue
		}
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			errs[i] = job.Membrane.Run(job.Renderers...)
		}(i, job)
	}
	wg.Wait()
	for i, e := range errs {
		if e != nil {
			err = fmt.Errorf("family member %d: %w", i, e)
			return
		}
	}
	return
}
