/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/godec/DEC"
	"github.com/notargets/godec/InputParameters"
	"github.com/notargets/godec/geometry2D"
	"github.com/notargets/godec/model_problems/Membrane2D"
	"github.com/notargets/godec/readfiles"
)

type ModelMembrane struct {
	GridFile  string
	ICFile    string
	Graph     bool
	ShowMesh  bool
	PlotSteps int
	Delay     time.Duration
	OutputDir string
	PNG       bool
	Frames    string
	Verbose   bool
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// MembraneCmd represents the membrane command
var MembraneCmd = &cobra.Command{
	Use:   "membrane",
	Short: "Vibrating membrane with a fixed boundary, DEC operators and leapfrog stepping",
	Long: `Vibrating membrane with a fixed boundary. The mesh is built from the input parameters or
read from an SU2 file, the wave equation is stepped with leapfrog using discrete exterior
calculus operators, and the pressure field can be shown live or written as PNG or binary frames.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  *InputParameters.MembraneParameters
		)
		mm := &ModelMembrane{}
		mm.GridFile, _ = cmd.Flags().GetString("gridFile")
		mm.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		mm.Graph, _ = cmd.Flags().GetBool("graph")
		mm.ShowMesh, _ = cmd.Flags().GetBool("showMesh")
		mm.PNG, _ = cmd.Flags().GetBool("png")
		mm.Frames, _ = cmd.Flags().GetString("frames")
		mm.Verbose, _ = cmd.Flags().GetBool("verbose")
		mm.PlotSteps = viper.GetInt("plotSteps")
		mm.OutputDir = viper.GetString("outputDir")
		dr, _ := cmd.Flags().GetInt("delay")
		mm.Delay = time.Duration(dr) * time.Millisecond
		if ip, err = processMembraneInput(mm); err == nil {
			_, err = RunMembrane(mm, ip)
		}
		if err != nil {
			fmt.Println(errorStyle.Render("error: " + err.Error()))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(MembraneCmd)
	MembraneCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in SU2 (.su2) format, replaces the generated mesh")
	MembraneCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Mesh, Width, Height, EdgeLength\n\t- StepsPerUnitTime, FinalTime\n\t- InitType")
	MembraneCmd.Flags().BoolP("graph", "g", false, "display the membrane while computing the solution")
	MembraneCmd.Flags().BoolP("showMesh", "m", false, "display the mesh before computing")
	MembraneCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	MembraneCmd.Flags().IntP("plotSteps", "s", 1, "number of steps before plotting or writing each frame")
	MembraneCmd.Flags().StringP("outputDir", "o", ".", "directory for PNG and binary frame output")
	MembraneCmd.Flags().Bool("png", false, "write PNG frames of the pressure field")
	MembraneCmd.Flags().String("frames", "", "base name for the binary mesh and frame files")
	MembraneCmd.Flags().BoolP("verbose", "v", false, "print progress while stepping")
	_ = viper.BindPFlag("plotSteps", MembraneCmd.Flags().Lookup("plotSteps"))
	_ = viper.BindPFlag("outputDir", MembraneCmd.Flags().Lookup("outputDir"))
}

const exampleMembraneFile = `
########################################
Title: "Standing Wave"
Mesh: unstructured # Can be "grid", then set Nx and Ny
Width: 3.14159265
Height: 3.14159265
EdgeLength: 0.15707963
StepsPerUnitTime: 20
FinalTime: 6
InitType: StandingWave, MovingWave # Can be one or more of StandingWave, MovingWave, AtRest
KX: 2
KY: 3
########################################
`

func processMembraneInput(mm *ModelMembrane) (ip *InputParameters.MembraneParameters, err error) {
	ip = InputParameters.NewMembraneParameters()
	if len(mm.ICFile) == 0 {
		fmt.Printf("No input parameters file (-I, --inputConditionsFile), using defaults. Example File:%s\n",
			exampleMembraneFile)
	} else {
		var data []byte
		if data, err = os.ReadFile(mm.ICFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			err = fmt.Errorf("parsing %s: %w", mm.ICFile, err)
			return
		}
	}
	if err = ip.Validate(); err != nil {
		return
	}
	ip.Print()
	return
}

func buildMesh(mm *ModelMembrane, ip *InputParameters.MembraneParameters) (tm *geometry2D.TriMesh, err error) {
	switch {
	case len(mm.GridFile) != 0:
		tm, err = readfiles.ReadSU2(mm.GridFile, mm.Verbose)
	case strings.ToLower(ip.Mesh) == "grid":
		tm, err = geometry2D.RectGrid(ip.Width, ip.Height, ip.Nx, ip.Ny)
	default:
		tm, err = geometry2D.RectUnstructured(ip.Width, ip.Height, ip.EdgeLength, ip.Seed)
	}
	return
}

// MembraneResult is what one family member reports after its run.
type MembraneResult struct {
	Label     string
	Membrane  *Membrane2D.Membrane
	Energy    *Membrane2D.EnergyHistory
	Probe     *Membrane2D.Probe
	Frequency float64
}

func RunMembrane(mm *ModelMembrane, ip *InputParameters.MembraneParameters) (results []*MembraneResult, err error) {
	var (
		tm     *geometry2D.TriMesh
		sc     *DEC.SimplicialComplex
		jobs   []Membrane2D.Job
		labels = ip.InitTypes()
	)
	if tm, err = buildMesh(mm, ip); err != nil {
		return
	}
	if mm.ShowMesh {
		readfiles.PlotMesh(tm, true)
		time.Sleep(5 * time.Second)
	}
	if sc, err = DEC.NewSimplicialComplex(tm); err != nil {
		return
	}
	var (
		xmin, xmax, ymin, ymax = tm.BoundingBox()
		VX, VY                 = sc.Coordinates()
		probeVertex            = Membrane2D.NearestVertex(VX, VY,
			xmin+(xmax-xmin)/4, ymin+(ymax-ymin)/6)
	)
	if len(mm.Frames) != 0 {
		if err = writeMeshFile(filepath.Join(mm.OutputDir, mm.Frames+".mesh"), tm); err != nil {
			return
		}
	}
	for i, label := range labels {
		var (
			it Membrane2D.InitType
			m  *Membrane2D.Membrane
		)
		if it, err = Membrane2D.NewInitType(label); err != nil {
			return
		}
		if m, err = Membrane2D.NewMembrane(sc, ip.DT(), ip.StepCount(), it.Condition(ip.KX, ip.KY)); err != nil {
			return
		}
		m.Verbose = mm.Verbose
		res := &MembraneResult{
			Label:    it.String(),
			Membrane: m,
			Energy:   Membrane2D.NewEnergyHistory(m),
			Probe:    Membrane2D.NewProbe(probeVertex),
		}
		results = append(results, res)
		renderers := []Membrane2D.Renderer{res.Energy, res.Probe}
		name := strings.ToLower(strings.ReplaceAll(res.Label, " ", ""))
		if mm.PNG {
			var pf *Membrane2D.PNGFrames
			if pf, err = Membrane2D.NewPNGFrames(filepath.Join(mm.OutputDir, name), name, tm,
				ip.ZMin, ip.ZMax, mm.PlotSteps); err != nil {
				return
			}
			renderers = append(renderers, pf)
		}
		if len(mm.Frames) != 0 {
			var file *os.File
			if file, err = os.Create(filepath.Join(mm.OutputDir, mm.Frames+"_"+name+".bin")); err != nil {
				return
			}
			defer file.Close()
			renderers = append(renderers, Membrane2D.Every(mm.PlotSteps, Membrane2D.NewBinaryFrames(file)))
		}
		if mm.Graph && i == 0 {
			renderers = append(renderers, Membrane2D.Every(mm.PlotSteps,
				Membrane2D.NewLiveSurface(tm, ip.ZMin, ip.ZMax, mm.Delay)))
		}
		jobs = append(jobs, Membrane2D.Job{Membrane: m, Renderers: renderers})
	}
	fmt.Printf("Mesh: %d vertices, %d edges, %d triangles\n",
		sc.NumSimplices(0), sc.NumSimplices(1), sc.NumSimplices(2))
	start := time.Now()
	if err = Membrane2D.RunFamily(jobs...); err != nil {
		return
	}
	elapsed := time.Since(start)
	for _, res := range results {
		if res.Frequency, err = res.Probe.DominantFrequency(); err != nil {
			if !errors.Is(err, Membrane2D.ErrNoOscillation) {
				err = fmt.Errorf("%s: %w", res.Label, err)
				return
			}
			// A membrane at rest has no spectrum
			res.Frequency, err = 0, nil
		}
	}
	printSummary(ip, results, elapsed)
	return
}

func writeMeshFile(fileName string, tm *geometry2D.TriMesh) (err error) {
	var file *os.File
	if err = os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return
	}
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer file.Close()
	return Membrane2D.WriteMesh(file, tm)
}

func printSummary(ip *InputParameters.MembraneParameters, results []*MembraneResult, elapsed time.Duration) {
	row := func(label, format string, args ...any) string {
		return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...))
	}
	for _, res := range results {
		var (
			m          = res.Membrane
			emin, emax = res.Energy.Bounds()
			lines      []string
		)
		lines = append(lines,
			row("steps", "%d (dt = %.4f)", m.Steps(), m.DT),
			row("final time", "%.4f", m.Time()),
			row("energy range", "[%.6f, %.6f]", emin, emax),
			row("energy drift", "%.3f%%", 100*res.Energy.Drift()),
			row("probe vertex", "%d", res.Probe.Vertex),
			row("dominant frequency", "%.4f", res.Frequency),
		)
		if res.Label == Membrane2D.STANDINGWAVE.String() {
			lines = append(lines, row("analytic frequency", "%.4f",
				math.Hypot(ip.KX, ip.KY)/(2*math.Pi)))
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s: %s", ip.Title, res.Label)))
		fmt.Println(lipgloss.JoinVertical(lipgloss.Left, lines...))
		fmt.Println(graphStyle.Render(res.Energy.Plot(70, 8)))
	}
	fmt.Println(row("wall time", "%v", elapsed.Round(time.Millisecond)))
}
