package InputParameters

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ghodss/yaml"
)

var ErrInvalidParameter = errors.New("invalid input parameter")

// Parameters obtained from the YAML input file
type MembraneParameters struct {
	Title            string  `yaml:"Title"`
	Mesh             string  `yaml:"Mesh"` // "unstructured" or "grid"
	Width            float64 `yaml:"Width"`
	Height           float64 `yaml:"Height"`
	EdgeLength       float64 `yaml:"EdgeLength"` // Target edge length of the unstructured mesh
	Nx               int     `yaml:"Nx"`         // Cells per side of the structured grid
	Ny               int     `yaml:"Ny"`
	Seed             int64   `yaml:"Seed"`
	StepsPerUnitTime int     `yaml:"StepsPerUnitTime"`
	FinalTime        float64 `yaml:"FinalTime"`
	InitType         string  `yaml:"InitType"` // Comma separated list runs a family on one mesh
	KX               float64 `yaml:"KX"`
	KY               float64 `yaml:"KY"`
	ZMin             float64 `yaml:"ZMin"`
	ZMax             float64 `yaml:"ZMax"`
}

// NewMembraneParameters returns the pi x pi membrane with 20 vertices per side,
// stepped at dt = 1/20 for 6 time units.
func NewMembraneParameters() *MembraneParameters {
	return &MembraneParameters{
		Title:            "Vibrating Membrane",
		Mesh:             "unstructured",
		Width:            math.Pi,
		Height:           math.Pi,
		EdgeLength:       math.Pi / 20,
		Nx:               20,
		Ny:               20,
		Seed:             1,
		StepsPerUnitTime: 20,
		FinalTime:        6,
		InitType:         "StandingWave",
		KX:               2,
		KY:               3,
		ZMin:             -1.5,
		ZMax:             1.5,
	}
}

// Parse overlays the YAML in data onto ip, keys absent from data keep their values.
func (ip *MembraneParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *MembraneParameters) Validate() (err error) {
	var (
		problems []string
	)
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}
	check(ip.Width > 0 && ip.Height > 0, "domain %gx%g must have positive size", ip.Width, ip.Height)
	switch strings.ToLower(ip.Mesh) {
	case "unstructured":
		check(ip.EdgeLength > 0, "EdgeLength %g must be positive", ip.EdgeLength)
	case "grid":
		check(ip.Nx > 0 && ip.Ny > 0, "grid %dx%d must have positive resolution", ip.Nx, ip.Ny)
	default:
		check(false, "Mesh %q must be unstructured or grid", ip.Mesh)
	}
	check(ip.StepsPerUnitTime > 0, "StepsPerUnitTime %d must be positive", ip.StepsPerUnitTime)
	check(ip.FinalTime > 0, "FinalTime %g must be positive", ip.FinalTime)
	check(ip.StepCount() > 0, "FinalTime %g is less than one step", ip.FinalTime)
	check(len(ip.InitTypes()) > 0, "InitType must name at least one initial condition")
	check(ip.ZMax > ip.ZMin, "plot range [%g, %g] is empty", ip.ZMin, ip.ZMax)
	if len(problems) != 0 {
		err = fmt.Errorf("%w: %s", ErrInvalidParameter, strings.Join(problems, "; "))
	}
	return
}

func (ip *MembraneParameters) DT() float64 {
	return 1 / float64(ip.StepsPerUnitTime)
}

func (ip *MembraneParameters) StepCount() int {
	return int(math.Round(ip.FinalTime * float64(ip.StepsPerUnitTime)))
}

// InitTypes splits the InitType list.
func (ip *MembraneParameters) InitTypes() (labels []string) {
	for _, label := range strings.Split(ip.InitType, ",") {
		if label = strings.TrimSpace(label); len(label) != 0 {
			labels = append(labels, label)
		}
	}
	return
}

func (ip *MembraneParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Mesh\n", ip.Mesh)
	fmt.Printf("%8.5f x %8.5f\t= Domain\n", ip.Width, ip.Height)
	if strings.ToLower(ip.Mesh) == "grid" {
		fmt.Printf("[%d x %d]\t\t\t= Grid Cells\n", ip.Nx, ip.Ny)
	} else {
		fmt.Printf("%8.5f\t\t= Edge Length\n", ip.EdgeLength)
		fmt.Printf("[%d]\t\t\t\t= Seed\n", ip.Seed)
	}
	fmt.Printf("[%d]\t\t\t\t= Steps Per Unit Time\n", ip.StepsPerUnitTime)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%v\t= InitType\n", ip.InitTypes())
	fmt.Printf("[%g, %g]\t\t\t= Wave Numbers\n", ip.KX, ip.KY)
}
