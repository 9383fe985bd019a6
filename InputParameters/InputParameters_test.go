package InputParameters

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Mesh: grid
Width: 2.
Height: 2.
Nx: 4
Ny: 4
StepsPerUnitTime: 20
FinalTime: 0.5
InitType: StandingWave, MovingWave # Runs both on one mesh
`)
	ip := NewMembraneParameters()
	require.NoError(t, ip.Parse(fileInput))
	assert.Equal(t, "Test Case", ip.Title)
	assert.Equal(t, "grid", ip.Mesh)
	assert.Equal(t, 2., ip.Width)
	assert.Equal(t, 4, ip.Nx)
	assert.Equal(t, []string{"StandingWave", "MovingWave"}, ip.InitTypes())
	assert.Equal(t, 10, ip.StepCount())
	assert.Equal(t, 0.05, ip.DT())
	// Keys absent from the file keep their defaults
	assert.Equal(t, 2., ip.KX)
	assert.Equal(t, 3., ip.KY)
	assert.Equal(t, math.Pi/20, ip.EdgeLength)
	assert.NoError(t, ip.Validate())
	ip.Print()
}

func TestDefaults(t *testing.T) {
	ip := NewMembraneParameters()
	assert.NoError(t, ip.Validate())
	assert.Equal(t, 120, ip.StepCount())
	assert.Equal(t, []string{"StandingWave"}, ip.InitTypes())
}

func TestValidate(t *testing.T) {
	for _, bad := range []string{
		"Width: 0",
		"Height: -1",
		"EdgeLength: 0",
		"Mesh: hexagons",
		"{Mesh: grid, Nx: 0}",
		"StepsPerUnitTime: 0",
		"FinalTime: 0",
		"FinalTime: 0.001",
		"InitType: ' , '",
		"{ZMin: 1, ZMax: 1}",
	} {
		ip := NewMembraneParameters()
		require.NoError(t, ip.Parse([]byte(bad)), bad)
		err := ip.Validate()
		assert.True(t, errors.Is(err, ErrInvalidParameter), bad)
	}
	{
		ip := NewMembraneParameters()
		assert.Error(t, ip.Parse([]byte("Nx: [1, 2]")))
	}
}
