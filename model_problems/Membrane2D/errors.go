package Membrane2D

import "errors"

var (
	// ErrConfiguration rejects a membrane at construction: bad dt, step count,
	// missing complex or initial condition, or a dt outside the stable range.
	ErrConfiguration = errors.New("invalid membrane configuration")
	// ErrInvalidComplex aborts operator assembly when a boundary vertex has no index.
	ErrInvalidComplex = errors.New("invalid simplicial complex")
	// ErrDimensionMismatch is fatal to the instance that raised it.
	ErrDimensionMismatch = errors.New("operator and field dimensions disagree")
	// ErrNoOscillation is returned for a probe history with no variation, a membrane at rest.
	ErrNoOscillation = errors.New("probe history has no oscillation")
)
