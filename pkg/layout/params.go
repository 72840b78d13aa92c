package layout

import (
	"math"

	"github.com/matzehuels/meshforce/pkg/errors"
)

// Default parameter values.
const (
	// DefaultDistOpt is the default optimal distance k.
	DefaultDistOpt = 0.5

	// DefaultTempStart is the default initial per-axis displacement cap.
	DefaultTempStart = 0.1

	// DefaultIterations is the default number of iterations.
	DefaultIterations = 1
)

// Params configures a layout run.
type Params struct {
	// DistOpt is the optimal distance k at which attraction and repulsion
	// balance for adjacent vertices. Must be > 0.
	DistOpt float64 `json:"dist_opt" bson:"dist_opt" toml:"dist_opt"`

	// TempStart is the temperature of the first iteration: the largest
	// distance a vertex may move along any single axis.
	TempStart float64 `json:"temp_start" bson:"temp_start" toml:"temp_start"`

	// Iterations is the number of steps to run. Zero returns the input.
	Iterations int `json:"iterations" bson:"iterations" toml:"iterations"`
}

// DefaultParams returns the default parameters.
func DefaultParams() Params {
	return Params{
		DistOpt:    DefaultDistOpt,
		TempStart:  DefaultTempStart,
		Iterations: DefaultIterations,
	}
}

// Validate reports an [errors.ErrCodeInvalidParameter] error for parameters
// the engine cannot run with.
func (p Params) Validate() error {
	if !(p.DistOpt > 0) || math.IsInf(p.DistOpt, 0) {
		return errors.New(errors.ErrCodeInvalidParameter, "dist_opt must be a finite value > 0, got %g", p.DistOpt)
	}
	if math.IsNaN(p.TempStart) || math.IsInf(p.TempStart, 0) || p.TempStart < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "temp_start must be a finite value >= 0, got %g", p.TempStart)
	}
	if p.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "iterations must be >= 0, got %d", p.Iterations)
	}
	return nil
}

// Temperature returns the cooling schedule value start - i*start/n.
// It decreases linearly and is exactly zero at i == n. For n == 0 it
// returns start.
func Temperature(i, n int, start float64) float64 {
	if n == 0 {
		return start
	}
	return start - float64(i)*start/float64(n)
}
