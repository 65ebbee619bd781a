// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"fmt"
	"math"
	"slices"
)

// Evaluator supplies the objective and its derivatives on demand.
//
// Calls are synchronous. Slices passed to the evaluator are owned by the engine
// and must not be retained.
type Evaluator interface {
	// Init prepares the evaluator to serve the requested features.
	// It returns an error when one of them is not supported.
	Init(requested []Feature) error
	// Objective returns 𝒇(𝐱).
	Objective(x []float64) float64
	// Gradient stores ∇𝒇(𝐱) into g.
	Gradient(g, x []float64)
	// HessianLagrangianStructure returns the coordinates of the lower triangle (row ≥ col)
	// of the Hessian of the Lagrangian. Coordinates may repeat. It is queried once at load.
	HessianLagrangianStructure() (rows, cols []int)
	// HessianLagrangian stores the values of σ∇²𝒇(𝐱) + Σμᵢ∇²𝒄ᵢ(𝐱) into h,
	// aligned with HessianLagrangianStructure.
	HessianLagrangian(h, x []float64, sigma float64, mu []float64)
}

// Problem describes the problem handed to Model.Load.
//
// Only unconstrained minimization is supported: NumConstr must be zero, the
// constraint bounds empty, and every variable bound infinite. Nil VarLower or
// VarUpper stand for -∞ and +∞.
type Problem struct {
	NumVar    int
	NumConstr int

	VarLower, VarUpper       []float64
	ConstrLower, ConstrUpper []float64

	Sense     Sense
	Evaluator Evaluator
}

// check validates the problem against what the engine can model.
func (p *Problem) check() (err error) {

	switch {
	case p == nil:
		err = fmt.Errorf("%w: problem is required", ErrConfiguration)
	case p.NumVar <= 0:
		err = fmt.Errorf("%w: number of variables must greater than 0", ErrConfiguration)
	case p.NumConstr != 0:
		err = fmt.Errorf("%w: %d constraints given, constraints are not supported", ErrConfiguration, p.NumConstr)
	case len(p.ConstrLower) != 0 || len(p.ConstrUpper) != 0:
		err = fmt.Errorf("%w: constraint bounds given, constraints are not supported", ErrConfiguration)
	case p.Sense != Minimize:
		err = fmt.Errorf("%w: sense %v is not supported", ErrConfiguration, p.Sense)
	case p.Evaluator == nil:
		err = fmt.Errorf("%w: evaluator is required", ErrConfiguration)
	case p.VarLower != nil && len(p.VarLower) != p.NumVar:
		err = fmt.Errorf("%w: lower bound size must equal to %d", ErrConfiguration, p.NumVar)
	case p.VarUpper != nil && len(p.VarUpper) != p.NumVar:
		err = fmt.Errorf("%w: upper bound size must equal to %d", ErrConfiguration, p.NumVar)
	}
	if err != nil {
		return
	}

	for k, l := range p.VarLower {
		if !math.IsInf(l, -1) {
			return fmt.Errorf("%w: finite lower bound %g at %d", ErrConfiguration, l, k)
		}
	}
	for k, u := range p.VarUpper {
		if !math.IsInf(u, 1) {
			return fmt.Errorf("%w: finite upper bound %g at %d", ErrConfiguration, u, k)
		}
	}
	return
}

// Unbounded returns variable bounds of size n filled with -∞ and +∞.
func Unbounded(n int) (lower, upper []float64) {
	lower, upper = make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		lower[i], upper[i] = math.Inf(-1), math.Inf(1)
	}
	return
}

// CheckFeatures returns an error wrapping ErrUnsupportedFeature for the first
// requested feature missing from supported. Evaluators use it in Init.
func CheckFeatures(requested []Feature, supported ...Feature) error {
	for _, f := range requested {
		if !slices.Contains(supported, f) {
			return fmt.Errorf("%w: %v", ErrUnsupportedFeature, f)
		}
	}
	return nil
}
