// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/newton/sparse"
)

// objWeight is the objective weight σ passed to HessianLagrangian.
const objWeight = 1.0

// noMultipliers is the constraint multiplier vector μ, always empty.
var noMultipliers = []float64{}

// iterDriver runs the Newton iteration on a loaded model.
type iterDriver struct {
	model *model
}

// mainLoop is the iteration
//
//	while ‖gₖ‖₂ > 𝚝𝚘𝚕:
//	   solve Hₖdₖ = gₖ
//	   xₖ₊₁ = xₖ - dₖ
func (d *iterDriver) mainLoop() error {

	m := d.model
	m.iter = 0
	d.printInit()

	// Calculate g₀
	if err := d.evalGradient(); err != nil {
		return d.fail(err)
	}
	d.observe()

	for m.gNorm > gradTol {
		if err := d.newtonStep(); err != nil {
			return d.fail(err)
		}
		if err := d.evalGradient(); err != nil {
			return d.fail(err)
		}
		m.iter++
		d.observe()
	}

	m.status = Optimal
	d.printExit()
	return nil
}

// evalGradient evaluates gₖ at xₖ and its Euclidean norm.
func (d *iterDriver) evalGradient() error {
	m := d.model
	err := safeEval("gradient", func() {
		m.evaluator.Gradient(m.g, m.x)
	})
	if err != nil {
		return err
	}
	m.gNorm = floats.Norm(m.g, 2)
	if math.IsNaN(m.gNorm) || math.IsInf(m.gNorm, 0) {
		return fmt.Errorf("%w: gradient is not finite at iteration %d", ErrEvaluator, m.iter)
	}
	return nil
}

// newtonStep computes dₖ from the Hessian of the Lagrangian at xₖ and moves to xₖ₊₁.
func (d *iterDriver) newtonStep() error {
	m := d.model
	h := m.hess

	err := safeEval("hessian", func() {
		m.evaluator.HessianLagrangian(h.Vals, m.x, objWeight, noMultipliers)
	})
	if err != nil {
		return err
	}

	a, err := sparse.Assemble(m.n, h)
	if err != nil {
		return fmt.Errorf("assemble hessian: %w", err)
	}
	if log := m.log.V(LogVerbose); log.Enabled() {
		log.Info("assembled hessian", "iter", m.iter, "H", fmt.Sprintf("%v", mat.Formatted(a, mat.Squeeze())))
	}

	if err = m.chol.Factorize(a); err != nil {
		return fmt.Errorf("%w: iteration %d: %w", ErrFactorization, m.iter, err)
	}
	if err = m.chol.SolveVecTo(m.step, m.g); err != nil {
		return fmt.Errorf("%w: iteration %d: %w", ErrFactorization, m.iter, err)
	}

	// Full step, no line search.
	floats.Sub(m.x, m.step)
	return nil
}

// observe reports the current iterate to the observer and the log.
func (d *iterDriver) observe() {
	m := d.model
	if log := m.log.V(LogEval); log.Enabled() {
		kv := []any{"iter", m.iter, "gradNorm", m.gNorm}
		if m.log.V(LogTrace).Enabled() {
			kv = append(kv, "x", m.x)
		}
		log.Info("iteration", kv...)
	}
	m.observer.Observe(Progress{Iter: m.iter, GradNorm: m.gNorm, X: m.x})
}

// fail marks the model Failed, x keeps the last computed iterate.
func (d *iterDriver) fail(err error) error {
	m := d.model
	m.status = Failed
	m.log.Error(err, "newton iteration failed", "iter", m.iter, "gradNorm", m.gNorm)
	return err
}

func (d *iterDriver) printInit() {
	m := d.model
	if log := m.log.V(LogLast); log.Enabled() {
		log.Info("running newton", "hessianNonzeros", m.hess.Len(), "tolerance", gradTol)
		if log := m.log.V(LogTrace); log.Enabled() {
			log.Info("initial point", "x", m.x)
		}
	}
}

func (d *iterDriver) printExit() {
	m := d.model
	m.log.V(LogLast).Info("newton converged", "iterations", m.iter, "gradNorm", m.gNorm)
	if log := m.log.V(LogTrace); log.Enabled() {
		log.Info("final point", "x", m.x)
	}
}

// safeEval runs an evaluator call and turns a panic into ErrEvaluator.
func safeEval(call string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrEvaluator, call, r)
		}
	}()
	fn()
	return
}
