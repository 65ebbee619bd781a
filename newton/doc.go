// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package newton implements unconstrained minimization by the full-step Newton method.
//
// The objective is supplied by an Evaluator which returns the gradient and the
// lower triangle of the Hessian of the Lagrangian in coordinate form. Starting from
// the zero vector, or from a warm start, the engine repeats
//
//	H(xₖ)·dₖ = ∇f(xₖ)
//	xₖ₊₁ = xₖ - dₖ
//
// until ‖∇f(xₖ)‖₂ ≤ 1e-5. The Hessian is assembled with package sparse and solved
// with a sparse Cholesky factorization, so it must be positive definite at every
// iterate. There is no line search, no iteration cap and no divergence detection:
// on objectives poorly approximated by their local quadratic model the iteration
// may not terminate.
//
// Example usage:
//
//	m := newton.Config{Logger: log}.NewModel()
//	if err := m.Load(&newton.Problem{NumVar: n, Evaluator: eval}); err != nil {
//		return err
//	}
//	if err := m.Optimize(); err != nil {
//		return err
//	}
//	x := m.Solution()
//
// A model is not safe for concurrent use, but independent models may run
// concurrently as long as their evaluators allow it.
package newton
