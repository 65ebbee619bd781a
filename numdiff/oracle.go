// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"fmt"

	"github.com/curioloop/newton/newton"
)

// Oracle is a newton.Evaluator for an objective given only as a function.
//
// The gradient is the analytic Grad when provided, otherwise a finite difference of Func.
// With an analytic gradient the Hessian is its finite difference Jacobian symmetrized as
// ½(J + Jᵀ), otherwise the second differences of Func. The Hessian pattern is the dense
// lower triangle. An Oracle is not safe for concurrent use.
type Oracle struct {
	N    int
	Func func(x []float64) float64
	Grad func(g, x []float64)
	Spec

	rows, cols []int
	x          []float64 // n, perturbed copy of the iterate
	jac        []float64 // n×n
	f0, fx     []float64 // workspaces of Jacobian
}

var _ newton.Evaluator = (*Oracle)(nil)

func (o *Oracle) Init(requested []newton.Feature) error {
	switch {
	case o.N <= 0:
		return fmt.Errorf("oracle dimension %d: %w", o.N, ErrDimension)
	case o.Func == nil:
		return ErrFunction
	}
	if err := o.Spec.check(); err != nil {
		return err
	}
	if err := newton.CheckFeatures(requested, newton.Gradient, newton.HessianOfLagrangian); err != nil {
		return err
	}

	n := o.N
	o.rows, o.cols = make([]int, 0, n*(n+1)/2), make([]int, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			o.rows = append(o.rows, i)
			o.cols = append(o.cols, j)
		}
	}
	o.x = make([]float64, n)
	o.jac = make([]float64, n*n)
	o.f0 = make([]float64, n)
	o.fx = make([]float64, n*(int(o.Method)+1))
	return nil
}

func (o *Oracle) Objective(x []float64) float64 {
	return o.Func(x)
}

func (o *Oracle) Gradient(g, x []float64) {
	if o.Grad != nil {
		o.Grad(g, x)
		return
	}
	copy(o.x, x)
	if err := o.Spec.Gradient(o.Func, o.x, g); err != nil {
		panic(err)
	}
}

func (o *Oracle) HessianLagrangianStructure() (rows, cols []int) {
	return o.rows, o.cols
}

func (o *Oracle) HessianLagrangian(h, x []float64, sigma float64, _ []float64) {
	n, jac := o.N, o.jac

	copy(o.x, x)
	var err error
	if o.Grad != nil {
		grad := func(x, g []float64) { o.Grad(g, x) }
		err = o.Spec.Jacobian(grad, n, o.x, jac, o.f0, o.fx)
	} else {
		err = o.Spec.Hessian(o.Func, o.x, jac)
	}
	if err != nil {
		panic(err)
	}

	for k, i := range o.rows {
		j := o.cols[k]
		h[k] = sigma * 0.5 * (jac[i*n+j] + jac[j*n+i])
	}
}
