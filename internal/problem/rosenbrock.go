// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import "github.com/curioloop/newton/newton"

// Rosenbrock is the chained Rosenbrock function
//
//	𝒇(𝐱) = Σᵢ 100(xᵢ₊₁ - xᵢ²)² + (1 - xᵢ)²,  i = 0,...,n-2
//
// minimized at 𝐱 = 𝟏. Its Hessian is tridiagonal; the pattern lists the three
// entries of every term, so inner diagonal coordinates appear twice.
type Rosenbrock struct {
	N int
}

var _ newton.Evaluator = Rosenbrock{}

// RosenbrockFunc evaluates the chained Rosenbrock function.
func RosenbrockFunc(x []float64) (f float64) {
	for i := 0; i+1 < len(x); i++ {
		a, b := x[i+1]-x[i]*x[i], 1-x[i]
		f += 100*a*a + b*b
	}
	return
}

func (r Rosenbrock) Init(requested []newton.Feature) error {
	return newton.CheckFeatures(requested, newton.Gradient, newton.HessianOfLagrangian)
}

func (r Rosenbrock) Objective(x []float64) float64 {
	return RosenbrockFunc(x)
}

func (r Rosenbrock) Gradient(g, x []float64) {
	for i := range g {
		g[i] = 0
	}
	for i := 0; i+1 < r.N; i++ {
		a := x[i+1] - x[i]*x[i]
		g[i] += -400*x[i]*a - 2*(1-x[i])
		g[i+1] += 200 * a
	}
}

func (r Rosenbrock) HessianLagrangianStructure() (rows, cols []int) {
	for i := 0; i+1 < r.N; i++ {
		rows = append(rows, i, i+1, i+1)
		cols = append(cols, i, i, i+1)
	}
	return
}

func (r Rosenbrock) HessianLagrangian(h, x []float64, sigma float64, _ []float64) {
	for i := 0; i+1 < r.N; i++ {
		k := 3 * i
		h[k] = sigma * (1200*x[i]*x[i] - 400*x[i+1] + 2)
		h[k+1] = sigma * (-400 * x[i])
		h[k+2] = sigma * 200
	}
}
