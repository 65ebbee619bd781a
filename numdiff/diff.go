// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"errors"
	"math"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)
var quartEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/4)

var (
	ErrDimension = errors.New("numdiff: invalid dimensions")
	ErrMethod    = errors.New("numdiff: unknown method")
	ErrFunction  = errors.New("numdiff: function is required")
)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// Spec configures the finite difference scheme.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
type Spec struct {
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute absolute step size.
	// The default absolute step size is computed as h = RelStep * sign(x0) * max(1, abs(x0)) with RelStep being selected automatically.
	// Otherwise, absolute step size is computed as h = RelStep * sign(x0) * abs(x0) when RelStep is provided.
	RelStep float64
	// Absolute step size to use. The RelStep is used when AbsStep is not provide.
	// For Central method the sign of AbsStep is ignored.
	AbsStep float64
}

func (s *Spec) check() error {
	if s.Method != Forward && s.Method != Central {
		return ErrMethod
	}
	return nil
}

// step returns the absolute step for a coordinate of value v.
func (s *Spec) step(v float64) (h float64) {
	eps := sqrtEps
	if s.Method == Central {
		eps = cubeEps
	}
	if s.AbsStep == 0 && s.RelStep == 0 {
		h = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
	} else {
		h = s.AbsStep
		if h == 0 {
			h = math.Copysign(s.RelStep, v) * math.Abs(v)
		}
		if (v+h)-v == 0 {
			h = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
	}
	if s.Method == Central {
		h = math.Abs(h)
	}
	return
}

// Gradient approximates ∇𝒇(x0) into g.
// x0 is perturbed in place during the evaluation and restored on return.
func (s *Spec) Gradient(f func(x []float64) float64, x0, g []float64) error {
	switch {
	case f == nil:
		return ErrFunction
	case len(x0) == 0 || len(x0) != len(g):
		return ErrDimension
	}
	if err := s.check(); err != nil {
		return err
	}

	if s.Method == Central {
		for i, x := range x0 {
			h := s.step(x)
			x0[i] = x - h
			f1 := f(x0)
			x0[i] = x + h
			f2 := f(x0)
			g[i] = (f2 - f1) / (2 * h)
			x0[i] = x
		}
		return nil
	}

	f0 := f(x0)
	for i, x := range x0 {
		h := s.step(x)
		x0[i] = x + h
		g[i] = (f(x0) - f0) / h
		x0[i] = x
	}
	return nil
}

// Jacobian approximates the m×n Jacobian of fn : ℝⁿ → ℝᵐ at x0 into jac (row-major).
// f0 and fx are workspaces of size m and m×(method+1).
// x0 is perturbed in place during the evaluation and restored on return.
func (s *Spec) Jacobian(fn func(x, y []float64), m int, x0, jac, f0, fx []float64) error {
	n := len(x0)
	switch {
	case fn == nil:
		return ErrFunction
	case n == 0 || m <= 0 || len(jac) != m*n:
		return ErrDimension
	case len(f0) != m || len(fx) != m*(int(s.Method)+1):
		return ErrDimension
	}
	if err := s.check(); err != nil {
		return err
	}

	if s.Method == Central {
		f1, f2 := fx[:m], fx[m:]
		for i, x := range x0 {
			h := s.step(x)
			x0[i] = x - h
			fn(x0, f1)
			x0[i] = x + h
			fn(x0, f2)
			d := 1.0 / (2 * h)
			for j := range f1 {
				jac[i+j*n] = (f2[j] - f1[j]) * d
			}
			x0[i] = x
		}
		return nil
	}

	fn(x0, f0)
	for i, x := range x0 {
		h := s.step(x)
		x0[i] = x + h
		fn(x0, fx)
		d := 1.0 / h
		for j := range f0 {
			jac[i+j*n] = (fx[j] - f0[j]) * d
		}
		x0[i] = x
	}
	return nil
}

// Hessian approximates ∇²𝒇(x0) into hess (n×n, row-major) by central second differences
//
//	∂²𝒇/∂xᵢ² ≈ (𝒇(x+hᵢeᵢ) - 2𝒇(x) + 𝒇(x-hᵢeᵢ)) / hᵢ²
//	∂²𝒇/∂xᵢ∂xⱼ ≈ (𝒇(x+hᵢeᵢ+hⱼeⱼ) - 𝒇(x+hᵢeᵢ-hⱼeⱼ) - 𝒇(x-hᵢeᵢ+hⱼeⱼ) + 𝒇(x-hᵢeᵢ-hⱼeⱼ)) / 4hᵢhⱼ
//
// with hᵢ = ∜ε·max(1,|xᵢ|), which balances truncation and rounding errors.
// Method and step options are not used. x0 is perturbed in place and restored on return.
func (s *Spec) Hessian(f func(x []float64) float64, x0, hess []float64) error {
	n := len(x0)
	switch {
	case f == nil:
		return ErrFunction
	case n == 0 || len(hess) != n*n:
		return ErrDimension
	}

	f0 := f(x0)
	for i, xi := range x0 {
		hi := quartEps * math.Max(1.0, math.Abs(xi))

		x0[i] = xi + hi
		fp := f(x0)
		x0[i] = xi - hi
		fm := f(x0)
		hess[i*n+i] = (fp - 2*f0 + fm) / (hi * hi)

		for j := 0; j < i; j++ {
			xj := x0[j]
			hj := quartEps * math.Max(1.0, math.Abs(xj))

			x0[i], x0[j] = xi+hi, xj+hj
			fpp := f(x0)
			x0[j] = xj - hj
			fpm := f(x0)
			x0[i] = xi - hi
			fmm := f(x0)
			x0[j] = xj + hj
			fmp := f(x0)
			x0[j] = xj

			d := (fpp - fpm - fmp + fmm) / (4 * hi * hj)
			hess[i*n+j], hess[j*n+i] = d, d
		}
		x0[i] = xi
	}
	return nil
}
