// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func objV2(x, y []float64) {
	y[0] = x[0] * math.Sin(x[1])
	y[1] = x[1] * math.Cos(x[0])
	y[2] = math.Pow(x[0], 3) * math.Pow(x[1], -0.5)
}

func jacV2(x []float64) []float64 {
	return []float64{
		math.Sin(x[1]), x[0] * math.Cos(x[1]),
		-x[1] * math.Sin(x[0]), math.Cos(x[0]),
		3 * math.Pow(x[0], 2) * math.Pow(x[1], -0.5), -0.5 * math.Pow(x[0], 3) * math.Pow(x[1], -1.5),
	}
}

func sphere(x []float64) (f float64) {
	for i, v := range x {
		f += float64(i+1) * v * v
	}
	return
}

func TestStep(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		v    float64
		want float64
	}{
		{"forward default", Spec{Method: Forward}, 2, 2 * sqrtEps},
		{"forward default negative", Spec{Method: Forward}, -0.5, -sqrtEps},
		{"central default", Spec{Method: Central}, -3, 3 * cubeEps},
		{"relative", Spec{Method: Forward, RelStep: 1e-3}, 4, 4e-3},
		{"absolute", Spec{Method: Central, AbsStep: -1e-4}, 1, 1e-4},
		{"vanishing relative", Spec{Method: Forward, RelStep: 1e-3}, 0, sqrtEps},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.spec.step(tt.v), 1e-18)
		})
	}
}

func TestGradient(t *testing.T) {
	x0 := []float64{1, -2, 0.5}
	want := []float64{2, -8, 3}

	for _, method := range []Method{Forward, Central} {
		s := Spec{Method: method}
		x := slices.Clone(x0)
		g := make([]float64, 3)
		require.NoError(t, s.Gradient(sphere, x, g))
		assert.Equal(t, x0, x, "x0 must be restored")
		tol := 1e-6
		if method == Central {
			tol = 1e-8
		}
		if diff := cmp.Diff(want, g, cmpopts.EquateApprox(0, tol)); diff != "" {
			t.Errorf("method %d gradient (-want +got):\n%s", method, diff)
		}
	}
}

func TestJacobian(t *testing.T) {
	x0 := []float64{1, 2}
	want := jacV2(x0)

	for _, method := range []Method{Forward, Central} {
		s := Spec{Method: method}
		jac := make([]float64, 6)
		f0 := make([]float64, 3)
		fx := make([]float64, 3*(int(method)+1))
		require.NoError(t, s.Jacobian(objV2, 3, slices.Clone(x0), jac, f0, fx))
		tol := 1e-6
		if method == Central {
			tol = 1e-8
		}
		if diff := cmp.Diff(want, jac, cmpopts.EquateApprox(0, tol)); diff != "" {
			t.Errorf("method %d jacobian (-want +got):\n%s", method, diff)
		}
	}
}

func TestSpecErrors(t *testing.T) {
	s := Spec{}
	require.ErrorIs(t, s.Gradient(nil, []float64{1}, []float64{0}), ErrFunction)
	require.ErrorIs(t, s.Gradient(sphere, []float64{1}, []float64{0, 0}), ErrDimension)
	require.ErrorIs(t, s.Jacobian(objV2, 3, []float64{1, 2}, make([]float64, 5), make([]float64, 3), make([]float64, 3)), ErrDimension)
	require.ErrorIs(t, s.Jacobian(objV2, 3, []float64{1, 2}, make([]float64, 6), make([]float64, 3), make([]float64, 6)), ErrDimension)

	bad := Spec{Method: Method(7)}
	require.ErrorIs(t, bad.Gradient(sphere, []float64{1}, []float64{0}), ErrMethod)
}

func TestHessian(t *testing.T) {
	// f = x²y + sin(y), ∇²f = [2y 2x; 2x -sin(y)]
	f := func(x []float64) float64 { return x[0]*x[0]*x[1] + math.Sin(x[1]) }
	x0 := []float64{1.5, -0.5}
	want := []float64{
		-1, 3,
		3, math.Sin(0.5),
	}

	s := Spec{}
	hess := make([]float64, 4)
	x := slices.Clone(x0)
	require.NoError(t, s.Hessian(f, x, hess))
	assert.Equal(t, x0, x, "x0 must be restored")
	assert.Equal(t, hess[1], hess[2])
	if diff := cmp.Diff(want, hess, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("hessian (-want +got):\n%s", diff)
	}

	require.ErrorIs(t, s.Hessian(f, x, make([]float64, 3)), ErrDimension)
	require.ErrorIs(t, s.Hessian(nil, x, hess), ErrFunction)
}
