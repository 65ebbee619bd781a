// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/newton/newton"
	"github.com/curioloop/newton/sparse"
)

// Quadratic is the objective
//
//	𝒇(𝐱) = ½𝐱ᵀ𝐐𝐱 - 𝐛ᵀ𝐱 + c
//
// with the symmetric 𝐐 given by lower-triangular triplets, duplicates summed.
type Quadratic struct {
	n int
	q *sparse.Triplets
	b []float64
	c float64
}

var _ newton.Evaluator = (*Quadratic)(nil)

// NewQuadratic validates the triplets of 𝐐 against n. A nil b stands for zero.
func NewQuadratic(n int, q *sparse.Triplets, b []float64, c float64) (*Quadratic, error) {
	if err := q.Check(n); err != nil {
		return nil, fmt.Errorf("quadratic term: %w", err)
	}
	if len(q.Vals) != len(q.Rows) {
		return nil, fmt.Errorf("quadratic term: %d values for %d coordinates: %w", len(q.Vals), len(q.Rows), sparse.ErrDimensionMismatch)
	}
	if b == nil {
		b = make([]float64, n)
	}
	if len(b) != n {
		return nil, fmt.Errorf("linear term size %d, problem size %d: %w", len(b), n, sparse.ErrDimensionMismatch)
	}
	return &Quadratic{
		n: n,
		q: &sparse.Triplets{Rows: slices.Clone(q.Rows), Cols: slices.Clone(q.Cols), Vals: slices.Clone(q.Vals)},
		b: slices.Clone(b),
		c: c,
	}, nil
}

// Separable returns 𝒇(𝐱) = Σᵢ(xᵢ - cᵢ)², minimized at 𝐱 = 𝐜.
func Separable(center []float64) *Quadratic {
	n := len(center)
	q := &sparse.Triplets{Rows: make([]int, n), Cols: make([]int, n), Vals: make([]float64, n)}
	b := make([]float64, n)
	for i, c := range center {
		q.Rows[i], q.Cols[i], q.Vals[i] = i, i, 2
		b[i] = 2 * c
	}
	return &Quadratic{n: n, q: q, b: b, c: floats.Dot(center, center)}
}

// Dim returns the number of variables.
func (q *Quadratic) Dim() int {
	return q.n
}

func (q *Quadratic) Init(requested []newton.Feature) error {
	return newton.CheckFeatures(requested, newton.Gradient, newton.HessianOfLagrangian)
}

// mulVec stores 𝐐𝐱 into dst.
func (q *Quadratic) mulVec(dst, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	t := q.q
	for k, r := range t.Rows {
		c, v := t.Cols[k], t.Vals[k]
		dst[r] += v * x[c]
		if r != c {
			dst[c] += v * x[r]
		}
	}
}

func (q *Quadratic) Objective(x []float64) float64 {
	qx := make([]float64, q.n)
	q.mulVec(qx, x)
	return 0.5*floats.Dot(x, qx) - floats.Dot(q.b, x) + q.c
}

func (q *Quadratic) Gradient(g, x []float64) {
	q.mulVec(g, x)
	floats.Sub(g, q.b)
}

func (q *Quadratic) HessianLagrangianStructure() (rows, cols []int) {
	return q.q.Rows, q.q.Cols
}

func (q *Quadratic) HessianLagrangian(h, _ []float64, sigma float64, _ []float64) {
	floats.ScaleTo(h, sigma, q.q.Vals)
}
