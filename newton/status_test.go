// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/curioloop/newton/internal/problem"
	"github.com/curioloop/newton/newton"
	"github.com/curioloop/newton/sparse"
)

var _ = Describe("Model status", func() {
	var m newton.Model

	convex := func() *newton.Problem {
		return &newton.Problem{NumVar: 2, Evaluator: problem.Separable([]float64{5, 3})}
	}
	concave := func() *newton.Problem {
		q, err := problem.NewQuadratic(1, &sparse.Triplets{Rows: []int{0}, Cols: []int{0}, Vals: []float64{-2}}, []float64{1}, 0)
		Expect(err).NotTo(HaveOccurred())
		return &newton.Problem{NumVar: 1, Evaluator: q}
	}

	BeforeEach(func() {
		m = newton.Config{}.NewModel()
	})

	Context("before a problem is loaded", func() {
		It("should be Uninitialized", func() {
			Expect(m.Status()).To(Equal(newton.Uninitialized))
			Expect(m.Iterations()).To(BeZero())
		})

		It("should refuse to optimize", func() {
			Expect(m.Optimize()).To(MatchError(newton.ErrNotLoaded))
			Expect(m.Status()).To(Equal(newton.Uninitialized))
		})

		It("should stay Uninitialized after an invalid load", func() {
			p := convex()
			p.Sense = newton.Maximize
			Expect(m.Load(p)).To(MatchError(newton.ErrConfiguration))
			Expect(m.Status()).To(Equal(newton.Uninitialized))
		})
	})

	Context("after a valid load", func() {
		BeforeEach(func() {
			Expect(m.Load(convex())).To(Succeed())
		})

		It("should be Ready at the origin", func() {
			Expect(m.Status()).To(Equal(newton.Ready))
			Expect(m.Solution()).To(Equal([]float64{0, 0}))
		})

		It("should become Optimal on convergence", func() {
			Expect(m.Optimize()).To(Succeed())
			Expect(m.Status()).To(Equal(newton.Optimal))
			Expect(m.Solution()).To(HaveEach(BeNumerically(">", 2.9)))
		})

		It("should stay Optimal when optimized again", func() {
			Expect(m.Optimize()).To(Succeed())
			Expect(m.Optimize()).To(MatchError(newton.ErrNotReady))
			Expect(m.Status()).To(Equal(newton.Optimal))
		})

		It("should return to Ready on warm start", func() {
			Expect(m.Optimize()).To(Succeed())
			Expect(m.SetWarmStart([]float64{1, 1})).To(Succeed())
			Expect(m.Status()).To(Equal(newton.Ready))
		})

		It("should keep the status on a mismatched warm start", func() {
			Expect(m.SetWarmStart([]float64{1})).To(MatchError(newton.ErrDimensionMismatch))
			Expect(m.Status()).To(Equal(newton.Ready))
		})
	})

	Context("when the Hessian is not positive definite", func() {
		BeforeEach(func() {
			Expect(m.Load(concave())).To(Succeed())
		})

		It("should become Failed and keep the iterate", func() {
			Expect(m.Optimize()).To(MatchError(newton.ErrFactorization))
			Expect(m.Status()).To(Equal(newton.Failed))
			Expect(m.Solution()).To(Equal([]float64{0}))
		})

		It("should be reset to Ready by a new load", func() {
			Expect(m.Optimize()).NotTo(Succeed())
			Expect(m.Load(convex())).To(Succeed())
			Expect(m.Status()).To(Equal(newton.Ready))
			Expect(m.Optimize()).To(Succeed())
			Expect(m.Status()).To(Equal(newton.Optimal))
		})

		It("should stay Failed when optimized without a reset", func() {
			Expect(m.Optimize()).NotTo(Succeed())
			Expect(m.Optimize()).To(MatchError(newton.ErrNotReady))
			Expect(m.Status()).To(Equal(newton.Failed))
			Expect(m.Solution()).To(Equal([]float64{0}))
		})

		It("should be reset to Ready by a warm start", func() {
			Expect(m.Optimize()).NotTo(Succeed())
			Expect(m.SetWarmStart([]float64{1})).To(Succeed())
			Expect(m.Status()).To(Equal(newton.Ready))
			Expect(m.Optimize()).To(MatchError(newton.ErrFactorization))
		})
	})
})
