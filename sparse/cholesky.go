// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"fmt"
	"math"
	"slices"
)

// Cholesky is the sparse factorization A = LLᵀ of a symmetric positive definite matrix.
//
// L is kept column-wise with the diagonal entry first in every column. The symbolic part
// (elimination tree, column pointers of L) is computed on the first Factorize and reused
// while the matrix structure does not change. A Cholesky value is not safe for concurrent use.
type Cholesky struct {
	n int

	// analysed structure of A
	colPtr, rowIdx []int

	parent []int // elimination tree, -1 for roots
	lp     []int // column pointers of L, n+1

	li []int     // row indices of L
	lx []float64 // values of L

	// workspace
	x    []float64 // dense accumulator of the current row
	s    []int     // stack holding the row pattern
	mark []int     // mark[i] == k marks i as visited in step k
	next []int     // next free slot of each column of L

	ok bool
}

// Factorize computes the Cholesky factor of a.
//
// It returns an error wrapping ErrNotPositiveDefinite when the leading minor of some
// order k is not positive definite; the factor is then unusable until the next success.
func (c *Cholesky) Factorize(a *Symmetric) error {
	c.ok = false
	if a == nil || a.n <= 0 {
		return ErrBadShape
	}
	if c.n != a.n || !a.sameStructure(c.colPtr, c.rowIdx) {
		c.analyze(a)
	}
	if k := c.numeric(a); k > 0 {
		return fmt.Errorf("leading minor of order %d: %w", k, ErrNotPositiveDefinite)
	}
	c.ok = true
	return nil
}

// Order returns the order of the last analysed matrix.
func (c *Cholesky) Order() int {
	return c.n
}

// NNZ returns the number of stored entries of L.
func (c *Cholesky) NNZ() int {
	if c.lp == nil {
		return 0
	}
	return c.lp[c.n]
}

// analyze performs the symbolic factorization of a.
func (c *Cholesky) analyze(a *Symmetric) {
	n := a.n
	c.n = n
	c.colPtr = slices.Clone(a.colPtr)
	c.rowIdx = slices.Clone(a.rowIdx)
	c.parent = etree(n, a.colPtr, a.rowIdx)

	c.x = make([]float64, n)
	c.s = make([]int, n)
	c.mark = make([]int, n)
	c.next = make([]int, n)

	// Column counts of L: row k of L has the pattern reach(k) plus the diagonal.
	counts := c.next
	for i := range c.mark {
		c.mark[i] = -1
		counts[i] = 1
	}
	for k := 0; k < n; k++ {
		top := ereach(k, a.colPtr, a.rowIdx, c.parent, c.s, c.mark)
		for _, j := range c.s[top:] {
			counts[j]++
		}
	}

	c.lp = make([]int, n+1)
	for j := 0; j < n; j++ {
		c.lp[j+1] = c.lp[j] + counts[j]
	}
	c.li = make([]int, c.lp[n])
	c.lx = make([]float64, c.lp[n])
}

// numeric runs the up-looking factorization. It returns 0 on success,
// otherwise the order of the first leading minor that is not positive definite.
func (c *Cholesky) numeric(a *Symmetric) int {
	n, ap, ai, ax := c.n, a.colPtr, a.rowIdx, a.values
	lp, li, lx := c.lp, c.li, c.lx
	x, s, mark, next := c.x, c.s, c.mark, c.next

	copy(next, lp[:n])
	for i := range mark {
		mark[i] = -1
		x[i] = 0
	}

	for k := 0; k < n; k++ {
		// Solve L[0:k,0:k] y = A[0:k,k]; the pattern of y is row k of L.
		top := ereach(k, ap, ai, c.parent, s, mark)
		for p := ap[k]; p < ap[k+1]; p++ {
			if i := ai[p]; i <= k {
				x[i] = ax[p]
			}
		}
		d := x[k]
		x[k] = 0
		for ; top < n; top++ {
			i := s[top]
			lki := x[i] / lx[lp[i]] // L(k,i) = y(i) / L(i,i)
			x[i] = 0
			for p := lp[i] + 1; p < next[i]; p++ {
				x[li[p]] -= lx[p] * lki
			}
			d -= lki * lki
			p := next[i]
			li[p], lx[p] = k, lki
			next[i]++
		}
		if !(d > 0) {
			return k + 1
		}
		p := next[k]
		li[p], lx[p] = k, math.Sqrt(d)
		next[k]++
	}
	return 0
}

// SolveVecTo solves A·dst = b with the computed factor.
// dst and b may share storage.
func (c *Cholesky) SolveVecTo(dst, b []float64) error {
	switch {
	case !c.ok:
		return ErrNotFactorized
	case len(b) != c.n || len(dst) != c.n:
		return fmt.Errorf("order %d rhs %d dst %d: %w", c.n, len(b), len(dst), ErrDimensionMismatch)
	}
	copy(dst, b)
	lsolve(c.n, c.lp, c.li, c.lx, dst)
	ltsolve(c.n, c.lp, c.li, c.lx, dst)
	return nil
}

// lsolve overwrites x with the solution of L·y = x.
func lsolve(n int, lp, li []int, lx, x []float64) {
	for j := 0; j < n; j++ {
		x[j] /= lx[lp[j]]
		xj := x[j]
		for p := lp[j] + 1; p < lp[j+1]; p++ {
			x[li[p]] -= lx[p] * xj
		}
	}
}

// ltsolve overwrites x with the solution of Lᵀ·y = x.
func ltsolve(n int, lp, li []int, lx, x []float64) {
	for j := n - 1; j >= 0; j-- {
		for p := lp[j] + 1; p < lp[j+1]; p++ {
			x[j] -= lx[p] * x[li[p]]
		}
		x[j] /= lx[lp[j]]
	}
}

// etree computes the elimination tree of the matrix from its upper triangle.
//
//	parent[i] = min{ k > i : L(k,i) ≠ 0 }, or -1 when i is a root.
func etree(n int, ap, ai []int) []int {
	parent := make([]int, n)
	ancestor := make([]int, n)
	for k := 0; k < n; k++ {
		parent[k], ancestor[k] = -1, -1
		for p := ap[k]; p < ap[k+1]; p++ {
			// climb from i to the root of its subtree, compressing the path to k
			for i := ai[p]; i != -1 && i < k; {
				inext := ancestor[i]
				ancestor[i] = k
				if inext == -1 {
					parent[i] = k
				}
				i = inext
			}
		}
	}
	return parent
}

// ereach computes the nonzero pattern of row k of L, the set of nodes reachable in the
// elimination tree from the upper-triangle entries of column k of A.
// The pattern is stored in s[top:] in topological order and top is returned.
// Nodes visited in step k are marked with mark[i] = k.
func ereach(k int, ap, ai, parent, s, mark []int) (top int) {
	n := len(s)
	top = n
	mark[k] = k
	for p := ap[k]; p < ap[k+1]; p++ {
		i := ai[p]
		if i > k {
			continue
		}
		length := 0
		for ; mark[i] != k; i = parent[i] {
			s[length] = i
			length++
			mark[i] = k
		}
		for length > 0 {
			top--
			length--
			s[top] = s[length]
		}
	}
	return
}
