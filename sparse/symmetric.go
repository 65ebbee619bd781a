// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Triplets is a coordinate-format description of the lower triangle of a symmetric matrix.
// Rows and Cols are fixed once the sparsity pattern is known, Vals is refreshed on every
// evaluation and stays aligned with them. Coordinates may repeat.
type Triplets struct {
	Rows, Cols []int
	Vals       []float64
}

// NewTriplets allocates a triplet set over a private copy of the given pattern.
func NewTriplets(rows, cols []int) *Triplets {
	return &Triplets{
		Rows: slices.Clone(rows),
		Cols: slices.Clone(cols),
		Vals: make([]float64, len(rows)),
	}
}

// Len returns the number of stored triplets.
func (t *Triplets) Len() int {
	return len(t.Rows)
}

// Check validates the alignment of the triplet slices and that every index lies in [0, n).
func (t *Triplets) Check(n int) (err error) {
	switch {
	case n <= 0:
		err = ErrBadShape
	case t == nil:
		err = fmt.Errorf("nil triplets: %w", ErrDimensionMismatch)
	case len(t.Rows) != len(t.Cols):
		err = fmt.Errorf("rows %d cols %d: %w", len(t.Rows), len(t.Cols), ErrDimensionMismatch)
	case t.Vals != nil && len(t.Vals) != len(t.Rows):
		err = fmt.Errorf("rows %d vals %d: %w", len(t.Rows), len(t.Vals), ErrDimensionMismatch)
	}
	if err != nil {
		return
	}
	for k, r := range t.Rows {
		if c := t.Cols[k]; uint(r) >= uint(n) || uint(c) >= uint(n) {
			return fmt.Errorf("triplet %d at (%d,%d) for order %d: %w", k, r, c, n, ErrOutOfRange)
		}
	}
	return
}

// Symmetric is a symmetric matrix of order n stored in compressed sparse column form.
// Both triangles are stored explicitly; row indices are sorted and unique within each column.
type Symmetric struct {
	n      int
	colPtr []int     // n+1
	rowIdx []int     // nnz
	values []float64 // nnz
}

var _ mat.Symmetric = (*Symmetric)(nil)

// Assemble builds the symmetric matrix of order n encoded by the triplets.
//
// Diagonal triplets are added once, off-diagonal triplets are added at (r,c) and (c,r).
// Entries sharing a coordinate accumulate by summation. Positive definiteness is not checked.
func Assemble(n int, t *Triplets) (*Symmetric, error) {
	if err := t.Check(n); err != nil {
		return nil, err
	}
	if len(t.Vals) != len(t.Rows) {
		return nil, fmt.Errorf("rows %d vals %d: %w", len(t.Rows), len(t.Vals), ErrDimensionMismatch)
	}

	// Count entries per column, mirrored entries included.
	colPtr := make([]int, n+1)
	for k, r := range t.Rows {
		c := t.Cols[k]
		colPtr[c+1]++
		if r != c {
			colPtr[r+1]++
		}
	}
	for j := 0; j < n; j++ {
		colPtr[j+1] += colPtr[j]
	}

	nnz := colPtr[n]
	rowIdx := make([]int, nnz)
	values := make([]float64, nnz)
	next := slices.Clone(colPtr[:n])
	for k, r := range t.Rows {
		c, v := t.Cols[k], t.Vals[k]
		p := next[c]
		rowIdx[p], values[p] = r, v
		next[c]++
		if r != c {
			p = next[r]
			rowIdx[p], values[p] = c, v
			next[r]++
		}
	}

	s := &Symmetric{n: n, colPtr: colPtr, rowIdx: rowIdx, values: values}
	s.sumDuplicates()
	return s, nil
}

// sumDuplicates merges repeated row indices of every column in place and sorts the rows.
func (s *Symmetric) sumDuplicates() {
	n, ap, ai, ax := s.n, s.colPtr, s.rowIdx, s.values

	// last[i] is the position of row i in the current column, or -1.
	last := make([]int, n)
	for i := range last {
		last[i] = -1
	}

	nz := 0
	for j := 0; j < n; j++ {
		head := nz
		for p := ap[j]; p < ap[j+1]; p++ {
			i := ai[p]
			if q := last[i]; q >= head {
				ax[q] += ax[p]
			} else {
				last[i] = nz
				ai[nz], ax[nz] = i, ax[p]
				nz++
			}
		}
		ap[j] = head
		sort.Sort(byRow{ai[head:nz], ax[head:nz]})
	}
	ap[n] = nz
	s.rowIdx, s.values = ai[:nz:nz], ax[:nz:nz]
}

type byRow struct {
	rows []int
	vals []float64
}

func (b byRow) Len() int           { return len(b.rows) }
func (b byRow) Less(i, j int) bool { return b.rows[i] < b.rows[j] }
func (b byRow) Swap(i, j int) {
	b.rows[i], b.rows[j] = b.rows[j], b.rows[i]
	b.vals[i], b.vals[j] = b.vals[j], b.vals[i]
}

// Dims returns the dimensions of the matrix.
func (s *Symmetric) Dims() (r, c int) {
	return s.n, s.n
}

// SymmetricDim returns the order of the matrix.
func (s *Symmetric) SymmetricDim() int {
	return s.n
}

// T returns the receiver, the transpose of a symmetric matrix is itself.
func (s *Symmetric) T() mat.Matrix {
	return s
}

// NNZ returns the number of explicitly stored entries over both triangles.
func (s *Symmetric) NNZ() int {
	return len(s.rowIdx)
}

// At returns the element at (i, j). Unstored elements are zero.
// It panics with the gonum access errors when an index is out of range.
func (s *Symmetric) At(i, j int) float64 {
	if uint(i) >= uint(s.n) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(s.n) {
		panic(mat.ErrColAccess)
	}
	rows := s.rowIdx[s.colPtr[j]:s.colPtr[j+1]]
	if k, ok := slices.BinarySearch(rows, i); ok {
		return s.values[s.colPtr[j]+k]
	}
	return 0
}

// Dense returns a dense copy of the matrix.
func (s *Symmetric) Dense() *mat.SymDense {
	d := mat.NewSymDense(s.n, nil)
	for j := 0; j < s.n; j++ {
		for p := s.colPtr[j]; p < s.colPtr[j+1]; p++ {
			if i := s.rowIdx[p]; i <= j {
				d.SetSym(i, j, s.values[p])
			}
		}
	}
	return d
}

// sameStructure reports whether s stores exactly the coordinates of the given CSC structure.
func (s *Symmetric) sameStructure(colPtr, rowIdx []int) bool {
	return slices.Equal(s.colPtr, colPtr) && slices.Equal(s.rowIdx, rowIdx)
}
