// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse provides the sparse linear algebra used by the Newton engine.
//
// A Hessian is delivered by an evaluator as coordinate triplets holding the
// lower triangle (row ≥ col) of a symmetric matrix. Assemble turns them into a
// Symmetric matrix in compressed sparse column form, summing duplicated
// coordinates and mirroring every off-diagonal entry to its transpose exactly once.
//
// Cholesky factors a Symmetric matrix as A = LLᵀ with an up-looking algorithm.
// The symbolic analysis (elimination tree and column counts of L) only depends
// on the sparsity structure and is reused across numeric factorizations of
// matrices sharing the same structure.
//
// # Reference:
//
//   - T. A. Davis, Direct Methods for Sparse Linear Systems, SIAM, 2006.
//   - https://github.com/DrTimothyAldenDavis/SuiteSparse/tree/dev/CSparse
package sparse
