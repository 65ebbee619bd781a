// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import "errors"

// Every sentinel is prefixed with "sparse: ". Callers match them with errors.Is,
// the package wraps them with the failing index or dimension where it helps.
var (
	// ErrBadShape is returned when the requested order is not positive.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrOutOfRange indicates a triplet index outside [0, n).
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch indicates misaligned triplet slices or a vector
	// whose length differs from the matrix order.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNotPositiveDefinite is returned when Cholesky meets a non-positive pivot.
	ErrNotPositiveDefinite = errors.New("sparse: matrix is not positive definite")

	// ErrNotFactorized is returned by solves on a factor that failed or was never computed.
	ErrNotFactorized = errors.New("sparse: matrix not factorized")
)
