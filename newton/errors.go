// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import "errors"

var (
	// ErrConfiguration is returned by Load for problems the engine cannot model:
	// constraints, finite variable bounds, a sense other than Minimize, or an
	// evaluator that cannot provide the required derivatives.
	ErrConfiguration = errors.New("newton: unsupported problem configuration")

	// ErrDimensionMismatch is returned by SetWarmStart when the start vector
	// length differs from the number of variables.
	ErrDimensionMismatch = errors.New("newton: dimension mismatch")

	// ErrFactorization is returned by Optimize when the Hessian is not positive
	// definite at the current iterate. The model is left Failed.
	ErrFactorization = errors.New("newton: hessian factorization failed")

	// ErrEvaluator is returned when the evaluator panics during a call or
	// produces a gradient that is not finite.
	ErrEvaluator = errors.New("newton: evaluator failure")

	// ErrUnsupportedFeature is returned by evaluators asked for a feature they cannot serve.
	ErrUnsupportedFeature = errors.New("newton: unsupported evaluator feature")

	// ErrNotLoaded is returned by operations that need a loaded problem.
	ErrNotLoaded = errors.New("newton: no problem loaded")

	// ErrNotReady is returned by Optimize on an Optimal or Failed model.
	ErrNotReady = errors.New("newton: model is not ready")
)
