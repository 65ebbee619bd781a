// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

// gradTol is the convergence threshold on the Euclidean norm of the gradient.
const gradTol = 1e-5

// Verbosity levels passed to logr.Logger.V.
const (
	// LogLast logs load, convergence and failure.
	LogLast = 0
	// LogEval logs the gradient norm of every iteration.
	LogEval = 1
	// LogTrace logs also the iterate of every iteration.
	LogTrace = 2
	// LogVerbose logs also the assembled Hessian of every iteration.
	LogVerbose = 3
)

// Status is the state of a problem model.
type Status int

const (
	// Uninitialized no problem has been loaded.
	Uninitialized Status = iota
	// Ready a problem is loaded and the iterate is set, optimization may start.
	Ready
	// Optimal the gradient norm dropped below the tolerance.
	Optimal
	// Failed the Hessian could not be factorized or the evaluator failed.
	Failed
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	case Optimal:
		return "Optimal"
	case Failed:
		return "Failed"
	default:
		return "UnknownStatus"
	}
}

// Sense is the optimization direction of a problem.
type Sense int

const (
	Minimize Sense = iota
	Maximize
	Feasibility
)

func (s Sense) String() string {
	switch s {
	case Minimize:
		return "Minimize"
	case Maximize:
		return "Maximize"
	case Feasibility:
		return "Feasibility"
	default:
		return "UnknownSense"
	}
}

// Feature is a derivative capability an Evaluator may be asked to provide.
type Feature int

const (
	// Gradient of the objective.
	Gradient Feature = iota
	// Jacobian of the constraints.
	Jacobian
	// JacobianVectorProduct of the constraints.
	JacobianVectorProduct
	// HessianOfLagrangian in coordinate form.
	HessianOfLagrangian
	// HessianVectorProduct of the Lagrangian.
	HessianVectorProduct
)

func (f Feature) String() string {
	switch f {
	case Gradient:
		return "Gradient"
	case Jacobian:
		return "Jacobian"
	case JacobianVectorProduct:
		return "JacobianVectorProduct"
	case HessianOfLagrangian:
		return "HessianOfLagrangian"
	case HessianVectorProduct:
		return "HessianVectorProduct"
	default:
		return "UnknownFeature"
	}
}

// RequiredFeatures returns the capability set the engine requests at load.
func RequiredFeatures() []Feature {
	return []Feature{Gradient, HessianOfLagrangian}
}
