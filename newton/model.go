// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"

	"github.com/curioloop/newton/sparse"
)

// Solver constructs problem models.
type Solver interface {
	NewModel() Model
}

// Model is a single problem instance: it owns the iterate, the cached Hessian
// pattern and the status. It is not safe for concurrent use.
type Model interface {
	// Load validates the problem, initializes the evaluator and captures the Hessian pattern.
	// The iterate is reset to the zero vector. A failed load leaves the model unchanged.
	Load(p *Problem) error
	// SetWarmStart replaces the iterate and makes the model Ready.
	SetWarmStart(x []float64) error
	// Optimize runs the Newton iteration from the current iterate. The model must be
	// Ready: Optimal and Failed are terminal until Load or SetWarmStart.
	Optimize() error

	Status() Status
	// Solution returns a copy of the current iterate.
	Solution() []float64
	// ObjectiveValue evaluates the objective at the current iterate.
	ObjectiveValue() (float64, error)
	// ConstraintDuals is always empty, constraints are not modeled.
	ConstraintDuals() []float64
	// ReducedCosts is always zero, bounds are not modeled.
	ReducedCosts() []float64
	// Iterations returns the number of Newton steps taken by the last Optimize.
	Iterations() int
	// GradientNorm returns ‖∇𝒇‖₂ at the last iterate computed by Optimize.
	GradientNorm() float64
}

// Config is the solver configuration. The method has no tunable options; Config only
// carries the collaborators shared by the models it creates.
type Config struct {
	// Logger receives lifecycle messages, see the Log* verbosity levels.
	Logger logr.Logger
	// Observer receives the progress of every iteration. Optional.
	Observer Observer
}

var _ Solver = Config{}

// NewModel creates an Uninitialized model.
func (c Config) NewModel() Model {
	log := c.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	obs := c.Observer
	if obs == nil {
		obs = ObserverFunc(func(Progress) {})
	}
	return &model{base: log, log: log, observer: obs}
}

type model struct {
	base     logr.Logger
	log      logr.Logger
	observer Observer

	n         int
	evaluator Evaluator
	hess      *sparse.Triplets // pattern fixed at load, values refreshed per iteration
	status    Status

	x     []float64 // n
	g     []float64 // n
	step  []float64 // n
	gNorm float64
	iter  int
	chol  sparse.Cholesky
}

func (m *model) Load(p *Problem) error {

	if err := p.check(); err != nil {
		return err
	}

	eval := p.Evaluator
	var initErr error
	if err := safeEval("init", func() {
		initErr = eval.Init(RequiredFeatures())
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if initErr != nil {
		return fmt.Errorf("%w: evaluator init: %w", ErrConfiguration, initErr)
	}

	var rows, cols []int
	if err := safeEval("hessian structure", func() {
		rows, cols = eval.HessianLagrangianStructure()
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	hess := sparse.NewTriplets(rows, cols)
	if err := hess.Check(p.NumVar); err != nil {
		return fmt.Errorf("%w: hessian structure: %w", ErrConfiguration, err)
	}

	n := p.NumVar
	*m = model{
		base:      m.base,
		log:       m.base.WithValues("n", n),
		observer:  m.observer,
		n:         n,
		evaluator: eval,
		hess:      hess,
		status:    Ready,
		x:         make([]float64, n),
		g:         make([]float64, n),
		step:      make([]float64, n),
	}

	m.log.V(LogLast).Info("problem loaded", "hessianNonzeros", hess.Len())
	return nil
}

func (m *model) SetWarmStart(x []float64) error {
	switch {
	case m.status == Uninitialized:
		return ErrNotLoaded
	case len(x) != m.n:
		return fmt.Errorf("%w: warm start size %d, problem size %d", ErrDimensionMismatch, len(x), m.n)
	}
	copy(m.x, x)
	m.status = Ready
	return nil
}

func (m *model) Optimize() error {
	switch m.status {
	case Uninitialized:
		return ErrNotLoaded
	case Optimal, Failed:
		return fmt.Errorf("%w: status is %v", ErrNotReady, m.status)
	}
	driver := iterDriver{model: m}
	return driver.mainLoop()
}

func (m *model) Status() Status {
	return m.status
}

func (m *model) Solution() []float64 {
	return slices.Clone(m.x)
}

func (m *model) ObjectiveValue() (f float64, err error) {
	if m.status == Uninitialized {
		return 0, ErrNotLoaded
	}
	err = safeEval("objective", func() {
		f = m.evaluator.Objective(m.x)
	})
	return
}

func (m *model) ConstraintDuals() []float64 {
	return []float64{}
}

func (m *model) ReducedCosts() []float64 {
	return make([]float64, m.n)
}

func (m *model) Iterations() int {
	return m.iter
}

func (m *model) GradientNorm() float64 {
	return m.gNorm
}
