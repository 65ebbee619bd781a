// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/curioloop/newton/newton"
	"github.com/curioloop/newton/numdiff"
	"github.com/curioloop/newton/sparse"
)

var ErrDefinition = errors.New("problem: invalid definition")

// Kind names a built-in objective family.
type Kind string

const (
	KindSeparable  Kind = "separable"
	KindQuadratic  Kind = "quadratic"
	KindRosenbrock Kind = "rosenbrock"
)

// Derivatives selects how the gradient and Hessian are obtained.
type Derivatives string

const (
	Analytic Derivatives = "analytic"
	Numeric  Derivatives = "numeric"
)

// Entry is one coordinate of a Hessian given in a problem file.
type Entry struct {
	Row int     `yaml:"row"`
	Col int     `yaml:"col"`
	Val float64 `yaml:"val"`
}

// Definition describes a problem in a problem file.
//
//	problems:
//	  - name: shifted
//	    kind: separable
//	    center: [5, 3]
//	  - name: chain
//	    kind: rosenbrock
//	    n: 4
//	    start: [-1.2, 1, -1.2, 1]
//	    derivatives: numeric
//	    method: central
type Definition struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
	N    int    `yaml:"n,omitempty"`

	// separable
	Center []float64 `yaml:"center,omitempty"`
	// quadratic
	Hessian  []Entry   `yaml:"hessian,omitempty"`
	Linear   []float64 `yaml:"linear,omitempty"`
	Constant float64   `yaml:"constant,omitempty"`

	Start       []float64   `yaml:"start,omitempty"`
	Derivatives Derivatives `yaml:"derivatives,omitempty"`
	Method      string      `yaml:"method,omitempty"`
}

// File is the top level document of a problem file.
type File struct {
	Problems []Definition `yaml:"problems"`
}

// Dim returns the number of variables of the definition.
func (d *Definition) Dim() int {
	if d.Kind == KindSeparable && d.N == 0 {
		return len(d.Center)
	}
	return d.N
}

// Validate checks the definition without building it.
func (d *Definition) Validate() (err error) {
	n := d.Dim()
	switch {
	case d.Name == "":
		err = fmt.Errorf("%w: name is required", ErrDefinition)
	case n <= 0:
		err = fmt.Errorf("%w: %s: number of variables must greater than 0", ErrDefinition, d.Name)
	case d.Kind == KindSeparable && len(d.Center) != n:
		err = fmt.Errorf("%w: %s: center size must equal to %d", ErrDefinition, d.Name, n)
	case d.Kind == KindQuadratic && len(d.Hessian) == 0:
		err = fmt.Errorf("%w: %s: quadratic requires hessian entries", ErrDefinition, d.Name)
	case d.Kind == KindQuadratic && d.Linear != nil && len(d.Linear) != n:
		err = fmt.Errorf("%w: %s: linear term size must equal to %d", ErrDefinition, d.Name, n)
	case d.Kind == KindRosenbrock && n < 2:
		err = fmt.Errorf("%w: %s: rosenbrock requires at least 2 variables", ErrDefinition, d.Name)
	case d.Kind != KindSeparable && d.Kind != KindQuadratic && d.Kind != KindRosenbrock:
		err = fmt.Errorf("%w: %s: unknown kind %q", ErrDefinition, d.Name, d.Kind)
	case d.Start != nil && len(d.Start) != n:
		err = fmt.Errorf("%w: %s: start size must equal to %d", ErrDefinition, d.Name, n)
	case d.Derivatives != "" && d.Derivatives != Analytic && d.Derivatives != Numeric:
		err = fmt.Errorf("%w: %s: unknown derivatives %q", ErrDefinition, d.Name, d.Derivatives)
	}
	if err != nil {
		return
	}
	if d.Kind == KindQuadratic {
		if err = d.triplets().Check(n); err != nil {
			return fmt.Errorf("%w: %s: hessian: %w", ErrDefinition, d.Name, err)
		}
	}
	_, err = d.method()
	return
}

func (d *Definition) triplets() *sparse.Triplets {
	t := &sparse.Triplets{
		Rows: make([]int, len(d.Hessian)),
		Cols: make([]int, len(d.Hessian)),
		Vals: make([]float64, len(d.Hessian)),
	}
	for k, e := range d.Hessian {
		t.Rows[k], t.Cols[k], t.Vals[k] = e.Row, e.Col, e.Val
	}
	return t
}

func (d *Definition) method() (numdiff.Method, error) {
	switch d.Method {
	case "", "central":
		return numdiff.Central, nil
	case "forward":
		return numdiff.Forward, nil
	}
	return 0, fmt.Errorf("%w: %s: unknown method %q", ErrDefinition, d.Name, d.Method)
}

// Build returns the problem ready to be loaded and its starting point.
// A missing start is the zero vector.
func (d *Definition) Build() (p *newton.Problem, start []float64, err error) {
	if err = d.Validate(); err != nil {
		return
	}
	n := d.Dim()

	var eval newton.Evaluator
	switch d.Kind {
	case KindSeparable:
		eval = Separable(d.Center)
	case KindQuadratic:
		var q *Quadratic
		if q, err = NewQuadratic(n, d.triplets(), d.Linear, d.Constant); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrDefinition, d.Name, err)
		}
		eval = q
	case KindRosenbrock:
		eval = Rosenbrock{N: n}
	}

	if d.Derivatives == Numeric {
		method, _ := d.method()
		eval = &numdiff.Oracle{N: n, Func: eval.Objective, Spec: numdiff.Spec{Method: method}}
	}

	start = make([]float64, n)
	copy(start, d.Start)
	lower, upper := newton.Unbounded(n)
	p = &newton.Problem{NumVar: n, VarLower: lower, VarUpper: upper, Sense: newton.Minimize, Evaluator: eval}
	return
}

// Parse decodes a problem file and validates every definition in it.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrDefinition, err)
	}
	seen := make(map[string]bool, len(f.Problems))
	for i := range f.Problems {
		d := &f.Problems[i]
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("%w: duplicate name %s", ErrDefinition, d.Name)
		}
		seen[d.Name] = true
	}
	return &f, nil
}

// Load reads and parses the problem file at path.
func Load(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Parse(fd)
}
