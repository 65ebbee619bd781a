// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/newton/internal/problem"
	"github.com/curioloop/newton/newton"
	"github.com/curioloop/newton/sparse"
)

func sparseDiag(v float64) *sparse.Triplets {
	return &sparse.Triplets{Rows: []int{0}, Cols: []int{0}, Vals: []float64{v}}
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	_, ok := rec.Last()
	assert.False(t, ok)

	m := newton.Config{Observer: &rec}.NewModel()
	require.NoError(t, m.Load(&newton.Problem{NumVar: 2, Evaluator: problem.Rosenbrock{N: 2}}))
	require.NoError(t, m.SetWarmStart([]float64{-1.2, 1}))
	require.NoError(t, m.Optimize())

	history := rec.History()
	require.Len(t, history, m.Iterations()+1)
	assert.Equal(t, []float64{-1.2, 1}, history[0].X)
	for k, p := range history {
		assert.Equal(t, k, p.Iter)
	}
	assert.NotEqual(t, history[0].X, history[1].X)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, m.Solution(), last.X)
	assert.Equal(t, m.GradientNorm(), last.GradNorm)

	rec.Reset()
	assert.Empty(t, rec.History())
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	var calls int
	obs := Multi(&a, nil, newton.ObserverFunc(func(newton.Progress) { calls++ }), &b)

	x := []float64{1, 2}
	obs.Observe(newton.Progress{Iter: 0, GradNorm: 3, X: x})
	x[0] = 7

	assert.Equal(t, 1, calls)
	for _, r := range []*Recorder{&a, &b} {
		p, ok := r.Last()
		require.True(t, ok)
		assert.Equal(t, []float64{1, 2}, p.X)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	var rec Recorder
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(c float64) {
			defer wg.Done()
			m := newton.Config{Observer: &rec}.NewModel()
			if err := m.Load(&newton.Problem{NumVar: 1, Evaluator: problem.Separable([]float64{c})}); err != nil {
				panic(fmt.Sprint(err))
			}
			if err := m.Optimize(); err != nil {
				panic(fmt.Sprint(err))
			}
		}(float64(i + 1))
	}
	wg.Wait()
	assert.Len(t, rec.History(), 16)
}
