// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

// Progress is the state reported after every iteration.
// Iter 0 is the starting point, Iter k the point reached after k Newton steps.
type Progress struct {
	Iter     int
	GradNorm float64
	// X aliases the iterate of the model, it is only valid during the Observe call.
	X []float64
}

// Observer receives iteration progress. Observe is called synchronously from Optimize.
type Observer interface {
	Observe(p Progress)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(p Progress)

func (f ObserverFunc) Observe(p Progress) {
	f(p)
}
