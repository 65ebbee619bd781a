// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"slices"
	"sync"

	"github.com/curioloop/newton/newton"
)

// Recorder keeps every observed progress with a private copy of the iterate.
type Recorder struct {
	mu      sync.Mutex
	history []newton.Progress
}

var _ newton.Observer = (*Recorder)(nil)

func (r *Recorder) Observe(p newton.Progress) {
	p.X = slices.Clone(p.X)
	r.mu.Lock()
	r.history = append(r.history, p)
	r.mu.Unlock()
}

// History returns the recorded progress in observation order.
func (r *Recorder) History() []newton.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.history)
}

// Last returns the latest recorded progress.
func (r *Recorder) Last() (p newton.Progress, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return
	}
	return r.history[len(r.history)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.history = nil
	r.mu.Unlock()
}

// Multi fans out every progress to the given observers in order. Nil observers are skipped.
func Multi(observers ...newton.Observer) newton.Observer {
	observers = slices.DeleteFunc(slices.Clone(observers), func(o newton.Observer) bool {
		return o == nil
	})
	return newton.ObserverFunc(func(p newton.Progress) {
		for _, o := range observers {
			o.Observe(p)
		}
	})
}
