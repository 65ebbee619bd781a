// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor provides newton.Observer implementations for diagnostics:
// a Prometheus collector of iteration progress and an in-memory recorder.
package monitor
