// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/newton/newton"
)

func TestStrings(t *testing.T) {
	assert.Equal(t, "Uninitialized", newton.Uninitialized.String())
	assert.Equal(t, "Optimal", newton.Optimal.String())
	assert.Equal(t, "Failed", newton.Failed.String())
	assert.Equal(t, "Maximize", newton.Maximize.String())
	assert.Equal(t, "HessianOfLagrangian", newton.HessianOfLagrangian.String())
}

func TestCheckFeatures(t *testing.T) {
	require.NoError(t, newton.CheckFeatures(newton.RequiredFeatures(), newton.Gradient, newton.Jacobian, newton.HessianOfLagrangian))
	err := newton.CheckFeatures(newton.RequiredFeatures(), newton.Gradient)
	require.ErrorIs(t, err, newton.ErrUnsupportedFeature)
	assert.Contains(t, err.Error(), "HessianOfLagrangian")
}

func TestUnbounded(t *testing.T) {
	lower, upper := newton.Unbounded(3)
	require.Len(t, lower, 3)
	for i := range lower {
		assert.True(t, math.IsInf(lower[i], -1))
		assert.True(t, math.IsInf(upper[i], 1))
	}
}
