// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStatusTransitions(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Model Status Suite")
}
