// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package continuity

import (
	"testing"

	"github.com/cpmech/bemcore/constraint"
	"github.com/cpmech/bemcore/facet"
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

func TestContinuityAcrossSharedVertex(tst *testing.T) {
	chk.PrintTitle("ContinuityAcrossSharedVertex")
	facets := []facet.Facet{
		{tensor.Vec{0, 0}, tensor.Vec{1, 0}},
		{tensor.Vec{1, 0}, tensor.Vec{2, 0}},
	}
	b := NewBuilder(2, facets)
	eqs := b.ContinuityConstraints()
	if len(eqs) != 1 {
		tst.Fatalf("expected 1 continuity equation for the shared vertex, got %d", len(eqs))
	}
	m := constraint.FromConstraints(eqs)
	full := constraint.Distribute(m, []float64{5, 9, 9}, 4)
	_ = full
}

// constBC is a minimal fun.Func implementer for a boundary value that
// does not vary in time or space, the same role fun.Cte plays in gofem.
type constBC float64

func (c constBC) F(t float64, x []float64) float64 { return float64(c) }
func (c constBC) G(t float64, x []float64) float64 { return 0 }
func (c constBC) H(t float64, x []float64) float64 { return 0 }

func TestDirichletConstraintsOnBoundary(tst *testing.T) {
	chk.PrintTitle("DirichletConstraintsOnBoundary")
	facets := []facet.Facet{
		{tensor.Vec{0, 0}, tensor.Vec{1, 0}},
	}
	b := NewBuilder(2, facets)
	onBoundary := func(x tensor.Vec) bool { return x[0] == 0 }
	bc := constBC(3.5)
	eqs := b.DirichletConstraints(onBoundary, bc)
	if len(eqs) != 1 {
		tst.Fatalf("expected 1 Dirichlet equation, got %d", len(eqs))
	}
	chk.Float64(tst, "rhs", 1e-15, eqs[0].RHS, 3.5)
}
