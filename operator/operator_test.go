// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"testing"

	"github.com/cpmech/bemcore/constraint"
	"github.com/cpmech/bemcore/facet"
	"github.com/cpmech/bemcore/integral"
	"github.com/cpmech/bemcore/kernel"
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

func TestAssembleProducesExpectedShape(tst *testing.T) {
	chk.PrintTitle("AssembleProducesExpectedShape")

	obsFacets := []facet.Info{
		facet.Build(facet.Facet{tensor.Vec{0, 0, 0}, tensor.Vec{1, 0, 0}, tensor.Vec{0, 1, 0}}),
	}
	srcFacets := []facet.Info{
		facet.Build(facet.Facet{tensor.Vec{5, 5, 5}, tensor.Vec{6, 5, 5}, tensor.Vec{5, 6, 5}}),
	}

	cfg := Config{
		K:             kernel.LaplaceSingle3D{},
		Thresholds:    integral.DefaultThresholds(),
		FarOrder:      4,
		ObsQuadOrder:  4,
		Nearfield:     integral.AdaptiveIntegrator{Tolerance: 1e-8},
		SingularSteps: []float64{1, 0.5, 0.25, 0.125, 0.0625},
	}

	op := Assemble(cfg, obsFacets, srcFacets)
	if op.NCompRows != 1 || op.NCompCols != 1 {
		tst.Fatalf("expected a 1x1 block grid for a scalar kernel, got %dx%d", op.NCompRows, op.NCompCols)
	}
	r, c := op.Ops[0].Dims()
	if r != 3 || c != 3 {
		tst.Fatalf("expected a 3x3 dense block (dim*1 facet each side), got %dx%d", r, c)
	}
}

func TestCondenseReducesShape(tst *testing.T) {
	chk.PrintTitle("CondenseReducesShape")

	obsFacets := []facet.Info{
		facet.Build(facet.Facet{tensor.Vec{0, 0, 0}, tensor.Vec{1, 0, 0}, tensor.Vec{0, 1, 0}}),
	}
	cfg := Config{
		K:             kernel.LaplaceSingle3D{},
		Thresholds:    integral.DefaultThresholds(),
		FarOrder:      4,
		ObsQuadOrder:  4,
		Nearfield:     integral.AdaptiveIntegrator{Tolerance: 1e-8},
		SingularSteps: []float64{1, 0.5, 0.25, 0.125, 0.0625},
	}
	op := Assemble(cfg, obsFacets, obsFacets)

	rowCM := constraint.FromConstraints([]constraint.EQ{
		{Terms: []constraint.LinearTerm{{DOF: 0, Weight: 1}}, RHS: 0},
	})
	condensed := Condense([]constraint.Matrix{rowCM}, []constraint.Matrix{rowCM}, op)
	r, c := condensed.Ops[0].Dims()
	if r != 2 || c != 2 {
		tst.Fatalf("expected condensation to drop 1 row and 1 col, got %dx%d", r, c)
	}
}
