// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integral

import (
	"testing"

	"github.com/cpmech/bemcore/facet"
	"github.com/cpmech/bemcore/kernel"
	"github.com/cpmech/bemcore/quadrature"
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

// TestSingleLayerNearfieldIntegral checks a hand-verified case: a facet
// with vertices (0,0,0), (2,0,0), (0,1,0), unit source density, the
// Laplace single-layer kernel, observed from (2,2,2). The point lies
// about 2.68 from the facet, inside FarThreshold (3) times the facet's
// length scale (about 1.37), so ComputeTerm routes it through the
// nearfield (adaptive) integrator. The expected value 0.0269063 was
// computed independently against the same facet and observation point.
func TestSingleLayerNearfieldIntegral(tst *testing.T) {
	chk.PrintTitle("SingleLayerNearfieldIntegral")

	f := facet.Facet{
		tensor.Vec{0, 0, 0},
		tensor.Vec{2, 0, 0},
		tensor.Vec{0, 1, 0},
	}
	info := facet.Build(f)
	k := kernel.LaplaceSingle3D{}

	obs := ObsPt{Loc: tensor.Vec{2, 2, 2}, Normal: tensor.Vec{0, 0, 1}}
	term := Term{Obs: obs, SrcFace: info}

	strat := Strategy{
		K:          k,
		Thresholds: DefaultThresholds(),
		FarQuad:    quadrature.GaussTriangle(10),
		Nearfield:  AdaptiveIntegrator{Tolerance: 1e-10},
	}

	infl := strat.ComputeTerm(term)
	total := 0.0
	for b := range infl {
		total += infl[b][0][0]
	}
	chk.Float64(tst, "integral", 1e-5, total, 0.0269063)
}

func TestClassifyThresholds(tst *testing.T) {
	chk.PrintTitle("ClassifyThresholds")
	f := facet.Facet{tensor.Vec{0, 0, 0}, tensor.Vec{1, 0, 0}, tensor.Vec{0, 1, 0}}
	info := facet.Build(f)
	th := DefaultThresholds()

	_, cls := th.Classify(tensor.Vec{0.1, 0.1, 0}, info)
	if cls != facet.Singular {
		tst.Fatalf("expected Singular for a point on the facet, got %v", cls)
	}

	_, cls = th.Classify(tensor.Vec{100, 100, 100}, info)
	if cls != facet.Farfield {
		tst.Fatalf("expected Farfield for a distant point, got %v", cls)
	}
}

func TestSinhIntegratorAgreesWithAdaptiveNearfield(tst *testing.T) {
	chk.PrintTitle("SinhIntegratorAgreesWithAdaptiveNearfield")
	f := facet.Facet{tensor.Vec{0, 0, 0}, tensor.Vec{1, 0, 0}, tensor.Vec{0, 1, 0}}
	info := facet.Build(f)
	k := kernel.LaplaceSingle3D{}
	obsLoc := tensor.Vec{0.3, 0.3, 0.2}
	term := Term{Obs: ObsPt{Loc: obsLoc, Normal: tensor.Vec{0, 0, 1}}, SrcFace: info}
	near := facet.ClosestPoint(obsLoc, f)

	adaptive := AdaptiveIntegrator{Tolerance: 1e-9}.ComputeNearfield(k, term, near)
	sinh := SinhIntegrator{Order: 8, OrderGrowthRate: 4}.ComputeNearfield(k, term, near)

	for b := range adaptive {
		chk.Float64(tst, "influence", 1e-4, adaptive[b][0][0], sinh[b][0][0])
	}
}
