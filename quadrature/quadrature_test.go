// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadrature

import (
	"testing"

	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

func TestGaussEdgeWeightsSumToOne(tst *testing.T) {
	chk.PrintTitle("GaussEdgeWeightsSumToOne")
	rule := GaussEdge(6)
	sum := 0.0
	for _, p := range rule {
		sum += p.W
	}
	chk.Float64(tst, "sum(w)", 1e-12, sum, 1.0)
}

func TestGaussTriangleWeightsSumToHalf(tst *testing.T) {
	chk.PrintTitle("GaussTriangleWeightsSumToHalf")
	rule := GaussTriangle(8)
	sum := 0.0
	for _, p := range rule {
		sum += p.W
	}
	chk.Float64(tst, "sum(w)", 1e-10, sum, 0.5)
}

func TestAdaptive1DIntegratesPolynomialExactly(tst *testing.T) {
	chk.PrintTitle("Adaptive1DIntegratesPolynomialExactly")
	// integral of x^2 over [0,1] is 1/3
	f := func(x float64) tensor.Influence {
		v := tensor.NewInfluence(1, 1, 1)
		v[0][0][0] = x * x
		return v
	}
	result, ok := Adaptive1D(f, 0, 1, 1e-10, 1, 1, 1)
	if !ok {
		tst.Fatal("adaptive integration did not converge")
	}
	chk.Float64(tst, "integral", 1e-8, result[0][0][0], 1.0/3.0)
}

func TestRichardsonExactness(tst *testing.T) {
	chk.PrintTitle("RichardsonExactness")
	// f(h) = a + b*h + c*h^2, want a recovered as h -> 0
	a, b, c := 0.0269063, 1.5, -2.3
	steps := RichardsonSteps(5)
	influences := make([]tensor.Influence, len(steps))
	for i, h := range steps {
		v := tensor.NewInfluence(1, 1, 1)
		v[0][0][0] = a + b*h + c*h*h
		influences[i] = v
	}
	limit := RichardsonLimit(2, influences)
	chk.Float64(tst, "limit", 1e-6, limit[0][0][0], a)
}
