// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import (
	"math"
	"testing"

	"github.com/cpmech/bemcore/kernel"
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
)

func randomPoints(n int) []tensor.Vec {
	rnd.Init(0)
	pts := make([]tensor.Vec, n)
	for i := range pts {
		pts[i] = tensor.Vec{rnd.Float64(0, 1), rnd.Float64(0, 1), rnd.Float64(0, 1)}
	}
	return pts
}

func randomValues(n int) [][]float64 {
	rnd.Init(1)
	out := make([][]float64, n)
	for i := range out {
		out[i] = []float64{rnd.Float64(0, 1)}
	}
	return out
}

func maxRelError(fmmOut, directOut [][]float64) float64 {
	worst := 0.0
	for i := range fmmOut {
		for c := range fmmOut[i] {
			d := math.Abs(fmmOut[i][c] - directOut[i][c])
			denom := math.Abs(directOut[i][c])
			if denom < 1e-12 {
				denom = 1
			}
			rel := d / denom
			if rel > worst {
				worst = rel
			}
		}
	}
	return worst
}

// TestFMMVsDirect checks 1000 random points in the unit cube, Laplace
// single kernel, p=5, MAC2=3.0: the max relative error against the
// O(N^2) direct sum must stay small.
func TestFMMVsDirect(tst *testing.T) {
	chk.PrintTitle("FMMVsDirect")
	pts := randomPoints(1000)
	values := randomValues(1000)
	pset := PointSet{Locations: pts}
	k := kernel.LaplaceSingle3D{}

	ev := NewEvaluator(Params{NExpPts: 5, MAC2: 3.0, MaxElementsPerCell: 16}, k, pset, pset)
	fmmOut := ev.Evaluate(values)
	directOut := DirectSum(k, pset, pset, values)

	err := maxRelError(fmmOut, directOut)
	if err > 1e-3 {
		tst.Fatalf("max relative error %v exceeds tolerance", err)
	}
}

// TestMAC2ZeroMatchesDirect checks that with MAC2=0 every cell pair
// fails the well-separated test, so the traversal degenerates to the
// exact direct sum.
func TestMAC2ZeroMatchesDirect(tst *testing.T) {
	chk.PrintTitle("MAC2ZeroMatchesDirect")
	pts := randomPoints(200)
	values := randomValues(200)
	pset := PointSet{Locations: pts}
	k := kernel.LaplaceSingle3D{}

	ev := NewEvaluator(Params{NExpPts: 3, MAC2: 0, MaxElementsPerCell: 8}, k, pset, pset)
	fmmOut := ev.Evaluate(values)
	directOut := DirectSum(k, pset, pset, values)

	err := maxRelError(fmmOut, directOut)
	if err > 1e-9 {
		tst.Fatalf("MAC2=0 traversal should match direct sum exactly, got relative error %v", err)
	}
}

// TestConvergenceUnderIncreasingOrder checks that doubling the
// expansion order at fixed MAC2 does not make accuracy worse, for a
// smooth kernel on a well-separated point configuration.
func TestConvergenceUnderIncreasingOrder(tst *testing.T) {
	chk.PrintTitle("ConvergenceUnderIncreasingOrder")
	pts := randomPoints(400)
	values := randomValues(400)
	pset := PointSet{Locations: pts}
	k := kernel.LaplaceSingle3D{}
	directOut := DirectSum(k, pset, pset, values)

	errLowOrder := maxRelError(NewEvaluator(Params{NExpPts: 2, MAC2: 3.0, MaxElementsPerCell: 16}, k, pset, pset).Evaluate(values), directOut)
	errHighOrder := maxRelError(NewEvaluator(Params{NExpPts: 4, MAC2: 3.0, MaxElementsPerCell: 16}, k, pset, pset).Evaluate(values), directOut)

	if errHighOrder > errLowOrder {
		tst.Fatalf("higher expansion order (4) did not improve accuracy over order 2: %v vs %v", errHighOrder, errLowOrder)
	}
}
