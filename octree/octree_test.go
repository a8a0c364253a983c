// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package octree

import (
	"math"
	"sort"
	"testing"

	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
)

func randomPoints(n, dim int) []tensor.Vec {
	rnd.Init(0)
	pts := make([]tensor.Vec, n)
	for i := range pts {
		v := make(tensor.Vec, dim)
		for d := 0; d < dim; d++ {
			v[d] = rnd.Float64(0, 1)
		}
		pts[i] = v
	}
	return pts
}

func TestCoverageIsExactPartition(tst *testing.T) {
	chk.PrintTitle("CoverageIsExactPartition")
	pts := randomPoints(500, 3)
	tree := Build(3, pts, nil, 8)
	covered := tree.Coverage()
	if len(covered) != len(pts) {
		tst.Fatalf("coverage size %d != %d", len(covered), len(pts))
	}
	sort.Ints(covered)
	for i, v := range covered {
		if v != i {
			tst.Fatalf("coverage is not an exact partition of [0,N) at position %d: got %d", i, v)
		}
	}
}

func TestNearestMatchesBruteForce(tst *testing.T) {
	chk.PrintTitle("NearestMatchesBruteForce")
	pts := randomPoints(300, 3)
	tree := Build(3, pts, nil, 8)

	query := tensor.Vec{0.5, 0.5, 0.5}
	exact := func(orig int, q tensor.Vec) float64 {
		return pts[orig].Sub(q).Norm()
	}

	all := make([]int, len(pts))
	for i := range all {
		all[i] = i
	}
	brute := BruteForceNearest(query, all, nil, nil, exact)
	fromTree := tree.Nearest(query, exact)

	if math.Abs(brute.Distance-fromTree.Distance) > 1e-9 {
		tst.Fatalf("tree nearest distance %v != brute force %v", fromTree.Distance, brute.Distance)
	}
}
